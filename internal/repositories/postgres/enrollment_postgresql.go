package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/cache"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewEnrollmentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts an enrollment row. The composite unique index on
// (student_id, course_id) rejects duplicates; callers detect that with
// repositories.IsDuplicateKeyError. The error is returned untranslated so
// the predicate can see it.
func (r *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := r.getDB(tx).WithContext(ctx).Create(enrollment).Error; err != nil {
		return err
	}
	r.invalidateStudentViews(ctx, enrollment.StudentID)
	return nil
}

func (r *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var enrollment models.Enrollment
	if err := r.getDB(tx).WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return err
	}
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Enrollment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	r.invalidateStudentViews(ctx, enrollment.StudentID)
	return nil
}

func (r *EnrollmentPostgreSQL) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListStudentsByCourse returns the enrolled students with their user rows
// preloaded, in enrollment order. Feeds the roster export.
func (r *EnrollmentPostgreSQL) ListStudentsByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Student, error) {
	var students []*models.Student
	err := r.getDB(tx).WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = students.id").
		Where("enrollments.course_id = ?", courseID).
		Order("enrollments.created_at ASC").
		Preload("User").
		Find(&students).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students by course: %w", err)
	}
	return students, nil
}

func (r *EnrollmentPostgreSQL) CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error) {
	var count int64
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

// DeleteByCourse removes every enrollment referencing a course. Runs in the
// same transaction as the course delete so no orphan rows survive.
func (r *EnrollmentPostgreSQL) DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID uint) error {
	err := r.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollments for course: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, r.cacheManager.Course, "student:*")
	return nil
}

// DeleteByStudent removes every enrollment owned by a student, used when the
// student's profile is deleted.
func (r *EnrollmentPostgreSQL) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uint) error {
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Enrollment{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete enrollments for student: %w", err)
	}
	r.invalidateStudentViews(ctx, studentID)
	return nil
}

func (r *EnrollmentPostgreSQL) invalidateStudentViews(ctx context.Context, studentID uint) {
	cache.SafeDelete(ctx, r.cacheManager.Course,
		fmt.Sprintf("student:%d:available", studentID),
		fmt.Sprintf("student:%d:enrolled", studentID))
}
