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

type CoursePostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewCoursePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.CourseRepository {
	return &CoursePostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Create inserts a course and invalidates catalog caches.
func (r *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := r.getDB(tx).WithContext(ctx).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID, course.TeacherID)
	return nil
}

// GetByID retrieves a course by ID with caching.
func (r *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var course models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &course, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourse models.Course
		if err := r.getDB(tx).WithContext(ctx).First(&dbCourse, id).Error; err != nil {
			return nil, err
		}
		return &dbCourse, nil
	})
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if err := r.getDB(tx).WithContext(ctx).Save(course).Error; err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, course.ID, course.TeacherID)
	return nil
}

func (r *CoursePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	var course models.Course
	if err := r.getDB(tx).WithContext(ctx).First(&course, id).Error; err != nil {
		return err
	}
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Course{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	cache.InvalidateCourseCache(ctx, r.cacheManager, id, course.TeacherID)
	return nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.helpers.ApplyCourseFilters(r.getDB(tx).WithContext(ctx).Model(&models.Course{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var courses []*models.Course
	query = r.helpers.ApplyCourseSorting(query, filters)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

// ListByTeacher returns the courses a teacher owns, cached per teacher.
func (r *CoursePostgreSQL) ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error) {
	cacheKey := fmt.Sprintf("teacher:%d:list", teacherID)
	var courses []*models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &courses, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourses []*models.Course
		err := r.getDB(tx).WithContext(ctx).
			Where("teacher_id = ?", teacherID).
			Order("created_at DESC").
			Find(&dbCourses).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list courses by teacher: %w", err)
		}
		return dbCourses, nil
	})
	if err != nil {
		return nil, err
	}

	return courses, nil
}

// ListAvailableForStudent returns all courses whose id is not in the
// student's enrollment set.
func (r *CoursePostgreSQL) ListAvailableForStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error) {
	cacheKey := fmt.Sprintf("student:%d:available", studentID)
	var courses []*models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &courses, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourses []*models.Course
		err := r.getDB(tx).WithContext(ctx).
			Where("id NOT IN (?)",
				r.getDB(tx).Model(&models.Enrollment{}).
					Select("course_id").
					Where("student_id = ?", studentID)).
			Order("created_at DESC").
			Find(&dbCourses).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list available courses: %w", err)
		}
		return dbCourses, nil
	})
	if err != nil {
		return nil, err
	}

	return courses, nil
}

// ListEnrolledByStudent returns the courses joined through the student's
// enrollments.
func (r *CoursePostgreSQL) ListEnrolledByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error) {
	cacheKey := fmt.Sprintf("student:%d:enrolled", studentID)
	var courses []*models.Course

	err := r.cacheManager.Course.CacheOrExecute(ctx, cacheKey, &courses, cache.CourseCacheConfig.TTL, func() (interface{}, error) {
		var dbCourses []*models.Course
		err := r.getDB(tx).WithContext(ctx).
			Joins("JOIN enrollments ON enrollments.course_id = courses.id").
			Where("enrollments.student_id = ?", studentID).
			Order("enrollments.created_at DESC").
			Find(&dbCourses).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list enrolled courses: %w", err)
		}
		return dbCourses, nil
	})
	if err != nil {
		return nil, err
	}

	return courses, nil
}
