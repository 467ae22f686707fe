package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

// TeacherPostgreSQL persists teacher role profiles.
type TeacherPostgreSQL struct {
	db *gorm.DB
}

func NewTeacherPostgreSQL(db *gorm.DB) repositories.TeacherRepository {
	return &TeacherPostgreSQL{db: db}
}

func (r *TeacherPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *TeacherPostgreSQL) Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if err := r.getDB(tx).WithContext(ctx).Create(teacher).Error; err != nil {
		return fmt.Errorf("failed to create teacher profile: %w", err)
	}
	return nil
}

func (r *TeacherPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.getDB(tx).WithContext(ctx).First(&teacher, id).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *TeacherPostgreSQL) Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error {
	if err := r.getDB(tx).WithContext(ctx).Save(teacher).Error; err != nil {
		return fmt.Errorf("failed to update teacher profile: %w", err)
	}
	return nil
}

func (r *TeacherPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Teacher{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete teacher profile: %w", err)
	}
	return nil
}

// StudentPostgreSQL persists student role profiles.
type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (r *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if err := r.getDB(tx).WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student profile: %w", err)
	}
	return nil
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error) {
	var student models.Student
	if err := r.getDB(tx).WithContext(ctx).First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error) {
	var student models.Student
	if err := r.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	if err := r.getDB(tx).WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student profile: %w", err)
	}
	return nil
}

func (r *StudentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Student{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete student profile: %w", err)
	}
	return nil
}
