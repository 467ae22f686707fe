package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	TeacherID *uint  `json:"teacher_id"`
	Query     string `json:"query"` // matches name or code
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "name", "code"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type ActivityFilters struct {
	Action *models.ActivityAction `json:"action"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// ===== ENTITY REPOSITORIES =====

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
}

type TeacherRepository interface {
	Create(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Teacher, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Teacher, error)
	Update(ctx context.Context, tx *gorm.DB, teacher *models.Teacher) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uint) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Course, error)
	Update(ctx context.Context, tx *gorm.DB, course *models.Course) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters CourseFilters) ([]*models.Course, int64, error)
	ListByTeacher(ctx context.Context, tx *gorm.DB, teacherID uint) ([]*models.Course, error)

	// ListAvailableForStudent returns all courses the student is not enrolled
	// in; ListEnrolledByStudent the complement.
	ListAvailableForStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error)
	ListEnrolledByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Course, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uint) (*models.Enrollment, error)

	ListByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Enrollment, error)
	ListStudentsByCourse(ctx context.Context, tx *gorm.DB, courseID uint) ([]*models.Student, error)
	CountByCourse(ctx context.Context, tx *gorm.DB, courseID uint) (int64, error)

	DeleteByCourse(ctx context.Context, tx *gorm.DB, courseID uint) error
	DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uint) error
}

type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error
	ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters ActivityFilters) ([]*models.ActivityLog, int64, error)
}

// ===== ERROR PREDICATES =====

// IsNotFoundError reports whether err is a missing-row error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// The enrollment ledger relies on this to surface racing duplicate enrolls.
func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
