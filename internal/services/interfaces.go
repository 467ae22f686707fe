package services

import (
	"context"
	"time"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type ProfileUpdateRequest = validator.ProfileUpdateRequest
type CreateCourseRequest = validator.CourseCreateRequest
type UpdateCourseRequest = validator.CourseUpdateRequest

type AuthResponse struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// ProfileResponse merges User fields with the role-profile fields.
type ProfileResponse struct {
	ID       uint            `json:"id"`
	Email    string          `json:"email"`
	Username *string         `json:"username"`
	Role     models.UserRole `json:"role"`
	Name     string          `json:"name"`

	Bio *string `json:"bio"`

	// Teacher fields
	Education  *string `json:"education,omitempty"`
	Experience *string `json:"experience,omitempty"`

	// Student fields
	Grade *string `json:"grade,omitempty"`
}

type CourseResponse struct {
	*models.Course
	CanEdit         bool  `json:"can_edit"`
	CanDelete       bool  `json:"can_delete"`
	EnrollmentCount int64 `json:"enrollment_count"`
}

type CourseListResponse struct {
	Courses []*CourseResponse `json:"courses"`
	Total   int64             `json:"total"`
}

type ActivityListResponse struct {
	Entries []*models.ActivityLog `json:"entries"`
	Total   int64                 `json:"total"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	// Register creates the User and its role profile in one transaction.
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)

	// Login checks credentials and issues a session token.
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	// Logout revokes the session token identified by jti.
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
}

type ProfileService interface {
	Get(ctx context.Context, actor models.Actor) (*ProfileResponse, error)
	Update(ctx context.Context, req *ProfileUpdateRequest, actor models.Actor) (*ProfileResponse, error)

	// Delete removes the role profile, its dependents and the User row in
	// one transaction.
	Delete(ctx context.Context, actor models.Actor) error

	Activity(ctx context.Context, actor models.Actor, filters repositories.ActivityFilters) (*ActivityListResponse, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, actor models.Actor) (*CourseResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor models.Actor) (*CourseResponse, error)
	Delete(ctx context.Context, id uint, actor models.Actor) error
	GetByID(ctx context.Context, id uint, actor models.Actor) (*CourseResponse, error)
	List(ctx context.Context, filters repositories.CourseFilters, actor models.Actor) (*CourseListResponse, error)

	// ExportRoster renders the enrolled-student list as an xlsx workbook.
	// Only the owning teacher may export.
	ExportRoster(ctx context.Context, id uint, actor models.Actor) ([]byte, error)
}

type EnrollmentService interface {
	// BrowseAvailable returns all courses minus the student's enrolled set.
	BrowseAvailable(ctx context.Context, actor models.Actor) ([]*models.Course, error)

	Enroll(ctx context.Context, courseID uint, actor models.Actor) error
	Unenroll(ctx context.Context, courseID uint, actor models.Actor) error

	// ListCourses returns owned courses for a teacher and enrolled courses
	// for a student.
	ListCourses(ctx context.Context, actor models.Actor) ([]*models.Course, error)
}

// ServiceManager provides access to all services and manages their lifecycle.
type ServiceManager interface {
	Auth() AuthService
	Profile() ProfileService
	Course() CourseService
	Enrollment() EnrollmentService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
	HealthCheck(ctx context.Context) error
}
