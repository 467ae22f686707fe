package validator

import (
	"github.com/SAP-F-2025/course-service/internal/models"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Username        *string         `json:"username" validate:"omitempty,min=3,max=100"`
	Email           string          `json:"email" validate:"required,email,max=255"`
	Name            string          `json:"name" validate:"required,min=1,max=100"`
	Role            models.UserRole `json:"role" validate:"required,user_role"`
	Password        string          `json:"password" validate:"required,min=8,max=72"`
	ConfirmPassword string          `json:"confirm_password" validate:"required"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest carries the mutable user and role-profile fields.
// Role-inappropriate fields are ignored by the service.
type ProfileUpdateRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
	Bio  *string `json:"bio" validate:"omitempty,max=2000"`

	// Teacher fields
	Education  *string `json:"education" validate:"omitempty,max=2000"`
	Experience *string `json:"experience" validate:"omitempty,max=2000"`

	// Student fields
	Grade *string `json:"grade" validate:"omitempty,max=50"`
}

// CourseCreateRequest is the payload for creating a course. Asset lists hold
// identifiers returned by the file upload endpoint.
type CourseCreateRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=200"`
	Code           string   `json:"code" validate:"required,min=1,max=50"`
	Description    string   `json:"description" validate:"required,max=2000"`
	SyllabusAssets []string `json:"syllabus_assets" validate:"omitempty,max=20,dive,max=255"`
	VideoAssets    []string `json:"video_assets" validate:"omitempty,max=20,dive,max=255"`
}

// CourseUpdateRequest is the payload for editing a course. Asset lists are
// appended to the existing lists, never replaced.
type CourseUpdateRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Code           *string  `json:"code" validate:"omitempty,min=1,max=50"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	SyllabusAssets []string `json:"syllabus_assets" validate:"omitempty,max=20,dive,max=255"`
	VideoAssets    []string `json:"video_assets" validate:"omitempty,max=20,dive,max=255"`
}
