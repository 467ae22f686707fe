package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// IsValid reports whether the role is one of the registerable roles.
func (r UserRole) IsValid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Actor identifies the authenticated user performing an operation.
// It is passed explicitly into every service call; there is no ambient
// current-user state.
type Actor struct {
	UserID uint     `json:"user_id"`
	Role   UserRole `json:"role"`
}

type User struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"not null;size:255"`
	Username     *string  `json:"username" gorm:"uniqueIndex;size:100"`
	Role         UserRole `json:"role" gorm:"not null;size:20"`
	Name         string   `json:"name" gorm:"size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Teacher is the role profile for a User with RoleTeacher.
type Teacher struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	UserID     uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Bio        *string `json:"bio" gorm:"type:text"`
	Education  *string `json:"education" gorm:"type:text"`
	Experience *string `json:"experience" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User    User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Courses []Course `json:"courses,omitempty" gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE"`
}

func (Teacher) TableName() string {
	return "teachers"
}

// Student is the role profile for a User with RoleStudent.
type Student struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	UserID uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Grade  *string `json:"grade" gorm:"size:50"`
	Bio    *string `json:"bio" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User        User         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

func (Student) TableName() string {
	return "students"
}
