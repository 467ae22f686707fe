package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Code        string `json:"code" gorm:"not null;size:50" validate:"required,min=1,max=50"`
	Description string `json:"description" gorm:"not null;type:text" validate:"required,max=2000"`
	TeacherID   uint   `json:"teacher_id" gorm:"not null;index"`

	// Asset identifiers, stored as comma-joined opaque names in upload order.
	SyllabusAssets *string `json:"syllabus_assets" gorm:"type:text"`
	VideoAssets    *string `json:"video_assets" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Teacher     Teacher      `json:"-" gorm:"foreignKey:TeacherID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

// SyllabusList returns the syllabus asset identifiers in upload order.
func (c *Course) SyllabusList() []string {
	return splitAssetList(c.SyllabusAssets)
}

// VideoList returns the video asset identifiers in upload order.
func (c *Course) VideoList() []string {
	return splitAssetList(c.VideoAssets)
}

// AppendSyllabusAssets appends identifiers to the syllabus list, preserving
// existing entries.
func (c *Course) AppendSyllabusAssets(names []string) {
	c.SyllabusAssets = appendAssetList(c.SyllabusAssets, names)
}

// AppendVideoAssets appends identifiers to the video list, preserving
// existing entries.
func (c *Course) AppendVideoAssets(names []string) {
	c.VideoAssets = appendAssetList(c.VideoAssets, names)
}

func splitAssetList(joined *string) []string {
	if joined == nil || *joined == "" {
		return nil
	}
	return strings.Split(*joined, ",")
}

func appendAssetList(joined *string, names []string) *string {
	if len(names) == 0 {
		return joined
	}
	merged := strings.Join(append(splitAssetList(joined), names...), ",")
	return &merged
}

// Enrollment links one Student to one Course. The composite unique index is
// the authoritative guard against duplicate pairs; racing inserts surface as
// a duplicate-key error from the storage layer.
type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID  uint `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_student_course"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Student Student `json:"-" gorm:"foreignKey:StudentID"`
	Course  Course  `json:"-" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
