package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActivityUserRegistered  ActivityAction = "user.registered"
	ActivityProfileUpdated  ActivityAction = "profile.updated"
	ActivityProfileDeleted  ActivityAction = "profile.deleted"
	ActivityCourseCreated   ActivityAction = "course.created"
	ActivityCourseUpdated   ActivityAction = "course.updated"
	ActivityCourseDeleted   ActivityAction = "course.deleted"
	ActivityStudentEnrolled ActivityAction = "enrollment.created"
	ActivityStudentDropped  ActivityAction = "enrollment.deleted"
)

// ActivityLog records a significant mutation, written in the same transaction
// as the mutation itself.
type ActivityLog struct {
	ID      uint           `json:"id" gorm:"primaryKey"`
	UserID  uint           `json:"user_id" gorm:"not null;index"`
	Action  ActivityAction `json:"action" gorm:"not null;size:50;index"`
	Payload datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
