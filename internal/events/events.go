package events

import (
	"time"

	"github.com/google/uuid"
)

const EventSource = "course-service"

// Event types published to the events topic.
const (
	EventUserRegistered    = "user.registered"
	EventCourseCreated     = "course.created"
	EventCourseUpdated     = "course.updated"
	EventCourseDeleted     = "course.deleted"
	EventStudentEnrolled   = "enrollment.created"
	EventStudentUnenrolled = "enrollment.deleted"
)

// Event is the envelope for every domain event.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an event envelope with a fresh ID.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// ===== EVENT PAYLOADS =====

type UserRegisteredEvent struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type CourseEvent struct {
	CourseID  uint   `json:"course_id"`
	TeacherID uint   `json:"teacher_id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
}

type EnrollmentEvent struct {
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
}
