package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type enrollmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewEnrollmentService(repo repositories.Repository, logger *slog.Logger, publisher events.EventPublisher) EnrollmentService {
	return &enrollmentService{
		repo:      repo,
		logger:    logger,
		publisher: publisher,
	}
}

// BrowseAvailable returns every course the student is not yet enrolled in.
func (s *enrollmentService) BrowseAvailable(ctx context.Context, actor models.Actor) ([]*models.Course, error) {
	student, err := s.requireStudent(ctx, actor, 0, "browse")
	if err != nil {
		return nil, err
	}

	courses, err := s.repo.Course().ListAvailableForStudent(ctx, nil, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available courses: %w", err)
	}
	return courses, nil
}

// Enroll adds the student to a course. The unique index on
// (student_id, course_id) is the source of truth for duplicates: a concurrent
// double enroll loses the insert race and surfaces as ErrAlreadyEnrolled.
func (s *enrollmentService) Enroll(ctx context.Context, courseID uint, actor models.Actor) error {
	s.logger.Info("Enrolling student", "course_id", courseID, "user_id", actor.UserID)

	student, err := s.requireStudent(ctx, actor, courseID, "enroll")
	if err != nil {
		return err
	}

	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	enrollment := &models.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Create(ctx, nil, enrollment); err != nil {
			if repositories.IsDuplicateKeyError(err) {
				return ErrAlreadyEnrolled
			}
			return fmt.Errorf("failed to create enrollment: %w", err)
		}
		return recordActivity(ctx, txRepo, actor.UserID, models.ActivityStudentEnrolled, map[string]interface{}{
			"course_id": course.ID,
			"code":      course.Code,
		})
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventStudentEnrolled, events.EnrollmentEvent{
		StudentID: student.ID,
		CourseID:  course.ID,
	}))

	s.logger.Info("Student enrolled", "course_id", course.ID, "student_id", student.ID)
	return nil
}

// Unenroll removes the student's enrollment. The course itself is untouched.
func (s *enrollmentService) Unenroll(ctx context.Context, courseID uint, actor models.Actor) error {
	s.logger.Info("Unenrolling student", "course_id", courseID, "user_id", actor.UserID)

	student, err := s.requireStudent(ctx, actor, courseID, "unenroll")
	if err != nil {
		return err
	}

	enrollment, err := s.repo.Enrollment().GetByStudentAndCourse(ctx, nil, student.ID, courseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrNotEnrolled
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().Delete(ctx, nil, enrollment.ID); err != nil {
			return fmt.Errorf("failed to delete enrollment: %w", err)
		}
		return recordActivity(ctx, txRepo, actor.UserID, models.ActivityStudentDropped, map[string]interface{}{
			"course_id": courseID,
		})
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventStudentUnenrolled, events.EnrollmentEvent{
		StudentID: student.ID,
		CourseID:  courseID,
	}))

	s.logger.Info("Student unenrolled", "course_id", courseID, "student_id", student.ID)
	return nil
}

// ListCourses returns the actor's own slice of the catalog: owned courses for
// a teacher, enrolled courses for a student.
func (s *enrollmentService) ListCourses(ctx context.Context, actor models.Actor) ([]*models.Course, error) {
	switch actor.Role {
	case models.RoleTeacher:
		teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, actor.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get teacher profile: %w", err)
		}
		return s.repo.Course().ListByTeacher(ctx, nil, teacher.ID)

	case models.RoleStudent:
		student, err := s.repo.Student().GetByUserID(ctx, nil, actor.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		return s.repo.Course().ListEnrolledByStudent(ctx, nil, student.ID)

	default:
		return nil, NewPermissionError(actor.UserID, 0, "course", "list", "unknown role")
	}
}

// requireStudent resolves the actor's student profile, rejecting teachers.
func (s *enrollmentService) requireStudent(ctx context.Context, actor models.Actor, resourceID uint, action string) (*models.Student, error) {
	if actor.Role != models.RoleStudent {
		return nil, NewPermissionError(actor.UserID, resourceID, "enrollment", action, "only students can "+action)
	}

	student, err := s.repo.Student().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get student profile: %w", err)
	}
	return student, nil
}

func (s *enrollmentService) publishEvent(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
