package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/course-service/internal/events"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewCourseService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) CourseService {
	return &courseService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// Create makes a new course owned by the calling teacher. Students get
// ErrForbidden before anything is written.
func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, actor models.Actor) (*CourseResponse, error) {
	s.logger.Info("Creating course", "user_id", actor.UserID, "code", req.Code)

	if actor.Role != models.RoleTeacher {
		return nil, NewPermissionError(actor.UserID, 0, "course", "create", "only teachers can create courses")
	}

	if errs := s.validator.GetBusinessValidator().ValidateCourseCreate(req); len(errs) > 0 {
		return nil, errs
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}

	course := &models.Course{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		TeacherID:   teacher.ID,
	}
	course.AppendSyllabusAssets(req.SyllabusAssets)
	course.AppendVideoAssets(req.VideoAssets)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Course().Create(ctx, nil, course); err != nil {
			return err
		}
		return recordActivity(ctx, txRepo, actor.UserID, models.ActivityCourseCreated, map[string]interface{}{
			"course_id": course.ID,
			"code":      course.Code,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventCourseCreated, events.CourseEvent{
		CourseID:  course.ID,
		TeacherID: course.TeacherID,
		Name:      course.Name,
		Code:      course.Code,
	}))

	s.logger.Info("Course created successfully", "course_id", course.ID)
	return s.buildCourseResponse(ctx, course, actor), nil
}

// Update edits an owned course. New asset identifiers are appended to the
// existing lists, never replacing them.
func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, actor models.Actor) (*CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id, "user_id", actor.UserID)

	if errs := s.validator.GetBusinessValidator().ValidateCourseUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	course, _, err := s.ownedCourse(ctx, id, actor, "update")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	course.AppendSyllabusAssets(req.SyllabusAssets)
	course.AppendVideoAssets(req.VideoAssets)

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Course().Update(ctx, nil, course); err != nil {
			return err
		}
		return recordActivity(ctx, txRepo, actor.UserID, models.ActivityCourseUpdated, map[string]interface{}{
			"course_id": course.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventCourseUpdated, events.CourseEvent{
		CourseID:  course.ID,
		TeacherID: course.TeacherID,
		Name:      course.Name,
		Code:      course.Code,
	}))

	s.logger.Info("Course updated successfully", "course_id", course.ID)
	return s.buildCourseResponse(ctx, course, actor), nil
}

// Delete removes an owned course and its enrollment rows in one transaction,
// so no enrollment can outlive its course.
func (s *courseService) Delete(ctx context.Context, id uint, actor models.Actor) error {
	s.logger.Info("Deleting course", "course_id", id, "user_id", actor.UserID)

	course, _, err := s.ownedCourse(ctx, id, actor, "delete")
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Enrollment().DeleteByCourse(ctx, nil, course.ID); err != nil {
			return err
		}
		if err := txRepo.Course().Delete(ctx, nil, course.ID); err != nil {
			return err
		}
		return recordActivity(ctx, txRepo, actor.UserID, models.ActivityCourseDeleted, map[string]interface{}{
			"course_id": course.ID,
			"code":      course.Code,
		})
	})
	if err != nil {
		return err
	}

	s.publishEvent(ctx, events.NewEvent(events.EventCourseDeleted, events.CourseEvent{
		CourseID:  course.ID,
		TeacherID: course.TeacherID,
		Name:      course.Name,
		Code:      course.Code,
	}))

	s.logger.Info("Course deleted successfully", "course_id", course.ID)
	return nil
}

// GetByID returns one course. Any authenticated user may read a course
// description.
func (s *courseService) GetByID(ctx context.Context, id uint, actor models.Actor) (*CourseResponse, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return s.buildCourseResponse(ctx, course, actor), nil
}

func (s *courseService) List(ctx context.Context, filters repositories.CourseFilters, actor models.Actor) (*CourseListResponse, error) {
	courses, total, err := s.repo.Course().List(ctx, nil, filters)
	if err != nil {
		return nil, err
	}

	resp := &CourseListResponse{Total: total}
	for _, course := range courses {
		resp.Courses = append(resp.Courses, s.buildCourseResponse(ctx, course, actor))
	}
	return resp, nil
}

// ExportRoster renders the enrolled-student list as an xlsx workbook.
func (s *courseService) ExportRoster(ctx context.Context, id uint, actor models.Actor) ([]byte, error) {
	course, _, err := s.ownedCourse(ctx, id, actor, "export_roster")
	if err != nil {
		return nil, err
	}

	students, err := s.repo.Enrollment().ListStudentsByCourse(ctx, nil, course.ID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Roster"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name roster sheet: %w", err)
	}

	headers := []string{"Name", "Email", "Grade"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write roster header: %w", err)
		}
	}

	for row, student := range students {
		grade := ""
		if student.Grade != nil {
			grade = *student.Grade
		}
		values := []interface{}{student.User.Name, student.User.Email, grade}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write roster row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render roster workbook: %w", err)
	}

	s.logger.Info("Roster exported", "course_id", course.ID, "students", len(students))
	return buf.Bytes(), nil
}

// ===== HELPERS =====

// ownedCourse loads a course and verifies the actor is a teacher who owns
// it. Both checks short-circuit before any mutation.
func (s *courseService) ownedCourse(ctx context.Context, id uint, actor models.Actor, action string) (*models.Course, *models.Teacher, error) {
	if actor.Role != models.RoleTeacher {
		return nil, nil, NewPermissionError(actor.UserID, id, "course", action, "only teachers can "+action+" courses")
	}

	course, err := s.repo.Course().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrCourseNotFound
		}
		return nil, nil, fmt.Errorf("failed to get course: %w", err)
	}

	teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get teacher profile: %w", err)
	}

	if course.TeacherID != teacher.ID {
		return nil, nil, NewPermissionError(actor.UserID, id, "course", action, "not the owning teacher")
	}

	return course, teacher, nil
}

func (s *courseService) buildCourseResponse(ctx context.Context, course *models.Course, actor models.Actor) *CourseResponse {
	resp := &CourseResponse{Course: course}

	if actor.Role == models.RoleTeacher {
		teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, actor.UserID)
		switch {
		case err == nil:
			owns := course.TeacherID == teacher.ID
			resp.CanEdit = owns
			resp.CanDelete = owns
		case !repositories.IsNotFoundError(err):
			s.logger.Error("Failed to resolve teacher profile for course response",
				"course_id", course.ID, "user_id", actor.UserID, "error", err)
		}
	}

	count, err := s.repo.Enrollment().CountByCourse(ctx, nil, course.ID)
	if err != nil {
		s.logger.Error("Failed to count enrollments for course response",
			"course_id", course.ID, "error", err)
	} else {
		resp.EnrollmentCount = count
	}

	return resp
}

func (s *courseService) publishEvent(ctx context.Context, event *events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
