package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
	"github.com/SAP-F-2025/course-service/internal/validator"
)

type profileService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewProfileService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ProfileService {
	return &profileService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Get assembles the merged view of User fields and role-profile fields.
func (s *profileService) Get(ctx context.Context, actor models.Actor) (*ProfileResponse, error) {
	user, err := s.repo.User().GetByID(ctx, nil, actor.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	resp := &ProfileResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		Name:     user.Name,
	}

	switch user.Role {
	case models.RoleTeacher:
		teacher, err := s.repo.Teacher().GetByUserID(ctx, nil, user.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get teacher profile: %w", err)
		}
		resp.Bio = teacher.Bio
		resp.Education = teacher.Education
		resp.Experience = teacher.Experience

	case models.RoleStudent:
		student, err := s.repo.Student().GetByUserID(ctx, nil, user.ID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrProfileNotFound
			}
			return nil, fmt.Errorf("failed to get student profile: %w", err)
		}
		resp.Bio = student.Bio
		resp.Grade = student.Grade
	}

	return resp, nil
}

// Update mutates the User name and the role-appropriate profile fields in
// one transaction. Fields for the other role are ignored.
func (s *profileService) Update(ctx context.Context, req *ProfileUpdateRequest, actor models.Actor) (*ProfileResponse, error) {
	s.logger.Info("Updating profile", "user_id", actor.UserID)

	if errs := s.validator.GetBusinessValidator().ValidateProfileUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, nil, actor.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if req.Name != nil {
			user.Name = *req.Name
			if err := txRepo.User().Update(ctx, nil, user); err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}

		switch user.Role {
		case models.RoleTeacher:
			teacher, err := txRepo.Teacher().GetByUserID(ctx, nil, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get teacher profile: %w", err)
			}
			if req.Bio != nil {
				teacher.Bio = req.Bio
			}
			if req.Education != nil {
				teacher.Education = req.Education
			}
			if req.Experience != nil {
				teacher.Experience = req.Experience
			}
			if err := txRepo.Teacher().Update(ctx, nil, teacher); err != nil {
				return fmt.Errorf("failed to update teacher profile: %w", err)
			}

		case models.RoleStudent:
			student, err := txRepo.Student().GetByUserID(ctx, nil, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get student profile: %w", err)
			}
			if req.Bio != nil {
				student.Bio = req.Bio
			}
			if req.Grade != nil {
				student.Grade = req.Grade
			}
			if err := txRepo.Student().Update(ctx, nil, student); err != nil {
				return fmt.Errorf("failed to update student profile: %w", err)
			}
		}

		return recordActivity(ctx, txRepo, user.ID, models.ActivityProfileUpdated, map[string]interface{}{
			"role": user.Role,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated successfully", "user_id", actor.UserID)
	return s.Get(ctx, actor)
}

// Delete removes the role profile, everything it cascades to, and the User
// row in one transaction. For teachers that includes owned courses and their
// enrollments; for students their enrollments.
func (s *profileService) Delete(ctx context.Context, actor models.Actor) error {
	s.logger.Info("Deleting profile", "user_id", actor.UserID)

	err := s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, nil, actor.UserID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		switch user.Role {
		case models.RoleTeacher:
			teacher, err := txRepo.Teacher().GetByUserID(ctx, nil, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get teacher profile: %w", err)
			}

			courses, err := txRepo.Course().ListByTeacher(ctx, nil, teacher.ID)
			if err != nil {
				return err
			}
			for _, course := range courses {
				if err := txRepo.Enrollment().DeleteByCourse(ctx, nil, course.ID); err != nil {
					return err
				}
				if err := txRepo.Course().Delete(ctx, nil, course.ID); err != nil {
					return err
				}
			}

			if err := txRepo.Teacher().Delete(ctx, nil, teacher.ID); err != nil {
				return err
			}

		case models.RoleStudent:
			student, err := txRepo.Student().GetByUserID(ctx, nil, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get student profile: %w", err)
			}

			if err := txRepo.Enrollment().DeleteByStudent(ctx, nil, student.ID); err != nil {
				return err
			}
			if err := txRepo.Student().Delete(ctx, nil, student.ID); err != nil {
				return err
			}
		}

		if err := recordActivity(ctx, txRepo, user.ID, models.ActivityProfileDeleted, map[string]interface{}{
			"role": user.Role,
		}); err != nil {
			return err
		}

		return txRepo.User().Delete(ctx, nil, user.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Profile deleted successfully", "user_id", actor.UserID)
	return nil
}

func (s *profileService) Activity(ctx context.Context, actor models.Actor, filters repositories.ActivityFilters) (*ActivityListResponse, error) {
	entries, total, err := s.repo.Activity().ListByUser(ctx, nil, actor.UserID, filters)
	if err != nil {
		return nil, err
	}
	return &ActivityListResponse{Entries: entries, Total: total}, nil
}
