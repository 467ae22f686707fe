package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/repositories"
)

type ActivityPostgreSQL struct {
	db *gorm.DB
}

func NewActivityPostgreSQL(db *gorm.DB) repositories.ActivityRepository {
	return &ActivityPostgreSQL{db: db}
}

func (r *ActivityPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ActivityPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	if err := r.getDB(tx).WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

func (r *ActivityPostgreSQL) ListByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.ActivityFilters) ([]*models.ActivityLog, int64, error) {
	query := r.getDB(tx).WithContext(ctx).
		Model(&models.ActivityLog{}).
		Where("user_id = ?", userID)

	if filters.Action != nil {
		query = query.Where("action = ?", *filters.Action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity entries: %w", err)
	}

	var entries []*models.ActivityLog
	query = query.Order("created_at DESC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list activity entries: %w", err)
	}

	return entries, total, nil
}
