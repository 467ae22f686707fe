package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/course-service/internal/repositories"
)

// SharedHelpers contains common database operations
type SharedHelpers struct {
	db *gorm.DB
}

func NewSharedHelpers(db *gorm.DB) *SharedHelpers {
	return &SharedHelpers{db: db}
}

// ApplyCourseFilters applies common filters to course queries
func (h *SharedHelpers) ApplyCourseFilters(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	return query
}

// ApplyCourseSorting applies sorting to course queries, defaulting to newest
// first.
func (h *SharedHelpers) ApplyCourseSorting(query *gorm.DB, filters repositories.CourseFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "name", "code", "created_at":
	default:
		sortBy = "created_at"
	}

	sortOrder := "DESC"
	if filters.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	return query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))
}
