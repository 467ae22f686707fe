package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateCourseCache invalidates all course-related caches. Called after
// any course or enrollment mutation so list, browse and roster reads never
// serve stale rows.
func InvalidateCourseCache(ctx context.Context, cm *CacheManager, courseID uint, teacherID uint) {
	SafeDelete(ctx, cm.Course,
		fmt.Sprintf("id:%d", courseID))

	SafeInvalidatePattern(ctx, cm.Course, fmt.Sprintf("teacher:%d:*", teacherID))
	SafeInvalidatePattern(ctx, cm.Course, "list:*")
	SafeInvalidatePattern(ctx, cm.Course, "student:*")
}

// InvalidateUserCache drops the cached user row after profile mutations.
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID uint) {
	SafeDelete(ctx, cm.User, fmt.Sprintf("id:%d", userID))
}
