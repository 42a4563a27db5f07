package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a pattern, logging instead of failing.
// Stale cache entries age out on TTL, so invalidation errors never bubble up
// into a mutation's result.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Cache pattern invalidation failed",
			"pattern", pattern,
			"error", err)
	}
}

// SafeDelete deletes cache keys, logging instead of failing.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Cache key deletion failed",
			"keys", keys,
			"error", err)
	}
}

// InvalidateStudentStats drops the cached attendance rate for one student.
func InvalidateStudentStats(ctx context.Context, cm *CacheManager, studentNumber string) {
	SafeDelete(ctx, cm.Stats, fmt.Sprintf("rate:%s", studentNumber))
}

// InvalidateModuleCaches drops module-scoped cached reads after a roster or
// ledger mutation.
func InvalidateModuleCaches(ctx context.Context, cm *CacheManager, moduleCode string) {
	SafeDelete(ctx, cm.Roster, fmt.Sprintf("module:%s", moduleCode))
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("module:%s:*", moduleCode))
}
