package utils

import (
	"context"
	"fmt"
	"time"
)

// SubmitGuardTTL is how long a (visitor, post, kind) tuple is suppressed
// after a first submission. Matches the view dedup window.
const SubmitGuardTTL = 24 * time.Hour

// AllowSubmission is a best-effort Redis guard in front of the event store.
// The first caller for a (kind, visitor, post) tuple within the TTL gets
// true and the guard key is written optimistically, before the insert
// resolves; repeats within the window get false and skip the database.
//
// The guard is advisory only. Any Redis failure returns true so the request
// proceeds — deduplication correctness always rests on the event store's
// unique index, never on this cache.
func AllowSubmission(kind, visitorID string, postID uint, ttl time.Duration) bool {
	rc := GetRedis()
	if rc == nil {
		return true
	}
	if ttl <= 0 {
		ttl = SubmitGuardTTL
	}
	key := fmt.Sprintf("guard:%s:%d:%s", kind, postID, visitorID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ok, err := rc.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("submit guard unavailable key=%s err=%v", key, err)
		}
		return true
	}
	return ok
}
