package controllers_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/blogpulse/models"
)

func TestViewCountedOncePerVisitorPerDay(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "hello-world", true)
	vid := newVisitorID()

	w := postView(r, post.Slug, vid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, reloadPost(t, db, post.ID).ViewCount)

	// Same visitor, same window: accepted response, no second count
	w = postView(r, post.Slug, vid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, reloadPost(t, db, post.ID).ViewCount)
	assert.EqualValues(t, 1, countRows(t, db, &models.ViewEvent{}, "post_id = ?", post.ID))
}

func TestViewCountsAgainInNewWindow(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "windows", true)
	vid := newVisitorID()

	require.Equal(t, http.StatusOK, postView(r, post.Slug, vid).Code)
	assert.EqualValues(t, 1, reloadPost(t, db, post.ID).ViewCount)

	// Age the recorded event into yesterday's window
	yesterday := time.Now().AddDate(0, 0, -1).Format(models.DayLayout)
	require.NoError(t, db.Model(&models.ViewEvent{}).
		Where("post_id = ? AND visitor_id = ?", post.ID, vid).
		Updates(map[string]interface{}{
			"day":       yesterday,
			"dedup_key": models.ViewDedupKey(post.ID, vid, yesterday),
		}).Error)

	require.Equal(t, http.StatusOK, postView(r, post.Slug, vid).Code)
	assert.EqualValues(t, 2, reloadPost(t, db, post.ID).ViewCount)
	assert.EqualValues(t, 2, countRows(t, db, &models.ViewEvent{}, "post_id = ?", post.ID))
}

func TestConcurrentIdenticalViewsCountOnce(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "race", true)
	vid := newVisitorID()

	const n = 16
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = postView(r, post.Slug, vid).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, "request %d", i)
	}
	assert.EqualValues(t, 1, countRows(t, db, &models.ViewEvent{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 1, reloadPost(t, db, post.ID).ViewCount)
}

func TestDistinctVisitorsEachCount(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "crowd", true)

	const n = 5
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			postView(r, post.Slug, newVisitorID())
		}()
	}
	wg.Wait()

	assert.EqualValues(t, n, reloadPost(t, db, post.ID).ViewCount)
	assert.EqualValues(t, n, countRows(t, db, &models.ViewEvent{}, "post_id = ?", post.ID))
}

func TestViewWithoutIdentityIsSilentlyIgnored(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "anonymous", true)

	w := postView(r, post.Slug, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, reloadPost(t, db, post.ID).ViewCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.ViewEvent{}, ""))
}

func TestViewOnUnpublishedOrUnknownPostIsSilentlyIgnored(t *testing.T) {
	r, db := newTestServer(t)
	draft := seedPost(t, db, "draft", false)
	vid := newVisitorID()

	// Both paths answer success-shaped so callers cannot probe slugs
	require.Equal(t, http.StatusOK, postView(r, draft.Slug, vid).Code)
	require.Equal(t, http.StatusOK, postView(r, "no-such-post", vid).Code)

	assert.EqualValues(t, 0, reloadPost(t, db, draft.ID).ViewCount)
	assert.EqualValues(t, 0, countRows(t, db, &models.ViewEvent{}, ""))
}

func TestReactionOncePerKindPerVisitor(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "reactions", true)
	vid := newVisitorID()

	require.Equal(t, http.StatusOK, postReaction(r, post.Slug, vid, "like").Code)
	require.Equal(t, http.StatusOK, postReaction(r, post.Slug, vid, "like").Code)
	require.Equal(t, http.StatusOK, postReaction(r, post.Slug, vid, "love").Code)

	var likeRow models.PostReactionCount
	require.NoError(t, db.Where("post_id = ? AND kind = ?", post.ID, "like").First(&likeRow).Error)
	assert.EqualValues(t, 1, likeRow.Count)

	var loveRow models.PostReactionCount
	require.NoError(t, db.Where("post_id = ? AND kind = ?", post.ID, "love").First(&loveRow).Error)
	assert.EqualValues(t, 1, loveRow.Count)

	assert.EqualValues(t, 2, countRows(t, db, &models.ReactionEvent{}, "post_id = ?", post.ID))
}

func TestReactionWithUnknownKindIsSilentlyIgnored(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "bad-kind", true)

	w := postReaction(r, post.Slug, newVisitorID(), "dislike")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, countRows(t, db, &models.ReactionEvent{}, ""))
}

func TestConcurrentReactionsFromDistinctVisitors(t *testing.T) {
	r, db := newTestServer(t)
	post := seedPost(t, db, "burst", true)

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			postReaction(r, post.Slug, newVisitorID(), "laugh")
		}()
	}
	wg.Wait()

	var row models.PostReactionCount
	require.NoError(t, db.Where("post_id = ? AND kind = ?", post.ID, "laugh").First(&row).Error)
	assert.EqualValues(t, n, row.Count)
	assert.EqualValues(t, n, countRows(t, db, &models.ReactionEvent{}, "post_id = ?", post.ID))
}
