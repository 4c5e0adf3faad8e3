package controllers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/utils"
)

// wireRedis backs the caches and the advisory guard with a real in-process
// Redis for the duration of one test.
func wireRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	utils.SetRedisForTesting(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { utils.SetRedisForTesting(nil) })
	return mr
}

func keysWithPrefix(mr *miniredis.Miniredis, prefix string) []string {
	var matched []string
	for _, k := range mr.Keys() {
		if strings.HasPrefix(k, prefix) {
			matched = append(matched, k)
		}
	}
	return matched
}

func TestAcceptedViewInvalidatesDetailCache(t *testing.T) {
	r, db := newTestServer(t)
	mr := wireRedis(t)
	post := seedPost(t, db, "stale-cache", true)

	// Prime the detail cache; the stored key carries the pagination suffix
	w := doRequest(r, http.MethodGet, "/api/v1/posts/"+post.Slug, "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, keysWithPrefix(mr, "cache:post:detail:"+post.Slug))

	require.Equal(t, http.StatusOK, postView(r, post.Slug, newVisitorID()).Code)
	require.EqualValues(t, 1, reloadPost(t, db, post.ID).ViewCount)

	assert.Empty(t, keysWithPrefix(mr, "cache:post:detail:"+post.Slug),
		"accepted view must drop every cached detail page")

	// Next read serves the fresh counter, not a stale payload
	w = doRequest(r, http.MethodGet, "/api/v1/posts/"+post.Slug, "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"view_count":1`)
}

func TestAcceptedReactionInvalidatesDetailCache(t *testing.T) {
	r, db := newTestServer(t)
	mr := wireRedis(t)
	post := seedPost(t, db, "stale-react", true)

	w := doRequest(r, http.MethodGet, "/api/v1/posts/"+post.Slug, "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, keysWithPrefix(mr, "cache:post:detail:"+post.Slug))

	require.Equal(t, http.StatusOK, postReaction(r, post.Slug, newVisitorID(), "like").Code)
	assert.Empty(t, keysWithPrefix(mr, "cache:post:detail:"+post.Slug))
}

func TestCommentCooldownAnswers429(t *testing.T) {
	r, db := newTestServer(t)
	wireRedis(t)
	post := seedPost(t, db, "cooldown", true)
	vid := newVisitorID()

	submitComment(t, r, post.Slug, vid)

	w := doRequest(r, http.MethodPost, "/post/"+post.Slug+"/comments", vid, map[string]string{
		"author":  "Reader",
		"content": "again so soon",
	}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.EqualValues(t, 1, countRows(t, db, &models.Comment{}, "post_id = ?", post.ID))
}
