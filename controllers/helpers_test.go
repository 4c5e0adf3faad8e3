package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pkruk/blogpulse/config"
	"github.com/pkruk/blogpulse/middleware"
	"github.com/pkruk/blogpulse/models"
	"github.com/pkruk/blogpulse/routes"
	"github.com/pkruk/blogpulse/utils"
)

// newTestServer wires the real router against an in-memory sqlite database
// so the unique indexes and atomic UPDATE statements are exercised for real.
// Redis is swapped out for nil, which makes every advisory cache degrade to
// "always proceed" - the behavior the dedup tests are meant to pin down.
func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	adminHash, err := utils.HashPassword("test-password")
	require.NoError(t, err)

	config.SetForTesting(config.AppConfig{
		AppPort:            "0",
		JWTSecret:          "test-secret",
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		LogLevel:           "error",
		RateLimitPerMinute: 100000,
		AllowedOrigins:     []string{"*"},
		AdminUsername:      "editor",
		AdminPasswordHash:  adminHash,
	})
	require.NoError(t, utils.InitLogger(config.Get()))
	utils.SetRedisForTesting(nil)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and spares
	// sqlite from cross-connection table locks under concurrent handlers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Post{},
		&models.Comment{},
		&models.ViewEvent{},
		&models.ReactionEvent{},
		&models.PostReactionCount{},
	))

	return routes.SetupRouter(db), db
}

func seedPost(t *testing.T, db *gorm.DB, slug string, published bool) models.Post {
	t.Helper()
	post := models.Post{
		Slug:      slug,
		Title:     "Post " + slug,
		Content:   "content",
		Category:  "tech",
		Author:    "author",
		Published: published,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func newVisitorID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// doRequest performs a request against the router, optionally carrying a
// visitor cookie and a JSON body.
func doRequest(r http.Handler, method, path, vid string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if vid != "" {
		req.AddCookie(&http.Cookie{Name: middleware.VisitorCookie, Value: vid})
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postView(r http.Handler, slug, vid string) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/post/"+slug+"/view", vid, nil, nil)
}

func postReaction(r http.Handler, slug, vid, kind string) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/post/"+slug+"/react", vid, map[string]string{"kind": kind}, nil)
}

func reloadPost(t *testing.T, db *gorm.DB, id uint) models.Post {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, id).Error)
	return post
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
