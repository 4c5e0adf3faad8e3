package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// VisitorCookie is the client-held identity token. Absence of a usable
	// value disables all event submission for that request.
	VisitorCookie = "vid"
	// VisitorCookieMaxAge keeps the identity stable for a year.
	VisitorCookieMaxAge = 60 * 60 * 24 * 365

	contextVisitorKey = "visitor_id"

	// Anything shorter is treated as garbage and replaced.
	minVisitorIDLen = 16
)

// VisitorID returns the visitor identity resolved for this request, or ""
// when none is present.
func VisitorID(ctx *gin.Context) string {
	if v, ok := ctx.Get(contextVisitorKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// VisitorIdentity reads the vid cookie and exposes the visitor id on the
// request context. First-time visitors get a fresh uuid issued on GET/HEAD
// responses (page loads), so their follow-up event submissions carry a
// stable identity. Write requests never mint one: an event submission
// without a client-held token has no identity and is skipped upstream.
func VisitorIdentity() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		vid, err := ctx.Cookie(VisitorCookie)
		if err != nil || len(strings.TrimSpace(vid)) < minVisitorIDLen {
			vid = ""
			if ctx.Request.Method == http.MethodGet || ctx.Request.Method == http.MethodHead {
				vid = strings.ReplaceAll(uuid.NewString(), "-", "")
				// SameSite=Lax, not HttpOnly: the browser-side dedup helper reads it
				ctx.SetSameSite(http.SameSiteLaxMode)
				ctx.SetCookie(VisitorCookie, vid, VisitorCookieMaxAge, "/", "", false, false)
			}
		}
		ctx.Set(contextVisitorKey, strings.TrimSpace(vid))
		ctx.Next()
	}
}
