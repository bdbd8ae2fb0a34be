package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/logger"
)

func TestLoggerMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New(&logger.Config{Level: "error", Output: io.Discard})

	var seenID string
	r := gin.New()
	r.Use(LoggerMiddleware(log))
	r.GET("/ping", func(c *gin.Context) {
		seenID = logger.GetRequestID(c.Request.Context())
		c.String(http.StatusOK, "pong")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if seenID == "" {
		t.Fatal("request context carries no request ID")
	}
	if got := w.Header().Get("X-Request-ID"); got != seenID {
		t.Errorf("X-Request-ID header = %q, context has %q", got, seenID)
	}
}

func TestLoggerMiddlewareFreshIDPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New(&logger.Config{Level: "error", Output: io.Discard})

	r := gin.New()
	r.Use(LoggerMiddleware(log))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	ids := make(map[string]bool)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		ids[w.Header().Get("X-Request-ID")] = true
	}
	if len(ids) != 3 {
		t.Errorf("got %d distinct request IDs across 3 requests", len(ids))
	}
}
