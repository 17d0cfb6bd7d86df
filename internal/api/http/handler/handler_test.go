package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpctx "github.com/dtroode/ipgeo-server/internal/api/http/context"
	"github.com/dtroode/ipgeo-server/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testClaims() model.SessionClaims {
	now := time.Unix(1_700_000_000, 0).UTC()
	return model.SessionClaims{
		SubjectID: uuid.MustParse("6f1c7a52-4a43-4c8a-9f0f-2f4b8f2d1a11"),
		Email:     "candidate@example.com",
		Name:      "Candidate User",
		IssuedAt:  now,
		ExpiresAt: now.Add(8 * time.Hour),
	}
}

// authenticated stands in for the authenticate middleware.
func authenticated(cm *httpctx.Manager, claims model.SessionClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(cm.SetClaimsToContext(c.Request.Context(), claims))
		c.Next()
	}
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
