package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantVary   bool
	}{
		{name: "preflight", origin: "*", method: http.MethodOptions, wantStatus: http.StatusNoContent},
		{name: "simple request", origin: "*", method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "fixed origin", origin: "http://localhost:3000", method: http.MethodGet, wantStatus: http.StatusOK, wantVary: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.Use(CORS(tt.origin))
			r.GET("/api/geo", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/api/geo", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			if tt.wantVary {
				assert.Equal(t, "Origin", w.Header().Get("Vary"))
			}
		})
	}
}
