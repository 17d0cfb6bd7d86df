package router

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/ipgeo-server/internal/api/http/context"
	"github.com/dtroode/ipgeo-server/internal/mocks"
	"github.com/dtroode/ipgeo-server/internal/password"
	"github.com/dtroode/ipgeo-server/internal/repository/memory"
	"github.com/dtroode/ipgeo-server/internal/service"
	"github.com/dtroode/ipgeo-server/internal/testutil"
	"github.com/dtroode/ipgeo-server/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGeo struct{}

func (stubGeo) Lookup(_ context.Context, ip string) (json.RawMessage, error) {
	if ip == "" {
		ip = "203.0.113.7"
	}
	return json.RawMessage(fmt.Sprintf(`{"ip":%q,"city":"Testville"}`, ip)), nil
}

type app struct {
	router  *Router
	history *service.History
}

func newApp(t *testing.T, opts Options) *app {
	t.Helper()

	lg := testutil.MakeNoopLogger()
	store, err := memory.New()
	require.NoError(t, err)

	tokenService := service.NewTokenService(token.NewJWT("test-secret", 8*time.Hour), lg)
	auth := service.NewAuth(store, password.NewBcrypt(4), tokenService, time.Second, lg)
	_, err = auth.EnsureUser(context.Background(), "candidate@example.com", "Password123", "Candidate User")
	require.NoError(t, err)

	history := service.NewHistory(store, time.Second, lg)
	geo := service.NewGeo(stubGeo{}, lg)

	return &app{
		router:  New(auth, history, geo, tokenService, httpctx.NewManager(), opts, lg),
		history: history,
	}
}

func do(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, h http.Handler, email, pw string) string {
	t.Helper()

	w := do(h, http.MethodPost, "/api/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, pw))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, email, resp.User.Email)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_SessionFlow(t *testing.T) {
	t.Parallel()

	h := newApp(t, Options{LoginRPS: 100, LoginBurst: 100}).router.Register()

	w := do(h, http.MethodPost, "/api/login", "", `{"email":"candidate@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/login", "", `{"email":"nobody@example.com","password":"Password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/login", "", `{"email":"candidate@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tok := login(t, h, "candidate@example.com", "Password123")

	w = do(h, http.MethodGet, "/api/profile", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		User struct {
			Email string `json:"email"`
			Name  string `json:"name"`
			IAT   int64  `json:"iat"`
			EXP   int64  `json:"exp"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "Candidate User", profile.User.Name)
	assert.Equal(t, int64(8*3600), profile.User.EXP-profile.User.IAT)

	w = do(h, http.MethodGet, "/api/profile", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"no token"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/profile", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/profile", tok[:strings.LastIndex(tok, ".")+1]+"AAAA", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid token"}`, w.Body.String())
}

func TestRouter_GeoAndHistory(t *testing.T) {
	t.Parallel()

	h := newApp(t, Options{LoginRPS: 100, LoginBurst: 100}).router.Register()
	tok := login(t, h, "candidate@example.com", "Password123")

	w := do(h, http.MethodGet, "/api/geo/8.8.8.8", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(h, http.MethodGet, "/api/geo/8.8.8.8", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ip":"8.8.8.8","city":"Testville"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/geo", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ip":"203.0.113.7","city":"Testville"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/history", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())

	var ids []string
	for _, ip := range []string{"8.8.8.8", "1.1.1.1", "8.8.8.8"} {
		w = do(h, http.MethodPost, "/api/history", tok, fmt.Sprintf(`{"ip":%q,"data":{"city":"Testville"}}`, ip))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Entry struct {
				ID   string `json:"id"`
				IP   string `json:"ip"`
				When string `json:"when"`
			} `json:"entry"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, ip, resp.Entry.IP)
		_, err := time.Parse(time.RFC3339, resp.Entry.When)
		require.NoError(t, err)
		ids = append(ids, resp.Entry.ID)
	}
	assert.NotEqual(t, ids[0], ids[2])

	w = do(h, http.MethodPost, "/api/history", tok, `{"ip":"8.8.8.8"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"ip and data required"}`, w.Body.String())

	w = do(h, http.MethodDelete, "/api/history", tok, fmt.Sprintf(`{"ids":[%q,"missing"]}`, ids[1]))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":1}`, w.Body.String())

	w = do(h, http.MethodDelete, "/api/history", tok, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"ids array required"}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/history", tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		History []struct {
			ID string `json:"id"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.History, 2)
	assert.Equal(t, ids[0], list.History[0].ID)
	assert.Equal(t, ids[2], list.History[1].ID)
}

func TestRouter_HistoryIsolation(t *testing.T) {
	t.Parallel()

	h := newApp(t, Options{LoginRPS: 100, LoginBurst: 100}).router.Register()

	w := do(h, http.MethodPost, "/api/register", "", `{"email":"other@example.com","password":"secret","name":"Other"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(h, http.MethodPost, "/api/register", "", `{"email":"other@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	owner := login(t, h, "candidate@example.com", "Password123")
	other := login(t, h, "other@example.com", "secret")

	w = do(h, http.MethodPost, "/api/history", owner, `{"ip":"8.8.8.8","data":{"city":"X"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	var created struct {
		Entry struct {
			ID string `json:"id"`
		} `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = do(h, http.MethodGet, "/api/history", other, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())

	w = do(h, http.MethodDelete, "/api/history", other, fmt.Sprintf(`{"ids":[%q]}`, created.Entry.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":0}`, w.Body.String())

	w = do(h, http.MethodGet, "/api/history", owner, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.Entry.ID)
}

func TestRouter_Export(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()

		h := newApp(t, Options{LoginRPS: 100, LoginBurst: 100}).router.Register()
		tok := login(t, h, "candidate@example.com", "Password123")

		w := do(h, http.MethodPost, "/api/history/export", tok, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()

		a := newApp(t, Options{LoginRPS: 100, LoginBurst: 100})
		storage := mocks.NewStorage(t)
		storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "exports/") && strings.HasSuffix(key, ".json")
		}), mock.Anything, mock.AnythingOfType("int64"), "application/json").Return(nil).Once()

		h := a.router.WithExport(service.NewExport(a.history, storage, testutil.MakeNoopLogger())).Register()
		tok := login(t, h, "candidate@example.com", "Password123")

		w := do(h, http.MethodPost, "/api/history/export", tok, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"key":"exports/`)
	})
}

func TestRouter_LoginThrottling(t *testing.T) {
	t.Parallel()

	h := newApp(t, Options{LoginRPS: 0.001, LoginBurst: 2}).router.Register()
	body := `{"email":"candidate@example.com","password":"wrong"}`

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/login", "", body).Code)
	w := do(h, http.MethodPost, "/api/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
}

func TestRouter_Preflight(t *testing.T) {
	t.Parallel()

	h := newApp(t, Options{CORSOrigin: "http://localhost:3000"}).router.Register()

	w := do(h, http.MethodOptions, "/api/history", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
