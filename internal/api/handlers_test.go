package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/sqlite"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

type testAPI struct {
	t      *testing.T
	router http.Handler
	jwt    auth.JWTService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-secret-that-is-at-least-32-characters",
		AccessTokenLifetimeMinutes:  30,
		RefreshTokenLifetimeMinutes: 60,
		BcryptCost:                  bcrypt.MinCost,
	})
	require.NoError(t, err)

	userStore := sqlite.NewSQLiteUserStore(db, testLogger)
	taskStore := sqlite.NewSQLiteTaskStore(db, testLogger)
	hasher := auth.NewBcrypt(bcrypt.MinCost)

	authHandler := NewAuthHandler(
		service.NewUserService(userStore, hasher, hasher, jwtService, testLogger),
		jwtService,
	)
	taskHandler := NewTaskHandler(service.NewTaskService(
		taskStore,
		service.NewPaginator(config.PaginationConfig{DefaultPageSize: 10, MaxPageSize: 50}),
		testLogger,
	))
	authMiddleware := middleware.NewAuthMiddleware(jwtService, userStore)

	r := chi.NewRouter()
	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/token/verify", authHandler.VerifyToken)
	r.Post("/auth/token/refresh", authHandler.RefreshToken)
	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Get("/{id}", taskHandler.GetTask)
		r.Patch("/{id}", taskHandler.PatchTask)
		r.Put("/{id}", taskHandler.ReplaceTask)
		r.Delete("/{id}", taskHandler.DeleteTask)
	})

	return &testAPI{t: t, router: r, jwt: jwtService}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signUp registers username and returns an access token for it.
func (a *testAPI) signUp(username string) string {
	a.t.Helper()
	creds := fmt.Sprintf(`{"username":%q,"password":"s3cret-pass"}`, username)
	rec := a.do(http.MethodPost, "/auth/register", "", creds)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/auth/login", "", creds)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var pair TokenPairResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair.Access
}

func (a *testAPI) createTask(token, body string) TaskCreateResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/tasks", token, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var created TaskCreateResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func decodeFieldErrors(t *testing.T, rec *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var out map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuthHandler_RegisterAndLogin(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(http.MethodPost, "/auth/register", "", `{"username":" alice ","password":"pw-123456"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "alice", body["username"])
	assert.NotZero(t, body["id"])
	assert.NotContains(t, body, "password")

	t.Run("duplicate username", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"other"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/register", "", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"username":["This field is required."],"password":["This field is required."]}`,
			rec.Body.String())
	})

	t.Run("username rules", func(t *testing.T) {
		long := strings.Repeat("a b", 60)
		rec := a.do(http.MethodPost, "/auth/register", "", `{"username":"`+long+`","password":""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string][]string{
			"username": {domain.MsgMaxLength(domain.UsernameMaxLength), domain.MsgInvalidUsername},
			"password": {domain.MsgBlank},
		}, decodeFieldErrors(t, rec))
	})

	t.Run("login issues a token pair", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"pw-123456"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.NotEmpty(t, body["access"])
		assert.NotEmpty(t, body["refresh"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, shared.WWWAuthenticateChallenge, rec.Header().Get(shared.WWWAuthenticateHeader))
		assert.Equal(t, shared.MsgInvalidCredentials, decodeJSON(t, rec)["detail"])
	})

	t.Run("login for unknown user", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", `{"username":"bob","password":"pw-123456"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, shared.MsgInvalidCredentials, decodeJSON(t, rec)["detail"])
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/login", "", `{"username":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, MsgJSONParseError, decodeJSON(t, rec)["detail"])
	})
}

func TestAuthHandler_Tokens(t *testing.T) {
	a := newTestAPI(t)
	creds := `{"username":"carol","password":"pw-123456"}`
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/auth/register", "", creds).Code)

	rec := a.do(http.MethodPost, "/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	var pair TokenPairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	t.Run("verify accepts both token types", func(t *testing.T) {
		for _, token := range []string{pair.Access, pair.Refresh} {
			rec := a.do(http.MethodPost, "/auth/token/verify", "", fmt.Sprintf(`{"token":%q}`, token))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{}`, rec.Body.String())
		}
	})

	t.Run("verify rejects garbage", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/token/verify", "", `{"token":"not-a-jwt"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, MsgTokenInvalidOrExpired, body["detail"])
		assert.Equal(t, shared.CodeTokenNotValid, body["code"])
	})

	t.Run("verify requires a token", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/token/verify", "", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"token":["This field is required."]}`, rec.Body.String())
	})

	t.Run("refresh issues an access token", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/token/refresh", "", fmt.Sprintf(`{"refresh":%q}`, pair.Refresh))
		require.Equal(t, http.StatusOK, rec.Code)
		var out AccessTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

		claims, err := a.jwt.ValidateAccessToken(context.Background(), out.Access)
		require.NoError(t, err)
		assert.Equal(t, auth.TokenTypeAccess, claims.TokenType)
	})

	t.Run("refresh rejects an access token", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/auth/token/refresh", "", fmt.Sprintf(`{"refresh":%q}`, pair.Access))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, shared.CodeTokenNotValid, decodeJSON(t, rec)["code"])
	})

	t.Run("refresh token cannot authenticate requests", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/tasks", pair.Refresh, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, shared.MsgTokenNotValid, decodeJSON(t, rec)["detail"])
	})
}

func TestTaskHandler_CreateTask(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("dave")

	t.Run("defaults and projection", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", token, `{"title":"  write report  ","owner":999}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "write report", body["title"])
		assert.Nil(t, body["description"])
		assert.EqualValues(t, 1, body["priority"])
		assert.Equal(t, false, body["is_done"])
		assert.NotContains(t, body, "created_at")
		assert.NotContains(t, body, "owner")
	})

	t.Run("field errors", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", token, `{"priority":7}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"title":["This field is required."],"priority":["Ensure this value is less than or equal to 3."]}`,
			rec.Body.String())
	})

	t.Run("description is trimmed", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", token, `{"title":"t","description":"  spaced out \n"}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "spaced out", decodeJSON(t, rec)["description"])
	})

	t.Run("length limits", func(t *testing.T) {
		body := `{"title":"` + strings.Repeat("t", 101) + `","description":"` + strings.Repeat("d", 301) + `","priority":0}`
		rec := a.do(http.MethodPost, "/tasks", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string][]string{
			"title":       {domain.MsgMaxLength(domain.TitleMaxLength)},
			"description": {domain.MsgMaxLength(domain.DescriptionMaxLength)},
			"priority":    {domain.MsgMinValue(domain.MinPriority)},
		}, decodeFieldErrors(t, rec))
	})

	t.Run("type errors", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", token, `{"title":["x"],"priority":"high"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t,
			`{"title":["Not a valid string."],"priority":["A valid integer is required."]}`,
			rec.Body.String())
	})

	t.Run("non-object body", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", token, `["title"]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, MsgExpectedObject, decodeJSON(t, rec)["detail"])
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/tasks", "", `{"title":"x"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, shared.MsgNotAuthenticated, decodeJSON(t, rec)["detail"])
	})
}

func TestTaskHandler_ListTasks(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("erin")
	other := a.signUp("frank")

	low := a.createTask(token, `{"title":"low","priority":1}`)
	high := a.createTask(token, `{"title":"high","priority":3}`)
	mid := a.createTask(token, `{"title":"mid","priority":2}`)
	a.createTask(other, `{"title":"someone else's","priority":3}`)

	list := func(t *testing.T, query string) TaskListResponse {
		t.Helper()
		rec := a.do(http.MethodGet, "/tasks"+query, token, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out TaskListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		return out
	}
	ids := func(page TaskListResponse) []int64 {
		out := make([]int64, 0, len(page.Results))
		for _, item := range page.Results {
			out = append(out, item.ID)
		}
		return out
	}

	t.Run("owner only, priority order", func(t *testing.T) {
		page := list(t, "")
		assert.Equal(t, 3, page.Count)
		assert.Equal(t, []int64{high.ID, mid.ID, low.ID}, ids(page))
		assert.NotEmpty(t, page.Results[0].CreatedAt)
	})

	t.Run("filters", func(t *testing.T) {
		assert.Equal(t, []int64{mid.ID}, ids(list(t, "?priority=2")))
		assert.Equal(t, 3, list(t, "?is_done=false").Count)
		assert.Equal(t, 0, list(t, "?is_done=true").Count)
	})

	t.Run("invalid filter", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/tasks?priority=9", token, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeJSON(t, rec), "priority")
	})

	t.Run("pagination", func(t *testing.T) {
		page := list(t, "?size=2&page=2")
		assert.Equal(t, 3, page.Count)
		assert.Equal(t, []int64{low.ID}, ids(page))

		rec := a.do(http.MethodGet, "/tasks?size=2&page=3", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, MsgInvalidPage, decodeJSON(t, rec)["detail"])

		rec = a.do(http.MethodGet, "/tasks?page=abc", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("huge page number", func(t *testing.T) {
		for _, query := range []string{"?page=1000000000000000000", "?page=1000000000000000000&size=50"} {
			rec := a.do(http.MethodGet, "/tasks"+query, token, "")
			assert.Equal(t, http.StatusNotFound, rec.Code, query)
			assert.Equal(t, MsgInvalidPage, decodeJSON(t, rec)["detail"], query)
		}
	})

	t.Run("empty first page", func(t *testing.T) {
		page := list(t, "?priority=1&is_done=true")
		assert.Equal(t, 0, page.Count)
		assert.NotNil(t, page.Results)
		assert.Empty(t, page.Results)
	})
}

func TestTaskHandler_DetailUpdateDelete(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("grace")
	other := a.signUp("heidi")
	task := a.createTask(token, `{"title":"draft","description":"first pass"}`)
	path := fmt.Sprintf("/tasks/%d", task.ID)

	t.Run("detail", func(t *testing.T) {
		rec := a.do(http.MethodGet, path, token, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "first pass", body["description"])
		assert.Contains(t, body, "created_at")
		assert.Contains(t, body, "updated_at")
	})

	t.Run("other owners get not found", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodPut, http.MethodDelete} {
			rec := a.do(method, path, other, `{"title":"stolen"}`)
			assert.Equal(t, http.StatusNotFound, rec.Code, method)
			assert.Equal(t, MsgNotFound, decodeJSON(t, rec)["detail"], method)
		}
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/tasks/abc", token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("patch changes only supplied fields", func(t *testing.T) {
		rec := a.do(http.MethodPatch, path, token, `{"is_done":true}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "draft", body["title"])
		assert.Equal(t, "first pass", body["description"])
		assert.Equal(t, true, body["is_done"])
	})

	t.Run("patch clears description", func(t *testing.T) {
		rec := a.do(http.MethodPatch, path, token, `{"description":null}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, decodeJSON(t, rec)["description"])
	})

	t.Run("put requires title", func(t *testing.T) {
		rec := a.do(http.MethodPut, path, token, `{"priority":2}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"title":["This field is required."]}`, rec.Body.String())

		rec = a.do(http.MethodPut, path, token, `{"title":"final","priority":2}`)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeJSON(t, rec)
		assert.Equal(t, "final", body["title"])
		assert.EqualValues(t, 2, body["priority"])
	})

	t.Run("blank title rejected", func(t *testing.T) {
		rec := a.do(http.MethodPatch, path, token, `{"title":"   "}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"title":["This field may not be blank."]}`, rec.Body.String())
	})

	t.Run("delete", func(t *testing.T) {
		rec := a.do(http.MethodDelete, path, token, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = a.do(http.MethodGet, path, token, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
