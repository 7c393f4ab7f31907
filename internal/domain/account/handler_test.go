package account

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostcalendar/internal/database"
	"hostcalendar/internal/middleware"
	"hostcalendar/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupTestRouter(t *testing.T) (*gin.Engine, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:account_handler_test_%s?mode=memory&cache=shared", t.Name())
	db, err := database.Connect(dsn, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &User{}))

	tokens := jwt.New("test-secret", time.Hour)
	h := NewHandler(NewService(NewRepository(db), tokens), CookieConfig{
		Name: "auth_token", Path: "/", SameSite: http.SameSiteLaxMode, TTL: time.Hour,
	})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"), middleware.Auth(tokens, "auth_token"))
	return r, tokens
}

func doJSON(r http.Handler, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func signupPayload(username, email string) map[string]any {
	return map[string]any{
		"username":       username,
		"email":          email,
		"password":       "test1234pass",
		"password_again": "test1234pass",
	}
}

func authCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "auth_token" {
			return c
		}
	}
	t.Fatal("auth_token cookie not set")
	return nil
}

func TestSignup_ResponseOnlyPublicFields(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, env := doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("puddingcamp", "test@example.com"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.ElementsMatch(t, []string{"username", "display_name", "is_host"}, keys(data))
	assert.Len(t, data["display_name"], 8)
}

func TestSignup_Duplicates(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, _ := doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("first", "dup@example.com"))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, env := doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("first", "other@example.com"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "DUPLICATED_USERNAME", env.Error.Code)

	rr, env = doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("second", "dup@example.com"))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "DUPLICATED_EMAIL", env.Error.Code)
}

func TestSignup_Validation(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr, env := doJSON(r, http.MethodPost, "/api/v1/account/signup", map[string]any{
		"username": "abc", "email": "not-an-email", "password": "short", "password_again": "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "min", env.Error.Details["username"])
	assert.Equal(t, "email", env.Error.Details["email"])
	assert.Equal(t, "min", env.Error.Details["password"])
}

func TestLoginMeLogout(t *testing.T) {
	r, _ := setupTestRouter(t)

	doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("hostuser", "host@example.com"))

	rr, _ := doJSON(r, http.MethodPost, "/api/v1/account/login", map[string]any{"username": "hostuser", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, _ = doJSON(r, http.MethodPost, "/api/v1/account/login", map[string]any{"username": "hostuser", "password": "test1234pass"})
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := authCookie(t, rr)

	rr, env := doJSON(r, http.MethodGet, "/api/v1/account/@me", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.ElementsMatch(t, []string{"username", "display_name", "is_host", "email", "created_at", "updated_at"}, keys(me))

	rr, _ = doJSON(r, http.MethodDelete, "/api/v1/account/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "", authCookie(t, rr).Value)
	assert.True(t, authCookie(t, rr).MaxAge < 0)

	rr, _ = doJSON(r, http.MethodGet, "/api/v1/account/@me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe_UserVanished(t *testing.T) {
	r, tokens := setupTestRouter(t)

	token, err := tokens.GenerateToken(9999, jwt.RoleGuest)
	require.NoError(t, err)

	rr, _ := doJSON(r, http.MethodGet, "/api/v1/account/@me", nil, &http.Cookie{Name: "auth_token", Value: token})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateMe_Handler(t *testing.T) {
	r, _ := setupTestRouter(t)

	doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("hostuser", "host@example.com"))
	rr, _ := doJSON(r, http.MethodPost, "/api/v1/account/login", map[string]any{"username": "hostuser", "password": "test1234pass"})
	cookie := authCookie(t, rr)

	rr, _ = doJSON(r, http.MethodPatch, "/api/v1/account/@me", map[string]any{}, cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr, env := doJSON(r, http.MethodPatch, "/api/v1/account/@me", map[string]any{"display_name": "Pudding"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Pudding", me["display_name"])
	assert.Equal(t, "host@example.com", me["email"])

	rr, _ = doJSON(r, http.MethodPatch, "/api/v1/account/@me", map[string]any{"password": "new_password", "password_again": "new_password"}, cookie)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSON(r, http.MethodPost, "/api/v1/account/login", map[string]any{"username": "hostuser", "password": "new_password"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestGetUser(t *testing.T) {
	r, _ := setupTestRouter(t)
	doJSON(r, http.MethodPost, "/api/v1/account/signup", signupPayload("visible", "v@example.com"))

	rr, env := doJSON(r, http.MethodGet, "/api/v1/account/users/visible", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, string(env.Data), "v@example.com")

	rr, env = doJSON(r, http.MethodGet, "/api/v1/account/users/missing", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "USER_NOT_FOUND", env.Error.Code)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
