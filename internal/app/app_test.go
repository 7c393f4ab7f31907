package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hostcalendar/internal/config"
	"hostcalendar/internal/database"
	"hostcalendar/internal/pkg/clock"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.send(req)
}

func (c *client) send(req *http.Request) (*http.Response, envelope) {
	c.t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func (c *client) signupAndLogin(username string, host bool) {
	c.t.Helper()
	resp, _ := c.do(http.MethodPost, "/api/v1/account/signup", map[string]any{
		"username": username, "email": username + "@example.com",
		"password": "test1234pass", "password_again": "test1234pass", "is_host": host,
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)

	resp, env := c.do(http.MethodPost, "/api/v1/account/login", map[string]any{
		"username": username, "password": "test1234pass",
	})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &login))
	c.token = login.AccessToken
}

func TestApp_BookingFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		AppEnv:         "test",
		JWTSecret:      "test-secret",
		JWTAccessTTL:   time.Hour,
		CookieName:     "auth_token",
		CookieSameSite: "Lax",
		CookiePath:     "/",
		UploadsDir:     t.TempDir(),
		StaticURLBase:  "/static/uploads",
		MaxUploadSize:  1 << 20,
	}
	clk := clock.Fixed(time.Date(2024, 11, 28, 12, 0, 0, 0, time.UTC))
	db, err := database.Connect(fmt.Sprintf("file:app_%s?mode=memory&cache=shared", t.Name()), clk)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))

	a := New(cfg, db, nil, clk)
	srv := httptest.NewServer(a.Router)
	t.Cleanup(func() {
		a.Hub.Close()
		srv.Close()
	})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	host := &client{t: t, base: srv.URL}
	host.signupAndLogin("hostuser", true)
	guest := &client{t: t, base: srv.URL}
	guest.signupAndLogin("guestuser", false)

	resp, _ = host.do(http.MethodPost, "/api/v1/calendar", map[string]any{
		"topics": []string{"mentoring"}, "description": "weekly office hours", "google_calendar_id": "host@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env := host.do(http.MethodPost, "/api/v1/time-slots", map[string]any{
		"start_time": "09:00", "end_time": "10:00", "weekdays": []int{1},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var slot struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &slot))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/bookings?token=" + host.token
	feedConn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer feedConn.Close()
	require.Eventually(t, func() bool { return a.Hub.Connections(1) == 1 }, time.Second, 10*time.Millisecond)

	resp, env = guest.do(http.MethodPost, "/api/v1/bookings/hostuser", map[string]any{
		"when": "2024-12-03", "topic": "mentoring", "description": "career chat", "time_slot_id": slot.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var booking struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &booking))

	require.NoError(t, feedConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev struct {
		Type    string `json:"type"`
		Payload struct {
			ID   int64  `json:"id"`
			When string `json:"when"`
		} `json:"payload"`
	}
	require.NoError(t, feedConn.ReadJSON(&ev))
	assert.Equal(t, "booking_created", ev.Type)
	assert.Equal(t, booking.ID, ev.Payload.ID)
	assert.Equal(t, "2024-12-03", ev.Payload.When)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, _ := w.CreateFormFile("file", "agenda.txt")
	_, _ = part.Write([]byte("1. intro\n2. questions\n"))
	require.NoError(t, w.Close())
	req, _ := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/api/v1/guest-calendar/bookings/%d/files", srv.URL, booking.ID), &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+guest.token)
	resp, env = guest.send(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var file struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &file))
	assert.True(t, strings.HasPrefix(file.URL, "/static/uploads/bookings/2024/11/28/"), file.URL)

	served, err := http.Get(srv.URL + file.URL)
	require.NoError(t, err)
	served.Body.Close()
	assert.Equal(t, http.StatusOK, served.StatusCode)

	resp, env = host.do(http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		Files []struct {
			OriginalName string `json:"original_name"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail.Files, 1)
	assert.Equal(t, "agenda.txt", detail.Files[0].OriginalName)

	resp, _ = host.do(http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d/status", booking.ID), map[string]any{"attendance_status": "attended"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, feedConn.ReadJSON(&ev))
	assert.Equal(t, "attendance_changed", ev.Type)

	resp, env = guest.do(http.MethodGet, "/api/v1/ws/bookings", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "GUEST_PERMISSION", env.Error.Code)
}
