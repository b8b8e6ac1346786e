package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/saulo-duarte/chronos-goals/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServer(t *testing.T, e *env) *httptest.Server {
	t.Helper()
	h := session.NewHandler(e.controller(t))

	r := chi.NewRouter()
	r.Mount("/session", session.Routes(h))
	r.Mount("/auth", session.AuthRoutes(h))
	r.Mount("/settings", session.SettingsRoutes(h))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestSessionEndpoints(t *testing.T) {
	srv := newSessionServer(t, newEnv(t))

	resp, body := call(t, http.MethodGet, srv.URL+"/session", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["phase"])

	resp, _ = call(t, http.MethodPost, srv.URL+"/session/activate", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = call(t, http.MethodPost, srv.URL+"/session/offline", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "offline", body["phase"])
	assert.Equal(t, "local", body["backend"])

	resp, body = call(t, http.MethodPost, srv.URL+"/session/activate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["failedMarked"])

	resp, _ = call(t, http.MethodPost, srv.URL+"/session/merge", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = call(t, http.MethodPost, srv.URL+"/session/welcome", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["hasSeenWelcome"])
}

func TestAuthEndpoints(t *testing.T) {
	e := newEnv(t)
	srv := newSessionServer(t, e)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{"MissingFields", "/auth/login", `{"email":""}`, http.StatusBadRequest, session.ErrMissingFields.Error()},
		{"PasswordMismatch", "/auth/register", `{"email":"a@b.co","password":"secret1","confirmPassword":"secret2"}`, http.StatusBadRequest, session.ErrPasswordMismatch.Error()},
		{"UnknownUser", "/auth/login", `{"email":"zoe@example.com","password":"secret1"}`, http.StatusUnauthorized, "No account exists with this email"},
		{"BadJSON", "/auth/login", `{`, http.StatusBadRequest, "invalid request body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, http.MethodPost, srv.URL+tc.path, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.want, body["error"])
		})
	}

	resp, body := call(t, http.MethodPost, srv.URL+"/auth/register", `{"email":"ana@example.com","password":"secret1","confirmPassword":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "online", body["phase"])
	assert.Equal(t, "ana@example.com", body["email"])

	resp, body = call(t, http.MethodPost, srv.URL+"/auth/register", `{"email":"ana@example.com","password":"secret1","confirmPassword":"secret1"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email-already-in-use", body["code"])

	resp, body = call(t, http.MethodPost, srv.URL+"/auth/logout", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unauthenticated", body["phase"])
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newSessionServer(t, newEnv(t))

	resp, body := call(t, http.MethodGet, srv.URL+"/settings", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "light", body["theme"])
	assert.Equal(t, true, body["dailyDescription"])

	resp, _ = call(t, http.MethodPut, srv.URL+"/settings", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = call(t, http.MethodPut, srv.URL+"/settings", `{"theme":"dark","notifications":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["persisted"])
	s := body["settings"].(map[string]interface{})
	assert.Equal(t, "dark", s["theme"])
	assert.Equal(t, true, s["notifications"])
}
