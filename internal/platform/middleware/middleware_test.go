// Copyright (c) 2026 Listify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/listify/internal/platform/constants"
	"github.com/taibuivan/listify/internal/platform/ctxutil"
	"github.com/taibuivan/listify/internal/platform/middleware"
	"github.com/taibuivan/listify/internal/platform/sec"
)

type stubVerifier struct {
	claims map[string]*sec.AuthClaims
}

func (stub stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, ok := stub.claims[token]; ok {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func newVerifier() stubVerifier {
	return stubVerifier{claims: map[string]*sec.AuthClaims{
		"member-token": {UserID: "user-1", Role: string(sec.RoleMember)},
		"admin-token":  {UserID: "root", Role: string(sec.RoleAdmin)},
	}}
}

// whoAmI echoes the authenticated user id, or "anonymous".
var whoAmI = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	userID := "anonymous"
	if id := ctxutil.GetUserID(request.Context()); id != nil {
		userID = *id
	}
	_, _ = io.WriteString(writer, userID)
})

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

// # Authentication

/*
TestAuthenticate covers anonymous, malformed, rejected and accepted headers.
*/
func TestAuthenticate(t *testing.T) {
	handler := middleware.Authenticate(newVerifier())(whoAmI)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"Anonymous", "", http.StatusOK, "anonymous"},
		{"Bearer token", "Bearer member-token", http.StatusOK, "user-1"},
		{"Lowercase scheme", "bearer admin-token", http.StatusOK, "root"},
		{"Wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"Missing token", "Bearer ", http.StatusUnauthorized, ""},
		{"Unknown token", "Bearer forged", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set(constants.HeaderAuthorization, tt.header)
			}

			recorder := serve(handler, request)
			assert.Equal(t, tt.status, recorder.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, recorder.Body.String())
			}
		})
	}
}

/*
TestRequireRole distinguishes unauthenticated (401) from insufficient role (403).
*/
func TestRequireRole(t *testing.T) {
	authenticate := middleware.Authenticate(newVerifier())

	memberOnly := authenticate(middleware.RequireAuth(whoAmI))
	adminOnly := authenticate(middleware.RequireRole(sec.RoleAdmin)(whoAmI))

	tests := []struct {
		name    string
		handler http.Handler
		token   string
		status  int
	}{
		{"Auth: anonymous", memberOnly, "", http.StatusUnauthorized},
		{"Auth: member", memberOnly, "member-token", http.StatusOK},
		{"Admin: anonymous", adminOnly, "", http.StatusUnauthorized},
		{"Admin: member", adminOnly, "member-token", http.StatusForbidden},
		{"Admin: admin", adminOnly, "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.token != "" {
				request.Header.Set(constants.HeaderAuthorization, "Bearer "+tt.token)
			}
			assert.Equal(t, tt.status, serve(tt.handler, request).Code)
		})
	}
}

// # Sanitizing

/*
TestSanitizeJSON strips markup from nested strings and keeps numbers intact.
*/
func TestSanitizeJSON(t *testing.T) {
	var received map[string]any
	handler := middleware.SanitizeJSON()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		decoder := json.NewDecoder(request.Body)
		decoder.UseNumber()
		require.NoError(t, decoder.Decode(&received))
	}))

	body := `{
		"title": "<b>Tom & Jerry</b>",
		"tags": ["<i>Comedy</i>", "Kids"],
		"details": {"studio": "<script>alert(1)</script>MGM", "episodes": 161},
		"media_id": 9007199254740993,
		"notes": null
	}`
	request := httptest.NewRequest(http.MethodPost, "/library", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := serve(handler, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	assert.Equal(t, "Tom & Jerry", received["title"])
	assert.Equal(t, []any{"Comedy", "Kids"}, received["tags"])
	details := received["details"].(map[string]any)
	assert.Equal(t, "MGM", details["studio"])
	assert.Equal(t, json.Number("161"), details["episodes"])
	assert.Equal(t, json.Number("9007199254740993"), received["media_id"])
	assert.Nil(t, received["notes"])
}

/*
TestSanitizeJSON_Passthrough leaves reads, empty and non-JSON bodies alone
and rejects malformed JSON.
*/
func TestSanitizeJSON_Passthrough(t *testing.T) {
	called := 0
	handler := middleware.SanitizeJSON()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called++
	}))

	assert.Equal(t, http.StatusOK, serve(handler, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(handler, httptest.NewRequest(http.MethodDelete, "/1", nil)).Code)

	form := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=<b>"))
	form.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, serve(handler, form).Code)
	assert.Equal(t, 3, called)

	broken := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"title": `))
	broken.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, serve(handler, broken).Code)
	assert.Equal(t, 3, called)
}

// # Tracing & Limits

/*
TestRequestID reuses a client supplied id and generates one otherwise.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "trace-42")
	recorder := serve(handler, request)
	assert.Equal(t, "trace-42", seen)
	assert.Equal(t, "trace-42", recorder.Header().Get(constants.HeaderXRequestID))

	recorder = serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
}

/*
TestRateLimiter rejects a client once its burst is spent, per IP.
*/
func TestRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.NewRateLimiter(ctx, 0.001, 3).Handler(whoAmI)

	request := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(constants.HeaderXRealIP, ip)
		return r
	}

	for range 3 {
		require.Equal(t, http.StatusOK, serve(handler, request("10.0.0.1")).Code)
	}

	limited := serve(handler, request("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Contains(t, limited.Body.String(), "RATE_LIMITED")

	assert.Equal(t, http.StatusOK, serve(handler, request("10.0.0.2")).Code)
}

/*
TestRealIP prefers proxy headers over the connection address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.10:5123"
	assert.Equal(t, "192.0.2.10", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.3")
	assert.Equal(t, "198.51.100.3", middleware.RealIP(request))
}

type environment bool

func (development environment) IsDevelopment() bool { return bool(development) }

/*
TestCORS restricts origins outside development.
*/
func TestCORS(t *testing.T) {
	production := middleware.CORS(environment(false), "https://partner.example.com")(whoAmI)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://listify.app", true},
		{"https://web.listify.app", true},
		{"https://partner.example.com", true},
		{"https://evil-listify.app", false},
		{"https://example.org", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set(constants.HeaderOrigin, tt.origin)

			header := serve(production, request).Header().Get("Access-Control-Allow-Origin")
			if tt.allowed {
				assert.Equal(t, tt.origin, header)
			} else {
				assert.Empty(t, header)
			}
		})
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/", nil)
	preflight.Header.Set(constants.HeaderOrigin, "http://localhost:5173")
	recorder := serve(middleware.CORS(environment(true))(whoAmI), preflight)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}
