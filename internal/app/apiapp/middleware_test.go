package apiapp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authsvc "github.com/RiqueAlvess/portal/internal/services/auth"
	"github.com/RiqueAlvess/portal/internal/transport/http/cookies"
)

func newGateForTest(t *testing.T) (*authsvc.TokenCodec, *cookies.Manager, func(http.Handler) http.Handler) {
	t.Helper()

	codec, err := authsvc.NewTokenCodec("test-sign-secret", "test-payload-secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("create token codec: %v", err)
	}
	manager, err := cookies.NewManager("test-company-secret", false)
	if err != nil {
		t.Fatalf("create cookie manager: %v", err)
	}
	return codec, manager, RouteGate(codec, manager, nil)
}

func echoIdentityHandler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("echo-user-id", r.Header.Get(HeaderUserID))
		w.Header().Set("echo-user-role", r.Header.Get(HeaderUserRole))
		if identity, ok := authsvc.IdentityFromContext(r.Context()); ok {
			w.Header().Set("echo-ctx-user-id", identity.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func sessionCookieFromRecorder(t *testing.T, codec *authsvc.TokenCodec, manager *cookies.Manager, payload authsvc.SessionPayload) *http.Cookie {
	t.Helper()

	token, err := codec.Issue(payload)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	rec := httptest.NewRecorder()
	manager.SetSessionToken(rec, token)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatalf("session cookie not set")
	return nil
}

func TestIsPublicPath(t *testing.T) {
	public := []string{"/", "/login", "/register", "/healthz", "/csrf-token", "/api/auth/login", "/api/auth/logout", "/api/public/plans", "/static/app.css", "/assets/logo.svg"}
	for _, path := range public {
		if !IsPublicPath(path) {
			t.Fatalf("%s should be public", path)
		}
	}

	private := []string{"/dashboard", "/session", "/api/auth/session", "/api/admin/users", "/api/companies", "/loginx", "/static"}
	for _, path := range private {
		if IsPublicPath(path) {
			t.Fatalf("%s should be protected", path)
		}
	}
}

func TestRouteGatePassesPublicPaths(t *testing.T) {
	_, _, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("public path status: got %d want 200", rec.Code)
	}
}

func TestRouteGateRedirectsPageWithoutCookie(t *testing.T) {
	_, _, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status: got %d want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?callbackUrl=%2Fdashboard" {
		t.Fatalf("location: got %q", loc)
	}
}

func TestRouteGateRejectsAPIWithoutCookie(t *testing.T) {
	_, _, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "UNAUTHORIZED" {
		t.Fatalf("error code: got %q", body.Code)
	}
}

func TestRouteGateSessionPathGetsJSON401(t *testing.T) {
	_, _, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d want 401", rec.Code)
	}
}

func TestRouteGateInjectsIdentity(t *testing.T) {
	codec, manager, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookieFromRecorder(t, codec, manager, authsvc.SessionPayload{
		UserID: "user-1",
		Email:  "a@b.com",
		Role:   "ADMIN",
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d want 200", rec.Code)
	}
	if got := rec.Header().Get("echo-user-id"); got != "user-1" {
		t.Fatalf("x-user-id: got %q", got)
	}
	if got := rec.Header().Get("echo-user-role"); got != "ADMIN" {
		t.Fatalf("x-user-role: got %q", got)
	}
	if got := rec.Header().Get("echo-ctx-user-id"); got != "user-1" {
		t.Fatalf("context identity: got %q", got)
	}
}

func TestRouteGateStripsSpoofedHeaders(t *testing.T) {
	codec, manager, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(HeaderUserID, "attacker")
	req.Header.Set(HeaderUserRole, "ADMIN")
	req.AddCookie(sessionCookieFromRecorder(t, codec, manager, authsvc.SessionPayload{
		UserID: "user-1",
		Email:  "a@b.com",
		Role:   "USER",
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("echo-user-id"); got != "user-1" {
		t.Fatalf("spoofed x-user-id survived: got %q", got)
	}
	if got := rec.Header().Get("echo-user-role"); got != "USER" {
		t.Fatalf("spoofed x-user-role survived: got %q", got)
	}
}

func TestRouteGateInvalidTokenClearsCookieAndRedirects(t *testing.T) {
	_, _, gate := newGateForTest(t)
	handler := gate(echoIdentityHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "not-a-valid-token"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("status: got %d want 302", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("stale session cookie should be cleared")
	}
}

func TestRouteGateExpiredTokenDenied(t *testing.T) {
	codec, manager, _ := newGateForTest(t)

	shortCodec, err := authsvc.NewTokenCodec("test-sign-secret", "test-payload-secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("create token codec: %v", err)
	}
	gate := RouteGate(codec, manager, nil)
	handler := gate(echoIdentityHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookieFromRecorder(t, shortCodec, manager, authsvc.SessionPayload{
		UserID: "user-1",
		Email:  "a@b.com",
		Role:   "USER",
	}))
	time.Sleep(5 * time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expired token status: got %d want 302", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireRole("ADMIN")(next)

	// No identity at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no identity: got %d want 401", rec.Code)
	}

	// Wrong role.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: "u", Role: "USER"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: got %d want 403", rec.Code)
	}

	// Case-insensitive match.
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req = req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{UserID: "u", Role: "admin"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("matching role: got %d want 200", rec.Code)
	}
}
