package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func newManagerForTest(t *testing.T) *Manager {
	t.Helper()

	m, err := NewManager("test-company-secret", false)
	if err != nil {
		t.Fatalf("create cookie manager: %v", err)
	}
	return m
}

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newManagerForTest(t)

	rec := httptest.NewRecorder()
	m.SetSessionToken(rec, "header.payload.signature")

	c := responseCookie(t, rec, sessionCookieName)
	if !c.HttpOnly {
		t.Fatalf("session cookie should be http-only")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Fatalf("session cookie should be same-site strict")
	}
	if c.Path != "/" {
		t.Fatalf("session cookie path: got %q want /", c.Path)
	}
	if c.MaxAge != sessionMaxAge {
		t.Fatalf("session cookie max-age: got %d want %d", c.MaxAge, sessionMaxAge)
	}

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(c)

	token, ok := m.SessionToken(req)
	if !ok || token != "header.payload.signature" {
		t.Fatalf("session token read back: got %q ok=%v", token, ok)
	}
}

func TestSessionTokenMissing(t *testing.T) {
	m := newManagerForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	if _, ok := m.SessionToken(req); ok {
		t.Fatalf("missing session cookie should read as absent")
	}
}

func TestClearSessionToken(t *testing.T) {
	m := newManagerForTest(t)

	rec := httptest.NewRecorder()
	m.ClearSessionToken(rec)

	c := responseCookie(t, rec, sessionCookieName)
	if c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("clear should expire the cookie, got value=%q max-age=%d", c.Value, c.MaxAge)
	}
}

func TestSecureFlagFollowsEnvironment(t *testing.T) {
	m, err := NewManager("test-company-secret", true)
	if err != nil {
		t.Fatalf("create cookie manager: %v", err)
	}

	rec := httptest.NewRecorder()
	m.SetSessionToken(rec, "tok")
	if !responseCookie(t, rec, sessionCookieName).Secure {
		t.Fatalf("session cookie should be secure")
	}

	rec = httptest.NewRecorder()
	if err := m.SetSelectedCompany(rec, "company-1"); err != nil {
		t.Fatalf("set selected company: %v", err)
	}
	if !responseCookie(t, rec, companyCookieName).Secure {
		t.Fatalf("company cookie should be secure")
	}
}

func TestSelectedCompanyRoundTrip(t *testing.T) {
	m := newManagerForTest(t)

	rec := httptest.NewRecorder()
	if err := m.SetSelectedCompany(rec, "company-42"); err != nil {
		t.Fatalf("set selected company: %v", err)
	}

	c := responseCookie(t, rec, companyCookieName)
	if c.HttpOnly {
		t.Fatalf("company cookie must stay readable by page scripts")
	}
	if c.MaxAge != companyMaxAge {
		t.Fatalf("company cookie max-age: got %d want %d", c.MaxAge, companyMaxAge)
	}
	if c.Value == "company-42" {
		t.Fatalf("company id must not be stored in the clear")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/companies/selected", nil)
	req.AddCookie(c)

	id, ok := m.SelectedCompany(req)
	if !ok || id != "company-42" {
		t.Fatalf("selected company read back: got %q ok=%v", id, ok)
	}
}

func TestSelectedCompanyUndecryptableReadsAsAbsent(t *testing.T) {
	m := newManagerForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/companies/selected", nil)
	req.AddCookie(&http.Cookie{Name: companyCookieName, Value: "not-a-sealed-value"})

	if _, ok := m.SelectedCompany(req); ok {
		t.Fatalf("undecryptable company cookie should read as absent")
	}
}

func TestSelectedCompanyForeignKeyReadsAsAbsent(t *testing.T) {
	m := newManagerForTest(t)
	other, err := NewManager("another-secret", false)
	if err != nil {
		t.Fatalf("create cookie manager: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := other.SetSelectedCompany(rec, "company-42"); err != nil {
		t.Fatalf("set selected company: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/companies/selected", nil)
	req.AddCookie(responseCookie(t, rec, companyCookieName))

	if _, ok := m.SelectedCompany(req); ok {
		t.Fatalf("cookie sealed under another key should read as absent")
	}
}

func TestSetSelectedCompanyRequiresID(t *testing.T) {
	m := newManagerForTest(t)

	if err := m.SetSelectedCompany(httptest.NewRecorder(), ""); err == nil {
		t.Fatalf("empty company id should be rejected")
	}
}
