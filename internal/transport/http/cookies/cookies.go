package cookies

import (
	"fmt"
	"net/http"

	"github.com/RiqueAlvess/portal/internal/pkg/cryptoutil"
)

const (
	sessionCookieName = "token"
	companyCookieName = "selected_company"

	sessionMaxAge = 24 * 60 * 60
	companyMaxAge = 30 * 24 * 60 * 60
)

// Manager reads and writes the portal's cookies against explicit
// request/response values; it holds no per-request state of its own.
type Manager struct {
	secure        bool
	companyCipher *cryptoutil.Cipher
}

func NewManager(companySecret string, secureCookies bool) (*Manager, error) {
	cipher, err := cryptoutil.NewCipher(companySecret)
	if err != nil {
		return nil, fmt.Errorf("create company cipher: %w", err)
	}

	return &Manager{
		secure:        secureCookies,
		companyCipher: cipher,
	}, nil
}

func (m *Manager) SetSessionToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   sessionMaxAge,
	})
}

// ClearSessionToken overwrites the cookie with an empty, immediately
// expiring value.
func (m *Manager) ClearSessionToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}

func (m *Manager) SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// SetSelectedCompany stores the tenant choice encrypted under its own
// secret. The cookie is readable by page scripts; it carries no credential.
func (m *Manager) SetSelectedCompany(w http.ResponseWriter, companyID string) error {
	if companyID == "" {
		return fmt.Errorf("company id is required")
	}

	sealed, err := m.companyCipher.Seal([]byte(companyID))
	if err != nil {
		return fmt.Errorf("encrypt company id: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     companyCookieName,
		Value:    sealed,
		Path:     "/",
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   companyMaxAge,
	})
	return nil
}

// SelectedCompany treats a missing or undecryptable cookie the same way:
// no selection.
func (m *Manager) SelectedCompany(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(companyCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	plain, err := m.companyCipher.Open(cookie.Value)
	if err != nil || len(plain) == 0 {
		return "", false
	}
	return string(plain), true
}

func (m *Manager) ClearSelectedCompany(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     companyCookieName,
		Value:    "",
		Path:     "/",
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
}
