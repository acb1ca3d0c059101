package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
)

const (
	csrfCookieName = "csrf"
	csrfNonceBytes = 16
	csrfSecretLen  = 32
)

// Guard implements a double-submit CSRF check. A random secret lives in an
// http-only cookie; issued tokens are base64url(nonce || HMAC(key, secret||nonce)).
// Tokens are stateless and verify against whatever secret the request
// presents, so an unexpired token replays cleanly for the same cookie.
type Guard struct {
	key    []byte
	secure bool
}

func NewGuard(secret string, secureCookies bool) (*Guard, error) {
	if secret == "" {
		return nil, fmt.Errorf("csrf secret is required")
	}
	return &Guard{
		key:    []byte(secret),
		secure: secureCookies,
	}, nil
}

// IssueToken binds a fresh token to the request's CSRF cookie secret,
// creating the cookie when absent.
func (g *Guard) IssueToken(w http.ResponseWriter, r *http.Request) (string, error) {
	secret, ok := g.cookieSecret(r)
	if !ok {
		generated := make([]byte, csrfSecretLen)
		if _, err := rand.Read(generated); err != nil {
			return "", fmt.Errorf("generate csrf secret: %w", err)
		}
		secret = base64.RawURLEncoding.EncodeToString(generated)

		http.SetCookie(w, &http.Cookie{
			Name:     csrfCookieName,
			Value:    secret,
			Path:     "/",
			HttpOnly: true,
			Secure:   g.secure,
			SameSite: http.SameSiteStrictMode,
		})
	}

	nonce := make([]byte, csrfNonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate csrf nonce: %w", err)
	}

	buf := make([]byte, 0, csrfNonceBytes+sha256.Size)
	buf = append(buf, nonce...)
	buf = append(buf, g.sign(secret, nonce)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Validate never panics or errors past this boundary: any malformed or
// mismatched input reads as false.
func (g *Guard) Validate(r *http.Request, presented string) bool {
	secret, ok := g.cookieSecret(r)
	if !ok || presented == "" {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(presented)
	if err != nil || len(raw) != csrfNonceBytes+sha256.Size {
		return false
	}

	nonce, sig := raw[:csrfNonceBytes], raw[csrfNonceBytes:]
	return hmac.Equal(sig, g.sign(secret, nonce))
}

func (g *Guard) sign(secret string, nonce []byte) []byte {
	mac := hmac.New(sha256.New, g.key)
	mac.Write([]byte(secret))
	mac.Write(nonce)
	return mac.Sum(nil)
}

func (g *Guard) cookieSecret(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(csrfCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
