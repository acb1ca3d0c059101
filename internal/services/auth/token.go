package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/RiqueAlvess/portal/internal/pkg/cryptoutil"
)

// TokenCodec issues and verifies session tokens. The payload is AES-GCM
// encrypted under the payload secret, then carried as the "data" claim of
// an HS256 JWT signed under a separate signing secret. Compromise of one
// key does not expose material protected by the other.
type TokenCodec struct {
	signSecret []byte
	cipher     *cryptoutil.Cipher
	ttl        time.Duration
	now        func() time.Time
}

type envelopeClaims struct {
	Data string `json:"data"`
	jwt.RegisteredClaims
}

func NewTokenCodec(signSecret, payloadSecret string, ttl time.Duration) (*TokenCodec, error) {
	if strings.TrimSpace(signSecret) == "" {
		return nil, fmt.Errorf("signing secret is required")
	}
	if signSecret == payloadSecret {
		return nil, fmt.Errorf("signing and payload secrets must be distinct")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	cipher, err := cryptoutil.NewCipher(payloadSecret)
	if err != nil {
		return nil, fmt.Errorf("create payload cipher: %w", err)
	}

	return &TokenCodec{
		signSecret: []byte(signSecret),
		cipher:     cipher,
		ttl:        ttl,
		now:        time.Now,
	}, nil
}

func (c *TokenCodec) Issue(payload SessionPayload) (string, error) {
	if strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.Role) == "" {
		return "", ErrInvalidInput
	}

	plain, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal session payload: %w", err)
	}

	sealed, err := c.cipher.Seal(plain)
	if err != nil {
		return "", fmt.Errorf("encrypt session payload: %w", err)
	}

	now := c.now().UTC()
	claims := envelopeClaims{
		Data: sealed,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signSecret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Verify never returns an error: any failure in signature, expiry,
// decryption or payload shape reads as not-valid.
func (c *TokenCodec) Verify(raw string) (SessionPayload, bool) {
	if strings.TrimSpace(raw) == "" {
		return SessionPayload{}, false
	}

	claims := &envelopeClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
		return c.signSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil || token == nil || !token.Valid {
		return SessionPayload{}, false
	}

	plain, err := c.cipher.Open(claims.Data)
	if err != nil {
		return SessionPayload{}, false
	}

	var payload SessionPayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return SessionPayload{}, false
	}
	if strings.TrimSpace(payload.UserID) == "" || strings.TrimSpace(payload.Role) == "" {
		return SessionPayload{}, false
	}

	return payload, true
}
