package auth

import (
	"strings"
	"testing"
	"time"
)

func newCodecForTest(t *testing.T) *TokenCodec {
	t.Helper()

	codec, err := NewTokenCodec("test-sign-secret", "test-payload-secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("create token codec: %v", err)
	}
	return codec
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec := newCodecForTest(t)

	payload := SessionPayload{
		UserID: "user-1",
		Email:  "a@b.com",
		Role:   "ADMIN",
	}

	token, err := codec.Issue(payload)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	got, ok := codec.Verify(token)
	if !ok {
		t.Fatalf("token should verify")
	}
	if got != payload {
		t.Fatalf("payload mismatch: got %+v want %+v", got, payload)
	}
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	codec := newCodecForTest(t)

	token, err := codec.Issue(SessionPayload{UserID: "user-1", Email: "a@b.com", Role: "USER"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}

	// Flip every byte of the signature segment in turn; no single-byte
	// mutation may verify.
	for i := 0; i < len(parts[2]); i++ {
		sig := []byte(parts[2])
		if sig[i] == 'A' {
			sig[i] = 'B'
		} else {
			sig[i] = 'A'
		}
		mutated := parts[0] + "." + parts[1] + "." + string(sig)
		if mutated == token {
			continue
		}
		if _, ok := codec.Verify(mutated); ok {
			t.Fatalf("token with mutated signature byte %d should not verify", i)
		}
	}
}

func TestVerifyRejectsWrongSigningKey(t *testing.T) {
	codec := newCodecForTest(t)
	other, err := NewTokenCodec("other-sign-secret", "test-payload-secret", 24*time.Hour)
	if err != nil {
		t.Fatalf("create token codec: %v", err)
	}

	token, err := other.Issue(SessionPayload{UserID: "user-1", Email: "a@b.com", Role: "USER"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, ok := codec.Verify(token); ok {
		t.Fatalf("token signed under another key should not verify")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newCodecForTest(t)

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec.now = func() time.Time { return issuedAt }

	token, err := codec.Issue(SessionPayload{UserID: "user-1", Email: "a@b.com", Role: "USER"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	codec.now = func() time.Time { return issuedAt.Add(24*time.Hour + time.Second) }
	if _, ok := codec.Verify(token); ok {
		t.Fatalf("token past its lifetime should not verify")
	}

	codec.now = func() time.Time { return issuedAt.Add(23 * time.Hour) }
	if _, ok := codec.Verify(token); !ok {
		t.Fatalf("token inside its lifetime should verify")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := newCodecForTest(t)

	for _, raw := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, ok := codec.Verify(raw); ok {
			t.Fatalf("garbage token %q should not verify", raw)
		}
	}
}

func TestVerifyRejectsPayloadMissingRequiredFields(t *testing.T) {
	codec := newCodecForTest(t)

	if _, err := codec.Issue(SessionPayload{Email: "a@b.com"}); err == nil {
		t.Fatalf("payload without user id should not issue")
	}
	if _, err := codec.Issue(SessionPayload{UserID: "user-1"}); err == nil {
		t.Fatalf("payload without role should not issue")
	}
}

func TestNewTokenCodecRejectsSharedSecrets(t *testing.T) {
	if _, err := NewTokenCodec("same", "same", 24*time.Hour); err == nil {
		t.Fatalf("shared signing/payload secret should be rejected")
	}
}
