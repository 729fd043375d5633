package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"forms-platform/internal/config"
)

func testCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(config.AuthConfig{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		Issuer:        "forms-platform",
		Audience:      "forms-platform-api",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.AuthConfig
	}{
		{"missing secrets", config.AuthConfig{AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"equal secrets", config.AuthConfig{AccessSecret: "same", RefreshSecret: "same", AccessTTL: time.Minute, RefreshTTL: time.Hour}},
		{"zero ttl", config.AuthConfig{AccessSecret: "a", RefreshSecret: "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewCodec(tc.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	c := testCodec(t)
	now := time.Now()

	tok, err := c.IssueAccess(now, "u1", "admin")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	claims, err := c.VerifyAccess(tok, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "admin" {
		t.Fatalf("claims = %q/%q", claims.UserID, claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("token type = %q", claims.TokenType)
	}
}

func TestAccessTokenExpiryBoundary(t *testing.T) {
	c := testCodec(t)
	now := time.Now()
	expiry := now.Add(15 * time.Minute)

	tok, err := c.IssueAccess(now, "u1", "user")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	if _, err := c.VerifyAccess(tok, expiry.Add(-time.Second)); err != nil {
		t.Fatalf("token should verify just before expiry: %v", err)
	}
	// exp <= now is expired, equality included.
	if _, err := c.VerifyAccess(tok, expiry); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token at exact expiry = %v, want ErrInvalidToken", err)
	}
	if _, err := c.VerifyAccess(tok, expiry.Add(time.Second)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token past expiry = %v, want ErrInvalidToken", err)
	}
}

func TestTokenClassesDoNotCross(t *testing.T) {
	c := testCodec(t)
	now := time.Now()

	access, err := c.IssueAccess(now, "u1", "user")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	refresh, err := c.IssueRefresh(now, "u1", "user")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	if _, err := c.VerifyRefresh(access, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := c.VerifyAccess(refresh, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	c := testCodec(t)
	now := time.Now()

	tok, err := c.IssueAccess(now, "u1", "user")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", tok)
	}
	forged := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := c.VerifyAccess(forged, now); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("forged signature = %v, want ErrInvalidToken", err)
	}
}

func TestGarbageInputRejected(t *testing.T) {
	c := testCodec(t)
	now := time.Now()

	for _, tok := range []string{"", "x", "a.b", "a.b.c", "....."} {
		if _, err := c.VerifyAccess(tok, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("VerifyAccess(%q) = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestRefreshSubject(t *testing.T) {
	c := testCodec(t)
	now := time.Now()

	tok, err := c.IssueRefresh(now, "u1", "user")
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}

	id, err := c.RefreshSubject(tok, now)
	if err != nil {
		t.Fatalf("RefreshSubject: %v", err)
	}
	if id != "u1" {
		t.Fatalf("RefreshSubject = %q, want u1", id)
	}
}
