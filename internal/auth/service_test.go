package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"forms-platform/internal/credential"
	"forms-platform/internal/rbac"
	"forms-platform/internal/session"
	"forms-platform/internal/user"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	codec := testCodec(t)
	hasher, err := credential.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	return NewService(
		user.NewMemoryRepository(),
		credential.NewMemoryStore(hasher),
		session.NewMemoryStore(codec),
		codec,
	)
}

func register(t *testing.T, s *Service, email, password string) (user.Principal, TokenPair) {
	t.Helper()
	p, pair, err := s.Register(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Register(%s): %v", email, err)
	}
	return p, pair
}

func TestRegisterIssuesSession(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")

	if len(p.Roles) != 1 || p.Roles[0] != rbac.RoleUser {
		t.Fatalf("new principal roles = %v, want [user]", p.Roles)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("registration should mint both tokens")
	}

	claims, err := s.codec.VerifyAccess(pair.AccessToken, s.now())
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserID != p.ID || claims.Role != "user" {
		t.Fatalf("access claims = %q/%q", claims.UserID, claims.Role)
	}

	if _, err := s.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("fresh session should refresh: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
		field    string
		message  string
	}{
		{"empty email", "", "s3cret-passw0rd", "email", "Email is required."},
		{"malformed email", "not-an-email", "s3cret-passw0rd", "email", "Invalid email address."},
		{"oversized email", strings.Repeat("a", 250) + "@example.com", "s3cret-passw0rd", "email", "Email must be at most 255 characters."},
		{"short password", "ada@example.com", "short", "password", "Password must be between 8 and 72 characters."},
		{"oversized password", "ada@example.com", string(make([]byte, 73)), "password", "Password must be between 8 and 72 characters."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Register(ctx, tc.email, tc.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Register = %v, want ErrValidation", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Register = %v, want *ValidationError", err)
			}
			if ve.Field != tc.field || ve.Message != tc.message {
				t.Fatalf("got field %q message %q, want %q %q", ve.Field, ve.Message, tc.field, tc.message)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestService(t)
	register(t, s, "ada@example.com", "s3cret-passw0rd")

	_, _, err := s.Register(context.Background(), "Ada@Example.com", "other-passw0rd")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate Register = %v, want ErrConflict", err)
	}
}

func TestLoginSuccess(t *testing.T) {
	s := newTestService(t)
	p, _ := register(t, s, "ada@example.com", "s3cret-passw0rd")

	got, pair, err := s.Login(context.Background(), "ADA@example.com ", "s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("Login principal = %q, want %q", got.ID, p.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login should mint both tokens")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	s := newTestService(t)
	register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	_, _, wrongPassword := s.Login(ctx, "ada@example.com", "wrong-passw0rd")
	_, _, unknownEmail := s.Login(ctx, "ghost@example.com", "s3cret-passw0rd")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v, want ErrInvalidCredentials", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("unknown email = %v, want ErrInvalidCredentials", unknownEmail)
	}
	// Same sentinel both ways: callers cannot probe which identifiers exist.
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("failure modes differ: %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestLoginReplacesExistingSession(t *testing.T) {
	s := newTestService(t)
	_, first := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	_, second, err := s.Login(ctx, "ada@example.com", "s3cret-passw0rd")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := s.Refresh(ctx, first.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("replaced session refresh = %v, want ErrUnauthorized", err)
	}

	// The replay attempt above also burned the live session.
	if _, err := s.Refresh(ctx, second.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("post-replay refresh = %v, want ErrUnauthorized", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	s := newTestService(t)
	_, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	rotated, err := s.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatal("rotation must mint a new refresh token")
	}
	if rotated.AccessToken == "" {
		t.Fatal("rotation must mint a new access token")
	}

	if _, err := s.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token should refresh: %v", err)
	}
}

func TestRefreshReuseKillsSession(t *testing.T) {
	s := newTestService(t)
	_, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	rotated, err := s.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Replaying the retired token fails and takes the live session with it.
	if _, err := s.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("replayed refresh = %v, want ErrUnauthorized", err)
	}
	if _, err := s.Refresh(ctx, rotated.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("live token after replay = %v, want ErrUnauthorized", err)
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	if _, err := s.Refresh(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token = %v, want ErrUnauthorized", err)
	}
	if _, err := s.Refresh(ctx, "not-a-token"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("garbage token = %v, want ErrUnauthorized", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	s := newTestService(t)
	_, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")

	if _, err := s.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("access token on refresh path = %v, want ErrUnauthorized", err)
	}
}

func TestLogout(t *testing.T) {
	s := newTestService(t)
	_, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	if err := s.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := s.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh after logout = %v, want ErrUnauthorized", err)
	}

	// Logout never complains about missing or mangled tokens.
	if err := s.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout without token: %v", err)
	}
	if err := s.Logout(ctx, "not-a-token"); err != nil {
		t.Fatalf("Logout with garbage: %v", err)
	}
	if err := s.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("repeat Logout: %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestService(t)
	p, pair := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	if err := s.DeleteAccount(ctx, p.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}

	if _, _, err := s.Login(ctx, "ada@example.com", "s3cret-passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("login after deletion = %v, want ErrInvalidCredentials", err)
	}
	if _, err := s.Refresh(ctx, pair.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("refresh after deletion = %v, want ErrUnauthorized", err)
	}
	if err := s.DeleteAccount(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeat DeleteAccount = %v, want ErrNotFound", err)
	}
}

func TestMe(t *testing.T) {
	s := newTestService(t)
	p, _ := register(t, s, "ada@example.com", "s3cret-passw0rd")
	ctx := context.Background()

	got, err := s.Me(ctx, p.ID)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("Me email = %q", got.Email)
	}

	if _, err := s.Me(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Me(ghost) = %v, want ErrNotFound", err)
	}
}
