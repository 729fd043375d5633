package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"forms-platform/internal/credential"
	"forms-platform/internal/rbac"
	"forms-platform/internal/session"
	"forms-platform/internal/user"
)

const (
	minPasswordLen = 8
	// bcrypt input cap; longer secrets would be silently truncated otherwise.
	maxPasswordLen = 72
	maxEmailLen    = 255
)

// TokenPair is the result of a successful authentication: a short-lived
// access token for request authorization and a refresh token that lives in
// the session cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service orchestrates the session lifecycle: registration, login, refresh
// rotation, logout, and account removal. It owns no state of its own; every
// decision flows through the injected stores.
type Service struct {
	users       user.Repository
	credentials credential.Store
	sessions    session.Store
	codec       *Codec
	now         func() time.Time
}

func NewService(users user.Repository, credentials credential.Store, sessions session.Store, codec *Codec) *Service {
	return &Service{
		users:       users,
		credentials: credentials,
		sessions:    sessions,
		codec:       codec,
		now:         time.Now,
	}
}

// Register creates a principal with the default role set, stores its
// credential, and logs it straight in.
func (s *Service) Register(ctx context.Context, email, password string) (user.Principal, TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return user.Principal{}, TokenPair{}, err
	}
	if err := validatePassword(password); err != nil {
		return user.Principal{}, TokenPair{}, err
	}

	p := user.Principal{
		ID:        uuid.NewString(),
		Email:     email,
		Roles:     rbac.DefaultRoles(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, p); err != nil {
		if errors.Is(err, user.ErrConflict) {
			return user.Principal{}, TokenPair{}, ErrConflict
		}
		return user.Principal{}, TokenPair{}, fmt.Errorf("create principal: %w", err)
	}

	if err := s.credentials.Put(ctx, p.ID, password); err != nil {
		// Without a credential the principal can never log in; undo the
		// half-finished registration.
		_ = s.users.Delete(ctx, p.ID)
		return user.Principal{}, TokenPair{}, fmt.Errorf("store credential: %w", err)
	}

	pair, err := s.issuePair(ctx, p)
	if err != nil {
		return user.Principal{}, TokenPair{}, err
	}
	return p, pair, nil
}

// Login verifies the credential and opens a fresh session, replacing any
// session the principal already had. Unknown identifier and wrong password
// are deliberately indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (user.Principal, TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return user.Principal{}, TokenPair{}, ErrInvalidCredentials
	}
	if password == "" {
		return user.Principal{}, TokenPair{}, ErrInvalidCredentials
	}

	p, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Principal{}, TokenPair{}, ErrInvalidCredentials
		}
		return user.Principal{}, TokenPair{}, fmt.Errorf("find principal: %w", err)
	}

	ok, err := s.credentials.Verify(ctx, p.ID, password)
	if err != nil {
		return user.Principal{}, TokenPair{}, fmt.Errorf("verify credential: %w", err)
	}
	if !ok {
		return user.Principal{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, p)
	if err != nil {
		return user.Principal{}, TokenPair{}, err
	}
	return p, pair, nil
}

// Refresh rotates a session: the presented refresh token must be signed,
// unexpired, and the one currently cached for its principal. On success both
// tokens are re-minted and the cache slot is overwritten, retiring the
// presented token.
func (s *Service) Refresh(ctx context.Context, tokenString string) (TokenPair, error) {
	if tokenString == "" {
		return TokenPair{}, ErrUnauthorized
	}

	live, err := s.sessions.Validate(ctx, tokenString)
	if err != nil {
		return TokenPair{}, fmt.Errorf("validate session: %w", err)
	}
	if !live {
		// A well-signed token that is not the cached one means an old copy
		// is being replayed, possibly by a thief. Kill the live session so
		// both holders have to log in again.
		if userID, derr := s.codec.RefreshSubject(tokenString, s.now()); derr == nil {
			_ = s.sessions.Invalidate(ctx, userID)
		}
		return TokenPair{}, ErrUnauthorized
	}

	claims, err := s.codec.VerifyRefresh(tokenString, s.now())
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	return s.mintPair(ctx, claims.UserID, claims.Role)
}

// Logout closes the principal's session. An absent or undecodable token is
// not an error; logout is always safe to call.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}
	userID, err := s.codec.RefreshSubject(tokenString, s.now())
	if err != nil {
		return nil
	}
	if err := s.sessions.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// DeleteAccount removes the principal, its credential, and any live session.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.sessions.Invalidate(ctx, userID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	if _, err := s.credentials.Remove(ctx, userID); err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete principal: %w", err)
	}
	return nil
}

// Me returns the principal behind a verified access token.
func (s *Service) Me(ctx context.Context, userID string) (user.Principal, error) {
	p, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.Principal{}, ErrNotFound
		}
		return user.Principal{}, fmt.Errorf("find principal: %w", err)
	}
	return p, nil
}

// ListUsers returns every registered principal.
func (s *Service) ListUsers(ctx context.Context) ([]user.Principal, error) {
	return s.users.List(ctx)
}

func (s *Service) issuePair(ctx context.Context, p user.Principal) (TokenPair, error) {
	role, ok := p.PrimaryRole()
	if !ok {
		// A principal with no roles cannot carry a role claim, so no token
		// can be minted for it.
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.mintPair(ctx, p.ID, role.String())
}

func (s *Service) mintPair(ctx context.Context, userID, role string) (TokenPair, error) {
	access, err := s.codec.IssueAccess(s.now(), userID, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.sessions.Create(ctx, userID, role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("open session: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &ValidationError{Field: "email", Message: "Email is required."}
	}
	if len(email) > maxEmailLen {
		return "", &ValidationError{Field: "email", Message: "Email must be at most 255 characters."}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", &ValidationError{Field: "email", Message: "Invalid email address."}
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return &ValidationError{Field: "password", Message: "Password must be between 8 and 72 characters."}
	}
	return nil
}
