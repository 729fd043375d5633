package auth

import (
	"errors"
	"time"

	"forms-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Codec signs and verifies the two bearer token classes. Access and refresh
// tokens use distinct secrets and distinct TTLs; compromise of one key must
// not compromise the other.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(cfg config.AuthConfig) (*Codec, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("both token secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Codec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}, nil
}

// RefreshTTL is exposed so the session cache and the cookie Max-Age always
// agree with the token's own expiry.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *Codec) IssueAccess(now time.Time, userID, role string) (string, error) {
	return c.issue(now, TokenTypeAccess, userID, role, c.accessSecret, c.accessTTL)
}

func (c *Codec) IssueRefresh(now time.Time, userID, role string) (string, error) {
	return c.issue(now, TokenTypeRefresh, userID, role, c.refreshSecret, c.refreshTTL)
}

// VerifyAccess checks signature, expiry, and token class. Any failure is
// reported as ErrInvalidToken; attacker-controlled input never panics.
func (c *Codec) VerifyAccess(tokenString string, now time.Time) (Claims, error) {
	return c.verify(tokenString, TokenTypeAccess, c.accessSecret, now)
}

func (c *Codec) VerifyRefresh(tokenString string, now time.Time) (Claims, error) {
	return c.verify(tokenString, TokenTypeRefresh, c.refreshSecret, now)
}

// RefreshSubject verifies a refresh token and returns only the principal it
// was minted for. The session cache uses it to locate the cached slot.
func (c *Codec) RefreshSubject(tokenString string, now time.Time) (string, error) {
	claims, err := c.VerifyRefresh(tokenString, now)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (c *Codec) issue(
	now time.Time,
	tokenType TokenType,
	userID,
	role string,
	secret []byte,
	ttl time.Duration,
) (string, error) {

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  audienceOrNil(c.audience),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func (c *Codec) verify(tokenString string, expected TokenType, secret []byte, now time.Time) (Claims, error) {
	var claims Claims

	// No leeway: a token with exp <= now is expired, equality included.
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}
	if c.audience != "" {
		opts = append(opts, jwt.WithAudience(c.audience))
	}

	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	if claims.TokenType != expected {
		return Claims{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	if claims.Role == "" {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
