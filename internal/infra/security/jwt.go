package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bryanwahyu/estatehub/internal/domain/errs"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
)

// Claims carries the principal under "user", the shape clients already read.
type Claims struct {
	User users.Principal `json:"user"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 session tokens.
type JWT struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (j *JWT) Issue(p users.Principal) (string, error) {
	now := j.now()
	claims := Claims{
		User: p,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Parse verifies signature and expiry. Every failure wraps errs.ErrUnauthorized.
func (j *JWT) Parse(raw string) (users.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return users.Principal{}, fmt.Errorf("token expired: %w", errs.ErrUnauthorized)
		}
		return users.Principal{}, fmt.Errorf("invalid token: %w", errs.ErrUnauthorized)
	}
	if claims.User.ID == "" || !claims.User.Role.Valid() {
		return users.Principal{}, fmt.Errorf("token without user: %w", errs.ErrUnauthorized)
	}
	return claims.User, nil
}
