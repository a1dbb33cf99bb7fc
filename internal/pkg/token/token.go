package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aigatehq/aigate/internal/pkg/env"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultTTL matches the login cookie lifetime.
const DefaultTTL = 24 * time.Hour

var (
	ErrExpired = errors.New("expired token")
	ErrInvalid = errors.New("invalid token")
)

// Claims is the payload embedded in every issued token. For admins the
// permission strings are captured at login time; they are not re-read per
// request, so permission edits take effect on the next login.
type Claims struct {
	UserID      uint     `json:"uid"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	IsAdmin     bool     `json:"isAdmin,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(env.GetEnv("JWT_SECRET", ""))
}

// Sign issues a signed token with the given claims and TTL.
func Sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret())
}

// Verify parses and validates a token. Expiry and signature failures are
// distinguished only so callers can log them; both read as unauthorized.
func Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return secret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !t.Valid || claims.UserID == 0 {
		return nil, ErrInvalid
	}
	return claims, nil
}
