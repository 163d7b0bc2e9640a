package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Reset-token decode failures, surfaced to the caller for user-facing
// messaging.
var (
	ErrTokenExpired = errors.New("reset token expired")
	ErrTokenInvalid = errors.New("reset token invalid")
)

const resetAudience = "password-reset"

// ResetTokenCodec issues and verifies single-purpose password-reset tokens.
// A token binds the account email and carries its own expiry.
type ResetTokenCodec struct {
	secret []byte
	maxAge time.Duration
}

// NewResetTokenCodec creates a codec with the given signing secret and token
// lifetime.
func NewResetTokenCodec(secret string, maxAge time.Duration) *ResetTokenCodec {
	return &ResetTokenCodec{secret: []byte(secret), maxAge: maxAge}
}

type resetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Encode issues a reset token for the given account email.
func (c *ResetTokenCodec) Encode(email string) (string, error) {
	now := time.Now()
	claims := &resetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a reset token and returns the email it was issued for.
// Returns ErrTokenExpired for a well-formed but stale token, ErrTokenInvalid
// for anything else.
func (c *ResetTokenCodec) Decode(tokenStr string) (string, error) {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithAudience(resetAudience), jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid || claims.Email == "" {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}
