package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeLogin   = "login"
	PurposeSession = "session"
)

var ErrInvalidToken = errors.New("invalid token")

var jwtSecret []byte

// SetSecret sets the HMAC key used to sign and verify every token.
func SetSecret(secret []byte) {
	jwtSecret = secret
}

type Claims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token as a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// GenerateLoginToken builds the token sent by email. The returned id must be
// recorded so the link can be used only once.
func GenerateLoginToken(userID uuid.UUID, ttl time.Duration) (string, string, error) {
	jti := uuid.NewString()
	token, err := buildToken(userID, PurposeLogin, jti, ttl)
	return token, jti, err
}

func GenerateSessionToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	return buildToken(userID, PurposeSession, uuid.NewString(), ttl)
}

func buildToken(userID uuid.UUID, purpose, jti string, ttl time.Duration) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	now := time.Now()
	claims := Claims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies signature, expiry and purpose.
func ParseToken(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: unexpected purpose %q", ErrInvalidToken, claims.Purpose)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims, nil
}
