package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/ipgeo-server/internal/model"
)

// DefaultTTL is the fixed session lifetime used when none is configured.
const DefaultTTL = 8 * time.Hour

// Claims represents JWT claims with the session identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a new JWT token manager with the provided secret key and session lifetime.
func NewJWT(secretKey string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &JWT{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

// Issue signs a session token for the user.
func (j *JWT) Issue(user model.User) (string, model.SessionClaims, error) {
	now := j.now()
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(j.ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", model.SessionClaims{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, model.SessionClaims{
		SubjectID: user.ID,
		Email:     user.Email,
		Name:      user.Name,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// Verify validates the token signature and expiry and returns its claims.
// Errors are one of model.ErrTokenMalformed, model.ErrTokenInvalidSignature
// or model.ErrTokenExpired.
func (j *JWT) Verify(tokenString string) (model.SessionClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		// The signing method is only set once header and claims decoded, so a
		// malformed error past that point comes from the signature segment.
		if token != nil && token.Method != nil && errors.Is(err, jwt.ErrTokenMalformed) {
			return model.SessionClaims{}, fmt.Errorf("%w: %v", model.ErrTokenInvalidSignature, err)
		}
		return model.SessionClaims{}, classify(err)
	}
	if !token.Valid {
		return model.SessionClaims{}, model.ErrTokenInvalidSignature
	}
	if claims.UserID == uuid.Nil {
		return model.SessionClaims{}, fmt.Errorf("%w: missing subject", model.ErrTokenMalformed)
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return model.SessionClaims{
		SubjectID: claims.UserID,
		Email:     claims.Email,
		Name:      claims.Name,
		IssuedAt:  issuedAt,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", model.ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", model.ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", model.ErrTokenMalformed, err)
	}
}
