package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pedlop-auth/internal/model"
)

// Claims is the signed bundle carried by an access token. Subject holds the
// username; UserID and Role are hints for the client, the live record is
// always re-fetched on validation.
type Claims struct {
	UserID string     `json:"uid"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Signer issues and verifies signed expiring tokens with a process-wide
// secret. Verification is stateless: validity is signature plus expiry,
// nothing is stored server-side.
type Signer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

func NewSigner(secret string, algorithm string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret is required")
	}

	if algorithm == "" {
		algorithm = "HS256"
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}

	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Signer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL reports the default token lifetime.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given identity expiring ttl from now. A zero
// ttl uses the signer default. The absolute expiry is returned so callers
// can mirror it into cookies.
func (s *Signer) Issue(username string, userID string, role model.Role, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks signature and expiry and returns the decoded claims. Every
// failure mode returns model.ErrInvalidCredentials so "expired" is not
// distinguishable from "tampered" or "malformed".
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, model.ErrInvalidCredentials
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidCredentials
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidCredentials
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, model.ErrInvalidCredentials
	}

	return claims, nil
}
