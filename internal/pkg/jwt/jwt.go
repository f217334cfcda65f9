package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidClaims = errors.New("invalid claims")
)

// Metadata mirrors the free-form user attributes the identity provider
// embeds in its access tokens.
type Metadata struct {
	UserType string `json:"user_type,omitempty"`
	Name     string `json:"name,omitempty"`
}

type Claims struct {
	Email        string   `json:"email"`
	Role         string   `json:"role,omitempty"`
	UserMetadata Metadata `json:"user_metadata"`
	jwtlib.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "bookeasy",
	}
}

// GenerateToken signs an HS256 access token for the given subject.
func (s *Service) GenerateToken(subject, email string, meta Metadata) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:        email,
		Role:         "authenticated",
		UserMetadata: meta,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// TTL reports the lifetime of tokens issued by this service.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
