package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MicahParks/keyfunc/v3"
	jwtlib "github.com/golang-jwt/jwt/v5"

	jwtsvc "bookeasy/internal/pkg/jwt"
)

// Verifier turns a bearer token issued by the identity provider into a
// principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// TokenVerifier checks HS256 tokens signed with the provider's shared secret.
// The local identity provider signs with the same secret.
type TokenVerifier struct {
	jwt *jwtsvc.Service
}

func NewTokenVerifier(j *jwtsvc.Service) *TokenVerifier {
	return &TokenVerifier{jwt: j}
}

func (v *TokenVerifier) Verify(_ context.Context, token string) (*Principal, error) {
	claims, err := v.jwt.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return principalFromClaims(claims), nil
}

// JWKSVerifier checks asymmetrically signed tokens against the provider's
// published key set.
type JWKSVerifier struct {
	keys keyfunc.Keyfunc
}

// NewJWKSVerifier fetches and keeps refreshing the key set at url until ctx
// is done.
func NewJWKSVerifier(ctx context.Context, url string) (*JWKSVerifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{url})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", url, err)
	}
	return &JWKSVerifier{keys: k}, nil
}

// NewJWKSVerifierFromJSON uses a static key set.
func NewJWKSVerifierFromJSON(raw json.RawMessage) (*JWKSVerifier, error) {
	k, err := keyfunc.NewJWKSetJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse jwks: %w", err)
	}
	return &JWKSVerifier{keys: k}, nil
}

func (v *JWKSVerifier) Verify(_ context.Context, tokenStr string) (*Principal, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &jwtsvc.Claims{}, v.keys.Keyfunc,
		jwtlib.WithValidMethods([]string{"RS256", "ES256", "EdDSA"}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*jwtsvc.Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return principalFromClaims(claims), nil
}
