package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	jwtsvc "bookeasy/internal/pkg/jwt"
)

const minPasswordLength = 6

type tokenIssuer interface {
	GenerateToken(subject, email string, meta jwtsvc.Metadata) (string, error)
}

// SessionNotifier receives session state changes so role-gated views can be
// re-resolved.
type SessionNotifier interface {
	SignedIn(ctx context.Context, p Principal) error
	SignedOut(ctx context.Context, principalID string) error
}

// Service is the local stand-in for the hosted identity provider: sign-up,
// password sign-in and sign-out.
type Service struct {
	accounts AccountRepository
	tokens   tokenIssuer
	sessions SessionNotifier
	log      zerolog.Logger
}

type SignInResult struct {
	Principal   *Principal
	Role        Role
	AccessToken string
}

func NewService(accounts AccountRepository, tokens tokenIssuer, sessions SessionNotifier, log zerolog.Logger) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		sessions: sessions,
		log:      log.With().Str("component", "identity").Logger(),
	}
}

func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Principal, error) {
	email := normalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	declared, err := ParseDeclaredRole(req.UserType)
	if err != nil {
		return nil, err
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	acc := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		UserType:     declared.Declared(),
	}
	if err := s.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.log.Info().Str("principal_id", acc.ID).Str("user_type", acc.UserType).Msg("account registered")
	return acc.Principal(), nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	acc, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	p := acc.Principal()
	token, err := s.tokens.GenerateToken(p.ID, p.Email, jwtsvc.Metadata{UserType: p.DeclaredRole, Name: p.Name})
	if err != nil {
		return nil, err
	}

	if s.sessions != nil {
		if err := s.sessions.SignedIn(ctx, *p); err != nil {
			s.log.Error().Err(err).Str("principal_id", p.ID).Msg("publish sign-in")
		}
	}

	return &SignInResult{Principal: p, Role: p.Role(), AccessToken: token}, nil
}

func (s *Service) SignOut(ctx context.Context, principalID string) error {
	if principalID == "" {
		return ErrUnauthenticated
	}
	if s.sessions == nil {
		return nil
	}
	return s.sessions.SignedOut(ctx, principalID)
}

// Lookup returns the stored principal for id.
func (s *Service) Lookup(ctx context.Context, id string) (*Principal, error) {
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return acc.Principal(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
