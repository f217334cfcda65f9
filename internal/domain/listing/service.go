package listing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"bookeasy/internal/domain/policy"
	"bookeasy/internal/pkg/validator"
)

// EmailLookup resolves provider emails for the administrator view.
type EmailLookup interface {
	EmailsByID(ctx context.Context, ids []string) (map[string]string, error)
}

type Service struct {
	repo   Repository
	emails EmailLookup
	log    zerolog.Logger
}

func NewService(repo Repository, emails EmailLookup, log zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		emails: emails,
		log:    log.With().Str("component", "listing").Logger(),
	}
}

// Create stores a new listing owned by actor in pending state.
func (s *Service) Create(ctx context.Context, actor policy.Subject, form Form) (*Listing, error) {
	if err := policy.Authorize(actor, policy.ListingCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	form = normalize(form)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	l := &Listing{
		ID:         uuid.NewString(),
		ProviderID: actor.ID,
		Status:     StatusPending,
	}
	apply(l, form)

	if err := s.repo.Create(ctx, l); err != nil {
		s.log.Error().Err(err).Str("op", "create").Msg("listing write failed")
		return nil, err
	}
	s.log.Info().Str("listing_id", l.ID).Str("provider_id", l.ProviderID).Msg("listing created")
	return l, nil
}

func (s *Service) Update(ctx context.Context, actor policy.Subject, id string, form Form) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ListingUpdate, policy.Resource{OwnerID: l.ProviderID}); err != nil {
		return nil, err
	}
	form = normalize(form)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	apply(l, form)
	if err := s.repo.Update(ctx, l); err != nil {
		s.log.Error().Err(err).Str("op", "update").Str("listing_id", id).Msg("listing write failed")
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor policy.Subject, id string) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, policy.ListingDelete, policy.Resource{OwnerID: l.ProviderID}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("listing_id", id).Str("actor_id", actor.ID).Msg("listing deleted")
	return nil
}

// SetStatus moves a listing to any approval state.
func (s *Service) SetStatus(ctx context.Context, actor policy.Subject, id string, status Status) (*Listing, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrValidation, validator.NewError("status", "oneof"))
	}
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ListingSetStatus, policy.Resource{OwnerID: l.ProviderID, Status: string(l.Status)}); err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		s.log.Error().Err(err).Str("op", "set_status").Str("listing_id", id).Msg("listing write failed")
		return nil, err
	}
	l.Status = status
	s.log.Info().Str("listing_id", id).Str("status", string(status)).Msg("listing status changed")
	return l, nil
}

// Get hides listings the actor may not view behind ErrNotFound.
func (s *Service) Get(ctx context.Context, actor policy.Subject, id string) (*Listing, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ListingView, policy.Resource{OwnerID: l.ProviderID, Status: string(l.Status)}); err != nil {
		return nil, ErrNotFound
	}
	return l, nil
}

// Browse lists approved listings matching f, newest first.
func (s *Service) Browse(ctx context.Context, f Filters) ([]Listing, error) {
	items, err := s.repo.Browse(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Listing{}
	}
	return items, nil
}

func (s *Service) ListOwn(ctx context.Context, actor policy.Subject) ([]Listing, Stats, error) {
	if err := policy.Authorize(actor, policy.ListingListOwn, policy.Resource{}); err != nil {
		return nil, Stats{}, err
	}
	items, err := s.repo.ListByProvider(ctx, actor.ID)
	if err != nil {
		return nil, Stats{}, err
	}
	if items == nil {
		items = []Listing{}
	}
	return items, StatsOf(items), nil
}

func (s *Service) ListAll(ctx context.Context, actor policy.Subject) ([]AdminListing, error) {
	if err := policy.Authorize(actor, policy.ListingListAll, policy.Resource{}); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, l := range items {
		if !seen[l.ProviderID] {
			seen[l.ProviderID] = true
			ids = append(ids, l.ProviderID)
		}
	}

	var emails map[string]string
	if s.emails != nil {
		emails, err = s.emails.EmailsByID(ctx, ids)
		if err != nil {
			// the listing rows are still useful without emails
			s.log.Warn().Err(err).Msg("provider email lookup failed")
		}
	}

	out := make([]AdminListing, 0, len(items))
	for _, l := range items {
		out = append(out, AdminListing{Listing: l, ProviderEmail: emails[l.ProviderID]})
	}
	return out, nil
}

// ByID loads a listing without visibility checks, for other services.
func (s *Service) ByID(ctx context.Context, id string) (*Listing, error) {
	return s.repo.GetByID(ctx, id)
}

func validateForm(form Form) error {
	if err := validator.Check(form); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func normalize(form Form) Form {
	form.Name = strings.TrimSpace(form.Name)
	form.Description = strings.TrimSpace(form.Description)
	form.Location = strings.TrimSpace(form.Location)
	form.ImageURL = strings.TrimSpace(form.ImageURL)
	days := make([]string, 0, len(form.AvailableDays))
	for _, d := range form.AvailableDays {
		days = append(days, strings.ToLower(strings.TrimSpace(d)))
	}
	form.AvailableDays = days
	form.Amenities = compact(form.Amenities)
	form.Rules = compact(form.Rules)
	return form
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func apply(l *Listing, form Form) {
	l.Name = form.Name
	l.Description = form.Description
	l.Category = form.Category
	l.ImageURL = form.ImageURL
	l.Location = form.Location
	l.Latitude = form.Latitude
	l.Longitude = form.Longitude
	l.PricePerHour = form.PricePerHour
	l.OpeningTime = form.OpeningTime
	l.ClosingTime = form.ClosingTime
	l.AvailableDays = datatypes.JSONSlice[string](form.AvailableDays)
	l.MaxCapacity = form.MaxCapacity
	l.Amenities = datatypes.JSONSlice[string](form.Amenities)
	l.Rules = datatypes.JSONSlice[string](form.Rules)
}
