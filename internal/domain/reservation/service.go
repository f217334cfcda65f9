package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"bookeasy/internal/domain/listing"
	"bookeasy/internal/domain/policy"
	"bookeasy/internal/domain/slot"
	"bookeasy/internal/pkg/validator"
)

// ListingReader loads listings without visibility checks.
type ListingReader interface {
	ByID(ctx context.Context, id string) (*listing.Listing, error)
}

// EmailLookup resolves customer emails for provider and administrator views.
type EmailLookup interface {
	EmailsByID(ctx context.Context, ids []string) (map[string]string, error)
}

type Options struct {
	// PreventOverlap rejects a booking whose slot intersects a pending or
	// confirmed reservation of the same listing on the same date.
	PreventOverlap bool
}

type Service struct {
	repo     Repository
	listings ListingReader
	emails   EmailLookup
	opts     Options
	now      func() time.Time
	log      zerolog.Logger
}

func NewService(repo Repository, listings ListingReader, emails EmailLookup, opts Options, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		listings: listings,
		emails:   emails,
		opts:     opts,
		now:      time.Now,
		log:      log.With().Str("component", "reservation").Logger(),
	}
}

// Create books a slot on an approved listing. The new reservation is
// pending until the provider confirms it.
func (s *Service) Create(ctx context.Context, actor policy.Subject, req CreateRequest) (*Details, error) {
	if err := policy.Authorize(actor, policy.ReservationCreate, policy.Resource{}); err != nil {
		return nil, err
	}
	req = normalize(req)
	if err := validator.Check(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if req.BookingDate < s.now().Format(slot.DateLayout) {
		return nil, invalid("booking_date", "future")
	}

	l, err := s.listings.ByID(ctx, req.ListingID)
	if errors.Is(err, listing.ErrNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, err
	}
	if l.Status != listing.StatusApproved {
		return nil, ErrListingNotFound
	}

	sl, err := slot.Compute(req.StartTime, req.Duration, l.PricePerHour)
	if err != nil {
		return nil, slotError(err)
	}
	if err := slot.CheckAvailability(req.BookingDate, sl, l.AvailableDays, l.OpeningTime, l.ClosingTime); err != nil {
		return nil, slotError(err)
	}

	if s.opts.PreventOverlap {
		if err := s.checkOverlap(ctx, l.ID, req.BookingDate, sl); err != nil {
			return nil, err
		}
	}

	r := &Reservation{
		ID:              uuid.NewString(),
		ListingID:       l.ID,
		UserID:          actor.ID,
		CustomerName:    req.CustomerName,
		PhoneNumber:     req.PhoneNumber,
		BookingDate:     req.BookingDate,
		StartTime:       sl.Start,
		EndTime:         sl.End,
		Duration:        sl.Duration,
		TotalPrice:      sl.Price,
		Status:          StatusPending,
		SpecialRequests: req.SpecialRequests,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		if !errors.Is(err, ErrListingNotFound) {
			s.log.Error().Err(err).Str("op", "create").Str("listing_id", l.ID).Msg("reservation write failed")
		}
		return nil, err
	}

	s.log.Info().
		Str("reservation_id", r.ID).
		Str("listing_id", l.ID).
		Str("date", r.BookingDate).
		Str("start", r.StartTime).
		Str("end", r.EndTime).
		Bool("crosses_midnight", sl.CrossesMidnight).
		Msg("reservation created")
	return &Details{Reservation: *r, Listing: summaryOf(l)}, nil
}

func (s *Service) checkOverlap(ctx context.Context, listingID, date string, sl slot.Slot) error {
	existing, err := s.repo.ActiveOnDate(ctx, listingID, date)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if slot.Overlaps(sl.Start, sl.End, e.StartTime, e.EndTime) {
			return fmt.Errorf("%w: %s-%s overlaps %s-%s", ErrSlotTaken, sl.Start, sl.End, e.StartTime, e.EndTime)
		}
	}
	return nil
}

// Get returns a reservation to its booker, the listing's provider or an
// administrator. Anyone else gets ErrNotFound.
func (s *Service) Get(ctx context.Context, actor policy.Subject, id string) (*Details, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, policy.ReservationView, resourceOf(r)); err != nil {
		return nil, ErrNotFound
	}
	out := s.details(ctx, []Reservation{*r})
	return &out[0], nil
}

// ListMine returns the caller's reservations, latest booking date first.
func (s *Service) ListMine(ctx context.Context, actor policy.Subject) ([]Details, error) {
	if err := policy.Authorize(actor, policy.ReservationListOwn, policy.Resource{}); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]Details, 0, len(items))
	for _, r := range items {
		out = append(out, Details{Reservation: r, Listing: summaryOf(r.Listing)})
	}
	return out, nil
}

func (s *Service) ListForProvider(ctx context.Context, actor policy.Subject) ([]Details, error) {
	if err := policy.Authorize(actor, policy.ReservationListProvider, policy.Resource{}); err != nil {
		return nil, err
	}
	items, err := s.repo.ListByProvider(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items), nil
}

func (s *Service) ListAll(ctx context.Context, actor policy.Subject, status *Status) ([]Details, error) {
	if err := policy.Authorize(actor, policy.ReservationListAll, policy.Resource{}); err != nil {
		return nil, err
	}
	items, err := s.repo.ListAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.details(ctx, items), nil
}

// UpdateStatus moves a reservation along the status machine. Only the
// listing's provider and administrators may do so.
func (s *Service) UpdateStatus(ctx context.Context, actor policy.Subject, id string, to Status) (*Details, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	res := resourceOf(r)
	if err := policy.Authorize(actor, policy.ReservationSetStatus, res); err != nil {
		if policy.Authorize(actor, policy.ReservationView, res) != nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s is final", ErrInvalidStatusTransition, r.Status)
	}
	if !CanTransition(r.Status, to) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, r.Status, to)
	}
	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		s.log.Error().Err(err).Str("op", "update_status").Str("reservation_id", id).Msg("reservation write failed")
		return nil, err
	}

	s.log.Info().
		Str("reservation_id", id).
		Str("from", string(r.Status)).
		Str("to", string(to)).
		Str("actor_id", actor.ID).
		Msg("reservation status changed")
	r.Status = to
	out := s.details(ctx, []Reservation{*r})
	return &out[0], nil
}

func (s *Service) Delete(ctx context.Context, actor policy.Subject, id string) error {
	if err := policy.Authorize(actor, policy.ReservationDelete, policy.Resource{}); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("reservation_id", id).Str("actor_id", actor.ID).Msg("reservation deleted")
	return nil
}

// details attaches listing summaries and customer emails.
func (s *Service) details(ctx context.Context, items []Reservation) []Details {
	out := make([]Details, 0, len(items))
	if len(items) == 0 {
		return out
	}

	var emails map[string]string
	if s.emails != nil {
		ids := make([]string, 0, len(items))
		seen := make(map[string]bool, len(items))
		for _, r := range items {
			if !seen[r.UserID] {
				seen[r.UserID] = true
				ids = append(ids, r.UserID)
			}
		}
		var err error
		emails, err = s.emails.EmailsByID(ctx, ids)
		if err != nil {
			s.log.Warn().Err(err).Msg("customer email lookup failed")
		}
	}

	for _, r := range items {
		out = append(out, Details{
			Reservation: r,
			Listing:     summaryOf(r.Listing),
			UserEmail:   emails[r.UserID],
		})
	}
	return out
}

func resourceOf(r *Reservation) policy.Resource {
	res := policy.Resource{OwnerID: r.UserID}
	if r.Listing != nil {
		res.ProviderID = r.Listing.ProviderID
	}
	return res
}

func normalize(req CreateRequest) CreateRequest {
	req.ListingID = strings.TrimSpace(req.ListingID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.BookingDate = strings.TrimSpace(req.BookingDate)
	req.StartTime = strings.TrimSpace(req.StartTime)
	req.SpecialRequests = strings.TrimSpace(req.SpecialRequests)
	return req
}

func invalid(field, tag string) error {
	return fmt.Errorf("%w: %w", ErrValidation, validator.NewError(field, tag))
}

func slotError(err error) error {
	switch {
	case errors.Is(err, slot.ErrInvalidTime):
		return invalid("start_time", "hhmm")
	case errors.Is(err, slot.ErrInvalidDuration):
		return invalid("duration", "range")
	case errors.Is(err, slot.ErrDayUnavailable):
		return invalid("booking_date", "available_days")
	case errors.Is(err, slot.ErrOutsideHours):
		return invalid("start_time", "opening_hours")
	case errors.Is(err, slot.ErrInvalidPrice):
		return fmt.Errorf("listing price: %w", err)
	default:
		return err
	}
}
