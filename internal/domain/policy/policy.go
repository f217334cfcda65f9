package policy

import (
	"errors"
	"fmt"

	"bookeasy/internal/domain/identity"
)

var ErrForbidden = errors.New("forbidden")

type Action string

const (
	ListingCreate    Action = "listing.create"
	ListingView      Action = "listing.view"
	ListingUpdate    Action = "listing.update"
	ListingDelete    Action = "listing.delete"
	ListingSetStatus Action = "listing.set_status"
	ListingListAll   Action = "listing.list_all"
	ListingListOwn   Action = "listing.list_own"

	ReservationCreate       Action = "reservation.create"
	ReservationView         Action = "reservation.view"
	ReservationListOwn      Action = "reservation.list_own"
	ReservationListProvider Action = "reservation.list_provider"
	ReservationListAll      Action = "reservation.list_all"
	ReservationSetStatus    Action = "reservation.set_status"
	ReservationDelete       Action = "reservation.delete"
)

// Subject is the caller an action is evaluated for.
type Subject struct {
	ID   string
	Role identity.Role
}

// SubjectOf resolves the role of p at evaluation time.
func SubjectOf(p identity.Principal) Subject {
	return Subject{ID: p.ID, Role: p.Role()}
}

// Resource carries the ownership facts a rule needs. OwnerID is the listing
// owner or the booking customer; ProviderID is the owner of a reservation's
// listing. Status is the listing approval state when relevant.
type Resource struct {
	OwnerID    string
	ProviderID string
	Status     string
}

const statusApproved = "approved"

// Authorize returns nil or an error wrapping ErrForbidden.
func Authorize(s Subject, action Action, r Resource) error {
	if s.ID == "" {
		return deny(s, action)
	}
	if s.Role == identity.RoleAdministrator {
		return nil
	}

	ok := false
	switch action {
	case ListingCreate, ListingListOwn:
		ok = s.Role == identity.RoleProvider
	case ListingUpdate, ListingDelete:
		ok = s.Role == identity.RoleProvider && r.OwnerID == s.ID
	case ListingView:
		ok = r.Status == statusApproved || (s.Role == identity.RoleProvider && r.OwnerID == s.ID)
	case ReservationCreate, ReservationListOwn:
		ok = s.Role == identity.RoleCustomer
	case ReservationView:
		ok = r.OwnerID == s.ID || (s.Role == identity.RoleProvider && r.ProviderID == s.ID)
	case ReservationListProvider:
		ok = s.Role == identity.RoleProvider
	case ReservationSetStatus:
		ok = s.Role == identity.RoleProvider && r.ProviderID == s.ID
	case ListingSetStatus, ListingListAll, ReservationListAll, ReservationDelete:
		ok = false
	}

	if !ok {
		return deny(s, action)
	}
	return nil
}

func deny(s Subject, action Action) error {
	role := s.Role
	if role == "" {
		role = "anonymous"
	}
	return fmt.Errorf("%w: %s may not %s", ErrForbidden, role, action)
}
