package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookeasy/internal/domain/identity"
)

var (
	admin    = Subject{ID: "a1", Role: identity.RoleAdministrator}
	owner    = Subject{ID: "p1", Role: identity.RoleProvider}
	stranger = Subject{ID: "p2", Role: identity.RoleProvider}
	customer = Subject{ID: "c1", Role: identity.RoleCustomer}
	other    = Subject{ID: "c2", Role: identity.RoleCustomer}
)

func TestAuthorize(t *testing.T) {
	ownListing := Resource{OwnerID: "p1", Status: "pending"}
	approved := Resource{OwnerID: "p1", Status: "approved"}
	booking := Resource{OwnerID: "c1", ProviderID: "p1"}

	tests := []struct {
		name    string
		subject Subject
		action  Action
		res     Resource
		allowed bool
	}{
		{"provider creates listing", owner, ListingCreate, Resource{}, true},
		{"customer cannot create listing", customer, ListingCreate, Resource{}, false},
		{"owner updates own listing", owner, ListingUpdate, ownListing, true},
		{"provider cannot update another's listing", stranger, ListingUpdate, ownListing, false},
		{"owner deletes own listing", owner, ListingDelete, ownListing, true},
		{"admin deletes any listing", admin, ListingDelete, ownListing, true},
		{"owner cannot approve own listing", owner, ListingSetStatus, ownListing, false},
		{"admin approves listing", admin, ListingSetStatus, ownListing, true},
		{"customer sees approved listing", customer, ListingView, approved, true},
		{"customer cannot see pending listing", customer, ListingView, ownListing, false},
		{"owner sees own pending listing", owner, ListingView, ownListing, true},
		{"other provider cannot see pending listing", stranger, ListingView, ownListing, false},
		{"provider cannot list all listings", owner, ListingListAll, Resource{}, false},
		{"admin lists all listings", admin, ListingListAll, Resource{}, true},
		{"customer books", customer, ReservationCreate, Resource{}, true},
		{"provider cannot book", owner, ReservationCreate, Resource{}, false},
		{"booker views reservation", customer, ReservationView, booking, true},
		{"another customer cannot view reservation", other, ReservationView, booking, false},
		{"listing owner views reservation", owner, ReservationView, booking, true},
		{"listing owner confirms reservation", owner, ReservationSetStatus, booking, true},
		{"other provider cannot confirm", stranger, ReservationSetStatus, booking, false},
		{"customer cannot change status", customer, ReservationSetStatus, booking, false},
		{"admin changes any status", admin, ReservationSetStatus, booking, true},
		{"only admin deletes reservations", owner, ReservationDelete, booking, false},
		{"admin deletes reservation", admin, ReservationDelete, booking, true},
		{"provider lists own bookings", owner, ReservationListProvider, Resource{}, true},
		{"customer lists all reservations", customer, ReservationListAll, Resource{}, false},
		{"anonymous denied", Subject{}, ListingView, approved, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.subject, tc.action, tc.res)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestSubjectOf(t *testing.T) {
	s := SubjectOf(identity.Principal{ID: "x", Email: identity.AdminEmail, DeclaredRole: "provider"})
	assert.Equal(t, identity.RoleAdministrator, s.Role)
	assert.Equal(t, "x", s.ID)
}
