package listing

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/database"
	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/policy"
	"bookeasy/internal/pkg/validator"
)

var (
	admin    = policy.Subject{ID: "admin-1", Role: identity.RoleAdministrator}
	owner    = policy.Subject{ID: "prov-1", Role: identity.RoleProvider}
	rival    = policy.Subject{ID: "prov-2", Role: identity.RoleProvider}
	customer = policy.Subject{ID: "cust-1", Role: identity.RoleCustomer}
)

type fakeEmails map[string]string

func (f fakeEmails) EmailsByID(_ context.Context, ids []string) (map[string]string, error) {
	out := map[string]string{}
	for _, id := range ids {
		if e, ok := f[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, Repository) {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, &Listing{}))

	repo := NewRepository(db)
	emails := fakeEmails{"prov-1": "owner@example.com", "prov-2": "rival@example.com"}
	return NewService(repo, emails, zerolog.Nop()), repo
}

func gymForm(name string, price float64) Form {
	return Form{
		Name:          name,
		Description:   "Free weights and cardio",
		Category:      CategoryGym,
		Location:      "Almaty, Abay 10",
		PricePerHour:  price,
		OpeningTime:   "08:00",
		ClosingTime:   "22:00",
		AvailableDays: []string{"Monday", "friday"},
		MaxCapacity:   20,
		Amenities:     []string{"showers", " ", "lockers"},
	}
}

func TestCreate_StartsPending(t *testing.T) {
	svc, _ := newTestService(t)

	l, err := svc.Create(context.Background(), owner, gymForm("Iron Gym", 25))
	require.NoError(t, err)
	assert.Equal(t, StatusPending, l.Status)
	assert.Equal(t, "prov-1", l.ProviderID)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, []string{"monday", "friday"}, []string(l.AvailableDays))
	assert.Equal(t, []string{"showers", "lockers"}, []string(l.Amenities))
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	form := gymForm("", 0)
	form.OpeningTime = "25:61"
	form.AvailableDays = []string{"someday"}
	form.Category = "spa"

	_, err := svc.Create(context.Background(), owner, form)
	require.ErrorIs(t, err, ErrValidation)

	var verr *validator.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["name"])
	assert.Equal(t, "gt", verr.Fields["price_per_hour"])
	assert.Equal(t, "hhmm", verr.Fields["opening_time"])
	assert.Equal(t, "weekday", verr.Fields["available_days[0]"])
	assert.Equal(t, "category", verr.Fields["type"])
}

func TestCreate_OnlyProviders(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), customer, gymForm("Nope", 10))
	assert.ErrorIs(t, err, policy.ErrForbidden)
}

// seedMixed stores one listing per approval state for each provider.
func seedMixed(t *testing.T, svc *Service) map[Status]*Listing {
	t.Helper()
	ctx := context.Background()
	out := map[Status]*Listing{}
	for i, st := range []Status{StatusPending, StatusApproved, StatusRejected} {
		l, err := svc.Create(ctx, owner, gymForm(string(st)+" gym", float64(40+i*50)))
		require.NoError(t, err)
		if st != StatusPending {
			_, err = svc.SetStatus(ctx, admin, l.ID, st)
			require.NoError(t, err)
		}
		out[st] = l
		time.Sleep(2 * time.Millisecond)
	}
	return out
}

func TestBrowse_OnlyApproved(t *testing.T) {
	svc, _ := newTestService(t)
	byStatus := seedMixed(t, svc)

	items, err := svc.Browse(context.Background(), Filters{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, byStatus[StatusApproved].ID, items[0].ID)
	for _, l := range items {
		assert.Equal(t, StatusApproved, l.Status)
	}
}

func TestGet_CustomerSeesApprovedOnly(t *testing.T) {
	svc, _ := newTestService(t)
	byStatus := seedMixed(t, svc)
	ctx := context.Background()

	_, err := svc.Get(ctx, customer, byStatus[StatusApproved].ID)
	assert.NoError(t, err)

	for _, st := range []Status{StatusPending, StatusRejected} {
		_, err := svc.Get(ctx, customer, byStatus[st].ID)
		assert.ErrorIs(t, err, ErrNotFound, st)

		_, err = svc.Get(ctx, owner, byStatus[st].ID)
		assert.NoError(t, err, "owner sees own %s listing", st)

		_, err = svc.Get(ctx, rival, byStatus[st].ID)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestBrowse_Filters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	mk := func(name, location string, cat Category, price float64) {
		f := gymForm(name, price)
		f.Location = location
		f.Category = cat
		l, err := svc.Create(ctx, owner, f)
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, admin, l.ID, StatusApproved)
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}
	mk("Iron Gym", "Almaty", CategoryGym, 50)
	mk("Hub Desk", "Astana", CategoryCoWorking, 50.5)
	mk("Grand Hall", "Almaty", CategoryBanquet, 250)

	names := func(f Filters) []string {
		items, err := svc.Browse(ctx, f)
		require.NoError(t, err)
		out := []string{}
		for _, l := range items {
			out = append(out, l.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Grand Hall", "Hub Desk", "Iron Gym"}, names(Filters{}), "newest first")
	assert.Equal(t, []string{"Grand Hall", "Iron Gym"}, names(Filters{Search: "ALMATY"}))
	assert.Equal(t, []string{"Hub Desk"}, names(Filters{Category: CategoryCoWorking}))

	low, _ := ParsePriceRange("0-50")
	mid, _ := ParsePriceRange("51-100")
	top, _ := ParsePriceRange("201+")
	assert.Equal(t, []string{"Iron Gym"}, names(Filters{Price: low}))
	assert.Equal(t, []string{"Hub Desk"}, names(Filters{Price: mid}))
	assert.Equal(t, []string{"Grand Hall"}, names(Filters{Price: top}))
}

func TestBrowse_SearchMatchesWildcardsLiterally(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"100% Fit", "1000 Fit", "Desk_1", "Desk21"} {
		l, err := svc.Create(ctx, owner, gymForm(name, 30))
		require.NoError(t, err)
		_, err = svc.SetStatus(ctx, admin, l.ID, StatusApproved)
		require.NoError(t, err)
	}

	names := func(search string) []string {
		items, err := svc.Browse(ctx, Filters{Search: search})
		require.NoError(t, err)
		out := []string{}
		for _, l := range items {
			out = append(out, l.Name)
		}
		return out
	}

	assert.Equal(t, []string{"100% Fit"}, names("100%"))
	assert.Equal(t, []string{"Desk_1"}, names("desk_"))
	assert.Empty(t, names("!"))
	assert.Equal(t, "a!%b!_c!!", escapeLike("a%b_c!"))
}

func TestUpdateAndDelete_Ownership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	l, err := svc.Create(ctx, owner, gymForm("Iron Gym", 25))
	require.NoError(t, err)
	_, err = svc.SetStatus(ctx, admin, l.ID, StatusApproved)
	require.NoError(t, err)

	_, err = svc.Update(ctx, rival, l.ID, gymForm("Stolen", 1))
	assert.ErrorIs(t, err, policy.ErrForbidden)

	updated, err := svc.Update(ctx, owner, l.ID, gymForm("Iron Gym Plus", 30))
	require.NoError(t, err)
	assert.Equal(t, "Iron Gym Plus", updated.Name)
	assert.Equal(t, 30.0, updated.PricePerHour)
	assert.Equal(t, StatusApproved, updated.Status, "update never touches status")

	_, err = svc.SetStatus(ctx, owner, l.ID, StatusRejected)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, rival, l.ID), policy.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, owner, l.ID))
	assert.ErrorIs(t, svc.Delete(ctx, owner, l.ID), ErrNotFound)
}

func TestSetStatus_RejectsUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	l, err := svc.Create(context.Background(), owner, gymForm("Iron Gym", 25))
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), admin, l.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListOwnAndAll(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedMixed(t, svc)
	_, err := svc.Create(ctx, rival, gymForm("Rival Gym", 10))
	require.NoError(t, err)

	items, stats, err := svc.ListOwn(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, Stats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, stats)

	_, err = svc.ListAll(ctx, owner)
	assert.ErrorIs(t, err, policy.ErrForbidden)

	all, err := svc.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Rival Gym", all[0].Name)
	assert.Equal(t, "rival@example.com", all[0].ProviderEmail)
	assert.Equal(t, "owner@example.com", all[1].ProviderEmail)
}

func TestParseFilters(t *testing.T) {
	f, err := ParseFilters(" yoga ", "all", "all")
	require.NoError(t, err)
	assert.Equal(t, Filters{Search: "yoga"}, f)

	_, err = ParseFilters("", "spa", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseFilters("", "", "1000-2000")
	assert.ErrorIs(t, err, ErrValidation)

	r, _ := ParsePriceRange("51-100")
	assert.False(t, r.Contains(50))
	assert.True(t, r.Contains(50.5))
	assert.True(t, r.Contains(100))
	assert.False(t, r.Contains(100.01))
}
