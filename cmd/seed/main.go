package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"bookeasy/internal/app"
	"bookeasy/internal/config"
	"bookeasy/internal/database"
	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/listing"
	"bookeasy/internal/domain/policy"
	"bookeasy/internal/domain/reservation"
	"bookeasy/internal/logger"
)

const demoPassword = "demo1234"

type demoAccount struct {
	email    string
	name     string
	userType string
}

var accounts = []demoAccount{
	{identity.AdminEmail, "Administrator", identity.DeclaredUser},
	{"aigerim@bookeasy.dev", "Aigerim Venues", identity.DeclaredProvider},
	{"timur@bookeasy.dev", "Timur Spaces", identity.DeclaredProvider},
	{"asel@mail.kz", "Asel", identity.DeclaredUser},
	{"bekzat@gmail.com", "Bekzat", identity.DeclaredUser},
}

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := seed(context.Background(), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Int("accounts", len(accounts)).Msg("seed complete")
}

func seed(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, app.Models()...); err != nil {
		return err
	}

	log.Info().Msg("cleaning old data")
	for _, table := range []string{"reservations", "listings", "accounts"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}

	accountRepo := identity.NewAccountRepository(db)
	identitySvc := identity.NewService(accountRepo, nil, nil, log)
	listingSvc := listing.NewService(listing.NewRepository(db), accountRepo, log)
	reservationSvc := reservation.NewService(reservation.NewRepository(db), listingSvc, accountRepo, reservation.Options{}, log)

	subjects := map[string]policy.Subject{}
	for _, a := range accounts {
		p, err := identitySvc.SignUp(ctx, identity.SignUpRequest{
			Email:    a.email,
			Password: demoPassword,
			Name:     a.name,
			UserType: a.userType,
		})
		if err != nil {
			return err
		}
		subjects[a.email] = policy.SubjectOf(*p)
		log.Info().Str("email", a.email).Str("role", string(p.Role())).Msg("account created")
	}
	admin := subjects[identity.AdminEmail]

	forms := []struct {
		owner  string
		status listing.Status
		form   listing.Form
	}{
		{"aigerim@bookeasy.dev", listing.StatusApproved, listing.Form{
			Name: "Iron Gym", Description: "Free weights, cardio zone and a boxing ring", Category: listing.CategoryGym,
			Location: "Almaty, Abay 10", PricePerHour: 15, OpeningTime: "07:00", ClosingTime: "23:00",
			AvailableDays: append(weekdays, "saturday"), MaxCapacity: 30, Amenities: []string{"showers", "lockers"},
		}},
		{"aigerim@bookeasy.dev", listing.StatusApproved, listing.Form{
			Name: "Hub Desk", Description: "Quiet co-working floor with meeting rooms", Category: listing.CategoryCoWorking,
			Location: "Almaty, Dostyk 5", PricePerHour: 8, OpeningTime: "09:00", ClosingTime: "21:00",
			AvailableDays: weekdays, MaxCapacity: 40, Amenities: []string{"wifi", "coffee"}, Rules: []string{"no calls in the open area"},
		}},
		{"timur@bookeasy.dev", listing.StatusApproved, listing.Form{
			Name: "Grand Hall", Description: "Banquet hall for weddings and corporate events", Category: listing.CategoryBanquet,
			Location: "Astana, Mangilik El 20", PricePerHour: 250, OpeningTime: "18:00", ClosingTime: "04:00",
			MaxCapacity: 200, Amenities: []string{"stage", "sound system"},
		}},
		{"timur@bookeasy.dev", listing.StatusPending, listing.Form{
			Name: "Corner Cafe", Description: "Private room in a small cafe", Category: listing.CategoryCafe,
			Location: "Astana, Kenesary 3", PricePerHour: 40, OpeningTime: "10:00", ClosingTime: "22:00",
			AvailableDays: weekdays, MaxCapacity: 12,
		}},
	}

	var approved []*listing.Listing
	for _, f := range forms {
		l, err := listingSvc.Create(ctx, subjects[f.owner], f.form)
		if err != nil {
			return err
		}
		if f.status != listing.StatusPending {
			if l, err = listingSvc.SetStatus(ctx, admin, l.ID, f.status); err != nil {
				return err
			}
			approved = append(approved, l)
		}
		log.Info().Str("listing", l.Name).Str("status", string(l.Status)).Msg("listing created")
	}

	// next Monday keeps every weekday listing bookable
	day := time.Now().AddDate(0, 0, 1)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	date := day.Format("2006-01-02")

	customers := []string{"asel@mail.kz", "bekzat@gmail.com"}
	for i, l := range approved {
		start := l.OpeningTime
		r, err := reservationSvc.Create(ctx, subjects[customers[i%len(customers)]], reservation.CreateRequest{
			ListingID:    l.ID,
			CustomerName: accounts[3+i%len(customers)].name,
			PhoneNumber:  "+7 777 123 4567",
			BookingDate:  date,
			StartTime:    start,
			Duration:     2,
		})
		if err != nil {
			return err
		}
		if i == 0 {
			if _, err := reservationSvc.UpdateStatus(ctx, admin, r.ID, reservation.StatusConfirmed); err != nil {
				return err
			}
		}
		log.Info().Str("listing", l.Name).Str("date", date).Str("start", r.StartTime).Str("end", r.EndTime).Msg("reservation created")
	}
	return nil
}
