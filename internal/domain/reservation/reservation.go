package reservation

import (
	"time"

	"bookeasy/internal/domain/listing"
)

// Reservation is a customer's booking of one listing for a date and time
// range. EndTime may be earlier than StartTime when the slot runs past
// midnight; BookingDate always names the day the slot starts.
type Reservation struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ListingID       string    `json:"listing_id" gorm:"type:varchar(36);index;not null"`
	UserID          string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	CustomerName    string    `json:"customer_name" gorm:"not null"`
	PhoneNumber     string    `json:"phone_number" gorm:"type:varchar(32);not null"`
	BookingDate     string    `json:"booking_date" gorm:"type:varchar(10);index;not null"`
	StartTime       string    `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime         string    `json:"end_time" gorm:"type:varchar(5);not null"`
	Duration        int       `json:"duration" gorm:"not null"`
	TotalPrice      float64   `json:"total_price" gorm:"not null"`
	Status          Status    `json:"status" gorm:"type:varchar(16);index;not null;default:'pending'"`
	SpecialRequests string    `json:"special_requests,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Listing *listing.Listing `json:"-" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

func (Reservation) TableName() string { return "reservations" }

// ListingSummary is the part of a listing shown next to a reservation.
type ListingSummary struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Category     listing.Category `json:"type"`
	ImageURL     string           `json:"image_url,omitempty"`
	Location     string           `json:"location"`
	PricePerHour float64          `json:"price_per_hour"`
}

// Details is a reservation with its display joins.
type Details struct {
	Reservation
	Listing   *ListingSummary `json:"listing,omitempty"`
	UserEmail string          `json:"user_email,omitempty"`
}

func summaryOf(l *listing.Listing) *ListingSummary {
	if l == nil {
		return nil
	}
	return &ListingSummary{
		ID:           l.ID,
		Name:         l.Name,
		Category:     l.Category,
		ImageURL:     l.ImageURL,
		Location:     l.Location,
		PricePerHour: l.PricePerHour,
	}
}

// Stats counts reservations by status.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

func StatsOf(items []Details) Stats {
	st := Stats{Total: len(items)}
	for _, r := range items {
		switch r.Status {
		case StatusPending:
			st.Pending++
		case StatusConfirmed:
			st.Confirmed++
		case StatusCompleted:
			st.Completed++
		case StatusCancelled:
			st.Cancelled++
		}
	}
	return st
}
