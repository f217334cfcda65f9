package listing

import (
	"time"

	"gorm.io/datatypes"
)

type Category string

const (
	CategoryGym       Category = "gym"
	CategoryCoWorking Category = "co-working"
	CategoryBanquet   Category = "banquet"
	CategoryCafe      Category = "cafe"
	CategoryOther     Category = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Listing is a bookable venue. Only approved listings reach customer
// browsing.
type Listing struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProviderID    string                      `json:"provider_id" gorm:"type:varchar(36);index;not null"`
	Name          string                      `json:"name" gorm:"not null"`
	Description   string                      `json:"description" gorm:"not null"`
	Category      Category                    `json:"type" gorm:"column:type;type:varchar(32);index;not null"`
	ImageURL      string                      `json:"image_url,omitempty"`
	Location      string                      `json:"location" gorm:"not null"`
	Latitude      *float64                    `json:"latitude,omitempty"`
	Longitude     *float64                    `json:"longitude,omitempty"`
	PricePerHour  float64                     `json:"price_per_hour" gorm:"not null"`
	OpeningTime   string                      `json:"opening_time" gorm:"type:varchar(5)"`
	ClosingTime   string                      `json:"closing_time" gorm:"type:varchar(5)"`
	AvailableDays datatypes.JSONSlice[string] `json:"available_days"`
	MaxCapacity   int                         `json:"max_capacity" gorm:"default:1"`
	Amenities     datatypes.JSONSlice[string] `json:"amenities"`
	Rules         datatypes.JSONSlice[string] `json:"rules"`
	Status        Status                      `json:"status" gorm:"type:varchar(16);index;not null;default:'pending'"`
	Rating        float64                     `json:"rating"`
	ReviewCount   int                         `json:"review_count"`
	CreatedAt     time.Time                   `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

func (Listing) TableName() string { return "listings" }

// Stats counts a provider's listings by approval state.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

func StatsOf(items []Listing) Stats {
	st := Stats{Total: len(items)}
	for _, l := range items {
		switch l.Status {
		case StatusPending:
			st.Pending++
		case StatusApproved:
			st.Approved++
		case StatusRejected:
			st.Rejected++
		}
	}
	return st
}

// AdminListing is a listing annotated with its provider's email.
type AdminListing struct {
	Listing
	ProviderEmail string `json:"provider_email"`
}
