package listing

// Form is the provider-editable part of a listing. Status is never taken
// from it.
type Form struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Category      Category `json:"type" validate:"required,category"`
	ImageURL      string   `json:"image_url" validate:"omitempty,url"`
	Location      string   `json:"location" validate:"required"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,longitude"`
	PricePerHour  float64  `json:"price_per_hour" validate:"gt=0"`
	OpeningTime   string   `json:"opening_time" validate:"required,hhmm"`
	ClosingTime   string   `json:"closing_time" validate:"required,hhmm"`
	AvailableDays []string `json:"available_days" validate:"dive,weekday"`
	MaxCapacity   int      `json:"max_capacity" validate:"gte=1"`
	Amenities     []string `json:"amenities"`
	Rules         []string `json:"rules"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type OwnListingsResponse struct {
	Listings []Listing `json:"listings"`
	Stats    Stats     `json:"stats"`
}
