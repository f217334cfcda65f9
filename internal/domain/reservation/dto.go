package reservation

type CreateRequest struct {
	ListingID       string `json:"listing_id" validate:"required"`
	CustomerName    string `json:"customer_name" validate:"required,max=120"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=5,max=32"`
	BookingDate     string `json:"booking_date" validate:"required,ymd"`
	StartTime       string `json:"start_time" validate:"required,hhmm"`
	Duration        int    `json:"duration" validate:"min=1,max=8"`
	SpecialRequests string `json:"special_requests" validate:"max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListResponse struct {
	Reservations []Details `json:"reservations"`
	Stats        Stats     `json:"stats"`
}
