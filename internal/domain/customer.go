package domain

import "time"

// Customer is the identity anchor for bookings and reservations.
// Exactly one row exists per lower-cased email.
type Customer struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	VIP             bool       `json:"vip"`
	TotalBookings   int        `json:"totalBookings"`
	TotalSpent      float64    `json:"totalSpent"`
	LastBookingDate *time.Time `json:"lastBookingDate,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CustomerSummary is the compact projection embedded in reservation listings.
type CustomerSummary struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}
