package itinerary

import (
	"context"

	"winetour-backend/internal/domain"
)

// CreateInput carries the optional fields supplied on itinerary creation.
// Unset fields fall back to the column defaults so every itinerary is
// immediately renderable.
type CreateInput struct {
	BookingID            int64
	PickupLocation       *string
	PickupTime           *string
	DropoffLocation      *string
	EstimatedDropoffTime *string
	PickupDriveMinutes   *int
	DropoffDriveMinutes  *int
	DriverNotes          *string
	InternalNotes        *string
}

// UpdatePatch applies merge semantics: nil fields keep their stored value.
type UpdatePatch struct {
	PickupLocation       *string
	PickupTime           *string
	DropoffLocation      *string
	EstimatedDropoffTime *string
	PickupDriveMinutes   *int
	DropoffDriveMinutes  *int
	DriverNotes          *string
	InternalNotes        *string
}

// StopInput is one stop in a full stop-list replacement.
type StopInput struct {
	WineryID               int64
	StopOrder              int
	ArrivalTime            string
	DepartureTime          string
	DurationMinutes        int
	DriveTimeToNextMinutes *int
	StopType               string
	ReservationConfirmed   bool
	SpecialNotes           string
	IsLunchStop            bool
}

// Repository persists and fetches itineraries and their stops.
type Repository interface {
	Create(ctx context.Context, in CreateInput) (*domain.Itinerary, error)
	// GetByBookingID returns the itinerary with its stops in stop_order,
	// each enriched with winery display fields. Stops referencing a missing
	// winery are omitted.
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Itinerary, error)
	UpdateByBookingID(ctx context.Context, bookingID int64, patch UpdatePatch) (*domain.Itinerary, error)
	// DeleteByBookingID is idempotent; deleting a missing itinerary is not
	// an error.
	DeleteByBookingID(ctx context.Context, bookingID int64) error
	// ReplaceStops swaps the full ordered stop list in one transaction.
	ReplaceStops(ctx context.Context, bookingID int64, stops []StopInput) (*domain.Itinerary, error)
}
