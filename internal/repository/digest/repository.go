package digest

import (
	"context"
	"time"

	"winetour-backend/internal/domain"
)

// UnconfirmedStop is one itinerary stop still awaiting a winery reservation
// confirmation, flattened for the digest email.
type UnconfirmedStop struct {
	BookingID   int64  `json:"bookingId"`
	StopOrder   int    `json:"stopOrder"`
	WineryName  string `json:"wineryName"`
	ArrivalTime string `json:"arrivalTime"`
}

// UnreadThread is a proposal thread with client notes staff has not read.
type UnreadThread struct {
	TripProposalID int64 `json:"tripProposalId"`
	UnreadNotes    int   `json:"unreadNotes"`
}

// Repository exposes the read-only aggregate queries behind the daily
// digest. Every method is independent of the others; the service runs them
// concurrently.
type Repository interface {
	CountReservationsByStatus(ctx context.Context, status string) (int64, error)
	// ReservationsNearingDeadline lists non-terminal reservations whose
	// consultation deadline falls within the window from now.
	ReservationsNearingDeadline(ctx context.Context, within time.Duration) ([]domain.Reservation, error)
	UnconfirmedStops(ctx context.Context) ([]UnconfirmedStop, error)
	// UnreadClientThreads lists proposals with unread client-authored notes,
	// the count staff cares about.
	UnreadClientThreads(ctx context.Context) ([]UnreadThread, error)
}
