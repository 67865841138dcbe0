package reservation

import (
	"context"
	"time"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// InsertInput carries every column written on reservation insert. The
// customer contact fields are the point-in-time snapshot, alongside the
// resolved customer id.
type InsertInput struct {
	ReservationNumber    string
	CustomerID           int64
	CustomerName         string
	CustomerEmail        string
	CustomerPhone        string
	PartySize            int
	PreferredDate        time.Time
	AlternateDate        *time.Time
	EventType            string
	SpecialRequests      string
	DepositAmount        float64
	DepositPaid          bool
	PaymentMethod        string
	ConsultationDeadline time.Time
	BrandID              *int64
}

// ListFilter narrows reservation listings; filters combine with AND.
// Total is always counted over the same predicate, independent of the page
// bound.
type ListFilter struct {
	Status          string
	CustomerID      *int64
	BrandID         *int64
	IncludeCustomer bool
	Limit           int
	Offset          int
}

// Repository persists and fetches reservations.
type Repository interface {
	// InsertTx writes the reservation inside a caller-owned transaction so
	// that it commits or rolls back together with customer resolution.
	InsertTx(ctx context.Context, tx pgx.Tx, in InsertInput) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, f ListFilter) ([]domain.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error)
}
