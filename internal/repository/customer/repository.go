package customer

import (
	"context"
	"time"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ResolveInput carries the contact fields used to find or create a customer.
// Email is matched case-insensitively; name and phone refresh the existing
// row, with empty values keeping the prior stored value.
type ResolveInput struct {
	Email string
	Name  string
	Phone string
}

// CreateInput is used by the explicit creation API, which conflicts on a
// duplicate email instead of updating it.
type CreateInput struct {
	Email string
	Name  string
	Phone string
	VIP   bool
}

// ListFilter bounds and narrows customer listings. Filters combine with AND.
type ListFilter struct {
	VIPOnly     bool
	MinBookings int
	Search      string
	Limit       int
	Offset      int
}

// Repository persists and fetches customers.
type Repository interface {
	// ResolveOrCreate upserts against the unique lower(email) index so that
	// concurrent first-time resolutions of the same email cannot both insert.
	ResolveOrCreate(ctx context.Context, in ResolveInput) (*domain.Customer, error)
	// ResolveOrCreateTx is the same operation scoped to a caller-owned
	// transaction, used by reservation creation.
	ResolveOrCreateTx(ctx context.Context, tx pgx.Tx, in ResolveInput) (*domain.Customer, error)
	Create(ctx context.Context, in CreateInput) (*domain.Customer, error)
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	// GetByEmail returns (nil, nil) when no customer exists for the email.
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	List(ctx context.Context, f ListFilter) ([]domain.Customer, int64, error)
	RecordBookingStats(ctx context.Context, id int64, amount float64, date time.Time) error
}
