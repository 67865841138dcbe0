package customer

import (
	"context"
	"strings"
	"time"

	"winetour-backend/internal/domain"
	"winetour-backend/internal/metrics"
	custrepo "winetour-backend/internal/repository/customer"

	"go.uber.org/zap"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Service owns customer identity: find-or-create by email and aggregate
// booking statistics.
type Service struct {
	repo    custrepo.Repository
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
}

// New creates a Service. metrics may be nil.
func New(repo custrepo.Repository, logger *zap.SugaredLogger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, logger: logger, metrics: m}
}

// ResolveInput mirrors the resolve-or-create contact payload.
type ResolveInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// CreateInput mirrors the explicit creation payload.
type CreateInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	VIP   bool   `json:"vip"`
}

// ListInput bounds and narrows customer listings.
type ListInput struct {
	VIPOnly     bool
	MinBookings int
	Search      string
	Limit       int
	Offset      int
}

// StatsInput is one applied booking: increments the counter, accumulates
// spend and overwrites the last booking date.
type StatsInput struct {
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
}

// ResolveOrCreate finds the customer for a normalized email, refreshing name
// and phone, or creates one with zeroed statistics. Safe under concurrent
// first-time resolution of the same email.
func (s *Service) ResolveOrCreate(ctx context.Context, in ResolveInput) (*domain.Customer, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	cust, err := s.repo.ResolveOrCreate(ctx, custrepo.ResolveInput{
		Email: email,
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CustomersResolved.Inc()
	}
	return cust, nil
}

// Create inserts a new customer, failing with Conflict when the normalized
// email is already taken.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidation("name", "required")
	}
	return s.repo.Create(ctx, custrepo.CreateInput{
		Email: email,
		Name:  strings.TrimSpace(in.Name),
		Phone: strings.TrimSpace(in.Phone),
		VIP:   in.VIP,
	})
}

// GetByID fetches one customer, NotFound when absent.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByEmail returns nil without error when no customer matches: absence is
// an expected answer here, not a failure.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByEmail(ctx, normalized)
}

// List returns a bounded page of customers plus the total count over the
// same filter, independent of the page bound.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Customer, int64, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, custrepo.ListFilter{
		VIPOnly:     in.VIPOnly,
		MinBookings: in.MinBookings,
		Search:      in.Search,
		Limit:       limit,
		Offset:      offset,
	})
}

// RecordBookingStats applies one booking to the customer's aggregates.
func (s *Service) RecordBookingStats(ctx context.Context, id int64, in StatsInput) error {
	if in.Amount < 0 {
		return domain.NewValidation("amount", "must not be negative")
	}
	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return domain.NewValidation("date", "must be YYYY-MM-DD")
	}
	if err := s.repo.RecordBookingStats(ctx, id, in.Amount, date); err != nil {
		return err
	}
	s.logger.Infow("booking statistics recorded", "customer_id", id, "amount", in.Amount)
	return nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", domain.NewValidation("email", "required")
	}
	if !strings.Contains(trimmed, "@") {
		return "", domain.NewValidation("email", "malformed")
	}
	return trimmed, nil
}
