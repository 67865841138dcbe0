package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"winetour-backend/internal/domain"
	"winetour-backend/internal/metrics"
	custrepo "winetour-backend/internal/repository/customer"
	resvrepo "winetour-backend/internal/repository/reservation"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	minPartySize = 1
	maxPartySize = 50

	consultationWindow = 24 * time.Hour

	// Duplicate reservation numbers are unlikely but possible under
	// concurrent creation; the whole transaction is retried with a fresh
	// suffix.
	numberAttempts = 3

	defaultPageSize = 50
	maxPageSize     = 200
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type customerDirectory interface {
	ResolveOrCreateTx(ctx context.Context, tx pgx.Tx, in custrepo.ResolveInput) (*domain.Customer, error)
}

type reservationRepo interface {
	InsertTx(ctx context.Context, tx pgx.Tx, in resvrepo.InsertInput) (*domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, f resvrepo.ListFilter) ([]domain.Reservation, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error)
}

// Service orchestrates the reservation lifecycle. Creation resolves the
// customer and inserts the reservation as one transaction: neither an orphan
// customer nor a reservation without its customer can be left behind.
type Service struct {
	db        txBeginner
	customers customerDirectory
	repo      reservationRepo
	logger    *zap.SugaredLogger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a Service. metrics may be nil.
func New(db txBeginner, customers customerDirectory, repo reservationRepo, logger *zap.SugaredLogger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		db:        db,
		customers: customers,
		repo:      repo,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

// CreateInput mirrors the reservation creation payload. The contact fields
// double as the customer-resolution input and the denormalized snapshot.
type CreateInput struct {
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	PartySize       int     `json:"partySize"`
	PreferredDate   string  `json:"preferredDate"`
	AlternateDate   string  `json:"alternateDate"`
	EventType       string  `json:"eventType"`
	SpecialRequests string  `json:"specialRequests"`
	DepositAmount   float64 `json:"depositAmount"`
	PaymentMethod   string  `json:"paymentMethod"`
	BrandID         *int64  `json:"brandId"`
}

// ListInput narrows reservation listings; zero values mean "no filter".
type ListInput struct {
	Status          string
	CustomerID      *int64
	BrandID         *int64
	IncludeCustomer bool
	Limit           int
	Offset          int
}

// Create validates the input, then resolves the customer and inserts the
// reservation inside one transaction. A failure in either step rolls back
// both.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Reservation, error) {
	v, err := s.validate(in)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		res, err := s.createOnce(ctx, in, v)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				lastErr = err
				continue
			}
			if s.metrics != nil {
				s.metrics.ErrorsCount.WithLabelValues("reservation_create").Inc()
			}
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.ReservationsCreated.Inc()
		}
		s.logger.Infow("reservation created",
			"reservation_number", res.ReservationNumber,
			"customer_id", res.CustomerID,
			"party_size", res.PartySize,
		)
		return res, nil
	}
	return nil, lastErr
}

type validated struct {
	preferredDate time.Time
	alternateDate *time.Time
}

func (s *Service) validate(in CreateInput) (validated, error) {
	var v validated
	if strings.TrimSpace(in.CustomerName) == "" {
		return v, domain.NewValidation("customerName", "required")
	}
	email := strings.TrimSpace(in.CustomerEmail)
	if email == "" {
		return v, domain.NewValidation("customerEmail", "required")
	}
	if !strings.Contains(email, "@") {
		return v, domain.NewValidation("customerEmail", "malformed")
	}
	if in.PartySize < minPartySize || in.PartySize > maxPartySize {
		return v, domain.NewValidation("partySize", fmt.Sprintf("must be between %d and %d", minPartySize, maxPartySize))
	}
	preferred, err := time.Parse("2006-01-02", in.PreferredDate)
	if err != nil {
		return v, domain.NewValidation("preferredDate", "must be YYYY-MM-DD")
	}
	v.preferredDate = preferred
	if in.AlternateDate != "" {
		alternate, err := time.Parse("2006-01-02", in.AlternateDate)
		if err != nil {
			return v, domain.NewValidation("alternateDate", "must be YYYY-MM-DD")
		}
		v.alternateDate = &alternate
	}
	if in.DepositAmount <= 0 {
		return v, domain.NewValidation("depositAmount", "must be positive")
	}
	if in.PaymentMethod != domain.PaymentCard && in.PaymentMethod != domain.PaymentCheck {
		return v, domain.NewValidation("paymentMethod", "must be card or check")
	}
	return v, nil
}

func (s *Service) createOnce(ctx context.Context, in CreateInput, v validated) (*domain.Reservation, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reservation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	cust, err := s.customers.ResolveOrCreateTx(ctx, tx, custrepo.ResolveInput{
		Email: strings.ToLower(strings.TrimSpace(in.CustomerEmail)),
		Name:  strings.TrimSpace(in.CustomerName),
		Phone: strings.TrimSpace(in.CustomerPhone),
	})
	if err != nil {
		return nil, err
	}

	// Card deposits clear immediately; check payments stay unpaid until
	// confirmed externally.
	now := s.now()
	res, err := s.repo.InsertTx(ctx, tx, resvrepo.InsertInput{
		ReservationNumber:    s.generateNumber(now),
		CustomerID:           cust.ID,
		CustomerName:         cust.Name,
		CustomerEmail:        cust.Email,
		CustomerPhone:        cust.Phone,
		PartySize:            in.PartySize,
		PreferredDate:        v.preferredDate,
		AlternateDate:        v.alternateDate,
		EventType:            strings.TrimSpace(in.EventType),
		SpecialRequests:      strings.TrimSpace(in.SpecialRequests),
		DepositAmount:        in.DepositAmount,
		DepositPaid:          in.PaymentMethod == domain.PaymentCard,
		PaymentMethod:        in.PaymentMethod,
		ConsultationDeadline: now.Add(consultationWindow),
		BrandID:              in.BrandID,
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reservation tx: %w", err)
	}
	return res, nil
}

// generateNumber builds RES-<year>-<6-digit-suffix-of-timestamp>.
func (s *Service) generateNumber(now time.Time) string {
	return fmt.Sprintf("RES-%d-%06d", now.Year(), now.UnixNano()%1_000_000)
}

// GetByID fetches one reservation, NotFound when absent.
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a bounded page plus the total count over the same filter.
func (s *Service) List(ctx context.Context, in ListInput) ([]domain.Reservation, int64, error) {
	if in.Status != "" && !domain.ValidReservationStatus(in.Status) {
		return nil, 0, domain.NewValidation("status", "unknown status")
	}
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
	return s.repo.List(ctx, resvrepo.ListFilter{
		Status:          in.Status,
		CustomerID:      in.CustomerID,
		BrandID:         in.BrandID,
		IncludeCustomer: in.IncludeCustomer,
		Limit:           limit,
		Offset:          offset,
	})
}

// UpdateStatus moves a reservation to any status in the enum. Transition
// legality between statuses is caller policy and is not enforced here.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error) {
	if !domain.ValidReservationStatus(status) {
		return nil, domain.NewValidation("status", "unknown status")
	}
	res, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("reservation status updated", "id", id, "status", status)
	return res, nil
}
