package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const reservationColumns = `id, reservation_number, customer_id, customer_name, customer_email, customer_phone,
       party_size, preferred_date, alternate_date, event_type, special_requests,
       deposit_amount::float8, deposit_paid, payment_method, status, consultation_deadline,
       brand_id, booking_id, created_at, updated_at`

const reservationColumnsJoined = `r.id, r.reservation_number, r.customer_id, r.customer_name, r.customer_email, r.customer_phone,
       r.party_size, r.preferred_date, r.alternate_date, r.event_type, r.special_requests,
       r.deposit_amount::float8, r.deposit_paid, r.payment_method, r.status, r.consultation_deadline,
       r.brand_id, r.booking_id, r.created_at, r.updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *zap.SugaredLogger) Repository {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) InsertTx(ctx context.Context, tx pgx.Tx, in InsertInput) (*domain.Reservation, error) {
	const query = `
INSERT INTO reservations (
    reservation_number, customer_id, customer_name, customer_email, customer_phone,
    party_size, preferred_date, alternate_date, event_type, special_requests,
    deposit_amount, deposit_paid, payment_method, consultation_deadline, brand_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + reservationColumns
	res, err := scanReservation(tx.QueryRow(ctx, query,
		in.ReservationNumber,
		in.CustomerID,
		in.CustomerName,
		in.CustomerEmail,
		in.CustomerPhone,
		in.PartySize,
		in.PreferredDate,
		in.AlternateDate,
		in.EventType,
		in.SpecialRequests,
		in.DepositAmount,
		in.DepositPaid,
		in.PaymentMethod,
		in.ConsultationDeadline,
		in.BrandID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.NewConflict("reservation", in.ReservationNumber)
		}
		r.logger.Errorw("reservation repo: insert", "number", in.ReservationNumber, "err", err)
		return nil, err
	}
	return res, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("reservation", id)
		}
		return nil, err
	}
	return res, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Reservation, int64, error) {
	where := []string{}
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("r.status = $%d", len(args)))
	}
	if f.CustomerID != nil {
		args = append(args, *f.CustomerID)
		where = append(where, fmt.Sprintf("r.customer_id = $%d", len(args)))
	}
	if f.BrandID != nil {
		args = append(args, *f.BrandID)
		where = append(where, fmt.Sprintf("r.brand_id = $%d", len(args)))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reservations r WHERE `+cond, args...).Scan(&total); err != nil {
		r.logger.Errorw("reservation repo: count", "err", err)
		return nil, 0, err
	}

	columns := reservationColumnsJoined
	join := ""
	if f.IncludeCustomer {
		columns += `, c.id, c.email, c.name, c.phone`
		join = ` JOIN customers c ON c.id = r.customer_id`
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM reservations r%s WHERE %s ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`,
		columns, join, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Errorw("reservation repo: list", "err", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		dest := scanDest(&res)
		var summary domain.CustomerSummary
		if f.IncludeCustomer {
			dest = append(dest, &summary.ID, &summary.Email, &summary.Name, &summary.Phone)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, err
		}
		if f.IncludeCustomer {
			res.Customer = &summary
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error) {
	const query = `
UPDATE reservations
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + reservationColumns
	res, err := scanReservation(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("reservation", id)
		}
		r.logger.Errorw("reservation repo: update status", "id", id, "err", err)
		return nil, err
	}
	return res, nil
}

func scanDest(res *domain.Reservation) []any {
	return []any{
		&res.ID,
		&res.ReservationNumber,
		&res.CustomerID,
		&res.CustomerName,
		&res.CustomerEmail,
		&res.CustomerPhone,
		&res.PartySize,
		&res.PreferredDate,
		&res.AlternateDate,
		&res.EventType,
		&res.SpecialRequests,
		&res.DepositAmount,
		&res.DepositPaid,
		&res.PaymentMethod,
		&res.Status,
		&res.ConsultationDeadline,
		&res.BrandID,
		&res.BookingID,
		&res.CreatedAt,
		&res.UpdatedAt,
	}
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var res domain.Reservation
	if err := row.Scan(scanDest(&res)...); err != nil {
		return nil, err
	}
	return &res, nil
}
