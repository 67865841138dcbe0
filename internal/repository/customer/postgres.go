package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const customerColumns = `id, email, name, phone, vip, total_bookings, total_spent::float8, last_booking_date, created_at, updated_at`

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

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

func (r *postgresRepo) ResolveOrCreate(ctx context.Context, in ResolveInput) (*domain.Customer, error) {
	return r.resolveOrCreate(ctx, r.pool, in)
}

func (r *postgresRepo) ResolveOrCreateTx(ctx context.Context, tx pgx.Tx, in ResolveInput) (*domain.Customer, error) {
	return r.resolveOrCreate(ctx, tx, in)
}

// resolveOrCreate is a single atomic upsert: the unique index on lower(email)
// serializes concurrent first-time resolutions, and the DO UPDATE branch
// refreshes contact fields without touching booking statistics.
func (r *postgresRepo) resolveOrCreate(ctx context.Context, q querier, in ResolveInput) (*domain.Customer, error) {
	const query = `
INSERT INTO customers (email, name, phone)
VALUES (lower($1), $2, $3)
ON CONFLICT (lower(email)) DO UPDATE SET
    name       = CASE WHEN EXCLUDED.name  <> '' THEN EXCLUDED.name  ELSE customers.name  END,
    phone      = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE customers.phone END,
    updated_at = now()
RETURNING ` + customerColumns
	c, err := scanCustomer(q.QueryRow(ctx, query, strings.TrimSpace(in.Email), strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone)))
	if err != nil {
		r.logger.Errorw("customer repo: resolve or create", "email", in.Email, "err", err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Customer, error) {
	const query = `
INSERT INTO customers (email, name, phone, vip)
VALUES (lower($1), $2, $3, $4)
RETURNING ` + customerColumns
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, strings.TrimSpace(in.Email), strings.TrimSpace(in.Name), strings.TrimSpace(in.Phone), in.VIP))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.NewConflict("customer", strings.ToLower(in.Email))
		}
		r.logger.Errorw("customer repo: create", "email", in.Email, "err", err)
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("customer", id)
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1) LIMIT 1`
	c, err := scanCustomer(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Customer, int64, error) {
	where := []string{}
	args := []any{}

	if f.VIPOnly {
		where = append(where, "vip = TRUE")
	}
	if f.MinBookings > 0 {
		args = append(args, f.MinBookings)
		where = append(where, fmt.Sprintf("total_bookings >= $%d", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+strings.ToLower(s)+"%")
		where = append(where, fmt.Sprintf("(lower(name) LIKE $%d OR lower(email) LIKE $%d)", len(args), len(args)))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE `+cond, args...).Scan(&total); err != nil {
		r.logger.Errorw("customer repo: count", "err", err)
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerColumns, cond, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Errorw("customer repo: list", "err", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) RecordBookingStats(ctx context.Context, id int64, amount float64, date time.Time) error {
	const query = `
UPDATE customers
SET total_bookings    = total_bookings + 1,
    total_spent       = total_spent + $2,
    last_booking_date = $3,
    updated_at        = now()
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, query, id, amount, date)
	if err != nil {
		r.logger.Errorw("customer repo: record booking stats", "id", id, "err", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("customer", id)
	}
	return nil
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.Phone,
		&c.VIP,
		&c.TotalBookings,
		&c.TotalSpent,
		&c.LastBookingDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
