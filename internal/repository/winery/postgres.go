package winery

import (
	"context"
	"errors"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const wineryColumns = `id, name, slug, address, city, tasting_fee::float8, avg_visit_minutes`

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Winery, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+wineryColumns+` FROM wineries ORDER BY name ASC`)
	if err != nil {
		r.logger.Errorw("winery repo: list", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Winery
	for rows.Next() {
		var w domain.Winery
		if err := rows.Scan(&w.ID, &w.Name, &w.Slug, &w.Address, &w.City, &w.TastingFee, &w.AvgVisitMinutes); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Winery, error) {
	var w domain.Winery
	err := r.pool.QueryRow(ctx, `SELECT `+wineryColumns+` FROM wineries WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Slug, &w.Address, &w.City, &w.TastingFee, &w.AvgVisitMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("winery", id)
		}
		return nil, err
	}
	return &w, nil
}
