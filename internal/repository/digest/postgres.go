package digest

import (
	"context"
	"time"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

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

func (r *postgresRepo) CountReservationsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE status = $1`, status).Scan(&count)
	if err != nil {
		r.logger.Errorw("digest repo: count reservations", "status", status, "err", err)
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) ReservationsNearingDeadline(ctx context.Context, within time.Duration) ([]domain.Reservation, error) {
	const query = `
SELECT id, reservation_number, customer_name, customer_email, party_size, preferred_date, status, consultation_deadline
FROM reservations
WHERE status IN ('pending', 'contacted')
  AND consultation_deadline BETWEEN now() AND now() + $1
ORDER BY consultation_deadline ASC
`
	rows, err := r.pool.Query(ctx, query, within)
	if err != nil {
		r.logger.Errorw("digest repo: deadlines", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(
			&res.ID,
			&res.ReservationNumber,
			&res.CustomerName,
			&res.CustomerEmail,
			&res.PartySize,
			&res.PreferredDate,
			&res.Status,
			&res.ConsultationDeadline,
		); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UnconfirmedStops(ctx context.Context) ([]UnconfirmedStop, error) {
	const query = `
SELECT i.booking_id, s.stop_order, w.name, s.arrival_time
FROM itinerary_stops s
JOIN itineraries i ON i.id = s.itinerary_id
JOIN wineries w ON w.id = s.winery_id
WHERE s.reservation_confirmed = FALSE
ORDER BY i.booking_id, s.stop_order
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Errorw("digest repo: unconfirmed stops", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []UnconfirmedStop
	for rows.Next() {
		var s UnconfirmedStop
		if err := rows.Scan(&s.BookingID, &s.StopOrder, &s.WineryName, &s.ArrivalTime); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *postgresRepo) UnreadClientThreads(ctx context.Context) ([]UnreadThread, error) {
	const query = `
SELECT trip_proposal_id, COUNT(*)
FROM proposal_notes
WHERE author_type = 'client' AND is_read = FALSE
GROUP BY trip_proposal_id
ORDER BY trip_proposal_id
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Errorw("digest repo: unread threads", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []UnreadThread
	for rows.Next() {
		var t UnreadThread
		if err := rows.Scan(&t.TripProposalID, &t.UnreadNotes); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
