package itinerary

import (
	"context"
	"errors"

	"winetour-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const itineraryColumns = `id, booking_id, pickup_location, pickup_time, dropoff_location, estimated_dropoff_time,
       pickup_drive_minutes, dropoff_drive_minutes, driver_notes, internal_notes, created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Itinerary, error) {
	// Defaults land via COALESCE rather than column defaults so the insert
	// stays explicit about what it writes. Duplicate booking ids surface as
	// unique violations, not a separate existence check.
	const query = `
INSERT INTO itineraries (
    booking_id, pickup_location, pickup_time, dropoff_location, estimated_dropoff_time,
    pickup_drive_minutes, dropoff_drive_minutes, driver_notes, internal_notes
) VALUES (
    $1, COALESCE($2, 'TBD'), COALESCE($3, '10:00'), COALESCE($4, 'TBD'), COALESCE($5, '16:00'),
    $6, $7, COALESCE($8, ''), COALESCE($9, '')
)
RETURNING ` + itineraryColumns
	it, err := scanItinerary(r.pool.QueryRow(ctx, query,
		in.BookingID,
		in.PickupLocation,
		in.PickupTime,
		in.DropoffLocation,
		in.EstimatedDropoffTime,
		in.PickupDriveMinutes,
		in.DropoffDriveMinutes,
		in.DriverNotes,
		in.InternalNotes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.NewConflict("itinerary", in.BookingID)
		}
		r.logger.Errorw("itinerary repo: create", "booking_id", in.BookingID, "err", err)
		return nil, err
	}
	it.Stops = []domain.ItineraryStop{}
	return it, nil
}

func (r *postgresRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Itinerary, error) {
	const query = `SELECT ` + itineraryColumns + ` FROM itineraries WHERE booking_id = $1`
	it, err := scanItinerary(r.pool.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("itinerary", bookingID)
		}
		return nil, err
	}

	stops, err := r.fetchStops(ctx, it.ID)
	if err != nil {
		r.logger.Errorw("itinerary repo: fetch stops", "booking_id", bookingID, "err", err)
		return nil, err
	}
	it.Stops = stops
	return it, nil
}

// fetchStops inner-joins wineries so a stop with a dangling winery reference
// is dropped from the list instead of carrying empty display fields.
func (r *postgresRepo) fetchStops(ctx context.Context, itineraryID int64) ([]domain.ItineraryStop, error) {
	const query = `
SELECT s.id, s.itinerary_id, s.winery_id, s.stop_order, s.arrival_time, s.departure_time,
       s.duration_minutes, s.drive_time_to_next_minutes, s.stop_type, s.reservation_confirmed,
       s.special_notes, s.is_lunch_stop,
       w.id, w.name, w.slug, w.address, w.city, w.tasting_fee::float8, w.avg_visit_minutes
FROM itinerary_stops s
JOIN wineries w ON w.id = s.winery_id
WHERE s.itinerary_id = $1
ORDER BY s.stop_order ASC
`
	rows, err := r.pool.Query(ctx, query, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := []domain.ItineraryStop{}
	for rows.Next() {
		var s domain.ItineraryStop
		if err := rows.Scan(
			&s.ID,
			&s.ItineraryID,
			&s.WineryID,
			&s.StopOrder,
			&s.ArrivalTime,
			&s.DepartureTime,
			&s.DurationMinutes,
			&s.DriveTimeToNextMinutes,
			&s.StopType,
			&s.ReservationConfirmed,
			&s.SpecialNotes,
			&s.IsLunchStop,
			&s.Winery.ID,
			&s.Winery.Name,
			&s.Winery.Slug,
			&s.Winery.Address,
			&s.Winery.City,
			&s.Winery.TastingFee,
			&s.Winery.AvgVisitMinutes,
		); err != nil {
			return nil, err
		}
		stops = append(stops, s)
	}
	return stops, rows.Err()
}

func (r *postgresRepo) UpdateByBookingID(ctx context.Context, bookingID int64, patch UpdatePatch) (*domain.Itinerary, error) {
	const query = `
UPDATE itineraries
SET pickup_location        = COALESCE($2, pickup_location),
    pickup_time            = COALESCE($3, pickup_time),
    dropoff_location       = COALESCE($4, dropoff_location),
    estimated_dropoff_time = COALESCE($5, estimated_dropoff_time),
    pickup_drive_minutes   = COALESCE($6, pickup_drive_minutes),
    dropoff_drive_minutes  = COALESCE($7, dropoff_drive_minutes),
    driver_notes           = COALESCE($8, driver_notes),
    internal_notes         = COALESCE($9, internal_notes),
    updated_at             = now()
WHERE booking_id = $1
RETURNING ` + itineraryColumns
	it, err := scanItinerary(r.pool.QueryRow(ctx, query,
		bookingID,
		patch.PickupLocation,
		patch.PickupTime,
		patch.DropoffLocation,
		patch.EstimatedDropoffTime,
		patch.PickupDriveMinutes,
		patch.DropoffDriveMinutes,
		patch.DriverNotes,
		patch.InternalNotes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("itinerary", bookingID)
		}
		r.logger.Errorw("itinerary repo: update", "booking_id", bookingID, "err", err)
		return nil, err
	}

	stops, err := r.fetchStops(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	it.Stops = stops
	return it, nil
}

func (r *postgresRepo) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	// Stops cascade with the row. Zero rows affected is fine: delete is
	// idempotent.
	if _, err := r.pool.Exec(ctx, `DELETE FROM itineraries WHERE booking_id = $1`, bookingID); err != nil {
		r.logger.Errorw("itinerary repo: delete", "booking_id", bookingID, "err", err)
		return err
	}
	return nil
}

func (r *postgresRepo) ReplaceStops(ctx context.Context, bookingID int64, stops []StopInput) (*domain.Itinerary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var itineraryID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM itineraries WHERE booking_id = $1`, bookingID).Scan(&itineraryID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("itinerary", bookingID)
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM itinerary_stops WHERE itinerary_id = $1`, itineraryID); err != nil {
		return nil, err
	}

	const insertStop = `
INSERT INTO itinerary_stops (
    itinerary_id, winery_id, stop_order, arrival_time, departure_time, duration_minutes,
    drive_time_to_next_minutes, stop_type, reservation_confirmed, special_notes, is_lunch_stop
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`
	for _, s := range stops {
		if _, err := tx.Exec(ctx, insertStop,
			itineraryID,
			s.WineryID,
			s.StopOrder,
			s.ArrivalTime,
			s.DepartureTime,
			s.DurationMinutes,
			s.DriveTimeToNextMinutes,
			s.StopType,
			s.ReservationConfirmed,
			s.SpecialNotes,
			s.IsLunchStop,
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return nil, domain.NewConflict("itinerary stop", s.StopOrder)
			}
			r.logger.Errorw("itinerary repo: insert stop", "booking_id", bookingID, "stop_order", s.StopOrder, "err", err)
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE itineraries SET updated_at = now() WHERE id = $1`, itineraryID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByBookingID(ctx, bookingID)
}

func scanItinerary(row pgx.Row) (*domain.Itinerary, error) {
	var it domain.Itinerary
	err := row.Scan(
		&it.ID,
		&it.BookingID,
		&it.PickupLocation,
		&it.PickupTime,
		&it.DropoffLocation,
		&it.EstimatedDropoffTime,
		&it.PickupDriveMinutes,
		&it.DropoffDriveMinutes,
		&it.DriverNotes,
		&it.InternalNotes,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}
