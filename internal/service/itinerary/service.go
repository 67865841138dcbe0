package itinerary

import (
	"context"
	"fmt"
	"strings"

	"winetour-backend/internal/domain"
	itinrepo "winetour-backend/internal/repository/itinerary"

	"go.uber.org/zap"
)

// Service owns the per-booking schedule and its ordered stop list. The stop
// order is authoritative input; the service assembles and presents the
// chain, it does not optimize routing.
type Service struct {
	repo   itinrepo.Repository
	logger *zap.SugaredLogger
}

// New creates a Service.
func New(repo itinrepo.Repository, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput mirrors the itinerary creation payload; omitted fields get the
// fixed defaults (TBD locations, 10:00 pickup, 16:00 dropoff).
type CreateInput struct {
	PickupLocation       *string `json:"pickupLocation"`
	PickupTime           *string `json:"pickupTime"`
	DropoffLocation      *string `json:"dropoffLocation"`
	EstimatedDropoffTime *string `json:"estimatedDropoffTime"`
	PickupDriveMinutes   *int    `json:"pickupDriveMinutes"`
	DropoffDriveMinutes  *int    `json:"dropoffDriveMinutes"`
	DriverNotes          *string `json:"driverNotes"`
	InternalNotes        *string `json:"internalNotes"`
}

// UpdateInput applies merge semantics: omitted fields keep their stored
// value.
type UpdateInput struct {
	PickupLocation       *string `json:"pickupLocation"`
	PickupTime           *string `json:"pickupTime"`
	DropoffLocation      *string `json:"dropoffLocation"`
	EstimatedDropoffTime *string `json:"estimatedDropoffTime"`
	PickupDriveMinutes   *int    `json:"pickupDriveMinutes"`
	DropoffDriveMinutes  *int    `json:"dropoffDriveMinutes"`
	DriverNotes          *string `json:"driverNotes"`
	InternalNotes        *string `json:"internalNotes"`
}

// StopInput is one stop in a full stop-list replacement.
type StopInput struct {
	WineryID               int64  `json:"wineryId"`
	StopOrder              int    `json:"stopOrder"`
	ArrivalTime            string `json:"arrivalTime"`
	DepartureTime          string `json:"departureTime"`
	DurationMinutes        int    `json:"durationMinutes"`
	DriveTimeToNextMinutes *int   `json:"driveTimeToNextMinutes"`
	StopType               string `json:"stopType"`
	ReservationConfirmed   bool   `json:"reservationConfirmed"`
	SpecialNotes           string `json:"specialNotes"`
	IsLunchStop            bool   `json:"isLunchStop"`
}

// Create builds the itinerary for a booking, Conflict when one exists.
func (s *Service) Create(ctx context.Context, bookingID int64, in CreateInput) (*domain.Itinerary, error) {
	if bookingID <= 0 {
		return nil, domain.NewValidation("bookingId", "required")
	}
	it, err := s.repo.Create(ctx, itinrepo.CreateInput{
		BookingID:            bookingID,
		PickupLocation:       trimmed(in.PickupLocation),
		PickupTime:           trimmed(in.PickupTime),
		DropoffLocation:      trimmed(in.DropoffLocation),
		EstimatedDropoffTime: trimmed(in.EstimatedDropoffTime),
		PickupDriveMinutes:   in.PickupDriveMinutes,
		DropoffDriveMinutes:  in.DropoffDriveMinutes,
		DriverNotes:          in.DriverNotes,
		InternalNotes:        in.InternalNotes,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("itinerary created", "booking_id", bookingID)
	return it, nil
}

// GetByBookingID assembles the itinerary with its winery-enriched stops.
func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Itinerary, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}

// UpdateByBookingID merges the supplied fields into the stored itinerary.
func (s *Service) UpdateByBookingID(ctx context.Context, bookingID int64, in UpdateInput) (*domain.Itinerary, error) {
	return s.repo.UpdateByBookingID(ctx, bookingID, itinrepo.UpdatePatch{
		PickupLocation:       trimmed(in.PickupLocation),
		PickupTime:           trimmed(in.PickupTime),
		DropoffLocation:      trimmed(in.DropoffLocation),
		EstimatedDropoffTime: trimmed(in.EstimatedDropoffTime),
		PickupDriveMinutes:   in.PickupDriveMinutes,
		DropoffDriveMinutes:  in.DropoffDriveMinutes,
		DriverNotes:          in.DriverNotes,
		InternalNotes:        in.InternalNotes,
	})
}

// DeleteByBookingID removes the itinerary and its stops; no error when none
// exists.
func (s *Service) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	return s.repo.DeleteByBookingID(ctx, bookingID)
}

// SetStops replaces the full ordered stop list. Stop orders must be
// contiguous ascending from 1.
func (s *Service) SetStops(ctx context.Context, bookingID int64, stops []StopInput) (*domain.Itinerary, error) {
	inputs := make([]itinrepo.StopInput, 0, len(stops))
	for i, st := range stops {
		if st.StopOrder != i+1 {
			return nil, domain.NewValidation("stops", fmt.Sprintf("stop_order must be contiguous ascending from 1, got %d at position %d", st.StopOrder, i))
		}
		if st.WineryID <= 0 {
			return nil, domain.NewValidation("stops", fmt.Sprintf("wineryId required at stop %d", st.StopOrder))
		}
		inputs = append(inputs, itinrepo.StopInput{
			WineryID:               st.WineryID,
			StopOrder:              st.StopOrder,
			ArrivalTime:            strings.TrimSpace(st.ArrivalTime),
			DepartureTime:          strings.TrimSpace(st.DepartureTime),
			DurationMinutes:        st.DurationMinutes,
			DriveTimeToNextMinutes: st.DriveTimeToNextMinutes,
			StopType:               strings.TrimSpace(st.StopType),
			ReservationConfirmed:   st.ReservationConfirmed,
			SpecialNotes:           st.SpecialNotes,
			IsLunchStop:            st.IsLunchStop,
		})
	}
	it, err := s.repo.ReplaceStops(ctx, bookingID, inputs)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("itinerary stops replaced", "booking_id", bookingID, "stops", len(inputs))
	return it, nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
