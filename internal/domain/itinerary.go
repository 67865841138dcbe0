package domain

import "time"

// Itinerary is the driver-facing schedule for one booking. At most one
// itinerary exists per booking id.
type Itinerary struct {
	ID                   int64           `json:"id"`
	BookingID            int64           `json:"bookingId"`
	PickupLocation       string          `json:"pickupLocation"`
	PickupTime           string          `json:"pickupTime"`
	DropoffLocation      string          `json:"dropoffLocation"`
	EstimatedDropoffTime string          `json:"estimatedDropoffTime"`
	PickupDriveMinutes   *int            `json:"pickupDriveMinutes,omitempty"`
	DropoffDriveMinutes  *int            `json:"dropoffDriveMinutes,omitempty"`
	DriverNotes          string          `json:"driverNotes,omitempty"`
	InternalNotes        string          `json:"internalNotes,omitempty"`
	Stops                []ItineraryStop `json:"stops"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ItineraryStop is one visit within an itinerary, chained to the next stop by
// drive time. Stop order is authoritative input, unique within the itinerary.
type ItineraryStop struct {
	ID                     int64  `json:"id"`
	ItineraryID            int64  `json:"itineraryId"`
	WineryID               int64  `json:"wineryId"`
	StopOrder              int    `json:"stopOrder"`
	ArrivalTime            string `json:"arrivalTime"`
	DepartureTime          string `json:"departureTime"`
	DurationMinutes        int    `json:"durationMinutes"`
	DriveTimeToNextMinutes *int   `json:"driveTimeToNextMinutes,omitempty"`
	StopType               string `json:"stopType,omitempty"`
	ReservationConfirmed   bool   `json:"reservationConfirmed"`
	SpecialNotes           string `json:"specialNotes,omitempty"`
	IsLunchStop            bool   `json:"isLunchStop"`
	Winery                 Winery `json:"winery"`
}

// Winery carries the display fields of the externally-owned winery entity
// that this core reads for itinerary rendering.
type Winery struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Slug            string  `json:"slug"`
	Address         string  `json:"address,omitempty"`
	City            string  `json:"city,omitempty"`
	TastingFee      float64 `json:"tastingFee"`
	AvgVisitMinutes int     `json:"avgVisitMinutes"`
}
