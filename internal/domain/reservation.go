package domain

import "time"

// Reservation statuses. A reservation starts pending and moves through the
// funnel until completed; cancelled is reachable from any non-terminal state.
const (
	ReservationPending   = "pending"
	ReservationContacted = "contacted"
	ReservationConfirmed = "confirmed"
	ReservationCompleted = "completed"
	ReservationCancelled = "cancelled"
)

// Accepted payment methods on the deposit-only path.
const (
	PaymentCard  = "card"
	PaymentCheck = "check"
)

// ValidReservationStatus reports whether s is a member of the status enum.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationContacted, ReservationConfirmed,
		ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// Reservation is a deposit-only booking intent, pending full scheduling.
// Customer contact fields are a point-in-time snapshot kept alongside the
// customer_id reference for audit history.
type Reservation struct {
	ID                   int64            `json:"id"`
	ReservationNumber    string           `json:"reservationNumber"`
	CustomerID           int64            `json:"customerId"`
	CustomerName         string           `json:"customerName"`
	CustomerEmail        string           `json:"customerEmail"`
	CustomerPhone        string           `json:"customerPhone,omitempty"`
	PartySize            int              `json:"partySize"`
	PreferredDate        time.Time        `json:"preferredDate"`
	AlternateDate        *time.Time       `json:"alternateDate,omitempty"`
	EventType            string           `json:"eventType,omitempty"`
	SpecialRequests      string           `json:"specialRequests,omitempty"`
	DepositAmount        float64          `json:"depositAmount"`
	DepositPaid          bool             `json:"depositPaid"`
	PaymentMethod        string           `json:"paymentMethod"`
	Status               string           `json:"status"`
	ConsultationDeadline time.Time        `json:"consultationDeadline"`
	BrandID              *int64           `json:"brandId,omitempty"`
	BookingID            *int64           `json:"bookingId,omitempty"`
	Customer             *CustomerSummary `json:"customer,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}
