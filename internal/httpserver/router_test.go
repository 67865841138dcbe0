package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"winetour-backend/internal/domain"
	custrepo "winetour-backend/internal/repository/customer"
	itinrepo "winetour-backend/internal/repository/itinerary"
	noterepo "winetour-backend/internal/repository/note"
	resvrepo "winetour-backend/internal/repository/reservation"
	customersvc "winetour-backend/internal/service/customer"
	itinerarysvc "winetour-backend/internal/service/itinerary"
	notesvc "winetour-backend/internal/service/note"
	reservationsvc "winetour-backend/internal/service/reservation"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// The fakes below back a full router with in-memory state so the handler
// wiring, status codes and error mapping can be exercised without postgres.

type memCustomers struct {
	byEmail map[string]*domain.Customer
	nextID  int64
}

func newMemCustomers() *memCustomers {
	return &memCustomers{byEmail: map[string]*domain.Customer{}, nextID: 1}
}

func (m *memCustomers) ResolveOrCreate(_ context.Context, in custrepo.ResolveInput) (*domain.Customer, error) {
	if c, ok := m.byEmail[in.Email]; ok {
		if in.Name != "" {
			c.Name = in.Name
		}
		if in.Phone != "" {
			c.Phone = in.Phone
		}
		out := *c
		return &out, nil
	}
	c := &domain.Customer{ID: m.nextID, Email: in.Email, Name: in.Name, Phone: in.Phone}
	m.nextID++
	m.byEmail[in.Email] = c
	out := *c
	return &out, nil
}

func (m *memCustomers) ResolveOrCreateTx(ctx context.Context, _ pgx.Tx, in custrepo.ResolveInput) (*domain.Customer, error) {
	return m.ResolveOrCreate(ctx, in)
}

func (m *memCustomers) Create(_ context.Context, in custrepo.CreateInput) (*domain.Customer, error) {
	if _, ok := m.byEmail[in.Email]; ok {
		return nil, domain.NewConflict("customer", in.Email)
	}
	c := &domain.Customer{ID: m.nextID, Email: in.Email, Name: in.Name, Phone: in.Phone, VIP: in.VIP}
	m.nextID++
	m.byEmail[in.Email] = c
	out := *c
	return &out, nil
}

func (m *memCustomers) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	for _, c := range m.byEmail {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.NewNotFound("customer", id)
}

func (m *memCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	c, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *memCustomers) List(context.Context, custrepo.ListFilter) ([]domain.Customer, int64, error) {
	var out []domain.Customer
	for _, c := range m.byEmail {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memCustomers) RecordBookingStats(_ context.Context, id int64, amount float64, date time.Time) error {
	for _, c := range m.byEmail {
		if c.ID == id {
			c.TotalBookings++
			c.TotalSpent += amount
			c.LastBookingDate = &date
			return nil
		}
	}
	return domain.NewNotFound("customer", id)
}

type memTx struct{ pgx.Tx }

func (memTx) Commit(context.Context) error   { return nil }
func (memTx) Rollback(context.Context) error { return nil }

type memDB struct{}

func (memDB) Begin(context.Context) (pgx.Tx, error) { return memTx{}, nil }

type memReservations struct {
	byID   map[int64]*domain.Reservation
	nextID int64
}

func newMemReservations() *memReservations {
	return &memReservations{byID: map[int64]*domain.Reservation{}, nextID: 1}
}

func (m *memReservations) InsertTx(_ context.Context, _ pgx.Tx, in resvrepo.InsertInput) (*domain.Reservation, error) {
	res := &domain.Reservation{
		ID:                   m.nextID,
		ReservationNumber:    in.ReservationNumber,
		CustomerID:           in.CustomerID,
		CustomerName:         in.CustomerName,
		CustomerEmail:        in.CustomerEmail,
		CustomerPhone:        in.CustomerPhone,
		PartySize:            in.PartySize,
		PreferredDate:        in.PreferredDate,
		AlternateDate:        in.AlternateDate,
		DepositAmount:        in.DepositAmount,
		DepositPaid:          in.DepositPaid,
		PaymentMethod:        in.PaymentMethod,
		Status:               domain.ReservationPending,
		ConsultationDeadline: in.ConsultationDeadline,
	}
	m.nextID++
	m.byID[res.ID] = res
	out := *res
	return &out, nil
}

func (m *memReservations) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := m.byID[id]
	if !ok {
		return nil, domain.NewNotFound("reservation", id)
	}
	out := *res
	return &out, nil
}

func (m *memReservations) List(_ context.Context, f resvrepo.ListFilter) ([]domain.Reservation, int64, error) {
	var out []domain.Reservation
	for _, res := range m.byID {
		if f.Status != "" && res.Status != f.Status {
			continue
		}
		out = append(out, *res)
	}
	return out, int64(len(out)), nil
}

func (m *memReservations) UpdateStatus(_ context.Context, id int64, status string) (*domain.Reservation, error) {
	res, ok := m.byID[id]
	if !ok {
		return nil, domain.NewNotFound("reservation", id)
	}
	res.Status = status
	out := *res
	return &out, nil
}

type memItineraries struct {
	byBooking map[int64]*domain.Itinerary
	nextID    int64
}

func newMemItineraries() *memItineraries {
	return &memItineraries{byBooking: map[int64]*domain.Itinerary{}, nextID: 1}
}

func orElse(v *string, def string) string {
	if v != nil && *v != "" {
		return *v
	}
	return def
}

func (m *memItineraries) Create(_ context.Context, in itinrepo.CreateInput) (*domain.Itinerary, error) {
	if _, ok := m.byBooking[in.BookingID]; ok {
		return nil, domain.NewConflict("itinerary", in.BookingID)
	}
	it := &domain.Itinerary{
		ID:                   m.nextID,
		BookingID:            in.BookingID,
		PickupLocation:       orElse(in.PickupLocation, "TBD"),
		PickupTime:           orElse(in.PickupTime, "10:00"),
		DropoffLocation:      orElse(in.DropoffLocation, "TBD"),
		EstimatedDropoffTime: orElse(in.EstimatedDropoffTime, "16:00"),
		Stops:                []domain.ItineraryStop{},
	}
	m.nextID++
	m.byBooking[in.BookingID] = it
	out := *it
	return &out, nil
}

func (m *memItineraries) GetByBookingID(_ context.Context, bookingID int64) (*domain.Itinerary, error) {
	it, ok := m.byBooking[bookingID]
	if !ok {
		return nil, domain.NewNotFound("itinerary", bookingID)
	}
	out := *it
	return &out, nil
}

func (m *memItineraries) UpdateByBookingID(_ context.Context, bookingID int64, patch itinrepo.UpdatePatch) (*domain.Itinerary, error) {
	it, ok := m.byBooking[bookingID]
	if !ok {
		return nil, domain.NewNotFound("itinerary", bookingID)
	}
	if patch.PickupTime != nil {
		it.PickupTime = *patch.PickupTime
	}
	if patch.PickupLocation != nil {
		it.PickupLocation = *patch.PickupLocation
	}
	out := *it
	return &out, nil
}

func (m *memItineraries) DeleteByBookingID(_ context.Context, bookingID int64) error {
	delete(m.byBooking, bookingID)
	return nil
}

func (m *memItineraries) ReplaceStops(_ context.Context, bookingID int64, stops []itinrepo.StopInput) (*domain.Itinerary, error) {
	it, ok := m.byBooking[bookingID]
	if !ok {
		return nil, domain.NewNotFound("itinerary", bookingID)
	}
	it.Stops = it.Stops[:0]
	for _, st := range stops {
		it.Stops = append(it.Stops, domain.ItineraryStop{
			ItineraryID: it.ID,
			WineryID:    st.WineryID,
			StopOrder:   st.StopOrder,
			ArrivalTime: st.ArrivalTime,
		})
	}
	out := *it
	return &out, nil
}

type memNotes struct {
	notes  []*domain.ProposalNote
	nextID int64
}

func (m *memNotes) Create(_ context.Context, in noterepo.CreateInput) (*domain.ProposalNote, error) {
	m.nextID++
	n := &domain.ProposalNote{
		ID:             m.nextID,
		TripProposalID: in.TripProposalID,
		AuthorType:     in.AuthorType,
		AuthorName:     in.AuthorName,
		Content:        in.Content,
		CreatedAt:      time.Now(),
	}
	m.notes = append(m.notes, n)
	out := *n
	return &out, nil
}

func (m *memNotes) List(_ context.Context, f noterepo.ListFilter) ([]domain.ProposalNote, error) {
	var out []domain.ProposalNote
	for _, n := range m.notes {
		if n.TripProposalID == f.TripProposalID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotes) CountUnread(_ context.Context, proposalID int64, authorType string) (int, error) {
	count := 0
	for _, n := range m.notes {
		if n.TripProposalID == proposalID && !n.IsRead && (authorType == "" || n.AuthorType == authorType) {
			count++
		}
	}
	return count, nil
}

func (m *memNotes) MarkRead(_ context.Context, proposalID int64, authorType string) error {
	for _, n := range m.notes {
		if n.TripProposalID == proposalID && n.AuthorType == authorType {
			n.IsRead = true
		}
	}
	return nil
}

func (m *memNotes) MarkNoteRead(_ context.Context, noteID int64) error {
	for _, n := range m.notes {
		if n.ID == noteID {
			n.IsRead = true
			return nil
		}
	}
	return domain.NewNotFound("note", noteID)
}

type memWineries struct{ wineries []domain.Winery }

func (m *memWineries) List(context.Context) ([]domain.Winery, error) {
	return m.wineries, nil
}

func (m *memWineries) GetByID(_ context.Context, id int64) (*domain.Winery, error) {
	for _, w := range m.wineries {
		if w.ID == id {
			out := w
			return &out, nil
		}
	}
	return nil, domain.NewNotFound("winery", id)
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	customers := newMemCustomers()
	return buildRouter(nil, nil, Deps{
		CustomerSvc:    customersvc.New(customers, nil, nil),
		ReservationSvc: reservationsvc.New(memDB{}, customers, newMemReservations(), nil, nil),
		ItinerarySvc:   itinerarysvc.New(newMemItineraries(), nil),
		NoteSvc:        notesvc.New(&memNotes{}, nil),
		WineryRepo:     &memWineries{wineries: []domain.Winery{{ID: 1, Name: "Stone Creek Cellars", Slug: "stone-creek"}}},
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func validReservationBody() map[string]any {
	return map[string]any{
		"customerName":  "Ann",
		"customerEmail": "ann@example.com",
		"partySize":     4,
		"preferredDate": "2025-06-01",
		"depositAmount": 50,
		"paymentMethod": "card",
	}
}

func TestHealthz(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzWithoutDB(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCreateReservationEndToEnd(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/reservations", validReservationBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Reservation domain.Reservation `json:"reservation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.True(t, strings.HasPrefix(created.Reservation.ReservationNumber, "RES-"))
	require.True(t, created.Reservation.DepositPaid)
	require.Equal(t, domain.ReservationPending, created.Reservation.Status)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d", created.Reservation.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateReservationValidationIs400(t *testing.T) {
	body := validReservationBody()
	body["partySize"] = 0

	rec := doJSON(t, newTestRouter(t), http.MethodPost, "/api/v1/reservations", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "partySize", resp.Field)
}

func TestGetReservationMissingIs404(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/reservations/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateReservationStatus(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/reservations", validReservationBody())

	rec := doJSON(t, router, http.MethodPatch, "/api/v1/reservations/1/status", map[string]string{"status": "contacted"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/reservations/1/status", map[string]string{"status": "lost"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerLookupMissIsNull(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/customers/lookup?email=ghost@example.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"customer":null`)
}

func TestDuplicateItineraryIs409(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/bookings/7/itinerary", map[string]any{})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, rec.Body.String(), `"pickupTime":"10:00"`)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/bookings/7/itinerary", map[string]any{})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteItineraryIsIdempotent(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/bookings/7/itinerary", map[string]any{})

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/bookings/7/itinerary", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/bookings/7/itinerary", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSetStopsRejectsGapAs400(t *testing.T) {
	router := newTestRouter(t)
	doJSON(t, router, http.MethodPost, "/api/v1/bookings/7/itinerary", map[string]any{})

	rec := doJSON(t, router, http.MethodPut, "/api/v1/bookings/7/itinerary/stops", map[string]any{
		"stops": []map[string]any{
			{"wineryId": 1, "stopOrder": 1},
			{"wineryId": 2, "stopOrder": 3},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNoteThreadFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/proposals/1/notes", map[string]any{
		"authorType": "client", "authorName": "Ann", "content": "hello",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/proposals/1/notes/unread-count?authorType=client", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"unread":1`)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/proposals/1/notes/mark-read", map[string]any{"authorType": "client"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/proposals/1/notes/unread-count?authorType=client", nil)
	require.Contains(t, rec.Body.String(), `"unread":0`)
}

func TestInvalidPathIDIs400(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/reservations/abc", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListWineries(t *testing.T) {
	rec := doJSON(t, newTestRouter(t), http.MethodGet, "/api/v1/wineries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Stone Creek Cellars")
}
