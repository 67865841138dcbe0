package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"winetour-backend/internal/domain"
	"winetour-backend/internal/mail"
	digestrepo "winetour-backend/internal/repository/digest"

	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	pending     int64
	pendingErr  error
	nearing     []domain.Reservation
	nearingErr  error
	stops       []digestrepo.UnconfirmedStop
	threads     []digestrepo.UnreadThread
	lastWithin  time.Duration
	statusAsked string
}

func (f *fakeRepo) CountReservationsByStatus(_ context.Context, status string) (int64, error) {
	f.statusAsked = status
	return f.pending, f.pendingErr
}

func (f *fakeRepo) ReservationsNearingDeadline(_ context.Context, within time.Duration) ([]domain.Reservation, error) {
	f.lastWithin = within
	return f.nearing, f.nearingErr
}

func (f *fakeRepo) UnconfirmedStops(context.Context) ([]digestrepo.UnconfirmedStop, error) {
	return f.stops, nil
}

func (f *fakeRepo) UnreadClientThreads(context.Context) ([]digestrepo.UnreadThread, error) {
	return f.threads, nil
}

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func sampleRepo() *fakeRepo {
	return &fakeRepo{
		pending: 4,
		nearing: []domain.Reservation{{
			ReservationNumber:    "RES-2025-000123",
			CustomerName:         "Ann",
			CustomerEmail:        "a@example.com",
			PartySize:            6,
			ConsultationDeadline: time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
		}},
		stops: []digestrepo.UnconfirmedStop{
			{BookingID: 9, StopOrder: 2, WineryName: "Stone Creek Cellars", ArrivalTime: "12:30"},
		},
		threads: []digestrepo.UnreadThread{
			{TripProposalID: 3, UnreadNotes: 2},
		},
	}
}

func TestBuildMergesAllSubQueries(t *testing.T) {
	repo := sampleRepo()
	svc := New(repo, nil, nil, nil, nil)
	fixed := time.Date(2025, 5, 31, 7, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	report, err := svc.Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, fixed, report.GeneratedAt)
	require.Equal(t, int64(4), report.PendingCount)
	require.Len(t, report.NearingDeadline, 1)
	require.Len(t, report.UnconfirmedStops, 1)
	require.Len(t, report.UnreadNoteThreads, 1)

	require.Equal(t, domain.ReservationPending, repo.statusAsked)
	require.Equal(t, 24*time.Hour, repo.lastWithin)
}

func TestBuildPropagatesSubQueryError(t *testing.T) {
	repo := sampleRepo()
	repo.nearingErr = errors.New("query timeout")
	svc := New(repo, nil, nil, nil, nil)

	_, err := svc.Build(context.Background())
	require.ErrorContains(t, err, "nearing deadline")
}

func TestRunSendsToRecipients(t *testing.T) {
	sender := &fakeSender{}
	svc := New(sampleRepo(), sender, []string{"ops@example.com"}, nil, nil)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	require.Equal(t, []string{"ops@example.com"}, msg.To)
	require.Contains(t, msg.Subject, "Daily operations digest")
	require.Contains(t, msg.Text, "RES-2025-000123")
	require.Contains(t, msg.Text, "Stone Creek Cellars")
	require.Contains(t, msg.Text, "proposal 3")
	require.Contains(t, msg.HTML, "<h2>Operations digest</h2>")
}

func TestRunSkipsSendWithoutRecipients(t *testing.T) {
	sender := &fakeSender{}
	svc := New(sampleRepo(), sender, nil, nil, nil)

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	require.Empty(t, sender.sent)
}

func TestRunDoesNotSendWhenBuildFails(t *testing.T) {
	repo := sampleRepo()
	repo.pendingErr = errors.New("connection refused")
	sender := &fakeSender{}
	svc := New(repo, sender, []string{"ops@example.com"}, nil, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	require.Empty(t, sender.sent)
}

func TestRenderHTMLEscapesUserContent(t *testing.T) {
	report := &Report{
		NearingDeadline: []domain.Reservation{{
			ReservationNumber: "RES-2025-000123",
			CustomerName:      `<b>Ann</b>`,
			CustomerEmail:     `"a"@example.com`,
			PartySize:         6,
		}},
		UnconfirmedStops: []digestrepo.UnconfirmedStop{
			{BookingID: 9, StopOrder: 2, WineryName: "Stone & Creek <Cellars>", ArrivalTime: "12:30"},
		},
	}

	out := renderHTML(report)
	require.NotContains(t, out, "<b>Ann</b>")
	require.Contains(t, out, "&lt;b&gt;Ann&lt;/b&gt;")
	require.Contains(t, out, "&#34;a&#34;@example.com")
	require.Contains(t, out, "Stone &amp; Creek &lt;Cellars&gt;")
}

func TestRenderTextEmptySections(t *testing.T) {
	report := &Report{GeneratedAt: time.Now()}
	text := renderText(report)
	require.Equal(t, 3, strings.Count(text, "none"))
}
