package digest

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"winetour-backend/internal/domain"
	"winetour-backend/internal/mail"
	"winetour-backend/internal/metrics"
	digestrepo "winetour-backend/internal/repository/digest"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const deadlineWindow = 24 * time.Hour

// Sender dispatches the rendered digest email.
type Sender interface {
	Send(ctx context.Context, msg mail.Message) error
}

// Report is the merged result of the digest sub-queries.
type Report struct {
	GeneratedAt       time.Time                    `json:"generatedAt"`
	PendingCount      int64                        `json:"pendingCount"`
	NearingDeadline   []domain.Reservation         `json:"nearingDeadline"`
	UnconfirmedStops  []digestrepo.UnconfirmedStop `json:"unconfirmedStops"`
	UnreadNoteThreads []digestrepo.UnreadThread    `json:"unreadNoteThreads"`
}

// Service aggregates the daily operational digest. The sub-queries are
// independent reads and run concurrently; results merge only after all
// complete.
type Service struct {
	repo       digestrepo.Repository
	sender     Sender
	recipients []string
	logger     *zap.SugaredLogger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// New creates a Service. metrics may be nil.
func New(repo digestrepo.Repository, sender Sender, recipients []string, logger *zap.SugaredLogger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		repo:       repo,
		sender:     sender,
		recipients: recipients,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// Build runs the digest sub-queries concurrently and merges the report.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	report := &Report{GeneratedAt: s.now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountReservationsByStatus(ctx, domain.ReservationPending)
		if err != nil {
			return fmt.Errorf("pending count: %w", err)
		}
		report.PendingCount = count
		return nil
	})
	g.Go(func() error {
		res, err := s.repo.ReservationsNearingDeadline(ctx, deadlineWindow)
		if err != nil {
			return fmt.Errorf("nearing deadline: %w", err)
		}
		report.NearingDeadline = res
		return nil
	})
	g.Go(func() error {
		stops, err := s.repo.UnconfirmedStops(ctx)
		if err != nil {
			return fmt.Errorf("unconfirmed stops: %w", err)
		}
		report.UnconfirmedStops = stops
		return nil
	})
	g.Go(func() error {
		threads, err := s.repo.UnreadClientThreads(ctx)
		if err != nil {
			return fmt.Errorf("unread threads: %w", err)
		}
		report.UnreadNoteThreads = threads
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

// Run builds the report and emails it to the configured recipients.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report, err := s.Build(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ErrorsCount.WithLabelValues("digest_build").Inc()
		}
		return nil, err
	}
	if len(s.recipients) == 0 {
		s.logger.Warnw("digest built but no recipients configured, skipping send")
		return report, nil
	}

	subject := fmt.Sprintf("Daily operations digest - %s", report.GeneratedAt.Format("Mon Jan 2"))
	if err := s.sender.Send(ctx, mail.Message{
		To:      s.recipients,
		Subject: subject,
		Text:    renderText(report),
		HTML:    renderHTML(report),
	}); err != nil {
		return nil, fmt.Errorf("send digest: %w", err)
	}
	if s.metrics != nil {
		s.metrics.DigestRuns.Inc()
	}
	s.logger.Infow("digest sent",
		"recipients", len(s.recipients),
		"pending", report.PendingCount,
		"deadlines", len(report.NearingDeadline),
	)
	return report, nil
}

func renderText(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Operations digest generated %s\n\n", r.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "Pending reservations: %d\n\n", r.PendingCount)

	b.WriteString("Consultations due within 24h:\n")
	if len(r.NearingDeadline) == 0 {
		b.WriteString("  none\n")
	}
	for _, res := range r.NearingDeadline {
		fmt.Fprintf(&b, "  %s: %s (%s), party of %d, due %s\n",
			res.ReservationNumber, res.CustomerName, res.CustomerEmail,
			res.PartySize, res.ConsultationDeadline.Format("15:04 Jan 2"))
	}

	b.WriteString("\nUnconfirmed winery stops:\n")
	if len(r.UnconfirmedStops) == 0 {
		b.WriteString("  none\n")
	}
	for _, s := range r.UnconfirmedStops {
		fmt.Fprintf(&b, "  booking %d stop %d: %s at %s\n",
			s.BookingID, s.StopOrder, s.WineryName, s.ArrivalTime)
	}

	b.WriteString("\nProposal threads with unread client notes:\n")
	if len(r.UnreadNoteThreads) == 0 {
		b.WriteString("  none\n")
	}
	for _, t := range r.UnreadNoteThreads {
		fmt.Fprintf(&b, "  proposal %d: %d unread\n", t.TripProposalID, t.UnreadNotes)
	}
	return b.String()
}

func renderHTML(r *Report) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<h2>Operations digest</h2><p>%s</p>", r.GeneratedAt.Format(time.RFC1123))
	fmt.Fprintf(&b, "<p><strong>Pending reservations:</strong> %d</p>", r.PendingCount)

	b.WriteString("<h3>Consultations due within 24h</h3><ul>")
	for _, res := range r.NearingDeadline {
		// customer-supplied fields must not reach the markup raw
		fmt.Fprintf(&b, "<li>%s: %s (%s), party of %d</li>",
			html.EscapeString(res.ReservationNumber), html.EscapeString(res.CustomerName),
			html.EscapeString(res.CustomerEmail), res.PartySize)
	}
	b.WriteString("</ul><h3>Unconfirmed winery stops</h3><ul>")
	for _, s := range r.UnconfirmedStops {
		fmt.Fprintf(&b, "<li>booking %d stop %d: %s at %s</li>",
			s.BookingID, s.StopOrder, html.EscapeString(s.WineryName), html.EscapeString(s.ArrivalTime))
	}
	b.WriteString("</ul><h3>Unread client notes</h3><ul>")
	for _, t := range r.UnreadNoteThreads {
		fmt.Fprintf(&b, "<li>proposal %d: %d unread</li>", t.TripProposalID, t.UnreadNotes)
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}
