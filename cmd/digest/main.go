// Command digest builds the daily operations report and emails it to the
// configured recipients. It runs once and exits; scheduling is left to cron.
package main

import (
	"context"
	"os"
	"time"

	"winetour-backend/internal/config"
	"winetour-backend/internal/db"
	"winetour-backend/internal/logger"
	"winetour-backend/internal/mail"
	digestrepo "winetour-backend/internal/repository/digest"
	digestsvc "winetour-backend/internal/service/digest"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalw("connect db", "err", err)
	}
	defer pool.Close()

	sender := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	svc := digestsvc.New(digestrepo.NewPostgres(pool, log), sender, cfg.DigestRecipients, log, nil)

	report, err := svc.Run(ctx)
	if err != nil {
		log.Fatalw("digest run", "err", err)
	}
	log.Infow("digest complete",
		"pending", report.PendingCount,
		"deadlines", len(report.NearingDeadline),
		"unconfirmed_stops", len(report.UnconfirmedStops),
	)
}
