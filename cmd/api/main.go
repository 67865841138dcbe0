package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"winetour-backend/internal/config"
	"winetour-backend/internal/db"
	"winetour-backend/internal/httpserver"
	"winetour-backend/internal/logger"
	"winetour-backend/internal/metrics"
	customerrepo "winetour-backend/internal/repository/customer"
	itineraryrepo "winetour-backend/internal/repository/itinerary"
	noterepo "winetour-backend/internal/repository/note"
	reservationrepo "winetour-backend/internal/repository/reservation"
	wineryrepo "winetour-backend/internal/repository/winery"
	customersvc "winetour-backend/internal/service/customer"
	itinerarysvc "winetour-backend/internal/service/itinerary"
	notesvc "winetour-backend/internal/service/note"
	reservationsvc "winetour-backend/internal/service/reservation"
)

func main() {
	cfg := config.FromEnv()

	log, err := logger.New()
	if err != nil {
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalw("connect to db", "err", err)
	}
	defer dbpool.Close()

	m := metrics.New("winetour")

	customerRepo := customerrepo.NewPostgres(dbpool, log)
	reservationRepo := reservationrepo.NewPostgres(dbpool, log)
	itineraryRepo := itineraryrepo.NewPostgres(dbpool, log)
	noteRepo := noterepo.NewPostgres(dbpool, log)
	wineryRepo := wineryrepo.NewPostgres(dbpool, log)

	customerService := customersvc.New(customerRepo, log, m)
	reservationService := reservationsvc.New(dbpool, customerRepo, reservationRepo, log, m)
	itineraryService := itinerarysvc.New(itineraryRepo, log)
	noteService := notesvc.New(noteRepo, log)

	srv := httpserver.New(cfg.HTTPAddr, log, dbpool, httpserver.Deps{
		CustomerSvc:    customerService,
		ReservationSvc: reservationService,
		ItinerarySvc:   itineraryService,
		NoteSvc:        noteService,
		WineryRepo:     wineryRepo,
	})

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Infow("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		log.Errorw("server error", "err", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("graceful shutdown failed", "err", err)
	} else {
		log.Infow("server stopped")
	}
}
