package httpserver

import (
	"time"

	wineryrepo "winetour-backend/internal/repository/winery"
	customersvc "winetour-backend/internal/service/customer"
	itinerarysvc "winetour-backend/internal/service/itinerary"
	notesvc "winetour-backend/internal/service/note"
	reservationsvc "winetour-backend/internal/service/reservation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps carries the constructed services the router exposes.
type Deps struct {
	CustomerSvc    *customersvc.Service
	ReservationSvc *reservationsvc.Service
	ItinerarySvc   *itinerarysvc.Service
	NoteSvc        *notesvc.Service
	WineryRepo     wineryrepo.Repository
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.SugaredLogger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestID(), requestLogger(logger), gin.Recovery(), cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	customers := api.Group("/customers")
	customers.POST("", createCustomer(deps.CustomerSvc))
	customers.GET("", listCustomers(deps.CustomerSvc))
	customers.GET("/lookup", lookupCustomer(deps.CustomerSvc))
	customers.GET("/:id", getCustomer(deps.CustomerSvc))
	customers.POST("/:id/booking-stats", recordBookingStats(deps.CustomerSvc))

	reservations := api.Group("/reservations")
	reservations.POST("", createReservation(deps.ReservationSvc))
	reservations.GET("", listReservations(deps.ReservationSvc))
	reservations.GET("/:id", getReservation(deps.ReservationSvc))
	reservations.PATCH("/:id/status", updateReservationStatus(deps.ReservationSvc))

	itinerary := api.Group("/bookings/:bookingID/itinerary")
	itinerary.POST("", createItinerary(deps.ItinerarySvc))
	itinerary.GET("", getItinerary(deps.ItinerarySvc))
	itinerary.PATCH("", updateItinerary(deps.ItinerarySvc))
	itinerary.DELETE("", deleteItinerary(deps.ItinerarySvc))
	itinerary.PUT("/stops", setItineraryStops(deps.ItinerarySvc))

	proposals := api.Group("/proposals/:proposalID/notes")
	proposals.POST("", createNote(deps.NoteSvc))
	proposals.GET("", listNotes(deps.NoteSvc))
	proposals.GET("/unread-count", unreadNoteCount(deps.NoteSvc))
	proposals.POST("/mark-read", markNotesRead(deps.NoteSvc))

	api.POST("/notes/:noteID/read", markNoteRead(deps.NoteSvc))

	api.GET("/wineries", listWineries(deps.WineryRepo))

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		)
	}
}
