package httpserver

import (
	"net/http"

	itinerarysvc "winetour-backend/internal/service/itinerary"

	"github.com/gin-gonic/gin"
)

func createItinerary(svc *itinerarysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathID(c, "bookingID")
		if !ok {
			return
		}
		var in itinerarysvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		it, err := svc.Create(c.Request.Context(), bookingID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"itinerary": it})
	}
}

func getItinerary(svc *itinerarysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathID(c, "bookingID")
		if !ok {
			return
		}
		it, err := svc.GetByBookingID(c.Request.Context(), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"itinerary": it})
	}
}

func updateItinerary(svc *itinerarysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathID(c, "bookingID")
		if !ok {
			return
		}
		var in itinerarysvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		it, err := svc.UpdateByBookingID(c.Request.Context(), bookingID, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"itinerary": it})
	}
}

func deleteItinerary(svc *itinerarysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathID(c, "bookingID")
		if !ok {
			return
		}
		if err := svc.DeleteByBookingID(c.Request.Context(), bookingID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func setItineraryStops(svc *itinerarysvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID, ok := pathID(c, "bookingID")
		if !ok {
			return
		}
		var in struct {
			Stops []itinerarysvc.StopInput `json:"stops"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		it, err := svc.SetStops(c.Request.Context(), bookingID, in.Stops)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"itinerary": it})
	}
}
