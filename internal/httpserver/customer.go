package httpserver

import (
	"net/http"

	customersvc "winetour-backend/internal/service/customer"

	"github.com/gin-gonic/gin"
)

func createCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		cust, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"customer": cust})
	}
}

func getCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		cust, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": cust})
	}
}

// lookupCustomer resolves by email; a miss is a null customer, not a 404.
func lookupCustomer(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cust, err := svc.GetByEmail(c.Request.Context(), c.Query("email"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customer": cust})
	}
}

func listCustomers(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, total, err := svc.List(c.Request.Context(), customersvc.ListInput{
			VIPOnly:     queryBool(c, "vip"),
			MinBookings: queryInt(c, "minBookings", 0),
			Search:      c.Query("search"),
			Limit:       queryInt(c, "limit", 0),
			Offset:      queryInt(c, "offset", 0),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers, "total": total})
	}
}

func recordBookingStats(svc *customersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in customersvc.StatsInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		if err := svc.RecordBookingStats(c.Request.Context(), id, in); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
