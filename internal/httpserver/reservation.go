package httpserver

import (
	"net/http"

	reservationsvc "winetour-backend/internal/service/reservation"

	"github.com/gin-gonic/gin"
)

func createReservation(svc *reservationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in reservationsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		res, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"reservation": res})
	}
}

func getReservation(svc *reservationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		res, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservation": res})
	}
}

func listReservations(svc *reservationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservations, total, err := svc.List(c.Request.Context(), reservationsvc.ListInput{
			Status:          c.Query("status"),
			CustomerID:      queryInt64Ptr(c, "customerId"),
			BrandID:         queryInt64Ptr(c, "brandId"),
			IncludeCustomer: queryBool(c, "includeCustomer"),
			Limit:           queryInt(c, "limit", 0),
			Offset:          queryInt(c, "offset", 0),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": reservations, "total": total})
	}
}

func updateReservationStatus(svc *reservationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var in struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		res, err := svc.UpdateStatus(c.Request.Context(), id, in.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservation": res})
	}
}
