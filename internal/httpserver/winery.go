package httpserver

import (
	"net/http"

	wineryrepo "winetour-backend/internal/repository/winery"

	"github.com/gin-gonic/gin"
)

func listWineries(repo wineryrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		wineries, err := repo.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"wineries": wineries})
	}
}
