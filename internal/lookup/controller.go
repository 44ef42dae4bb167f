package lookup

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type LookupController struct {
	Registry TypeRegistryAPI
}

func (lc *LookupController) GetPortfolioTypes(c *gin.Context) {
	types := lc.Registry.GetAll()

	c.JSON(http.StatusOK, gin.H{
		"message": "Portfolio types fetched successfully",
		"types":   types,
	})
}
