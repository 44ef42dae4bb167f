package portfolio

import (
	"portfolio-api/internal/media"
	"portfolio-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, portfolioService PortfolioServiceAPI, mediaService media.MediaServiceAPI) {
	portfolioController := &PortfolioController{
		PortfolioService: portfolioService,
		MediaService:     mediaService,
	}

	// public marketing-site query
	r.GET("/api/portfolio/public", portfolioController.ListPublished)

	adminGroup := r.Group("/api/portfolio")
	adminGroup.Use(middlewares.AuthMiddleware())
	{
		adminGroup.GET("", portfolioController.ListPortfolios)
		adminGroup.GET("/:id", portfolioController.GetPortfolio)
		adminGroup.POST("", portfolioController.CreatePortfolio)
		adminGroup.PUT("/:id", portfolioController.UpdatePortfolio)
		adminGroup.DELETE("/:id", portfolioController.DeletePortfolio)
		adminGroup.POST("/:id/media/:collection", portfolioController.UploadMedia)
		adminGroup.DELETE("/:id/media/:collection", portfolioController.ClearMedia)
	}
}
