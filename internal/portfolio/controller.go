package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio-api/internal/media"
	"portfolio-api/internal/util"
)

type PortfolioController struct {
	PortfolioService PortfolioServiceAPI
	MediaService     media.MediaServiceAPI
}

// PortfolioView is the read-boundary shape: stored titles are lower-cased,
// responses carry them title-cased, plus resolved image URLs.
type PortfolioView struct {
	Portfolio
	DisplayTitle string        `json:"display_title"`
	BeforeImage  *string       `json:"before_image,omitempty"`
	AfterImage   *string       `json:"after_image,omitempty"`
	Images       []string      `json:"images,omitempty"`
}

func (pc *PortfolioController) buildView(p Portfolio) PortfolioView {
	view := PortfolioView{
		Portfolio:    p,
		DisplayTitle: DisplayTitle(p.Title),
	}

	if m, err := pc.MediaService.FirstMedia(p.ID, media.CollectionBefore); err == nil && m != nil {
		u := pc.MediaService.URL(m)
		view.BeforeImage = &u
	}
	if m, err := pc.MediaService.FirstMedia(p.ID, media.CollectionAfter); err == nil && m != nil {
		u := pc.MediaService.URL(m)
		view.AfterImage = &u
	}
	if p.DisplayMode == DisplayImages {
		if rows, err := pc.MediaService.ListMedia(p.ID, media.CollectionGallery); err == nil {
			for i := range rows {
				view.Images = append(view.Images, pc.MediaService.URL(&rows[i]))
			}
		}
	}

	return view
}

func (pc *PortfolioController) buildViews(rows []Portfolio) []PortfolioView {
	views := make([]PortfolioView, 0, len(rows))
	for _, p := range rows {
		views = append(views, pc.buildView(p))
	}
	return views
}

func (pc *PortfolioController) ListPortfolios(c *gin.Context) {
	rows, err := pc.PortfolioService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pc.buildViews(rows)})
}

// GET /api/portfolio/public?types=residential,commercial
func (pc *PortfolioController) ListPublished(c *gin.Context) {
	types := util.ParseCommaSeparatedValues(c.QueryArray("types"))

	rows, err := pc.PortfolioService.ListPublished(types)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pc.buildViews(rows)})
}

func (pc *PortfolioController) GetPortfolio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return
	}

	p, err := pc.PortfolioService.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pc.buildView(*p)})
}

func (pc *PortfolioController) CreatePortfolio(c *gin.Context) {
	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := pc.PortfolioService.Create(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Portfolio created successfully",
		"data":    pc.buildView(*p),
	})
}

func (pc *PortfolioController) UpdatePortfolio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return
	}

	var input PortfolioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := pc.PortfolioService.Update(id, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Portfolio updated successfully",
		"data":    pc.buildView(*p),
	})
}

func (pc *PortfolioController) DeletePortfolio(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return
	}

	if err := pc.PortfolioService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted successfully"})
}

func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
