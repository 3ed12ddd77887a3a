package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"labsched/models"
)

// CatalogHandler serves the static reference data the review UI needs to
// populate lab, course and time-block pickers.
type CatalogHandler struct {
	Catalogs *models.Catalogs
}

func NewCatalogHandler(catalogs *models.Catalogs) *CatalogHandler {
	return &CatalogHandler{Catalogs: catalogs}
}

func (h *CatalogHandler) GetCatalogsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"labs":       h.Catalogs.Labs,
		"courses":    h.Catalogs.Courses,
		"timeBlocks": h.Catalogs.TimeBlocks,
	})
}

// GetLabsByTypeHandler filters labs by type so the UI can pre-filter choice
// lists from a candidate's labType.
func (h *CatalogHandler) GetLabsByTypeHandler(c *gin.Context) {
	labType := c.Param("labType")
	var labs []models.Lab
	for _, lab := range h.Catalogs.Labs {
		if lab.LabType == labType {
			labs = append(labs, lab)
		}
	}
	c.JSON(http.StatusOK, gin.H{"labs": labs})
}
