package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/dimension"
	"github.com/facilpersianas/blindquote/internal/domain"
)

// FamilyCatalog serves the cached family list
type FamilyCatalog interface {
	Families(ctx context.Context) ([]domain.ProductFamily, error)
	Family(ctx context.Context, title string) (domain.ProductFamily, error)
	Invalidate()
	Refresh(ctx context.Context) (int, error)
}

// HandleListFamilies handles GET /v1/catalog/families
func HandleListFamilies(catalog FamilyCatalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		families, err := catalog.Families(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data": families,
			"meta": gin.H{"count": len(families)},
		})
	}
}

// HandleFamilyOptions handles GET /v1/catalog/families/options?title=
func HandleFamilyOptions(catalog FamilyCatalog, labels domain.CordSideLabels, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.Query("title")
		if title == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": "title is required"})
			return
		}
		family, err := catalog.Family(c.Request.Context(), title)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"family":  family,
			"options": dimension.ForFamily(family, labels),
		})
	}
}

// HandleRefreshCatalog handles POST /v1/catalog/refresh
func HandleRefreshCatalog(catalog FamilyCatalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog.Invalidate()
		n, err := catalog.Refresh(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		logger.Info("Catalog refreshed on request", zap.Int("families", n))
		c.JSON(http.StatusOK, gin.H{"families": n})
	}
}
