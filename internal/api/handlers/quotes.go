package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/internal/domain"
	"github.com/facilpersianas/blindquote/internal/order"
)

// Pricer re-prices line items
type Pricer interface {
	UpdatePrices(ctx context.Context, items []domain.LineItem) ([]domain.LineItem, error)
}

// DraftSubmitter sends order drafts to the order system
type DraftSubmitter interface {
	Submit(ctx context.Context, payload order.CartSubmissionPayload) (*order.DraftResponse, error)
}

// SelectFamilyRequest applies a family to a line item
type SelectFamilyRequest struct {
	Item  domain.LineItem `json:"item"`
	Title string          `json:"title" binding:"required"`
}

// PriceRequest is the body of POST /v1/quotes/price
type PriceRequest struct {
	Items []domain.LineItem `json:"items" binding:"required"`
}

// HandleNewItem handles POST /v1/quotes/items
func HandleNewItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusCreated, domain.NewLineItem())
	}
}

// HandleSelectFamily handles POST /v1/quotes/items/select-family
func HandleSelectFamily(catalog FamilyCatalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectFamilyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		family, err := catalog.Family(c.Request.Context(), req.Title)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		item := req.Item
		if item.ID == "" {
			item = domain.NewLineItem()
		}
		c.JSON(http.StatusOK, item.WithFamily(family))
	}
}

// HandlePriceQuote handles POST /v1/quotes/price
func HandlePriceQuote(pricer Pricer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PriceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		items, err := pricer.UpdatePrices(c.Request.Context(), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// HandleSubmitQuote handles POST /v1/quotes/submit
func HandleSubmitQuote(submitter DraftSubmitter, sellers []domain.Seller, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.DraftInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		payload, err := order.BuildDraft(req, sellers)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		draft, err := submitter.Submit(c.Request.Context(), payload)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"draft":   draft,
			"payload": payload,
		})
	}
}

// HandleListSellers handles GET /v1/quotes/sellers
func HandleListSellers(sellers []domain.Seller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": sellers})
	}
}
