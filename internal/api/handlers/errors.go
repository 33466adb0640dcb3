package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facilpersianas/blindquote/pkg/errors"
)

// respondError maps typed errors to status codes
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		ve *errors.ErrValidation
		te *errors.ErrTransport
		nf *errors.ErrNotFound
	)
	switch {
	case stderrors.As(err, &ve):
		body := gin.H{"error": "validation failed", "details": ve.Error()}
		if len(ve.Fields) > 0 {
			body["fields"] = ve.Fields
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	case stderrors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case stderrors.As(err, &te):
		logger.Warn("Upstream failure", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable", "details": te.Error()})
	default:
		logger.Error("Request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
