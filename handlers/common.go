package handlers

import (
	"errors"
	"net/http"

	"backend/repository"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps service-layer errors onto HTTP statuses: missing
// records are 404, upstream model failures are 502, everything else is 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
	case errors.Is(err, services.ErrNoProposals):
		c.JSON(http.StatusNotFound, gin.H{"error": "No proposals found for this RFP"})
	case errors.Is(err, services.ErrInvalidVendor):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor", "details": err.Error()})
	case errors.Is(err, services.ErrLLMParse), errors.Is(err, services.ErrLLMSchema):
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI processing failed", "details": err.Error()})
	case errors.Is(err, services.ErrInvalidScoringInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Proposal cannot be scored", "details": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "details": err.Error()})
	}
}
