package handlers

import (
	"fmt"
	"net/http"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// GetProposalsByRFP lists proposals for an RFP
// @Summary List proposals for an RFP
// @Description Get all proposals received for an RFP with vendor details
// @Tags Proposals
// @Produce json
// @Param rfpId path string true "RFP ID"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /api/proposals/by-rfp/{rfpId} [get]
func GetProposalsByRFP(proposalService *services.ProposalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposals, err := proposalService.ListByRFP(c.Request.Context(), c.Param("rfpId"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if proposals == nil {
			proposals = []models.ProposalView{}
		}
		c.JSON(http.StatusOK, gin.H{"proposals": proposals})
	}
}

// PollEmails triggers an on-demand inbox poll
// @Summary Poll inbox for vendor replies
// @Description Fetch unseen vendor reply emails and convert them to proposals
// @Tags Proposals
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} models.ErrorResponse
// @Router /api/proposals/poll-emails [post]
func PollEmails(inboxService *services.InboxService) gin.HandlerFunc {
	return func(c *gin.Context) {
		proposals, err := inboxService.Poll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Email poll failed", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"message":      fmt.Sprintf("Created %d new proposals!", len(proposals)),
			"newProposals": len(proposals),
			"proposals":    proposals,
		})
	}
}
