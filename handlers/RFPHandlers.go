package handlers

import (
	"fmt"
	"net/http"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// CreateRFPRequest is the body for creating an RFP from natural language.
type CreateRFPRequest struct {
	Text string `json:"text" binding:"required"`
}

// SendToVendorsRequest is the body for dispatching an RFP.
type SendToVendorsRequest struct {
	VendorIDs []string `json:"vendorIds" binding:"required,min=1"`
}

// CreateRFPFromText creates an RFP from a natural-language request
// @Summary Create RFP from natural language
// @Description Parse a free-text procurement request into a structured draft RFP
// @Tags RFP
// @Accept json
// @Produce json
// @Param request body CreateRFPRequest true "Procurement request text"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Router /api/rfp/create-from-text [post]
func CreateRFPFromText(rfpService *services.RFPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateRFPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		rfp, err := rfpService.CreateFromText(c.Request.Context(), req.Text)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"rfp":     rfp,
			"message": "RFP created successfully",
		})
	}
}

// GetRFPs lists all RFPs
// @Summary List RFPs
// @Description Get all RFPs, newest first
// @Tags RFP
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /api/rfp [get]
func GetRFPs(rfpService *services.RFPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rfps, err := rfpService.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if rfps == nil {
			rfps = []models.RFP{}
		}
		c.JSON(http.StatusOK, gin.H{"rfps": rfps})
	}
}

// GetRFPByID returns one RFP with vendors and proposals expanded
// @Summary Get RFP
// @Description Get a single RFP with its vendors and proposals
// @Tags RFP
// @Produce json
// @Param id path string true "RFP ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfp/{id} [get]
func GetRFPByID(rfpService *services.RFPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := rfpService.GetDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"rfp": detail})
	}
}

// SendRFPToVendors emails the RFP to the selected vendors
// @Summary Send RFP to vendors
// @Description Email the RFP to each selected vendor and mark the RFP as sent
// @Tags RFP
// @Accept json
// @Produce json
// @Param id path string true "RFP ID"
// @Param request body SendToVendorsRequest true "Vendor IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfp/{id}/send-to-vendors [post]
func SendRFPToVendors(rfpService *services.RFPService, vendorService *services.VendorService, emailService *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendToVendorsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		rfpID := c.Param("id")
		detail, err := rfpService.GetDetail(c.Request.Context(), rfpID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		vendors, err := vendorService.GetByIDs(c.Request.Context(), req.VendorIDs)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if len(vendors) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No matching vendors found"})
			return
		}

		// A failed PDF render degrades to sending without the attachment.
		pdf, err := services.RenderRFPPDF(&detail.RFP)
		if err != nil {
			pdf = nil
		}

		results := emailService.SendRFPToVendors(c.Request.Context(), &detail.RFP, vendors, pdf)

		if _, err := rfpService.MarkSent(c.Request.Context(), rfpID, req.VendorIDs); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "RFP sent to vendors",
			"results": results,
		})
	}
}

// DownloadRFPPDF streams a printable PDF copy of the RFP
// @Summary Download RFP PDF
// @Description Render the RFP as a printable PDF document
// @Tags RFP
// @Produce application/pdf
// @Param id path string true "RFP ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /api/rfp/{id}/pdf [get]
func DownloadRFPPDF(rfpService *services.RFPService) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := rfpService.GetDetail(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		pdf, err := services.RenderRFPPDF(&detail.RFP)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "details": err.Error()})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=rfp-%s.pdf", detail.RFP.ID))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
