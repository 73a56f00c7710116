package handlers

import (
	"fmt"
	"net/http"

	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// CompareProposals returns the scored comparison and AI recommendation
// @Summary Compare proposals
// @Description Compare all proposals for an RFP and generate an AI recommendation
// @Tags Comparison
// @Produce json
// @Param rfpId path string true "RFP ID"
// @Success 200 {object} models.ComparisonResult
// @Failure 404 {object} models.ErrorResponse
// @Router /api/comparison/{rfpId} [get]
func CompareProposals(comparisonService *services.ComparisonService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := comparisonService.CompareAndRecommend(c.Request.Context(), c.Param("rfpId"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// ExportComparisonXLSX exports the comparison as a spreadsheet
// @Summary Export comparison spreadsheet
// @Description Download the scored proposal comparison as an XLSX file
// @Tags Comparison
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param rfpId path string true "RFP ID"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Router /api/comparison/{rfpId}/export [get]
func ExportComparisonXLSX(comparisonService *services.ComparisonService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := comparisonService.CompareAndRecommend(c.Request.Context(), c.Param("rfpId"))
		if err != nil {
			respondServiceError(c, err)
			return
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Comparison"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Vendor", "Email", "Total Price", "Currency", "Lead Time",
			"Price Score", "Delivery Score", "Compliance Score", "Support Score", "Overall"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, entry := range result.Proposals {
			values := []interface{}{
				entry.Vendor.Name,
				entry.Vendor.Email,
				entry.Proposal.ParsedData.Pricing.TotalPrice,
				entry.Proposal.ParsedData.Pricing.Currency,
				entry.Proposal.ParsedData.DeliveryDetails.LeadTime,
				entry.Scores.PriceScore,
				entry.Scores.DeliveryScore,
				entry.Scores.ComplianceScore,
				entry.Scores.SupportScore,
				entry.Scores.Overall,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		summaryRow := len(result.Proposals) + 3
		cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
		f.SetCellValue(sheet, cell, "Recommended Vendor")
		cell, _ = excelize.CoordinatesToCellName(2, summaryRow)
		f.SetCellValue(sheet, cell, result.Recommendation.RecommendedVendor)
		cell, _ = excelize.CoordinatesToCellName(1, summaryRow+1)
		f.SetCellValue(sheet, cell, "Decision")
		cell, _ = excelize.CoordinatesToCellName(2, summaryRow+1)
		f.SetCellValue(sheet, cell, result.Recommendation.Decision)

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=comparison-%s.xlsx", result.RFPID))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write spreadsheet", "details": err.Error()})
		}
	}
}
