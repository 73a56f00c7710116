package handlers

import (
	"net/http"

	"backend/models"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// CreateVendor registers a new vendor
// @Summary Create vendor
// @Description Register a vendor in the directory
// @Tags Vendors
// @Accept json
// @Produce json
// @Param request body models.Vendor true "Vendor details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/vendors [post]
func CreateVendor(vendorService *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vendor models.Vendor
		if err := c.ShouldBindJSON(&vendor); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		if err := vendorService.Create(c.Request.Context(), &vendor); err != nil {
			respondServiceError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"vendor": vendor})
	}
}

// GetVendors lists all vendors
// @Summary List vendors
// @Description Get all registered vendors
// @Tags Vendors
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /api/vendors [get]
func GetVendors(vendorService *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendors, err := vendorService.List(c.Request.Context())
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if vendors == nil {
			vendors = []models.Vendor{}
		}
		c.JSON(http.StatusOK, gin.H{"vendors": vendors})
	}
}

// GetVendorByID returns one vendor
// @Summary Get vendor
// @Description Get a single vendor by id
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendors/{id} [get]
func GetVendorByID(vendorService *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, err := vendorService.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vendor": vendor})
	}
}

// UpdateVendor updates a vendor
// @Summary Update vendor
// @Description Update vendor details
// @Tags Vendors
// @Accept json
// @Produce json
// @Param id path string true "Vendor ID"
// @Param request body models.Vendor true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendors/{id} [put]
func UpdateVendor(vendorService *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates models.Vendor
		if err := c.ShouldBindJSON(&updates); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		vendor, err := vendorService.Update(c.Request.Context(), c.Param("id"), &updates)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vendor": vendor})
	}
}

// DeleteVendor removes a vendor
// @Summary Delete vendor
// @Description Remove a vendor from the directory
// @Tags Vendors
// @Produce json
// @Param id path string true "Vendor ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /api/vendors/{id} [delete]
func DeleteVendor(vendorService *services.VendorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := vendorService.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
	}
}
