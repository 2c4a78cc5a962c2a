package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"go-pos/internal/license"
	"go-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LicenseRequest struct {
	LicenseKey string `json:"license_key" binding:"required"`
}

func (h *Handler) deviceID() string {
	if h.DeviceID != nil {
		return h.DeviceID()
	}
	return license.DeviceID()
}

// GetSystemStatus feeds the lockdown screen the device ID and the current
// license state.
func (h *Handler) GetSystemStatus(c *gin.Context) {
	resp := gin.H{"device_id": h.deviceID(), "active": false}

	var current models.SystemLicense
	err := h.DB.WithContext(c.Request.Context()).First(&current).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read license"})
		return
	default:
		resp["active"] = current.IsActive && time.Now().Before(current.ExpirationDate)
		resp["expires"] = current.ExpirationDate
	}
	c.JSON(http.StatusOK, resp)
}

// ActivateLicense checks the key against every stage for this device.
func (h *Handler) ActivateLicense(c *gin.Context) {
	var req LicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	stage, ok := license.Verify(req.LicenseKey, h.deviceID(), h.LicenseSalt)
	if !ok || h.LicenseSalt == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid key for this device"})
		return
	}
	if time.Now().After(stage.Expires) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "This key has already expired"})
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var current models.SystemLicense
	if err := db.First(&current).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read license"})
		return
	}
	current.LicenseKey = req.LicenseKey
	current.ExpirationDate = stage.Expires
	current.IsActive = true

	// Save inserts when the id is zero
	if err := db.Save(&current).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store license"})
		return
	}
	log.Printf("🔑 License activated: stage %s until %s", stage.Name, stage.Expires.Format(dateLayout))

	c.JSON(http.StatusOK, gin.H{
		"message": "System Reactivated! Stage: " + stage.Name,
		"expires": current.ExpirationDate,
	})
}
