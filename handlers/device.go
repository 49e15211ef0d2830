package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	deviceRepo "medibook/database/repository/device"
	"medibook/utils"
)

// DeviceHandler registers FCM tokens for reminder delivery.
type DeviceHandler struct {
	Repo deviceRepo.DeviceTokenRepository
}

// NewDeviceHandler constructs a DeviceHandler.
func NewDeviceHandler(repo deviceRepo.DeviceTokenRepository) *DeviceHandler {
	return &DeviceHandler{Repo: repo}
}

// RegisterDeviceTokenHandler handles POST /devices.
func (h *DeviceHandler) RegisterDeviceTokenHandler(c *gin.Context) {
	var input struct {
		UserID   string `json:"userId" binding:"required"`
		FCMToken string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Repo.SaveToken(c.Request.Context(), input.UserID, input.FCMToken); err != nil {
		utils.GetLogger().Error("failed to save device token",
			zap.String("userID", input.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save device token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}
