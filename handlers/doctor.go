package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	doctorRepo "medibook/database/repository/doctor"
	"medibook/models"
	"medibook/utils"
)

// DoctorHandler serves the read-only doctor views used by the booking flow.
type DoctorHandler struct {
	Repo doctorRepo.DoctorRepository
}

// NewDoctorHandler constructs a DoctorHandler.
func NewDoctorHandler(repo doctorRepo.DoctorRepository) *DoctorHandler {
	return &DoctorHandler{Repo: repo}
}

// SearchDoctorsHandler handles GET /search with optional specialization,
// minFee, maxFee and verified filters.
func (h *DoctorHandler) SearchDoctorsHandler(c *gin.Context) {
	filter := models.DoctorSearchFilter{
		Specialization: c.Query("specialization"),
	}
	if v := c.Query("minFee"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinFee = f
		}
	}
	if v := c.Query("maxFee"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxFee = f
		}
	}
	switch c.Query("verified") {
	case "true":
		t := true
		filter.Verified = &t
	case "false":
		f := false
		filter.Verified = &f
	}

	doctors, err := h.Repo.Search(c.Request.Context(), filter)
	if err != nil {
		utils.GetLogger().Error("doctor search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search doctors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"doctors": doctors})
}

// GetDoctorHandler handles GET /doctor/:id.
func (h *DoctorHandler) GetDoctorHandler(c *gin.Context) {
	id := c.Param("id")

	doctor, err := h.Repo.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.GetLogger().Error("doctor lookup failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch doctor"})
		return
	}
	if doctor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
		return
	}
	c.JSON(http.StatusOK, doctor)
}
