package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/services/scheduling"
)

// AppointmentHandler exposes the scheduling service over HTTP.
type AppointmentHandler struct {
	Svc scheduling.AppointmentService
}

// NewAppointmentHandler constructs an AppointmentHandler.
func NewAppointmentHandler(svc scheduling.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc}
}

// GetAvailabilityHandler handles GET /availability?doctorId&date&type.
func (h *AppointmentHandler) GetAvailabilityHandler(c *gin.Context) {
	doctorID := c.Query("doctorId")
	date := c.Query("date")
	consultationType := c.Query("type")

	if doctorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId is required"})
		return
	}

	availability, err := h.Svc.GetAvailability(c.Request.Context(), doctorID, date, consultationType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// BookSlotHandler handles POST /book-slot.
func (h *AppointmentHandler) BookSlotHandler(c *gin.Context) {
	var input struct {
		PatientID string `json:"patientId" binding:"required"`
		DoctorID  string `json:"doctorId" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Time      string `json:"time" binding:"required"`
		Type      string `json:"type" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Svc.BookSlot(c.Request.Context(), scheduling.BookSlotRequest{
		PatientID: input.PatientID,
		DoctorID:  input.DoctorID,
		Date:      input.Date,
		Time:      input.Time,
		Type:      input.Type,
		Notes:     input.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// CancelAppointmentHandler handles POST /:id/cancel.
func (h *AppointmentHandler) CancelAppointmentHandler(c *gin.Context) {
	var input struct {
		RequesterID string `json:"requesterId" binding:"required"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Svc.CancelAppointment(c.Request.Context(), c.Param("id"), input.RequesterID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// RescheduleAppointmentHandler handles POST /:id/reschedule.
func (h *AppointmentHandler) RescheduleAppointmentHandler(c *gin.Context) {
	var input struct {
		RequesterID string `json:"requesterId" binding:"required"`
		NewDate     string `json:"newDate" binding:"required"`
		NewTime     string `json:"newTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Svc.RescheduleAppointment(c.Request.Context(), c.Param("id"), input.RequesterID, input.NewDate, input.NewTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CompleteAppointmentHandler handles POST /:id/complete.
func (h *AppointmentHandler) CompleteAppointmentHandler(c *gin.Context) {
	var input struct {
		RequesterID string `json:"requesterId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	appt, err := h.Svc.CompleteAppointment(c.Request.Context(), c.Param("id"), input.RequesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// GetAppointmentHandler handles GET /:id?requesterId=.
func (h *AppointmentHandler) GetAppointmentHandler(c *gin.Context) {
	requesterID := c.Query("requesterId")
	if requesterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requesterId is required"})
		return
	}

	appt, err := h.Svc.GetAppointment(c.Request.Context(), c.Param("id"), requesterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ListPatientAppointmentsHandler handles GET /patient/:id.
func (h *AppointmentHandler) ListPatientAppointmentsHandler(c *gin.Context) {
	appts, err := h.Svc.ListPatientAppointments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// ListDoctorUpcomingHandler handles GET /doctor/:id/upcoming.
func (h *AppointmentHandler) ListDoctorUpcomingHandler(c *gin.Context) {
	appts, err := h.Svc.ListDoctorUpcoming(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}
