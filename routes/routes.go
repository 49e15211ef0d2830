package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medibook/handlers"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Appointments *handlers.AppointmentHandler
	Doctors      *handlers.DoctorHandler
	Devices      *handlers.DeviceHandler
}

// RegisterRoutes mounts every endpoint on the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.HealthHandler)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	RegisterAppointmentRoutes(r, hb)
	RegisterDeviceRoutes(r, hb)
}

// RegisterAppointmentRoutes registers the booking-flow endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		// Doctor discovery for the booking flow.
		api.GET("/search", hb.Doctors.SearchDoctorsHandler)
		api.GET("/doctor/:id", hb.Doctors.GetDoctorHandler)

		// Availability for a doctor on a date, optionally one modality.
		api.GET("/availability", hb.Appointments.GetAvailabilityHandler)

		// Atomic "check + book" against the day schedule.
		api.POST("/book-slot", hb.Appointments.BookSlotHandler)

		// Appointment lifecycle.
		api.GET("/:id", hb.Appointments.GetAppointmentHandler)
		api.POST("/:id/cancel", hb.Appointments.CancelAppointmentHandler)
		api.POST("/:id/reschedule", hb.Appointments.RescheduleAppointmentHandler)
		api.POST("/:id/complete", hb.Appointments.CompleteAppointmentHandler)

		// Listings.
		api.GET("/patient/:id", hb.Appointments.ListPatientAppointmentsHandler)
		api.GET("/doctor/:id/upcoming", hb.Appointments.ListDoctorUpcomingHandler)
	}
}

// RegisterDeviceRoutes registers FCM token registration for reminders.
func RegisterDeviceRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/devices")
	{
		api.POST("", hb.Devices.RegisterDeviceTokenHandler)
	}
}
