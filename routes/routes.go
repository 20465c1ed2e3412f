package routes

import (
	"time"

	"voyago/handlers"
	"voyago/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSearchRoutes registers the provider search endpoints.
func RegisterSearchRoutes(r *gin.Engine) {
	api := r.Group("/api/search")
	{
		api.POST("/:provider", handlers.SearchProvider)
		api.GET("/:provider/offers/:offerID", handlers.GetOfferDetails)
	}
}

// RegisterBookingRoutes registers the checkout and post-payment endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.POST("/intent", handlers.CreateBookingIntent)
		api.POST("/confirm-payment", handlers.ConfirmPayment)
		api.GET("/:orderNumber", handlers.GetBooking)
	}
}

// RegisterOpsRoutes registers the operations endpoints.
func RegisterOpsRoutes(r *gin.Engine) {
	ops := r.Group("/ops")
	{
		ops.Use(middleware.JWTAuthAdminMiddleware())
		ops.GET("/bookings/failed", handlers.ListFailedBookings)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthCheck)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSearchRoutes(r)
	RegisterBookingRoutes(r)
	RegisterOpsRoutes(r)
	RegisterHealthRoute(r)
}
