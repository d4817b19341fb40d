package routes

import (
	adminapi "tutoring-app/internal/api/admin"
	authapi "tutoring-app/internal/api/auth"
	checkoutapi "tutoring-app/internal/api/checkout"
	coursesapi "tutoring-app/internal/api/courses"
	enrollmentsapi "tutoring-app/internal/api/enrollments"
	stripewebhooks "tutoring-app/internal/api/stripewebhook"
	"tutoring-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Webhook gets the raw body; keep it outside the sanitizer.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/courses", coursesapi.ListCourses)
	r.GET("/order/:sessionID", checkoutapi.GetOrderDetails)

	// ✅ Apply input sanitization to public routes only
	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	// Guests can buy; a bearer token just ties the purchase to the account.
	public.POST("/checkout", middleware.OptionalAuth(), checkoutapi.CreateCheckoutSession)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/payments", checkoutapi.GetPaymentHistory)
	auth.GET("/enrollments", enrollmentsapi.ListMyEnrollments)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/transactions", adminapi.ListTransactions)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/payouts", adminapi.ListPayouts)
	admin.POST("/payouts", adminapi.CreatePayout)
	admin.POST("/courses", coursesapi.CreateCourse)
	admin.PUT("/courses/:id", coursesapi.UpdateCourse)
}
