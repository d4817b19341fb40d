package checkout

import (
	"fmt"
	"net/http"

	"tutoring-app/config"
	"tutoring-app/database"
	"tutoring-app/internal/domain/billing"
	"tutoring-app/internal/domain/courses"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// CreateCheckoutSession opens a Stripe session for a cart of courses and
// records the attempt as a "pending" payment keyed by the session id. The
// payment intent does not exist yet at this point; the webhook re-keys the
// row once it does. One pending row per call, paid or not, so abandoned
// checkouts stay visible in the admin ledger.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		CourseIDs    []uint `json:"course_ids" binding:"required"`
		StudentName  string `json:"student_name" binding:"required"`
		StudentPhone string `json:"student_phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.CourseIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid cart"})
		return
	}

	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	var cart []courses.Course
	if err := database.DB.
		Where("id IN ? AND active = ?", body.CourseIDs, true).
		Find(&cart).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}
	if len(cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid courses in cart"})
		return
	}

	lineItems, totalGBP := buildLineItems(cart)

	validIDs := make([]uint, 0, len(cart))
	for _, course := range cart {
		validIDs = append(validIDs, course.ID)
	}

	// user_id is 0 for guests; guests still pay, they just never get
	// enrollments created for them
	userID := c.GetUint("user_id")

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/order-confirmation?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(config.APP_URL + "/courses?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
	}

	params.AddMetadata(billing.MetaType, billing.PurchaseTypeCourse)
	params.AddMetadata(billing.MetaCourseIDs, billing.JoinCourseIDList(validIDs))
	params.AddMetadata(billing.MetaStudentName, body.StudentName)
	params.AddMetadata(billing.MetaStudentPhone, body.StudentPhone)
	params.AddMetadata(billing.MetaOrderRef, uuid.NewString())
	if userID != 0 {
		params.AddMetadata(billing.MetaUserID, fmt.Sprint(userID))
		params.ClientReferenceID = stripe.String(fmt.Sprint(userID))
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	payment := billing.PendingPayment{
		Reference:   s.ID,
		AmountGBP:   totalGBP,
		Description: purchaseDescription(cart),
		Status:      billing.PaymentStatusPending,
		PayerName:   body.StudentName,
		PayerPhone:  body.StudentPhone,
	}
	if userID != 0 {
		payment.UserID = &userID
	}

	if err := database.DB.Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment attempt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

// GetPaymentHistory lists the calling user's own payment records.
func GetPaymentHistory(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var payments []billing.PendingPayment
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payments"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
