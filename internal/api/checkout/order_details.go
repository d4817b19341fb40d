package checkout

import (
	"net/http"

	"tutoring-app/database"
	"tutoring-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// fetchSession is swapped out in tests; production goes to Stripe.
var fetchSession = func(sessionID string) (*stripe.CheckoutSession, error) {
	return checkoutsession.Get(sessionID, nil)
}

// GetOrderDetails is the buyer's order-confirmation lookup. It races the
// webhook: the internal row may not exist yet, or may already have been
// re-keyed from the session id to the payment-intent id. Try both keys, then
// fall back to the gateway session itself.
func GetOrderDetails(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
		return
	}

	var payment billing.PendingPayment
	if err := database.DB.Where("reference = ?", sessionID).First(&payment).Error; err == nil {
		c.JSON(http.StatusOK, paymentSummary(&payment))
		return
	}

	s, err := fetchSession(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if s.PaymentIntent != nil && s.PaymentIntent.ID != "" {
		if err := database.DB.Where("reference = ?", s.PaymentIntent.ID).First(&payment).Error; err == nil {
			c.JSON(http.StatusOK, paymentSummary(&payment))
			return
		}
	}

	// Webhook hasn't landed yet; answer straight from the gateway.
	status := billing.PaymentStatusPending
	if s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid {
		status = billing.PaymentStatusPaid
	}
	c.JSON(http.StatusOK, gin.H{
		"reference":     s.ID,
		"status":        status,
		"amount_gbp":    float64(s.AmountTotal) / 100,
		"student_name":  s.Metadata[billing.MetaStudentName],
		"student_phone": s.Metadata[billing.MetaStudentPhone],
	})
}

func paymentSummary(p *billing.PendingPayment) gin.H {
	return gin.H{
		"reference":     p.Reference,
		"status":        p.Status,
		"amount_gbp":    p.AmountGBP,
		"description":   p.Description,
		"student_name":  p.PayerName,
		"student_phone": p.PayerPhone,
		"created_at":    p.CreatedAt,
	}
}
