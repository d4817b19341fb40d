package admin

import (
	"net/http"
	"time"

	"tutoring-app/database"
	"tutoring-app/internal/domain/billing"
	"tutoring-app/internal/domain/enrollments"
	"tutoring-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/charge"
)

// recentChargeWindow caps the ledger at the gateway's recent history; this is
// an operational view, not a historical export.
const recentChargeWindow = 100

// ListTransactions assembles the unified ledger: the most recent gateway
// charges attributed through the matcher, merged with recorded payouts,
// newest first. Read-only apart from the matcher's reference self-heal.
func ListTransactions(c *gin.Context) {
	matcher := billing.NewMatcher(database.DB)

	params := &stripe.ChargeListParams{}
	params.Limit = stripe.Int64(recentChargeWindow)

	var incoming []Transaction
	it := charge.List(params)
	for it.Next() {
		ch := it.Charge()
		incoming = append(incoming, chargeTransaction(ch, matcher.MatchCharge(ch)))
	}
	if err := it.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch charges", "details": err.Error()})
		return
	}

	var payouts []billing.Payout
	if err := database.DB.Order("paid_at DESC").Find(&payouts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payouts"})
		return
	}
	var outgoing []Transaction
	for _, p := range payouts {
		outgoing = append(outgoing, payoutTransaction(p))
	}

	c.JSON(http.StatusOK, mergeTransactions(incoming, outgoing))
}

type AdminStats struct {
	TotalUsers           int            `json:"total_users"`
	TotalEnrollments     int            `json:"total_enrollments"`
	TotalRevenue         float64        `json:"total_revenue"`
	RecentRevenue        float64        `json:"recent_revenue"`
	TotalPayouts         float64        `json:"total_payouts"`
	EnrollmentsPerCourse map[string]int `json:"enrollments_per_course"`
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats

	var totalUsers int64
	var totalEnrollments int64
	var totalRevenue float64
	var recentRevenue float64
	var totalPayouts float64

	database.DB.Model(&users.User{}).Count(&totalUsers)
	database.DB.Model(&enrollments.Enrollment{}).Count(&totalEnrollments)
	database.DB.Model(&billing.PendingPayment{}).
		Where("status = ?", billing.PaymentStatusPaid).
		Select("COALESCE(SUM(amount_gbp), 0)").Scan(&totalRevenue)

	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	database.DB.Model(&billing.PendingPayment{}).
		Where("status = ? AND created_at >= ?", billing.PaymentStatusPaid, thirtyDaysAgo).
		Select("COALESCE(SUM(amount_gbp), 0)").Scan(&recentRevenue)

	database.DB.Model(&billing.Payout{}).
		Select("COALESCE(SUM(amount_gbp), 0)").Scan(&totalPayouts)

	stats.TotalUsers = int(totalUsers)
	stats.TotalEnrollments = int(totalEnrollments)
	stats.TotalRevenue = totalRevenue
	stats.RecentRevenue = recentRevenue
	stats.TotalPayouts = totalPayouts

	type CourseCount struct {
		Name  *string
		Count int
	}
	var counts []CourseCount

	database.DB.
		Table("enrollments").
		Select("courses.name, COUNT(enrollments.id) as count").
		Joins("LEFT JOIN courses ON enrollments.course_id = courses.id").
		Group("courses.name").
		Scan(&counts)

	stats.EnrollmentsPerCourse = map[string]int{}
	for _, cc := range counts {
		name := "Unknown"
		if cc.Name != nil {
			name = *cc.Name
		}
		stats.EnrollmentsPerCourse[name] = cc.Count
	}

	c.JSON(http.StatusOK, stats)
}
