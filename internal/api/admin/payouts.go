package admin

import (
	"net/http"
	"time"

	"tutoring-app/database"
	"tutoring-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func CreatePayout(c *gin.Context) {
	var input struct {
		TutorName   string  `json:"tutor_name" binding:"required"`
		AmountGBP   float64 `json:"amount_gbp" binding:"required"`
		Description string  `json:"description"`
		PaidAt      *string `json:"paid_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.AmountGBP <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		parsed, err := time.Parse("2006-01-02", *input.PaidAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "paid_at must be YYYY-MM-DD"})
			return
		}
		paidAt = parsed
	}

	payout := billing.Payout{
		Reference:   "po_" + uuid.NewString(),
		TutorName:   input.TutorName,
		AmountGBP:   input.AmountGBP,
		Description: input.Description,
		PaidAt:      paidAt,
	}

	if err := database.DB.Create(&payout).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payout"})
		return
	}

	c.JSON(http.StatusOK, payout)
}

func ListPayouts(c *gin.Context) {
	var payouts []billing.Payout
	if err := database.DB.Order("paid_at DESC").Find(&payouts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load payouts"})
		return
	}

	c.JSON(http.StatusOK, payouts)
}
