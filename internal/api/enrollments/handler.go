package enrollments

import (
	"net/http"

	"tutoring-app/database"
	"tutoring-app/internal/domain/enrollments"

	"github.com/gin-gonic/gin"
)

func ListMyEnrollments(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var list []enrollments.Enrollment
	if err := database.DB.
		Preload("Course").
		Where("student_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load enrollments"})
		return
	}

	c.JSON(http.StatusOK, list)
}
