package courses

import (
	"net/http"

	"tutoring-app/database"
	"tutoring-app/internal/domain/courses"

	"github.com/gin-gonic/gin"
)

func ListCourses(c *gin.Context) {
	var list []courses.Course
	if err := database.DB.
		Where("active = ?", true).
		Order("name ASC").
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load courses"})
		return
	}

	c.JSON(http.StatusOK, list)
}

type courseInput struct {
	Name               string  `json:"name" binding:"required"`
	Subject            string  `json:"subject"`
	YearGroup          string  `json:"year_group"`
	PriceGBP           float64 `json:"price_gbp" binding:"required"`
	RegistrationFeeGBP float64 `json:"registration_fee_gbp"`
	Active             *bool   `json:"active"`
}

func CreateCourse(c *gin.Context) {
	var input courseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PriceGBP < 0 || input.RegistrationFeeGBP < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices cannot be negative"})
		return
	}

	course := courses.Course{
		Name:               input.Name,
		Subject:            input.Subject,
		YearGroup:          input.YearGroup,
		PriceGBP:           input.PriceGBP,
		RegistrationFeeGBP: input.RegistrationFeeGBP,
		Active:             true,
	}
	if input.Active != nil {
		course.Active = *input.Active
	}

	if err := database.DB.Create(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	c.JSON(http.StatusOK, course)
}

func UpdateCourse(c *gin.Context) {
	var course courses.Course
	if err := database.DB.First(&course, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		return
	}

	var input courseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PriceGBP < 0 || input.RegistrationFeeGBP < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices cannot be negative"})
		return
	}

	course.Name = input.Name
	course.Subject = input.Subject
	course.YearGroup = input.YearGroup
	course.PriceGBP = input.PriceGBP
	course.RegistrationFeeGBP = input.RegistrationFeeGBP
	if input.Active != nil {
		course.Active = *input.Active
	}

	if err := database.DB.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update course"})
		return
	}

	c.JSON(http.StatusOK, course)
}
