package enrollments

import (
	"time"

	"tutoring-app/internal/domain/courses"
	"tutoring-app/internal/domain/users"
)

const StatusActive = "active"

// Enrollment grants a student access to a course. The composite unique index
// is the idempotency guarantee: the webhook reconciler may run the same
// settlement twice, but only one row per (student, course) can ever exist.
type Enrollment struct {
	ID uint `gorm:"primaryKey"`

	StudentID uint       `gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	CourseID  uint       `gorm:"not null;uniqueIndex:idx_enrollments_student_course"`
	Student   users.User `gorm:"foreignKey:StudentID"`
	Course    courses.Course

	EnrollmentDate time.Time
	Status         string `gorm:"not null;default:'active'"`
	Progress       int

	// reference of the payment that bought this enrollment
	PaymentReference string
	AmountGBP        float64 `gorm:"column:amount_gbp"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
