package stripewebhooks

import (
	"fmt"
	"log"
	"strings"
	"time"

	"tutoring-app/internal/domain/billing"
	"tutoring-app/internal/domain/courses"
	"tutoring-app/internal/domain/enrollments"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// handleCheckoutSessionCompleted settles a completed checkout:
//
//  1. re-key the pending row from the session id to the payment-intent id,
//     so every later lookup (including a redelivery of this same event)
//     converges on the intent id;
//  2. create enrollments for a registered buyer, one per course, guarded by
//     the (student, course) unique index;
//  3. upsert the payment row by reference to "paid".
//
// Each step tolerates the others having already run; redelivery is a no-op
// end to end. Guests get the payment row only, never enrollments.
func handleCheckoutSessionCompleted(db *gorm.DB, session *stripe.CheckoutSession) error {
	courseIDs := billing.ParseCourseIDList(session.Metadata[billing.MetaCourseIDs])
	if len(courseIDs) == 0 {
		log.Printf("session %s carries no course ids, nothing to reconcile", session.ID)
		return nil
	}

	intentID := ""
	if session.PaymentIntent != nil {
		intentID = session.PaymentIntent.ID
	}

	if intentID != "" {
		if err := db.Model(&billing.PendingPayment{}).
			Where("reference = ?", session.ID).
			Update("reference", intentID).Error; err != nil {
			log.Printf("reference migration %s -> %s: %v", session.ID, intentID, err)
		}
	}

	reference := intentID
	if reference == "" {
		reference = session.ID
	}

	var cart []courses.Course
	if err := db.Where("id IN ?", courseIDs).Find(&cart).Error; err != nil {
		return fmt.Errorf("failed to load courses for session %s: %w", session.ID, err)
	}

	userID, registered := billing.ParseUserID(session.Metadata[billing.MetaUserID])
	if registered {
		createEnrollments(db, userID, cart, reference)
	}

	payment := billing.PendingPayment{
		Reference:   reference,
		AmountGBP:   float64(session.AmountTotal) / 100,
		Description: settledDescription(cart),
		Status:      billing.PaymentStatusPaid,
		PayerName:   session.Metadata[billing.MetaStudentName],
		PayerPhone:  session.Metadata[billing.MetaStudentPhone],
	}
	if registered {
		payment.UserID = &userID
	}

	// Upsert, not insert: a second delivery of the same event must converge
	// on the same row. user_id is set on insert only so a guest redelivery
	// can't blank out an earlier attribution.
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "reference"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "amount_gbp", "description", "payer_name", "payer_phone", "updated_at",
		}),
	}).Create(&payment).Error; err != nil {
		return fmt.Errorf("failed to upsert payment %s: %w", reference, err)
	}

	return nil
}

// createEnrollments inserts any enrollments the buyer doesn't already have.
// The prior read keeps the common redelivery case quiet; the ON CONFLICT
// guard keeps a concurrent redelivery correct.
func createEnrollments(db *gorm.DB, userID uint, cart []courses.Course, reference string) {
	for _, course := range cart {
		var existing enrollments.Enrollment
		err := db.Where("student_id = ? AND course_id = ?", userID, course.ID).
			First(&existing).Error
		if err == nil {
			continue
		}

		enrollment := enrollments.Enrollment{
			StudentID:        userID,
			CourseID:         course.ID,
			EnrollmentDate:   time.Now(),
			Status:           enrollments.StatusActive,
			PaymentReference: reference,
			AmountGBP:        course.PriceGBP + course.RegistrationFeeGBP,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).Create(&enrollment).Error; err != nil {
			log.Printf("enrollment user=%d course=%d: %v", userID, course.ID, err)
		}
	}
}

func settledDescription(cart []courses.Course) string {
	if len(cart) == 0 {
		return "Course registration"
	}
	labels := make([]string, 0, len(cart))
	for _, course := range cart {
		labels = append(labels, course.Label())
	}
	return "Course registration: " + strings.Join(labels, ", ")
}
