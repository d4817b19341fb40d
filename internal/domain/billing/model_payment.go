package billing

import (
	"time"

	"tutoring-app/internal/domain/users"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// PendingPayment is one checkout attempt. It is created the moment a Stripe
// session is opened (so abandoned checkouts stay visible to admins) and
// flipped to "paid" by the webhook reconciler.
//
// Reference starts out as the checkout-session id and is rewritten to the
// payment-intent id once settlement resolves it; the unique index on it is
// what keeps redelivered webhooks from inserting duplicates.
type PendingPayment struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"not null;uniqueIndex:idx_pending_payments_reference"`

	// nil for guest checkouts
	UserID *uint
	User   *users.User

	AmountGBP   float64 `gorm:"column:amount_gbp"`
	Description string
	Status      string `gorm:"not null;default:'pending'"`

	PayerName  string
	PayerPhone string

	CreatedAt time.Time
	UpdatedAt time.Time
}
