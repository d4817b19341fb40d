package billing

import "time"

// Payout is money going out to a tutor. Recorded by admins; shows up as an
// outgoing row in the transaction ledger.
type Payout struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"not null;uniqueIndex:idx_payouts_reference"`
	TutorName string
	AmountGBP float64 `gorm:"column:amount_gbp"`

	Description string
	PaidAt      time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
