package admin

import (
	"testing"
	"time"

	"tutoring-app/internal/domain/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v75"
)

func TestMergeTransactions_NewestFirstStable(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	incoming := []Transaction{
		{Reference: "ch_1", CreatedAt: base.Add(2 * time.Hour)},
		{Reference: "ch_2", CreatedAt: base},
	}
	outgoing := []Transaction{
		{Reference: "po_1", CreatedAt: base.Add(time.Hour)},
		{Reference: "po_2", CreatedAt: base}, // same instant as ch_2
	}

	merged := mergeTransactions(incoming, outgoing)

	refs := make([]string, 0, len(merged))
	for _, tx := range merged {
		refs = append(refs, tx.Reference)
	}
	// ties keep their original relative order: ch_2 was appended before po_2
	assert.Equal(t, []string{"ch_1", "po_1", "ch_2", "po_2"}, refs)
}

func TestChargeTransaction_MatchedPaymentWins(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ch := &stripe.Charge{
		ID:      "ch_1",
		Amount:  6500,
		Status:  stripe.ChargeStatusSucceeded,
		Created: created.Unix(),
		BillingDetails: &stripe.ChargeBillingDetails{
			Name:  "Card Holder",
			Email: "card@example.com",
		},
	}
	userID := uint(7)
	att := billing.Attribution{
		Payment: &billing.PendingPayment{
			Reference:   "pi_99",
			UserID:      &userID,
			AmountGBP:   65,
			Description: "Course registration: GCSE Maths (Y11)",
			Status:      billing.PaymentStatusPaid,
			PayerName:   "Jo Smith",
			PayerPhone:  "0770",
		},
		Source: billing.MatchByReference,
	}

	tx := chargeTransaction(ch, att)

	assert.Equal(t, "incoming", tx.Direction)
	assert.Equal(t, "ch_1", tx.Reference)
	assert.InDelta(t, 65.0, tx.AmountGBP, 1e-9)
	assert.Equal(t, billing.PaymentStatusPaid, tx.Status)
	assert.Equal(t, "Jo Smith", tx.PayerName)
	assert.Equal(t, "0770", tx.PayerPhone)
	assert.Equal(t, "Course registration: GCSE Maths (Y11)", tx.Description)
	assert.Equal(t, string(billing.MatchByReference), tx.MatchSource)
}

func TestChargeTransaction_UnmatchedIsStillReported(t *testing.T) {
	ch := &stripe.Charge{
		ID:      "ch_2",
		Amount:  1200,
		Status:  stripe.ChargeStatusSucceeded,
		Created: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).Unix(),
	}

	tx := chargeTransaction(ch, billing.Attribution{Source: billing.MatchNone})

	assert.Equal(t, "ch_2", tx.Reference)
	assert.Equal(t, string(billing.MatchNone), tx.MatchSource)
	assert.Empty(t, tx.PayerName)
	assert.Empty(t, tx.Courses)
}

func TestPayoutTransaction(t *testing.T) {
	paidAt := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	p := billing.Payout{
		Reference:   "po_abc",
		TutorName:   "T. Adams",
		AmountGBP:   250,
		Description: "February lessons",
		PaidAt:      paidAt,
	}

	tx := payoutTransaction(p)

	assert.Equal(t, "outgoing", tx.Direction)
	assert.Equal(t, "po_abc", tx.Reference)
	assert.Equal(t, "T. Adams", tx.PayerName)
	assert.Equal(t, paidAt, tx.CreatedAt)
}
