package admin

import (
	"sort"
	"strings"
	"time"

	"tutoring-app/database"
	"tutoring-app/internal/domain/billing"
	"tutoring-app/internal/domain/courses"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// Transaction is one row of the unified admin ledger: gateway charges as
// incoming money, tutor payouts as outgoing.
type Transaction struct {
	Direction   string    `json:"direction"`
	Reference   string    `json:"reference"`
	AmountGBP   float64   `json:"amount_gbp"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	PayerName   string    `json:"payer_name,omitempty"`
	PayerPhone  string    `json:"payer_phone,omitempty"`
	PayerEmail  string    `json:"payer_email,omitempty"`
	Courses     []string  `json:"courses,omitempty"`
	MatchSource string    `json:"match_source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// mergeTransactions interleaves both sides of the ledger, newest first.
// Stable: equal timestamps keep their original relative order.
func mergeTransactions(incoming, outgoing []Transaction) []Transaction {
	merged := make([]Transaction, 0, len(incoming)+len(outgoing))
	merged = append(merged, incoming...)
	merged = append(merged, outgoing...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged
}

// chargeTransaction builds a ledger row from a gateway charge and whatever
// the matcher could attribute. Unmatched charges are still reported, just
// with unknown attribution.
func chargeTransaction(ch *stripe.Charge, att billing.Attribution) Transaction {
	tx := Transaction{
		Direction:   "incoming",
		Reference:   ch.ID,
		AmountGBP:   float64(ch.Amount) / 100,
		Status:      string(ch.Status),
		Description: ch.Description,
		MatchSource: string(att.Source),
		CreatedAt:   time.Unix(ch.Created, 0),
	}
	if ch.BillingDetails != nil {
		tx.PayerName = ch.BillingDetails.Name
		tx.PayerPhone = ch.BillingDetails.Phone
		tx.PayerEmail = ch.BillingDetails.Email
	}

	if att.Payment != nil {
		tx.Status = att.Payment.Status
		if att.Payment.Description != "" {
			tx.Description = att.Payment.Description
		}
		if att.Payment.PayerName != "" {
			tx.PayerName = att.Payment.PayerName
		}
		if att.Payment.PayerPhone != "" {
			tx.PayerPhone = att.Payment.PayerPhone
		}
	}
	if att.User != nil {
		tx.PayerEmail = att.User.Email
		if tx.PayerName == "" {
			tx.PayerName = strings.TrimSpace(att.User.Name + " " + att.User.Lastname)
		}
	}

	tx.Courses = courseLabelsForCharge(ch, att)
	if tx.Description == "" && len(tx.Courses) > 0 {
		tx.Description = "Course registration: " + strings.Join(tx.Courses, ", ")
	}

	return tx
}

// courseLabelsForCharge resolves which courses a charge paid for. Charge
// metadata first; for unmatched charges fall back to the checkout session
// behind the charge's payment intent, which carries the metadata we attached
// at session creation.
func courseLabelsForCharge(ch *stripe.Charge, att billing.Attribution) []string {
	ids := billing.ParseCourseIDList(ch.Metadata[billing.MetaCourseIDs])

	if len(ids) == 0 && att.Payment == nil && ch.PaymentIntent != nil && ch.PaymentIntent.ID != "" {
		params := &stripe.CheckoutSessionListParams{
			PaymentIntent: stripe.String(ch.PaymentIntent.ID),
		}
		params.Limit = stripe.Int64(1)
		it := checkoutsession.List(params)
		for it.Next() {
			ids = billing.ParseCourseIDList(it.CheckoutSession().Metadata[billing.MetaCourseIDs])
		}
	}

	if len(ids) == 0 {
		return nil
	}

	var list []courses.Course
	if err := database.DB.Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil
	}
	labels := make([]string, 0, len(list))
	for _, course := range list {
		labels = append(labels, course.Label())
	}
	return labels
}

func payoutTransaction(p billing.Payout) Transaction {
	created := p.PaidAt
	if created.IsZero() {
		created = p.CreatedAt
	}
	return Transaction{
		Direction:   "outgoing",
		Reference:   p.Reference,
		AmountGBP:   p.AmountGBP,
		Status:      billing.PaymentStatusPaid,
		Description: p.Description,
		PayerName:   p.TutorName,
		CreatedAt:   created,
	}
}
