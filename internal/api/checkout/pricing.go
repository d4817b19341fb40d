package checkout

import (
	"math"
	"strings"

	"tutoring-app/internal/domain/courses"

	"github.com/stripe/stripe-go/v75"
)

// penceAmount floors a pound amount to whole pence, Stripe's smallest
// chargeable unit for GBP. The epsilon absorbs float64 representation error
// (2.01*100 is 200.99999...): flooring a price that already is whole pence
// must be the identity, while genuinely fractional pence still floor down.
func penceAmount(gbp float64) int64 {
	return int64(math.Floor(gbp*100 + 1e-6))
}

// buildLineItems turns the cart into Stripe line items, one per course at
// price + registration fee, and returns the total in pounds. The total is the
// exact sum of the per-course amounts; it is what the PendingPayment records.
func buildLineItems(cart []courses.Course) ([]*stripe.CheckoutSessionLineItemParams, float64) {
	items := make([]*stripe.CheckoutSessionLineItemParams, 0, len(cart))
	total := 0.0

	for _, course := range cart {
		lineGBP := course.PriceGBP + course.RegistrationFeeGBP
		total += lineGBP

		items = append(items, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(string(stripe.CurrencyGBP)),
				UnitAmount: stripe.Int64(penceAmount(lineGBP)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(course.Label()),
				},
			},
		})
	}

	return items, total
}

func purchaseDescription(cart []courses.Course) string {
	labels := make([]string, 0, len(cart))
	for _, course := range cart {
		labels = append(labels, course.Label())
	}
	return "Course registration: " + strings.Join(labels, ", ")
}
