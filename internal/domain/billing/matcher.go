package billing

import (
	"errors"
	"log"

	"tutoring-app/internal/domain/users"
	striperefs "tutoring-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
	"gorm.io/gorm"
)

// MatchSource says which strategy attributed a charge.
type MatchSource string

const (
	MatchByReference    MatchSource = "reference"
	MatchByBuyerEmail   MatchSource = "buyer_email"
	MatchByGuestDetails MatchSource = "guest_details"
	MatchNone           MatchSource = "none"
)

// Attribution is the best-effort link between a Stripe charge and our own
// records. Payment and User can each be nil independently: a registered buyer
// can be identified by billing email even when no payment row matches, and a
// guest payment row has no user.
type Attribution struct {
	Payment *PendingPayment
	User    *users.User
	Source  MatchSource
}

// Matcher attributes external charges to internal payments/buyers. The
// strategies run in strict order and the first hit wins; later heuristics
// never override a direct reference match.
type Matcher struct {
	db *gorm.DB
}

func NewMatcher(db *gorm.DB) *Matcher {
	return &Matcher{db: db}
}

// chargeFacts is the slice of a stripe.Charge the strategies actually need.
type chargeFacts struct {
	ChargeID     string
	IntentID     string
	AmountGBP    float64
	BillingEmail string
	BillingName  string
}

func factsFromCharge(ch *stripe.Charge) chargeFacts {
	f := chargeFacts{
		ChargeID:  ch.ID,
		AmountGBP: float64(ch.Amount) / 100,
	}
	if ch.PaymentIntent != nil {
		f.IntentID = ch.PaymentIntent.ID
	}
	if ch.BillingDetails != nil {
		f.BillingEmail = ch.BillingDetails.Email
		f.BillingName = ch.BillingDetails.Name
	}
	return f
}

// MatchCharge runs the fallback cascade. Side effect: a resolved payment that
// is still keyed by its session id gets re-keyed to the charge's intent id,
// so the next call short-circuits at the direct reference strategy. Running
// it twice on the same inputs yields the same attribution and the second
// rewrite is a no-op.
func (m *Matcher) MatchCharge(ch *stripe.Charge) Attribution {
	facts := factsFromCharge(ch)

	strategies := []struct {
		source MatchSource
		run    func(chargeFacts) (*PendingPayment, *users.User, error)
	}{
		{MatchByReference, m.byReference},
		{MatchByBuyerEmail, m.byBuyerEmail},
		{MatchByGuestDetails, m.byGuestDetails},
	}

	for _, s := range strategies {
		payment, user, err := s.run(facts)
		if err != nil {
			log.Printf("charge matcher: %s strategy for %s: %v", s.source, facts.ChargeID, err)
			continue
		}
		if payment == nil && user == nil {
			continue
		}
		if payment != nil {
			m.healReference(payment, facts.IntentID)
			if user == nil && payment.UserID != nil {
				user = m.loadUser(*payment.UserID)
			}
		}
		return Attribution{Payment: payment, User: user, Source: s.source}
	}

	return Attribution{Source: MatchNone}
}

// byReference finds the payment keyed directly by the charge or intent id.
func (m *Matcher) byReference(f chargeFacts) (*PendingPayment, *users.User, error) {
	refs := []string{f.ChargeID}
	if f.IntentID != "" {
		refs = append(refs, f.IntentID)
	}
	var payment PendingPayment
	err := m.db.Where("reference IN ?", refs).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &payment, nil, nil
}

// byBuyerEmail attributes the charge to a registered account via billing
// email, then looks for that account's most recent session-keyed payment of
// the same amount. A matched user with no matching payment is still returned:
// attribution is display-only and never grants enrollments.
func (m *Matcher) byBuyerEmail(f chargeFacts) (*PendingPayment, *users.User, error) {
	if f.BillingEmail == "" {
		return nil, nil, nil
	}
	var user users.User
	err := m.db.Where("email = ?", f.BillingEmail).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	var payment PendingPayment
	err = m.db.
		Where("user_id = ? AND reference LIKE ? AND amount_gbp = ?", user.ID, "cs_%", f.AmountGBP).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &user, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &payment, &user, nil
}

// byGuestDetails matches a guest checkout by name and amount against
// session-keyed payments with no owning user.
func (m *Matcher) byGuestDetails(f chargeFacts) (*PendingPayment, *users.User, error) {
	if f.BillingName == "" {
		return nil, nil, nil
	}
	var payment PendingPayment
	err := m.db.
		Where("user_id IS NULL AND reference LIKE ? AND amount_gbp = ? AND payer_name = ?", "cs_%", f.AmountGBP, f.BillingName).
		Order("created_at DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &payment, nil, nil
}

// healReference migrates a session-keyed payment onto the intent id carried
// by the charge, so future direct lookups converge. No-op once migrated.
func (m *Matcher) healReference(payment *PendingPayment, intentID string) {
	if intentID == "" || !striperefs.IsSessionReference(payment.Reference) {
		return
	}
	if err := m.db.Model(&PendingPayment{}).
		Where("id = ?", payment.ID).
		Update("reference", intentID).Error; err != nil {
		log.Printf("charge matcher: reference heal %s -> %s: %v", payment.Reference, intentID, err)
		return
	}
	payment.Reference = intentID
}

func (m *Matcher) loadUser(id uint) *users.User {
	var user users.User
	if err := m.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil
	}
	return &user
}
