package billing

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v75"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func paymentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "reference", "user_id", "amount_gbp", "description", "status", "payer_name", "payer_phone",
	})
}

func testCharge(intentID, email, name string, amountPence int64) *stripe.Charge {
	ch := &stripe.Charge{
		ID:     "ch_1",
		Amount: amountPence,
	}
	if intentID != "" {
		ch.PaymentIntent = &stripe.PaymentIntent{ID: intentID}
	}
	if email != "" || name != "" {
		ch.BillingDetails = &stripe.ChargeBillingDetails{Email: email, Name: name}
	}
	return ch
}

func TestMatchCharge_DirectReferenceWinsAndHeals(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	// direct lookup finds a row still keyed by its session id
	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", "pi_99", 1).
		WillReturnRows(paymentRows().
			AddRow(5, "cs_abc", nil, 65.0, "Course registration: Maths (Y7)", "paid", "Jo Smith", "0770"))

	// self-heal re-keys it onto the intent id
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pending_payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	att := matcher.MatchCharge(testCharge("pi_99", "jo@example.com", "Jo Smith", 6500))

	assert.Equal(t, MatchByReference, att.Source)
	assert.NotNil(t, att.Payment)
	assert.Equal(t, "pi_99", att.Payment.Reference)
	assert.Nil(t, att.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCharge_HealIsNoOpOnceMigrated(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", "pi_99", 1).
		WillReturnRows(paymentRows().
			AddRow(5, "pi_99", nil, 65.0, "Course registration: Maths (Y7)", "paid", "Jo Smith", "0770"))

	// no UPDATE expected: the reference is already the intent id
	att := matcher.MatchCharge(testCharge("pi_99", "", "Jo Smith", 6500))

	assert.Equal(t, MatchByReference, att.Source)
	assert.Equal(t, "pi_99", att.Payment.Reference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCharge_RegisteredBuyerFallback(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", "pi_99", 1).
		WillReturnRows(paymentRows())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WithArgs("jo@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "lastname", "email", "role"}).
			AddRow(7, "Jo", "Smith", "jo@example.com", "user"))

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE user_id = .+ AND reference LIKE .+ AND amount_gbp =`).
		WithArgs(uint(7), "cs_%", 30.0, 1).
		WillReturnRows(paymentRows().
			AddRow(9, "cs_def", 7, 30.0, "Course registration: Physics (Y10)", "pending", "Jo Smith", "0770"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pending_payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	att := matcher.MatchCharge(testCharge("pi_99", "jo@example.com", "Jo Smith", 3000))

	assert.Equal(t, MatchByBuyerEmail, att.Source)
	assert.NotNil(t, att.Payment)
	assert.Equal(t, "pi_99", att.Payment.Reference)
	assert.NotNil(t, att.User)
	assert.Equal(t, uint(7), att.User.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCharge_RegisteredBuyerDisplayOnly(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", "pi_99", 1).
		WillReturnRows(paymentRows())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email =`).
		WithArgs("jo@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "lastname", "email", "role"}).
			AddRow(7, "Jo", "Smith", "jo@example.com", "user"))

	// no session-keyed payment of the right amount
	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE user_id = .+ AND reference LIKE .+ AND amount_gbp =`).
		WithArgs(uint(7), "cs_%", 30.0, 1).
		WillReturnRows(paymentRows())

	att := matcher.MatchCharge(testCharge("pi_99", "jo@example.com", "Jo Smith", 3000))

	// user is attributed for display; no payment, so no heal and no grant
	assert.Equal(t, MatchByBuyerEmail, att.Source)
	assert.Nil(t, att.Payment)
	assert.NotNil(t, att.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCharge_GuestFallback(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", "pi_99", 1).
		WillReturnRows(paymentRows())

	// no billing email, so the registered-buyer strategy is skipped entirely
	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE user_id IS NULL AND reference LIKE`).
		WithArgs("cs_%", 65.0, "Jo Smith", 1).
		WillReturnRows(paymentRows().
			AddRow(11, "cs_ghi", nil, 65.0, "Course registration: Maths (Y7), Physics (Y10)", "pending", "Jo Smith", "0770"))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "pending_payments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	att := matcher.MatchCharge(testCharge("pi_99", "", "Jo Smith", 6500))

	assert.Equal(t, MatchByGuestDetails, att.Source)
	assert.NotNil(t, att.Payment)
	assert.Equal(t, "pi_99", att.Payment.Reference)
	assert.Nil(t, att.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchCharge_NoMatchIsDegradedNotFatal(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	matcher := NewMatcher(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "pending_payments" WHERE reference IN`).
		WithArgs("ch_1", 1).
		WillReturnRows(paymentRows())

	// charge without intent, email or name: nothing left to try
	att := matcher.MatchCharge(testCharge("", "", "", 6500))

	assert.Equal(t, MatchNone, att.Source)
	assert.Nil(t, att.Payment)
	assert.Nil(t, att.User)
	assert.NoError(t, mock.ExpectationsWereMet())
}
