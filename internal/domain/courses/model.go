package courses

import "time"

type Course struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Subject   string
	YearGroup string `gorm:"column:year_group"`

	// Priced in pounds; a one-off registration fee is charged on top of the
	// course price for every purchase.
	PriceGBP           float64 `gorm:"column:price_gbp"`
	RegistrationFeeGBP float64 `gorm:"column:registration_fee_gbp"`

	Active bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label is how a course shows up in admin reports and payment descriptions.
func (c Course) Label() string {
	if c.YearGroup == "" {
		return c.Name
	}
	return c.Name + " (" + c.YearGroup + ")"
}
