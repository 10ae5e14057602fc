package database

import (
	"roomly/internal/addons"
	"roomly/internal/bookings"
	"roomly/internal/policies"
	"roomly/internal/promotions"
	"roomly/internal/properties"
	"roomly/internal/refunds"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&properties.Property{},
		&properties.Room{},
		&addons.Addon{},
		&addons.AddonRoom{},
		&promotions.Promotion{},
		&promotions.PromotionRoom{},
		&promotions.PromotionRedemption{},
		&policies.PaymentRule{},
		&policies.CancellationPolicy{},
		&bookings.Booking{},
		&bookings.BookingRoom{},
		&bookings.BookingAddon{},
		&bookings.PaymentInstallment{},
		&bookings.Payment{},
		&refunds.RefundRequest{},
	)
}
