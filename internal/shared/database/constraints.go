package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// One live redemption per booking keeps a promotion from being
	// applied twice to the same booking
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_redemption_per_booking
		ON promotion_redemptions (booking_id)
		WHERE released_at IS NULL;
	`).Error
	if err != nil {
		return err
	}

	// Availability queries scan booking rooms by room and date range
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_booking_rooms_room_dates
		ON booking_rooms (room_id, checkin_date, checkout_date);
	`).Error
	if err != nil {
		return err
	}

	// Installment ordering is per booking
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_installment_sequence
		ON payment_installments (booking_id, sequence);
	`).Error
	if err != nil {
		return err
	}

	// Rule resolution filters on active rules per scope
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payment_rules_scope
		ON payment_rules (scope_type, scope_id)
		WHERE is_active = true;
	`).Error
	if err != nil {
		return err
	}

	// One active cancellation policy per property
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_active_policy_per_property
		ON cancellation_policies (property_id)
		WHERE is_active = true;
	`).Error
	if err != nil {
		return err
	}

	return nil
}
