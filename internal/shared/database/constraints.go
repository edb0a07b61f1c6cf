package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints concurrency control
// depends on. AutoMigrate cannot express the partial unique index, so
// it is applied with raw SQL here.
func MigrateConstraints(db *gorm.DB) error {
	// A physical seat can be sold once per show and date. The "GA" label
	// is excluded: general-admission tickets all share it and are capped
	// by a counted capacity check instead.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_show_date
		ON tickets (show_id, row_id, seat_label, show_date)
		WHERE seat_label <> 'GA';
	`).Error
	if err != nil {
		return err
	}

	// Index for sold-count lookups during availability reads.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_variant_date_count
		ON tickets (show_variant_id, show_date);
	`).Error
	if err != nil {
		return err
	}

	// Index for seat-map reads listing every ticket of a show date.
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tickets_show_date
		ON tickets (show_id, show_date);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
