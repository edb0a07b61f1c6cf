package database

import (
	"stagepass/internal/carts"
	"stagepass/internal/orders"
	"stagepass/internal/shows"
	"stagepass/internal/tickets"
	"stagepass/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&venues.Venue{},
		&venues.Row{},
		&shows.Show{},
		&shows.ShowVariant{},
		&tickets.Ticket{},
		&carts.Cart{},
		&carts.CartLineItem{},
		&orders.Order{},
		&orders.OrderLineItem{},
	)
}
