package venues

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a row of seats. general_access is a synthetic
// bucket representing undifferentiated capacity, not a physical row.
type Category string

const (
	CategoryPremium       Category = "premium"
	CategoryBalcony       Category = "balcony"
	CategoryStandard      Category = "standard"
	CategoryVIP           Category = "vip"
	CategoryGeneralAccess Category = "general_access"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPremium, CategoryBalcony, CategoryStandard, CategoryVIP, CategoryGeneralAccess:
		return true
	}
	return false
}

// Venue is a physical location with an ordered list of rows. Once
// tickets exist against its rows, rows may only be added, never resized
// below sold counts.
type Venue struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Address   string    `gorm:"size:500" json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rows []Row `json:"rows,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// Row is a named seating group with a capacity.
type Row struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID   uuid.UUID `gorm:"type:uuid;index;not null;uniqueIndex:idx_venue_row_number" json:"venue_id"`
	RowNumber string    `gorm:"not null;uniqueIndex:idx_venue_row_number" json:"row_number"`
	Category  Category  `gorm:"type:varchar(20);not null" json:"category"`
	SeatCount int       `gorm:"not null;check:seat_count > 0" json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name for Venue.
func (Venue) TableName() string {
	return "venues"
}

// TableName sets the table name for Row.
func (Row) TableName() string {
	return "venue_rows"
}

// TotalSeatCount sums the capacity of all physical rows. The synthetic
// general_access row is excluded so find-or-create of that bucket does
// not inflate venue capacity.
func (v *Venue) TotalSeatCount() int {
	total := 0
	for _, row := range v.Rows {
		if row.Category == CategoryGeneralAccess {
			continue
		}
		total += row.SeatCount
	}
	return total
}

// Request/response models

type CreateRowRequest struct {
	RowNumber string `json:"row_number" binding:"required,min=1,max=20"`
	Category  string `json:"category" binding:"required,oneof=premium balcony standard vip general_access"`
	SeatCount int    `json:"seat_count" binding:"required,min=1"`
}

type CreateVenueRequest struct {
	Name    string             `json:"name" binding:"required,min=2,max=255"`
	Address string             `json:"address" binding:"max=500"`
	Rows    []CreateRowRequest `json:"rows" binding:"omitempty,dive"`
}

type VenueResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	Rows      []RowResponse `json:"rows"`
	CreatedAt time.Time     `json:"created_at"`
}

type RowResponse struct {
	ID        string `json:"id"`
	RowNumber string `json:"row_number"`
	Category  string `json:"category"`
	SeatCount int    `json:"seat_count"`
}

// ToResponse converts a Venue to its API representation.
func (v *Venue) ToResponse() VenueResponse {
	rows := make([]RowResponse, 0, len(v.Rows))
	for _, row := range v.Rows {
		rows = append(rows, RowResponse{
			ID:        row.ID.String(),
			RowNumber: row.RowNumber,
			Category:  string(row.Category),
			SeatCount: row.SeatCount,
		})
	}
	return VenueResponse{
		ID:        v.ID.String(),
		Name:      v.Name,
		Address:   v.Address,
		Rows:      rows,
		CreatedAt: v.CreatedAt,
	}
}
