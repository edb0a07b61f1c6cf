package shows

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/venues"
)

// AdmissionMode distinguishes seat-level inventory from aggregate
// capacity inventory.
type AdmissionMode string

const (
	AdmissionSeatBased     AdmissionMode = "seat_based"
	AdmissionGeneralAccess AdmissionMode = "general_access"
)

// Valid reports whether m is a known admission mode.
func (m AdmissionMode) Valid() bool {
	return m == AdmissionSeatBased || m == AdmissionGeneralAccess
}

// DayList stores an ordered set of calendar-day keys as JSONB.
type DayList []string

// Value implements driver.Valuer.
func (d DayList) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *DayList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("unsupported DayList source type %T", value)
	}
}

// Contains reports whether the day key is one of the show's dates.
func (d DayList) Contains(dayKey string) bool {
	for _, day := range d {
		if day == dayKey {
			return true
		}
	}
	return false
}

// Show is a sellable event occurring on one or more dates at one venue.
// Dates and venue are never mutated once a ticket exists for the show;
// the API exposes no update path for either.
type Show struct {
	ID                 uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExternalProductRef string        `gorm:"uniqueIndex;not null;size:255" json:"external_product_ref"`
	VenueID            uuid.UUID     `gorm:"type:uuid;index;not null" json:"venue_id"`
	Dates              DayList       `gorm:"type:jsonb;not null" json:"dates"`
	AdmissionMode      AdmissionMode `gorm:"type:varchar(20);not null;default:'seat_based'" json:"admission_mode"`
	CapacityOverride   *int          `gorm:"check:capacity_override > 0" json:"capacity_override,omitempty"`
	Title              string        `gorm:"size:255" json:"title"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	Variants []ShowVariant `json:"variants,omitempty" gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE;"`
}

// ShowVariant is the sellable (date x category) unit linking the
// commerce catalog to this engine's inventory.
type ShowVariant struct {
	ID                 uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowID             uuid.UUID       `gorm:"type:uuid;index;not null;uniqueIndex:idx_show_variant_date_category" json:"show_id"`
	ExternalVariantRef string          `gorm:"uniqueIndex;not null;size:255" json:"external_variant_ref"`
	ShowDate           string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_show_variant_date_category" json:"show_date"`
	Category           venues.Category `gorm:"type:varchar(20);not null;uniqueIndex:idx_show_variant_date_category" json:"category"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName sets the table name for Show.
func (Show) TableName() string {
	return "shows"
}

// TableName sets the table name for ShowVariant.
func (ShowVariant) TableName() string {
	return "show_variants"
}

// EffectiveCapacity returns the aggregate capacity of a general-access
// show: the manual override when set, otherwise the venue's summed
// physical seat count.
func (s *Show) EffectiveCapacity(venueSeatCount int) int {
	if s.CapacityOverride != nil && *s.CapacityOverride > 0 {
		return *s.CapacityOverride
	}
	return venueSeatCount
}

// Request/response models

type CreateShowRequest struct {
	ExternalProductRef string   `json:"external_product_ref" binding:"required,max=255"`
	VenueID            string   `json:"venue_id" binding:"required,uuid"`
	Title              string   `json:"title" binding:"max=255"`
	Dates              []string `json:"dates" binding:"required,min=1"`
	AdmissionMode      string   `json:"admission_mode" binding:"required,oneof=seat_based general_access"`
	CapacityOverride   *int     `json:"capacity_override" binding:"omitempty,min=1"`
}

type CreateVariantRequest struct {
	ExternalVariantRef string          `json:"external_variant_ref" binding:"required,max=255"`
	Options            json.RawMessage `json:"options" binding:"required"`
}

type ShowResponse struct {
	ID                 string                `json:"id"`
	ExternalProductRef string                `json:"external_product_ref"`
	VenueID            string                `json:"venue_id"`
	Title              string                `json:"title"`
	Dates              []string              `json:"dates"`
	AdmissionMode      string                `json:"admission_mode"`
	CapacityOverride   *int                  `json:"capacity_override,omitempty"`
	Variants           []ShowVariantResponse `json:"variants"`
	CreatedAt          time.Time             `json:"created_at"`
}

type ShowVariantResponse struct {
	ID                 string `json:"id"`
	ExternalVariantRef string `json:"external_variant_ref"`
	ShowDate           string `json:"show_date"`
	Category           string `json:"category"`
}

// ToResponse converts a Show to its API representation.
func (s *Show) ToResponse() ShowResponse {
	variants := make([]ShowVariantResponse, 0, len(s.Variants))
	for _, v := range s.Variants {
		variants = append(variants, ShowVariantResponse{
			ID:                 v.ID.String(),
			ExternalVariantRef: v.ExternalVariantRef,
			ShowDate:           v.ShowDate,
			Category:           string(v.Category),
		})
	}
	return ShowResponse{
		ID:                 s.ID.String(),
		ExternalProductRef: s.ExternalProductRef,
		VenueID:            s.VenueID.String(),
		Title:              s.Title,
		Dates:              s.Dates,
		AdmissionMode:      string(s.AdmissionMode),
		CapacityOverride:   s.CapacityOverride,
		Variants:           variants,
		CreatedAt:          s.CreatedAt,
	}
}
