package inventory

// CategoryAvailability is the remaining inventory for one category on
// one date.
type CategoryAvailability struct {
	Category      string `json:"category"`
	TotalCapacity int    `json:"total_capacity"`
	Available     int    `json:"available"`
	SoldOut       bool   `json:"sold_out"`
}

// DateAvailability aggregates category availability for one calendar
// day. SoldOut is true when every category is exhausted.
type DateAvailability struct {
	Date       string                 `json:"date"`
	Categories []CategoryAvailability `json:"categories"`
	SoldOut    bool                   `json:"sold_out"`
}

// AvailabilityResponse is the full availability summary of a show.
type AvailabilityResponse struct {
	ShowID string             `json:"show_id"`
	Dates  []DateAvailability `json:"dates"`
}

// SeatInfo is one seat in the seat map. ShowVariantID is nil when no
// sellable unit exists yet for the seat's row and date.
type SeatInfo struct {
	SeatLabel     string  `json:"seat_label"`
	IsPurchased   bool    `json:"is_purchased"`
	ShowVariantID *string `json:"show_variant_id"`
}

// SeatMapRow is one venue row with its ordered seats.
type SeatMapRow struct {
	RowNumber string     `json:"row_number"`
	Category  string     `json:"category"`
	Seats     []SeatInfo `json:"seats"`
}

// VenueSummary identifies the venue a seat map belongs to.
type VenueSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// SeatMapResponse is the seat-by-seat purchased/available grid of a
// show for one date.
type SeatMapResponse struct {
	ShowID string       `json:"show_id"`
	Date   string       `json:"date"`
	Venue  VenueSummary `json:"venue"`
	Rows   []SeatMapRow `json:"rows"`
}

// SeatMapQuery binds the seat-map query string.
type SeatMapQuery struct {
	Date string `form:"date" binding:"required"`
}
