package shows

import (
	"encoding/json"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/shared/utils/dates"
	"stagepass/internal/venues"
)

// Option titles the commerce catalog uses on its sellable variants.
const (
	optionTitleDate     = "Date"
	optionTitleCategory = "Row Type"
)

// VariantKey is the canonical (date, category) pair every variant
// reduces to. Nothing past this boundary branches on option shape.
type VariantKey struct {
	ShowDate string
	Category venues.Category
}

// optionEntry matches the array-of-options shape. The title lives
// either directly on the entry or nested under "option".
type optionEntry struct {
	Title  string `json:"title"`
	Option struct {
		Title string `json:"title"`
	} `json:"option"`
	Value string `json:"value"`
}

func (e optionEntry) title() string {
	if e.Title != "" {
		return e.Title
	}
	return e.Option.Title
}

// NormalizeVariantOptions reduces the catalog's variant options into a
// VariantKey. Upstream stores options either as an array of option
// objects or as a flat title-to-value object; both shapes are accepted
// here and nowhere else.
func NormalizeVariantOptions(raw json.RawMessage) (VariantKey, error) {
	values := map[string]string{}

	var entries []optionEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		for _, entry := range entries {
			values[entry.title()] = entry.Value
		}
	} else {
		var flat map[string]string
		if err := json.Unmarshal(raw, &flat); err != nil {
			return VariantKey{}, apperr.InvalidArgumentf("unrecognized variant option shape")
		}
		values = flat
	}

	rawDate, ok := values[optionTitleDate]
	if !ok || rawDate == "" {
		return VariantKey{}, apperr.InvalidArgumentf("variant options missing %q", optionTitleDate)
	}
	rawCategory, ok := values[optionTitleCategory]
	if !ok || rawCategory == "" {
		return VariantKey{}, apperr.InvalidArgumentf("variant options missing %q", optionTitleCategory)
	}

	dayKey, err := dates.Normalize(rawDate)
	if err != nil {
		return VariantKey{}, err
	}

	category := venues.Category(rawCategory)
	if !category.Valid() {
		return VariantKey{}, apperr.InvalidArgumentf("unknown category %q", rawCategory)
	}

	return VariantKey{ShowDate: dayKey, Category: category}, nil
}

// NormalizeDates normalizes and dedupes a list of raw date strings,
// preserving first-seen order.
func NormalizeDates(raw []string) (DayList, error) {
	seen := make(map[string]bool, len(raw))
	out := make(DayList, 0, len(raw))
	for _, r := range raw {
		dayKey, err := dates.Normalize(r)
		if err != nil {
			return nil, err
		}
		if seen[dayKey] {
			continue
		}
		seen[dayKey] = true
		out = append(out, dayKey)
	}
	return out, nil
}
