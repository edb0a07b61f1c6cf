package shows

import (
	"encoding/json"
	"errors"
	"testing"

	"stagepass/internal/shared/apperr"
	"stagepass/internal/venues"
)

func TestNormalizeVariantOptions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    VariantKey
		wantErr bool
	}{
		{
			name: "array of options with direct titles",
			raw:  `[{"title":"Date","value":"2025-07-01"},{"title":"Row Type","value":"premium"}]`,
			want: VariantKey{ShowDate: "2025-07-01", Category: venues.CategoryPremium},
		},
		{
			name: "array of options with nested option titles",
			raw:  `[{"option":{"title":"Date"},"value":"2025-07-01T00:00:00Z"},{"option":{"title":"Row Type"},"value":"balcony"}]`,
			want: VariantKey{ShowDate: "2025-07-01", Category: venues.CategoryBalcony},
		},
		{
			name: "flat object",
			raw:  `{"Date":"2025-07-01","Row Type":"general_access"}`,
			want: VariantKey{ShowDate: "2025-07-01", Category: venues.CategoryGeneralAccess},
		},
		{
			name: "timestamp value reduces to day key",
			raw:  `{"Date":"2025-07-01T23:30:00-05:00","Row Type":"standard"}`,
			want: VariantKey{ShowDate: "2025-07-02", Category: venues.CategoryStandard},
		},
		{
			name:    "missing date",
			raw:     `{"Row Type":"standard"}`,
			wantErr: true,
		},
		{
			name:    "missing category",
			raw:     `{"Date":"2025-07-01"}`,
			wantErr: true,
		},
		{
			name:    "unknown category",
			raw:     `{"Date":"2025-07-01","Row Type":"orchestra"}`,
			wantErr: true,
		},
		{
			name:    "unrecognized shape",
			raw:     `"just a string"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeVariantOptions(json.RawMessage(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeVariantOptions(%s) = %+v, want error", tt.raw, got)
				}
				if !errors.Is(err, apperr.ErrInvalidArgument) {
					t.Errorf("error = %v, want InvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeVariantOptions(%s) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeVariantOptions(%s) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDates(t *testing.T) {
	got, err := NormalizeDates([]string{
		"2025-07-01",
		"2025-07-01T12:00:00Z", // same day, different shape
		"2025-07-02",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DayList{"2025-07-01", "2025-07-02"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeDates = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeDates[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeDatesRejectsGarbage(t *testing.T) {
	if _, err := NormalizeDates([]string{"2025-07-01", "soon"}); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestDayListContains(t *testing.T) {
	d := DayList{"2025-07-01", "2025-07-02"}
	if !d.Contains("2025-07-01") {
		t.Error("expected 2025-07-01 to be present")
	}
	if d.Contains("2025-07-03") {
		t.Error("did not expect 2025-07-03 to be present")
	}
}

func TestEffectiveCapacity(t *testing.T) {
	override := 50
	tests := []struct {
		name      string
		show      Show
		venueSeat int
		want      int
	}{
		{name: "override wins", show: Show{CapacityOverride: &override}, venueSeat: 200, want: 50},
		{name: "falls back to venue seats", show: Show{}, venueSeat: 200, want: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.show.EffectiveCapacity(tt.venueSeat); got != tt.want {
				t.Errorf("EffectiveCapacity(%d) = %d, want %d", tt.venueSeat, got, tt.want)
			}
		})
	}
}
