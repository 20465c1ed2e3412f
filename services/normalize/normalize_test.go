package normalize

import "testing"

func TestDurationMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		iso  string
		want int
	}{
		{name: "hours_minutes", iso: "PT2H15M", want: 135},
		{name: "minutes_only", iso: "PT45M", want: 45},
		{name: "hours_only", iso: "PT3H", want: 180},
		{name: "with_days", iso: "P1DT2H", want: 1560},
		{name: "with_seconds", iso: "PT1H30M90S", want: 91},
		{name: "empty", iso: "", want: 0},
		{name: "garbage", iso: "2h15m", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DurationMinutes(tt.iso); got != tt.want {
				t.Fatalf("DurationMinutes(%q) = %d, want %d", tt.iso, got, tt.want)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain", raw: "1234.50", want: 1234.50},
		{name: "thousands_comma_and_currency", raw: "1,234.50 SAR", want: 1234.50},
		{name: "currency_prefix", raw: "USD 99.99", want: 99.99},
		{name: "dot_thousands", raw: "1.234.50", want: 1234.50},
		{name: "integer", raw: "750", want: 750},
		{name: "whitespace", raw: "  420.00\n", want: 420},
		{name: "unparseable", raw: "call for price", want: 0},
		{name: "empty", raw: "", want: 0},
		{name: "negative_treated_as_zero", raw: "-50.00", want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ParseAmount(tt.raw); got != tt.want {
				t.Fatalf("ParseAmount(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDedupeCabins(t *testing.T) {
	t.Parallel()

	got := DedupeCabins([]string{"ECONOMY", "economy", "BUSINESS", "", "ECONOMY"})
	want := []string{"ECONOMY", "BUSINESS"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestRefundableTriState(t *testing.T) {
	t.Parallel()

	if got := Refundable(false, true); got != nil {
		t.Fatalf("expected nil when upstream states no policy, got %v", *got)
	}
	if got := Refundable(true, true); got == nil || !*got {
		t.Fatal("expected explicit true")
	}
	if got := Refundable(true, false); got == nil || *got {
		t.Fatal("expected explicit false")
	}
}
