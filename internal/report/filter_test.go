package report

import (
	"testing"

	"site-cost-bot/internal/money"
)

func TestParseFilterDefaultsToCurrentMonth(t *testing.T) {
	cfg := money.DefaultConfig()
	now := d("2024-02-14")

	tests := []struct {
		name     string
		raw      RawFilter
		from, to string
	}{
		{"empty", RawFilter{}, "2024-02-01", "2024-02-29"},
		{"both set", RawFilter{From: "2024-01-10", To: "2024-01-20"}, "2024-01-10", "2024-01-20"},
		{"only from", RawFilter{From: "2024-01-10"}, "2024-01-10", "2024-02-29"},
		{"only to", RawFilter{To: "2024-02-10"}, "2024-02-01", "2024-02-10"},
		{"invalid from resets both", RawFilter{From: "10/01/2024", To: "2024-01-20"}, "2024-02-01", "2024-02-29"},
		{"invalid to resets both", RawFilter{From: "2024-01-10", To: "2024-13-40"}, "2024-02-01", "2024-02-29"},
		{"blank strings", RawFilter{From: "  ", To: ""}, "2024-02-01", "2024-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFilter(tt.raw, cfg, now)
			if !f.From.Equal(d(tt.from)) || !f.To.Equal(d(tt.to)) {
				t.Fatalf("range = %s..%s, want %s..%s",
					f.From.Format(dateLayout), f.To.Format(dateLayout), tt.from, tt.to)
			}
		})
	}
}

func TestParseFilterIDs(t *testing.T) {
	f := ParseFilter(RawFilter{
		ProjectIDs: []string{"3", "", " 1 ", "3", "abc", "0"},
		PhaseIDs:   []string{"4,5", "5"},
		WorkerIDs:  []string{""},
	}, money.DefaultConfig(), d("2024-02-14"))

	if len(f.ProjectIDs) != 2 || f.ProjectIDs[0] != 3 || f.ProjectIDs[1] != 1 {
		t.Fatalf("project ids = %v, want [3 1]", f.ProjectIDs)
	}
	if len(f.PhaseIDs) != 2 || f.PhaseIDs[0] != 4 || f.PhaseIDs[1] != 5 {
		t.Fatalf("phase ids = %v, want [4 5]", f.PhaseIDs)
	}
	if f.WorkerIDs != nil || f.TaskIDs != nil {
		t.Fatalf("blank ids must be dropped, got workers=%v tasks=%v", f.WorkerIDs, f.TaskIDs)
	}
	if !f.TaskFiltering() {
		t.Fatal("phase ids enable task filtering")
	}
}

func TestParseFilterCurrency(t *testing.T) {
	cfg := money.DefaultConfig()
	now := d("2024-02-14")

	if got := ParseFilter(RawFilter{Currency: "gbp"}, cfg, now).Currency; got != money.CurrencyGBP {
		t.Fatalf("currency = %q, want GBP", got)
	}
	if got := ParseFilter(RawFilter{Currency: "USD"}, cfg, now).Currency; got != money.CurrencyRON {
		t.Fatalf("unsupported currency = %q, want RON", got)
	}
}

func TestFilterContains(t *testing.T) {
	f := ParseFilter(RawFilter{From: "2024-01-10", To: "2024-01-20"}, money.DefaultConfig(), d("2024-02-14"))
	if !f.Contains(d("2024-01-10")) || !f.Contains(d("2024-01-20").Add(23*60*60*1e9)) {
		t.Fatal("range must be inclusive on both ends")
	}
	if f.Contains(d("2024-01-21")) || f.Contains(d("2024-01-09")) {
		t.Fatal("dates outside the range must be excluded")
	}
}
