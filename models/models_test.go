package models

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"sale", ModeSale, false},
		{" Rent ", ModeRent, false},
		{"SEARCH", ModeSearch, false},
		{"auction", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v; wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinCount(t *testing.T) {
	want := map[Mode]int{ModeSale: 1, ModeRent: 1, ModeSearch: 2}
	for _, m := range Modes {
		if got := m.MinCount(); got != want[m] {
			t.Errorf("%s.MinCount() = %d; want %d", m, got, want[m])
		}
	}
}

func TestCaseReportCountOK(t *testing.T) {
	tests := []struct {
		name string
		r    CaseReport
		want bool
	}{
		{"enough", CaseReport{Records: 2, MinCount: 2}, true},
		{"too few", CaseReport{Records: 1, MinCount: 2}, false},
		{"upstream", CaseReport{Records: 5, MinCount: 1, UpstreamError: "timeout"}, false},
	}
	for _, tt := range tests {
		if got := tt.r.CountOK(); got != tt.want {
			t.Errorf("%s: CountOK() = %v; want %v", tt.name, got, tt.want)
		}
	}
}
