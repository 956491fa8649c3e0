package tts

import "testing"

func TestParseRate(t *testing.T) {
	tests := []struct {
		rate    string
		want    float64
		wantErr bool
	}{
		{"", 1.0, false},
		{"+15%", 1.15, false},
		{"-10%", 0.90, false},
		{"+0%", 1.0, false},
		{"25%", 1.25, false},
		{"+500%", 4.0, false},  // clamped to provider max
		{"-100%", 0.25, false}, // clamped to provider min
		{"fast", 0, true},
		{"+15", 0, true},
		{"+x%", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.rate, func(t *testing.T) {
			got, err := ParseRate(tt.rate)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRate(%q) expected error, got %v", tt.rate, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRate(%q) error = %v", tt.rate, err)
			}
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("ParseRate(%q) = %v, want %v", tt.rate, got, tt.want)
			}
		})
	}
}
