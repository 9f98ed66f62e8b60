package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"national number with region", "(212) 555-0147", "US", "+12125550147"},
		{"already e164", "+12125550147", "US", "+12125550147"},
		{"international prefix overrides region", "+31612345678", "US", "+31612345678"},
		{"invalid keeps trimmed input", " not a number ", "US", "not a number"},
		{"empty", "", "US", ""},
		{"indian mobile", "09876543210", "IN", "+919876543210"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeE164(tt.input, tt.region); got != tt.want {
				t.Errorf("NormalizeE164(%q, %q) = %q, want %q", tt.input, tt.region, got, tt.want)
			}
		})
	}
}
