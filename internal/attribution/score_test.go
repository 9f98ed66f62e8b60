package attribution

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		utmSource string
		utmMedium string
		hasEmail  bool
		hasPhone  bool
		want      int
	}{
		{"base only", "", "", false, false, 50},
		{"google cpc with both contacts", "google", "cpc", true, true, 100},
		{"unknown source gets small bonus", "somewhere", "", false, false, 55},
		{"email medium and email contact", "", "email", true, false, 72},
		{"capped at 100", "google", "cpc", true, true, 100},
		{"phone only", "", "", false, true, 55},
		{"case insensitive source", "LinkedIn", "", false, false, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.utmSource, tt.utmMedium, tt.hasEmail, tt.hasPhone)
			if got != tt.want {
				t.Errorf("Score(%q, %q, %v, %v) = %d, want %d",
					tt.utmSource, tt.utmMedium, tt.hasEmail, tt.hasPhone, got, tt.want)
			}
		})
	}
}
