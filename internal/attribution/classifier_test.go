package attribution

import "testing"

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Source
	}{
		{
			name: "click id beats contradicting utm source",
			in: Input{
				Data:      map[string]string{"gclid": "abc123"},
				UTMSource: "facebook",
			},
			want: SourceCampaign,
		},
		{
			name: "fbclid maps to facebook",
			in:   Input{Data: map[string]string{"fbclid": "xyz"}},
			want: SourceFacebook,
		},
		{
			name: "msclkid maps to campaign",
			in:   Input{Data: map[string]string{"msclkid": "m1"}},
			want: SourceCampaign,
		},
		{
			name: "li_fat_id maps to advertisement",
			in:   Input{Data: map[string]string{"li_fat_id": "l1"}},
			want: SourceAdvertisement,
		},
		{
			name: "utm source wins over referrer",
			in: Input{
				Data:      map[string]string{},
				UTMSource: "google",
				Referrer:  "https://facebook.com/some-page",
			},
			want: SourceCampaign,
		},
		{
			name: "utm source keyword instagram",
			in:   Input{UTMSource: "instagram_bio"},
			want: SourceFacebook,
		},
		{
			name: "utm source newsletter",
			in:   Input{UTMSource: "Spring_Newsletter"},
			want: SourceMassMailing,
		},
		{
			name: "utm source partner",
			in:   Input{UTMSource: "partner-network"},
			want: SourceSupplierReference,
		},
		{
			name: "utm source promo falls into campaign",
			in:   Input{UTMSource: "summer-promo"},
			want: SourceCampaign,
		},
		{
			name: "paid medium without source",
			in:   Input{UTMMedium: "cpc"},
			want: SourceCampaign,
		},
		{
			name: "social medium defaults to advertisement",
			in:   Input{UTMMedium: "social", UTMSource: "sprinklr"},
			want: SourceAdvertisement,
		},
		{
			name: "social medium with facebook source",
			in:   Input{UTMMedium: "social", UTMSource: "facebook_page"},
			want: SourceFacebook,
		},
		{
			name: "email medium",
			in:   Input{UTMMedium: "email"},
			want: SourceMassMailing,
		},
		{
			name: "facebook referrer",
			in:   Input{Referrer: "https://m.facebook.com/"},
			want: SourceFacebook,
		},
		{
			name: "google referrer",
			in:   Input{Referrer: "https://www.google.com/search?q=x"},
			want: SourceCampaign,
		},
		{
			name: "twitter shortener referrer",
			in:   Input{Referrer: "https://t.co/abc"},
			want: SourceAdvertisement,
		},
		{
			name: "external referrer becomes supplier reference",
			in: Input{
				Referrer:   "https://partner-site.example/recommended",
				OrgDomains: []string{"acme.example"},
			},
			want: SourceSupplierReference,
		},
		{
			name: "internal referrer is not a signal",
			in: Input{
				Referrer:   "https://www.acme.example/pricing",
				OrgDomains: []string{"acme.example"},
			},
			want: SourceWebsite,
		},
		{
			name: "scheme-less referrer still classified",
			in:   Input{Referrer: "facebook.com/groups/123"},
			want: SourceFacebook,
		},
		{
			name: "direct sentinel referrer",
			in:   Input{Referrer: "(direct)"},
			want: SourceWebsite,
		},
		{
			name: "nothing at all",
			in:   Input{},
			want: SourceWebsite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministicWithClickID(t *testing.T) {
	in := Input{
		Data:      map[string]string{"gclid": "abc", "fbclid": "def"},
		UTMSource: "newsletter",
		UTMMedium: "social",
		Referrer:  "https://linkedin.com/feed",
	}
	// gclid is listed before fbclid, so the label is fully determined.
	for i := 0; i < 10; i++ {
		if got := Classify(in); got != SourceCampaign {
			t.Fatalf("run %d: Classify() = %q, want %q", i, got, SourceCampaign)
		}
	}
}

func TestDetectClickID(t *testing.T) {
	click, ok := DetectClickID(map[string]string{"ttclid": "t-1"})
	if !ok {
		t.Fatal("expected a click ID")
	}
	if click.Platform != "TikTok" || click.Source != SourceAdvertisement || click.Value != "t-1" {
		t.Errorf("unexpected click: %+v", click)
	}

	if _, ok := DetectClickID(map[string]string{"utm_source": "google"}); ok {
		t.Error("utm_source must not be detected as a click ID")
	}

	if _, ok := DetectClickID(map[string]string{"gclid": ""}); ok {
		t.Error("empty click ID value must not match")
	}
}
