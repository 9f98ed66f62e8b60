// Package attribution classifies the marketing source of tracked traffic.
// The classifier is a total priority function over ad-click identifiers,
// UTM parameters, and referrer domains: the first rule that produces a
// decision wins, and later signals cannot override it.
package attribution

import (
	"net/url"
	"strings"
)

// Source is a CRM source label. The set is closed; the classifier never
// returns a value outside it.
type Source string

const (
	SourceFacebook          Source = "Facebook"
	SourceCampaign          Source = "Campaign"
	SourceAdvertisement     Source = "Advertisement"
	SourceMassMailing       Source = "Mass Mailing"
	SourceSupplierReference Source = "Supplier Reference"
	SourceWebsite           Source = "Website"
)

// Input carries the signals the classifier inspects.
type Input struct {
	// Data is the full normalized request map, scanned for ad-click IDs.
	Data map[string]string
	// UTMSource and UTMMedium are the already-extracted UTM values.
	UTMSource string
	UTMMedium string
	// Referrer is the raw referrer URL.
	Referrer string
	// OrgDomains is the resolved organization's own domain list, used to
	// decide whether a referrer is external.
	OrgDomains []string
	// HasEmail indicates an identified (returning) user.
	HasEmail bool
}

// utmSourceKeywords is the fuzzy keyword table for utm_source values.
// Order matters: first matching group wins.
var utmSourceKeywords = []struct {
	source   Source
	keywords []string
}{
	{SourceFacebook, []string{"facebook", "fb", "instagram", "ig"}},
	{SourceCampaign, []string{"google", "google_ads", "adwords", "gclid"}},
	{SourceAdvertisement, []string{"linkedin", "twitter", "x.com", "t.co"}},
	{SourceMassMailing, []string{"email", "newsletter", "mailchimp", "sendinblue", "mail"}},
	{SourceSupplierReference, []string{"referral", "partner", "affiliate"}},
	{SourceCampaign, []string{"campaign", "promo", "offer", "sale", "launch", "paid", "ad"}},
}

var paidMediums = map[string]bool{
	"cpc": true, "ppc": true, "paid": true, "display": true,
	"banner": true, "paid_social": true, "paidsocial": true,
}

var socialMediums = map[string]bool{
	"social": true, "social_media": true, "socialmedia": true,
}

// referrerDomains maps known referrer domains to source labels.
var referrerDomains = []struct {
	source  Source
	domains []string
}{
	{SourceFacebook, []string{"facebook.com", "fb.com", "m.facebook.com", "l.facebook.com", "lm.facebook.com", "instagram.com"}},
	{SourceCampaign, []string{"google.com", "google.co", "googleads", "doubleclick"}},
	{SourceAdvertisement, []string{"linkedin.com", "twitter.com", "x.com", "t.co"}},
}

// referrer values browsers and tag managers send when there is no referrer.
var referrerSentinels = map[string]bool{
	"": true, "direct": true, "null": true, "undefined": true, "(direct)": true,
}

// Classify assigns a source label to one tracked request.
//
// Priority, first decision wins:
//  1. ad-click identifier (machine-attached, most trustworthy)
//  2. utm_source keyword table
//  3. utm_medium paid/social/email buckets
//  4. referrer domain; external referrers become Supplier Reference
//  5. Website (direct or unidentified traffic)
func Classify(in Input) Source {
	if click, ok := DetectClickID(in.Data); ok {
		return click.Source
	}

	utmSource := strings.ToLower(strings.TrimSpace(in.UTMSource))
	if utmSource != "" {
		for _, group := range utmSourceKeywords {
			for _, kw := range group.keywords {
				if strings.Contains(utmSource, kw) {
					return group.source
				}
			}
		}
	}

	utmMedium := strings.ToLower(strings.TrimSpace(in.UTMMedium))
	if utmMedium != "" {
		switch {
		case paidMediums[utmMedium]:
			return SourceCampaign
		case socialMediums[utmMedium]:
			if strings.Contains(utmSource, "facebook") {
				return SourceFacebook
			}
			return SourceAdvertisement
		case utmMedium == "email":
			return SourceMassMailing
		}
	}

	if source, ok := classifyReferrer(in.Referrer, in.OrgDomains); ok {
		return source
	}

	return SourceWebsite
}

func classifyReferrer(referrer string, orgDomains []string) (Source, bool) {
	ref := strings.ToLower(strings.TrimSpace(referrer))
	if referrerSentinels[ref] {
		return "", false
	}

	domain := refDomain(ref)
	if domain == "" {
		return "", false
	}

	for _, group := range referrerDomains {
		for _, d := range group.domains {
			if strings.Contains(domain, d) {
				return group.source, true
			}
		}
	}

	for _, own := range orgDomains {
		if own != "" && strings.Contains(domain, strings.ToLower(own)) {
			// Internal navigation, not a source signal.
			return "", false
		}
	}

	return SourceSupplierReference, true
}

// refDomain extracts the host from a referrer that may arrive without a scheme.
func refDomain(ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if host := parsed.Hostname(); host != "" {
		return host
	}
	host, _, _ := strings.Cut(parsed.Path, "/")
	return host
}
