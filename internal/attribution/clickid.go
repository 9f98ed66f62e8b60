package attribution

// ClickID describes an ad-platform click identifier found in a request.
type ClickID struct {
	// Param is the query/field name the identifier arrived under (e.g. "gclid").
	Param string
	// Platform is the advertising platform that attaches the parameter.
	Platform string
	// Value is the opaque identifier itself.
	Value string
	// Source is the CRM source label the platform maps to.
	Source Source
}

// clickIDParams maps platform click-ID parameter names to their platform and
// CRM source label. Order matters: the first parameter present wins, so the
// highest-volume platforms are listed first.
var clickIDParams = []struct {
	param    string
	platform string
	source   Source
}{
	{"gclid", "Google", SourceCampaign},
	{"gbraid", "Google", SourceCampaign},
	{"wbraid", "Google", SourceCampaign},
	{"fbclid", "Facebook", SourceFacebook},
	{"msclkid", "Microsoft", SourceCampaign},
	{"li_fat_id", "LinkedIn", SourceAdvertisement},
	{"ttclid", "TikTok", SourceAdvertisement},
	{"twclid", "Twitter", SourceAdvertisement},
}

// DetectClickID scans the normalized request map for a known ad-click
// identifier. The result is independent of any UTM fields also present.
func DetectClickID(data map[string]string) (ClickID, bool) {
	for _, entry := range clickIDParams {
		if v := data[entry.param]; v != "" {
			return ClickID{
				Param:    entry.param,
				Platform: entry.platform,
				Value:    v,
				Source:   entry.source,
			}, true
		}
	}
	return ClickID{}, false
}
