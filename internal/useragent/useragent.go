// Package useragent classifies browser, operating system, and device type
// from a raw User-Agent header. Detection is best-effort substring matching;
// an empty or unrecognized string degrades to Unknown values and never fails.
package useragent

import (
	"regexp"
	"strings"
)

// Device classification values stored on visitors and activities.
const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
)

// Details holds the parsed browser context of one request.
type Details struct {
	Browser string
	OS      string
	Device  string
}

var (
	macVersionRe     = regexp.MustCompile(`Mac OS X (\d+[._]\d+)`)
	androidVersionRe = regexp.MustCompile(`Android (\d+\.?\d*)`)
	iosVersionRe     = regexp.MustCompile(`OS (\d+_\d+)`)
)

var mobileIndicators = []string{
	"Mobile", "Android", "iPhone", "iPod", "BlackBerry",
	"Windows Phone", "Opera Mini", "IEMobile",
}

var tabletIndicators = []string{"iPad", "Tablet", "PlayBook", "Kindle"}

// Parse extracts browser, OS, and device type from a User-Agent string.
func Parse(userAgent string) Details {
	if userAgent == "" {
		return Details{Browser: "Unknown", OS: "Unknown", Device: DeviceDesktop}
	}

	return Details{
		Browser: detectBrowser(userAgent),
		OS:      detectOS(userAgent),
		Device:  detectDevice(userAgent),
	}
}

// Order matters: Edge and Opera embed "Chrome", Chrome embeds "Safari".
func detectBrowser(ua string) string {
	switch {
	case strings.Contains(ua, "Edg/") || strings.Contains(ua, "Edge/"):
		return "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		return "Opera"
	case strings.Contains(ua, "Chrome/") && strings.Contains(ua, "Safari/"):
		if strings.Contains(ua, "Brave") {
			return "Brave"
		}
		return "Chrome"
	case strings.Contains(ua, "Safari/") && !strings.Contains(ua, "Chrome"):
		return "Safari"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "MSIE") || strings.Contains(ua, "Trident/"):
		return "Internet Explorer"
	}
	return "Unknown"
}

func detectOS(ua string) string {
	switch {
	case strings.Contains(ua, "Windows NT 10"):
		return "Windows 10"
	case strings.Contains(ua, "Windows NT 6.3"):
		return "Windows 8.1"
	case strings.Contains(ua, "Windows NT 6.2"):
		return "Windows 8"
	case strings.Contains(ua, "Windows NT 6.1"):
		return "Windows 7"
	case strings.Contains(ua, "Windows"):
		return "Windows"
	// iPhone/iPad UAs contain "like Mac OS X", so iOS must be checked first.
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad") || strings.Contains(ua, "iPod"):
		if m := iosVersionRe.FindStringSubmatch(ua); m != nil {
			return "iOS " + strings.ReplaceAll(m[1], "_", ".")
		}
		return "iOS"
	case strings.Contains(ua, "Mac OS X"):
		if m := macVersionRe.FindStringSubmatch(ua); m != nil {
			return "macOS " + strings.ReplaceAll(m[1], "_", ".")
		}
		return "macOS"
	case strings.Contains(ua, "Android"):
		if m := androidVersionRe.FindStringSubmatch(ua); m != nil {
			return "Android " + m[1]
		}
		return "Android"
	case strings.Contains(ua, "CrOS"):
		return "Chrome OS"
	case strings.Contains(ua, "Ubuntu"):
		return "Ubuntu"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	}
	return "Unknown"
}

func detectDevice(ua string) string {
	for _, indicator := range tabletIndicators {
		if strings.Contains(ua, indicator) {
			return DeviceTablet
		}
	}

	// Android user agents that omit "Mobile" are tablets.
	if strings.Contains(ua, "Android") && !strings.Contains(ua, "Mobile") {
		return DeviceTablet
	}

	for _, indicator := range mobileIndicators {
		if strings.Contains(ua, indicator) {
			return DeviceMobile
		}
	}

	return DeviceDesktop
}

// Label formats the browser context for activity snapshots, e.g. "Chrome on Windows 10".
func (d Details) Label() string {
	return d.Browser + " on " + d.OS
}
