package useragent

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		ua      string
		browser string
		os      string
		device  string
	}{
		{
			name:    "chrome on windows 10",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			browser: "Chrome",
			os:      "Windows 10",
			device:  DeviceDesktop,
		},
		{
			name:    "safari on mac",
			ua:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			browser: "Safari",
			os:      "macOS 10.15",
			device:  DeviceDesktop,
		},
		{
			name:    "chrome on android phone",
			ua:      "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
			browser: "Chrome",
			os:      "Android 14",
			device:  DeviceMobile,
		},
		{
			name:    "android without mobile is a tablet",
			ua:      "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
			browser: "Chrome",
			os:      "Android 13",
			device:  DeviceTablet,
		},
		{
			name:    "safari on iphone",
			ua:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
			browser: "Safari",
			os:      "iOS 17.1",
			device:  DeviceMobile,
		},
		{
			name:    "ipad is a tablet",
			ua:      "Mozilla/5.0 (iPad; CPU OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.6 Mobile/15E148 Safari/604.1",
			browser: "Safari",
			os:      "iOS 16.6",
			device:  DeviceTablet,
		},
		{
			name:    "edge is not chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
			browser: "Edge",
			os:      "Windows 10",
			device:  DeviceDesktop,
		},
		{
			name:    "opera is not chrome",
			ua:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0",
			browser: "Opera",
			os:      "Windows 10",
			device:  DeviceDesktop,
		},
		{
			name:    "firefox on linux",
			ua:      "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
			browser: "Firefox",
			os:      "Linux",
			device:  DeviceDesktop,
		},
		{
			name:    "old internet explorer",
			ua:      "Mozilla/5.0 (Windows NT 6.1; Trident/7.0; rv:11.0) like Gecko",
			browser: "Internet Explorer",
			os:      "Windows 7",
			device:  DeviceDesktop,
		},
		{
			name:    "empty degrades to unknown desktop",
			ua:      "",
			browser: "Unknown",
			os:      "Unknown",
			device:  DeviceDesktop,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.ua)
			if got.Browser != tt.browser || got.OS != tt.os || got.Device != tt.device {
				t.Errorf("Parse() = %+v, want {%s %s %s}", got, tt.browser, tt.os, tt.device)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	d := Details{Browser: "Chrome", OS: "Windows 10", Device: DeviceDesktop}
	if got := d.Label(); got != "Chrome on Windows 10" {
		t.Errorf("Label() = %q", got)
	}
}
