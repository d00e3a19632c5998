// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "strings"

// DeviceUnknown fills every fingerprint field that could not be derived.
const DeviceUnknown = "unknown"

// Device is the fingerprint attached to sessions and login audit entries.
type Device struct {
	IPAddress  string
	UserAgent  string
	DeviceID   string
	DeviceType string
	Browser    string
	OS         string
}

// uaRule maps a user-agent token to a label. Order matters: the first match wins.
type uaRule struct {
	token string
	label string
}

var (
	browserRules = []uaRule{
		{"edg/", "Edge"},
		{"opr/", "Opera"},
		{"samsungbrowser", "Samsung Internet"},
		{"firefox/", "Firefox"},
		{"fxios", "Firefox"},
		{"crios", "Chrome"},
		{"chrome/", "Chrome"},
		{"safari/", "Safari"},
		{"okhttp", "Android App"},
		{"cfnetwork", "iOS App"},
		{"curl/", "curl"},
	}

	osRules = []uaRule{
		{"windows", "Windows"},
		{"iphone", "iOS"},
		{"ipad", "iOS"},
		{"android", "Android"},
		{"mac os x", "macOS"},
		{"cros", "ChromeOS"},
		{"linux", "Linux"},
	}
)

/*
Fingerprint derives a device description from request metadata.

Classification is a best-effort heuristic. It never fails: any field it cannot
derive, including after a panic in the classifier, is set to [DeviceUnknown].
*/
func Fingerprint(ipAddress, userAgent, deviceID string) (device Device) {
	device = Device{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		DeviceID:   deviceID,
		DeviceType: DeviceUnknown,
		Browser:    DeviceUnknown,
		OS:         DeviceUnknown,
	}

	defer func() {
		if recover() != nil {
			device.DeviceType, device.Browser, device.OS = DeviceUnknown, DeviceUnknown, DeviceUnknown
		}
	}()

	agent := strings.ToLower(userAgent)
	if agent == "" {
		return device
	}

	device.Browser = match(agent, browserRules)
	device.OS = match(agent, osRules)
	device.DeviceType = deviceType(agent)
	return device
}

func match(agent string, rules []uaRule) string {
	for _, rule := range rules {
		if strings.Contains(agent, rule.token) {
			return rule.label
		}
	}
	return DeviceUnknown
}

func deviceType(agent string) string {
	switch {
	case strings.Contains(agent, "bot") || strings.Contains(agent, "spider") || strings.Contains(agent, "curl/"):
		return "bot"
	case strings.Contains(agent, "ipad") || strings.Contains(agent, "tablet"):
		return "tablet"
	case strings.Contains(agent, "android") && !strings.Contains(agent, "mobile"):
		return "tablet"
	case strings.Contains(agent, "mobi") || strings.Contains(agent, "iphone") || strings.Contains(agent, "okhttp"):
		return "mobile"
	case strings.Contains(agent, "windows") || strings.Contains(agent, "macintosh") || strings.Contains(agent, "linux") || strings.Contains(agent, "cros"):
		return "desktop"
	default:
		return DeviceUnknown
	}
}
