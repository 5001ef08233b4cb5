package utils

import (
	"fmt"
	"strings"

	ua "github.com/mssola/user_agent"
)

// DeviceInfo holds parsed information from a User-Agent string
type DeviceInfo struct {
	DeviceType string `json:"device_type"` // mobile, tablet, desktop
	OS         string `json:"os"`          // Android 12, iOS 15, Windows 10, etc.
	Browser    string `json:"browser"`     // Chrome, Safari, Firefox, etc.
	IsBot      bool   `json:"is_bot"`
	Raw        string `json:"raw"`
}

// ParseUserAgent parses a User-Agent string and extracts device information
func ParseUserAgent(userAgent string) DeviceInfo {
	if userAgent == "" || userAgent == "Unknown" {
		return DeviceInfo{
			DeviceType: "unknown",
			OS:         "Unknown",
			Browser:    "Unknown",
			Raw:        userAgent,
		}
	}

	parser := ua.New(userAgent)

	return DeviceInfo{
		DeviceType: getDeviceType(parser),
		OS:         getOS(parser),
		Browser:    getBrowser(parser),
		IsBot:      parser.Bot(),
		Raw:        userAgent,
	}
}

// DeviceLabel builds the short device description stored with login
// records, e.g. "Chrome on Android 13 (mobile)"
func DeviceLabel(userAgent string) string {
	info := ParseUserAgent(userAgent)
	if info.Browser == "Unknown" && info.OS == "Unknown" {
		return "Unknown device"
	}
	return fmt.Sprintf("%s on %s (%s)", info.Browser, info.OS, info.DeviceType)
}

// getDeviceType determines if the device is mobile, tablet, or desktop
func getDeviceType(parser *ua.UserAgent) string {
	if parser.Mobile() {
		if isTablet(parser.UA()) {
			return "tablet"
		}
		return "mobile"
	}
	return "desktop"
}

// isTablet checks if the user agent indicates a tablet device
func isTablet(userAgent string) bool {
	userAgentLower := strings.ToLower(userAgent)

	tabletIndicators := []string{
		"ipad",
		"tablet",
		"kindle",
		"nexus 7",
		"nexus 9",
		"nexus 10",
		"sm-t", // Samsung tablets
	}

	for _, indicator := range tabletIndicators {
		if strings.Contains(userAgentLower, indicator) {
			return true
		}
	}

	return false
}

// getOS extracts operating system name and version
func getOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

// getBrowser extracts browser name
func getBrowser(parser *ua.UserAgent) string {
	name, _ := parser.Browser()
	if name == "" {
		return "Unknown"
	}
	return name
}
