package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ParseDeviceInfo parses a User-Agent string into the flat key/value form
// stored on bookings.
func ParseDeviceInfo(userAgent string) map[string]string {
	if userAgent == "" || userAgent == "Unknown" {
		return map[string]string{
			"device_type": "unknown",
			"os":          "Unknown",
			"browser":     "Unknown",
			"platform":    "unknown",
		}
	}

	parser := ua.New(userAgent)
	browser, browserVer := parser.Browser()
	if browser == "" {
		browser = "Unknown"
	}

	info := map[string]string{
		"device_type": getDeviceType(parser),
		"os":          getOS(parser),
		"browser":     browser,
		"platform":    getPlatform(parser),
	}
	if browserVer != "" {
		info["browser_version"] = browserVer
	}
	if parser.Bot() {
		info["bot"] = "true"
	}
	return info
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
		"playbook",
		"nexus 7",
		"nexus 9",
		"nexus 10",
		"sm-t", // Samsung tablets
		"tab",
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

// getPlatform determines the platform (android, ios, windows, etc.)
func getPlatform(parser *ua.UserAgent) string {
	osName := strings.ToLower(parser.OSInfo().Name)

	platformMap := map[string]string{
		"android":   "android",
		"ios":       "ios",
		"iphone os": "ios",
		"windows":   "windows",
		"mac os x":  "mac",
		"macos":     "mac",
		"linux":     "linux",
		"ubuntu":    "linux",
	}

	for key, platform := range platformMap {
		if strings.Contains(osName, key) {
			return platform
		}
	}

	return "unknown"
}
