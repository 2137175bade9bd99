package reader

import "strings"

// knownApps maps bundle identifiers whose last component is unhelpful to
// their real product names.
var knownApps = map[string]string{
	"company.thebrowser.Browser":     "Arc",
	"com.figma.Desktop":              "Figma",
	"com.todesktop.230313mzl4w4u92":  "Cursor",
	"notion.id":                      "Notion",
	"com.adobe.Photoshop":            "Photoshop",
	"com.adobe.illustrator":          "Illustrator",
	"com.spotify.client":             "Spotify",
	"com.readdle.smartemail-Mac":     "Spark Email",
	"us.zoom.xos":                    "Zoom",
	"com.apple.FaceTime":             "FaceTime",
	"com.apple.Safari":               "Safari",
	"com.apple.finder":               "Finder",
	"com.d1v1b.ToWebP2":              "ToWebP",
	"com.garagecube.MadMapperDemo":   "MadMapper",
	"com.apple.systempreferences":    "System Preferences",
}

// knownDevices maps hardware model identifiers to readable names.
var knownDevices = map[string]string{
	"iMac14,1":   "🖥️ iMac",
	"iPad8,11":   "📱 iPad Pro",
	"iPhone12,8": "📱 iPhone 12 mini",
	"iPhone13,3": "📱 iPhone 14 Pro",
	"iPhone16,2": "📱 iPhone 16 Pro",
}

// CleanAppName derives a display name from a bundle identifier. Known
// bundles use the mapping table; reverse-DNS identifiers fall back to
// their last meaningful component.
func CleanAppName(appID string) string {
	if appID == "" {
		return appID
	}

	if name, ok := knownApps[appID]; ok {
		return name
	}

	if strings.Count(appID, ".") >= 2 {
		parts := strings.Split(appID, ".")
		last := parts[len(parts)-1]
		// "com.vendor.Desktop" style bundles carry the product name one
		// component earlier.
		if strings.EqualFold(last, "desktop") && len(parts) > 2 {
			return capitalize(parts[len(parts)-2])
		}
		return capitalize(last)
	}

	return appID
}

// FormatDeviceName formats a device model into a readable name.
func FormatDeviceName(deviceModel string) string {
	if deviceModel == "" || deviceModel == "Mac" {
		return "💻 Mac"
	}
	if name, ok := knownDevices[deviceModel]; ok {
		return name
	}
	return "📱 " + deviceModel
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
