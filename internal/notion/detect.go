package notion

import (
	"regexp"
	"strings"
)

// websiteIndicators are bundle-identifier fragments that mark web clips
// and browser-wrapped apps.
var websiteIndicators = []string{
	".webClipWrapper",
	"com.apple.WebKit.WebContent",
	"com.google.Chrome.app.",
	"com.microsoft.edgemac.app.",
	"org.mozilla.firefox.app.",
}

var domainPattern = regexp.MustCompile(`[a-zA-Z0-9-]+\.[a-zA-Z]{2,}`)

// detectTypeAndDomain classifies a row as App or Website and extracts a
// domain for websites. Cosmetic enrichment only; never part of the
// reconciliation key.
func (s *Syncer) detectTypeAndDomain(appID, displayName string) (string, string) {
	for _, indicator := range websiteIndicators {
		if strings.Contains(appID, indicator) {
			return "Website", extractDomain(appID, displayName)
		}
	}

	for _, browser := range s.cfg.BrowserApps {
		if appID == browser {
			if len(s.cfg.TopDomains) > 0 {
				return "Website", "web browsing"
			}
			return "Website", ""
		}
	}

	return "App", ""
}

// extractDomain pulls the first domain-shaped token out of the bundle
// identifier, falling back to the display name.
func extractDomain(appID, displayName string) string {
	if m := domainPattern.FindString(appID); m != "" {
		return m
	}
	return domainPattern.FindString(displayName)
}
