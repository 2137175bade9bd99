package notion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectTypeAndDomain(t *testing.T) {
	cfg := testConfig()
	cfg.BrowserApps = []string{"company.thebrowser.Browser"}
	cfg.TopDomains = []string{"github.com"}
	s := NewSyncer(NewMockStore(), cfg)

	tests := []struct {
		name       string
		appID      string
		display    string
		wantType   string
		wantDomain string
	}{
		{"plain app", "com.figma.Desktop", "Figma", "App", ""},
		{"web clip", "com.example.webClipWrapper.github.com", "GitHub", "Website", "com.example"},
		{"chrome web app", "com.google.Chrome.app.mail.google.com", "Gmail", "Website", "com.google"},
		{"configured browser", "company.thebrowser.Browser", "Arc", "Website", "web browsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotDomain := s.detectTypeAndDomain(tt.appID, tt.display)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantDomain, gotDomain)
		})
	}
}

func TestDetectBrowserWithoutDomains(t *testing.T) {
	cfg := testConfig()
	cfg.BrowserApps = []string{"com.google.Chrome"}
	s := NewSyncer(NewMockStore(), cfg)

	gotType, gotDomain := s.detectTypeAndDomain("com.google.Chrome", "Chrome")
	assert.Equal(t, "Website", gotType)
	assert.Empty(t, gotDomain)
}

func TestExtractDomainFallsBackToDisplayName(t *testing.T) {
	assert.Equal(t, "notion.so", extractDomain("wrapper", "notion.so clip"))
	assert.Empty(t, extractDomain("noidentifier", "NoDomain"))
}

func TestIsManualEntry(t *testing.T) {
	assert.True(t, IsManualEntry("Figma", ""))
	assert.True(t, IsManualEntry("Figma", "manual"))
	assert.True(t, IsManualEntry("Manual correction", "com.figma.Desktop"))
	assert.False(t, IsManualEntry("Figma", "com.figma.Desktop"))
}
