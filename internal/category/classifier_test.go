package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/screensync/internal/model"
)

const testConfig = `{
  "categories": {
    "Work": {
      "color": "blue",
      "apps": ["Figma", "com.apple.Terminal"],
      "bundle_patterns": ["com.microsoft.*"]
    },
    "Procrastinate": {
      "color": "red",
      "apps": ["YouTube"],
      "bundle_patterns": ["com.google.*"]
    },
    "Other": {
      "color": "default",
      "apps": [],
      "bundle_patterns": []
    }
  }
}`

func writeConfig(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewStore(path)
}

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(writeConfig(t, testConfig))
	require.NoError(t, err)
	require.False(t, c.UsedDefaults())
	return c
}

func TestClassify(t *testing.T) {
	c := newTestClassifier(t)

	tests := []struct {
		name        string
		appID       string
		displayName string
		want        string
	}{
		{"exact display name", "com.figma.Desktop", "Figma", "Work"},
		{"exact app id", "com.apple.Terminal", "Terminal", "Work"},
		{"pattern match", "com.microsoft.VSCode", "Visual Studio Code", "Work"},
		{"pattern is case-insensitive", "COM.MICROSOFT.TEAMS", "Teams", "Work"},
		{"pattern is substring search", "app.com.microsoft.wrapper", "Wrapped", "Work"},
		{"no match falls through", "org.mozilla.firefox", "Firefox", "Other"},
		{"empty identity", "", "", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.appID, tt.displayName))
		})
	}
}

func TestClassifyDropsInvalidPatternAtLoad(t *testing.T) {
	cfg := `{
  "categories": {
    "Work": {"color": "blue", "apps": [], "bundle_patterns": ["com.[bad", "com.microsoft.*"]}
  }
}`
	c, err := New(writeConfig(t, cfg))
	require.NoError(t, err)

	// The invalid pattern is dropped; the valid one still matches.
	assert.Equal(t, "Work", c.Classify("com.microsoft.VSCode", "Visual Studio Code"))
	assert.Equal(t, FallbackCategory, c.Classify("com.[bad", "Broken"))
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// com.google.Chrome matches both Work's exact list (below) and
	// Procrastinate's pattern; stored order decides.
	cfg := `{
  "categories": {
    "Procrastinate": {"color": "red", "apps": [], "bundle_patterns": ["com.google.*"]},
    "Work": {"color": "blue", "apps": ["com.google.Chrome"], "bundle_patterns": []}
  }
}`
	c, err := New(writeConfig(t, cfg))
	require.NoError(t, err)

	assert.Equal(t, "Procrastinate", c.Classify("com.google.Chrome", "Chrome"))
	assert.Equal(t, []string{"Procrastinate", "Work"}, c.Categories())
}

func TestClassifierDefaultsOnMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	c, err := New(store)
	require.NoError(t, err)

	assert.True(t, c.UsedDefaults())
	assert.Contains(t, c.Categories(), "Work")
	assert.Contains(t, c.Categories(), "Other")
}

func TestClassifierDefaultsOnMalformedFile(t *testing.T) {
	c, err := New(writeConfig(t, "{not json"))
	require.NoError(t, err)
	assert.True(t, c.UsedDefaults())
}

func TestAddMapping(t *testing.T) {
	t.Run("unknown category is a failure signal, not an error", func(t *testing.T) {
		c := newTestClassifier(t)
		ok, err := c.AddMapping("Slack", "Nonexistent")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("appends and persists", func(t *testing.T) {
		store := writeConfig(t, testConfig)
		c, err := New(store)
		require.NoError(t, err)

		ok, err := c.AddMapping("Slack", "Procrastinate")
		require.NoError(t, err)
		require.True(t, ok)

		// Reload from disk: the mapping and the rule order must survive.
		reloaded, err := New(store)
		require.NoError(t, err)
		assert.False(t, reloaded.UsedDefaults())
		assert.Equal(t, "Procrastinate", reloaded.Classify("com.slack.Slack", "Slack"))
		assert.Equal(t, []string{"Work", "Procrastinate", "Other"}, reloaded.Categories())
	})

	t.Run("duplicate app is a no-op", func(t *testing.T) {
		c := newTestClassifier(t)
		ok, err := c.AddMapping("YouTube", "Procrastinate")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestApply(t *testing.T) {
	c := newTestClassifier(t)

	sessions := []model.Session{
		{AppID: "com.microsoft.VSCode", DisplayName: "Visual Studio Code"},
		{AppID: "sleep.session", DisplayName: "Sleep", Category: "Sleeping"},
	}

	out := c.Apply(sessions)
	require.Len(t, out, 2)
	assert.Equal(t, "Work", out[0].Category)
	// An already-set category is left alone.
	assert.Equal(t, "Sleeping", out[1].Category)
	// Input untouched.
	assert.Empty(t, sessions[0].Category)
}

func TestUncategorized(t *testing.T) {
	c := newTestClassifier(t)

	sessions := []model.Session{
		{AppID: "org.mozilla.firefox", DisplayName: "Firefox"},
		{AppID: "org.mozilla.firefox", DisplayName: "Firefox"},
		{AppID: "com.apple.Terminal", DisplayName: "Terminal"},
	}

	assert.Equal(t, []string{"Firefox"}, c.Uncategorized(sessions))
}
