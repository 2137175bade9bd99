package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/quietloop/screensync/internal/notion"
)

// LoadNotionConfig assembles the Notion store configuration with this
// precedence:
// 1. Viper configuration (config file or SCREENSYNC_ env vars)
// 2. Direct environment variables (NOTION_API_KEY, ...)
// 3. Defaults
func LoadNotionConfig() (notion.Config, error) {
	cfg := notion.DefaultConfig()

	if v := viper.GetString("notion.api_key"); v != "" {
		cfg.APIKey = v
	}
	if v := viper.GetString("notion.database_id"); v != "" {
		cfg.DatabaseID = v
	}
	if v := viper.GetInt("notion.batch_size"); v > 0 {
		cfg.BatchSize = v
	}
	if v := viper.GetDuration("notion.write_interval"); v > 0 {
		cfg.WriteInterval = v
	}
	if v := viper.GetStringSlice("notion.browser_apps"); len(v) > 0 {
		cfg.BrowserApps = v
	}
	if v := viper.GetStringSlice("notion.top_domains"); len(v) > 0 {
		cfg.TopDomains = v
	}

	cfg.LoadFromEnv()

	if err := cfg.Validate(); err != nil {
		return notion.Config{}, err
	}
	return cfg, nil
}

// Timezone resolves the configured timezone, defaulting to the system
// local zone.
func Timezone() (*time.Location, error) {
	name := viper.GetString("timezone")
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// EventLogPath returns the configured knowledgeC.db override, or "" for
// the platform default.
func EventLogPath() string {
	return ExpandPath(viper.GetString("event_log"))
}
