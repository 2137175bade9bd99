// Package notion syncs usage rollups into a Notion database, reconciling
// against existing records and protecting manual edits.
package notion

import (
	"os"
	"strings"
	"time"

	"github.com/quietloop/screensync/internal/common"
)

// Config holds the configuration for the Notion store.
type Config struct {
	APIKey        string
	DatabaseID    string
	BrowserApps   []string
	TopDomains    []string
	BatchSize     int
	PageSize      int
	WriteInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults. The write
// interval keeps the pipeline under the Notion API's ~3 req/s ceiling.
func DefaultConfig() Config {
	return Config{
		BatchSize:     10,
		PageSize:      100,
		WriteInterval: 350 * time.Millisecond,
	}
}

// LoadFromEnv fills unset fields from environment variables.
func (c *Config) LoadFromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("NOTION_API_KEY")
	}
	if c.DatabaseID == "" {
		c.DatabaseID = os.Getenv("NOTION_DATABASE_ID")
	}
	if len(c.BrowserApps) == 0 {
		c.BrowserApps = splitList(os.Getenv("BROWSER_APPS"))
	}
	if len(c.TopDomains) == 0 {
		c.TopDomains = splitList(os.Getenv("TOP_DOMAINS"))
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return common.NewUserError(
			"NOTION_API_KEY is not set; run 'screensync configure' or export it",
			common.ErrMissingConfig)
	}
	if c.DatabaseID == "" {
		return common.NewUserError(
			"NOTION_DATABASE_ID is not set; run 'screensync configure' or export it",
			common.ErrMissingConfig)
	}
	if c.BatchSize <= 0 {
		return common.NewUserError("batch size must be positive", common.ErrInvalidConfig)
	}
	if c.PageSize <= 0 || c.PageSize > 100 {
		return common.NewUserError("page size must be between 1 and 100", common.ErrInvalidConfig)
	}
	if c.WriteInterval < 0 {
		return common.NewUserError("write interval cannot be negative", common.ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
