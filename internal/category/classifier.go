// Package category maps app identities to activity categories using an
// ordered, user-editable rule set.
package category

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/quietloop/screensync/internal/model"
)

// FallbackCategory is returned when no rule matches.
const FallbackCategory = "Other"

// Rule is one category with its match lists. Exact app names are checked
// before bundle patterns; glob `*` in a pattern is a regex wildcard and
// matching is a case-insensitive substring search, not a full match.
type Rule struct {
	Name           string
	Color          string
	Apps           []string
	BundlePatterns []string

	// compiled mirrors BundlePatterns; invalid patterns are dropped at
	// load time.
	compiled []*regexp.Regexp
}

// Classifier holds an owned, in-memory copy of the rule set for the
// duration of a run. Rule order is the first-match-wins contract and is
// preserved exactly as stored in the config file.
type Classifier struct {
	store        *Store
	rules        []Rule
	usedDefaults bool
}

// New creates a classifier backed by the given config store. A missing or
// malformed config degrades to the built-in defaults; callers can check
// UsedDefaults to surface that.
func New(store *Store) (*Classifier, error) {
	rules, usedDefaults, err := store.Load()
	if err != nil {
		return nil, err
	}
	compileRules(rules)
	return &Classifier{store: store, rules: rules, usedDefaults: usedDefaults}, nil
}

// compileRules builds the pattern matchers once; the rule set is
// immutable for the life of a run apart from AddMapping, which only
// touches the exact lists.
func compileRules(rules []Rule) {
	for i := range rules {
		rules[i].compiled = rules[i].compiled[:0]
		for _, pattern := range rules[i].BundlePatterns {
			re, err := regexp.Compile("(?i)" + strings.ReplaceAll(pattern, "*", ".*"))
			if err != nil {
				slog.Debug("Skipping invalid bundle pattern", "pattern", pattern, "error", err)
				continue
			}
			rules[i].compiled = append(rules[i].compiled, re)
		}
	}
}

// UsedDefaults reports whether the rule set came from the built-in
// defaults rather than the config file.
func (c *Classifier) UsedDefaults() bool {
	return c.usedDefaults
}

// Categories returns the category names in rule order.
func (c *Classifier) Categories() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Classify returns the first category whose exact list contains the
// display name or app identifier, or whose bundle pattern matches the
// app identifier. Pure function of the inputs and the current rule set.
func (c *Classifier) Classify(appID, displayName string) string {
	for _, rule := range c.rules {
		for _, name := range rule.Apps {
			if name == displayName || name == appID {
				return rule.Name
			}
		}
		for _, re := range rule.compiled {
			if re.MatchString(appID) {
				return rule.Name
			}
		}
	}
	return FallbackCategory
}

// Apply classifies every session that does not already carry a category.
// The input slice is not modified.
func (c *Classifier) Apply(sessions []model.Session) []model.Session {
	out := make([]model.Session, len(sessions))
	for i, s := range sessions {
		if s.Category == "" {
			s.Category = c.Classify(s.AppID, s.DisplayName)
		}
		out[i] = s
	}
	return out
}

// AddMapping appends app to the named category's exact list and persists
// the whole rule set. Returns false (and no error) if the category does
// not exist. The save overwrites the config file wholesale; concurrent
// writers are last-writer-wins.
func (c *Classifier) AddMapping(app, category string) (bool, error) {
	for i := range c.rules {
		if c.rules[i].Name != category {
			continue
		}
		for _, existing := range c.rules[i].Apps {
			if existing == app {
				return true, nil
			}
		}
		c.rules[i].Apps = append(c.rules[i].Apps, app)
		if err := c.store.Save(c.rules); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// Uncategorized returns the distinct display names of sessions that fall
// through to the fallback category.
func (c *Classifier) Uncategorized(sessions []model.Session) []string {
	seen := make(map[string]bool)
	var names []string
	for _, s := range sessions {
		if c.Classify(s.AppID, s.DisplayName) != FallbackCategory {
			continue
		}
		if !seen[s.DisplayName] {
			seen[s.DisplayName] = true
			names = append(names, s.DisplayName)
		}
	}
	return names
}
