package category

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// Store loads and saves the category rule file. The document shape is
// {"categories": {<name>: {"color": ..., "apps": [...], "bundle_patterns": [...]}}}
// and the object key order carries the rule precedence, so decoding walks
// the JSON tokens instead of unmarshalling into a map.
type Store struct {
	path string
}

// NewStore creates a config store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

type ruleBody struct {
	Color          string   `json:"color"`
	Apps           []string `json:"apps"`
	BundlePatterns []string `json:"bundle_patterns"`
}

// Load reads the rule set. A missing file or malformed document degrades
// to the built-in defaults with a logged warning; the second return value
// reports that the defaults were used.
func (s *Store) Load() (rules []Rule, usedDefaults bool, err error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Warn("Category config not found, using defaults", "path", s.path)
		return DefaultRules(), true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read category config: %w", err)
	}

	rules, err = parseRules(data)
	if err != nil {
		slog.Warn("Invalid category config, using defaults", "path", s.path, "error", err)
		return DefaultRules(), true, nil
	}
	return rules, false, nil
}

// Save overwrites the config file with the given rule set, preserving
// rule order.
func (s *Store) Save(rules []Rule) error {
	var buf bytes.Buffer
	buf.WriteString(`{"categories":{`)
	for i, r := range rules {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(r.Name)
		if err != nil {
			return fmt.Errorf("failed to encode category name: %w", err)
		}
		body, err := json.Marshal(ruleBody{
			Color:          r.Color,
			Apps:           emptyIfNil(r.Apps),
			BundlePatterns: emptyIfNil(r.BundlePatterns),
		})
		if err != nil {
			return fmt.Errorf("failed to encode category %q: %w", r.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString("}}")

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("failed to format category config: %w", err)
	}
	pretty.WriteByte('\n')

	if err := os.WriteFile(s.path, pretty.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save category config: %w", err)
	}
	return nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func parseRules(data []byte) ([]Rule, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var rules []Rule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		if key != "categories" {
			// Skip unknown top-level values.
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		for dec.More() {
			nameTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			name, ok := nameTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected category key %v", nameTok)
			}
			var body ruleBody
			if err := dec.Decode(&body); err != nil {
				return nil, fmt.Errorf("category %q: %w", name, err)
			}
			rules = append(rules, Rule{
				Name:           name,
				Color:          body.Color,
				Apps:           body.Apps,
				BundlePatterns: body.BundlePatterns,
			})
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
	}

	if rules == nil {
		return nil, fmt.Errorf("no categories defined")
	}
	return rules, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// DefaultRules is the built-in rule set used when no config is available.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:           "Work",
			Color:          "blue",
			Apps:           []string{"Safari", "Terminal", "Xcode", "Visual Studio Code"},
			BundlePatterns: []string{"com.microsoft.*", "com.apple.dt.Xcode"},
		},
		{
			Name:  "Other",
			Color: "default",
		},
	}
}
