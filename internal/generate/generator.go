// Package generate produces synthetic usage data for dry runs and tests.
package generate

import (
	"math/rand"
	"time"

	"github.com/quietloop/screensync/internal/model"
)

type sampleApp struct {
	bundleID    string
	displayName string
}

var sampleApps = []sampleApp{
	{"com.apple.Safari", "Safari"},
	{"com.microsoft.VSCode", "Visual Studio Code"},
	{"com.notion.desktop", "Notion"},
	{"com.figma.Desktop", "Figma"},
	{"com.apple.Terminal", "Terminal"},
	{"com.spotify.client", "Spotify"},
	{"com.google.Chrome", "Chrome"},
	{"com.slack.Slack", "Slack"},
	{"com.apple.Xcode", "Xcode"},
	{"com.adobe.Photoshop", "Photoshop"},
}

// Generator creates plausible raw usage events.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator with the given seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Events generates 10-50 random daytime sessions per day for the given
// number of days, ending today.
func (g *Generator) Events(days int) []model.RawEvent {
	end := time.Now()
	return g.EventsBetween(end.AddDate(0, 0, -days), end)
}

// EventsBetween generates sessions for each day in [start, end].
func (g *Generator) EventsBetween(start, end time.Time) []model.RawEvent {
	var events []model.RawEvent

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		count := 10 + g.rng.Intn(41)
		for i := 0; i < count; i++ {
			app := sampleApps[g.rng.Intn(len(sampleApps))]

			hour := 8 + g.rng.Intn(15) // 8AM to 10PM
			minute := g.rng.Intn(60)
			sessionStart := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())

			duration := time.Duration(1+g.rng.Intn(120)) * time.Minute
			events = append(events, model.RawEvent{
				AppID:       app.bundleID,
				DisplayName: app.displayName,
				Start:       sessionStart,
				End:         sessionStart.Add(duration),
				DeviceModel: "Mac",
				DeviceID:    "local",
				DeviceName:  "💻 Mac",
			})
		}
	}
	return events
}
