package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jomei/notionapi"

	"github.com/quietloop/screensync/internal/common"
)

// Client implements PageStore against the Notion API.
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
}

// NewClient creates a Notion-backed page store and verifies connectivity.
// Construction fails outright on auth or connectivity problems.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		api:        notionapi.NewClient(notionapi.Token(cfg.APIKey)),
		databaseID: notionapi.DatabaseID(cfg.DatabaseID),
	}

	if _, err := c.api.Database.Get(ctx, c.databaseID); err != nil {
		return nil, common.NewUserError(
			"failed to connect to Notion; check the API key and database sharing settings",
			fmt.Errorf("%w: %v", common.ErrStoreConnection, err))
	}
	return c, nil
}

// QueryPage fetches one page of records.
func (c *Client) QueryPage(ctx context.Context, cursor string, pageSize int) (QueryResult, error) {
	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	if cursor != "" {
		req.StartCursor = notionapi.Cursor(cursor)
	}

	resp, err := c.api.Database.Query(ctx, c.databaseID, req)
	if err != nil {
		return QueryResult{}, wrapAPIError("query", err)
	}

	result := QueryResult{
		NextCursor: string(resp.NextCursor),
		HasMore:    resp.HasMore,
	}
	for _, page := range resp.Results {
		rec := Record{
			ID:      string(page.ID),
			AppName: extractTitle(page.Properties["App Name"]),
			AppID:   extractRichText(page.Properties["App ID"]),
			Date:    extractDate(page.Properties["Date"]),
		}
		rec.Manual = IsManualEntry(rec.AppName, rec.AppID)
		result.Records = append(result.Records, rec)
	}
	return result, nil
}

// CreateRecord inserts a new row.
func (c *Client) CreateRecord(ctx context.Context, fields RecordFields) error {
	_, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: buildProperties(fields),
	})
	if err != nil {
		return wrapAPIError("create", err)
	}
	return nil
}

// UpdateRecord rewrites the properties of an existing row.
func (c *Client) UpdateRecord(ctx context.Context, id string, fields RecordFields) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: buildProperties(fields),
	})
	if err != nil {
		return wrapAPIError("update", err)
	}
	return nil
}

// ArchiveRecord archives a row (Notion's delete).
func (c *Client) ArchiveRecord(ctx context.Context, id string) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{},
		Archived:   true,
	})
	if err != nil {
		return wrapAPIError("archive", err)
	}
	return nil
}

// categoryOptions is the fixed option set for the Category property.
var categoryOptions = []notionapi.Option{
	{Name: "Work", Color: notionapi.ColorBlue},
	{Name: "Learn", Color: notionapi.ColorYellow},
	{Name: "Socialize", Color: notionapi.ColorGreen},
	{Name: "Procrastinate", Color: notionapi.ColorRed},
	{Name: "Exercise", Color: notionapi.ColorPurple},
	{Name: "Family", Color: notionapi.ColorPink},
	{Name: "Sleeping", Color: notionapi.ColorGray},
	{Name: "Other", Color: notionapi.ColorDefault},
}

// EnsureSchema adds any missing properties to the database and returns
// the names it added. Existing properties are never overwritten.
func (c *Client) EnsureSchema(ctx context.Context) ([]string, error) {
	db, err := c.api.Database.Get(ctx, c.databaseID)
	if err != nil {
		return nil, wrapAPIError("schema fetch", err)
	}

	missing := notionapi.PropertyConfigs{}

	if _, ok := db.Properties["Category"]; !ok {
		missing["Category"] = &notionapi.SelectPropertyConfig{
			Type:   notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: categoryOptions},
		}
	}
	if _, ok := db.Properties["Type"]; !ok {
		missing["Type"] = &notionapi.SelectPropertyConfig{
			Type: notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: []notionapi.Option{
				{Name: "App", Color: notionapi.ColorBlue},
				{Name: "Website", Color: notionapi.ColorGreen},
			}},
		}
	}
	if _, ok := db.Properties["Domain"]; !ok {
		missing["Domain"] = &notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText}
	}
	if _, ok := db.Properties["URL"]; !ok {
		missing["URL"] = &notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText}
	}
	if _, ok := db.Properties["Last Updated"]; !ok {
		missing["Last Updated"] = &notionapi.DatePropertyConfig{Type: notionapi.PropertyConfigTypeDate}
	}
	if _, ok := db.Properties["Device"]; !ok {
		missing["Device"] = &notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText}
	}

	if len(missing) == 0 {
		return nil, nil
	}

	if _, err := c.api.Database.Update(ctx, c.databaseID, &notionapi.DatabaseUpdateRequest{
		Properties: missing,
	}); err != nil {
		return nil, wrapAPIError("schema update", err)
	}

	added := make([]string, 0, len(missing))
	for name := range missing {
		added = append(added, name)
	}
	return added, nil
}

// DatabaseInfo returns the target database's title and URL.
func (c *Client) DatabaseInfo(ctx context.Context) (DatabaseInfo, error) {
	db, err := c.api.Database.Get(ctx, c.databaseID)
	if err != nil {
		return DatabaseInfo{}, wrapAPIError("info", err)
	}

	info := DatabaseInfo{URL: db.URL}
	if len(db.Title) > 0 {
		info.Title = db.Title[0].PlainText
	}
	for name := range db.Properties {
		info.Properties = append(info.Properties, name)
	}
	return info, nil
}

func buildProperties(f RecordFields) notionapi.Properties {
	props := notionapi.Properties{
		"App Name": &notionapi.TitleProperty{
			Title: richText(f.AppName),
		},
		"App ID": &notionapi.RichTextProperty{
			RichText: richText(f.AppID),
		},
		"Date": &notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: dateOf(f.Date)},
		},
		"Minutes":  &notionapi.NumberProperty{Number: f.Minutes},
		"Hours":    &notionapi.NumberProperty{Number: f.Hours},
		"Sessions": &notionapi.NumberProperty{Number: float64(f.Sessions)},
		"Type": &notionapi.SelectProperty{
			Select: notionapi.Option{Name: f.Type},
		},
		"Device": &notionapi.RichTextProperty{
			RichText: richText(f.Device),
		},
		"Last Updated": &notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: dateOf(f.LastUpdated)},
		},
	}

	if f.Domain != "" {
		props["Domain"] = &notionapi.RichTextProperty{RichText: richText(f.Domain)}
	}
	if f.URL != "" {
		props["URL"] = &notionapi.RichTextProperty{RichText: richText(f.URL)}
	}
	if f.Category != "" {
		props["Category"] = &notionapi.SelectProperty{Select: notionapi.Option{Name: f.Category}}
	}
	if f.DayOfWeek != "" {
		props["Day of Week"] = &notionapi.SelectProperty{Select: notionapi.Option{Name: f.DayOfWeek}}
	}
	return props
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: content},
	}}
}

func dateOf(t time.Time) *notionapi.Date {
	d := notionapi.Date(t)
	return &d
}

func extractTitle(prop notionapi.Property) string {
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	return title.Title[0].PlainText
}

func extractRichText(prop notionapi.Property) string {
	rt, ok := prop.(*notionapi.RichTextProperty)
	if !ok || len(rt.RichText) == 0 {
		return ""
	}
	return rt.RichText[0].PlainText
}

func extractDate(prop notionapi.Property) string {
	dp, ok := prop.(*notionapi.DateProperty)
	if !ok || dp.Date == nil || dp.Date.Start == nil {
		return ""
	}
	return time.Time(*dp.Date.Start).Format("2006-01-02")
}

// wrapAPIError maps Notion API failures onto the shared sentinels: 429
// onto the retry sentinel, 404 onto not-found.
func wrapAPIError(op string, err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case 429:
			return fmt.Errorf("notion %s: %w: %v", op, common.ErrRateLimit, err)
		case 404:
			return fmt.Errorf("notion %s: %w: %v", op, common.ErrNotFound, err)
		}
	}
	return fmt.Errorf("notion %s: %w", op, err)
}
