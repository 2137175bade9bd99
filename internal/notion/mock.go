package notion

import (
	"context"
	"fmt"
	"sync"
)

// MockStore is an in-memory PageStore for tests.
type MockStore struct {
	mu      sync.Mutex
	records []Record
	fields  map[string]RecordFields

	CreateErr  error
	UpdateErr  error
	QueryErr   error
	QueryFails int // fail this many queries before succeeding

	Creates  int
	Updates  int
	Archives int
	Queries  int

	nextID int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{fields: make(map[string]RecordFields)}
}

// Seed inserts a pre-existing record directly.
func (m *MockStore) Seed(appName, appID, date string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := fmt.Sprintf("page-%d", m.nextID)
	m.records = append(m.records, Record{
		ID:      id,
		AppName: appName,
		AppID:   appID,
		Date:    date,
		Manual:  IsManualEntry(appName, appID),
	})
	return id
}

// Len returns the number of live records.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// Fields returns the last written fields for a record id.
func (m *MockStore) Fields(id string) (RecordFields, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.fields[id]
	return f, ok
}

// QueryPage returns records in fixed-size pages.
func (m *MockStore) QueryPage(_ context.Context, cursor string, pageSize int) (QueryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries++
	if m.QueryErr != nil {
		if m.QueryFails > 0 {
			// Transient failure mode: fail this many times, then recover.
			m.QueryFails--
			err := m.QueryErr
			if m.QueryFails == 0 {
				m.QueryErr = nil
			}
			return QueryResult{}, err
		}
		return QueryResult{}, m.QueryErr
	}

	start := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "cursor-%d", &start); err != nil {
			return QueryResult{}, fmt.Errorf("bad cursor %q", cursor)
		}
	}

	end := start + pageSize
	if end > len(m.records) {
		end = len(m.records)
	}

	result := QueryResult{Records: append([]Record(nil), m.records[start:end]...)}
	if end < len(m.records) {
		result.HasMore = true
		result.NextCursor = fmt.Sprintf("cursor-%d", end)
	}
	return result, nil
}

// CreateRecord appends a new record.
func (m *MockStore) CreateRecord(_ context.Context, fields RecordFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Creates++
	if m.CreateErr != nil {
		return m.CreateErr
	}

	m.nextID++
	id := fmt.Sprintf("page-%d", m.nextID)
	m.records = append(m.records, Record{
		ID:      id,
		AppName: fields.AppName,
		AppID:   fields.AppID,
		Date:    fields.Date.Format("2006-01-02"),
		Manual:  IsManualEntry(fields.AppName, fields.AppID),
	})
	m.fields[id] = fields
	return nil
}

// UpdateRecord rewrites an existing record's fields.
func (m *MockStore) UpdateRecord(_ context.Context, id string, fields RecordFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Updates++
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	for i, rec := range m.records {
		if rec.ID == id {
			m.records[i].AppName = fields.AppName
			m.records[i].AppID = fields.AppID
			m.records[i].Date = fields.Date.Format("2006-01-02")
			m.fields[id] = fields
			return nil
		}
	}
	return fmt.Errorf("record %s: not found", id)
}

// ArchiveRecord removes a record.
func (m *MockStore) ArchiveRecord(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Archives++
	for i, rec := range m.records {
		if rec.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("record %s: not found", id)
}

// EnsureSchema is a no-op for the mock.
func (m *MockStore) EnsureSchema(_ context.Context) ([]string, error) {
	return nil, nil
}

// DatabaseInfo returns a fixed descriptor.
func (m *MockStore) DatabaseInfo(_ context.Context) (DatabaseInfo, error) {
	return DatabaseInfo{Title: "Mock Usage DB"}, nil
}
