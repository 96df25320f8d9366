package history

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []*Entry{
		{RequestID: "req-1", Query: "mountain lake", MaxResults: 10, ResultCount: 10, Status: "ok", DurationMs: 340, ClientIP: "10.0.0.1"},
		{RequestID: "req-2", Query: "red panda", MaxResults: 5, ResultCount: 5, Validated: true, Status: "ok", DurationMs: 210, ClientIP: "10.0.0.2"},
		{RequestID: "req-3", Query: "red panda", MaxResults: 5, ResultCount: 0, Status: "rate_limited", DurationMs: 6400, ClientIP: "10.0.0.2"},
	}
	for _, entry := range entries {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if entry.ID == 0 {
			t.Error("Record() should set entry ID")
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d entries", len(recent))
	}

	// Новые записи идут первыми
	if recent[0].Query != "red panda" || recent[0].Status != "rate_limited" {
		t.Errorf("Unexpected newest entry: %+v", recent[0])
	}
	if recent[1].RequestID != "req-2" || !recent[1].Validated {
		t.Errorf("Unexpected second entry: %+v", recent[1])
	}
	if recent[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be parsed from the database")
	}
}

func TestStore_RecordRejectsEmptyQuery(t *testing.T) {
	store := newTestStore(t)

	if err := store.Record(context.Background(), &Entry{Query: ""}); err == nil {
		t.Error("Record() should reject an empty query")
	}
	if err := store.Record(context.Background(), nil); err == nil {
		t.Error("Record() should reject a nil entry")
	}
}

func TestStore_RecentDefaultLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if err := store.Record(ctx, &Entry{Query: "query", Status: "ok"}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	recent, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 20 {
		t.Errorf("Recent(0) returned %d entries, want default limit 20", len(recent))
	}
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seed := []*Entry{
		{Query: "cats", Status: "ok", DurationMs: 100, ResultCount: 10},
		{Query: "cats", Status: "ok", DurationMs: 300, ResultCount: 10},
		{Query: "dogs", Status: "ok", DurationMs: 200, ResultCount: 4},
		{Query: "birds", Status: "failed", DurationMs: 50, ResultCount: 0},
	}
	for _, entry := range seed {
		if err := store.Record(ctx, entry); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}

	if stats.TotalSearches != 4 {
		t.Errorf("TotalSearches = %d, want 4", stats.TotalSearches)
	}
	if stats.UniqueQueries != 3 {
		t.Errorf("UniqueQueries = %d, want 3", stats.UniqueQueries)
	}
	if stats.StatusCounts["ok"] != 3 || stats.StatusCounts["failed"] != 1 {
		t.Errorf("Unexpected status counts: %v", stats.StatusCounts)
	}
	if stats.AvgDurationMs != 162.5 {
		t.Errorf("AvgDurationMs = %f, want 162.5", stats.AvgDurationMs)
	}
	if stats.AvgResultCount != 6.0 {
		t.Errorf("AvgResultCount = %f, want 6.0", stats.AvgResultCount)
	}
	if len(stats.TopQueries) == 0 || stats.TopQueries[0].Query != "cats" || stats.TopQueries[0].Count != 2 {
		t.Errorf("Unexpected top queries: %+v", stats.TopQueries)
	}
}

func TestStore_StatsEmpty(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalSearches != 0 || stats.UniqueQueries != 0 {
		t.Errorf("Empty store should report zero totals: %+v", stats)
	}
	if len(stats.TopQueries) != 0 {
		t.Errorf("Empty store should have no top queries: %+v", stats.TopQueries)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		zero bool
	}{
		{"2026-08-30T12:00:00Z", false},
		{"2026-08-30 12:00:00", false},
		{"not a timestamp", true},
		{"", true},
	}

	for _, tt := range tests {
		got := parseTimestamp(tt.raw)
		if got.IsZero() != tt.zero {
			t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.raw, got.IsZero(), tt.zero)
		}
	}
}

func TestStore_RecordKeepsExplicitTimestamp(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	if err := store.Record(ctx, &Entry{Query: "archive", Status: "ok", CreatedAt: created}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	recent, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if !recent[0].CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", recent[0].CreatedAt, created)
	}
}
