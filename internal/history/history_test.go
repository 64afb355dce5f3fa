package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenAt(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)

	entries := []Entry{
		{Intent: "list files", Command: "ls -la", Executed: true, ExitCode: 0},
		{Intent: "fetch page", Command: "http example.com", Executed: true, ExitCode: 127},
		{Intent: "fetch page", Command: "curl example.com", Executed: true, ExitCode: 0, Repaired: true},
	}
	for _, e := range entries {
		if err := store.Record(e); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d entries, want 3", len(got))
	}

	// Newest first.
	if got[0].Command != "curl example.com" || !got[0].Repaired {
		t.Errorf("newest entry = %+v, want the repaired curl command", got[0])
	}
	if got[2].Command != "ls -la" {
		t.Errorf("oldest entry = %+v, want ls -la", got[2])
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Record(Entry{Intent: "i", Command: "c"}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Recent(2) returned %d entries", len(got))
	}
}

func TestGet(t *testing.T) {
	store := openTestStore(t)

	ts := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)
	if err := store.Record(Entry{Timestamp: ts, Intent: "disk usage", Command: "df -h", Executed: true}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Command != "df -h" || got.Intent != "disk usage" || !got.Executed {
		t.Errorf("Get(1) = %+v", got)
	}
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, ts)
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.Get(42); err == nil {
		t.Error("expected an error for a missing entry")
	}
}
