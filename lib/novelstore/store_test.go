package novelstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sang765/tmr-novel-tracking/lib/timezone"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsFirstRun(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"))

	snapshot := store.Load(context.Background())
	require.NotNil(t, snapshot.Novels)
	require.Empty(t, snapshot.Novels)
}

func TestLoadMalformedFileIsFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	err := os.WriteFile(path, []byte("{not json"), 0644)
	require.NoError(t, err)

	snapshot := NewStore(path).Load(context.Background())
	require.Empty(t, snapshot.Novels)
}

func TestLoadUnexpectedVersionIsFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	err := os.WriteFile(path, []byte(`{"version": 99, "novels": {"1": {"title": "A"}}}`), 0644)
	require.NoError(t, err)

	snapshot := NewStore(path).Load(context.Background())
	require.Empty(t, snapshot.Novels)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "cache.json"))

	saved := NewSnapshot(time.Date(2026, 8, 24, 10, 0, 0, 0, timezone.Location))
	saved.Novels["12345"] = Record{
		Title:     "Truyện A",
		URL:       "https://ln.hako.vn/truyen/12345-truyen-a",
		Status:    StatusOngoing,
		Chapter:   "Chương 12",
		UpdatedAt: time.Date(2026, 8, 23, 9, 30, 0, 0, timezone.Location),
	}
	saved.Novels["678"] = Record{
		Title:   "Truyện B",
		URL:     "https://ln.hako.vn/truyen/678-truyen-b",
		Status:  StatusCompleted,
		Chapter: "Chương 40",
	}

	err := store.Save(ctx, saved)
	require.NoError(t, err)

	loaded := store.Load(ctx)
	if diff := cmp.Diff(saved, loaded); diff != "" {
		t.Fatalf("snapshot did not survive the round trip (-want +got):\n%s", diff)
	}
}
