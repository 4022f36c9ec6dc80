package tracker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sang765/tmr-novel-tracking/lib/novelstore"
	"github.com/sang765/tmr-novel-tracking/lib/scrapers/hako"
	"github.com/sang765/tmr-novel-tracking/lib/testutil"
	"github.com/sang765/tmr-novel-tracking/lib/timezone"

	"github.com/stretchr/testify/require"
)

const pageTemplate = `<html><body><section class="showcase-list">
	<div class="showcase-item">
		<h5 class="series-name"><a href="/truyen/100-truyen-a">Truyện A</a></h5>
		<div class="series-update"><a href="/truyen/100-truyen-a/c1">%s</a></div>
		<span class="status-value">%s</span>
	</div>
	<div class="showcase-item">
		<h5 class="series-name"><a href="/truyen/200-truyen-b">Truyện B</a></h5>
		<div class="series-update"><a href="/truyen/200-truyen-b/c9">Chương 9</a></div>
		<span class="status-value">Đang tiến hành</span>
	</div>
</section></body></html>`

type recordingNotifier struct {
	calls  [][]novelstore.ChangeEvent
	broken bool
}

func (r *recordingNotifier) Notify(ctx context.Context, events []novelstore.ChangeEvent) error {
	r.calls = append(r.calls, events)
	if r.broken {
		return errors.New("delivery exploded")
	}
	return nil
}

func fixtureService(t *testing.T, pageUrl string, notifier Notifier) (Service, novelstore.Store) {
	client, err := hako.NewClient(hako.Options{BaseUrl: pageUrl, MaxPages: 1})
	require.NoError(t, err)

	store := novelstore.NewStore(filepath.Join(t.TempDir(), "cache.json"))
	return NewService(client, store, notifier), store
}

func renderPage(chapter, status string) string {
	return fmt.Sprintf(pageTemplate, chapter, status)
}

func TestRunFirstAndSecondCycle(t *testing.T) {
	ctx := context.Background()

	var pageMu sync.Mutex
	page := renderPage("Chương 10", "Đang tiến hành")
	setPage := func(p string) {
		pageMu.Lock()
		defer pageMu.Unlock()
		page = p
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageMu.Lock()
		defer pageMu.Unlock()
		w.Write([]byte(page))
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	service, store := fixtureService(t, server.URL, notifier)

	// first run: everything is new
	err := service.Run(ctx)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 1)
	require.Len(t, notifier.calls[0], 2)
	for _, ev := range notifier.calls[0] {
		require.Equal(t, novelstore.EventNewNovel, ev.Kind)
	}

	persisted := store.Load(ctx)
	require.Len(t, persisted.Novels, 2)
	require.Equal(t, novelstore.StatusOngoing, persisted.Novels["100"].Status)

	// second run: novel 100 finished and moved a chapter forward
	setPage(renderPage("Chương 11", "Đã hoàn thành"))
	err = service.Run(ctx)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 2)

	events := notifier.calls[1]
	require.Len(t, events, 2)
	require.Equal(t, novelstore.EventStatusChanged, events[0].Kind)
	require.Equal(t, novelstore.StatusOngoing, events[0].OldStatus)
	require.Equal(t, novelstore.StatusCompleted, events[0].NewStatus)
	require.Equal(t, novelstore.EventChapterUpdated, events[1].Kind)
	require.Equal(t, "Chương 10", events[1].OldChapter)
	require.Equal(t, "Chương 11", events[1].NewChapter)

	// third run: nothing changed, nothing reported
	err = service.Run(ctx)
	require.NoError(t, err)
	require.Len(t, notifier.calls, 3)
	require.Empty(t, notifier.calls[2])
}

func TestRunSurvivesNotifierFailure(t *testing.T) {
	ctx := context.Background()
	server := testutil.FixtureServer(t, renderPage("Chương 1", "Đang tiến hành"))

	notifier := &recordingNotifier{broken: true}
	service, store := fixtureService(t, server.URL, notifier)

	err := service.Run(ctx)
	require.NoError(t, err)

	// the snapshot write is not rolled back by delivery failures
	persisted := store.Load(ctx)
	require.Len(t, persisted.Novels, 2)
}

func TestRunAbortsOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	service, store := fixtureService(t, server.URL, notifier)

	err := service.Run(context.Background())
	require.True(t, errors.Is(err, hako.FetchFailed))
	require.Empty(t, notifier.calls)
	require.Empty(t, store.Load(context.Background()).Novels)
}

func TestRunAbortsOnParseFailure(t *testing.T) {
	server := testutil.FixtureServer(t, "<html><body>maintenance page</body></html>")

	notifier := &recordingNotifier{}
	service, _ := fixtureService(t, server.URL, notifier)

	err := service.Run(context.Background())
	require.True(t, errors.Is(err, hako.ParseFailed))
	require.Empty(t, notifier.calls)
}

func TestBuildSnapshotDeduplicatesAcrossPages(t *testing.T) {
	page := renderPage("Chương 5", "Đang tiến hành")

	snapshot, err := BuildSnapshot([]string{page, page}, timezone.Now())
	require.NoError(t, err)
	require.Len(t, snapshot.Novels, 2)
}

func TestBuildSnapshotFallsBackToTitleKey(t *testing.T) {
	page := `<html><body><section class="showcase-list">
		<div class="showcase-item">
			<h5 class="series-name"><a href="/sang-tac/khong-co-id">Sáng Tác  Mới</a></h5>
			<span class="status-value">Đang tiến hành</span>
		</div>
	</section></body></html>`

	snapshot, err := BuildSnapshot([]string{page}, timezone.Now())
	require.NoError(t, err)
	require.Len(t, snapshot.Novels, 1)
	_, ok := snapshot.Novels["sángtácmới"]
	require.True(t, ok)
}
