package hako

import (
	"errors"
	"testing"
	"time"

	"github.com/sang765/tmr-novel-tracking/lib/timezone"

	"github.com/stretchr/testify/require"
)

const showcaseFixture = `<!DOCTYPE html>
<html>
<body>
<section class="showcase-list">
	<div class="showcase-item">
		<h5 class="series-name">
			<a href="/truyen/12345-truyen-dau">Truyện   Đầu</a>
		</h5>
		<div class="series-update">
			<a href="/truyen/12345-truyen-dau/c100-chuong-12">Chương 12: Khởi đầu</a>
		</div>
		<span class="status-value">Đang tiến hành</span>
		<span class="status-value">
			<time datetime="2026-08-23T02:30:00Z" title="23/08/2026 09:30">1 ngày trước</time>
		</span>
	</div>
	<div class="showcase-item">
		<h5 class="series-name">
			<a href="https://ln.hako.vn/truyen/678-truyen-hai">Truyện Hai</a>
		</h5>
		<div class="series-update">
			<a href="/truyen/678-truyen-hai/c900-chuong-40">Chương 40</a>
		</div>
		<span class="status-value">Đã hoàn thành</span>
		<span class="status-value">
			<time title="20/08/2026 14:00">vài ngày trước</time>
		</span>
	</div>
	<div class="showcase-item">
		<h5 class="series-name"><span>no link here</span></h5>
	</div>
	<div class="showcase-item">
		<h5 class="series-name">
			<a href="/sang-tac/99-khong-id">Sáng Tác Không ID</a>
		</h5>
		<span class="status-value">Tạm ngưng</span>
	</div>
</section>
</body>
</html>`

func TestParseShowcase(t *testing.T) {
	novels, err := ParseShowcase(showcaseFixture)
	require.NoError(t, err)
	require.Len(t, novels, 3)

	first := novels[0]
	require.Equal(t, "12345", first.ID)
	require.Equal(t, "Truyện Đầu", first.Title)
	require.Equal(t, "https://ln.hako.vn/truyen/12345-truyen-dau", first.URL)
	require.Equal(t, "Đang tiến hành", first.Status)
	require.Equal(t, "Chương 12: Khởi đầu", first.Chapter)
	expected := time.Date(2026, 8, 23, 2, 30, 0, 0, time.UTC)
	require.True(t, first.UpdatedAt.Equal(expected), "got %s", first.UpdatedAt)

	second := novels[1]
	require.Equal(t, "678", second.ID)
	require.Equal(t, "https://ln.hako.vn/truyen/678-truyen-hai", second.URL)
	require.Equal(t, "Đã hoàn thành", second.Status)
	// no datetime attribute, falls back to the title attribute
	expected = time.Date(2026, 8, 20, 14, 0, 0, 0, timezone.Location)
	require.True(t, second.UpdatedAt.Equal(expected), "got %s", second.UpdatedAt)

	third := novels[2]
	require.Equal(t, "", third.ID)
	require.Equal(t, "Sáng Tác Không ID", third.Title)
	require.Equal(t, "", third.Chapter)
	require.True(t, third.UpdatedAt.IsZero())
}

func TestParseShowcaseWithoutContainer(t *testing.T) {
	_, err := ParseShowcase("<html><body><div>maintenance</div></body></html>")
	require.Error(t, err)
	require.True(t, errors.Is(err, ParseFailed))
}

func TestNovelID(t *testing.T) {
	require.Equal(t, "12345", NovelID("/truyen/12345-truyen-dau"))
	require.Equal(t, "678", NovelID("https://ln.hako.vn/truyen/678-truyen-hai/c900"))
	require.Equal(t, "", NovelID("/sang-tac/99-khong-id"))
	require.Equal(t, "", NovelID(""))
}

func TestChapterNumber(t *testing.T) {
	testCases := []struct {
		label    string
		expected float64
		ok       bool
	}{
		{"Chương 12: Khởi đầu", 12, true},
		{"chương 12.5", 12.5, true},
		{"Chapter 3", 3, true},
		{"Chap 7 - tên chương", 7, true},
		{"#4", 4, true},
		{"Ngoại truyện", 0, false},
		{"", 0, false},
	}

	for _, test := range testCases {
		number, ok := ChapterNumber(test.label)
		require.Equal(t, test.ok, ok, "label: %q", test.label)
		require.Equal(t, test.expected, number, "label: %q", test.label)
	}
}

func TestMirror(t *testing.T) {
	link := "https://ln.hako.vn/truyen/12345-truyen-dau"
	require.Equal(t, "https://docln.net/truyen/12345-truyen-dau", Mirror(link, "docln.net"))
	require.Equal(t, "https://docln.sbs/truyen/12345-truyen-dau", Mirror(link, "docln.sbs"))
	require.Equal(t, link, Mirror(link, "ln.hako.vn"))
}
