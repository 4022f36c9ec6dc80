package novelstore

import (
	"fmt"
	"strings"
	"time"
)

// Status is the translation status a novel displays on the group page.
// Canonical values are the labels the site renders in Vietnamese.
type Status string

const (
	StatusOngoing   Status = "Đang tiến hành"
	StatusCompleted Status = "Đã hoàn thành"
	StatusPaused    Status = "Tạm ngưng"
	StatusDropped   Status = "Đã drop"
	StatusUnknown   Status = "Không rõ"
)

var statusSynonyms = map[string]Status{
	"đang tiến hành": StatusOngoing,
	"ongoing":        StatusOngoing,
	"đã hoàn thành":  StatusCompleted,
	"hoàn thành":     StatusCompleted,
	"completed":      StatusCompleted,
	"tạm ngưng":      StatusPaused,
	"tạm dừng":       StatusPaused,
	"paused":         StatusPaused,
	"on hold":        StatusPaused,
	"đã drop":        StatusDropped,
	"dropped":        StatusDropped,
	"drop":           StatusDropped,
	"không rõ":       StatusUnknown,
	"unknown":        StatusUnknown,
}

// NormalizeStatus folds case, whitespace and known synonyms into the
// canonical labels so phrasing drift on the site does not show up as
// a status change. Unrecognized non-empty labels pass through with
// their whitespace collapsed.
func NormalizeStatus(raw string) Status {
	collapsed := strings.Join(strings.Fields(raw), " ")
	if collapsed == "" {
		return StatusUnknown
	}
	if status, ok := statusSynonyms[strings.ToLower(collapsed)]; ok {
		return status
	}
	return Status(collapsed)
}

// Record is the scraped state of one novel. It is never mutated
// after capture.
type Record struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Status    Status    `json:"status"`
	Chapter   string    `json:"chapter"`
	UpdatedAt time.Time `json:"updated_at"`
}

const SnapshotVersion = 1

// Snapshot maps novel ids to the state they had during one scrape run.
// Previous and current snapshots are independent values, nothing in
// this package mutates a snapshot after it has been built.
type Snapshot struct {
	Version   int               `json:"version"`
	CheckedAt time.Time         `json:"last_check"`
	Novels    map[string]Record `json:"novels"`
}

func NewSnapshot(checkedAt time.Time) Snapshot {
	return Snapshot{
		Version:   SnapshotVersion,
		CheckedAt: checkedAt,
		Novels:    map[string]Record{},
	}
}

type EventKind int

const (
	EventNewNovel EventKind = iota
	EventStatusChanged
	EventChapterUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventNewNovel:
		return "new_novel"
	case EventStatusChanged:
		return "status_changed"
	case EventChapterUpdated:
		return "chapter_updated"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ChangeEvent is one classified difference between two snapshots
// for one novel. Only the fields of the changed dimension are set.
type ChangeEvent struct {
	Kind   EventKind
	ID     string
	Record Record

	OldStatus Status
	NewStatus Status

	OldChapter string
	NewChapter string
}
