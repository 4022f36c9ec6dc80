package novelstore

import "slices"

// Diff compares the previous and current snapshots and classifies
// what changed. It never fails and never mutates its inputs.
//
// Events come out in ascending id order; a novel whose status and
// chapter both changed produces the StatusChanged event first.
// Novels that disappeared from the page are not reported.
func Diff(previous, current Snapshot) []ChangeEvent {
	ids := make([]string, 0, len(current.Novels))
	for id := range current.Novels {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var events []ChangeEvent
	for _, id := range ids {
		cur := current.Novels[id]

		prev, known := previous.Novels[id]
		if !known {
			events = append(events, ChangeEvent{
				Kind:   EventNewNovel,
				ID:     id,
				Record: cur,
			})
			continue
		}

		if prev.Status != cur.Status {
			events = append(events, ChangeEvent{
				Kind:      EventStatusChanged,
				ID:        id,
				Record:    cur,
				OldStatus: prev.Status,
				NewStatus: cur.Status,
			})
		}
		if prev.Chapter != cur.Chapter {
			events = append(events, ChangeEvent{
				Kind:       EventChapterUpdated,
				ID:         id,
				Record:     cur,
				OldChapter: prev.Chapter,
				NewChapter: cur.Chapter,
			})
		}
	}

	return events
}
