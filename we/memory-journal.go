package we

import (
	"context"
	"errors"
	"sync"
)

type MemoryJournalOption func(*MemoryJournal)

func MemoryJournalClock(clock Clock) MemoryJournalOption {
	return func(journal *MemoryJournal) {
		journal.clock = clock
	}
}

type MemoryJournal struct {
	lk        sync.RWMutex
	entries   map[JournalID][]JournalEntry
	revisions *RevisionGenerator
	clock     Clock
}

func NewMemoryJournal(options ...MemoryJournalOption) *MemoryJournal {
	journal := &MemoryJournal{
		entries:   map[JournalID][]JournalEntry{},
		revisions: NewRevisionGenerator(),
	}

	for _, option := range options {
		option(journal)
	}

	if journal.clock == nil {
		journal.clock = SystemClock{}
	}

	return journal
}

func (j *MemoryJournal) Append(_ context.Context, id JournalID, actions ...Action) (Revision, error) {
	if len(actions) == 0 {
		return "", errors.New("attempted to append an empty list of actions")
	}

	j.lk.Lock()
	defer j.lk.Unlock()

	entries, err := MakeEntries(id, j.revisions, j.clock.Now(), actions...)
	if err != nil {
		return "", err
	}

	j.entries[id] = append(j.entries[id], entries...)

	return entries[len(entries)-1].Revision, nil
}

func (j *MemoryJournal) Load(_ context.Context, id JournalID) ([]JournalEntry, error) {
	j.lk.RLock()
	defer j.lk.RUnlock()

	entries := j.entries[id]
	loaded := make([]JournalEntry, len(entries))
	copy(loaded, entries)

	return loaded, nil
}

func (j *MemoryJournal) Remove(_ context.Context, id JournalID) (int, error) {
	j.lk.Lock()
	defer j.lk.Unlock()

	count := len(j.entries[id])
	delete(j.entries, id)

	return count, nil
}
