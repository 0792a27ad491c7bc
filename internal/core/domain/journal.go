package domain

import "time"

type JournalSource string

const (
	JournalSourceLanguage JournalSource = "nl"
	JournalSourceDirect   JournalSource = "direct"
)

// JournalEntry records one applied adjustment batch. It is an audit trail;
// the inventory record is never rebuilt from it.
type JournalEntry struct {
	ID          string
	Sequence    uint64 // increases with every applied batch in this process
	RequestID   string
	Source      JournalSource
	Text        string
	Deltas      map[ItemKind]int
	CountsAfter Counts
	CreatedAt   time.Time
}
