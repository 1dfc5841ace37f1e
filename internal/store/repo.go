package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("entry not found")

	// ErrDuplicateEntry is returned when an entry with the same lexeme and
	// definition already exists.
	ErrDuplicateEntry = errors.New("entry with same lexeme and definition already exists")
)

// EntryRepo is the persistent table of lexical entries.
//
// Every method is a single statement. Sequences that must observe a
// consistent view (check-then-reset, draw-then-mark) run inside RunInTx.
type EntryRepo interface {
	// RunInTx runs fn against a transaction-scoped repo. fn's error rolls
	// the transaction back. Nested calls reuse the outer transaction.
	RunInTx(ctx context.Context, fn func(EntryRepo) error) error

	// TotalCount returns the number of entries.
	TotalCount(ctx context.Context) (int, error)

	// CountEligible returns the number of entries that belong to pool.
	CountEligible(ctx context.Context, pool Pool) (int, error)

	// CountDrawn returns the number of pool entries drawn this cycle.
	CountDrawn(ctx context.Context, pool Pool) (int, error)

	// FetchUntested returns the pool entries not yet drawn this cycle,
	// ordered by ID.
	FetchUntested(ctx context.Context, pool Pool) ([]*Entry, error)

	// MarkDrawn sets the rotation flag of pool for the given entries.
	MarkDrawn(ctx context.Context, ids []int, pool Pool) error

	// ResetRotation clears the rotation flag of pool for all its entries.
	ResetRotation(ctx context.Context, pool Pool) error

	// Persist writes the mutable fields of an existing entry.
	// Returns ErrNotFound if the entry was deleted.
	Persist(ctx context.Context, e *Entry) error

	// Get returns the entry with the given ID or ErrNotFound.
	Get(ctx context.Context, id int) (*Entry, error)

	// Create inserts a new entry and returns it.
	Create(ctx context.Context, n NewEntry) (*Entry, error)

	// List returns entries matching all filters, ordered by ID.
	List(ctx context.Context, filters ...Filter) ([]*Entry, error)

	// Delete removes an entry or returns ErrNotFound.
	Delete(ctx context.Context, id int) error

	// SetForPractice moves an entry in or out of the practice pool.
	SetForPractice(ctx context.Context, id int, on bool) error

	// Stats aggregates the vocabulary-wide test statistics.
	Stats(ctx context.Context) (VocabularyStats, error)
}

// VocabularyStats summarizes the whole store.
type VocabularyStats struct {
	Entries         int
	PracticeEntries int
	Lexemes         int
	TotalTests      int
	TotalMatch      float64
}

// AverageMatch returns the vocabulary-wide average match ratio.
func (s VocabularyStats) AverageMatch() float64 {
	if s.TotalTests == 0 {
		return 0
	}
	return s.TotalMatch / float64(s.TotalTests)
}

// Session event actions.
const (
	ActionStart  = "start"
	ActionAnswer = "answer"
	ActionClear  = "clear"
	ActionEnd    = "end"
)

// SessionEventData captures one quiz session lifecycle event.
type SessionEventData struct {
	SessionID string
	Action    string
	EntryID   int // answer only
	Pool      string
	Ratio     float64
	Accepted  bool
	Questions int // start: questions drawn; end: questions submitted
}

// SessionEvent is a persisted SessionEventData.
type SessionEvent struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append access to quiz session events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// SessionEvents returns the events of one session in sequence order.
	SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error)

	// SessionCount returns the number of sessions ever started.
	SessionCount(ctx context.Context) (int, error)

	// LastSessionTime returns when the most recent session started, or the
	// zero time if none exist.
	LastSessionTime(ctx context.Context) (time.Time, error)
}
