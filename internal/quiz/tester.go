package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lexiq/internal/store"
)

// slot is the buffer record of an outstanding question.
type slot struct {
	entryID int
	pool    store.Pool
}

// Tester runs quiz sessions over an entry store.
//
// Questions live in an arena indexed by QuestionID. The buffer maps the
// handles of outstanding questions to their entry and pool; a session is
// open while the buffer is non-empty, and only one can be open at a time.
type Tester struct {
	mu sync.Mutex

	repo   store.EntryRepo
	events store.EventRepo
	cfg    Config
	scorer Scorer
	rng    *rand.Rand
	now    func() time.Time
	log    *slog.Logger

	arena     []Question
	buffer    map[QuestionID]slot
	sessionID string
	submitted int
}

// Option configures a Tester.
type Option func(*Tester)

// WithSeed makes question shuffling reproducible.
func WithSeed(seed uint64) Option {
	return func(t *Tester) {
		t.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithEventRepo records session lifecycle events.
func WithEventRepo(repo store.EventRepo) Option {
	return func(t *Tester) {
		t.events = repo
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tester) {
		t.log = l
	}
}

// WithClock overrides the time source used for tested-at timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tester) {
		t.now = now
	}
}

// NewTester creates a Tester and starts a new rotation cycle for any pool
// whose current cycle is already exhausted.
func NewTester(ctx context.Context, repo store.EntryRepo, cfg Config, opts ...Option) (*Tester, error) {
	t := &Tester{
		repo:   repo,
		cfg:    cfg,
		scorer: NewScorer(cfg.AcceptThreshold),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		buffer: make(map[QuestionID]slot),
	}
	for _, opt := range opts {
		opt(t)
	}

	for _, pool := range []store.Pool{store.PoolGeneral, store.PoolPractice} {
		if err := t.sweep(ctx, repo, pool); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Tester) sweep(ctx context.Context, repo store.EntryRepo, pool store.Pool) error {
	reset, err := Sweep(ctx, repo, pool)
	if err != nil {
		return fmt.Errorf("sweep %s rotation: %w", pool, err)
	}
	if reset {
		t.log.Info("rotation cycle complete, starting a new one", "pool", pool.String())
	}
	return nil
}

// Scorer returns the scorer used for submissions.
func (t *Tester) Scorer() Scorer {
	return t.scorer
}

// StartSession draws total questions, the practice share of which is given
// by quota interpreted per mode. Practice questions come first, followed by
// general questions; each group is in shuffled order.
//
// Fails without touching the store if a session is already open, the
// request is larger than the buffer ceiling or the store, or the practice
// pool is too small. Returns ErrEmptyStore when there is nothing to ask.
func (t *Tester) StartSession(ctx context.Context, total, quota int, mode QuotaMode) ([]Question, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buffer) > 0 {
		return nil, ErrSessionAlreadyOpen
	}
	if total < 0 || quota < 0 || (mode == QuotaPercentage && quota > 100) {
		return nil, fmt.Errorf("%w: total=%d quota=%d mode=%s", ErrInvalidQuota, total, quota, mode)
	}
	if total > t.cfg.MaxBufferSize {
		return nil, fmt.Errorf("%w: %d exceeds the maximum of %d per session",
			ErrQuotaTooLarge, total, t.cfg.MaxBufferSize)
	}
	practice := practiceCount(total, quota, mode)
	if practice > total {
		return nil, fmt.Errorf("%w: practice quota %d exceeds session size %d",
			ErrQuotaTooLarge, practice, total)
	}

	var drawn []Question
	err := t.repo.RunInTx(ctx, func(tx store.EntryRepo) error {
		entries, err := tx.TotalCount(ctx)
		if err != nil {
			return err
		}
		if entries == 0 {
			return ErrEmptyStore
		}
		if total > entries {
			return fmt.Errorf("%w: %d exceeds the %d entries in the vocabulary",
				ErrQuotaTooLarge, total, entries)
		}

		practiceQs, err := t.build(ctx, tx, practice, store.PoolPractice)
		if err != nil {
			return err
		}
		generalQs, err := t.build(ctx, tx, total-len(practiceQs), store.PoolGeneral)
		if err != nil {
			return err
		}
		drawn = append(practiceQs, generalQs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(drawn) == 0 {
		return nil, nil
	}

	t.sessionID = uuid.New().String()
	t.submitted = 0
	out := make([]Question, len(drawn))
	for i, q := range drawn {
		q.ID = QuestionID(len(t.arena))
		t.arena = append(t.arena, q)
		t.buffer[q.ID] = slot{entryID: q.EntryID, pool: q.Pool}
		out[i] = q
	}

	t.log.Info("session started", "session", t.sessionID, "questions", len(out), "practice", practice)
	t.appendEvent(ctx, store.SessionEventData{
		SessionID: t.sessionID,
		Action:    store.ActionStart,
		Questions: len(out),
	})
	return out, nil
}

// lookup returns the arena question for id if it is outstanding.
func (t *Tester) lookup(id QuestionID) (*Question, slot, error) {
	s, ok := t.buffer[id]
	if !ok {
		if int(id) >= 0 && int(id) < len(t.arena) && t.arena[id].Submitted {
			return nil, slot{}, ErrAlreadySubmitted
		}
		return nil, slot{}, fmt.Errorf("%w: %d", ErrQuestionNotFound, id)
	}
	return &t.arena[id], s, nil
}

// Answer records the submitted text for an outstanding question. It can be
// called repeatedly until the question is submitted.
func (t *Tester) Answer(id QuestionID, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	q, _, err := t.lookup(id)
	if err != nil {
		return err
	}
	q.Answer = text
	q.Answered = true
	return nil
}

// Outcome is the result of submitting one question.
type Outcome struct {
	Question Question
	Entry    *store.Entry
	Ratio    float64
	Accepted bool
}

// Evaluation returns the match percentage rounded to two decimals.
func (o Outcome) Evaluation() float64 {
	return o.Question.Evaluation
}

// Submit scores the answer of an outstanding question and records the
// result on its entry in one transaction. General-pool answers add to the
// entry's test count and match sum; practice answers only mark the entry as
// practiced. An unanswered question scores as an empty answer.
//
// On failure nothing is persisted and the question stays outstanding.
func (t *Tester) Submit(ctx context.Context, id QuestionID) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submit(ctx, id)
}

func (t *Tester) submit(ctx context.Context, id QuestionID) (Outcome, error) {
	q, s, err := t.lookup(id)
	if err != nil {
		return Outcome{}, err
	}

	// Sweep only once the pool has nothing outstanding. A reset while
	// sibling questions are pending would let their commits flag entries
	// in the new cycle.
	lastOfPool := true
	for other, os := range t.buffer {
		if other != id && os.pool == s.pool {
			lastOfPool = false
			break
		}
	}

	var (
		updated  *store.Entry
		ratio    float64
		accepted bool
	)
	err = t.repo.RunInTx(ctx, func(tx store.EntryRepo) error {
		e, err := tx.Get(ctx, s.entryID)
		if err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("%w: entry %d", ErrEntryGone, s.entryID)
			}
			return err
		}

		ratio, accepted = t.scorer.Score(q.Answer, e.Lexeme)
		now := t.now()

		switch s.pool {
		case store.PoolGeneral:
			// Practice answers are formative and stay out of the average.
			e.TestCount++
			e.MatchSum += ratio
			e.WasTested = true
		case store.PoolPractice:
			// The entry may have left the practice pool since it was drawn.
			if e.ForPractice {
				practiced := true
				e.WasPracticed = &practiced
			}
		}
		e.TestedAt = &now

		if err := tx.Persist(ctx, e); err != nil {
			return err
		}
		if lastOfPool {
			if _, err := Sweep(ctx, tx, s.pool); err != nil {
				return err
			}
		}
		updated = e
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("submit question %d: %w", id, err)
	}

	q.Submitted = true
	q.Evaluation = math.Round(ratio*10000) / 100
	delete(t.buffer, id)
	t.submitted++

	t.log.Debug("question submitted", "session", t.sessionID, "entry", s.entryID,
		"pool", s.pool.String(), "ratio", ratio, "accepted", accepted)
	t.appendEvent(ctx, store.SessionEventData{
		SessionID: t.sessionID,
		Action:    store.ActionAnswer,
		EntryID:   s.entryID,
		Pool:      s.pool.String(),
		Ratio:     ratio,
		Accepted:  accepted,
	})
	if len(t.buffer) == 0 {
		t.appendEvent(ctx, store.SessionEventData{
			SessionID: t.sessionID,
			Action:    store.ActionEnd,
			Questions: t.submitted,
		})
	}

	return Outcome{Question: *q, Entry: updated, Ratio: ratio, Accepted: accepted}, nil
}

// SubmitAll submits every answered outstanding question in handle order.
// It stops at the first failure, returning the outcomes committed so far.
func (t *Tester) SubmitAll(ctx context.Context) ([]Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var outcomes []Outcome
	for _, id := range t.pendingIDs() {
		if !t.arena[id].Answered {
			continue
		}
		o, err := t.submit(ctx, id)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// ClearQuestions abandons the open session. Unsubmitted answers are dropped
// and nothing is persisted.
func (t *Tester) ClearQuestions(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.buffer) == 0 {
		return
	}
	dropped := len(t.buffer)
	t.buffer = make(map[QuestionID]slot)

	t.log.Info("session abandoned", "session", t.sessionID, "dropped", dropped)
	t.appendEvent(ctx, store.SessionEventData{
		SessionID: t.sessionID,
		Action:    store.ActionClear,
		Questions: t.submitted,
	})
}

// Pending returns the outstanding questions in the order they were drawn.
func (t *Tester) Pending() []Question {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.pendingIDs()
	out := make([]Question, len(ids))
	for i, id := range ids {
		out[i] = t.arena[id]
	}
	return out
}

// Question returns the question with the given handle, outstanding or not.
func (t *Tester) Question(id QuestionID) (Question, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if int(id) < 0 || int(id) >= len(t.arena) {
		return Question{}, false
	}
	return t.arena[id], true
}

// SessionID returns the ID of the most recent session, or "" if none started.
func (t *Tester) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

func (t *Tester) pendingIDs() []QuestionID {
	ids := make([]QuestionID, 0, len(t.buffer))
	for id := range t.buffer {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// appendEvent records a session event. Failures are logged, never returned:
// the quiz must not fail because its history could not be written.
func (t *Tester) appendEvent(ctx context.Context, data store.SessionEventData) {
	if t.events == nil {
		return
	}
	if err := t.events.AppendSessionEvent(ctx, data); err != nil {
		t.log.Warn("failed to record session event", "action", data.Action, "err", err)
	}
}

// IsUserError reports whether err is a rejected request rather than a
// storage failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrSessionAlreadyOpen, ErrQuotaTooLarge, ErrInsufficientEntries,
		ErrInvalidQuota, ErrEmptyStore, ErrQuestionNotFound, ErrAlreadySubmitted,
		ErrEntryGone,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
