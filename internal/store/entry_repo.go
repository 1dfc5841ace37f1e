package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders SQLite statements.
var builder = entsql.Dialect(dialect.SQLite)

var entryColumns = []string{
	colID, colLexeme, colDefinition, colCategory, colCollocate, colSentence,
	colLabels, colTestCount, colMatchSum, colWasTested, colForPractice,
	colWasPracticed, colCreatedAt, colUpdatedAt, colTestedAt,
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// entryRepo implements EntryRepo. q is the database outside a transaction
// and the transaction inside RunInTx.
type entryRepo struct {
	db   *sql.DB
	q    querier
	inTx bool
	now  func() time.Time
}

func (r *entryRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *entryRepo) RunInTx(ctx context.Context, fn func(EntryRepo) error) (err error) {
	if r.inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(&entryRepo{db: r.db, q: tx, inTx: true, now: r.now}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// eligible returns the predicate selecting the entries of pool, or nil
// when every entry belongs to it.
func eligible(pool Pool) *entsql.Predicate {
	if pool == PoolPractice {
		return entsql.EQ(colForPractice, true)
	}
	return nil
}

func flagColumn(pool Pool) string {
	if pool == PoolPractice {
		return colWasPracticed
	}
	return colWasTested
}

func and(preds ...*entsql.Predicate) *entsql.Predicate {
	var ps []*entsql.Predicate
	for _, p := range preds {
		if p != nil {
			ps = append(ps, p)
		}
	}
	switch len(ps) {
	case 0:
		return nil
	case 1:
		return ps[0]
	default:
		return entsql.And(ps...)
	}
}

func (r *entryRepo) count(ctx context.Context, pred *entsql.Predicate) (int, error) {
	s := builder.Select(entsql.Count("*")).From(builder.Table(tableEntries))
	if pred != nil {
		s.Where(pred)
	}
	query, args := s.Query()

	var n int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *entryRepo) TotalCount(ctx context.Context) (int, error) {
	n, err := r.count(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (r *entryRepo) CountEligible(ctx context.Context, pool Pool) (int, error) {
	n, err := r.count(ctx, eligible(pool))
	if err != nil {
		return 0, fmt.Errorf("count %s pool: %w", pool, err)
	}
	return n, nil
}

func (r *entryRepo) CountDrawn(ctx context.Context, pool Pool) (int, error) {
	n, err := r.count(ctx, and(eligible(pool), entsql.EQ(flagColumn(pool), true)))
	if err != nil {
		return 0, fmt.Errorf("count drawn in %s pool: %w", pool, err)
	}
	return n, nil
}

func (r *entryRepo) FetchUntested(ctx context.Context, pool Pool) ([]*Entry, error) {
	entries, err := r.query(ctx, and(eligible(pool), entsql.EQ(flagColumn(pool), false)))
	if err != nil {
		return nil, fmt.Errorf("fetch untested in %s pool: %w", pool, err)
	}
	return entries, nil
}

func (r *entryRepo) MarkDrawn(ctx context.Context, ids []int, pool Pool) error {
	if len(ids) == 0 {
		return nil
	}
	query, args := builder.Update(tableEntries).
		Set(flagColumn(pool), true).
		Where(and(eligible(pool), entsql.InInts(colID, ids...))).
		Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark drawn in %s pool: %w", pool, err)
	}
	return nil
}

func (r *entryRepo) ResetRotation(ctx context.Context, pool Pool) error {
	u := builder.Update(tableEntries).Set(flagColumn(pool), false)
	if p := eligible(pool); p != nil {
		u.Where(p)
	}
	query, args := u.Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset %s rotation: %w", pool, err)
	}
	return nil
}

func (r *entryRepo) Persist(ctx context.Context, e *Entry) error {
	e.normalizePractice()
	e.UpdatedAt = r.clock()

	u := builder.Update(tableEntries).
		Set(colLexeme, e.Lexeme).
		Set(colDefinition, e.Definition).
		Set(colCategory, string(e.Category)).
		Set(colCollocate, nullString(e.Collocate)).
		Set(colSentence, nullString(e.Sentence)).
		Set(colLabels, joinLabels(e.Labels)).
		Set(colTestCount, e.TestCount).
		Set(colMatchSum, e.MatchSum).
		Set(colWasTested, e.WasTested).
		Set(colForPractice, e.ForPractice).
		Set(colUpdatedAt, e.UpdatedAt)
	if e.WasPracticed != nil {
		u.Set(colWasPracticed, *e.WasPracticed)
	} else {
		u.SetNull(colWasPracticed)
	}
	if e.TestedAt != nil {
		u.Set(colTestedAt, *e.TestedAt)
	} else {
		u.SetNull(colTestedAt)
	}
	query, args := u.Where(entsql.EQ(colID, e.ID)).Query()

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("persist entry %d: %w", e.ID, err)
	}
	return expectOneRow(res, e.ID)
}

func (r *entryRepo) Get(ctx context.Context, id int) (*Entry, error) {
	entries, err := r.query(ctx, entsql.EQ(colID, id))
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("get entry %d: %w", id, ErrNotFound)
	}
	return entries[0], nil
}

func (r *entryRepo) Create(ctx context.Context, n NewEntry) (*Entry, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	var created *Entry
	err := r.RunInTx(ctx, func(tx EntryRepo) error {
		txr := tx.(*entryRepo)
		dup, err := txr.count(ctx, entsql.And(
			entsql.EQ(colLexeme, n.Lexeme),
			entsql.EQ(colDefinition, n.Definition),
		))
		if err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dup > 0 {
			return ErrDuplicateEntry
		}

		now := txr.clock()
		e := &Entry{
			Lexeme:      n.Lexeme,
			Definition:  n.Definition,
			Category:    n.Category,
			Collocate:   n.Collocate,
			Sentence:    n.Sentence,
			Labels:      n.Labels,
			ForPractice: n.ForPractice,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		e.normalizePractice()

		var wasPracticed any
		if e.WasPracticed != nil {
			wasPracticed = *e.WasPracticed
		}
		query, args := builder.Insert(tableEntries).
			Columns(colLexeme, colDefinition, colCategory, colCollocate, colSentence,
				colLabels, colTestCount, colMatchSum, colWasTested, colForPractice,
				colWasPracticed, colCreatedAt, colUpdatedAt).
			Values(e.Lexeme, e.Definition, string(e.Category), nullString(e.Collocate),
				nullString(e.Sentence), joinLabels(e.Labels), 0, 0.0, false,
				e.ForPractice, wasPracticed, e.CreatedAt, e.UpdatedAt).
			Query()
		res, err := txr.q.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		e.ID = int(id)
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *entryRepo) List(ctx context.Context, filters ...Filter) ([]*Entry, error) {
	preds := make([]*entsql.Predicate, 0, len(filters))
	for _, f := range filters {
		p, err := f.predicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	entries, err := r.query(ctx, and(preds...))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (r *entryRepo) Delete(ctx context.Context, id int) error {
	query, args := builder.Delete(tableEntries).Where(entsql.EQ(colID, id)).Query()
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *entryRepo) SetForPractice(ctx context.Context, id int, on bool) error {
	u := builder.Update(tableEntries).
		Set(colForPractice, on).
		Set(colUpdatedAt, r.clock())
	if on {
		u.Set(colWasPracticed, false)
	} else {
		u.SetNull(colWasPracticed)
	}
	query, args := u.Where(entsql.EQ(colID, id)).Query()

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set for practice on entry %d: %w", id, err)
	}
	return expectOneRow(res, id)
}

func (r *entryRepo) Stats(ctx context.Context) (VocabularyStats, error) {
	query, args := builder.Select(
		entsql.Count("*"),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum(colForPractice)),
		fmt.Sprintf("COUNT(DISTINCT %s)", colLexeme),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum(colTestCount)),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum(colMatchSum)),
	).From(builder.Table(tableEntries)).Query()

	var s VocabularyStats
	err := r.q.QueryRowContext(ctx, query, args...).
		Scan(&s.Entries, &s.PracticeEntries, &s.Lexemes, &s.TotalTests, &s.TotalMatch)
	if err != nil {
		return VocabularyStats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}

func (r *entryRepo) query(ctx context.Context, pred *entsql.Predicate) ([]*Entry, error) {
	s := builder.Select(entryColumns...).
		From(builder.Table(tableEntries)).
		OrderBy(colID)
	if pred != nil {
		s.Where(pred)
	}
	query, args := s.Query()

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(rows *sql.Rows) (*Entry, error) {
	var (
		e            Entry
		category     string
		collocate    sql.NullString
		sentence     sql.NullString
		labels       string
		wasPracticed sql.NullBool
		testedAt     sql.NullTime
	)
	err := rows.Scan(
		&e.ID, &e.Lexeme, &e.Definition, &category, &collocate, &sentence,
		&labels, &e.TestCount, &e.MatchSum, &e.WasTested, &e.ForPractice,
		&wasPracticed, &e.CreatedAt, &e.UpdatedAt, &testedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan entry: %w", err)
	}

	e.Category = Category(category)
	e.Collocate = collocate.String
	e.Sentence = sentence.String
	e.Labels = splitLabels(labels)
	if wasPracticed.Valid {
		v := wasPracticed.Bool
		e.WasPracticed = &v
	}
	if testedAt.Valid {
		t := testedAt.Time
		e.TestedAt = &t
	}
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return nil
}

var _ EntryRepo = (*entryRepo)(nil)

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
