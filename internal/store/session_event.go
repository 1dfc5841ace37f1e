package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var entryID any
	if data.EntryID != 0 {
		entryID = data.EntryID
	}

	query, args := builder.Insert(tableSessionEvents).
		Columns(colSequence, colTimestamp, colSessionID, colAction, colEntryID,
			colPool, colRatio, colAccepted, colQuestions).
		Values(seqNum, time.Now().UTC(), data.SessionID, data.Action, entryID,
			data.Pool, data.Ratio, data.Accepted, data.Questions).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) SessionEvents(ctx context.Context, sessionID string) ([]SessionEvent, error) {
	query, args := builder.Select(colSequence, colTimestamp, colSessionID, colAction,
		colEntryID, colPool, colRatio, colAccepted, colQuestions).
		From(builder.Table(tableSessionEvents)).
		Where(entsql.EQ(colSessionID, sessionID)).
		OrderBy(colSequence).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var events []SessionEvent
	for rows.Next() {
		var (
			ev      SessionEvent
			entryID sql.NullInt64
		)
		err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.Action,
			&entryID, &ev.Pool, &ev.Ratio, &ev.Accepted, &ev.Questions)
		if err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		ev.EntryID = int(entryID.Int64)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) SessionCount(ctx context.Context) (int, error) {
	query, args := builder.Select(entsql.Count("*")).
		From(builder.Table(tableSessionEvents)).
		Where(entsql.EQ(colAction, ActionStart)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *eventRepo) LastSessionTime(ctx context.Context) (time.Time, error) {
	query, args := builder.Select(colTimestamp).
		From(builder.Table(tableSessionEvents)).
		Where(entsql.EQ(colAction, ActionStart)).
		OrderBy(entsql.Desc(colSequence)).
		Limit(1).
		Query()

	var ts time.Time
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&ts)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("query last session: %w", err)
	}
	return ts, nil
}

var _ EventRepo = (*eventRepo)(nil)
