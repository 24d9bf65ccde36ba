package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type tutorEventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *tutorEventRepo) AppendTutorEvent(ctx context.Context, e TutorEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	var errMsg any
	if e.ErrorMessage != "" {
		errMsg = e.ErrorMessage
	}

	query, args := sqlite.Insert(tableTutor).
		Columns("sequence", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message", "timestamp").
		Values(seqNum, e.Provider, e.Model, e.Purpose, e.InputTokens,
			e.OutputTokens, e.LatencyMs, e.Success, errMsg, e.Timestamp.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save tutor event: %w", err)
	}
	return nil
}

func (r *tutorEventRepo) QueryTutorEvents(ctx context.Context, limit int) ([]TutorEvent, error) {
	sel := sqlite.Select("sequence", "provider", "model", "purpose", "input_tokens",
		"output_tokens", "latency_ms", "success", "error_message", "timestamp").
		From(entsql.Table(tableTutor)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tutor events: %w", err)
	}
	defer rows.Close()

	var out []TutorEvent
	for rows.Next() {
		var (
			e      TutorEvent
			errMsg sql.NullString
		)
		if err := rows.Scan(&e.Sequence, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
			&errMsg, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan tutor event: %w", err)
		}
		e.ErrorMessage = errMsg.String
		out = append(out, e)
	}
	return out, rows.Err()
}
