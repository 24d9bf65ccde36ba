package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type answerRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *answerRepo) AppendAnswer(ctx context.Context, e AnswerEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	query, args := sqlite.Insert(tableAnswers).
		Columns("sequence", "session_id", "question", "chosen", "correct_answer",
			"correct", "time_remaining", "lives_remaining", "timestamp").
		Values(seqNum, e.SessionID, e.Question, e.Chosen, e.CorrectAnswer,
			e.Correct, e.TimeRemaining, e.LivesRemaining, e.Timestamp.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *answerRepo) AnswersForSession(ctx context.Context, sessionID string) ([]AnswerEvent, error) {
	query, args := sqlite.Select("sequence", "session_id", "question", "chosen",
		"correct_answer", "correct", "time_remaining", "lives_remaining", "timestamp").
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEvent
	for rows.Next() {
		var e AnswerEvent
		if err := rows.Scan(&e.Sequence, &e.SessionID, &e.Question, &e.Chosen,
			&e.CorrectAnswer, &e.Correct, &e.TimeRemaining, &e.LivesRemaining,
			&e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
