package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sqlite builds statements in the SQLite dialect.
var sqlite = entsql.Dialect(dialect.SQLite)

type resultRepo struct {
	db *sql.DB
}

var resultSelectColumns = []string{
	"id", "session_id", "mode", "topic", "level", "score", "total",
	"answered", "correct", "max_streak", "points", "duration_ms", "completed_at",
}

func (r *resultRepo) SaveResult(ctx context.Context, res GameResult) error {
	if res.CompletedAt.IsZero() {
		res.CompletedAt = time.Now()
	}
	query, args := sqlite.Insert(tableGameResults).
		Columns(resultSelectColumns[1:]...).
		Values(res.SessionID, res.Mode, res.Topic, res.Level, res.Score, res.Total,
			res.Answered, res.Correct, res.MaxStreak, res.Points,
			res.Duration.Milliseconds(), res.CompletedAt.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save game result: %w", err)
	}
	return nil
}

func (r *resultRepo) HighScore(ctx context.Context, mode, topic string) (int, error) {
	query, args := sqlite.Select(entsql.Max("score")).
		From(entsql.Table(tableGameResults)).
		Where(entsql.And(entsql.EQ("mode", mode), entsql.EQ("topic", topic))).
		Query()

	var best sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&best); err != nil {
		return 0, fmt.Errorf("query high score: %w", err)
	}
	return int(best.Int64), nil
}

func (r *resultRepo) HighScores(ctx context.Context) ([]HighScore, error) {
	query, args := sqlite.Select("mode", "topic", entsql.As(entsql.Max("score"), "best")).
		From(entsql.Table(tableGameResults)).
		GroupBy("mode", "topic").
		OrderBy("mode", "topic").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query high scores: %w", err)
	}
	defer rows.Close()

	var out []HighScore
	for rows.Next() {
		var hs HighScore
		if err := rows.Scan(&hs.Mode, &hs.Topic, &hs.Score); err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}
		out = append(out, hs)
	}
	return out, rows.Err()
}

func (r *resultRepo) RecentResults(ctx context.Context, opts QueryOpts) ([]GameResult, error) {
	sel := sqlite.Select(resultSelectColumns...).
		From(entsql.Table(tableGameResults)).
		OrderBy(entsql.Desc("completed_at"), entsql.Desc("id"))
	if opts.Mode != "" {
		sel.Where(entsql.EQ("mode", opts.Mode))
	}
	if opts.Topic != "" {
		sel.Where(entsql.EQ("topic", opts.Topic))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("completed_at", opts.From.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []GameResult
	for rows.Next() {
		var (
			res        GameResult
			durationMs int64
		)
		if err := rows.Scan(&res.ID, &res.SessionID, &res.Mode, &res.Topic, &res.Level,
			&res.Score, &res.Total, &res.Answered, &res.Correct, &res.MaxStreak,
			&res.Points, &durationMs, &res.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *resultRepo) Stats(ctx context.Context) (ResultStats, error) {
	query, args := sqlite.Select(
		entsql.Count("*"),
		entsql.Sum("answered"),
		entsql.Sum("correct"),
		entsql.Max("max_streak"),
	).From(entsql.Table(tableGameResults)).Query()

	var (
		stats                       ResultStats
		answered, correct, bestStrk sql.NullInt64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&stats.Games, &answered, &correct, &bestStrk); err != nil {
		return ResultStats{}, fmt.Errorf("query stats: %w", err)
	}
	stats.Answered = int(answered.Int64)
	stats.Correct = int(correct.Int64)
	stats.BestStreak = int(bestStrk.Int64)
	return stats, nil
}
