package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// DateKey formats t as the calendar-day key used by the daily challenge.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

type dailyRepo struct {
	db *sql.DB
}

func (r *dailyRepo) SaveDaily(ctx context.Context, d DailyResult) (bool, error) {
	if d.CompletedAt.IsZero() {
		d.CompletedAt = time.Now()
	}
	query, args := sqlite.Insert(tableDaily).
		Columns("date", "score", "total", "completed_at").
		Values(d.Date, d.Score, d.Total, d.CompletedAt.UTC()).
		OnConflict(entsql.ConflictColumns("date"), entsql.DoNothing()).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("save daily result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save daily result: %w", err)
	}
	return n == 1, nil
}

func (r *dailyRepo) DailyFor(ctx context.Context, date string) (*DailyResult, error) {
	query, args := sqlite.Select("date", "score", "total", "completed_at").
		From(entsql.Table(tableDaily)).
		Where(entsql.EQ("date", date)).
		Query()

	var d DailyResult
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&d.Date, &d.Score, &d.Total, &d.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query daily result: %w", err)
	}
	return &d, nil
}

func (r *dailyRepo) DailyStreak(ctx context.Context, today time.Time) (int, error) {
	query, args := sqlite.Select("date").
		From(entsql.Table(tableDaily)).
		Where(entsql.LTE("date", DateKey(today))).
		OrderBy(entsql.Desc("date")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("query daily dates: %w", err)
	}
	defer rows.Close()

	played := make(map[string]bool)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return 0, fmt.Errorf("scan daily date: %w", err)
		}
		played[date] = true
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	day := today
	if !played[DateKey(day)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for played[DateKey(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak, nil
}
