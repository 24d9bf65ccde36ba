package store

import (
	"context"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableGameResults = "game_results"
	tableAnswers     = "answer_events"
	tableDaily       = "daily_challenges"
	tableTutor       = "tutor_events"
)

var (
	gameResultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "mode", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString},
		{Name: "level", Type: field.TypeString, Default: ""},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "answered", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeInt},
		{Name: "max_streak", Type: field.TypeInt},
		{Name: "points", Type: field.TypeInt, Default: 0},
		{Name: "duration_ms", Type: field.TypeInt64},
		{Name: "completed_at", Type: field.TypeTime},
	}
	gameResultsTable = &schema.Table{
		Name:       tableGameResults,
		Columns:    gameResultColumns,
		PrimaryKey: []*schema.Column{gameResultColumns[0]},
		Indexes: []*schema.Index{
			{Name: "gameresult_mode_topic", Columns: []*schema.Column{gameResultColumns[2], gameResultColumns[3]}},
			{Name: "gameresult_completed_at", Columns: []*schema.Column{gameResultColumns[12]}},
		},
	}

	answerColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "chosen", Type: field.TypeString},
		{Name: "correct_answer", Type: field.TypeString},
		{Name: "correct", Type: field.TypeBool},
		{Name: "time_remaining", Type: field.TypeInt, Default: 0},
		{Name: "lives_remaining", Type: field.TypeInt, Default: 0},
		{Name: "timestamp", Type: field.TypeTime},
	}
	answersTable = &schema.Table{
		Name:       tableAnswers,
		Columns:    answerColumns,
		PrimaryKey: []*schema.Column{answerColumns[0]},
		Indexes: []*schema.Index{
			{Name: "answerevent_session_id", Columns: []*schema.Column{answerColumns[2]}},
		},
	}

	dailyColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "date", Type: field.TypeString, Unique: true},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "completed_at", Type: field.TypeTime},
	}
	dailyTable = &schema.Table{
		Name:       tableDaily,
		Columns:    dailyColumns,
		PrimaryKey: []*schema.Column{dailyColumns[0]},
	}

	tutorColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Nullable: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	tutorTable = &schema.Table{
		Name:       tableTutor,
		Columns:    tutorColumns,
		PrimaryKey: []*schema.Column{tutorColumns[0]},
	}

	tables = []*schema.Table{gameResultsTable, answersTable, dailyTable, tutorTable}
)

// migrate creates or upgrades every table the store owns.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
