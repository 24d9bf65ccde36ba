package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/store"
)

type recording struct {
	Provider
	repo   store.TutorEventRepo
	logger *zap.Logger
	now    func() time.Time
}

// WithRecording stores every request as a tutor event. A failure to
// store is logged and does not fail the request.
func WithRecording(p Provider, repo store.TutorEventRepo, logger *zap.Logger) Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recording{Provider: p, repo: repo, logger: logger, now: time.Now}
}

func (r *recording) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	start := r.now()
	c, err := r.Provider.Complete(ctx, p)
	latency := r.now().Sub(start)

	ev := store.TutorEvent{
		Provider:  r.Name(),
		Model:     r.Model(),
		Purpose:   p.Purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
		Timestamp: start,
	}
	if c != nil {
		ev.InputTokens = c.InputTokens
		ev.OutputTokens = c.OutputTokens
		if c.Model != "" {
			ev.Model = c.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		r.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("llm request", fields...)
	}

	if r.repo != nil {
		if serr := r.repo.AppendTutorEvent(context.WithoutCancel(ctx), ev); serr != nil {
			r.logger.Warn("store tutor event", zap.Error(serr))
		}
	}
	return c, err
}
