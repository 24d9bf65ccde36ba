package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

type recorder struct {
	mu       sync.Mutex
	answers  []store.AnswerEvent
	complete []Result
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		OnAnswer: func(e store.AnswerEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.answers = append(r.answers, e)
		},
		OnComplete: func(res Result) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.complete = append(r.complete, res)
		},
	}
}

func (r *recorder) completions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.complete)
}

func newTestController(t *testing.T, mode quiz.Mode, rules Rules, rec *recorder) *Controller {
	t.Helper()
	s := New(&fakeSource{available: 20}, WithMode(mode), WithRules(rules))
	c := NewController(s, ControllerConfig{TickInterval: 5 * time.Millisecond, Hooks: rec.hooks()})
	t.Cleanup(c.Close)
	return c
}

func shortRules(budget int) Rules {
	r := DefaultRules()
	r.TimeBudget = budget
	return r
}

func TestControllerClockCompletesTimeAttack(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.TimeAttack, shortRules(3), rec)
	assert.False(t, c.Ticking(), "clock must not run before play starts")

	_, err := c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)
	assert.True(t, c.Ticking())

	require.Eventually(t, func() bool { return c.Snapshot().Phase == PhaseComplete }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, c.Snapshot().TimeRemaining)
	require.Eventually(t, func() bool { return !c.Ticking() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, rec.completions())
}

func TestControllerClockOnlyForTimeAttack(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.SuddenDeath, DefaultRules(), rec)
	_, err := c.SelectTopic(dataset.Algebra, dataset.Level2)
	require.NoError(t, err)
	assert.False(t, c.Ticking())
}

func TestControllerStopsClockOnExitAndModeChange(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.TimeAttack, shortRules(60), rec)
	_, err := c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)
	require.True(t, c.Ticking())

	_, err = c.SelectMode(quiz.Classic)
	require.NoError(t, err)
	assert.False(t, c.Ticking())

	_, err = c.SelectMode(quiz.TimeAttack)
	require.NoError(t, err)
	_, err = c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)
	require.True(t, c.Ticking())

	st, err := c.Exit()
	require.NoError(t, err)
	assert.Equal(t, PhaseModeSelect, st.Phase)
	assert.False(t, c.Ticking())
	assert.Equal(t, 0, rec.completions())
}

func TestControllerRetryRestartsClock(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.TimeAttack, shortRules(2), rec)
	_, err := c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.Snapshot().Phase == PhaseComplete }, 2*time.Second, 5*time.Millisecond)

	st, err := c.Retry()
	require.NoError(t, err)
	assert.Equal(t, PhaseInProgress, st.Phase)
	assert.True(t, c.Ticking())
	require.Eventually(t, func() bool { return rec.completions() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestControllerAnswerHooks(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.SuddenDeath, DefaultRules(), rec)
	_, err := c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)

	for i := 0; c.Snapshot().Phase == PhaseInProgress; i++ {
		fb, st, err := c.SubmitAnswer(wrong)
		require.NoError(t, err)
		assert.True(t, fb.LifeLost)
		if st.Phase == PhaseInProgress {
			_, err = c.Advance()
			require.NoError(t, err)
		}
	}
	_, _, err = c.SubmitAnswer(wrong)
	assert.True(t, errors.Is(err, ErrNotInProgress))

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.answers, 3)
	assert.Equal(t, "Q0", rec.answers[0].Question)
	assert.Equal(t, wrong, rec.answers[0].Chosen)
	assert.Equal(t, "0", rec.answers[0].CorrectAnswer)
	assert.Equal(t, 2, rec.answers[0].LivesRemaining)
	assert.Equal(t, 0, rec.answers[2].LivesRemaining)
	require.Len(t, rec.complete, 1)
	assert.Equal(t, rec.answers[0].SessionID, rec.complete[0].SessionID)
}

func TestControllerCloseIsIdempotent(t *testing.T) {
	rec := &recorder{}
	c := newTestController(t, quiz.TimeAttack, shortRules(60), rec)
	_, err := c.SelectTopic(dataset.Arithmetic, dataset.Level1)
	require.NoError(t, err)

	c.Close()
	c.Close()
	assert.False(t, c.Ticking())
	if _, err := c.Advance(); !errors.Is(err, ErrClosed) {
		t.Errorf("Advance after Close error = %v, want ErrClosed", err)
	}
}
