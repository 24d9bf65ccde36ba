package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/store"
)

// ErrClosed is returned by a Controller after Close.
var ErrClosed = errors.New("session closed")

// Hooks receive session events from a Controller. They run after the
// controller lock is released.
type Hooks struct {
	OnAnswer   func(store.AnswerEvent)
	OnComplete func(Result)
}

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	TickInterval time.Duration // default one second
	Hooks        Hooks
	Logger       *zap.Logger
	Now          func() time.Time
}

// Controller drives a Session from several goroutines and owns the
// time-attack clock. The clock runs only while a time-attack round is in
// progress and is stopped on completion, retry, mode change, exit and Close.
type Controller struct {
	cfg ControllerConfig

	mu       sync.Mutex
	s        *Session
	cancel   context.CancelFunc
	running  uint64 // epoch the clock runs for
	reported string // run ID whose completion was reported
	closed   bool
	wg       sync.WaitGroup
}

// NewController wraps s.
func NewController(s *Session, cfg ControllerConfig) *Controller {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Controller{cfg: cfg, s: s}
	c.mu.Lock()
	c.syncClock()
	c.mu.Unlock()
	return c
}

// SelectMode forwards to Session.SelectMode.
func (c *Controller) SelectMode(m quiz.Mode) (State, error) {
	return c.do(func(s *Session) error {
		s.SelectMode(m)
		return nil
	})
}

// SelectTopic forwards to Session.SelectTopic.
func (c *Controller) SelectTopic(topic dataset.Topic, level dataset.Level) (State, error) {
	return c.do(func(s *Session) error { return s.SelectTopic(topic, level) })
}

// SubmitAnswer forwards to Session.SubmitAnswer and reports the answer
// to Hooks.OnAnswer.
func (c *Controller) SubmitAnswer(choice string) (Feedback, State, error) {
	var fb Feedback
	var ev *store.AnswerEvent
	st, res, err := c.exec(func(s *Session) error {
		before := s.Snapshot()
		var err error
		fb, err = s.SubmitAnswer(choice)
		if err != nil {
			return err
		}
		e := AnswerEvent(before, fb, s.Snapshot(), c.cfg.Now())
		ev = &e
		return nil
	})
	if ev != nil && c.cfg.Hooks.OnAnswer != nil {
		c.cfg.Hooks.OnAnswer(*ev)
	}
	c.report(res)
	return fb, st, err
}

// Advance forwards to Session.Advance.
func (c *Controller) Advance() (State, error) {
	return c.do(func(s *Session) error { return s.Advance() })
}

// Retry forwards to Session.Retry.
func (c *Controller) Retry() (State, error) {
	return c.do(func(s *Session) error { return s.Retry() })
}

// Exit forwards to Session.Exit.
func (c *Controller) Exit() (State, error) {
	return c.do(func(s *Session) error {
		s.Exit()
		return nil
	})
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Snapshot()
}

// Result returns the summary of a completed session.
func (c *Controller) Result() (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.s.Result()
}

// Ticking reports whether the time-attack clock is running.
func (c *Controller) Ticking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Close stops the clock and waits for it to exit. It is safe to call
// more than once.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopClock()
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) do(fn func(*Session) error) (State, error) {
	st, res, err := c.exec(fn)
	c.report(res)
	return st, err
}

func (c *Controller) exec(fn func(*Session) error) (State, *Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return State{}, nil, ErrClosed
	}
	err := fn(c.s)
	c.syncClock()
	return c.s.Snapshot(), c.takeResult(), err
}

// syncClock starts or stops the clock to match the session. Must be
// called with mu held.
func (c *Controller) syncClock() {
	want := !c.closed && c.s.Mode() == quiz.TimeAttack && c.s.Phase() == PhaseInProgress
	if c.cancel != nil && (!want || c.running != c.s.Epoch()) {
		c.stopClock()
	}
	if want && c.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		c.running = c.s.Epoch()
		c.wg.Add(1)
		go c.runClock(ctx, c.running)
	}
}

func (c *Controller) stopClock() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) runClock(ctx context.Context, epoch uint64) {
	defer c.wg.Done()
	t := time.NewTicker(c.cfg.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !c.tick(epoch) {
				return
			}
		}
	}
}

// tick applies one clock tick and reports whether the clock should keep running.
func (c *Controller) tick(epoch uint64) bool {
	c.mu.Lock()
	if c.closed || c.s.Epoch() != epoch {
		c.mu.Unlock()
		return false
	}
	c.s.Tick()
	c.syncClock()
	alive := c.cancel != nil && c.running == epoch
	res := c.takeResult()
	c.mu.Unlock()

	if res != nil {
		c.cfg.Logger.Debug("time attack finished", zap.String("session", res.SessionID), zap.Int("score", res.Score))
	}
	c.report(res)
	return alive
}

// takeResult returns the result of a newly completed run. Must be called
// with mu held.
func (c *Controller) takeResult() *Result {
	if c.s.Phase() != PhaseComplete {
		return nil
	}
	res, err := c.s.Result()
	if err != nil || res.SessionID == c.reported {
		return nil
	}
	c.reported = res.SessionID
	return &res
}

func (c *Controller) report(res *Result) {
	if res != nil && c.cfg.Hooks.OnComplete != nil {
		c.cfg.Hooks.OnComplete(*res)
	}
}
