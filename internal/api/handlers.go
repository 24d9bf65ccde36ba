package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/llm"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
)

// sessionView is the JSON form of a session.
type sessionView struct {
	ID    string `json:"id"`
	Phase string `json:"phase"`
	Mode  string `json:"mode,omitempty"`
	Topic string `json:"topic,omitempty"`
	Level string `json:"level,omitempty"`
	session.State
}

func viewOf(id string, st session.State) sessionView {
	v := sessionView{ID: id, Phase: st.Phase.String(), State: st}
	if st.Phase != session.PhaseModeSelect {
		v.Mode = st.Mode.String()
	}
	if st.Phase == session.PhaseInProgress || st.Phase == session.PhaseComplete {
		v.Topic = st.Topic.Key()
		if !st.Endless && st.Level != 0 {
			v.Level = st.Level.Key()
		}
	}
	return v
}

type resultView struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
	Level string `json:"level,omitempty"`
	session.Result
}

type levelView struct {
	Level     string `json:"level"`
	Points    int    `json:"points"`
	Questions int    `json:"questions"`
}

type topicView struct {
	Topic  string      `json:"topic"`
	Name   string      `json:"name"`
	Icon   string      `json:"icon"`
	Levels []levelView `json:"levels"`
}

func (s *Server) listTopics(c *gin.Context) {
	ds := s.deps.Selector.Dataset()
	out := make([]topicView, 0, len(dataset.AllTopics))
	for _, t := range dataset.AllTopics {
		tv := topicView{Topic: t.Key(), Name: t.DisplayName(), Icon: t.Icon(), Levels: []levelView{}}
		for _, l := range ds.Levels(t) {
			tv.Levels = append(tv.Levels, levelView{Level: l.Key(), Points: l.Points(), Questions: ds.Count(t, l)})
		}
		out = append(out, tv)
	}
	c.JSON(http.StatusOK, gin.H{"topics": out, "version": ds.Version()})
}

type createRequest struct {
	Mode    string `json:"mode"`
	Topic   string `json:"topic"`
	Level   string `json:"level"`
	Endless bool   `json:"endless"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.Topic != "" && req.Mode == "" {
		badRequest(c, errors.New("topic requires a mode"))
		return
	}

	opts := []session.Option{
		session.WithRules(s.deps.Rules),
		session.WithClock(s.deps.Now),
		session.WithHighScore(s.highScore),
	}
	var mode quiz.Mode
	if req.Mode != "" {
		m, err := quiz.ParseMode(req.Mode)
		if err != nil {
			badRequest(c, err)
			return
		}
		mode = m
		opts = append(opts, session.WithMode(m))
	}
	if req.Endless {
		opts = append(opts, session.Endless())
	}

	var (
		topic dataset.Topic
		level dataset.Level
	)
	if req.Topic != "" {
		var err error
		if topic, level, err = parseTopicLevel(req.Topic, req.Level, req.Endless); err != nil {
			badRequest(c, err)
			return
		}
	}

	id, e := s.open(session.New(s.deps.Selector, opts...))
	if req.Mode != "" {
		s.metrics.sessionsStarted.WithLabelValues(mode.String()).Inc()
	}

	st := e.ctrl.Snapshot()
	if req.Topic != "" {
		var err error
		st, err = e.ctrl.SelectTopic(topic, level)
		if err != nil {
			s.remove(id)
			s.fail(c, err)
			return
		}
	}
	s.logger.Debug("session created", zap.String("session", id), zap.String("phase", st.Phase.String()))
	c.JSON(http.StatusCreated, viewOf(id, st))
}

func (s *Server) getSession(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), e.ctrl.Snapshot()))
}

func (s *Server) deleteSession(c *gin.Context) {
	if !s.remove(c.Param("id")) {
		s.fail(c, ErrUnknownSession)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) selectMode(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m, err := quiz.ParseMode(req.Mode)
	if err != nil {
		badRequest(c, err)
		return
	}
	st, err := e.ctrl.SelectMode(m)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.metrics.sessionsStarted.WithLabelValues(m.String()).Inc()
	c.JSON(http.StatusOK, viewOf(c.Param("id"), st))
}

func (s *Server) selectTopic(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	var req struct {
		Topic string `json:"topic" binding:"required"`
		Level string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	topic, level, err := parseTopicLevel(req.Topic, req.Level, e.ctrl.Snapshot().Endless)
	if err != nil {
		badRequest(c, err)
		return
	}
	st, err := e.ctrl.SelectTopic(topic, level)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), st))
}

func (s *Server) submitAnswer(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	var req struct {
		Choice string `json:"choice" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	fb, st, err := e.ctrl.SubmitAnswer(req.Choice)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": fb, "session": viewOf(c.Param("id"), st)})
}

func (s *Server) advance(c *gin.Context) {
	s.transition(c, (*session.Controller).Advance)
}

func (s *Server) retry(c *gin.Context) {
	s.transition(c, (*session.Controller).Retry)
}

func (s *Server) exit(c *gin.Context) {
	s.transition(c, (*session.Controller).Exit)
}

func (s *Server) transition(c *gin.Context, fn func(*session.Controller) (session.State, error)) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	st, err := fn(e.ctrl)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(c.Param("id"), st))
}

func (s *Server) result(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	res, err := e.ctrl.Result()
	if err != nil {
		s.fail(c, err)
		return
	}
	v := resultView{Mode: res.Mode.String(), Topic: res.Topic.Key(), Result: res}
	if !res.Endless && res.Level != 0 {
		v.Level = res.Level.Key()
	}
	c.JSON(http.StatusOK, v)
}

// errNothingToExplain is returned when the session has no missed answer.
var errNothingToExplain = errors.New("no missed question to explain")

func (s *Server) explain(c *gin.Context) {
	e, ok := s.entry(c)
	if !ok {
		return
	}
	if !s.deps.Tutor.Enabled() {
		s.fail(c, tutor.ErrDisabled)
		return
	}
	e.mu.Lock()
	last := e.lastAnswer
	e.mu.Unlock()
	if last == nil || last.Correct {
		s.fail(c, errNothingToExplain)
		return
	}

	start := time.Now()
	out, err := s.deps.Tutor.Explain(c.Request.Context(), last.Question, last.CorrectAnswer, last.Chosen)
	s.metrics.explainDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.explanations.WithLabelValues("failure").Inc()
		s.fail(c, err)
		return
	}
	s.metrics.explanations.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"question":      last.Question,
		"correctAnswer": last.CorrectAnswer,
		"chosen":        last.Chosen,
		"explanation":   out,
	})
}

type dailyView struct {
	Date        string    `json:"date"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completedAt"`
}

func dailyViewOf(d *store.DailyResult) *dailyView {
	if d == nil {
		return nil
	}
	return &dailyView{Date: d.Date, Score: d.Score, Total: d.Total, CompletedAt: d.CompletedAt}
}

func (s *Server) getDaily(c *gin.Context) {
	now := s.deps.Now()
	qs, err := s.deps.Selector.Daily(now)
	if err != nil {
		s.fail(c, err)
		return
	}
	played, streak, err := s.dailyStatus(c, now)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date":      store.DateKey(now),
		"questions": qs,
		"played":    dailyViewOf(played),
		"streak":    streak,
	})
}

func (s *Server) submitDaily(c *gin.Context) {
	var req struct {
		Answers []string `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	now := s.deps.Now()
	qs, err := s.deps.Selector.Daily(now)
	if err != nil {
		s.fail(c, err)
		return
	}
	if len(req.Answers) != len(qs) {
		badRequest(c, errors.New("answers: want "+strconv.Itoa(len(qs))+" answers, got "+strconv.Itoa(len(req.Answers))))
		return
	}

	score := 0
	correct := make([]string, len(qs))
	for i, q := range qs {
		correct[i] = q.CorrectAnswer
		if q.IsCorrect(req.Answers[i]) {
			score++
		}
	}

	res := store.DailyResult{Date: store.DateKey(now), Score: score, Total: len(qs), CompletedAt: now}
	saved, err := s.deps.Daily.SaveDaily(c.Request.Context(), res)
	if err != nil {
		s.fail(c, err)
		return
	}
	if !saved {
		s.metrics.dailySubmissions.WithLabelValues("duplicate").Inc()
		existing, err := s.deps.Daily.DailyFor(c.Request.Context(), res.Date)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":  "daily challenge already played today",
			"result": dailyViewOf(existing),
		})
		return
	}
	s.metrics.dailySubmissions.WithLabelValues("saved").Inc()

	streak, err := s.deps.Daily.DailyStreak(c.Request.Context(), now)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":         dailyViewOf(&res),
		"correctAnswers": correct,
		"streak":         streak,
	})
}

func (s *Server) dailyStatus(c *gin.Context, now time.Time) (*store.DailyResult, int, error) {
	played, err := s.deps.Daily.DailyFor(c.Request.Context(), store.DateKey(now))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, 0, err
	}
	streak, err := s.deps.Daily.DailyStreak(c.Request.Context(), now)
	if err != nil {
		return nil, 0, err
	}
	return played, streak, nil
}

type highScoreView struct {
	Mode  string `json:"mode"`
	Topic string `json:"topic"`
	Score int    `json:"score"`
}

type gameView struct {
	SessionID   string    `json:"sessionId"`
	Mode        string    `json:"mode"`
	Topic       string    `json:"topic"`
	Level       string    `json:"level,omitempty"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	MaxStreak   int       `json:"maxStreak"`
	Points      int       `json:"points"`
	DurationMs  int64     `json:"durationMs"`
	CompletedAt time.Time `json:"completedAt"`
}

func (s *Server) listScores(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, errors.New("limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	mode := c.Query("mode")
	if mode != "" {
		m, err := quiz.ParseMode(mode)
		if err != nil {
			badRequest(c, err)
			return
		}
		mode = m.String()
	}

	highs, err := s.deps.Results.HighScores(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	recent, err := s.deps.Results.RecentResults(c.Request.Context(), store.QueryOpts{Limit: limit, Mode: mode})
	if err != nil {
		s.fail(c, err)
		return
	}

	hv := make([]highScoreView, 0, len(highs))
	for _, h := range highs {
		if mode != "" && h.Mode != mode {
			continue
		}
		hv = append(hv, highScoreView{Mode: h.Mode, Topic: h.Topic, Score: h.Score})
	}
	rv := make([]gameView, 0, len(recent))
	for _, r := range recent {
		rv = append(rv, gameView{
			SessionID:   r.SessionID,
			Mode:        r.Mode,
			Topic:       r.Topic,
			Level:       r.Level,
			Score:       r.Score,
			Total:       r.Total,
			MaxStreak:   r.MaxStreak,
			Points:      r.Points,
			DurationMs:  r.Duration.Milliseconds(),
			CompletedAt: r.CompletedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"highScores": hv, "recent": rv})
}

func (s *Server) entry(c *gin.Context) (*entry, bool) {
	e, err := s.lookup(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return e, true
}

func parseTopicLevel(topicKey, levelKey string, endless bool) (dataset.Topic, dataset.Level, error) {
	topic, err := dataset.ParseTopic(topicKey)
	if err != nil {
		return 0, 0, err
	}
	if levelKey == "" {
		if endless {
			return topic, 0, nil
		}
		return 0, 0, errors.New("level is required")
	}
	level, err := dataset.ParseLevel(levelKey)
	if err != nil {
		return 0, 0, err
	}
	return topic, level, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps err onto a status code and writes it as {"error": ...}.
func (s *Server) fail(c *gin.Context, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, ErrUnknownSession):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		status, msg = http.StatusUnprocessableEntity, quiz.NoQuestionsMessage
	case errors.Is(err, session.ErrNotInProgress),
		errors.Is(err, session.ErrAlreadyAnswered),
		errors.Is(err, session.ErrNotAnswered),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, session.ErrNotComplete),
		errors.Is(err, session.ErrClosed),
		errors.Is(err, errNothingToExplain):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, tutor.ErrDisabled):
		status, msg = http.StatusNotFound, err.Error()
	default:
		if kind, ok := llm.KindOf(err); ok {
			status, msg = http.StatusBadGateway, "tutor unavailable"
			if kind == llm.KindRateLimited {
				status, msg = http.StatusTooManyRequests, "tutor is busy, try again shortly"
			}
		}
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": msg})
}
