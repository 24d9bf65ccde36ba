package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/distractor"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
)

const wrong = "wrong"

// fakeSource serves numbered questions whose answer is the number.
type fakeSource struct {
	available int
	next      int
}

func (f *fakeSource) BatchSize(m quiz.Mode) int {
	if m == quiz.Classic {
		return 5
	}
	return 20
}

func (f *fakeSource) Select(topic dataset.Topic, level dataset.Level, mode quiz.Mode, count int) ([]quiz.PresentedQuestion, error) {
	if f.available == 0 {
		return nil, fmt.Errorf("%s: %w", topic, quiz.ErrNoQuestionsAvailable)
	}
	out := make([]quiz.PresentedQuestion, 0, count)
	for i := range min(count, f.available) {
		out = append(out, question(i, topic, level))
	}
	return out, nil
}

func (f *fakeSource) Next(topic dataset.Topic, mode quiz.Mode) (quiz.PresentedQuestion, error) {
	if f.available == 0 {
		return quiz.PresentedQuestion{}, quiz.ErrNoQuestionsAvailable
	}
	f.next++
	return question(f.next, topic, dataset.Level2), nil
}

func question(i int, topic dataset.Topic, level dataset.Level) quiz.PresentedQuestion {
	ans := fmt.Sprint(i)
	return quiz.PresentedQuestion{
		Text:          fmt.Sprintf("Q%d", i),
		CorrectAnswer: ans,
		Options:       []string{wrong, ans, "x" + ans, "y" + ans},
		Topic:         topic,
		Level:         level,
	}
}

func answerCurrent(t *testing.T, s *Session, correct bool) Feedback {
	t.Helper()
	st := s.Snapshot()
	require.NotNil(t, st.Question, "no current question in phase %s", st.Phase)
	choice := wrong
	if correct {
		choice = st.Question.CorrectAnswer
	}
	fb, err := s.SubmitAnswer(choice)
	require.NoError(t, err)
	return fb
}

func startSession(t *testing.T, mode quiz.Mode, opts ...Option) *Session {
	t.Helper()
	s := New(&fakeSource{available: 20}, append([]Option{WithMode(mode)}, opts...)...)
	require.NoError(t, s.SelectTopic(dataset.Arithmetic, dataset.Level1))
	return s
}

func TestNewStartsInModeSelect(t *testing.T) {
	s := New(&fakeSource{available: 20})
	if s.Phase() != PhaseModeSelect {
		t.Errorf("Phase = %s, want modeSelect", s.Phase())
	}
	s = New(&fakeSource{available: 20}, WithMode(quiz.Classic))
	if s.Phase() != PhaseTopicSelect {
		t.Errorf("Phase with WithMode = %s, want topicSelect", s.Phase())
	}
	if err := New(&fakeSource{}).SelectTopic(dataset.Algebra, dataset.Level1); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("SelectTopic in ModeSelect error = %v, want ErrWrongPhase", err)
	}
}

func TestClassicAllCorrectWithDataset(t *testing.T) {
	ds, err := dataset.Default()
	require.NoError(t, err)
	sel := quiz.NewSelector(ds, distractor.New(rand.New(rand.NewPCG(7, 7)), nil), quiz.DefaultConfig(), rand.New(rand.NewPCG(1, 1)), nil)

	s := New(sel, WithMode(quiz.Classic))
	require.NoError(t, s.SelectTopic(dataset.Arithmetic, dataset.Level1))

	for s.Phase() == PhaseInProgress {
		answerCurrent(t, s, true)
		require.NoError(t, s.Advance())
	}

	st := s.Snapshot()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Equal(t, 5, st.Score)
	assert.Equal(t, 5, st.MaxStreak)
	assert.Equal(t, 5, st.Total)
}

func TestSelectTopicNoQuestionsStaysInTopicSelect(t *testing.T) {
	s := New(&fakeSource{}, WithMode(quiz.Classic))
	err := s.SelectTopic(dataset.Geometry, dataset.Level3)
	if !errors.Is(err, quiz.ErrNoQuestionsAvailable) {
		t.Fatalf("SelectTopic error = %v, want ErrNoQuestionsAvailable", err)
	}
	if s.Phase() != PhaseTopicSelect {
		t.Errorf("Phase = %s, want topicSelect", s.Phase())
	}
}

func TestSubmitAnswerRejections(t *testing.T) {
	s := New(&fakeSource{available: 20}, WithMode(quiz.Classic))
	if _, err := s.SubmitAnswer("1"); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("SubmitAnswer before start error = %v, want ErrNotInProgress", err)
	}
	if err := s.Advance(); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("Advance before start error = %v, want ErrNotInProgress", err)
	}

	require.NoError(t, s.SelectTopic(dataset.Arithmetic, dataset.Level1))
	if err := s.Advance(); !errors.Is(err, ErrNotAnswered) {
		t.Errorf("Advance before answer error = %v, want ErrNotAnswered", err)
	}
	answerCurrent(t, s, true)
	if _, err := s.SubmitAnswer("0"); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("second SubmitAnswer error = %v, want ErrAlreadyAnswered", err)
	}
	if got := s.Snapshot().Score; got != 1 {
		t.Errorf("Score after rejected resubmission = %d, want 1", got)
	}
}

func TestIncorrectAnswerResetsStreak(t *testing.T) {
	s := startSession(t, quiz.Classic)
	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	fb := answerCurrent(t, s, false)

	st := s.Snapshot()
	assert.False(t, fb.Correct)
	assert.Equal(t, "2", fb.CorrectAnswer)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 2, st.MaxStreak)
	assert.False(t, fb.LifeLost, "classic has no lives")
}

func TestSuddenDeathThreeMisses(t *testing.T) {
	s := startSession(t, quiz.SuddenDeath)
	if got := s.Snapshot().Lives; got != 3 {
		t.Fatalf("Lives = %d, want 3", got)
	}
	for i := range 3 {
		fb := answerCurrent(t, s, false)
		if !fb.LifeLost {
			t.Errorf("miss %d: LifeLost = false", i+1)
		}
		if i < 2 {
			require.NoError(t, s.Advance())
		}
	}
	st := s.Snapshot()
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, st.Lives)
	assert.True(t, st.LastFeedback.Ended)
}

func TestSuddenDeathLossAtOneLifeCompletes(t *testing.T) {
	s := startSession(t, quiz.SuddenDeath, WithRules(Rules{Lives: 1, TimeBudget: 60, TimeBonus: 3, CelebrateRatio: 0.8, EndlessLength: 10}))
	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	fb := answerCurrent(t, s, false)
	if !fb.Ended || s.Phase() != PhaseComplete {
		t.Errorf("Ended = %v, Phase = %s; want completion at zero lives", fb.Ended, s.Phase())
	}
	if _, err := s.SubmitAnswer("1"); !errors.Is(err, ErrNotInProgress) {
		t.Errorf("SubmitAnswer after completion error = %v, want ErrNotInProgress", err)
	}
}

func TestTimeAttackTickToZeroCompletes(t *testing.T) {
	s := startSession(t, quiz.TimeAttack)
	for range 59 {
		s.Tick()
	}
	st := s.Snapshot()
	require.Equal(t, 1, st.TimeRemaining)
	require.Equal(t, PhaseInProgress, st.Phase)

	epoch := s.Epoch()
	if !s.Tick() {
		t.Error("Tick from 1 reported no change")
	}
	assert.Equal(t, PhaseComplete, s.Phase())
	assert.Equal(t, 0, s.Snapshot().TimeRemaining)
	assert.NotEqual(t, epoch, s.Epoch(), "completion must retire the timer epoch")
	assert.False(t, s.Tick(), "Tick after completion should be ignored")
}

func TestTickIgnoredOutsideTimeAttack(t *testing.T) {
	s := startSession(t, quiz.Classic)
	if s.Tick() {
		t.Error("Tick changed a classic session")
	}
	s = New(&fakeSource{available: 20}, WithMode(quiz.TimeAttack))
	if s.Tick() {
		t.Error("Tick changed a session in TopicSelect")
	}
}

func TestTimeBonusCapsAtBudget(t *testing.T) {
	s := startSession(t, quiz.TimeAttack)
	s.Tick()
	require.Equal(t, 59, s.Snapshot().TimeRemaining)

	fb := answerCurrent(t, s, true)
	assert.Equal(t, 1, fb.TimeAdded)
	assert.Equal(t, 60, s.Snapshot().TimeRemaining)

	for range 10 {
		s.Tick()
	}
	require.NoError(t, s.Advance())
	fb = answerCurrent(t, s, true)
	assert.Equal(t, 3, fb.TimeAdded)
	assert.Equal(t, 53, s.Snapshot().TimeRemaining)
}

func TestTimeAttackPointsAndStreakBonus(t *testing.T) {
	s := startSession(t, quiz.TimeAttack)
	var earned []int
	for range 7 {
		fb := answerCurrent(t, s, true)
		earned = append(earned, fb.PointsEarned)
		require.NoError(t, s.Advance())
	}
	want := []int{10, 10, 10, 15, 15, 15, 20}
	assert.Equal(t, want, earned)
	assert.Equal(t, 95, s.Snapshot().Points)
}

func TestClassicPointsHaveNoStreakBonus(t *testing.T) {
	s := New(&fakeSource{available: 20}, WithMode(quiz.Classic))
	require.NoError(t, s.SelectTopic(dataset.Arithmetic, dataset.Level3))
	for s.Phase() == PhaseInProgress {
		answerCurrent(t, s, true)
		require.NoError(t, s.Advance())
	}
	if got := s.Snapshot().Points; got != 150 {
		t.Errorf("Points = %d, want 150", got)
	}
}

func TestSelectModeResets(t *testing.T) {
	s := startSession(t, quiz.SuddenDeath)
	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	answerCurrent(t, s, false)
	epoch := s.Epoch()

	s.SelectMode(quiz.TimeAttack)
	st := s.Snapshot()
	assert.Equal(t, PhaseTopicSelect, st.Phase)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 0, st.MaxStreak)
	assert.Equal(t, 0, st.Answered)
	assert.Equal(t, 60, st.TimeRemaining)
	assert.Nil(t, st.LastFeedback)
	assert.Nil(t, st.Question)
	assert.Greater(t, s.Epoch(), epoch)
}

func TestRetryResetsAndRedraws(t *testing.T) {
	s := startSession(t, quiz.SuddenDeath)
	first := s.Snapshot().SessionID
	for range 3 {
		answerCurrent(t, s, false)
		if s.Phase() == PhaseInProgress {
			require.NoError(t, s.Advance())
		}
	}
	require.Equal(t, PhaseComplete, s.Phase())

	require.NoError(t, s.Retry())
	st := s.Snapshot()
	assert.Equal(t, PhaseInProgress, st.Phase)
	assert.Equal(t, quiz.SuddenDeath, st.Mode)
	assert.Equal(t, dataset.Arithmetic, st.Topic)
	assert.Equal(t, dataset.Level1, st.Level)
	assert.Equal(t, 3, st.Lives)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, st.Index)
	assert.NotEqual(t, first, st.SessionID, "each run gets its own id")
}

func TestRetryResetsBeforeDrawing(t *testing.T) {
	src := &fakeSource{available: 20}
	s := New(src, WithMode(quiz.SuddenDeath))
	require.NoError(t, s.SelectTopic(dataset.Arithmetic, dataset.Level1))
	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	answerCurrent(t, s, false)

	src.available = 0
	err := s.Retry()
	require.ErrorIs(t, err, quiz.ErrNoQuestionsAvailable)

	st := s.Snapshot()
	assert.Equal(t, PhaseTopicSelect, st.Phase)
	assert.Equal(t, 0, st.Score)
	assert.Equal(t, 0, st.Streak)
	assert.Equal(t, 0, st.MaxStreak)
	assert.Equal(t, 3, st.Lives)
	assert.Nil(t, st.Question)
}

func TestRetryNotAllowedBeforeStart(t *testing.T) {
	s := New(&fakeSource{available: 20}, WithMode(quiz.Classic))
	if err := s.Retry(); !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Retry in TopicSelect error = %v, want ErrWrongPhase", err)
	}
}

func TestExitReturnsToModeSelect(t *testing.T) {
	s := startSession(t, quiz.TimeAttack)
	epoch := s.Epoch()
	s.Exit()
	if s.Phase() != PhaseModeSelect {
		t.Errorf("Phase after Exit = %s, want modeSelect", s.Phase())
	}
	if s.Epoch() == epoch {
		t.Error("Exit must retire the timer epoch")
	}
	if s.Tick() {
		t.Error("Tick after Exit changed state")
	}
}

func TestCelebrationAtThreshold(t *testing.T) {
	s := startSession(t, quiz.Classic, WithHighScore(func(quiz.Mode, dataset.Topic) int { return 99 }))
	var fired []int
	for i := 0; s.Phase() == PhaseInProgress; i++ {
		if answerCurrent(t, s, true).Celebrate {
			fired = append(fired, i+1)
		}
		require.NoError(t, s.Advance())
	}
	// floor(0.8 * 5) = 4
	assert.Equal(t, []int{4}, fired)
	assert.False(t, s.Snapshot().NewHighScore)
}

func TestNewHighScoreCelebrates(t *testing.T) {
	s := startSession(t, quiz.SuddenDeath, WithHighScore(func(m quiz.Mode, topic dataset.Topic) int {
		if m != quiz.SuddenDeath || topic != dataset.Arithmetic {
			t.Errorf("high score lookup for %s/%s", m, topic)
		}
		return 2
	}))
	var fired []int
	for i := range 4 {
		if answerCurrent(t, s, true).Celebrate {
			fired = append(fired, i+1)
		}
		require.NoError(t, s.Advance())
	}
	st := s.Snapshot()
	assert.Equal(t, []int{3}, fired)
	assert.True(t, st.NewHighScore)
	assert.Equal(t, 2, st.HighScore)
}

func TestEndlessClassicStopsAtLength(t *testing.T) {
	src := &fakeSource{available: 20}
	s := New(src, WithMode(quiz.Classic), Endless())
	require.NoError(t, s.SelectTopic(dataset.Probability, 0))
	assert.Equal(t, 10, s.Snapshot().Total)

	n := 0
	for s.Phase() == PhaseInProgress {
		answerCurrent(t, s, n%2 == 0)
		require.NoError(t, s.Advance())
		n++
	}
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, src.next)

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 50, res.Accuracy)
	assert.Equal(t, "", res.Record().Level)
}

func TestEndlessSuddenDeathRunsUntilLivesGone(t *testing.T) {
	s := New(&fakeSource{available: 20}, WithMode(quiz.SuddenDeath), Endless())
	require.NoError(t, s.SelectTopic(dataset.Statistics, 0))
	for range 30 {
		answerCurrent(t, s, true)
		require.NoError(t, s.Advance())
	}
	require.Equal(t, PhaseInProgress, s.Phase())
	for s.Phase() == PhaseInProgress {
		answerCurrent(t, s, false)
		if s.Phase() == PhaseInProgress {
			require.NoError(t, s.Advance())
		}
	}
	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 30, res.Survived)
	assert.Equal(t, 33, res.Total)
	// Level 2 questions: 30 * 20 points.
	assert.Equal(t, 600, res.Points)
}

func TestResult(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	clock := func() time.Time { return now }

	s := startSession(t, quiz.TimeAttack, WithClock(clock))
	if _, err := s.Result(); !errors.Is(err, ErrNotComplete) {
		t.Errorf("Result in progress error = %v, want ErrNotComplete", err)
	}
	for i := range 4 {
		answerCurrent(t, s, i != 3)
		require.NoError(t, s.Advance())
	}
	now = start.Add(30 * time.Second)
	for s.Phase() == PhaseInProgress {
		s.Tick()
	}

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Score)
	assert.Equal(t, 4, res.Answered)
	assert.Equal(t, 75, res.Accuracy)
	assert.Equal(t, 30*time.Second, res.Duration)
	assert.Equal(t, 6.0, res.PerMinute)
	assert.Equal(t, 20, res.Total)

	rec := res.Record()
	assert.Equal(t, "timeAttack", rec.Mode)
	assert.Equal(t, "ARITHMETIC", rec.Topic)
	assert.Equal(t, "Level 1", rec.Level)
	assert.Equal(t, res.SessionID, rec.SessionID)
	assert.Equal(t, now, rec.CompletedAt)
}

func TestFixedSession(t *testing.T) {
	qs := []quiz.PresentedQuestion{
		question(1, dataset.Arithmetic, dataset.Level1),
		question(2, dataset.Algebra, dataset.Level2),
	}
	s := NewFixed(qs)
	require.Equal(t, PhaseInProgress, s.Phase())
	require.Equal(t, quiz.Classic, s.Mode())

	answerCurrent(t, s, true)
	require.NoError(t, s.Advance())
	assert.Equal(t, dataset.Algebra, s.Snapshot().Question.Topic)
	answerCurrent(t, s, false)
	require.NoError(t, s.Advance())

	res, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 2, res.Total)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := startSession(t, quiz.Classic)
	st := s.Snapshot()
	st.Question.Options[0] = "tampered"
	if s.Snapshot().Question.Options[0] == "tampered" {
		t.Error("Snapshot shares option storage with the session")
	}
}
