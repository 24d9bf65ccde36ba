// Package play runs a round: a topic quiz, the endless game mode or the
// daily challenge.
package play

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/router"
	"github.com/CuriousNebula/Math-Master/internal/screen"
	"github.com/CuriousNebula/Math-Master/internal/screens/results"
	"github.com/CuriousNebula/Math-Master/internal/session"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
	"github.com/CuriousNebula/Math-Master/internal/ui/components"
	"github.com/CuriousNebula/Math-Master/internal/ui/layout"
	"github.com/CuriousNebula/Math-Master/internal/ui/theme"
)

type kind int

const (
	kindQuiz  kind = iota // fixed topic; mode, then level
	kindGame              // endless; mode, then topic
	kindDaily             // today's fixed set
)

// Screen implements screen.Screen for a round of play.
type Screen struct {
	svc  screen.Services
	kind kind
	sess *session.Session

	topic   dataset.Topic
	menu    components.Menu
	choice  components.MultiChoice
	notice  string
	spinner spinner.Model
	keys    keyMap

	seq         int // answers submitted on this screen
	feedback    *session.Feedback
	answered    *quiz.PresentedQuestion
	confirmQuit bool
	reported    bool

	explaining  bool
	explanation *tutor.Explanation
	explainErr  string

	loading   bool
	played    *store.DailyResult
	streak    int
	dailyDate string
	errMsg    string

	initCmd tea.Cmd
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BackHandler = (*Screen)(nil)

// NewQuiz plays a fixed-length round of topic.
func NewQuiz(svc screen.Services, topic dataset.Topic) *Screen {
	s := newScreen(svc, kindQuiz)
	s.topic = topic
	s.sess = session.New(s.svc.Selector, s.svc.SessionOptions()...)
	s.menu = s.modeMenu()
	return s
}

// NewQuizAt skips the menus and starts topic at level in mode. When the
// level has no questions the level menu is shown with a notice.
func NewQuizAt(svc screen.Services, topic dataset.Topic, m quiz.Mode, level dataset.Level) *Screen {
	s := NewQuiz(svc, topic)
	s.chooseMode(m)
	s.initCmd = s.start(topic, level)
	return s
}

// NewGame plays an endless round on a topic picked after the mode.
func NewGame(svc screen.Services) *Screen {
	s := newScreen(svc, kindGame)
	s.sess = session.New(s.svc.Selector, append(s.svc.SessionOptions(), session.Endless())...)
	s.menu = s.modeMenu()
	return s
}

// NewDaily plays today's challenge, or shows today's result when it has
// already been played.
func NewDaily(svc screen.Services) *Screen {
	s := newScreen(svc, kindDaily)
	s.loading = true
	return s
}

func newScreen(svc screen.Services, k kind) *Screen {
	svc = svc.WithDefaults()
	return &Screen{
		svc:  svc,
		kind: k,
		keys: defaultKeys(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.ArcadeCyan)),
		),
	}
}

func (s *Screen) Init() tea.Cmd {
	if s.kind == kindDaily {
		return tea.Batch(s.spinner.Tick, s.loadDaily())
	}
	return s.initCmd
}

func (s *Screen) Title() string {
	switch s.kind {
	case kindGame:
		return "Game Mode"
	case kindDaily:
		return "Daily Challenge"
	default:
		return s.topic.DisplayName()
	}
}

// HandlesBack claims Esc while a round is running, to confirm quitting,
// and on the level or topic menu, to return to the mode menu.
func (s *Screen) HandlesBack() bool {
	if s.sess == nil || s.errMsg != "" {
		return false
	}
	switch s.sess.Phase() {
	case session.PhaseInProgress:
		return true
	case session.PhaseTopicSelect:
		return s.kind != kindDaily
	}
	return false
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.sess == nil || s.errMsg != "" {
		return hints(s.keys.Back)
	}
	if s.confirmQuit {
		return hints(s.keys.Confirm, s.keys.Cancel)
	}
	switch s.sess.Phase() {
	case session.PhaseModeSelect, session.PhaseTopicSelect:
		return hints(s.keys.Move, s.keys.Select, s.keys.Back)
	case session.PhaseInProgress:
		if s.feedback == nil {
			return hints(s.keys.Answer, s.keys.Move, s.keys.Select, s.keys.Quit)
		}
		if s.explaining {
			return hints(s.keys.Quit)
		}
		if s.canExplain() {
			return hints(s.keys.Next, s.keys.Explain, s.keys.Quit)
		}
		return hints(s.keys.Next, s.keys.Quit)
	}
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dailyLoadedMsg:
		return s, s.handleDailyLoaded(msg)

	case modeChosenMsg:
		return s, s.chooseMode(msg.mode)

	case levelChosenMsg:
		return s, s.start(s.topic, msg.level)

	case topicChosenMsg:
		s.topic = msg.topic
		return s, s.start(msg.topic, dataset.Level1)

	case components.ChoiceMsg:
		return s, s.submit(msg.Choice)

	case tickMsg:
		return s, s.handleTick(msg)

	case feedbackDoneMsg:
		if msg.seq != s.seq || s.feedback == nil || s.paused() {
			return s, nil
		}
		return s, s.next()

	case explainMsg:
		s.handleExplain(msg)
		return s, nil

	case results.RetryMsg:
		return s, s.retry()

	case results.ReselectMsg:
		return s, s.chooseMode(s.sess.Mode())

	case spinner.TickMsg:
		if !s.loading && !s.explaining {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.errMsg != "" || (s.sess == nil && !s.loading) {
		if key.Matches(msg, s.keys.Back, s.keys.Select) {
			return router.Pop
		}
		return nil
	}
	if s.sess == nil {
		return nil
	}

	if s.confirmQuit {
		switch {
		case key.Matches(msg, s.keys.Confirm):
			s.confirmQuit = false
			s.clearRound()
			s.sess.Exit()
			return router.Pop
		case key.Matches(msg, s.keys.Cancel):
			s.confirmQuit = false
		}
		return nil
	}

	switch s.sess.Phase() {
	case session.PhaseModeSelect, session.PhaseTopicSelect:
		if s.sess.Phase() == session.PhaseTopicSelect && key.Matches(msg, s.keys.Back) {
			s.sess.Exit()
			s.notice = ""
			s.menu = s.modeMenu()
			return nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return cmd

	case session.PhaseInProgress:
		if key.Matches(msg, s.keys.Quit) {
			s.confirmQuit = true
			return nil
		}
		if s.feedback == nil {
			var cmd tea.Cmd
			s.choice, cmd = s.choice.Update(msg)
			return cmd
		}
		if key.Matches(msg, s.keys.Explain) && s.canExplain() {
			return s.requestExplain()
		}
		if s.explaining {
			return nil
		}
		return s.next()
	}
	return nil
}

func (s *Screen) chooseMode(m quiz.Mode) tea.Cmd {
	s.clearRound()
	s.sess.SelectMode(m)
	s.notice = ""
	if s.kind == kindGame {
		s.menu = s.topicMenu()
	} else {
		s.menu = s.levelMenu()
	}
	return nil
}

// start draws questions for the round. A level without questions keeps
// the player on the level menu with a notice.
func (s *Screen) start(topic dataset.Topic, level dataset.Level) tea.Cmd {
	err := s.sess.SelectTopic(topic, level)
	switch {
	case errors.Is(err, quiz.ErrNoQuestionsAvailable):
		s.notice = quiz.NoQuestionsMessage
		return nil
	case err != nil:
		s.svc.Logger.Warn("could not start round", zap.String("topic", topic.Key()), zap.Error(err))
		s.notice = err.Error()
		return nil
	}
	s.notice = ""
	return s.begin()
}

func (s *Screen) retry() tea.Cmd {
	s.clearRound()
	if err := s.sess.Retry(); err != nil {
		if errors.Is(err, quiz.ErrNoQuestionsAvailable) {
			s.notice = quiz.NoQuestionsMessage
		} else {
			s.notice = err.Error()
		}
		if s.kind == kindGame {
			s.menu = s.topicMenu()
		} else {
			s.menu = s.levelMenu()
		}
		return nil
	}
	return s.begin()
}

// begin shows the first question and starts the clock in time attack.
func (s *Screen) begin() tea.Cmd {
	s.clearRound()
	s.loadQuestion()
	if s.sess.Mode() == quiz.TimeAttack {
		return s.tick()
	}
	return nil
}

func (s *Screen) tick() tea.Cmd {
	epoch := s.sess.Epoch()
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{epoch: epoch}
	})
}

func (s *Screen) handleTick(msg tickMsg) tea.Cmd {
	if s.sess == nil || msg.epoch != s.sess.Epoch() {
		return nil
	}
	if !s.sess.Tick() {
		return nil
	}
	if s.sess.Phase() == session.PhaseComplete {
		return s.finish()
	}
	return s.tick()
}

func (s *Screen) loadQuestion() {
	st := s.sess.Snapshot()
	if st.Question != nil {
		s.choice = components.NewMultiChoice(st.Question.Text, st.Question.Options)
	}
}

// submit scores choice, stores the answer and starts the feedback pause.
func (s *Screen) submit(choice string) tea.Cmd {
	if s.sess == nil || s.sess.Phase() != session.PhaseInProgress || s.feedback != nil {
		return nil
	}
	before := s.sess.Snapshot()
	fb, err := s.sess.SubmitAnswer(choice)
	if err != nil {
		s.svc.Logger.Debug("answer rejected", zap.Error(err))
		return nil
	}
	after := s.sess.Snapshot()
	s.svc.SaveAnswer(session.AnswerEvent(before, fb, after, s.svc.Now()))

	s.seq++
	s.feedback = &fb
	s.answered = before.Question
	s.choice.Reveal(choice, fb.CorrectAnswer)

	seq := s.seq
	return tea.Tick(s.sess.Mode().FeedbackDelay(), func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

// next leaves the feedback pause: on to the next question, or to the
// results when the round is over.
func (s *Screen) next() tea.Cmd {
	if s.feedback == nil {
		return nil
	}
	s.feedback = nil
	s.clearExplain()

	if s.sess.Phase() == session.PhaseInProgress {
		if err := s.sess.Advance(); err != nil {
			s.svc.Logger.Warn("could not draw the next question", zap.Error(err))
		}
	}
	if s.sess.Phase() == session.PhaseComplete {
		return s.finish()
	}
	s.loadQuestion()
	return nil
}

// finish stores the round once and shows the results.
func (s *Screen) finish() tea.Cmd {
	if s.reported {
		return nil
	}
	s.clearRound()
	s.reported = true

	res, err := s.sess.Result()
	if err != nil {
		s.svc.Logger.Error("round ended without a result", zap.Error(err))
		return nil
	}
	if s.kind == kindDaily {
		return s.finishDaily(res)
	}
	s.svc.SaveResult(res)
	return tea.Batch(router.Push(results.New(res)), statsChanged)
}

func (s *Screen) finishDaily(res session.Result) tea.Cmd {
	day := store.DailyResult{
		Date:        s.dailyDate,
		Score:       res.Score,
		Total:       res.Total,
		CompletedAt: res.CompletedAt,
	}
	s.played = &day
	if s.svc.Daily != nil {
		ctx := context.Background()
		if _, err := s.svc.Daily.SaveDaily(ctx, day); err != nil {
			s.svc.Logger.Error("failed to store daily result", zap.String("date", day.Date), zap.Error(err))
		}
		streak, err := s.svc.Daily.DailyStreak(ctx, s.svc.Now())
		if err != nil {
			s.svc.Logger.Warn("daily streak lookup failed", zap.Error(err))
		}
		s.streak = streak
	}
	return tea.Batch(router.Push(results.NewDaily(res, results.Daily{Streak: s.streak})), statsChanged)
}

func statsChanged() tea.Msg { return screen.StatsChangedMsg{} }

func (s *Screen) clearRound() {
	s.feedback = nil
	s.confirmQuit = false
	s.reported = false
	s.clearExplain()
}

func (s *Screen) clearExplain() {
	s.explaining = false
	s.explanation = nil
	s.explainErr = ""
}

// paused holds the feedback on screen while an explanation is involved.
func (s *Screen) paused() bool {
	return s.explaining || s.explanation != nil || s.explainErr != ""
}

func (s *Screen) canExplain() bool {
	return s.svc.Tutor.Enabled() &&
		s.feedback != nil && !s.feedback.Correct &&
		s.answered != nil && !s.paused()
}

func (s *Screen) requestExplain() tea.Cmd {
	s.explaining = true
	seq := s.seq
	q, fb, t := *s.answered, *s.feedback, s.svc.Tutor
	ask := func() tea.Msg {
		exp, err := t.Explain(context.Background(), q.Text, fb.CorrectAnswer, fb.Choice)
		return explainMsg{seq: seq, explanation: exp, err: err}
	}
	return tea.Batch(s.spinner.Tick, ask)
}

func (s *Screen) handleExplain(msg explainMsg) {
	if msg.seq != s.seq || !s.explaining {
		return
	}
	s.explaining = false
	if msg.err != nil {
		s.svc.Logger.Warn("explanation failed", zap.Error(msg.err))
		s.explainErr = "The tutor is unavailable right now."
		return
	}
	s.explanation = msg.explanation
}

func (s *Screen) loadDaily() tea.Cmd {
	svc := s.svc
	return func() tea.Msg {
		ctx := context.Background()
		now := svc.Now()
		var msg dailyLoadedMsg
		if svc.Daily != nil {
			played, err := svc.Daily.DailyFor(ctx, store.DateKey(now))
			switch {
			case err == nil:
				msg.played = played
			case !errors.Is(err, store.ErrNotFound):
				return dailyLoadedMsg{err: err}
			}
			if msg.streak, err = svc.Daily.DailyStreak(ctx, now); err != nil {
				return dailyLoadedMsg{err: err}
			}
		}
		if msg.played == nil {
			qs, err := svc.Selector.Daily(now)
			if err != nil {
				return dailyLoadedMsg{err: err}
			}
			msg.questions = qs
		}
		return msg
	}
}

func (s *Screen) handleDailyLoaded(msg dailyLoadedMsg) tea.Cmd {
	s.loading = false
	if msg.err != nil {
		s.svc.Logger.Error("could not load the daily challenge", zap.Error(msg.err))
		s.errMsg = fmt.Sprintf("Could not load today's challenge: %v", msg.err)
		return nil
	}
	s.streak = msg.streak
	if msg.played != nil {
		s.played = msg.played
		return nil
	}
	s.dailyDate = store.DateKey(s.svc.Now())
	s.sess = session.NewFixed(msg.questions, session.WithRules(s.svc.Rules), session.WithClock(s.svc.Now))
	return s.begin()
}

func (s *Screen) modeMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(quiz.AllModes))
	for _, m := range quiz.AllModes {
		items = append(items, components.MenuItem{
			Label:  m.DisplayName(),
			Detail: m.Description(),
			Action: send(modeChosenMsg{mode: m}),
		})
	}
	return components.NewMenu(items)
}

func (s *Screen) levelMenu() components.Menu {
	ds := s.svc.Selector.Dataset()
	items := make([]components.MenuItem, 0, len(dataset.AllLevels))
	for _, l := range dataset.AllLevels {
		items = append(items, components.MenuItem{
			Label:  l.Key(),
			Detail: fmt.Sprintf("%d questions · %d points each", ds.Count(s.topic, l), l.Points()),
			Action: send(levelChosenMsg{level: l}),
		})
	}
	return components.NewMenu(items)
}

func (s *Screen) topicMenu() components.Menu {
	items := make([]components.MenuItem, 0, len(dataset.AllTopics))
	for _, t := range dataset.AllTopics {
		items = append(items, components.MenuItem{
			Label:  t.Icon() + " " + t.DisplayName(),
			Detail: "Questions from every level",
			Action: send(topicChosenMsg{topic: t}),
		})
	}
	return components.NewMenu(items)
}

func send(msg tea.Msg) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return msg }
	}
}
