package play

import (
	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/quiz"
	"github.com/CuriousNebula/Math-Master/internal/store"
	"github.com/CuriousNebula/Math-Master/internal/tutor"
)

// tickMsg is one second of the time-attack clock. Ticks from an older
// epoch belong to a round that has since ended or restarted.
type tickMsg struct {
	epoch uint64
}

// feedbackDoneMsg ends the feedback pause for answer number seq.
type feedbackDoneMsg struct {
	seq int
}

// explainMsg carries the tutor's reply for answer number seq.
type explainMsg struct {
	seq         int
	explanation *tutor.Explanation
	err         error
}

// dailyLoadedMsg is sent once today's challenge has been looked up.
type dailyLoadedMsg struct {
	played    *store.DailyResult
	streak    int
	questions []quiz.PresentedQuestion
	err       error
}

// modeChosenMsg, levelChosenMsg and topicChosenMsg come from the menus.
type modeChosenMsg struct {
	mode quiz.Mode
}

type levelChosenMsg struct {
	level dataset.Level
}

type topicChosenMsg struct {
	topic dataset.Topic
}
