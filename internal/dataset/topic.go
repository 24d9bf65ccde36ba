package dataset

import (
	"fmt"
	"strings"
)

// Topic is a subject area of the question bank.
type Topic int

const (
	Arithmetic Topic = iota
	Algebra
	Geometry
	Statistics
	Probability
)

// AllTopics lists every topic in display order.
var AllTopics = []Topic{Arithmetic, Algebra, Geometry, Statistics, Probability}

var topicKeys = map[Topic]string{
	Arithmetic:  "ARITHMETIC",
	Algebra:     "ALGEBRA",
	Geometry:    "GEOMETRY",
	Statistics:  "STATISTICS",
	Probability: "PROBABILITY",
}

var topicNames = map[Topic]string{
	Arithmetic:  "Arithmetic",
	Algebra:     "Algebra",
	Geometry:    "Geometry",
	Statistics:  "Statistics",
	Probability: "Probability",
}

var topicIcons = map[Topic]string{
	Arithmetic:  "🔢",
	Algebra:     "📐",
	Geometry:    "📏",
	Statistics:  "📊",
	Probability: "🎲",
}

// Key returns the dataset key, e.g. "ARITHMETIC".
func (t Topic) Key() string {
	if k, ok := topicKeys[t]; ok {
		return k
	}
	return fmt.Sprintf("Topic(%d)", int(t))
}

func (t Topic) String() string { return t.Key() }

// DisplayName returns the human-readable topic name.
func (t Topic) DisplayName() string {
	if n, ok := topicNames[t]; ok {
		return n
	}
	return t.Key()
}

// Icon returns the emoji shown next to the topic.
func (t Topic) Icon() string {
	return topicIcons[t]
}

// ParseTopic accepts a dataset key or display name, case-insensitively.
func ParseTopic(s string) (Topic, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllTopics {
		if strings.EqualFold(s, t.Key()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown topic %q", s)
}

// Level is a difficulty bucket within a topic.
type Level int

const (
	Level1 Level = iota + 1
	Level2
	Level3
)

// AllLevels lists every level in order.
var AllLevels = []Level{Level1, Level2, Level3}

// Key returns the dataset key, e.g. "Level 1".
func (l Level) Key() string {
	return fmt.Sprintf("Level %d", int(l))
}

func (l Level) String() string { return l.Key() }

// Points is the score value of a correct answer at this level in game mode.
func (l Level) Points() int {
	return int(l) * 10
}

// ParseLevel accepts "Level 2", "level2" or "2".
func ParseLevel(s string) (Level, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	norm = strings.TrimPrefix(norm, "level")
	for _, l := range AllLevels {
		if norm == fmt.Sprint(int(l)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
