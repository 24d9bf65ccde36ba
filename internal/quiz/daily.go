package quiz

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/CuriousNebula/Math-Master/internal/dataset"
	"github.com/CuriousNebula/Math-Master/internal/distractor"
)

// Daily returns the daily challenge for the calendar day of date: one
// question per topic, at a level that rotates from day to day. The same
// day always yields the same questions and option order.
func (s *Selector) Daily(date time.Time) ([]PresentedQuestion, error) {
	seed := dailySeed(date)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	synth := distractor.New(rand.New(rand.NewPCG(seed, seed)), s.logger)

	var out []PresentedQuestion
	for i, topic := range dataset.AllTopics {
		levels := s.ds.Levels(topic)
		if len(levels) == 0 {
			continue
		}
		level := levels[(date.YearDay()+i)%len(levels)]
		recs := s.ds.Lookup(topic, level)
		rec := recs[rng.IntN(len(recs))]
		out = append(out, s.present(synth, rec, topic, level, distractor.Wide))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("daily challenge: %w", ErrNoQuestionsAvailable)
	}
	return out, nil
}

// dailySeed packs the calendar date as YYYYMMDD.
func dailySeed(date time.Time) uint64 {
	y, m, d := date.Date()
	return uint64(y*10000 + int(m)*100 + d)
}
