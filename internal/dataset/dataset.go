// Package dataset loads the bundled question bank: a read-only mapping of
// topic → level → question/answer records.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

//go:embed dataset.json
var embedded []byte

// ErrUnsupportedVersion is returned for a dataset envelope whose major
// version this build does not understand.
var ErrUnsupportedVersion = errors.New("unsupported dataset version")

// SupportedMajor is the dataset envelope major version this build reads.
const SupportedMajor = "v1"

// QuestionRecord is one question and its correct answer.
type QuestionRecord struct {
	Question string
	Answer   string
}

// Dataset is the in-memory question bank. It is never mutated after
// loading and is safe for concurrent use.
type Dataset struct {
	version string
	buckets map[Topic]map[Level][]QuestionRecord
	skipped int
}

type envelope struct {
	Version string                     `json:"version"`
	Topics  map[string]json.RawMessage `json:"topics"`
}

// Default returns the dataset embedded in the binary.
func Default() (*Dataset, error) {
	return Load(bytes.NewReader(embedded))
}

// LoadFile reads a dataset from a JSON file on disk.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses either a bare topic → level → records mapping or a
// versioned {"version": ..., "topics": ...} envelope.
func Load(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	ds := &Dataset{buckets: make(map[Topic]map[Level][]QuestionRecord)}
	topics := top
	if _, ok := top["topics"]; ok {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("parse dataset envelope: %w", err)
		}
		if !semver.IsValid(env.Version) || semver.Major(env.Version) != SupportedMajor {
			return nil, fmt.Errorf("%w: %q (want %s.x.y)", ErrUnsupportedVersion, env.Version, SupportedMajor)
		}
		ds.version = semver.Canonical(env.Version)
		topics = env.Topics
	}

	for key, raw := range topics {
		topic, err := ParseTopic(key)
		if err != nil {
			continue
		}
		var levels map[string][]map[string]any
		if err := json.Unmarshal(raw, &levels); err != nil {
			return nil, fmt.Errorf("parse topic %s: %w", key, err)
		}
		for levelKey, rawRecords := range levels {
			level, err := ParseLevel(levelKey)
			if err != nil {
				continue
			}
			for _, rec := range rawRecords {
				qr, ok := recordFrom(rec)
				if !ok {
					ds.skipped++
					continue
				}
				if ds.buckets[topic] == nil {
					ds.buckets[topic] = make(map[Level][]QuestionRecord)
				}
				ds.buckets[topic][level] = append(ds.buckets[topic][level], qr)
			}
		}
	}

	return ds, nil
}

// recordFrom finds the question and answer fields by key prefix.
func recordFrom(raw map[string]any) (QuestionRecord, bool) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rec QuestionRecord
	var haveQ, haveA bool
	for _, k := range keys {
		v, ok := stringValue(raw[k])
		if !ok {
			continue
		}
		switch {
		case !haveQ && strings.HasPrefix(k, "Q"):
			rec.Question, haveQ = v, true
		case !haveA && strings.HasPrefix(k, "A"):
			rec.Answer, haveA = v, true
		}
	}
	if !haveQ || !haveA || rec.Question == "" || rec.Answer == "" {
		return QuestionRecord{}, false
	}
	return rec, true
}

func stringValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Version returns the canonical envelope version, or "" for a bare mapping.
func (d *Dataset) Version() string { return d.version }

// Skipped reports how many records lacked a question or answer field.
func (d *Dataset) Skipped() int { return d.skipped }

// Lookup returns a copy of the records for topic and level, or nil.
func (d *Dataset) Lookup(topic Topic, level Level) []QuestionRecord {
	recs := d.buckets[topic][level]
	if len(recs) == 0 {
		return nil
	}
	out := make([]QuestionRecord, len(recs))
	copy(out, recs)
	return out
}

// Levels returns the non-empty levels of topic in order.
func (d *Dataset) Levels(topic Topic) []Level {
	var out []Level
	for _, l := range AllLevels {
		if len(d.buckets[topic][l]) > 0 {
			out = append(out, l)
		}
	}
	return out
}

// Count returns the number of records for topic and level.
func (d *Dataset) Count(topic Topic, level Level) int {
	return len(d.buckets[topic][level])
}
