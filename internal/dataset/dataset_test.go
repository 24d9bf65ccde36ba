package dataset

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultDatasetCoversEveryBucket(t *testing.T) {
	ds, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if ds.Version() != "v1.0.0" {
		t.Errorf("Version() = %q, want v1.0.0", ds.Version())
	}
	if ds.Skipped() != 0 {
		t.Errorf("Skipped() = %d, want 0", ds.Skipped())
	}
	for _, topic := range AllTopics {
		for _, level := range AllLevels {
			if n := ds.Count(topic, level); n < 5 {
				t.Errorf("%s/%s has %d questions, want at least 5", topic, level, n)
			}
		}
	}
}

func TestLoadBareMapping(t *testing.T) {
	input := `{
		"ARITHMETIC": {
			"Level 1": [
				{"Q1": "What is 1 + 1?", "A1": "2"},
				{"Question": "What is 2 + 2?", "Answer": 4},
				{"Question": "missing answer"}
			]
		},
		"CALCULUS": {"Level 1": [{"Q": "d/dx x", "A": "1"}]}
	}`
	ds, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	recs := ds.Lookup(Arithmetic, Level1)
	if len(recs) != 2 {
		t.Fatalf("len(Lookup) = %d, want 2", len(recs))
	}
	if recs[0].Question != "What is 1 + 1?" || recs[0].Answer != "2" {
		t.Errorf("recs[0] = %+v", recs[0])
	}
	if recs[1].Answer != "4" {
		t.Errorf("numeric answer = %q, want \"4\"", recs[1].Answer)
	}
	if ds.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", ds.Skipped())
	}
	if ds.Version() != "" {
		t.Errorf("Version() = %q, want empty for bare mapping", ds.Version())
	}
}

func TestLoadRejectsUnknownMajorVersion(t *testing.T) {
	for _, v := range []string{"v2.0.0", "banana", ""} {
		input := `{"version": "` + v + `", "topics": {}}`
		_, err := Load(strings.NewReader(input))
		if !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("version %q: error = %v, want ErrUnsupportedVersion", v, err)
		}
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	ds, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	recs := ds.Lookup(Algebra, Level1)
	original := recs[0].Question
	recs[0].Question = "mutated"

	again := ds.Lookup(Algebra, Level1)
	if again[0].Question != original {
		t.Errorf("Lookup leaked internal slice: got %q", again[0].Question)
	}
}

func TestLookupMissingBucket(t *testing.T) {
	ds, err := Load(strings.NewReader(`{"ALGEBRA": {"Level 2": []}}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := ds.Lookup(Algebra, Level2); got != nil {
		t.Errorf("Lookup(empty) = %v, want nil", got)
	}
	if got := ds.Lookup(Geometry, Level1); got != nil {
		t.Errorf("Lookup(absent) = %v, want nil", got)
	}
	if got := ds.Levels(Algebra); len(got) != 0 {
		t.Errorf("Levels(Algebra) = %v, want none", got)
	}
}

func TestParseTopicAndLevel(t *testing.T) {
	topic, err := ParseTopic("probability")
	if err != nil || topic != Probability {
		t.Errorf("ParseTopic(probability) = %v, %v", topic, err)
	}
	if _, err := ParseTopic("calculus"); err == nil {
		t.Error("ParseTopic(calculus) should fail")
	}

	for _, in := range []string{"Level 3", "level3", "3"} {
		l, err := ParseLevel(in)
		if err != nil || l != Level3 {
			t.Errorf("ParseLevel(%q) = %v, %v", in, l, err)
		}
	}
	if Level2.Points() != 20 {
		t.Errorf("Level2.Points() = %d, want 20", Level2.Points())
	}
}
