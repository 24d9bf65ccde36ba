package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/CuriousNebula/Math-Master/internal/store"
)

type memTutorRepo struct {
	mu     sync.Mutex
	events []store.TutorEvent
	err    error
}

func (m *memTutorRepo) AppendTutorEvent(_ context.Context, e store.TutorEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *memTutorRepo) QueryTutorEvents(_ context.Context, limit int) ([]store.TutorEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events, nil
}

func TestRecording_StoresSuccessAndFailure(t *testing.T) {
	repo := &memTutorRepo{}
	s := NewScripted(
		Reply{Content: json.RawMessage(`{"steps":["a"]}`)},
		Reply{Err: &Error{Kind: KindRejected, Err: errors.New("bad key")}},
	)
	p := WithRecording(s, repo, nil)

	if _, err := p.Complete(context.Background(), Prompt{Purpose: "explain", User: "why is 2+2=4?"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Complete(context.Background(), Prompt{Purpose: "explain"}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("events = %d, want 2", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.Provider != "mock" || ok.Purpose != "explain" {
		t.Errorf("success event = %+v", ok)
	}
	if ok.InputTokens == 0 || ok.OutputTokens == 0 {
		t.Errorf("token counts not recorded: %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failure event = %+v", failed)
	}
}

func TestRecording_StoreFailureDoesNotFailRequest(t *testing.T) {
	repo := &memTutorRepo{err: errors.New("disk full")}
	p := WithRecording(NewScripted(Reply{Content: json.RawMessage(`{}`)}), repo, nil)
	if _, err := p.Complete(context.Background(), Prompt{}); err != nil {
		t.Errorf("Complete error = %v, want nil", err)
	}
	if p.Name() != "mock" || p.Model() != "mock" {
		t.Errorf("decorator hides backend identity: %s/%s", p.Name(), p.Model())
	}
}
