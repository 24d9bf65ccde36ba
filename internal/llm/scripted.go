package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted outcome of a Scripted provider.
type Reply struct {
	Content json.RawMessage
	Err     error
}

// Scripted is a deterministic Provider that plays back replies in order
// and records every prompt.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// NewScripted creates a Scripted provider.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Name() string  { return "mock" }
func (s *Scripted) Model() string { return "mock" }

// Complete returns the next reply. When the script is exhausted it fails
// with KindUnavailable.
func (s *Scripted) Complete(_ context.Context, p Prompt) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, p)
	if len(s.replies) == 0 {
		return nil, &Error{Kind: KindUnavailable}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	c := &Completion{
		Content:      r.Content,
		InputTokens:  len(p.System+p.User) / 4,
		OutputTokens: len(r.Content) / 4,
		Model:        "mock",
	}
	return finish(p, c)
}

// Push appends replies to the script.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Prompts returns every prompt received so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}
