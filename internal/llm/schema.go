package llm

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var compiled sync.Map // schema name -> *jsonschema.Schema

// validate checks raw against s and returns a KindInvalidReply error on mismatch.
func validate(s *Schema, raw json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &Error{Kind: KindInvalidReply, Content: raw, Err: fmt.Errorf("reply is not JSON: %w", err)}
	}
	sch, err := compile(s)
	if err != nil {
		return &Error{Kind: KindInvalidReply, Content: raw, Err: err}
	}
	if err := sch.Validate(doc); err != nil {
		return &Error{Kind: KindInvalidReply, Content: raw, Err: err}
	}
	return nil
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}
	// Round-trip through JSON so the compiler sees plain decoded values.
	b, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	url := "mem://" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}

// finish applies schema validation to a backend reply. A reply that was
// cut off and fails validation is reported as KindTruncated.
func finish(p Prompt, c *Completion) (*Completion, error) {
	if p.Schema == nil {
		return c, nil
	}
	if err := validate(p.Schema, c.Content); err != nil {
		if c.Truncated {
			return nil, &Error{Kind: KindTruncated, Content: c.Content, Err: err}
		}
		return nil, err
	}
	return c, nil
}
