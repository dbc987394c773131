package render

import (
	"encoding/json"

	"github.com/dkoosis/rundiff/pkg/pattern"
)

// SchemaVersion is bumped whenever the JSON envelope changes shape.
const SchemaVersion = "1.1"

// JSON renders patterns as structured JSON for automation. When a delta is
// attached the envelope also carries it verbatim, so consumers can read the
// category lists without parsing pattern labels.
type JSON struct {
	kind  string
	delta any
}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// WithDelta returns a renderer that embeds d under "delta", tagged with kind
// ("tests" or "coverage"). A nil d is omitted.
func (j *JSON) WithDelta(kind string, d any) *JSON {
	return &JSON{kind: kind, delta: d}
}

type envelope struct {
	Version  string        `json:"version"`
	Kind     string        `json:"kind,omitempty"`
	Delta    any           `json:"delta,omitempty"`
	Patterns []jsonPattern `json:"patterns"`
}

type jsonPattern struct {
	Type pattern.PatternType `json:"type"`
	Data pattern.Pattern     `json:"data"`
}

// Render formats all patterns, and the attached delta if any, as JSON.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := envelope{
		Version:  SchemaVersion,
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}
	if j.delta != nil {
		out.Kind = j.kind
		out.Delta = j.delta
	}
	for _, p := range patterns {
		out.Patterns = append(out.Patterns, jsonPattern{Type: p.Type(), Data: p})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
