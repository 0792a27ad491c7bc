package port

import "context"

// InterpretedOperation is raw, unvalidated interpreter output.
type InterpretedOperation struct {
	Type   string `json:"type"`
	Item   string `json:"item,omitempty"`
	Change int    `json:"change,omitempty"`
}

// Interpretation is what a language-model interpreter returns for a request.
// Either Operations is set, or Insufficient is true and Fragment/Question
// explain what is missing.
type Interpretation struct {
	Operations   []InterpretedOperation `json:"operations"`
	Insufficient bool                   `json:"insufficient_information"`
	Fragment     string                 `json:"ambiguous_fragment,omitempty"`
	Question     string                 `json:"question,omitempty"`
}

type Interpreter interface {
	// Interpret translates free text into operations using the capability description
	Interpret(ctx context.Context, text string, capability string) (Interpretation, error)
}
