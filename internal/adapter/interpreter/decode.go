package interpreter

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rl1809/stock-assistant/internal/port"
)

type rawOperation struct {
	Type          string   `json:"type"`
	OperationType string   `json:"operation_type"`
	Item          string   `json:"item"`
	Change        *float64 `json:"change"`
}

type rawInterpretation struct {
	Operations   []rawOperation `json:"operations"`
	Insufficient bool           `json:"insufficient_information"`
	Fragment     string         `json:"ambiguous_fragment"`
	Question     string         `json:"question"`
}

// decodeInterpretation accepts the documented object as well as a bare
// operation or array of operations, which models sometimes return instead.
func decodeInterpretation(content string) (port.Interpretation, error) {
	raw := extractJSON(content)
	if raw == "" {
		return port.Interpretation{}, fmt.Errorf("no JSON found in response")
	}

	var parsed rawInterpretation
	switch raw[0] {
	case '[':
		if err := json.Unmarshal([]byte(raw), &parsed.Operations); err != nil {
			return port.Interpretation{}, fmt.Errorf("decode operations: %w", err)
		}
	default:
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return port.Interpretation{}, fmt.Errorf("decode interpretation: %w", err)
		}
		if parsed.Operations == nil && !parsed.Insufficient {
			var single rawOperation
			if err := json.Unmarshal([]byte(raw), &single); err == nil && (single.Type != "" || single.OperationType != "") {
				parsed.Operations = []rawOperation{single}
			}
		}
	}

	out := port.Interpretation{
		Insufficient: parsed.Insufficient,
		Fragment:     parsed.Fragment,
		Question:     parsed.Question,
	}
	for _, op := range parsed.Operations {
		typ := op.Type
		if typ == "" {
			typ = op.OperationType
		}
		var change int
		if op.Change != nil {
			if *op.Change != math.Trunc(*op.Change) || math.Abs(*op.Change) > math.MaxInt32 {
				return port.Interpretation{}, fmt.Errorf("change %v is not a whole number", *op.Change)
			}
			change = int(*op.Change)
		}
		out.Operations = append(out.Operations, port.InterpretedOperation{
			Type:   strings.ToLower(strings.TrimSpace(typ)),
			Item:   strings.TrimSpace(op.Item),
			Change: change,
		})
	}
	return out, nil
}

// extractJSON returns the first balanced JSON object or array in s, skipping
// any prose or code fences around it.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return ""
	}

	var (
		depth    int
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
