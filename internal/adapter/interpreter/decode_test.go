package interpreter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stock-assistant/internal/port"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"Sure!\n```json\n{\"a\": {\"b\": 2}}\n```", `{"a": {"b": 2}}`},
		{`noise [1, [2]] tail`, `[1, [2]]`},
		{`{"s": "brace } inside"}`, `{"s": "brace } inside"}`},
		{`{"s": "quote \" and }"}`, `{"s": "quote \" and }"}`},
		{`no json here`, ``},
		{`{"unterminated": 1`, ``},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractJSON(tt.in), tt.in)
	}
}

func TestDecodeInterpretation(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want port.Interpretation
	}{
		{
			name: "documented object",
			in:   `{"operations":[{"type":"adjust","item":"shirts","change":2},{"type":"query"}],"insufficient_information":false}`,
			want: port.Interpretation{Operations: []port.InterpretedOperation{
				{Type: "adjust", Item: "shirts", Change: 2},
				{Type: "query"},
			}},
		},
		{
			name: "legacy array",
			in:   `[{"operation_type":"update","item":"tshirts","change":2},{"operation_type":"update","item":"pants","change":-3}]`,
			want: port.Interpretation{Operations: []port.InterpretedOperation{
				{Type: "update", Item: "tshirts", Change: 2},
				{Type: "update", Item: "pants", Change: -3},
			}},
		},
		{
			name: "legacy single object",
			in:   `{"operation_type": "get"}`,
			want: port.Interpretation{Operations: []port.InterpretedOperation{{Type: "get"}}},
		},
		{
			name: "insufficient",
			in:   `{"operations":[],"insufficient_information":true,"ambiguous_fragment":"some shirts","question":"How many?"}`,
			want: port.Interpretation{
				Operations:   nil,
				Insufficient: true,
				Fragment:     "some shirts",
				Question:     "How many?",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeInterpretation(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInterpretation_Errors(t *testing.T) {
	_, err := decodeInterpretation("I cannot help with that")
	assert.Error(t, err)

	_, err = decodeInterpretation(`{"operations":[{"type":"adjust","item":"pants","change":1.5}]}`)
	assert.Error(t, err)
}
