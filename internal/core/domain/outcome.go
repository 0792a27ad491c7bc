package domain

type OperationResult struct {
	Operation Operation
	Applied   bool
	// Count is the observed count for a single-item query.
	Count  int
	Reason string
}

// ExecutionOutcome summarises one executed request. When Err is set no
// adjustment from the request reached the store.
type ExecutionOutcome struct {
	Results []OperationResult
	Counts  Counts
	Err     error
}

func (o ExecutionOutcome) Adjusted() bool {
	if o.Err != nil {
		return false
	}
	for _, r := range o.Results {
		if r.Operation.Kind == OperationAdjust && r.Applied {
			return true
		}
	}
	return false
}

type ReplyOutcome string

const (
	OutcomeApplied ReplyOutcome = "applied"
	OutcomeClarify ReplyOutcome = "clarify"
	OutcomeError   ReplyOutcome = "error"
)

// Reply is what every inbound surface hands back to its caller.
type Reply struct {
	RequestID string
	Outcome   ReplyOutcome
	Counts    Counts
	Prompt    string
	Reason    string
	Kind      string
	Results   []OperationResult
	Summary   string
	Source    ParseSource
}

// DirectMutation bypasses the language layer.
type DirectMutation struct {
	RequestID string
	Item      string
	Change    int
}
