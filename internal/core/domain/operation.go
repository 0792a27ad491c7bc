package domain

import "fmt"

type OperationKind string

const (
	OperationQuery  OperationKind = "query"
	OperationAdjust OperationKind = "adjust"
)

// Operation is one typed instruction derived from a request. Item is empty
// for a query over every kind.
type Operation struct {
	Kind     OperationKind
	Item     ItemKind
	Delta    int
	Fragment string
}

func Query(item ItemKind) Operation {
	return Operation{Kind: OperationQuery, Item: item}
}

func Adjust(item ItemKind, delta int) Operation {
	return Operation{Kind: OperationAdjust, Item: item, Delta: delta}
}

func (o Operation) String() string {
	switch o.Kind {
	case OperationQuery:
		if o.Item == "" {
			return "query(all)"
		}
		return fmt.Sprintf("query(%s)", o.Item)
	case OperationAdjust:
		return fmt.Sprintf("adjust(%s, %+d)", o.Item, o.Delta)
	default:
		return string(o.Kind)
	}
}

type Direction int

const (
	DirectionNone Direction = iota
	DirectionAdd
	DirectionRemove
)

func (d Direction) Sign() int {
	switch d {
	case DirectionAdd:
		return 1
	case DirectionRemove:
		return -1
	default:
		return 0
	}
}

func (d Direction) Verb() string {
	switch d {
	case DirectionAdd:
		return "add"
	case DirectionRemove:
		return "remove"
	default:
		return ""
	}
}

type ClarifyReason string

const (
	ReasonUnmatched            ClarifyReason = "unmatched"
	ReasonMissingQuantity      ClarifyReason = "missing_quantity"
	ReasonMissingDirection     ClarifyReason = "missing_direction"
	ReasonAmbiguousQuantity    ClarifyReason = "ambiguous_quantity"
	ReasonAmbiguousItem        ClarifyReason = "ambiguous_item"
	ReasonUnknownItem          ClarifyReason = "unknown_item"
	ReasonInterpreterAmbiguous ClarifyReason = "interpreter_ambiguous"
	ReasonInterpreterFailure   ClarifyReason = "interpreter_failure"
)

// ClarificationRequest describes why a request could not be resolved and
// which fragment of it is ambiguous.
type ClarificationRequest struct {
	Fragment   string
	Reason     ClarifyReason
	Item       ItemKind
	Direction  Direction
	Candidates []string
	Prompt     string
}

type ParseSource string

const (
	SourceTemplate    ParseSource = "template"
	SourceInterpreter ParseSource = "interpreter"
)

// ParseResult holds either a complete operation sequence or a clarification,
// never both.
type ParseResult struct {
	Operations    []Operation
	Clarification *ClarificationRequest
	Source        ParseSource
}

func Resolved(source ParseSource, ops []Operation) ParseResult {
	return ParseResult{Operations: ops, Source: source}
}

func NeedsClarification(req ClarificationRequest) ParseResult {
	return ParseResult{Clarification: &req}
}

func (r ParseResult) NeedsClarification() bool {
	return r.Clarification != nil
}
