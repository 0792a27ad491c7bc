package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRequest    = errors.New("malformed request")
	ErrAmbiguousRequest    = errors.New("ambiguous request")
	ErrUnknownItem         = errors.New("unknown item")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrUpstreamInterpreter = errors.New("upstream interpreter failure")
	ErrDuplicateRequest    = errors.New("duplicate request")
)

// RequestError attaches a human-readable reason to one of the sentinel kinds.
type RequestError struct {
	Kind error
	Msg  string
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *RequestError) Unwrap() error { return e.Kind }

func Malformedf(format string, args ...any) error {
	return &RequestError{Kind: ErrMalformedRequest, Msg: fmt.Sprintf(format, args...)}
}

func UnknownItemf(format string, args ...any) error {
	return &RequestError{Kind: ErrUnknownItem, Msg: fmt.Sprintf(format, args...)}
}

func Upstreamf(format string, args ...any) error {
	return &RequestError{Kind: ErrUpstreamInterpreter, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError names the item that would go negative and by how much.
type InsufficientStockError struct {
	Item      ItemKind
	Available int
	Requested int
}

func (e *InsufficientStockError) Shortfall() int {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: cannot remove %d %s, only %d available (short by %d)",
		e.Requested, e.Item, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ErrorKind maps an error onto its taxonomy name for outbound replies.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedRequest):
		return "MalformedRequest"
	case errors.Is(err, ErrAmbiguousRequest):
		return "AmbiguousRequest"
	case errors.Is(err, ErrUnknownItem):
		return "UnknownItem"
	case errors.Is(err, ErrInsufficientStock):
		return "InsufficientStock"
	case errors.Is(err, ErrUpstreamInterpreter):
		return "UpstreamInterpreterFailure"
	case errors.Is(err, ErrDuplicateRequest):
		return "DuplicateRequest"
	default:
		return "Internal"
	}
}
