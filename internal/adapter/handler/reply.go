package handler

import (
	"errors"
	"net/http"

	"github.com/rl1809/stock-assistant/internal/adapter/handler/rpc"
	"github.com/rl1809/stock-assistant/internal/core/domain"
)

func toReply(r domain.Reply) *rpc.Reply {
	body := &rpc.Reply{
		RequestID: r.RequestID,
		Outcome:   string(r.Outcome),
		Counts:    countsBody(r.Counts),
		Prompt:    r.Prompt,
		Reason:    r.Reason,
		Kind:      r.Kind,
		Summary:   r.Summary,
		Source:    string(r.Source),
	}
	for _, res := range r.Results {
		rb := rpc.Result{
			Type:    string(res.Operation.Kind),
			Item:    string(res.Operation.Item),
			Delta:   res.Operation.Delta,
			Applied: res.Applied,
			Reason:  res.Reason,
		}
		if res.Applied && res.Operation.Item != "" {
			n := res.Count
			rb.Count = &n
		}
		body.Results = append(body.Results, rb)
	}
	return body
}

func countsBody(c domain.Counts) map[string]int {
	if c == nil {
		return nil
	}
	out := make(map[string]int, len(c))
	for k, v := range c {
		out[string(k)] = v
	}
	return out
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownItem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUpstreamInterpreter):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// isInternal reports a failure outside the request error taxonomy.
func isInternal(err error) bool {
	return err != nil && domain.ErrorKind(err) == "Internal"
}
