// Package parser turns free text into typed inventory operations. Stages are
// tried in order; each either resolves the whole request or defers it, and
// results from different stages are never merged.
package parser

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

type Stage interface {
	Name() domain.ParseSource
	// Resolve returns either operations or a deferral. A non-nil error is a
	// definitive rejection and stops the chain.
	Resolve(ctx context.Context, text string) (Resolution, error)
}

type Resolution struct {
	Operations []domain.Operation
	Deferral   *domain.ClarificationRequest
}

func (r Resolution) Deferred() bool {
	return r.Deferral != nil
}

func resolved(ops []domain.Operation) Resolution {
	return Resolution{Operations: ops}
}

func deferTo(req domain.ClarificationRequest) Resolution {
	return Resolution{Deferral: &req}
}

type Chain struct {
	stages []Stage
	logger *zap.Logger
}

func NewChain(logger *zap.Logger, stages ...Stage) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{stages: stages, logger: logger}
}

// Parse runs the stages in order and returns the first complete result. When
// every stage defers, the most specific clarification wins; a request whose
// only problem is an unrecognised item is rejected instead.
func (c *Chain) Parse(ctx context.Context, text string) (domain.ParseResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ParseResult{}, domain.Malformedf("request text is empty")
	}

	var deferrals []domain.ClarificationRequest
	for _, stage := range c.stages {
		if err := ctx.Err(); err != nil {
			return domain.ParseResult{}, err
		}
		res, err := stage.Resolve(ctx, text)
		if err != nil {
			c.logger.Debug("Parse stage rejected request",
				zap.String("stage", string(stage.Name())),
				zap.Error(err))
			return domain.ParseResult{}, err
		}
		if !res.Deferred() {
			c.logger.Debug("Parse stage resolved request",
				zap.String("stage", string(stage.Name())),
				zap.Int("operations", len(res.Operations)))
			return domain.Resolved(stage.Name(), res.Operations), nil
		}
		c.logger.Debug("Parse stage deferred",
			zap.String("stage", string(stage.Name())),
			zap.String("reason", string(res.Deferral.Reason)),
			zap.String("fragment", res.Deferral.Fragment))
		deferrals = append(deferrals, *res.Deferral)
	}

	if len(deferrals) == 0 {
		return domain.NeedsClarification(domain.ClarificationRequest{
			Fragment: strings.TrimSpace(text),
			Reason:   domain.ReasonUnmatched,
		}), nil
	}

	req := settle(deferrals)
	if req.Reason == domain.ReasonUnknownItem {
		return domain.ParseResult{}, domain.UnknownItemf("%q is not a tracked item", req.Fragment)
	}
	result := domain.NeedsClarification(req)
	result.Source = c.stages[len(c.stages)-1].Name()
	return result, nil
}

// settle picks the clarification to surface. The fast path's diagnosis is
// precise about what is missing, so it is kept unless it only knows that
// nothing matched.
func settle(deferrals []domain.ClarificationRequest) domain.ClarificationRequest {
	first := deferrals[0]
	if len(deferrals) == 1 {
		return first
	}
	last := deferrals[len(deferrals)-1]
	switch last.Reason {
	case domain.ReasonInterpreterAmbiguous:
		if last.Prompt != "" || first.Reason == domain.ReasonUnmatched {
			return last
		}
		return first
	case domain.ReasonInterpreterFailure:
		if first.Reason == domain.ReasonUnmatched {
			return last
		}
		return first
	default:
		return last
	}
}
