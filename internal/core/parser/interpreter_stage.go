package parser

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

// InterpreterStage delegates the whole request to a language model. Its
// output is untrusted and goes through the same item and quantity checks as
// the fast path.
type InterpreterStage struct {
	interpreter port.Interpreter
	catalog     *domain.Catalog
	capability  string
	timeout     time.Duration
	logger      *zap.Logger
}

func NewInterpreterStage(interpreter port.Interpreter, catalog *domain.Catalog, capability string, timeout time.Duration, logger *zap.Logger) *InterpreterStage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterpreterStage{
		interpreter: interpreter,
		catalog:     catalog,
		capability:  capability,
		timeout:     timeout,
		logger:      logger,
	}
}

func (s *InterpreterStage) Name() domain.ParseSource {
	return domain.SourceInterpreter
}

func (s *InterpreterStage) Resolve(ctx context.Context, text string) (Resolution, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := s.interpreter.Interpret(ctx, text, s.capability)
	if err != nil {
		s.logger.Warn("Interpreter call failed",
			zap.Error(err),
			zap.Duration("latency", time.Since(start)))
		return deferTo(domain.ClarificationRequest{
			Fragment: strings.TrimSpace(text),
			Reason:   domain.ReasonInterpreterFailure,
		}), nil
	}
	s.logger.Debug("Interpreter answered",
		zap.Int("operations", len(out.Operations)),
		zap.Bool("insufficient", out.Insufficient),
		zap.Duration("latency", time.Since(start)))

	if out.Insufficient {
		fragment := strings.TrimSpace(out.Fragment)
		if fragment == "" {
			fragment = strings.TrimSpace(text)
		}
		return deferTo(domain.ClarificationRequest{
			Fragment: fragment,
			Reason:   domain.ReasonInterpreterAmbiguous,
			Prompt:   strings.TrimSpace(out.Question),
		}), nil
	}
	if len(out.Operations) == 0 {
		return deferTo(domain.ClarificationRequest{
			Fragment: strings.TrimSpace(text),
			Reason:   domain.ReasonInterpreterFailure,
		}), nil
	}

	ops := make([]domain.Operation, 0, len(out.Operations))
	for _, raw := range out.Operations {
		op, ok, err := s.validate(raw)
		if err != nil {
			return Resolution{}, err
		}
		if !ok {
			s.logger.Warn("Interpreter returned an unusable operation",
				zap.String("type", raw.Type),
				zap.String("item", raw.Item))
			return deferTo(domain.ClarificationRequest{
				Fragment: strings.TrimSpace(text),
				Reason:   domain.ReasonInterpreterFailure,
			}), nil
		}
		ops = append(ops, op)
	}
	return resolved(ops), nil
}

// validate maps one interpreted operation onto the domain. ok is false when
// the shape itself is unusable, which counts as an interpreter failure.
func (s *InterpreterStage) validate(raw port.InterpretedOperation) (domain.Operation, bool, error) {
	item := strings.TrimSpace(raw.Item)
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "query", "get":
		if item == "" || strings.EqualFold(item, "all") {
			return domain.Query(""), true, nil
		}
		kind, err := s.lookup(item)
		if err != nil {
			return domain.Operation{}, false, err
		}
		return domain.Query(kind), true, nil
	case "adjust", "update":
		if item == "" {
			return domain.Operation{}, false, nil
		}
		kind, err := s.lookup(item)
		if err != nil {
			return domain.Operation{}, false, err
		}
		switch {
		case raw.Change == 0:
			return domain.Operation{}, false, domain.Malformedf("quantity must be greater than zero")
		case raw.Change > maxQuantity || raw.Change < -maxQuantity:
			return domain.Operation{}, false, domain.Malformedf("quantity %d exceeds the maximum of %d", raw.Change, maxQuantity)
		}
		return domain.Adjust(kind, raw.Change), true, nil
	default:
		return domain.Operation{}, false, nil
	}
}

func (s *InterpreterStage) lookup(item string) (domain.ItemKind, error) {
	if kind, ok := s.catalog.Lookup(item); ok {
		return kind, nil
	}
	return "", domain.UnknownItemf("%q is not a tracked item", item)
}
