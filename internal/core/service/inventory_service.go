package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/stock-assistant/internal/core/domain"
	"github.com/rl1809/stock-assistant/internal/port"
)

type Parser interface {
	Parse(ctx context.Context, text string) (domain.ParseResult, error)
}

type requestIDKey struct{}

// WithRequestID lets an inbound adapter choose the id a request is logged
// and journaled under.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

type InventoryService struct {
	// mu serialises parse and execute so no two requests interleave and
	// nothing mutates the store while an interpreter call is in flight.
	mu sync.Mutex

	parser   Parser
	executor *Executor
	store    port.InventoryStore
	catalog  *domain.Catalog
	resolver *ClarificationResolver
	guard    port.CacheRepository
	logger   *zap.Logger

	journalQueue chan domain.JournalEntry
	sequence     uint64
	closed       bool
}

func NewInventoryService(
	parser Parser,
	store port.InventoryStore,
	catalog *domain.Catalog,
	guard port.CacheRepository,
	queueSize int,
	logger *zap.Logger,
) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		parser:       parser,
		executor:     NewExecutor(store),
		store:        store,
		catalog:      catalog,
		resolver:     NewClarificationResolver(catalog),
		guard:        guard,
		logger:       logger,
		journalQueue: make(chan domain.JournalEntry, queueSize),
	}
}

// Ask runs one natural-language request to completion. The reply is filled
// in for every outcome; the error is set only when the outcome is an error.
func (s *InventoryService) Ask(ctx context.Context, text string) (domain.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	reply := domain.Reply{RequestID: requestIDFrom(ctx)}
	logger := s.logger.With(zap.String("request_id", reply.RequestID))

	result, err := s.parser.Parse(ctx, text)
	if err != nil {
		return s.fail(ctx, logger, reply, err)
	}
	reply.Source = result.Source

	if result.NeedsClarification() {
		req := *result.Clarification
		reply.Outcome = domain.OutcomeClarify
		reply.Prompt = s.resolver.Prompt(req)
		reply.Reason = string(req.Reason)
		reply.Kind = domain.ErrorKind(domain.ErrAmbiguousRequest)
		reply.Counts, _ = s.store.Snapshot(ctx)
		logger.Info("Request needs clarification",
			zap.String("reason", reply.Reason),
			zap.String("fragment", req.Fragment),
			zap.String("source", string(result.Source)),
			zap.Duration("latency", time.Since(start)))
		return reply, nil
	}

	outcome := s.executor.Execute(ctx, result.Operations)
	reply.Results = outcome.Results
	reply.Counts = outcome.Counts
	if outcome.Err != nil {
		return s.fail(ctx, logger, reply, outcome.Err)
	}

	reply.Outcome = domain.OutcomeApplied
	reply.Summary = s.summarise(outcome)
	if outcome.Adjusted() {
		s.publish(logger, s.journalEntry(reply.RequestID, domain.JournalSourceLanguage, text, outcome))
	}
	logger.Info("Request applied",
		zap.String("source", string(result.Source)),
		zap.Int("operations", len(result.Operations)),
		zap.Duration("latency", time.Since(start)))
	return reply, nil
}

// Apply performs a direct mutation through the same atomic batch path. A
// repeated request id is rejected with ErrDuplicateRequest.
func (s *InventoryService) Apply(ctx context.Context, m domain.DirectMutation) (domain.Reply, error) {
	kind, ok := s.catalog.Lookup(m.Item)
	if !ok {
		return s.Reject(ctx, m.RequestID, domain.UnknownItemf("%q is not a tracked item", m.Item))
	}
	if m.Change == 0 {
		return s.Reject(ctx, m.RequestID, domain.Malformedf("change must not be zero"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reply := domain.Reply{RequestID: m.RequestID}
	if reply.RequestID == "" {
		reply.RequestID = requestIDFrom(ctx)
	} else if s.guard != nil {
		ok, err := s.guard.SetIdempotency(ctx, "adjust:"+m.RequestID)
		if err != nil {
			return s.fail(ctx, s.logger, reply, fmt.Errorf("idempotency check failed: %w", err))
		}
		if !ok {
			return s.fail(ctx, s.logger, reply, domain.ErrDuplicateRequest)
		}
	}
	logger := s.logger.With(zap.String("request_id", reply.RequestID))

	op := domain.Adjust(kind, m.Change)
	outcome := s.executor.Execute(ctx, []domain.Operation{op})
	reply.Results = outcome.Results
	reply.Counts = outcome.Counts
	if outcome.Err != nil {
		return s.fail(ctx, logger, reply, outcome.Err)
	}

	reply.Outcome = domain.OutcomeApplied
	reply.Summary = s.summarise(outcome)
	s.publish(logger, s.journalEntry(reply.RequestID, domain.JournalSourceDirect, op.String(), outcome))
	logger.Info("Direct mutation applied",
		zap.String("item", string(kind)),
		zap.Int("delta", m.Change))
	return reply, nil
}

// Reject builds an error reply for a request an inbound adapter refused
// before it reached the pipeline.
func (s *InventoryService) Reject(ctx context.Context, requestID string, err error) (domain.Reply, error) {
	reply := domain.Reply{RequestID: requestID}
	if reply.RequestID == "" {
		reply.RequestID = requestIDFrom(ctx)
	}
	return s.fail(ctx, s.logger.With(zap.String("request_id", reply.RequestID)), reply, err)
}

func (s *InventoryService) Inventory(ctx context.Context) (domain.Counts, error) {
	counts, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot inventory: %w", err)
	}
	return counts, nil
}

func (s *InventoryService) Catalog() *domain.Catalog {
	return s.catalog
}

func (s *InventoryService) JournalQueue() <-chan domain.JournalEntry {
	return s.journalQueue
}

// Close stops journal publication and closes the queue so workers drain and exit.
func (s *InventoryService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.journalQueue)
}

func (s *InventoryService) fail(ctx context.Context, logger *zap.Logger, reply domain.Reply, err error) (domain.Reply, error) {
	reply.Outcome = domain.OutcomeError
	reply.Kind = domain.ErrorKind(err)
	reply.Reason = err.Error()
	if reply.Counts == nil {
		reply.Counts, _ = s.store.Snapshot(ctx)
	}
	if reply.Kind == "Internal" {
		logger.Error("Request failed", zap.Error(err))
	} else {
		logger.Info("Request rejected", zap.String("kind", reply.Kind), zap.String("reason", reply.Reason))
	}
	return reply, err
}

func (s *InventoryService) publish(logger *zap.Logger, entry domain.JournalEntry) {
	if s.closed {
		return
	}
	select {
	case s.journalQueue <- entry:
	default:
		logger.Warn("Journal queue full, dropping entry", zap.String("journal_id", entry.ID))
	}
}

func (s *InventoryService) journalEntry(requestID string, source domain.JournalSource, text string, outcome domain.ExecutionOutcome) domain.JournalEntry {
	deltas := make(map[domain.ItemKind]int)
	for _, r := range outcome.Results {
		if r.Operation.Kind == domain.OperationAdjust && r.Applied {
			deltas[r.Operation.Item] += r.Operation.Delta
		}
	}
	s.sequence++
	return domain.JournalEntry{
		ID:          uuid.NewString(),
		Sequence:    s.sequence,
		RequestID:   requestID,
		Source:      source,
		Text:        text,
		Deltas:      deltas,
		CountsAfter: outcome.Counts.Clone(),
		CreatedAt:   time.Now().UTC(),
	}
}

func (s *InventoryService) summarise(outcome domain.ExecutionOutcome) string {
	var parts []string
	for _, r := range outcome.Results {
		if r.Operation.Kind != domain.OperationAdjust || !r.Applied {
			continue
		}
		action, preposition, n := "added", "to", r.Operation.Delta
		if n < 0 {
			action, preposition, n = "removed", "from", -n
		}
		parts = append(parts, fmt.Sprintf("I've %s %d %s %s the inventory",
			action, n, s.catalog.Display(r.Operation.Item), preposition))
	}

	if len(parts) == 0 {
		return "The current inventory is: " + s.countsLine(outcome.Counts)
	}
	return "Got it! " + strings.Join(parts, " and ") + ". Current inventory: " + s.countsLine(outcome.Counts)
}

// countsLine renders counts in catalog order, e.g. "T-shirts: 12, Pants: 9".
func (s *InventoryService) countsLine(counts domain.Counts) string {
	kinds := s.catalog.Kinds()
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s: %d", capitalise(s.catalog.Display(k)), counts[k]))
	}
	return strings.Join(parts, ", ")
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
