package parser

import (
	"context"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

// TemplateStage is the deterministic fast path. It recognises verb/number/item
// clauses, inventory questions and signed shorthand ("+2 shirts -1 pants")
// without leaving the process.
type TemplateStage struct {
	catalog *domain.Catalog
}

func NewTemplateStage(catalog *domain.Catalog) *TemplateStage {
	return &TemplateStage{catalog: catalog}
}

func (s *TemplateStage) Name() domain.ParseSource {
	return domain.SourceTemplate
}

type clauseMode int

const (
	modeNone clauseMode = iota
	modeQuery
	modeAdjust
)

// carry is what a verb-less clause inherits from the clause before it.
type carry struct {
	mode clauseMode
	dir  domain.Direction
}

type clause struct {
	tokens      []string
	directions  []domain.Direction
	weakOnly    bool
	query       bool
	question    bool
	quantities  []quantity
	vague       bool
	items       []domain.ItemKind
	unsupported []string
	unknown     []string
}

func (c clause) fragment() string {
	return strings.Join(c.tokens, " ")
}

func (c clause) empty() bool {
	return len(c.directions) == 0 && !c.query && len(c.quantities) == 0 && !c.vague &&
		len(c.items) == 0 && len(c.unsupported) == 0 && len(c.unknown) == 0
}

func (c clause) firstItem() domain.ItemKind {
	if len(c.items) == 0 {
		return ""
	}
	return c.items[0]
}

func (s *TemplateStage) Resolve(_ context.Context, text string) (Resolution, error) {
	tokens := tokenise(normaliseInput(text))
	if len(tokens) == 0 {
		return Resolution{}, domain.Malformedf("request has no recognisable content")
	}

	var (
		ops      []domain.Operation
		deferral *domain.ClarificationRequest
		prev     carry
	)
	for _, raw := range splitClauses(tokens) {
		c := s.analyse(raw)
		if c.empty() {
			continue
		}
		if len(c.unsupported) > 0 {
			return Resolution{}, domain.UnknownItemf("%q is not tracked; only %s are stocked",
				c.unsupported[0], s.trackedList())
		}

		clauseOps, next, req, err := s.resolveClause(c, prev)
		if err != nil {
			return Resolution{}, err
		}
		if req != nil {
			if deferral == nil {
				deferral = req
			}
			continue
		}
		ops = append(ops, clauseOps...)
		prev = next
	}

	if deferral != nil {
		return deferTo(*deferral), nil
	}
	if len(ops) == 0 {
		return deferTo(domain.ClarificationRequest{
			Fragment: strings.TrimSpace(text),
			Reason:   domain.ReasonUnmatched,
		}), nil
	}
	return resolved(ops), nil
}

func (s *TemplateStage) analyse(tokens []string) clause {
	c := clause{tokens: tokens, weakOnly: true}
	seenItem := make(map[domain.ItemKind]bool)
	for _, tok := range tokens {
		if q, ok := parseQuantityToken(tok); ok {
			c.quantities = append(c.quantities, q)
			continue
		}
		if dir, ok := verbs[tok]; ok {
			if !containsDirection(c.directions, dir) {
				c.directions = append(c.directions, dir)
			}
			if !weakVerbs[tok] {
				c.weakOnly = false
			}
			continue
		}
		if queryCues[tok] {
			c.query = true
			c.question = c.question || questionWords[tok]
			continue
		}
		if vagueQuantities[tok] {
			c.vague = true
			continue
		}
		if kind, ok := s.catalog.Lookup(tok); ok {
			if !seenItem[kind] {
				seenItem[kind] = true
				c.items = append(c.items, kind)
			}
			continue
		}
		if s.catalog.Unsupported(tok) {
			c.unsupported = append(c.unsupported, tok)
			continue
		}
		if fillers[tok] {
			continue
		}
		c.unknown = append(c.unknown, tok)
	}
	return c
}

func containsDirection(dirs []domain.Direction, d domain.Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

func (s *TemplateStage) resolveClause(c clause, prev carry) ([]domain.Operation, carry, *domain.ClarificationRequest, error) {
	frag := c.fragment()

	// "how many shirts have we got" is a question, not a delivery.
	if c.query && len(c.quantities) == 0 && (len(c.directions) == 0 || c.weakOnly) {
		return s.resolveQuery(c)
	}
	// "how many shirts did we sell" asks about past movements the record
	// does not keep; leave it to the interpreter.
	if c.question && len(c.quantities) == 0 && len(c.directions) > 0 {
		return nil, prev, unmatched(frag), nil
	}

	switch {
	case len(c.directions) > 1:
		return nil, prev, &domain.ClarificationRequest{
			Fragment:   frag,
			Reason:     domain.ReasonMissingDirection,
			Item:       c.firstItem(),
			Candidates: []string{domain.DirectionAdd.Verb(), domain.DirectionRemove.Verb()},
		}, nil
	case len(c.directions) == 1:
		return s.resolveAdjust(c, c.directions[0], true)
	case c.query:
		return nil, prev, unmatched(frag), nil
	}

	if len(c.quantities) == 1 && c.quantities[0].sign != 0 {
		dir := domain.DirectionAdd
		if c.quantities[0].sign < 0 {
			dir = domain.DirectionRemove
		}
		return s.resolveAdjust(c, dir, false)
	}

	if len(c.quantities) > 0 {
		if prev.mode == modeAdjust {
			return s.resolveAdjust(c, prev.dir, false)
		}
		return nil, prev, &domain.ClarificationRequest{
			Fragment: frag,
			Reason:   domain.ReasonMissingDirection,
			Item:     c.firstItem(),
		}, nil
	}

	if len(c.items) > 0 || c.vague {
		switch prev.mode {
		case modeQuery:
			return s.resolveQuery(c)
		case modeAdjust:
			return s.resolveAdjust(c, prev.dir, false)
		}
	}
	return nil, prev, unmatched(frag), nil
}

func (s *TemplateStage) resolveQuery(c clause) ([]domain.Operation, carry, *domain.ClarificationRequest, error) {
	next := carry{mode: modeQuery}
	frag := c.fragment()
	if len(c.items) == 0 {
		if len(c.unknown) > 0 {
			return nil, next, s.unresolvedItem(c), nil
		}
		op := domain.Query("")
		op.Fragment = frag
		return []domain.Operation{op}, next, nil, nil
	}

	ops := make([]domain.Operation, 0, len(c.items))
	for _, item := range c.items {
		op := domain.Query(item)
		op.Fragment = frag
		ops = append(ops, op)
	}
	return ops, next, nil, nil
}

func (s *TemplateStage) resolveAdjust(c clause, dir domain.Direction, fromVerb bool) ([]domain.Operation, carry, *domain.ClarificationRequest, error) {
	next := carry{mode: modeAdjust, dir: dir}
	frag := c.fragment()

	switch len(c.quantities) {
	case 0:
		return nil, next, &domain.ClarificationRequest{
			Fragment:  frag,
			Reason:    domain.ReasonMissingQuantity,
			Item:      c.firstItem(),
			Direction: dir,
		}, nil
	case 1:
	default:
		candidates := make([]string, 0, len(c.quantities))
		for _, q := range c.quantities {
			candidates = append(candidates, q.raw)
		}
		return nil, next, &domain.ClarificationRequest{
			Fragment:   frag,
			Reason:     domain.ReasonAmbiguousQuantity,
			Item:       c.firstItem(),
			Direction:  dir,
			Candidates: candidates,
		}, nil
	}

	q := c.quantities[0]
	if err := validateQuantity(q, dir, fromVerb); err != nil {
		return nil, next, nil, err
	}

	switch len(c.items) {
	case 1:
	case 0:
		if len(c.unknown) > 0 {
			return nil, next, s.unresolvedItem(c), nil
		}
		return nil, next, &domain.ClarificationRequest{
			Fragment:   frag,
			Reason:     domain.ReasonAmbiguousItem,
			Direction:  dir,
			Candidates: s.displays(s.catalog.Kinds()),
		}, nil
	default:
		return nil, next, &domain.ClarificationRequest{
			Fragment:   frag,
			Reason:     domain.ReasonAmbiguousItem,
			Direction:  dir,
			Candidates: s.displays(c.items),
		}, nil
	}

	op := domain.Adjust(c.items[0], dir.Sign()*q.value)
	op.Fragment = frag
	return []domain.Operation{op}, next, nil, nil
}

func validateQuantity(q quantity, dir domain.Direction, fromVerb bool) error {
	switch {
	case q.decimal:
		return domain.Malformedf("quantity %q must be a whole number", q.raw)
	case q.tooBig:
		return domain.Malformedf("quantity %q exceeds the maximum of %d", q.raw, maxQuantity)
	case fromVerb && q.sign < 0:
		return domain.Malformedf("negative quantity %q cannot follow a verb; say remove instead", q.raw)
	case fromVerb && q.sign > 0 && dir == domain.DirectionRemove:
		return domain.Malformedf("quantity %q contradicts the verb", q.raw)
	case q.value == 0:
		return domain.Malformedf("quantity must be greater than zero")
	}
	return nil
}

// unresolvedItem turns unknown nouns into a "did you mean" question when one
// is close to a catalog alias, and into an unknown-item deferral otherwise.
func (s *TemplateStage) unresolvedItem(c clause) *domain.ClarificationRequest {
	if suggestions := s.suggest(c.unknown); len(suggestions) > 0 {
		return &domain.ClarificationRequest{
			Fragment:   c.fragment(),
			Reason:     domain.ReasonAmbiguousItem,
			Candidates: suggestions,
		}
	}
	return &domain.ClarificationRequest{
		Fragment: strings.Join(c.unknown, " "),
		Reason:   domain.ReasonUnknownItem,
	}
}

func (s *TemplateStage) suggest(words []string) []string {
	best := -1
	var kinds []domain.ItemKind
	aliases := s.catalog.Aliases()
	for _, w := range words {
		if len(w) < 3 {
			continue
		}
		for _, alias := range aliases {
			d := levenshtein.ComputeDistance(w, alias)
			if d > distanceLimit(alias) {
				continue
			}
			kind, _ := s.catalog.Lookup(alias)
			switch {
			case best == -1 || d < best:
				best = d
				kinds = []domain.ItemKind{kind}
			case d == best && !containsKind(kinds, kind):
				kinds = append(kinds, kind)
			}
		}
	}
	return s.displays(kinds)
}

func distanceLimit(alias string) int {
	switch {
	case len(alias) <= 4:
		return 1
	case len(alias) <= 8:
		return 2
	default:
		return 3
	}
}

func containsKind(kinds []domain.ItemKind, k domain.ItemKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

func (s *TemplateStage) displays(kinds []domain.ItemKind) []string {
	if len(kinds) == 0 {
		return nil
	}
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, s.catalog.Display(k))
	}
	return out
}

func (s *TemplateStage) trackedList() string {
	return strings.Join(s.displays(s.catalog.Kinds()), " and ")
}

func unmatched(fragment string) *domain.ClarificationRequest {
	return &domain.ClarificationRequest{Fragment: fragment, Reason: domain.ReasonUnmatched}
}
