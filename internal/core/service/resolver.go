package service

import (
	"fmt"
	"strings"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

const rephrasePrompt = "I couldn't understand that, please rephrase."

// ClarificationResolver renders a clarification as a question for the user.
// It keeps no state between requests.
type ClarificationResolver struct {
	catalog *domain.Catalog
}

func NewClarificationResolver(catalog *domain.Catalog) *ClarificationResolver {
	return &ClarificationResolver{catalog: catalog}
}

func (r *ClarificationResolver) Prompt(req domain.ClarificationRequest) string {
	switch req.Reason {
	case domain.ReasonMissingDirection:
		return fmt.Sprintf("Did you mean to add or remove %s?", r.itemPhrase(req))
	case domain.ReasonMissingQuantity:
		verb := req.Direction.Verb()
		if verb == "" {
			verb = "add or remove"
		}
		return fmt.Sprintf("How many %s would you like to %s?", r.itemPhrase(req), verb)
	case domain.ReasonAmbiguousQuantity:
		return fmt.Sprintf("Which quantity did you mean in %q: %s?", req.Fragment, joinOr(req.Candidates))
	case domain.ReasonAmbiguousItem:
		if len(req.Candidates) == 1 {
			return fmt.Sprintf("Did you mean %s in %q?", req.Candidates[0], req.Fragment)
		}
		candidates := req.Candidates
		if len(candidates) == 0 {
			candidates = r.allDisplays()
		}
		return fmt.Sprintf("Which item did you mean in %q: %s?", req.Fragment, joinOr(candidates))
	case domain.ReasonUnknownItem:
		return fmt.Sprintf("I can only track %s; %q is not one of them.", strings.Join(r.allDisplays(), " and "), req.Fragment)
	case domain.ReasonInterpreterAmbiguous:
		if req.Prompt != "" {
			return req.Prompt
		}
		return fmt.Sprintf("Could you clarify %q?", req.Fragment)
	case domain.ReasonInterpreterFailure:
		return rephrasePrompt
	default:
		return fmt.Sprintf("I couldn't match %q to an inventory action. Try something like \"add 2 shirts\" or \"how many pants do we have?\"", req.Fragment)
	}
}

func (r *ClarificationResolver) itemPhrase(req domain.ClarificationRequest) string {
	if req.Item != "" {
		return r.catalog.Display(req.Item)
	}
	return fmt.Sprintf("the items in %q", req.Fragment)
}

func (r *ClarificationResolver) allDisplays() []string {
	kinds := r.catalog.Kinds()
	out := make([]string, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, r.catalog.Display(k))
	}
	return out
}

func joinOr(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}
