package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	tokenRE = regexp.MustCompile(`[+-]?\d+(?:\.\d+)?|[a-z]+(?:['-][a-z]+)*|[,;&+-]`)

	punctuationReplacer = strings.NewReplacer(
		"’", "'",
		"‘", "'",
		"–", "-",
		"—", "-",
	)
)

func normaliseInput(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	raw = punctuationReplacer.Replace(raw)
	return strings.Join(strings.Fields(raw), " ")
}

// tokenise splits normalised text into words, signed numbers and clause
// separators. A sign glued to digits stays with the number ("-3"), a
// free-standing "+" or "-" is a separator, and hyphenated words ("t-shirt")
// stay whole.
func tokenise(normalised string) []string {
	if normalised == "" {
		return nil
	}
	return tokenRE.FindAllString(normalised, -1)
}

// splitClauses cuts the token stream at separators, and again before a
// signed number that follows a complete "quantity item" run, so both
// "+2 shirts -1 pants" and "add 5 shirts -2 pants" become two clauses.
func splitClauses(tokens []string) [][]string {
	var (
		out     [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, splitSigned(current)...)
		}
		current = nil
	}
	for _, tok := range tokens {
		if clauseSeparators[tok] {
			flush()
			continue
		}
		current = append(current, tok)
	}
	flush()
	return out
}

// splitSigned cuts before a signed number once the run so far holds a
// quantity followed by at least one word. "add -3 shirts" and "add 2 -3
// shirts" stay whole.
func splitSigned(tokens []string) [][]string {
	var (
		out      [][]string
		current  []string
		quantity bool
		complete bool
	)
	for _, tok := range tokens {
		_, isQuantity := parseQuantityToken(tok)
		if isSignedNumber(tok) && complete {
			out = append(out, current)
			current, quantity, complete = nil, false, false
		}
		current = append(current, tok)
		switch {
		case isQuantity:
			quantity = true
		case quantity:
			complete = true
		}
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out
}

func isSignedNumber(tok string) bool {
	return len(tok) > 1 && (tok[0] == '+' || tok[0] == '-') && isDigit(tok[1])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

type quantity struct {
	raw     string
	value   int
	sign    int
	decimal bool
	tooBig  bool
}

func parseQuantityToken(tok string) (quantity, bool) {
	if n, ok := numberWords[tok]; ok {
		return quantity{raw: tok, value: n}, true
	}
	if tok == "" {
		return quantity{}, false
	}
	body := tok
	q := quantity{raw: tok}
	switch tok[0] {
	case '+':
		q.sign = 1
		body = tok[1:]
	case '-':
		q.sign = -1
		body = tok[1:]
	}
	if body == "" || !isDigit(body[0]) {
		return quantity{}, false
	}
	if strings.Contains(body, ".") {
		q.decimal = true
		return q, true
	}
	n, err := strconv.Atoi(body)
	if err != nil || n > maxQuantity {
		q.tooBig = true
		return q, true
	}
	q.value = n
	return q, true
}
