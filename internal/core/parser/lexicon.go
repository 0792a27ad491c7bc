package parser

import "github.com/rl1809/stock-assistant/internal/core/domain"

// maxQuantity caps a single clause so a typo cannot overflow the store.
const maxQuantity = 1_000_000

var verbs = map[string]domain.Direction{
	"add":        domain.DirectionAdd,
	"adds":       domain.DirectionAdd,
	"added":      domain.DirectionAdd,
	"adding":     domain.DirectionAdd,
	"receive":    domain.DirectionAdd,
	"received":   domain.DirectionAdd,
	"receiving":  domain.DirectionAdd,
	"buy":        domain.DirectionAdd,
	"bought":     domain.DirectionAdd,
	"purchase":   domain.DirectionAdd,
	"purchased":  domain.DirectionAdd,
	"restock":    domain.DirectionAdd,
	"restocked":  domain.DirectionAdd,
	"increase":   domain.DirectionAdd,
	"increased":  domain.DirectionAdd,
	"got":        domain.DirectionAdd,
	"get":        domain.DirectionAdd,
	"remove":     domain.DirectionRemove,
	"removes":    domain.DirectionRemove,
	"removed":    domain.DirectionRemove,
	"removing":   domain.DirectionRemove,
	"sell":       domain.DirectionRemove,
	"sells":      domain.DirectionRemove,
	"sold":       domain.DirectionRemove,
	"selling":    domain.DirectionRemove,
	"ship":       domain.DirectionRemove,
	"shipped":    domain.DirectionRemove,
	"shipping":   domain.DirectionRemove,
	"deduct":     domain.DirectionRemove,
	"deducted":   domain.DirectionRemove,
	"subtract":   domain.DirectionRemove,
	"subtracted": domain.DirectionRemove,
	"take":       domain.DirectionRemove,
	"took":       domain.DirectionRemove,
	"decrease":   domain.DirectionRemove,
	"decreased":  domain.DirectionRemove,
	"reduce":     domain.DirectionRemove,
	"reduced":    domain.DirectionRemove,
	"delete":     domain.DirectionRemove,
	"deleted":    domain.DirectionRemove,
	"lost":       domain.DirectionRemove,
	"gave":       domain.DirectionRemove,
	"delivered":  domain.DirectionRemove,
}

// weakVerbs read as possession inside a question ("how many shirts have we got").
var weakVerbs = map[string]bool{
	"got": true,
	"get": true,
}

// questionWords are the query cues that open a question.
var questionWords = map[string]bool{
	"how":    true,
	"what":   true,
	"what's": true,
	"whats":  true,
}

var queryCues = map[string]bool{
	"how":       true,
	"many":      true,
	"much":      true,
	"what":      true,
	"what's":    true,
	"whats":     true,
	"inventory": true,
	"stock":     true,
	"count":     true,
	"counts":    true,
	"show":      true,
	"check":     true,
	"level":     true,
	"levels":    true,
	"status":    true,
	"list":      true,
	"current":   true,
	"left":      true,
	"remaining": true,
	"tell":      true,
}

var fillers = map[string]bool{
	"i": true, "i've": true, "ive": true, "i'd": true, "we": true, "we've": true, "weve": true,
	"just": true, "please": true, "can": true, "could": true, "would": true, "you": true,
	"the": true, "a": true, "an": true, "of": true, "to": true, "from": true, "into": true,
	"in": true, "on": true, "at": true, "for": true, "with": true, "more": true, "new": true,
	"extra": true, "additional": true, "another": true, "units": true, "unit": true,
	"pieces": true, "piece": true, "pcs": true, "pairs": true, "pair": true, "items": true,
	"item": true, "our": true, "my": true, "us": true, "me": true, "do": true, "does": true,
	"did": true, "have": true, "has": true, "had": true, "is": true, "are": true, "there": true,
	"today": true, "now": true, "right": true, "currently": true, "still": true, "total": true,
	"altogether": true, "overall": true, "everything": true, "t": true, "also": true,
	"thanks": true, "thank": true, "ok": true, "okay": true, "hey": true, "hi": true,
	"it": true, "them": true, "those": true, "these": true, "that": true, "this": true,
	"store": true, "shop": true, "warehouse": true, "shelf": true, "shelves": true,
}

// vague quantities always need a follow-up question.
var vagueQuantities = map[string]bool{
	"some":    true,
	"several": true,
	"few":     true,
	"all":     true,
	"any":     true,
	"bunch":   true,
	"couple":  true,
	"lots":    true,
	"lot":     true,
}

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
	"dozen": 12,
}

var clauseSeparators = map[string]bool{
	",":    true,
	";":    true,
	"&":    true,
	"+":    true,
	"-":    true,
	"and":  true,
	"then": true,
	"plus": true,
}
