package domain

import (
	"sort"
	"strings"
)

type ItemKind string

const (
	Shirts ItemKind = "shirts"
	Pants  ItemKind = "pants"
)

// Counts is a point-in-time view of the inventory record.
type Counts map[ItemKind]int

func (c Counts) Clone() Counts {
	out := make(Counts, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

type ItemDef struct {
	Kind    ItemKind
	Display string
	Aliases []string
}

// Catalog is the fixed set of trackable goods. It is built once at startup
// and never mutated afterwards.
type Catalog struct {
	items       []ItemDef
	aliases     map[string]ItemKind
	unsupported map[string]bool
}

func NewCatalog(items []ItemDef, unsupported []string) *Catalog {
	c := &Catalog{
		items:       make([]ItemDef, 0, len(items)),
		aliases:     make(map[string]ItemKind),
		unsupported: make(map[string]bool, len(unsupported)),
	}
	for _, def := range items {
		c.items = append(c.items, def)
		c.aliases[string(def.Kind)] = def.Kind
		for _, a := range def.Aliases {
			c.aliases[strings.ToLower(strings.TrimSpace(a))] = def.Kind
		}
	}
	for _, u := range unsupported {
		c.unsupported[strings.ToLower(strings.TrimSpace(u))] = true
	}
	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog(
		[]ItemDef{
			{
				Kind:    Shirts,
				Display: "t-shirts",
				Aliases: []string{"shirt", "shirts", "tshirt", "tshirts", "t-shirt", "t-shirts", "tee", "tees"},
			},
			{
				Kind:    Pants,
				Display: "pants",
				Aliases: []string{"pant", "pants", "trouser", "trousers", "slack", "slacks"},
			},
		},
		[]string{
			"shoe", "shoes", "sock", "socks", "hat", "hats", "cap", "caps",
			"jacket", "jackets", "sweater", "sweaters", "hoodie", "hoodies",
			"short", "shorts", "skirt", "skirts", "dress", "dresses",
			"scarf", "scarves", "glove", "gloves", "belt", "belts",
		},
	)
}

// Lookup resolves an exact alias or canonical name.
func (c *Catalog) Lookup(word string) (ItemKind, bool) {
	k, ok := c.aliases[strings.ToLower(strings.TrimSpace(word))]
	return k, ok
}

func (c *Catalog) Unsupported(word string) bool {
	return c.unsupported[strings.ToLower(strings.TrimSpace(word))]
}

func (c *Catalog) Kinds() []ItemKind {
	out := make([]ItemKind, 0, len(c.items))
	for _, def := range c.items {
		out = append(out, def.Kind)
	}
	return out
}

func (c *Catalog) Display(k ItemKind) string {
	for _, def := range c.items {
		if def.Kind == k {
			return def.Display
		}
	}
	return string(k)
}

// Aliases returns every alias sorted, canonical names included.
func (c *Catalog) Aliases() []string {
	out := make([]string, 0, len(c.aliases))
	for a := range c.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) Contains(k ItemKind) bool {
	for _, def := range c.items {
		if def.Kind == k {
			return true
		}
	}
	return false
}
