package interpreter

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/stock-assistant/internal/core/domain"
)

// DefaultCapability describes the service from the catalog alone.
func DefaultCapability(catalog *domain.Catalog) string {
	var b strings.Builder
	b.WriteString("- query: read the current count of one item, or of every item when no item is given.\n")
	b.WriteString("- adjust: change the count of one item by a signed integer; counts never go below zero.\n")
	b.WriteString("Items:\n")
	for _, kind := range catalog.Kinds() {
		fmt.Fprintf(&b, "- %s (%s)\n", kind, catalog.Display(kind))
	}
	return strings.TrimRight(b.String(), "\n")
}

type openAPIDocument struct {
	Info struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
	} `yaml:"info"`
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

type openAPIOperation struct {
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

var describedMethods = map[string]bool{"get": true, "post": true, "put": true, "patch": true, "delete": true}

// LoadCapability renders an OpenAPI document (YAML or JSON) as a capability
// description and appends the catalog's items.
func LoadCapability(path string, catalog *domain.Catalog) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read capability document: %w", err)
	}

	var doc openAPIDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse capability document: %w", err)
	}
	if len(doc.Paths) == 0 {
		return "", fmt.Errorf("capability document %s has no paths", path)
	}

	var b strings.Builder
	if doc.Info.Title != "" {
		fmt.Fprintf(&b, "%s\n", doc.Info.Title)
	}
	if d := strings.TrimSpace(doc.Info.Description); d != "" {
		fmt.Fprintf(&b, "%s\n", d)
	}

	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		methods := make([]string, 0, len(doc.Paths[p]))
		for m := range doc.Paths[p] {
			if describedMethods[strings.ToLower(m)] {
				methods = append(methods, m)
			}
		}
		sort.Strings(methods)
		for _, m := range methods {
			var op openAPIOperation
			node := doc.Paths[p][m]
			if err := node.Decode(&op); err != nil {
				return "", fmt.Errorf("parse %s %s: %w", strings.ToUpper(m), p, err)
			}
			summary := op.Summary
			if summary == "" {
				summary = strings.TrimSpace(op.Description)
			}
			fmt.Fprintf(&b, "- %s %s: %s\n", strings.ToUpper(m), p, summary)
		}
	}

	b.WriteString("Items:\n")
	for _, kind := range catalog.Kinds() {
		fmt.Fprintf(&b, "- %s (%s)\n", kind, catalog.Display(kind))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
