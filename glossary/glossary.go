package glossary

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/loaniq/loaniq-go/types"
)

// CategoryAll matches every category in Search.
const CategoryAll = "all"

//go:embed terms.yaml
var termsYAML []byte

type document struct {
	Terms     []types.FinancialTerm `yaml:"terms"`
	Practices []types.BestPractice  `yaml:"practices"`
}

type Glossary struct {
	terms     []types.FinancialTerm
	practices []types.BestPractice
}

var (
	defaultOnce     sync.Once
	defaultGlossary *Glossary
	defaultErr      error
)

// Parse reads a glossary document (terms + practices) in the embedded YAML layout.
func Parse(data []byte) (*Glossary, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glossary: %w", err)
	}
	for i, t := range doc.Terms {
		if strings.TrimSpace(t.Term) == "" {
			return nil, fmt.Errorf("glossary entry %d has no term", i)
		}
	}
	return &Glossary{terms: doc.Terms, practices: doc.Practices}, nil
}

// Default returns the built-in glossary, parsed once.
func Default() (*Glossary, error) {
	defaultOnce.Do(func() {
		defaultGlossary, defaultErr = Parse(termsYAML)
	})
	return defaultGlossary, defaultErr
}

func (g *Glossary) Terms() []types.FinancialTerm {
	return append([]types.FinancialTerm(nil), g.terms...)
}

func (g *Glossary) BestPractices() []types.BestPractice {
	return append([]types.BestPractice(nil), g.practices...)
}

// Categories lists distinct categories in first-appearance order.
func (g *Glossary) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range g.terms {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}

// Search returns terms whose name or simple explanation contains query (case-insensitive)
// within category. Empty query matches everything; empty category or "all" spans every category.
func (g *Glossary) Search(query, category string) []types.FinancialTerm {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]types.FinancialTerm, 0)
	for _, t := range g.terms {
		if category != "" && !strings.EqualFold(category, CategoryAll) && !strings.EqualFold(category, t.Category) {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(t.Term), q) &&
			!strings.Contains(strings.ToLower(t.SimpleExplanation), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Lookup finds a term by exact name, ignoring case.
func (g *Glossary) Lookup(term string) (types.FinancialTerm, bool) {
	for _, t := range g.terms {
		if strings.EqualFold(t.Term, term) {
			return t, true
		}
	}
	return types.FinancialTerm{}, false
}

// Title is the term's name in language, falling back to English.
func Title(t types.FinancialTerm, language string) string {
	if name, ok := t.Translations[strings.ToLower(language)]; ok && name != "" {
		return name
	}
	return t.Term
}
