package types

// FinancialTerm is one glossary entry.
type FinancialTerm struct {
	Term                string            `json:"term" yaml:"term"`
	Category            string            `json:"category" yaml:"category"`
	SimpleExplanation   string            `json:"simple_explanation" yaml:"simple"`
	DetailedExplanation string            `json:"detailed_explanation,omitempty" yaml:"detailed,omitempty"`
	Example             string            `json:"example" yaml:"example"`
	WhyItMatters        string            `json:"why_it_matters" yaml:"whyMatters"`
	RelatedTerms        []string          `json:"related_terms,omitempty" yaml:"related,omitempty"`
	Translations        map[string]string `json:"translations,omitempty" yaml:"translations,omitempty"`
}

// BestPractice is a borrowing tip shown next to the glossary.
type BestPractice struct {
	Title       string   `json:"title" yaml:"title"`
	Importance  string   `json:"importance" yaml:"importance"`
	Description string   `json:"description" yaml:"description"`
	Tips        []string `json:"tips" yaml:"tips"`
}
