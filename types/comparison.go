package types

type LoanMetrics struct {
	LoanId         string  `json:"loan_id" yaml:"loan_id"`
	BankName       string  `json:"bank_name" yaml:"bank_name"`
	Principal      float64 `json:"principal" yaml:"principal"`
	InterestRate   float64 `json:"interest_rate" yaml:"interest_rate"`
	TenureMonths   int     `json:"tenure_months" yaml:"tenure_months"`
	MonthlyPayment float64 `json:"monthly_payment" yaml:"monthly_payment"`
	TotalCost      float64 `json:"total_cost" yaml:"total_cost"`
	TotalInterest  float64 `json:"total_interest" yaml:"total_interest"`
	EffectiveRate  float64 `json:"effective_rate" yaml:"effective_rate"`
	UpfrontCosts   float64 `json:"upfront_costs" yaml:"upfront_costs"`
	ProcessingFee  float64 `json:"processing_fee" yaml:"processing_fee"`
	OtherFees      float64 `json:"other_fees" yaml:"other_fees"`
}

type FlexibilityScore struct {
	LoanId   string          `json:"loan_id" yaml:"loan_id"`
	BankName string          `json:"bank_name" yaml:"bank_name"`
	Score    float64         `json:"score" yaml:"score"`
	Features []string        `json:"features" yaml:"features"`
	Details  map[string]bool `json:"details,omitempty" yaml:"details,omitempty"`
}

type ProsCons struct {
	LoanId   string   `json:"loan_id" yaml:"loan_id"`
	BankName string   `json:"bank_name" yaml:"bank_name"`
	Pros     []string `json:"pros" yaml:"pros"`
	Cons     []string `json:"cons" yaml:"cons"`
	Summary  string   `json:"summary" yaml:"summary"`
}

type ComparedLoan struct {
	DocumentId   string `json:"document_id" yaml:"document_id"`
	DocumentName string `json:"document_name" yaml:"document_name"`
	BankName     string `json:"bank_name" yaml:"bank_name"`
}

// ComparisonResult is returned by the backend compare endpoint.
type ComparisonResult struct {
	Loans             []ComparedLoan     `json:"loans" yaml:"loans"`
	Metrics           []LoanMetrics      `json:"metrics" yaml:"metrics"`
	FlexibilityScores []FlexibilityScore `json:"flexibility_scores" yaml:"flexibility_scores"`
	ProsCons          []ProsCons         `json:"pros_cons" yaml:"pros_cons"`
	BestOverall       string             `json:"best_overall" yaml:"best_overall"`
	BestByCategory    map[string]string  `json:"best_by_category" yaml:"best_by_category"`
	Recommendation    string             `json:"recommendation" yaml:"recommendation"`
	ComparisonDate    string             `json:"comparison_date" yaml:"comparison_date"`
}

type CompareRequest struct {
	DocumentIds []string `json:"document_ids"`
}

// ComparisonTable is a comparison plus the locally derived best value per column.
type ComparisonTable struct {
	ComparisonResult
	BestByColumn map[string]string `json:"best_by_column"`
}
