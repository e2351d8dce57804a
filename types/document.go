package types

// NormalizedData holds the loan fields the backend extracts and normalizes.
type NormalizedData struct {
	PrincipalAmount   float64 `json:"principal_amount"`
	InterestRate      float64 `json:"interest_rate"`
	TenureMonths      int     `json:"tenure_months"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	BankName          string  `json:"bank_name"`
	LoanType          string  `json:"loan_type"`
	ProcessingFee     float64 `json:"processing_fee,omitempty"`
	OtherFees         float64 `json:"other_fees,omitempty"`
	PrepaymentAllowed bool    `json:"prepayment_allowed,omitempty"`
}

type AccuracyMetrics struct {
	OverallAccuracy     float64 `json:"overall_accuracy"`
	FormFieldConfidence float64 `json:"form_field_confidence"`
}

// ExtractionResult is the record returned by the document upload endpoint.
// Older backends send the loan fields as structured_data instead of normalized_data.
type ExtractionResult struct {
	DocumentId      string          `json:"document_id"`
	DocumentName    string          `json:"document_name"`
	NormalizedData  *NormalizedData `json:"normalized_data,omitempty"`
	StructuredData  *NormalizedData `json:"structured_data,omitempty"`
	AccuracyMetrics AccuracyMetrics `json:"accuracy_metrics"`
	ProcessorsUsed  []string        `json:"processors_used,omitempty"`
	ProcessedAt     string          `json:"processed_at,omitempty"`
}

// Loan returns the normalized loan fields, whichever key the backend used.
func (r *ExtractionResult) Loan() *NormalizedData {
	if r == nil {
		return nil
	}
	if r.NormalizedData != nil {
		return r.NormalizedData
	}
	return r.StructuredData
}

// DocumentMetadata describes a document already stored by the backend.
type DocumentMetadata struct {
	DocumentId   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	FileType     string `json:"file_type"`
	FileSize     int64  `json:"file_size"`
	PageCount    int    `json:"page_count"`
	UploadedAt   string `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentMetadata `json:"documents"`
	Count     int                `json:"count"`
}

// APIErrorResponse is the error body of the backend (FastAPI style).
type APIErrorResponse struct {
	Detail string `json:"detail"`
}
