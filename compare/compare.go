// Package compare derives the per-column winners of a loan comparison
// and fills in amortization figures the backend left out.
package compare

import (
	_ "embed"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/loaniq/loaniq-go/types"
)

//go:embed sample.yaml
var sampleYAML []byte

// Columns lists the comparison rows in display order. Lower is better for all of them.
var Columns = []string{
	"principal",
	"interest_rate",
	"tenure_months",
	"monthly_payment",
	"total_cost",
	"total_interest",
	"processing_fee",
	"effective_rate",
}

func columnValue(m types.LoanMetrics, column string) float64 {
	switch column {
	case "principal":
		return m.Principal
	case "interest_rate":
		return m.InterestRate
	case "tenure_months":
		return float64(m.TenureMonths)
	case "monthly_payment":
		return m.MonthlyPayment
	case "total_cost":
		return m.TotalCost
	case "total_interest":
		return m.TotalInterest
	case "processing_fee":
		return m.ProcessingFee
	case "effective_rate":
		return m.EffectiveRate
	}
	return 0
}

// FormatColumn renders one cell of the comparison table; missing values print as "-".
func FormatColumn(m types.LoanMetrics, column string) string {
	v := columnValue(m, column)
	switch {
	case v == 0 && column != "processing_fee":
		return "-"
	case column == "tenure_months":
		return fmt.Sprintf("%d", m.TenureMonths)
	case column == "interest_rate" || column == "effective_rate":
		return fmt.Sprintf("%.2f%%", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// BestByColumn maps each column to the loan_id with the lowest value.
// Ties go to the earlier loan. Values <= 0 count as missing, except processing_fee
// where zero is a real (and best) value; a column with no values is left out.
func BestByColumn(metrics []types.LoanMetrics) map[string]string {
	best := make(map[string]string, len(Columns))
	for _, column := range Columns {
		found := false
		var lowest float64
		for _, m := range metrics {
			v := columnValue(m, column)
			if v < 0 || (v == 0 && column != "processing_fee") {
				continue
			}
			if !found || v < lowest {
				found = true
				lowest = v
				best[column] = m.LoanId
			}
		}
	}
	return best
}

// MonthlyPayment is the standard amortized installment for principal borrowed at
// annualRatePct percent over months.
func MonthlyPayment(principal, annualRatePct float64, months int) float64 {
	if principal <= 0 || months <= 0 {
		return 0
	}
	r := annualRatePct / 12 / 100
	if r <= 0 {
		return round2(principal / float64(months))
	}
	growth := math.Pow(1+r, float64(months))
	return round2(principal * r * growth / (growth - 1))
}

// FillDerived completes zero-valued monthly_payment, total_cost, total_interest and
// upfront_costs from the other fields.
func FillDerived(m *types.LoanMetrics) {
	if m.MonthlyPayment == 0 {
		m.MonthlyPayment = MonthlyPayment(m.Principal, m.InterestRate, m.TenureMonths)
	}
	if m.TotalCost == 0 && m.MonthlyPayment > 0 && m.TenureMonths > 0 {
		m.TotalCost = round2(m.MonthlyPayment * float64(m.TenureMonths))
	}
	if m.TotalInterest == 0 && m.TotalCost > 0 && m.Principal > 0 {
		m.TotalInterest = round2(m.TotalCost - m.Principal)
	}
	if m.UpfrontCosts == 0 {
		m.UpfrontCosts = round2(m.ProcessingFee + m.OtherFees)
	}
}

// MetricsFromLoan builds a metrics row from one extracted document.
func MetricsFromLoan(loanId string, loan *types.NormalizedData) types.LoanMetrics {
	if loan == nil {
		return types.LoanMetrics{LoanId: loanId}
	}
	m := types.LoanMetrics{
		LoanId:         loanId,
		BankName:       loan.BankName,
		Principal:      loan.PrincipalAmount,
		InterestRate:   loan.InterestRate,
		TenureMonths:   loan.TenureMonths,
		MonthlyPayment: loan.MonthlyPayment,
		ProcessingFee:  loan.ProcessingFee,
		OtherFees:      loan.OtherFees,
	}
	FillDerived(&m)
	return m
}

// Table copies result, fills derived figures and attaches the per-column winners.
func Table(result types.ComparisonResult) types.ComparisonTable {
	metrics := make([]types.LoanMetrics, len(result.Metrics))
	copy(metrics, result.Metrics)
	for i := range metrics {
		FillDerived(&metrics[i])
	}
	result.Metrics = metrics
	return types.ComparisonTable{
		ComparisonResult: result,
		BestByColumn:     BestByColumn(metrics),
	}
}

// Sample returns the built-in three-bank demo comparison.
func Sample() (types.ComparisonResult, error) {
	var result types.ComparisonResult
	if err := yaml.Unmarshal(sampleYAML, &result); err != nil {
		return result, fmt.Errorf("failed to parse sample comparison: %w", err)
	}
	result.ComparisonDate = time.Now().UTC().Format(time.RFC3339)
	return result, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
