package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loaniq/loaniq-go/types"
)

func TestBestByColumn_Sample(t *testing.T) {
	sample, err := Sample()
	require.NoError(t, err)
	require.Len(t, sample.Metrics, 3)

	best := BestByColumn(sample.Metrics)
	assert.Equal(t, "loan3", best["interest_rate"], "lowest rate wins")
	assert.Equal(t, "loan2", best["tenure_months"])
	assert.Equal(t, "loan3", best["monthly_payment"])
	assert.Equal(t, "loan2", best["total_cost"])
	assert.Equal(t, "loan2", best["total_interest"])
	assert.Equal(t, "loan2", best["processing_fee"])
	assert.Equal(t, "loan3", best["effective_rate"])
	assert.Equal(t, "loan1", best["principal"], "tie goes to the first loan")
}

func TestBestByColumn_Edges(t *testing.T) {
	assert.Empty(t, BestByColumn(nil))

	metrics := []types.LoanMetrics{
		{LoanId: "a", InterestRate: 0, ProcessingFee: 0},
		{LoanId: "b", InterestRate: 7.2, ProcessingFee: 150},
	}
	best := BestByColumn(metrics)
	assert.Equal(t, "b", best["interest_rate"], "missing rate is skipped")
	assert.Equal(t, "a", best["processing_fee"], "no fee is the best fee")
	assert.NotContains(t, best, "total_cost")
}

func TestMonthlyPayment(t *testing.T) {
	assert.InDelta(t, 191.01, MonthlyPayment(10000, 5.5, 60), 0.01)
	assert.InDelta(t, 879.16, MonthlyPayment(10000, 10, 12), 0.01)
	assert.Equal(t, 100.0, MonthlyPayment(1200, 0, 12))
	assert.Zero(t, MonthlyPayment(1000, 5, 0))
	assert.Zero(t, MonthlyPayment(0, 5, 12))
}

func TestFillDerived(t *testing.T) {
	m := types.LoanMetrics{Principal: 10000, InterestRate: 5.5, TenureMonths: 60, ProcessingFee: 200, OtherFees: 50}
	FillDerived(&m)
	assert.InDelta(t, 191.01, m.MonthlyPayment, 0.01)
	assert.InDelta(t, 11460.6, m.TotalCost, 0.01)
	assert.InDelta(t, 1460.6, m.TotalInterest, 0.01)
	assert.Equal(t, 250.0, m.UpfrontCosts)

	kept := types.LoanMetrics{Principal: 10000, MonthlyPayment: 200, TenureMonths: 60, TotalCost: 12345}
	FillDerived(&kept)
	assert.Equal(t, 200.0, kept.MonthlyPayment)
	assert.Equal(t, 12345.0, kept.TotalCost)
}

func TestMetricsFromLoan(t *testing.T) {
	m := MetricsFromLoan("d1", &types.NormalizedData{BankName: "Bank Z", PrincipalAmount: 1200, TenureMonths: 12})
	assert.Equal(t, "d1", m.LoanId)
	assert.Equal(t, "Bank Z", m.BankName)
	assert.Equal(t, 100.0, m.MonthlyPayment)
	assert.Equal(t, types.LoanMetrics{LoanId: "x"}, MetricsFromLoan("x", nil))
}

func TestTable(t *testing.T) {
	result := types.ComparisonResult{Metrics: []types.LoanMetrics{
		{LoanId: "a", Principal: 10000, InterestRate: 5.5, TenureMonths: 60},
		{LoanId: "b", Principal: 10000, InterestRate: 6.5, TenureMonths: 48},
	}}
	table := Table(result)
	assert.Zero(t, result.Metrics[0].MonthlyPayment, "input is not modified")
	assert.NotZero(t, table.Metrics[0].MonthlyPayment)
	assert.Equal(t, "a", table.BestByColumn["monthly_payment"])
	assert.Equal(t, "b", table.BestByColumn["total_cost"])
}

func TestFormatColumn(t *testing.T) {
	m := types.LoanMetrics{Principal: 10000, InterestRate: 5.5, TenureMonths: 60}
	assert.Equal(t, "10000.00", FormatColumn(m, "principal"))
	assert.Equal(t, "5.50%", FormatColumn(m, "interest_rate"))
	assert.Equal(t, "60", FormatColumn(m, "tenure_months"))
	assert.Equal(t, "-", FormatColumn(m, "monthly_payment"))
	assert.Equal(t, "0.00", FormatColumn(m, "processing_fee"))
}
