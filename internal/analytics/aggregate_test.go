package analytics

import (
	"testing"

	"github.com/TharHtet236401/cyber-security/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumAndMean_EmptyAndSingle(t *testing.T) {
	var empty []domain.Incident
	assert.Equal(t, 0.0, SumField(empty, domain.FieldFinancialLoss))

	_, ok := MeanField(empty, domain.FieldFinancialLoss)
	assert.False(t, ok, "mean over empty view must report no data")

	single := []domain.Incident{{ResolutionHours: 36.5}}
	mean, ok := MeanField(single, domain.FieldResolutionHours)
	require.True(t, ok)
	assert.Equal(t, 36.5, mean)
}

func TestValueCounts_OrderAndTotal(t *testing.T) {
	view := []domain.Incident{
		{AttackType: "DDoS"},
		{AttackType: "Phishing"},
		{AttackType: "Phishing"},
		{AttackType: "Ransomware"},
		{AttackType: "Ransomware"},
		{AttackType: "Malware"},
	}

	counts := ValueCounts(view, domain.FieldAttackType)
	require.Len(t, counts, 4)

	// Убывание счетчика; Phishing раньше Ransomware — первое вхождение раньше
	assert.Equal(t, domain.ValueCount{Value: "Phishing", Count: 2}, counts[0])
	assert.Equal(t, domain.ValueCount{Value: "Ransomware", Count: 2}, counts[1])
	// DDoS встретился раньше Malware — при равных счетчиках идет первым
	assert.Equal(t, domain.ValueCount{Value: "DDoS", Count: 1}, counts[2])
	assert.Equal(t, domain.ValueCount{Value: "Malware", Count: 1}, counts[3])

	// Сумма частот равна размеру выборки
	total := 0
	for _, vc := range counts {
		total += vc.Count
	}
	assert.Equal(t, Count(view), total)
}

func TestGroupAggregate_ByYearAscending(t *testing.T) {
	view := []domain.Incident{
		{Year: 2022, FinancialLossM: 1, AffectedUsers: 10},
		{Year: 2020, FinancialLossM: 5, AffectedUsers: 100},
		{Year: 2022, FinancialLossM: 2, AffectedUsers: 20},
		{Year: 2015, FinancialLossM: 7, AffectedUsers: 70},
	}

	rows := GroupAggregate(view, domain.FieldYear, []Aggregation{
		{Name: "incidents", Kind: AggCount},
		{Name: "loss", Kind: AggSum, Field: domain.FieldFinancialLoss},
		{Name: "users", Kind: AggSum, Field: domain.FieldAffectedUsers},
	}, "")

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"2015", "2020", "2022"}, []string{rows[0].Key, rows[1].Key, rows[2].Key})
	assert.Equal(t, 2, rows[2].Count)
	assert.Equal(t, 3.0, rows[2].Values["loss"])
	assert.Equal(t, 30.0, rows[2].Values["users"])
}

func TestGroupAggregate_Mean(t *testing.T) {
	view := []domain.Incident{
		{Country: "UK", ResolutionHours: 10},
		{Country: "UK", ResolutionHours: 30},
	}
	rows := GroupAggregate(view, domain.FieldCountry, []Aggregation{
		{Name: "avg_res", Kind: AggMean, Field: domain.FieldResolutionHours},
	}, "")

	require.Len(t, rows, 1)
	assert.Equal(t, 20.0, rows[0].Values["avg_res"])
}

func TestGroupAggregate_EmptyView(t *testing.T) {
	rows := GroupAggregate(nil, domain.FieldCountry, []Aggregation{{Name: "n", Kind: AggCount}}, "")
	assert.Empty(t, rows)
}

func TestTopNBy_AscendingWithLargestLast(t *testing.T) {
	view := []domain.Incident{
		{Country: "USA", FinancialLossM: 5},
		{Country: "UK", FinancialLossM: 10},
		{Country: "USA", FinancialLossM: 3},
		{Country: "Germany", FinancialLossM: 1},
		{Country: "India", FinancialLossM: 4},
	}

	top := TopNBy(view, domain.FieldCountry, domain.FieldFinancialLoss, 3)
	require.Len(t, top, 3)

	// По возрастанию суммы, максимальная страна последняя
	assert.Equal(t, domain.RankedEntry{Key: "India", Total: 4}, top[0])
	assert.Equal(t, domain.RankedEntry{Key: "USA", Total: 8}, top[1])
	assert.Equal(t, domain.RankedEntry{Key: "UK", Total: 10}, top[2])
}

func TestTopNBy_NLargerThanGroups(t *testing.T) {
	view := []domain.Incident{{Country: "UK", FinancialLossM: 1}}
	top := TopNBy(view, domain.FieldCountry, domain.FieldFinancialLoss, 15)
	require.Len(t, top, 1)
}

func TestHistogram(t *testing.T) {
	view := []domain.Incident{
		{ResolutionHours: 0},
		{ResolutionHours: 5},
		{ResolutionHours: 10},
	}

	bins := Histogram(view, domain.FieldResolutionHours, 2)
	require.Len(t, bins, 2)
	assert.Equal(t, 1, bins[0].Count) // [0, 5)
	assert.Equal(t, 2, bins[1].Count) // [5, 10], максимум в последней корзине

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, len(view), total)
}

func TestHistogram_DegenerateCases(t *testing.T) {
	assert.Nil(t, Histogram(nil, domain.FieldResolutionHours, 30))

	same := []domain.Incident{{ResolutionHours: 7}, {ResolutionHours: 7}}
	bins := Histogram(same, domain.FieldResolutionHours, 30)
	require.Len(t, bins, 1)
	assert.Equal(t, 2, bins[0].Count)
}

func TestDistinctCount(t *testing.T) {
	view := fixtureDataset()
	assert.Equal(t, 3, DistinctCount(view, domain.FieldCountry))
	assert.Equal(t, 0, DistinctCount(nil, domain.FieldCountry))
}
