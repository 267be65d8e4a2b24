package service

import (
	"context"
	"sync"
	"testing"

	"github.com/TharHtet236401/cyber-security/internal/audit"
	"github.com/TharHtet236401/cyber-security/internal/dataset"
	"github.com/TharHtet236401/cyber-security/internal/domain"
	"github.com/TharHtet236401/cyber-security/internal/infra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.QueryEvent
}

func (r *recordingAuditor) Record(e audit.QueryEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingAuditor) Depth() int { return 0 }

func testCatalog() *dataset.Catalog {
	return dataset.NewCatalog([]domain.Incident{
		{Year: 2020, Country: "USA", AttackType: "Phishing", TargetIndustry: "Banking", AttackSource: "Hacker Group", FinancialLossM: 5.0, AffectedUsers: 1000, ResolutionHours: 10},
		{Year: 2020, Country: "USA", AttackType: "Ransomware", TargetIndustry: "Healthcare", AttackSource: "Insider", FinancialLossM: 3.0, AffectedUsers: 500, ResolutionHours: 30},
		{Year: 2021, Country: "UK", AttackType: "Phishing", TargetIndustry: "Banking", AttackSource: "Nation-state", FinancialLossM: 10.0, AffectedUsers: 2000, ResolutionHours: 20},
	}, false)
}

func newTestService(trail QueryAuditor) *DashboardService {
	// Без Redis, метрик и геокодера: кэш и телеметрия опциональны
	return NewDashboardService(testCatalog(), nil, nil, nil, trail, infra.EngineConfig{}, zap.NewNop())
}

func TestNormalize_AbsentDimensionMeansAll(t *testing.T) {
	s := newTestService(nil)

	sel := s.Normalize(domain.SelectionRequest{})
	assert.Equal(t, []int{2020, 2021}, sel.Years)
	assert.Equal(t, []string{"UK", "USA"}, sel.Countries)
	assert.Len(t, sel.AttackTypes, 2)
}

func TestNormalize_EmptyArrayStaysEmpty(t *testing.T) {
	s := newTestService(nil)

	empty := []string{}
	sel := s.Normalize(domain.SelectionRequest{Countries: &empty})
	assert.Empty(t, sel.Countries)
	assert.NotEmpty(t, sel.Years, "остальные измерения получают полную вселенную")
}

func TestBuildReport_KPIs(t *testing.T) {
	s := newTestService(nil)

	years := []int{2020}
	report, err := s.BuildReport(context.Background(), domain.SelectionRequest{Years: &years}, QueryMeta{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TotalIncidents)
	assert.Equal(t, 8.0, report.Summary.TotalLossMusd)
	assert.Equal(t, int64(1500), report.Summary.TotalAffectedUsers)
	assert.Equal(t, 1, report.Summary.CountriesAffected)
	require.NotNil(t, report.Summary.AvgResolutionHours)
	assert.Equal(t, 20.0, *report.Summary.AvgResolutionHours)

	require.Len(t, report.YearlyTrend, 1)
	assert.Equal(t, 2020, report.YearlyTrend[0].Year)
	assert.Equal(t, 2, report.YearlyTrend[0].Incidents)

	require.Contains(t, report.Breakdowns, "attack_type")
	assert.Len(t, report.Breakdowns["attack_type"], 2)
}

func TestBuildReport_EmptySelectionDegradesGracefully(t *testing.T) {
	s := newTestService(nil)

	none := []string{}
	report, err := s.BuildReport(context.Background(), domain.SelectionRequest{Countries: &none}, QueryMeta{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.TotalIncidents)
	assert.Equal(t, 0.0, report.Summary.TotalLossMusd)
	assert.Nil(t, report.Summary.AvgResolutionHours, "среднее по пустой выборке — сентинел, не NaN")
	assert.Empty(t, report.Breakdowns["attack_type"])
	assert.Empty(t, report.TopCountriesByLoss)
	assert.Empty(t, report.ResolutionHist)
}

func TestBuildReport_TopCountries(t *testing.T) {
	s := newTestService(nil)

	report, err := s.BuildReport(context.Background(), domain.SelectionRequest{}, QueryMeta{})
	require.NoError(t, err)

	// По возрастанию суммарного ущерба, максимальная страна последняя
	require.Len(t, report.TopCountriesByLoss, 2)
	assert.Equal(t, "USA", report.TopCountriesByLoss[0].Key)
	assert.Equal(t, "UK", report.TopCountriesByLoss[1].Key)
	assert.Equal(t, 10.0, report.TopCountriesByLoss[1].Total)
}

func TestListIncidents_Pagination(t *testing.T) {
	s := newTestService(nil)

	page, total := s.ListIncidents(context.Background(), domain.SelectionRequest{}, 2, 0, QueryMeta{})
	assert.Equal(t, 3, total)
	assert.Len(t, page, 2)

	page, total = s.ListIncidents(context.Background(), domain.SelectionRequest{}, 2, 2, QueryMeta{})
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "UK", page[0].Country)

	// Смещение за пределами выборки — пустая страница, не паника
	page, _ = s.ListIncidents(context.Background(), domain.SelectionRequest{}, 10, 100, QueryMeta{})
	assert.Empty(t, page)
	assert.NotNil(t, page, "фронтенд ожидает [], а не null")
}

func TestBuildMap_NormalizesCountryNames(t *testing.T) {
	s := newTestService(nil)

	entries, err := s.BuildMap(context.Background(), domain.SelectionRequest{}, QueryMeta{})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ключи по возрастанию: UK → United Kingdom, USA → United States
	assert.Equal(t, "United Kingdom", entries[0].Country)
	assert.Equal(t, 1, entries[0].Incidents)
	assert.Equal(t, "United States", entries[1].Country)
	assert.Equal(t, 8.0, entries[1].LossMusd)
	assert.False(t, entries[0].HasCoords, "без geo-датасета и геокодера координат нет")
}

func TestQueryAudit_RecordsEveryQuery(t *testing.T) {
	trail := &recordingAuditor{}
	s := newTestService(trail)

	_, err := s.BuildReport(context.Background(), domain.SelectionRequest{}, QueryMeta{TraceID: "t-1", UserID: "u-1"})
	require.NoError(t, err)
	_, _ = s.ListIncidents(context.Background(), domain.SelectionRequest{}, 10, 0, QueryMeta{TraceID: "t-2"})

	require.Len(t, trail.events, 2)
	first := trail.events[0]
	assert.Equal(t, "report", first.Endpoint)
	assert.Equal(t, "t-1", first.TraceID)
	assert.Equal(t, "u-1", first.UserID)
	assert.Equal(t, 3, first.RowsMatched)
	assert.False(t, first.CacheHit)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.SelectionDigest)

	assert.Equal(t, "incidents", trail.events[1].Endpoint)
}
