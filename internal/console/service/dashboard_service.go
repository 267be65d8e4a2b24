package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/TharHtet236401/cyber-security/internal/analytics"
	"github.com/TharHtet236401/cyber-security/internal/audit"
	"github.com/TharHtet236401/cyber-security/internal/dataset"
	"github.com/TharHtet236401/cyber-security/internal/domain"
	"github.com/TharHtet236401/cyber-security/internal/geo"
	"github.com/TharHtet236401/cyber-security/internal/infra"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// QueryAuditor описывает, что сервису нужно от журнала запросов.
type QueryAuditor interface {
	Record(event audit.QueryEvent)
	Depth() int
}

// QueryMeta — контекст запроса для аудита.
type QueryMeta struct {
	TraceID string
	UserID  string
}

// DashboardService выполняет цикл фильтрация → агрегация над каталогом.
// Сам цикл — чистые функции пакета analytics; здесь — оркестрация,
// дефолтинг выборки, Redis-кэш отчетов и аудит.
type DashboardService struct {
	catalog  *dataset.Catalog
	rdb      *redis.Client // nil — кэш выключен
	geocoder *geo.Geocoder // nil — только координаты из датасета
	metrics  *analytics.Metrics
	trail    QueryAuditor // nil — без аудита
	logger   *zap.Logger

	cacheTTL time.Duration
	histBins int
	topN     int
}

func NewDashboardService(
	catalog *dataset.Catalog,
	rdb *redis.Client,
	geocoder *geo.Geocoder,
	metrics *analytics.Metrics,
	trail QueryAuditor,
	cfg infra.EngineConfig,
	logger *zap.Logger,
) *DashboardService {
	histBins := cfg.HistogramBins
	if histBins <= 0 {
		histBins = 30
	}
	topN := cfg.TopCountries
	if topN <= 0 {
		topN = 15
	}
	return &DashboardService{
		catalog:  catalog,
		rdb:      rdb,
		geocoder: geocoder,
		metrics:  metrics,
		trail:    trail,
		logger:   logger.Named("dashboard-service"),
		cacheTTL: cfg.ReportCacheTTL,
		histBins: histBins,
		topN:     topN,
	}
}

// Dimensions отдает вселенные значений для построения фильтров в UI.
func (s *DashboardService) Dimensions() domain.Dimensions {
	return s.catalog.Dimensions()
}

// Normalize превращает клиентскую выборку в полную: отсутствующее измерение
// заменяется вселенной наблюдаемых значений, присланный пустой массив
// остается пустым (и даст пустую выборку — это документированное поведение).
func (s *DashboardService) Normalize(req domain.SelectionRequest) domain.Selection {
	sel := s.catalog.FullSelection()
	if req.Years != nil {
		sel.Years = *req.Years
	}
	if req.Countries != nil {
		sel.Countries = *req.Countries
	}
	if req.AttackTypes != nil {
		sel.AttackTypes = *req.AttackTypes
	}
	if req.Industries != nil {
		sel.Industries = *req.Industries
	}
	if req.Sources != nil {
		sel.Sources = *req.Sources
	}
	return sel
}

// BuildReport считает полный отчет дашборда по выборке.
// Кэш в Redis по digest выборки: порядок значений в запросе не влияет на ключ.
func (s *DashboardService) BuildReport(ctx context.Context, req domain.SelectionRequest, meta QueryMeta) (*domain.DashboardReport, error) {
	started := time.Now()
	sel := s.Normalize(req)
	digest := sel.Digest()

	// 1. Пробуем кэш
	if cached := s.cachedReport(ctx, digest); cached != nil {
		s.observe("report", started, digest, meta, cached.Summary.TotalIncidents, true)
		return cached, nil
	}

	// 2. Полный пересчет: одна фильтрация, дальше чистые редьюсеры
	view := analytics.ApplyFilters(s.catalog.Records(), sel)
	report := s.computeReport(view)

	// 3. Кладем в кэш, сбой кэша не мешает ответу
	s.storeReport(ctx, digest, report)

	s.observe("report", started, digest, meta, len(view), false)
	return report, nil
}

// ListIncidents возвращает страницу отфильтрованных записей для таблицы
// Data Explorer. total — размер всей выборки до пагинации.
func (s *DashboardService) ListIncidents(ctx context.Context, req domain.SelectionRequest, limit, offset int, meta QueryMeta) (page []domain.Incident, total int) {
	started := time.Now()
	sel := s.Normalize(req)
	view := analytics.ApplyFilters(s.catalog.Records(), sel)
	total = len(view)

	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	page = view[offset:end]

	// Фронтенд ожидает [], а не null, на пустой выборке
	if page == nil {
		page = []domain.Incident{}
	}

	s.observe("incidents", started, sel.Digest(), meta, total, false)
	return page, total
}

// BuildMap строит choropleth-слой: по стране — число инцидентов, суммарный
// ущерб и центроид. Имена нормализованы под конвенцию геокодера.
func (s *DashboardService) BuildMap(ctx context.Context, req domain.SelectionRequest, meta QueryMeta) ([]domain.CountryMapEntry, error) {
	started := time.Now()
	sel := s.Normalize(req)
	view := analytics.ApplyFilters(s.catalog.Records(), sel)

	rows := analytics.GroupAggregate(view, domain.FieldCountry, []analytics.Aggregation{
		{Name: "loss", Kind: analytics.AggSum, Field: domain.FieldFinancialLoss},
	}, "")

	entries := make([]domain.CountryMapEntry, 0, len(rows))
	for _, row := range rows {
		entry := domain.CountryMapEntry{
			Country:   geo.NormalizeCountry(row.Key),
			Incidents: row.Count,
			LossMusd:  row.Values["loss"],
		}

		// Координаты: сначала geo-вариант датасета, затем внешний геокодер
		if lat, lon, ok := s.catalog.Centroid(row.Key); ok {
			entry.Lat, entry.Lon, entry.HasCoords = lat, lon, true
		} else if s.geocoder != nil {
			lat, lon, err := s.geocoder.Resolve(ctx, entry.Country)
			if err != nil {
				// Карта деградирует до таблицы без точки, запрос не падает
				s.logger.Warn("centroid resolution failed",
					zap.String("country", entry.Country), zap.Error(err))
			} else {
				entry.Lat, entry.Lon, entry.HasCoords = lat, lon, true
			}
		}
		entries = append(entries, entry)
	}

	s.observe("map", started, sel.Digest(), meta, len(view), false)
	return entries, nil
}

// WarmupDimensions заливает вселенные значений в Redis-множества, чтобы
// внешние consumers (UI-фильтры) могли читать их без похода в сервис.
// SetNX-блокировка: при нескольких инстансах греет только один.
func (s *DashboardService) WarmupDimensions(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}

	ok, err := s.rdb.SetNX(ctx, infra.RedisKeyLockDimWarmup, "processing", 30*time.Second).Result()
	if err != nil || !ok {
		return nil // Либо ошибка сети, либо другой инстанс уже греет
	}

	dims := s.catalog.Dimensions()
	pipe := s.rdb.Pipeline()
	for _, y := range dims.Years {
		pipe.SAdd(ctx, infra.RedisKeyDimYears, y)
	}
	for _, v := range dims.Countries {
		pipe.SAdd(ctx, infra.RedisKeyDimCountries, v)
	}
	for _, v := range dims.AttackTypes {
		pipe.SAdd(ctx, infra.RedisKeyDimAttackType, v)
	}
	for _, v := range dims.Industries {
		pipe.SAdd(ctx, infra.RedisKeyDimIndustries, v)
	}
	for _, v := range dims.Sources {
		pipe.SAdd(ctx, infra.RedisKeyDimSources, v)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	s.logger.Info("dimension sets warmed up",
		zap.Int("countries", len(dims.Countries)),
		zap.Int("years", len(dims.Years)))
	return nil
}

// computeReport — сборка всех агрегатов по уже отфильтрованной выборке.
// На пустой выборке все значения деградируют до нуля/пустоты, среднее — nil.
func (s *DashboardService) computeReport(view []domain.Incident) *domain.DashboardReport {
	summary := domain.Summary{
		TotalIncidents:     analytics.Count(view),
		TotalLossMusd:      analytics.SumField(view, domain.FieldFinancialLoss),
		TotalAffectedUsers: int64(analytics.SumField(view, domain.FieldAffectedUsers)),
		CountriesAffected:  analytics.DistinctCount(view, domain.FieldCountry),
	}
	if avg, ok := analytics.MeanField(view, domain.FieldResolutionHours); ok {
		summary.AvgResolutionHours = &avg
	}

	yearly := analytics.GroupAggregate(view, domain.FieldYear, []analytics.Aggregation{
		{Name: "incidents", Kind: analytics.AggCount},
		{Name: "loss", Kind: analytics.AggSum, Field: domain.FieldFinancialLoss},
		{Name: "users", Kind: analytics.AggSum, Field: domain.FieldAffectedUsers},
	}, "")

	trend := make([]domain.YearPoint, 0, len(yearly))
	for _, row := range yearly {
		trend = append(trend, domain.YearPoint{
			Year:          atoiSafe(row.Key),
			Incidents:     row.Count,
			LossMusd:      row.Values["loss"],
			AffectedUsers: int64(row.Values["users"]),
		})
	}

	return &domain.DashboardReport{
		Summary: summary,
		Breakdowns: map[string][]domain.ValueCount{
			"attack_type":        analytics.ValueCounts(view, domain.FieldAttackType),
			"target_industry":    analytics.ValueCounts(view, domain.FieldTargetIndustry),
			"attack_source":      analytics.ValueCounts(view, domain.FieldAttackSource),
			"vulnerability_type": analytics.ValueCounts(view, domain.FieldVulnerability),
			"defense_mechanism":  analytics.ValueCounts(view, domain.FieldDefenseMechanism),
		},
		YearlyTrend:        trend,
		TopCountriesByLoss: analytics.TopNBy(view, domain.FieldCountry, domain.FieldFinancialLoss, s.topN),
		ResolutionHist:     analytics.Histogram(view, domain.FieldResolutionHours, s.histBins),
	}
}

func (s *DashboardService) cachedReport(ctx context.Context, digest string) *domain.DashboardReport {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.rdb.Get(ctx, infra.ReportCacheKey(digest)).Bytes()
	if err != nil {
		return nil // redis.Nil или сбой — считаем заново
	}
	var report domain.DashboardReport
	if err := json.Unmarshal(raw, &report); err != nil {
		s.logger.Warn("corrupt report cache entry", zap.String("digest", digest), zap.Error(err))
		return nil
	}
	return &report
}

func (s *DashboardService) storeReport(ctx context.Context, digest string, report *domain.DashboardReport) {
	if s.rdb == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, infra.ReportCacheKey(digest), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.String("digest", digest), zap.Error(err))
	}
}

// observe — единая точка телеметрии запроса: метрики + событие аудита.
func (s *DashboardService) observe(endpoint string, started time.Time, digest string, meta QueryMeta, rows int, cacheHit bool) {
	elapsed := time.Since(started)

	if s.metrics != nil {
		s.metrics.QueryDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
		s.metrics.QueriesTotal.WithLabelValues(endpoint).Inc()
		if endpoint == "report" {
			if cacheHit {
				s.metrics.CacheHits.Inc()
			} else {
				s.metrics.CacheMisses.Inc()
			}
		}
	}

	if s.trail != nil {
		s.trail.Record(audit.QueryEvent{
			ID:              uuid.New().String(),
			TraceID:         meta.TraceID,
			UserID:          meta.UserID,
			Endpoint:        endpoint,
			SelectionDigest: digest,
			RowsMatched:     rows,
			CacheHit:        cacheHit,
			DurationMs:      elapsed.Milliseconds(),
		})
		if s.metrics != nil {
			s.metrics.AuditBufferFill.Set(float64(s.trail.Depth()))
		}
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
