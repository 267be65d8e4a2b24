package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: полный цикл фильтрация + агрегация на запрос
	QueryDuration *prometheus.HistogramVec

	// Traffic: обработанные запросы к аналитике
	QueriesTotal *prometheus.CounterVec

	// Эффективность кэша отчетов
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	// Размер загруженного датасета (ставится один раз на старте)
	DatasetRows prometheus.Gauge

	// Заполненность буфера аудита (backpressure)
	AuditBufferFill prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern — без реестра метрики пишутся в «никуда»
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		QueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cyberlens_query_duration_seconds",
			Help:    "Histogram of filter-and-aggregate cycle latencies.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"endpoint"}),

		QueriesTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "cyberlens_queries_total",
			Help: "Total number of analytics queries served.",
		}, []string{"endpoint"}),

		CacheHits: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cyberlens_report_cache_hits_total",
			Help: "Dashboard reports served from the Redis cache.",
		}),

		CacheMisses: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "cyberlens_report_cache_misses_total",
			Help: "Dashboard reports recomputed from the dataset.",
		}),

		DatasetRows: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "cyberlens_dataset_rows",
			Help: "Number of incident records loaded at startup.",
		}),

		AuditBufferFill: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "cyberlens_audit_buffer_utilization",
			Help: "Current number of events in the query audit buffer.",
		}),
	}
}
