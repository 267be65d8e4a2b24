package infra

import "fmt"

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "cyberlens"
)

// Ключи для Sets (вселенные значений измерений, для внешних consumers UI)
const (
	RedisKeyDimYears      = RedisNamespace + ":dims:years"
	RedisKeyDimCountries  = RedisNamespace + ":dims:countries"
	RedisKeyDimAttackType = RedisNamespace + ":dims:attack_types"
	RedisKeyDimIndustries = RedisNamespace + ":dims:industries"
	RedisKeyDimSources    = RedisNamespace + ":dims:sources"

	RedisKeyLockDimWarmup = RedisNamespace + ":lock:warmup:dims"
)

// Кэши
const (
	// RedisKeyReportCache — префикс кэша отчетов, ключ дополняется digest выборки
	RedisKeyReportCache = RedisNamespace + ":cache:report:"

	// RedisKeyGeoCache — хэш country → "lat,lon" от внешнего геокодера
	RedisKeyGeoCache = RedisNamespace + ":cache:geo"
)

// ReportCacheKey строит ключ кэша отчета по digest выборки.
func ReportCacheKey(digest string) string {
	return fmt.Sprintf("%s%s", RedisKeyReportCache, digest)
}
