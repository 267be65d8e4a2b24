package dataset

import (
	"sort"

	"github.com/TharHtet236401/cyber-security/internal/domain"
)

// Catalog — неизменяемый хэндл датасета на время жизни процесса.
// Создается один раз на старте и передается по ссылке во все вызовы
// фильтрации/агрегации. Никакой повторной инициализации и скрытого
// глобального состояния: владеет каталогом main.
type Catalog struct {
	records []domain.Incident
	dims    domain.Dimensions
	hasGeo  bool

	// Центроиды стран из geo-варианта (среднее по записям страны)
	centroids map[string][2]float64
}

// NewCatalog строит каталог: фиксирует записи и один раз вычисляет
// отсортированные вселенные значений по каждому измерению.
func NewCatalog(records []domain.Incident, hasGeo bool) *Catalog {
	c := &Catalog{
		records: records,
		hasGeo:  hasGeo,
	}

	years := make(map[int]struct{})
	countries := make(map[string]struct{})
	attackTypes := make(map[string]struct{})
	industries := make(map[string]struct{})
	sources := make(map[string]struct{})

	for _, rec := range records {
		years[rec.Year] = struct{}{}
		countries[rec.Country] = struct{}{}
		attackTypes[rec.AttackType] = struct{}{}
		industries[rec.TargetIndustry] = struct{}{}
		sources[rec.AttackSource] = struct{}{}
	}

	c.dims = domain.Dimensions{
		Years:       sortedInts(years),
		Countries:   sortedStrings(countries),
		AttackTypes: sortedStrings(attackTypes),
		Industries:  sortedStrings(industries),
		Sources:     sortedStrings(sources),
	}

	if hasGeo {
		c.centroids = buildCentroids(records)
	}
	return c
}

// Records возвращает полный датасет. Срез общий для всех вызовов —
// читать можно, мутировать нельзя.
func (c *Catalog) Records() []domain.Incident {
	return c.records
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Dimensions — вселенные наблюдаемых значений, отсортированные по возрастанию.
func (c *Catalog) Dimensions() domain.Dimensions {
	return c.dims
}

func (c *Catalog) HasGeo() bool {
	return c.hasGeo
}

// Centroid возвращает координаты страны из geo-варианта датасета.
func (c *Catalog) Centroid(country string) (lat, lon float64, ok bool) {
	pt, ok := c.centroids[country]
	return pt[0], pt[1], ok
}

// FullSelection — выборка «все наблюдаемые значения» по каждому измерению.
// Это дефолт для запросов, не указавших фильтр по измерению.
func (c *Catalog) FullSelection() domain.Selection {
	return domain.Selection{
		Years:       append([]int(nil), c.dims.Years...),
		Countries:   append([]string(nil), c.dims.Countries...),
		AttackTypes: append([]string(nil), c.dims.AttackTypes...),
		Industries:  append([]string(nil), c.dims.Industries...),
		Sources:     append([]string(nil), c.dims.Sources...),
	}
}

func buildCentroids(records []domain.Incident) map[string][2]float64 {
	type acc struct {
		lat, lon float64
		n        int
	}
	sums := make(map[string]*acc)
	for _, rec := range records {
		if !rec.HasGeo {
			continue
		}
		a, ok := sums[rec.Country]
		if !ok {
			a = &acc{}
			sums[rec.Country] = a
		}
		a.lat += rec.Lat
		a.lon += rec.Lon
		a.n++
	}

	out := make(map[string][2]float64, len(sums))
	for country, a := range sums {
		out[country] = [2]float64{a.lat / float64(a.n), a.lon / float64(a.n)}
	}
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
