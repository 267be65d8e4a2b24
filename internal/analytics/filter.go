package analytics

import (
	"github.com/TharHtet236401/cyber-security/internal/domain"
)

// ApplyFilters возвращает подпоследовательность dataset, проходящую выборку:
// AND между измерениями, OR внутри набора значений измерения.
// Порядок записей сохраняется. Пустой набор в любом измерении дает пустой
// результат — дефолт «все значения» подставляется до вызова, не здесь.
// Функция чистая: вход не мутируется, результат — новый срез.
func ApplyFilters(dataset []domain.Incident, sel domain.Selection) []domain.Incident {
	years := make(map[int]struct{}, len(sel.Years))
	for _, y := range sel.Years {
		years[y] = struct{}{}
	}
	countries := toSet(sel.Countries)
	attackTypes := toSet(sel.AttackTypes)
	industries := toSet(sel.Industries)
	sources := toSet(sel.Sources)

	// Один проход, проверяем все пять измерений на каждой записи
	out := make([]domain.Incident, 0, len(dataset))
	for _, rec := range dataset {
		if _, ok := years[rec.Year]; !ok {
			continue
		}
		if _, ok := countries[rec.Country]; !ok {
			continue
		}
		if _, ok := attackTypes[rec.AttackType]; !ok {
			continue
		}
		if _, ok := industries[rec.TargetIndustry]; !ok {
			continue
		}
		if _, ok := sources[rec.AttackSource]; !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
