package analytics

import (
	"sort"
	"strconv"

	"github.com/TharHtet236401/cyber-security/internal/domain"
)

// Семейство чистых редьюсеров над отфильтрованной выборкой.
// Все функции тотальны: на пустой выборке возвращают ноль/пустой результат,
// единственный «нет данных»-случай — MeanField, он отдает ok=false.

type AggKind string

const (
	AggCount AggKind = "count"
	AggSum   AggKind = "sum"
	AggMean  AggKind = "mean"
)

// Aggregation — одна именованная агрегация для GroupAggregate.
// Field игнорируется для AggCount.
type Aggregation struct {
	Name  string
	Kind  AggKind
	Field domain.Field
}

// GroupRow — результат по одной группе: ключ и значения всех агрегаций.
type GroupRow struct {
	Key    string
	Count  int
	Values map[string]float64
}

// Count возвращает число записей в выборке.
func Count(view []domain.Incident) int {
	return len(view)
}

// SumField суммирует числовое поле. 0 на пустой выборке.
func SumField(view []domain.Incident, f domain.Field) float64 {
	var total float64
	for _, rec := range view {
		v, _ := rec.Numeric(f)
		total += v
	}
	return total
}

// MeanField считает среднее арифметическое. На пустой выборке ok=false —
// это сентинел «нет данных», деления на ноль здесь не бывает.
func MeanField(view []domain.Incident, f domain.Field) (float64, bool) {
	if len(view) == 0 {
		return 0, false
	}
	return SumField(view, f) / float64(len(view)), true
}

// DistinctCount возвращает число уникальных значений категориального поля.
func DistinctCount(view []domain.Incident, f domain.Field) int {
	seen := make(map[string]struct{})
	for _, rec := range view {
		v, _ := rec.Categorical(f)
		seen[v] = struct{}{}
	}
	return len(seen)
}

// ValueCounts строит частотную таблицу категориального поля:
// по убыванию счетчика, при равенстве — в порядке первого вхождения.
func ValueCounts(view []domain.Incident, f domain.Field) []domain.ValueCount {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, rec := range view {
		v, _ := rec.Categorical(f)
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]domain.ValueCount, 0, len(order))
	for _, v := range order {
		out = append(out, domain.ValueCount{Value: v, Count: counts[v]})
	}
	// Stable сохраняет порядок первого вхождения при равных счетчиках
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// GroupAggregate группирует выборку по полю и считает именованные агрегации.
// orderBy == "" — сортировка по ключу группы по возрастанию (числовые ключи,
// например год, сравниваются как числа); иначе — по возрастанию значения
// одноименной агрегации. Пустая выборка дает пустой результат.
func GroupAggregate(view []domain.Incident, groupField domain.Field, aggs []Aggregation, orderBy string) []GroupRow {
	grouped := make(map[string][]domain.Incident)
	order := make([]string, 0)
	for _, rec := range view {
		key, _ := rec.Categorical(groupField)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	rows := make([]GroupRow, 0, len(order))
	for _, key := range order {
		members := grouped[key]
		row := GroupRow{Key: key, Count: len(members), Values: make(map[string]float64, len(aggs))}
		for _, agg := range aggs {
			switch agg.Kind {
			case AggCount:
				row.Values[agg.Name] = float64(len(members))
			case AggSum:
				row.Values[agg.Name] = SumField(members, agg.Field)
			case AggMean:
				// Группы непустые по построению, сентинел не нужен
				m, _ := MeanField(members, agg.Field)
				row.Values[agg.Name] = m
			}
		}
		rows = append(rows, row)
	}

	if orderBy == "" {
		sort.SliceStable(rows, func(i, j int) bool { return keyLess(rows[i].Key, rows[j].Key) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Values[orderBy] < rows[j].Values[orderBy] })
	}
	return rows
}

// TopNBy группирует, суммирует метрику и возвращает n крупнейших групп,
// отсортированных по возрастанию суммы (как рисуется горизонтальный рейтинг).
func TopNBy(view []domain.Incident, groupField, metric domain.Field, n int) []domain.RankedEntry {
	rows := GroupAggregate(view, groupField, []Aggregation{{Name: "total", Kind: AggSum, Field: metric}}, "total")
	if n > 0 && len(rows) > n {
		rows = rows[len(rows)-n:]
	}
	out := make([]domain.RankedEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.RankedEntry{Key: row.Key, Total: row.Values["total"]})
	}
	return out
}

// Histogram раскладывает числовое поле по bins корзинам равной ширины.
// Пустая выборка — пустой результат; если все значения равны, одна корзина.
func Histogram(view []domain.Incident, f domain.Field, bins int) []domain.HistogramBin {
	if len(view) == 0 || bins <= 0 {
		return nil
	}

	min, _ := view[0].Numeric(f)
	max := min
	for _, rec := range view[1:] {
		v, _ := rec.Numeric(f)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return []domain.HistogramBin{{From: min, To: max, Count: len(view)}}
	}

	width := (max - min) / float64(bins)
	out := make([]domain.HistogramBin, bins)
	for i := range out {
		out[i] = domain.HistogramBin{From: min + float64(i)*width, To: min + float64(i+1)*width}
	}
	for _, rec := range view {
		v, _ := rec.Numeric(f)
		idx := int((v - min) / width)
		if idx >= bins { // максимум попадает в последнюю корзину
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

func keyLess(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
