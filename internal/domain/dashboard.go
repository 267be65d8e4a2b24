package domain

// Summary — KPI-карточки дашборда. AvgResolutionHours == nil означает
// «нет данных» (пустая выборка) — фронтенд рисует прочерк, а не NaN.
type Summary struct {
	TotalIncidents     int      `json:"total_incidents"`
	TotalLossMusd      float64  `json:"total_loss_musd"`
	TotalAffectedUsers int64    `json:"total_affected_users"`
	AvgResolutionHours *float64 `json:"avg_resolution_hours"`
	CountriesAffected  int      `json:"countries_affected"`
}

// ValueCount — одна строка частотной таблицы категориального поля.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearPoint — агрегаты одного года для линии тренда.
type YearPoint struct {
	Year          int     `json:"year"`
	Incidents     int     `json:"incidents"`
	LossMusd      float64 `json:"loss_musd"`
	AffectedUsers int64   `json:"affected_users"`
}

// RankedEntry — позиция горизонтального рейтинга (страна → суммарная метрика).
type RankedEntry struct {
	Key   string  `json:"key"`
	Total float64 `json:"total"`
}

// HistogramBin — корзина гистограммы времени устранения.
type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// DashboardReport — полный набор агрегатов по текущей выборке.
// Это выходная граница ядра: чистые данные для любого чарт-рендера.
type DashboardReport struct {
	Summary            Summary                 `json:"summary"`
	Breakdowns         map[string][]ValueCount `json:"breakdowns"`
	YearlyTrend        []YearPoint             `json:"yearly_trend"`
	TopCountriesByLoss []RankedEntry           `json:"top_countries_by_loss"`
	ResolutionHist     []HistogramBin          `json:"resolution_histogram"`
}

// CountryMapEntry — строка choropleth-слоя: нормализованное имя страны,
// агрегаты и центроид (если известен).
type CountryMapEntry struct {
	Country   string  `json:"country"`
	Incidents int     `json:"incidents"`
	LossMusd  float64 `json:"loss_musd"`
	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	HasCoords bool    `json:"has_coords"`
}

// Dimensions — вселенные значений по каждому измерению (для построения
// фильтров в UI). Отсортированы по возрастанию, как в каталоге.
type Dimensions struct {
	Years       []int    `json:"years"`
	Countries   []string `json:"countries"`
	AttackTypes []string `json:"attack_types"`
	Industries  []string `json:"industries"`
	Sources     []string `json:"sources"`
}
