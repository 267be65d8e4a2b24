package domain

import "strconv"

// Incident — одна строка датасета: одно кибер-событие со всеми атрибутами.
// Датасет неизменяемый, поэтому записи передаются по значению.
type Incident struct {
	Year              int     `json:"year"`
	Country           string  `json:"country"`
	AttackType        string  `json:"attack_type"`
	TargetIndustry    string  `json:"target_industry"`
	AttackSource      string  `json:"attack_source"`
	VulnerabilityType string  `json:"vulnerability_type"`
	DefenseMechanism  string  `json:"defense_mechanism"`
	FinancialLossM    float64 `json:"financial_loss_musd"`
	AffectedUsers     int64   `json:"affected_users"`
	ResolutionHours   float64 `json:"resolution_time_hours"`

	// Geo-вариант датасета. HasGeo=false, если колонок Latitude/Longitude нет.
	Lat    float64 `json:"lat,omitempty"`
	Lon    float64 `json:"lon,omitempty"`
	HasGeo bool    `json:"-"`
}

// Field — семантическое имя поля записи. Маппинг из CSV-заголовков
// делает загрузчик, ядро работает только с этими именами.
type Field string

const (
	FieldYear             Field = "year"
	FieldCountry          Field = "country"
	FieldAttackType       Field = "attack_type"
	FieldTargetIndustry   Field = "target_industry"
	FieldAttackSource     Field = "attack_source"
	FieldVulnerability    Field = "vulnerability_type"
	FieldDefenseMechanism Field = "defense_mechanism"
	FieldFinancialLoss    Field = "financial_loss_musd"
	FieldAffectedUsers    Field = "affected_users"
	FieldResolutionHours  Field = "resolution_time_hours"
)

// Numeric возвращает значение числового поля. Второй результат false,
// если поле не числовое — это программная ошибка вызывающего кода.
func (r Incident) Numeric(f Field) (float64, bool) {
	switch f {
	case FieldYear:
		return float64(r.Year), true
	case FieldFinancialLoss:
		return r.FinancialLossM, true
	case FieldAffectedUsers:
		return float64(r.AffectedUsers), true
	case FieldResolutionHours:
		return r.ResolutionHours, true
	}
	return 0, false
}

// Categorical возвращает значение категориального поля.
// Год отдается строкой, чтобы его можно было использовать как ключ группировки.
func (r Incident) Categorical(f Field) (string, bool) {
	switch f {
	case FieldYear:
		return strconv.Itoa(r.Year), true
	case FieldCountry:
		return r.Country, true
	case FieldAttackType:
		return r.AttackType, true
	case FieldTargetIndustry:
		return r.TargetIndustry, true
	case FieldAttackSource:
		return r.AttackSource, true
	case FieldVulnerability:
		return r.VulnerabilityType, true
	case FieldDefenseMechanism:
		return r.DefenseMechanism, true
	}
	return "", false
}
