package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/TharHtet236401/cyber-security/internal/domain"
)

// Маппинг человекочитаемых CSV-заголовков в семантические поля.
// Заголовки фиксированы исходным датасетом, сравнение без учета регистра.
const (
	colCountry    = "country"
	colYear       = "year"
	colAttackType = "attack type"
	colIndustry   = "target industry"
	colLoss       = "financial loss (in million $)"
	colUsers      = "number of affected users"
	colSource     = "attack source"
	colVuln       = "security vulnerability type"
	colDefense    = "defense mechanism used"
	colResolution = "incident resolution time (in hours)"

	// Только в geo-варианте датасета
	colLat = "latitude"
	colLon = "longitude"
)

var requiredColumns = []string{
	colCountry, colYear, colAttackType, colIndustry, colLoss,
	colUsers, colSource, colVuln, colDefense, colResolution,
}

// SchemaError — фатальная ошибка схемы: обязательная колонка отсутствует
// или значение не парсится. Сервис с такой ошибкой не стартует.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return "dataset: schema fault: " + e.Detail
}

// LoadCSV читает датасет инцидентов из файла и возвращает готовый каталог.
// Загрузка выполняется один раз на старте процесса; дальше данные неизменяемы.
func LoadCSV(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	records, hasGeo, err := parseCSV(f)
	if err != nil {
		return nil, err
	}
	return NewCatalog(records, hasGeo), nil
}

func parseCSV(r io.Reader) ([]domain.Incident, bool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // длину строк проверяем сами, по индексам

	header, err := reader.Read()
	if err != nil {
		return nil, false, &SchemaError{Detail: fmt.Sprintf("cannot read header: %v", err)}
	}

	// 1. Индексируем заголовок
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}

	// 2. Проверяем обязательные колонки — отсутствие любой фатально
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, false, &SchemaError{Detail: "missing required columns: " + strings.Join(missing, ", ")}
	}

	// Geo-вариант: обе колонки либо есть, либо координат нет вовсе
	_, hasLat := idx[colLat]
	_, hasLon := idx[colLon]
	hasGeo := hasLat && hasLon

	// 3. Читаем строки
	var records []domain.Incident
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, false, &SchemaError{Detail: fmt.Sprintf("line %d: %v", line, err)}
		}

		rec, err := parseRow(row, idx, hasGeo)
		if err != nil {
			return nil, false, &SchemaError{Detail: fmt.Sprintf("line %d: %v", line, err)}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, false, &SchemaError{Detail: "dataset contains no rows"}
	}
	return records, hasGeo, nil
}

func parseRow(row []string, idx map[string]int, hasGeo bool) (domain.Incident, error) {
	cell := func(col string) (string, error) {
		i := idx[col]
		if i >= len(row) {
			return "", fmt.Errorf("row too short, no value for %q", col)
		}
		return strings.TrimSpace(row[i]), nil
	}

	var rec domain.Incident
	var err error

	if rec.Country, err = cell(colCountry); err != nil {
		return rec, err
	}
	if rec.AttackType, err = cell(colAttackType); err != nil {
		return rec, err
	}
	if rec.TargetIndustry, err = cell(colIndustry); err != nil {
		return rec, err
	}
	if rec.AttackSource, err = cell(colSource); err != nil {
		return rec, err
	}
	if rec.VulnerabilityType, err = cell(colVuln); err != nil {
		return rec, err
	}
	if rec.DefenseMechanism, err = cell(colDefense); err != nil {
		return rec, err
	}

	rec.Year, err = intCell(cell, colYear)
	if err != nil {
		return rec, err
	}
	rec.FinancialLossM, err = floatCell(cell, colLoss)
	if err != nil {
		return rec, err
	}
	users, err := intCell(cell, colUsers)
	if err != nil {
		return rec, err
	}
	rec.AffectedUsers = int64(users)
	rec.ResolutionHours, err = floatCell(cell, colResolution)
	if err != nil {
		return rec, err
	}

	if hasGeo {
		rec.Lat, err = floatCell(cell, colLat)
		if err != nil {
			return rec, err
		}
		rec.Lon, err = floatCell(cell, colLon)
		if err != nil {
			return rec, err
		}
		rec.HasGeo = true
	}
	return rec, nil
}

func intCell(cell func(string) (string, error), col string) (int, error) {
	s, err := cell(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %q: %q is not an integer", col, s)
	}
	return v, nil
}

func floatCell(cell func(string) (string, error), col string) (float64, error) {
	s, err := cell(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %q is not a number", col, s)
	}
	return v, nil
}
