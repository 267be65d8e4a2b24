package geo

// Статическая таблица приведения имен стран из датасета к конвенции
// геокодера. Все, чего нет в таблице, проходит как есть.
var countryAliases = map[string]string{
	"UK":  "United Kingdom",
	"USA": "United States",
	"UAE": "United Arab Emirates",
}

// NormalizeCountry возвращает имя страны в конвенции геокодера.
func NormalizeCountry(name string) string {
	if normalized, ok := countryAliases[name]; ok {
		return normalized
	}
	return name
}
