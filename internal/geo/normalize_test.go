package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCountry(t *testing.T) {
	assert.Equal(t, "United Kingdom", NormalizeCountry("UK"))
	assert.Equal(t, "United States", NormalizeCountry("USA"))
	assert.Equal(t, "United Arab Emirates", NormalizeCountry("UAE"))

	// Неизвестные имена проходят без изменений
	assert.Equal(t, "Germany", NormalizeCountry("Germany"))
	assert.Equal(t, "", NormalizeCountry(""))
}
