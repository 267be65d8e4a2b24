package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Selection — набор допустимых значений по каждому из пяти измерений.
// Семантика строгая: пустой срез в любом измерении означает пустой результат,
// дефолт «все наблюдаемые значения» подставляет транспортный слой из каталога.
type Selection struct {
	Years       []int    `json:"years"`
	Countries   []string `json:"countries"`
	AttackTypes []string `json:"attack_types"`
	Industries  []string `json:"industries"`
	Sources     []string `json:"sources"`
}

// SelectionRequest — выборка, как ее присылает клиент. Отсутствующее
// измерение (nil) означает «все наблюдаемые значения», а присланный пустой
// массив — осознанно пустой набор: различие принципиально для семантики
// фильтра, поэтому поля — указатели.
type SelectionRequest struct {
	Years       *[]int    `json:"years"`
	Countries   *[]string `json:"countries"`
	AttackTypes *[]string `json:"attack_types"`
	Industries  *[]string `json:"industries"`
	Sources     *[]string `json:"sources"`
}

// Digest — детерминированный ключ выборки для кэширования отчетов.
// Значения сортируются, поэтому порядок в запросе не влияет на ключ.
func (s Selection) Digest() string {
	years := make([]int, len(s.Years))
	copy(years, s.Years)
	sort.Ints(years)

	var b strings.Builder
	b.WriteString("y:")
	for _, y := range years {
		b.WriteString(strconv.Itoa(y))
		b.WriteByte(',')
	}
	writeDim(&b, "c", s.Countries)
	writeDim(&b, "a", s.AttackTypes)
	writeDim(&b, "i", s.Industries)
	writeDim(&b, "s", s.Sources)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func writeDim(b *strings.Builder, tag string, values []string) {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)

	b.WriteByte(';')
	b.WriteString(tag)
	b.WriteByte(':')
	for _, v := range sorted {
		b.WriteString(v)
		b.WriteByte(',')
	}
}
