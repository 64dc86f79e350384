package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Family - тип графика: {bar,line,pie,scatter} x {2D,3D}
type Family string

const (
	Bar2D     Family = "bar2d"
	Line2D    Family = "line2d"
	Pie2D     Family = "pie2d"
	Scatter2D Family = "scatter2d"
	Bar3D     Family = "bar3d"
	Line3D    Family = "line3d"
	Pie3D     Family = "pie3d"
	Scatter3D Family = "scatter3d"
)

var (
	ErrUnknownFamily     = errors.New("unknown chart family")
	ErrAxisNotBound      = errors.New("required axis is not bound")
	ErrColumnNotFound    = errors.New("axis references a column that is not present in the data")
	ErrNoRenderableRows  = errors.New("no rows with numeric values on the bound axes")
	ErrZeroTotal         = errors.New("total value for pie chart is zero, cannot render")
)

// Row - строка-запись из preview загрузки
type Row = map[string]interface{}

// Selection - выбор графика: семейство и привязки осей к колонкам.
// Не персистится, живет один запрос.
type Selection struct {
	Family Family
	X      string
	Y      string
	Z      string
}

// ParseFamily разбирает строковое значение семейства
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(s)); f {
	case Bar2D, Line2D, Pie2D, Scatter2D, Bar3D, Line3D, Pie3D, Scatter3D:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
	}
}

// Is3D сообщает, требует ли семейство построения сцены
func (f Family) Is3D() bool {
	switch f {
	case Bar3D, Line3D, Pie3D, Scatter3D:
		return true
	}
	return false
}

// requiredAxes возвращает обязательные привязки для семейства.
// pie3d обходится одной категорией, ось значения опциональна.
func (s Selection) requiredAxes() []string {
	switch s.Family {
	case Pie3D:
		return []string{s.X}
	case Bar3D, Line3D, Scatter3D:
		return []string{s.X, s.Y, s.Z}
	default:
		return []string{s.X, s.Y}
	}
}

// Validate проверяет, что все обязательные оси привязаны и что каждая
// привязанная ось ссылается на существующую колонку. Непривязанные
// обязательные оси подавляют рендер.
func (s Selection) Validate(rows []Row) error {
	if _, err := ParseFamily(string(s.Family)); err != nil {
		return err
	}

	for _, axis := range s.requiredAxes() {
		if axis == "" {
			return ErrAxisNotBound
		}
	}

	columns := map[string]bool{}
	for _, row := range rows {
		for col := range row {
			columns[col] = true
		}
	}

	for _, axis := range []string{s.X, s.Y, s.Z} {
		if axis != "" && !columns[axis] {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, axis)
		}
	}
	return nil
}

// ============================================
// Вспомогательные преобразования значений
// ============================================

// toNumber приводит значение ячейки к числу.
// false - если значение отсутствует или не разбирается как конечное число.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toLabel приводит значение ячейки к строковой метке.
// Числа форматируются без хвостовых нулей: 5.0 -> "5".
func toLabel(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

// hueColor раздает детерминированные цвета: i-я из n категорий
// получает оттенок 360*i/n. Повторный вызов на тех же данных
// воспроизводит палитру байт в байт.
func hueColor(i, n int) string {
	hue := float64(i) * 360 / float64(n)
	return fmt.Sprintf("hsl(%s, 70%%, 50%%)", strconv.FormatFloat(hue, 'f', -1, 64))
}
