package chart

import (
	"math"
	"strconv"
	"sync"
)

// Геометрия сцены: максимум покадрового значения растягивается
// до barExtent единиц, линия нормируется в куб lineExtent.
const (
	barExtent  = 8.0
	lineExtent = 10.0
	pieRadius  = 5.0
	barWidth   = 0.6
	barDepth   = 0.6
	barGap     = 0.2
)

// Vec3 - координата или размер в единицах сцены
type Vec3 [3]float64

// Object - примитив сцены для клиентского рендера
type Object struct {
	Kind      string  `json:"kind"` // bar | sphere | line | slice | label
	Position  Vec3    `json:"position"`
	Size      Vec3    `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Text      string  `json:"text,omitempty"`
	Points    []Vec3  `json:"points,omitempty"`
	RotationY float64 `json:"rotationY,omitempty"`
}

// Scene - хендл построенной сцены. Построение и освобождение идут
// явной парой BuildScene/Close; Close идемпотентен и должен
// вызываться на каждом пути выхода.
type Scene struct {
	Family  Family   `json:"family"`
	Objects []Object `json:"objects"`

	mu     sync.Mutex
	closed bool
}

// Close освобождает объекты сцены. Повторный вызов безопасен.
func (s *Scene) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.Objects = nil
}

// Closed сообщает, был ли хендл освобожден
func (s *Scene) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// BuildScene - чистая функция (строки, выбор) -> сцена.
// Ошибки ErrNoRenderableRows и ErrZeroTotal означают отказ от
// рендера, а не пустую сцену.
func BuildScene(rows []Row, sel Selection) (*Scene, error) {
	if err := sel.Validate(rows); err != nil {
		return nil, err
	}

	scene := &Scene{Family: sel.Family}

	switch sel.Family {
	case Bar3D:
		buildBars(scene, rows, sel)
	case Line3D:
		if err := buildLine(scene, rows, sel); err != nil {
			return nil, err
		}
	case Scatter3D:
		buildScatter(scene, rows, sel)
	case Pie3D:
		if err := buildPie(scene, rows, sel); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFamily
	}

	return scene, nil
}

// axisMax возвращает максимум разобранных значений колонки.
// Пустая выборка и нулевой максимум дают 1, чтобы не делить на ноль.
func axisMax(rows []Row, axis string) float64 {
	max := math.Inf(-1)
	found := false
	for _, row := range rows {
		if v, ok := toNumber(row[axis]); ok {
			found = true
			if v > max {
				max = v
			}
		}
	}
	if !found || max == 0 {
		return 1
	}
	return max
}

func buildBars(scene *Scene, rows []Row, sel Selection) {
	var categories []string
	seen := map[string]int{}
	for _, row := range rows {
		key := toLabel(row[sel.X])
		if _, ok := seen[key]; !ok {
			seen[key] = len(categories)
			categories = append(categories, key)
		}
	}

	scaleY := barExtent / axisMax(rows, sel.Y)
	scaleZ := barExtent / axisMax(rows, sel.Z)

	for _, row := range rows {
		xIndex := seen[toLabel(row[sel.X])]

		y, okY := toNumber(row[sel.Y])
		z, okZ := toNumber(row[sel.Z])
		if !okY || !okZ {
			continue
		}

		height := y * scaleY
		depth := z * scaleZ
		x := float64(xIndex) * (barWidth + barGap)

		scene.Objects = append(scene.Objects,
			Object{
				Kind:     "bar",
				Position: Vec3{x, height / 2, depth},
				Size:     Vec3{barWidth, height, barDepth},
				Color:    hueColor(xIndex, len(categories)),
			},
			Object{
				Kind:     "label",
				Position: Vec3{x, height + 0.4, depth},
				Text:     strconv.FormatFloat(y, 'f', -1, 64),
			},
		)
	}
}

func buildLine(scene *Scene, rows []Row, sel Selection) error {
	type p3 struct{ x, y, z float64 }
	var points []p3

	for _, row := range rows {
		x, okX := toNumber(row[sel.X])
		y, okY := toNumber(row[sel.Y])
		z, okZ := toNumber(row[sel.Z])
		if !okX || !okY || !okZ {
			continue
		}
		points = append(points, p3{x, y, z})
	}
	if len(points) == 0 {
		return ErrNoRenderableRows
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	minZ, maxZ := points[0].z, points[0].z
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
		minZ, maxZ = math.Min(minZ, p.z), math.Max(maxZ, p.z)
	}

	// Нулевой разброс по оси схлопывается в ноль, а не в NaN
	span := func(min, max float64) float64 {
		if max == min {
			return 1
		}
		return max - min
	}

	scaled := make([]Vec3, len(points))
	for i, p := range points {
		scaled[i] = Vec3{
			(p.x - minX) / span(minX, maxX) * lineExtent,
			(p.y - minY) / span(minY, maxY) * lineExtent,
			(p.z - minZ) / span(minZ, maxZ) * lineExtent,
		}
	}

	for i, v := range scaled {
		scene.Objects = append(scene.Objects,
			Object{Kind: "sphere", Position: v, Color: "orange"},
			Object{
				Kind:     "label",
				Position: Vec3{v[0], v[1] + 0.4, v[2]},
				Text:     strconv.FormatFloat(points[i].y, 'f', -1, 64),
			},
		)
	}
	scene.Objects = append(scene.Objects, Object{
		Kind:   "line",
		Color:  "orange",
		Points: scaled,
	})

	return nil
}

func buildScatter(scene *Scene, rows []Row, sel Selection) {
	for _, row := range rows {
		x, okX := toNumber(row[sel.X])
		y, okY := toNumber(row[sel.Y])
		z, okZ := toNumber(row[sel.Z])
		if !okX || !okY || !okZ {
			continue
		}

		scene.Objects = append(scene.Objects,
			Object{Kind: "sphere", Position: Vec3{x, y, z}, Color: "purple"},
			Object{
				Kind:     "label",
				Position: Vec3{x, y + 0.4, z},
				Text:     strconv.FormatFloat(y, 'f', -1, 64),
			},
		)
	}
}

func buildPie(scene *Scene, rows []Row, sel Selection) error {
	sums := map[string]float64{}
	var order []string

	for _, row := range rows {
		key := toLabel(row[sel.X])
		if _, seen := sums[key]; !seen {
			order = append(order, key)
			sums[key] = 0
		}
		if sel.Y == "" {
			// Без оси значения каждая строка весит единицу
			sums[key]++
			continue
		}
		if v, ok := toNumber(row[sel.Y]); ok {
			sums[key] += v
		}
	}

	total := 0.0
	for _, key := range order {
		total += sums[key]
	}
	if total == 0 {
		return ErrZeroTotal
	}

	startAngle := 0.0
	for i, key := range order {
		value := sums[key]
		portion := value / total * 2 * math.Pi
		mid := startAngle + portion/2

		cx := math.Cos(mid) * pieRadius
		cz := math.Sin(mid) * pieRadius

		scene.Objects = append(scene.Objects,
			Object{
				Kind:      "slice",
				Position:  Vec3{cx, value, cz},
				Size:      Vec3{2, value * 2, 2},
				Color:     hueColor(i, len(order)),
				RotationY: -mid,
			},
			Object{
				Kind:     "label",
				Position: Vec3{cx, 0.3, cz},
				Text:     key,
			},
			Object{
				Kind:     "label",
				Position: Vec3{cx, value*2 + 0.4, cz},
				Text:     strconv.FormatFloat(value, 'f', 2, 64),
			},
		)

		startAngle += portion
	}

	return nil
}
