package chart

// Data2D - готовый для 2D-библиотеки датасет
type Data2D struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset повторяет форму датасета chart.js.
// Data: []float64 для bar/line/pie, []Point для scatter.
// BackgroundColor: строка либо срез строк (по цвету на группу у pie).
type Dataset struct {
	Label           string      `json:"label"`
	Data            interface{} `json:"data"`
	BackgroundColor interface{} `json:"backgroundColor,omitempty"`
	BorderColor     string      `json:"borderColor,omitempty"`
	BorderWidth     int         `json:"borderWidth,omitempty"`
	Fill            bool        `json:"fill"`
	PointRadius     int         `json:"pointRadius,omitempty"`
	ShowLine        bool        `json:"showLine,omitempty"`
}

// Point - одна точка scatter-графика
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Map2D - чистая функция (строки, выбор) -> датасет.
// Правила по семействам:
//   - bar/line: метка на строку в порядке строк, нечисловой Y дает ноль;
//   - pie: группировка по X c суммированием числовых Y, порядок групп -
//     порядок первого появления, цвет на группу;
//   - scatter: точка на строку, строки с неразбираемым X или Y молча
//     отбрасываются (единственное семейство, где брак сокращает выборку,
//     а не зануляется).
func Map2D(rows []Row, sel Selection) (*Data2D, error) {
	if err := sel.Validate(rows); err != nil {
		return nil, err
	}

	switch sel.Family {
	case Pie2D:
		return mapPie2D(rows, sel), nil
	case Scatter2D:
		return mapScatter2D(rows, sel), nil
	case Bar2D, Line2D:
		return mapBarLine2D(rows, sel), nil
	default:
		return nil, ErrUnknownFamily
	}
}

func mapBarLine2D(rows []Row, sel Selection) *Data2D {
	labels := make([]string, 0, len(rows))
	values := make([]float64, 0, len(rows))

	for _, row := range rows {
		labels = append(labels, toLabel(row[sel.X]))
		if v, ok := toNumber(row[sel.Y]); ok {
			values = append(values, v)
		} else {
			values = append(values, 0)
		}
	}

	ds := Dataset{
		Label: sel.Y,
		Data:  values,
	}
	if sel.Family == Bar2D {
		ds.BackgroundColor = "rgba(75, 192, 192, 0.6)"
		ds.BorderWidth = 2
	} else {
		ds.BackgroundColor = "transparent"
		ds.BorderColor = "rgba(75, 192, 192, 1)"
		ds.BorderWidth = 2
		ds.Fill = true
		ds.PointRadius = 3
		ds.ShowLine = true
	}

	return &Data2D{Labels: labels, Datasets: []Dataset{ds}}
}

func mapPie2D(rows []Row, sel Selection) *Data2D {
	sums := map[string]float64{}
	var order []string

	for _, row := range rows {
		key := toLabel(row[sel.X])
		if _, seen := sums[key]; !seen {
			order = append(order, key)
			sums[key] = 0
		}
		// Нечисловое значение вносит ноль, но группу не теряет
		if v, ok := toNumber(row[sel.Y]); ok {
			sums[key] += v
		}
	}

	values := make([]float64, len(order))
	colors := make([]string, len(order))
	for i, key := range order {
		values[i] = sums[key]
		colors[i] = hueColor(i, len(order))
	}

	return &Data2D{
		Labels: order,
		Datasets: []Dataset{{
			Label:           sel.Y,
			Data:            values,
			BackgroundColor: colors,
			BorderWidth:     1,
		}},
	}
}

func mapScatter2D(rows []Row, sel Selection) *Data2D {
	points := make([]Point, 0, len(rows))

	for _, row := range rows {
		x, okX := toNumber(row[sel.X])
		y, okY := toNumber(row[sel.Y])
		if !okX || !okY {
			continue
		}
		points = append(points, Point{X: x, Y: y})
	}

	return &Data2D{
		Labels: []string{},
		Datasets: []Dataset{{
			Label:           sel.Y + " vs " + sel.X,
			Data:            points,
			BackgroundColor: "rgba(75, 192, 192, 0.6)",
		}},
	}
}
