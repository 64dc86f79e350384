package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func objectsOfKind(scene *Scene, kind string) []Object {
	var out []Object
	for _, o := range scene.Objects {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func TestBuildScene_BarsRescaleToExtent(t *testing.T) {
	rows := []Row{
		{"cat": "a", "v": float64(10), "d": float64(2)},
		{"cat": "b", "v": float64(40), "d": float64(4)},
	}

	scene, err := BuildScene(rows, Selection{Family: Bar3D, X: "cat", Y: "v", Z: "d"})
	require.NoError(t, err)
	defer scene.Close()

	bars := objectsOfKind(scene, "bar")
	require.Len(t, bars, 2)

	// Максимум батча растягивается до восьми единиц
	assert.InDelta(t, 8.0, bars[1].Size[1], 1e-9)
	assert.InDelta(t, 2.0, bars[0].Size[1], 1e-9)

	// Высота подписи над столбцом, текст - исходное значение
	labels := objectsOfKind(scene, "label")
	require.Len(t, labels, 2)
	assert.Equal(t, "10", labels[0].Text)
	assert.Equal(t, "40", labels[1].Text)
}

func TestBuildScene_BarsZeroMaxFallsBackToOne(t *testing.T) {
	rows := []Row{
		{"cat": "a", "v": float64(0), "d": float64(0)},
	}

	scene, err := BuildScene(rows, Selection{Family: Bar3D, X: "cat", Y: "v", Z: "d"})
	require.NoError(t, err)
	defer scene.Close()

	// Нулевой максимум не дает деления на ноль: масштаб считается от единицы
	bars := objectsOfKind(scene, "bar")
	require.Len(t, bars, 1)
	assert.Equal(t, 0.0, bars[0].Size[1])
	assert.False(t, math.IsNaN(bars[0].Position[1]))
}

func TestBuildScene_LineNormalizesIntoExtent(t *testing.T) {
	rows := []Row{
		{"x": float64(0), "y": float64(5), "z": float64(1)},
		{"x": float64(10), "y": float64(15), "z": float64(3)},
	}

	scene, err := BuildScene(rows, Selection{Family: Line3D, X: "x", Y: "y", Z: "z"})
	require.NoError(t, err)
	defer scene.Close()

	lines := objectsOfKind(scene, "line")
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Points, 2)

	assert.Equal(t, Vec3{0, 0, 0}, lines[0].Points[0])
	assert.Equal(t, Vec3{10, 10, 10}, lines[0].Points[1])
}

func TestBuildScene_LineZeroSpanAxisCollapses(t *testing.T) {
	// Одинаковый Y у всех точек: нулевой разброс, но не NaN
	rows := []Row{
		{"x": float64(1), "y": float64(7), "z": float64(1)},
		{"x": float64(2), "y": float64(7), "z": float64(2)},
	}

	scene, err := BuildScene(rows, Selection{Family: Line3D, X: "x", Y: "y", Z: "z"})
	require.NoError(t, err)
	defer scene.Close()

	line := objectsOfKind(scene, "line")[0]
	for _, p := range line.Points {
		assert.Equal(t, 0.0, p[1])
	}
}

func TestBuildScene_LineNoRenderableRows(t *testing.T) {
	rows := []Row{
		{"x": "a", "y": "b", "z": "c"},
	}

	scene, err := BuildScene(rows, Selection{Family: Line3D, X: "x", Y: "y", Z: "z"})
	assert.ErrorIs(t, err, ErrNoRenderableRows)
	assert.Nil(t, scene)
}

func TestBuildScene_PieZeroTotalAbortsRender(t *testing.T) {
	rows := []Row{
		{"cat": "a", "v": float64(0)},
		{"cat": "b", "v": "none"},
	}

	scene, err := BuildScene(rows, Selection{Family: Pie3D, X: "cat", Y: "v"})
	assert.ErrorIs(t, err, ErrZeroTotal)
	assert.Nil(t, scene)
}

func TestBuildScene_PieWithoutValueAxisCountsRows(t *testing.T) {
	rows := []Row{
		{"cat": "a"},
		{"cat": "a"},
		{"cat": "b"},
	}

	scene, err := BuildScene(rows, Selection{Family: Pie3D, X: "cat"})
	require.NoError(t, err)
	defer scene.Close()

	slices := objectsOfKind(scene, "slice")
	require.Len(t, slices, 2)
	// Без оси значения каждая строка весит единицу
	assert.Equal(t, 4.0, slices[0].Size[1]) // a: 2 строки, высота 2*2
	assert.Equal(t, 2.0, slices[1].Size[1])
}

func TestBuildScene_ScatterKeepsRawCoordinates(t *testing.T) {
	rows := []Row{
		{"x": float64(1), "y": float64(2), "z": float64(3)},
		{"x": "bad", "y": float64(2), "z": float64(3)},
	}

	scene, err := BuildScene(rows, Selection{Family: Scatter3D, X: "x", Y: "y", Z: "z"})
	require.NoError(t, err)
	defer scene.Close()

	spheres := objectsOfKind(scene, "sphere")
	require.Len(t, spheres, 1)
	assert.Equal(t, Vec3{1, 2, 3}, spheres[0].Position)
}

func TestBuildScene_IsDeterministic(t *testing.T) {
	rows := []Row{
		{"cat": "a", "v": float64(3)},
		{"cat": "b", "v": float64(1)},
		{"cat": "a", "v": float64(2)},
	}
	sel := Selection{Family: Pie3D, X: "cat", Y: "v"}

	first, err := BuildScene(rows, sel)
	require.NoError(t, err)
	defer first.Close()
	second, err := BuildScene(rows, sel)
	require.NoError(t, err)
	defer second.Close()

	assert.Equal(t, first.Objects, second.Objects)
}

func TestScene_CloseIsIdempotent(t *testing.T) {
	rows := []Row{
		{"cat": "a", "v": float64(3), "d": float64(1)},
	}

	scene, err := BuildScene(rows, Selection{Family: Bar3D, X: "cat", Y: "v", Z: "d"})
	require.NoError(t, err)

	assert.False(t, scene.Closed())
	scene.Close()
	assert.True(t, scene.Closed())
	assert.Empty(t, scene.Objects)

	// Повторный Close не паникует и не меняет состояние
	scene.Close()
	assert.True(t, scene.Closed())
}
