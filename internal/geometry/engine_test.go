package geometry

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) geom.Polygon {
	return geom.Polygon{{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}}
}

func TestValidate(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		p    geom.Polygonal
		want bool
	}{
		{"square", square(0, 0, 10), true},
		{"nil", nil, false},
		{"empty polygon", geom.Polygon{}, false},
		{"two-point ring", geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}}}, false},
		{"collinear ring", geom.Polygon{{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Validate(tt.p))
		})
	}
}

func TestIntersection_Overlap(t *testing.T) {
	e := NewEngine()

	isect := e.Intersection(square(0, 0, 10), square(5, 5, 10))
	require.NotNil(t, isect)
	assert.InDelta(t, 25.0, e.Area(isect), 1e-9)
}

func TestIntersection_Disjoint(t *testing.T) {
	e := NewEngine()

	assert.Nil(t, e.Intersection(square(0, 0, 10), square(100, 100, 10)))
	assert.Nil(t, e.Intersection(nil, square(0, 0, 10)))
	assert.Nil(t, e.Intersection(square(0, 0, 10), nil))
}

func TestIntersection_Contained(t *testing.T) {
	e := NewEngine()

	inner := square(2, 2, 4)
	isect := e.Intersection(square(0, 0, 10), inner)
	require.NotNil(t, isect)
	assert.InDelta(t, inner.Area(), e.Area(isect), 1e-9)
}

func TestIntersects(t *testing.T) {
	e := NewEngine()

	assert.True(t, e.Intersects(square(0, 0, 10), square(5, 5, 10)))
	assert.False(t, e.Intersects(square(0, 0, 10), square(100, 100, 10)))
	assert.False(t, e.Intersects(nil, square(0, 0, 10)))
}

func TestArea(t *testing.T) {
	e := NewEngine()

	assert.InDelta(t, 100.0, e.Area(square(0, 0, 10)), 1e-9)
	assert.Zero(t, e.Area(nil))
}
