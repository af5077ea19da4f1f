package geometry

import (
	"testing"

	"github.com/ctessum/geom"
	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonFromShape(t *testing.T) {
	shape := &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
		},
	}

	poly := PolygonFromShape(shape)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 5)
	assert.Equal(t, geom.Point{X: 10, Y: 10}, poly[0][2])
}

func TestPolygonFromShape_MultiRing(t *testing.T) {
	shape := &shp.Polygon{
		NumParts:  2,
		NumPoints: 9,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
			{X: 2, Y: 2}, {X: 2, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 2},
		},
	}

	poly := PolygonFromShape(shape)
	require.Len(t, poly, 2)
	assert.Len(t, poly[0], 5)
	assert.Len(t, poly[1], 4)
}

func TestPolygonFromShape_SkipsDegenerateRing(t *testing.T) {
	shape := &shp.Polygon{
		NumParts:  2,
		NumPoints: 7,
		Parts:     []int32{0, 5},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
			{X: 2, Y: 2}, {X: 2, Y: 4},
		},
	}

	poly := PolygonFromShape(shape)
	require.Len(t, poly, 1)
}

func TestPolygonFromShape_Rejected(t *testing.T) {
	assert.Nil(t, PolygonFromShape(nil))
	assert.Nil(t, PolygonFromShape(&shp.Null{}))
	assert.Nil(t, PolygonFromShape(&shp.PolyLine{}))
	assert.Nil(t, PolygonFromShape(&shp.Polygon{}))
}

func TestEWKBRoundTrip(t *testing.T) {
	// Outer ring with a hole, both unclosed; the codec closes them.
	orig := geom.Polygon{
		{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
		{{X: 40, Y: 40}, {X: 40, Y: 60}, {X: 60, Y: 60}, {X: 60, Y: 40}},
	}

	data, err := EncodeEWKB(orig)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := DecodeEWKB(data)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, ring := range got {
		require.Len(t, ring, len(orig[i])+1)
		assert.Equal(t, orig[i], ring[:len(orig[i])])
		assert.Equal(t, ring[0], ring[len(ring)-1])
	}
}

func TestEncodeEWKB_Empty(t *testing.T) {
	_, err := EncodeEWKB(nil)
	require.Error(t, err)
}

func TestDecodeEWKB_Garbage(t *testing.T) {
	_, err := DecodeEWKB([]byte{0x01, 0x02, 0x03})
	require.Error(t, err)
}
