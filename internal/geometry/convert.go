package geometry

import (
	"github.com/ctessum/geom"
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	twgeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

// SRID of the source layers (NAD83 Québec Lambert, meter-based).
const SRID = 32198

// PolygonFromShape converts a shapefile shape to a clipping polygon.
// Returns nil for nil, non-polygonal, or empty shapes.
func PolygonFromShape(s shp.Shape) geom.Polygon {
	p, ok := s.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	poly := make(geom.Polygon, 0, p.NumParts)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 3 {
			continue
		}
		ring := make([]geom.Point, 0, end-start)
		for j := start; j < end; j++ {
			ring = append(ring, geom.Point{X: p.Points[j].X, Y: p.Points[j].Y})
		}
		poly = append(poly, ring)
	}

	if len(poly) == 0 {
		return nil
	}
	return poly
}

// EncodeEWKB serializes a polygon to little-endian EWKB for storage.
func EncodeEWKB(p geom.Polygon) ([]byte, error) {
	if len(p) == 0 {
		return nil, eris.New("geometry: encode empty polygon")
	}

	tw := twgeom.NewPolygon(twgeom.XY).SetSRID(SRID)
	for _, ring := range p {
		flat := make([]float64, 0, (len(ring)+1)*2)
		for _, pt := range ring {
			flat = append(flat, pt.X, pt.Y)
		}
		// EWKB linear rings must be closed.
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			flat = append(flat, ring[0].X, ring[0].Y)
		}
		if err := tw.Push(twgeom.NewLinearRingFlat(twgeom.XY, flat)); err != nil {
			return nil, eris.Wrap(err, "geometry: push ring")
		}
	}

	data, err := ewkb.Marshal(tw, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: marshal EWKB")
	}
	return data, nil
}

// DecodeEWKB deserializes a polygon previously written by EncodeEWKB.
func DecodeEWKB(data []byte) (geom.Polygon, error) {
	g, err := ewkb.Unmarshal(data)
	if err != nil {
		return nil, eris.Wrap(err, "geometry: unmarshal EWKB")
	}

	tw, ok := g.(*twgeom.Polygon)
	if !ok {
		return nil, eris.Errorf("geometry: expected polygon, got %T", g)
	}

	poly := make(geom.Polygon, 0, tw.NumLinearRings())
	for i := 0; i < tw.NumLinearRings(); i++ {
		coords := tw.LinearRing(i).Coords()
		ring := make([]geom.Point, 0, len(coords))
		for _, c := range coords {
			ring = append(ring, geom.Point{X: c.X(), Y: c.Y()})
		}
		poly = append(poly, ring)
	}
	return poly, nil
}
