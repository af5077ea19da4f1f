// Package geometry wraps the external geometry engine behind a small
// capability interface so the overlay core can be tested against a fake.
package geometry

import "github.com/ctessum/geom"

// Engine is the geometry capability set consumed by the overlay pipeline:
// validity checking, intersection predicates, exact intersection, and area.
// Implementations must be safe for use from a single goroutine; the pipeline
// is single-threaded.
type Engine interface {
	// Validate reports whether p is a usable polygonal geometry.
	Validate(p geom.Polygonal) bool
	// Intersects reports whether a and b share interior area.
	Intersects(a, b geom.Polygonal) bool
	// Intersection returns the exact intersection of a and b, or nil when
	// they do not overlap.
	Intersection(a, b geom.Polygonal) geom.Polygonal
	// Area returns the planar area of p in squared CRS units.
	Area(p geom.Polygonal) float64
}

// clipEngine implements Engine on the ctessum/geom polygon clipping ops.
type clipEngine struct{}

// NewEngine returns the production Engine.
func NewEngine() Engine {
	return clipEngine{}
}

func (clipEngine) Validate(p geom.Polygonal) bool {
	if p == nil {
		return false
	}
	rings := 0
	for _, poly := range p.Polygons() {
		for _, ring := range poly {
			if len(ring) >= 3 {
				rings++
			}
		}
	}
	return rings > 0 && p.Area() > 0
}

func (e clipEngine) Intersects(a, b geom.Polygonal) bool {
	if a == nil || b == nil {
		return false
	}
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	isect := e.Intersection(a, b)
	return isect != nil && isect.Area() > 0
}

func (clipEngine) Intersection(a, b geom.Polygonal) geom.Polygonal {
	if a == nil || b == nil {
		return nil
	}
	// Cheap extent rejection before the exact clip.
	if !a.Bounds().Overlaps(b.Bounds()) {
		return nil
	}
	return a.Intersection(b)
}

func (clipEngine) Area(p geom.Polygonal) float64 {
	if p == nil {
		return 0
	}
	return p.Area()
}
