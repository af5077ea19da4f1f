package overlay

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/model"
)

// DefaultMinArea is the minimum fragment area in squared CRS units.
// Intersection slivers below it are discarded.
const DefaultMinArea = 1.0

// InventorySource is a lazy, finite stream of inventory features.
type InventorySource interface {
	Next() bool
	Feature() model.InventoryFeature
	Err() error
}

// FragmentSink receives accepted fragments in append order.
type FragmentSink interface {
	Add(ctx context.Context, f model.Fragment) error
}

// Counters reports what the overlay pass did. Per-feature defects are
// counted, never fatal.
type Counters struct {
	Features         int // inventory features with at least one candidate
	SkippedFeatures  int // malformed or invalid inventory features
	Fragments        int // fragments emitted to the sink
	DiscardedSlivers int // intersections or parts below the area threshold
}

// Engine streams the inventory layer against the indexed intervention layer
// and emits classified intersection fragments.
type Engine struct {
	geo           geometry.Engine
	index         *Index
	interventions []model.Intervention
	lookups       *Lookups
	minArea       float64
}

// New creates an overlay engine. minArea <= 0 selects DefaultMinArea.
func New(geo geometry.Engine, index *Index, interventions []model.Intervention, lookups *Lookups, minArea float64) *Engine {
	if minArea <= 0 {
		minArea = DefaultMinArea
	}
	return &Engine{
		geo:           geo,
		index:         index,
		interventions: interventions,
		lookups:       lookups,
		minArea:       minArea,
	}
}

// Run consumes the inventory stream to completion, writing every accepted
// fragment to the sink. One inventory feature is in flight at a time; only
// the intervention layer is fully resident. A sink error aborts the run; a
// bad feature does not.
func (e *Engine) Run(ctx context.Context, src InventorySource, sink FragmentSink) (Counters, error) {
	log := zap.L().With(zap.String("component", "overlay.engine"))

	var c Counters
	for src.Next() {
		if err := ctx.Err(); err != nil {
			return c, eris.Wrap(err, "overlay: canceled")
		}

		feat := src.Feature()
		if !e.geo.Validate(feat.Geom) {
			c.SkippedFeatures++
			continue
		}

		candidates := e.index.Candidates(feat.Geom)
		if len(candidates) == 0 {
			continue
		}
		c.Features++

		regime := AgeRegime(feat.AgeClass)
		tol := ShadeTolerance(feat.SpeciesGroup, e.lookups.ShadeTolerance)

		for _, ci := range candidates {
			iv := e.interventions[ci]

			isect := e.geo.Intersection(feat.Geom, iv.Geom)
			if isect == nil {
				continue
			}
			total := e.geo.Area(isect)
			if total == 0 {
				continue
			}
			if total < e.minArea {
				c.DiscardedSlivers++
				continue
			}

			// Multi-part results are exploded into one fragment per part,
			// each filtered against the threshold independently.
			for _, part := range isect.Polygons() {
				if e.geo.Area(part) < e.minArea {
					c.DiscardedSlivers++
					continue
				}
				frag := model.Fragment{
					InterventionAttrs: iv.InterventionAttrs,
					Geom:              part,
					AgeRegime:         regime,
					ShadeTolerance:    tol,
					Terrain:           feat.Terrain,
				}
				if err := sink.Add(ctx, frag); err != nil {
					return c, eris.Wrap(err, "overlay: write fragment")
				}
				c.Fragments++
			}
		}
	}
	if err := src.Err(); err != nil {
		return c, eris.Wrap(err, "overlay: read inventory")
	}

	log.Info("overlay complete",
		zap.Int("features", c.Features),
		zap.Int("skipped_features", c.SkippedFeatures),
		zap.Int("fragments", c.Fragments),
		zap.Int("discarded_slivers", c.DiscardedSlivers),
	)
	return c, nil
}
