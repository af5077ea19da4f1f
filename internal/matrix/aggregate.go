// Package matrix reduces the persisted fragment dataset into the cut-type ×
// forest-type area cross-tab and its derived output matrices.
package matrix

import (
	"context"

	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/model"
	"github.com/boreal-analytics/forestcut/internal/overlay"
	"github.com/boreal-analytics/forestcut/internal/store"
)

// CrossTab is the (cut type, forest type) → summed area reduction of the
// full fragment set. It is rebuilt from scratch on every aggregation pass,
// never updated incrementally.
type CrossTab struct {
	cells     map[string]map[string]float64
	total     float64
	fragments int64 // fragments aggregated
	noCutCode int64 // fragments with neither origin nor disturbance code
}

// Accumulate scans the persisted fragments, computing each area with the
// injected geometry engine and deriving cut type and forest type with the
// classification dictionaries. Fragments carrying no cut code at all get no
// cross-tab row, but their area still counts toward the grand total, so
// percentage cells are fractions of the full intersected area.
func Accumulate(ctx context.Context, st *store.FragmentStore, geo geometry.Engine, cats overlay.CutCategoryTable) (*CrossTab, error) {
	ct := &CrossTab{cells: make(map[string]map[string]float64)}

	err := st.Scan(ctx, func(f model.Fragment) error {
		area := geo.Area(f.Geom)
		cut := overlay.CutType(f.Origin, f.Disturbance, cats)
		if cut == "" {
			ct.noCutCode++
			ct.total += area
			return nil
		}
		forest := overlay.ForestType(f.AgeRegime, f.ShadeTolerance)

		row, ok := ct.cells[cut]
		if !ok {
			row = make(map[string]float64, len(model.ForestTypes))
			ct.cells[cut] = row
		}
		row[forest] += area
		ct.total += area
		ct.fragments++
		return nil
	})
	if err != nil {
		return nil, err
	}

	zap.L().Info("aggregation complete",
		zap.Int64("fragments", ct.fragments),
		zap.Int64("no_cut_code", ct.noCutCode),
		zap.Float64("total_area", ct.total),
	)
	return ct, nil
}

// TotalArea returns the summed area of every scanned fragment, including
// those without a cut code.
func (ct *CrossTab) TotalArea() float64 {
	return ct.total
}

// Fragments returns the number of fragments included in the cross-tab.
func (ct *CrossTab) Fragments() int64 {
	return ct.fragments
}

// SkippedNoCutCode returns the number of fragments without a cross-tab row
// because both cut codes were absent.
func (ct *CrossTab) SkippedNoCutCode() int64 {
	return ct.noCutCode
}

// Area returns the summed area for one (cut type, forest type) cell.
func (ct *CrossTab) Area(cutType, forestType string) float64 {
	return ct.cells[cutType][forestType]
}
