package overlay

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"github.com/boreal-analytics/forestcut/internal/model"
)

// indexEntry ties an indexed geometry back to its intervention slice index.
type indexEntry struct {
	geom.Polygonal
	idx int
}

// Index answers which interventions possibly intersect a geometry, by
// bounding extent. Results are a superset of the true intersections: false
// positives are fine, false negatives are not. The index is built once from
// the full intervention set and is read-only afterward.
type Index struct {
	tree *rtree.Rtree
	size int
}

// NewIndex builds the R-tree over the intervention geometries. Interventions
// without a geometry are not indexed.
func NewIndex(interventions []model.Intervention) *Index {
	ix := &Index{tree: rtree.NewTree(25, 50)}
	for i, iv := range interventions {
		if iv.Geom == nil {
			continue
		}
		ix.tree.Insert(&indexEntry{Polygonal: iv.Geom, idx: i})
		ix.size++
	}
	return ix
}

// Size returns the number of indexed interventions.
func (ix *Index) Size() int {
	return ix.size
}

// Candidates returns the intervention indices whose bounding extents
// intersect p's extent.
func (ix *Index) Candidates(p geom.Polygonal) []int {
	hits := ix.tree.SearchIntersect(p.Bounds())
	if len(hits) == 0 {
		return nil
	}
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*indexEntry).idx)
	}
	return out
}
