package layer

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/model"
)

// InventoryFields names the DBF attributes of the inventory layer.
type InventoryFields struct {
	AgeClass     string
	SpeciesGroup string
	Terrain      string
}

// DefaultInventoryFields are the Québec ecoforest map attribute names.
func DefaultInventoryFields() InventoryFields {
	return InventoryFields{
		AgeClass:     "CL_AGE",
		SpeciesGroup: "GR_ESS",
		Terrain:      "CO_TER",
	}
}

// InventoryReader streams inventory features one at a time so the full layer
// is never resident in memory. Non-polygonal or empty records are skipped
// and counted, never fatal.
type InventoryReader struct {
	r       *shp.Reader
	ageIdx  int
	spIdx   int
	terIdx  int
	feat    model.InventoryFeature
	skipped int
}

// OpenInventory opens the inventory shapefile and resolves the required
// attribute fields. A missing field is a structural defect and fails the run
// before any overlay work starts.
func OpenInventory(path string, fields InventoryFields) (*InventoryReader, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "layer: open inventory %s", path)
	}

	ir := &InventoryReader{
		r:      r,
		ageIdx: fieldIndex(r, fields.AgeClass),
		spIdx:  fieldIndex(r, fields.SpeciesGroup),
		terIdx: fieldIndex(r, fields.Terrain),
	}
	if ir.ageIdx < 0 || ir.spIdx < 0 || ir.terIdx < 0 {
		_ = r.Close()
		return nil, eris.Errorf("layer: inventory %s missing required fields (%s, %s, %s)",
			path, fields.AgeClass, fields.SpeciesGroup, fields.Terrain)
	}
	return ir, nil
}

// Next advances to the next usable feature. It returns false at end of layer.
func (ir *InventoryReader) Next() bool {
	for ir.r.Next() {
		_, shape := ir.r.Shape()
		poly := geometry.PolygonFromShape(shape)
		if poly == nil {
			ir.skipped++
			continue
		}
		ir.feat = model.InventoryFeature{
			Geom:         poly,
			AgeClass:     attribute(ir.r, ir.ageIdx),
			SpeciesGroup: attribute(ir.r, ir.spIdx),
			Terrain:      attribute(ir.r, ir.terIdx),
		}
		return true
	}
	return false
}

// Feature returns the feature read by the last successful Next.
func (ir *InventoryReader) Feature() model.InventoryFeature {
	return ir.feat
}

// Skipped returns the count of malformed records passed over so far.
func (ir *InventoryReader) Skipped() int {
	return ir.skipped
}

// Err returns the first read error encountered by the underlying reader.
func (ir *InventoryReader) Err() error {
	if err := ir.r.Err(); err != nil {
		return eris.Wrap(err, "layer: read inventory")
	}
	return nil
}

// Close releases the underlying shapefile handles.
func (ir *InventoryReader) Close() error {
	return ir.r.Close()
}
