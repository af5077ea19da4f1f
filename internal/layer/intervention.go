package layer

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boreal-analytics/forestcut/internal/geometry"
	"github.com/boreal-analytics/forestcut/internal/model"
)

// InterventionFields names the DBF attributes of the intervention layer.
type InterventionFields struct {
	FiscalYear      string
	Origin          string
	OriginYear      string
	Disturbance     string
	DisturbanceYear string
	Reforest1       string
	Reforest2       string
	Reforest3       string
}

// DefaultInterventionFields are the Québec forest intervention attribute names.
func DefaultInterventionFields() InterventionFields {
	return InterventionFields{
		FiscalYear:      "EXERCICE",
		Origin:          "ORIGINE",
		OriginYear:      "AN_ORIGINE",
		Disturbance:     "PERTURB",
		DisturbanceYear: "AN_PERTURB",
		Reforest1:       "REB_ESS1",
		Reforest2:       "REB_ESS2",
		Reforest3:       "REB_ESS3",
	}
}

// LoadInterventions materializes the full intervention layer. The layer is
// the smaller of the two inputs and backs the spatial index, so it is the
// only one held fully in memory. Returns the interventions and the count of
// skipped malformed records.
func LoadInterventions(path string, fields InterventionFields) ([]model.Intervention, int, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, 0, eris.Wrapf(err, "layer: open interventions %s", path)
	}
	defer func() { _ = r.Close() }()

	originIdx := fieldIndex(r, fields.Origin)
	disturbIdx := fieldIndex(r, fields.Disturbance)
	if originIdx < 0 || disturbIdx < 0 {
		return nil, 0, eris.Errorf("layer: interventions %s missing required fields (%s, %s)",
			path, fields.Origin, fields.Disturbance)
	}

	fiscalIdx := fieldIndex(r, fields.FiscalYear)
	originYearIdx := fieldIndex(r, fields.OriginYear)
	disturbYearIdx := fieldIndex(r, fields.DisturbanceYear)
	rebIdx := [3]int{
		fieldIndex(r, fields.Reforest1),
		fieldIndex(r, fields.Reforest2),
		fieldIndex(r, fields.Reforest3),
	}

	var interventions []model.Intervention
	var skipped int

	for r.Next() {
		_, shape := r.Shape()
		poly := geometry.PolygonFromShape(shape)
		if poly == nil {
			skipped++
			continue
		}

		iv := model.Intervention{Geom: poly}
		iv.FiscalYear = attribute(r, fiscalIdx)
		iv.Origin = attribute(r, originIdx)
		iv.OriginYear = attribute(r, originYearIdx)
		iv.Disturbance = attribute(r, disturbIdx)
		iv.DisturbanceYear = attribute(r, disturbYearIdx)
		for i, idx := range rebIdx {
			iv.Reforest[i] = attribute(r, idx)
		}
		interventions = append(interventions, iv)
	}
	if err := r.Err(); err != nil {
		return nil, skipped, eris.Wrap(err, "layer: read interventions")
	}

	if skipped > 0 {
		zap.L().Debug("layer: skipped intervention records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return interventions, skipped, nil
}
