package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boreal-analytics/forestcut/internal/model"
)

func TestAgeRegime(t *testing.T) {
	tests := []struct {
		name     string
		ageClass string
		expected model.AgeRegime
	}{
		{name: "regulated class maps to Even", ageClass: "60", expected: model.RegimeEven},
		{name: "lowest regulated class", ageClass: "10", expected: model.RegimeEven},
		{name: "highest regulated class", ageClass: "140", expected: model.RegimeEven},
		{name: "uneven structure code", ageClass: "JIN", expected: model.RegimeUneven},
		{name: "mixed class outside regulated set", ageClass: "10120", expected: model.RegimeUneven},
		{name: "absent code maps to none", ageClass: "", expected: model.RegimeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AgeRegime(tt.ageClass))
		})
	}
}

func TestShadeTolerance(t *testing.T) {
	table := ShadeToleranceTable{
		"AB": {Tolerance: "Tolérant"},
		"BJ": {Tolerance: "Intolérant"},
		"CC": {Tolerance: "indéterminé"},
		"DD": {},
	}

	tests := []struct {
		name         string
		speciesGroup string
		expected     model.Tolerance
	}{
		{name: "tolerant species", speciesGroup: "AB", expected: model.ToleranceTol},
		{name: "prefix of longer code is used", speciesGroup: "BJR_FI", expected: model.ToleranceIntol},
		{name: "single character code misses dictionary", speciesGroup: "A", expected: model.ToleranceUnknown},
		{name: "present but unmapped label", speciesGroup: "CC", expected: model.ToleranceUnknown},
		{name: "present with empty label", speciesGroup: "DD", expected: model.ToleranceUnknown},
		{name: "absent from dictionary", speciesGroup: "ZZ", expected: model.ToleranceUnknown},
		{name: "absent code maps to none", speciesGroup: "", expected: model.ToleranceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShadeTolerance(tt.speciesGroup, table))
		})
	}
}

func TestCutType(t *testing.T) {
	cats := CutCategoryTable{
		"CT":  {English: "Commercial thinning"},
		"CPR": {English: "Clearcut"},
	}

	tests := []struct {
		name        string
		origin      string
		disturbance string
		expected    string
	}{
		{name: "disturbance preferred over origin", origin: "CPR", disturbance: "CT", expected: "Commercial thinning"},
		{name: "origin used when disturbance absent", origin: "CPR", disturbance: "", expected: "Clearcut"},
		{name: "unmapped code passes through", origin: "", disturbance: "BR", expected: "BR"},
		{name: "unmapped origin passes through", origin: "XYZ", disturbance: "", expected: "XYZ"},
		{name: "both absent yields empty", origin: "", disturbance: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CutType(tt.origin, tt.disturbance, cats))
		})
	}
}

func TestForestType(t *testing.T) {
	tests := []struct {
		name     string
		regime   model.AgeRegime
		tol      model.Tolerance
		expected string
	}{
		{name: "even tolerant", regime: model.RegimeEven, tol: model.ToleranceTol, expected: model.ForestEvenTol},
		{name: "uneven tolerant", regime: model.RegimeUneven, tol: model.ToleranceTol, expected: model.ForestUnevenTol},
		{name: "even intolerant", regime: model.RegimeEven, tol: model.ToleranceIntol, expected: model.ForestEvenIntol},
		{name: "uneven intolerant", regime: model.RegimeUneven, tol: model.ToleranceIntol, expected: model.ForestUnevenIntol},
		{name: "unknown tolerance collapses", regime: model.RegimeEven, tol: model.ToleranceUnknown, expected: model.ForestUnknown},
		{name: "missing regime collapses", regime: model.RegimeNone, tol: model.ToleranceTol, expected: model.ForestUnknown},
		{name: "missing tolerance collapses", regime: model.RegimeUneven, tol: model.ToleranceNone, expected: model.ForestUnknown},
		{name: "everything missing", regime: model.RegimeNone, tol: model.ToleranceNone, expected: model.ForestUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ForestType(tt.regime, tt.tol))
		})
	}
}
