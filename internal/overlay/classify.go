// Package overlay computes intersection fragments between the inventory and
// intervention layers and classifies them.
package overlay

import "github.com/boreal-analytics/forestcut/internal/model"

// regulatedAgeClasses are the even-aged stand age classes. Any other
// non-empty age class reclassifies as Uneven.
var regulatedAgeClasses = map[string]bool{
	"10": true, "20": true, "30": true, "40": true, "50": true,
	"60": true, "70": true, "80": true, "90": true, "100": true,
	"110": true, "120": true, "130": true, "140": true,
}

// Shade tolerance labels used by the Québec species dictionary.
const (
	labelTolerant   = "Tolérant"
	labelIntolerant = "Intolérant"
)

// AgeRegime reclassifies a raw age class code. Codes in the regulated set map
// to Even, any other present code to Uneven, and an absent code to none.
func AgeRegime(ageClass string) model.AgeRegime {
	switch {
	case ageClass == "":
		return model.RegimeNone
	case regulatedAgeClasses[ageClass]:
		return model.RegimeEven
	default:
		return model.RegimeUneven
	}
}

// ShadeTolerance reclassifies a species group code through the tolerance
// dictionary, keyed by the first two characters of the code. Codes missing
// from the dictionary, or present but carrying an unmapped label, classify
// as Unknown.
func ShadeTolerance(speciesGroup string, table ShadeToleranceTable) model.Tolerance {
	if speciesGroup == "" {
		return model.ToleranceNone
	}
	key := speciesGroup
	if len(key) > 2 {
		key = key[:2]
	}
	entry, ok := table[key]
	if !ok {
		return model.ToleranceUnknown
	}
	switch entry.Tolerance {
	case labelTolerant:
		return model.ToleranceTol
	case labelIntolerant:
		return model.ToleranceIntol
	default:
		return model.ToleranceUnknown
	}
}

// CutType derives the canonical cut category for a fragment. The disturbance
// code wins over the origin code; the chosen code is remapped through the cut
// category dictionary when present, otherwise passed through unchanged.
// Returns "" when both codes are absent.
func CutType(origin, disturbance string, cats CutCategoryTable) string {
	code := disturbance
	if code == "" {
		code = origin
	}
	if code == "" {
		return ""
	}
	if cat, ok := cats[code]; ok && cat.English != "" {
		return cat.English
	}
	return code
}

// ForestType derives the five-way forest type category. Any missing input or
// Unknown tolerance collapses to Unknown/Unclassified.
func ForestType(regime model.AgeRegime, tol model.Tolerance) string {
	if regime == model.RegimeNone || tol == model.ToleranceNone || tol == model.ToleranceUnknown {
		return model.ForestUnknown
	}
	switch {
	case regime == model.RegimeEven && tol == model.ToleranceTol:
		return model.ForestEvenTol
	case regime == model.RegimeUneven && tol == model.ToleranceTol:
		return model.ForestUnevenTol
	case regime == model.RegimeEven && tol == model.ToleranceIntol:
		return model.ForestEvenIntol
	case regime == model.RegimeUneven && tol == model.ToleranceIntol:
		return model.ForestUnevenIntol
	default:
		return model.ForestUnknown
	}
}
