package overlay

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// SpeciesTolerance is one entry of the shade tolerance dictionary.
type SpeciesTolerance struct {
	Tolerance string `json:"tolerance_ombre"`
}

// ShadeToleranceTable maps a two-character species prefix to its tolerance.
type ShadeToleranceTable map[string]SpeciesTolerance

// CutCategory is one entry of the cut category dictionary.
type CutCategory struct {
	English string `json:"english_category"`
}

// CutCategoryTable maps a raw origin/disturbance code to its canonical
// English category.
type CutCategoryTable map[string]CutCategory

// Lookups bundles the classification dictionaries. They are loaded once at
// startup and passed around read-only.
type Lookups struct {
	ShadeTolerance ShadeToleranceTable
	CutCategories  CutCategoryTable
}

// LoadLookups reads both dictionaries. A missing or malformed file is a
// fatal configuration defect; the run must abort before any overlay work.
func LoadLookups(shadePath, cutPath string) (*Lookups, error) {
	var lk Lookups
	if err := loadJSON(shadePath, &lk.ShadeTolerance); err != nil {
		return nil, eris.Wrap(err, "overlay: load shade tolerance dictionary")
	}
	if err := loadJSON(cutPath, &lk.CutCategories); err != nil {
		return nil, eris.Wrap(err, "overlay: load cut category dictionary")
	}
	return &lk, nil
}

func loadJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}
