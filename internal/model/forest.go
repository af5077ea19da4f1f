// Package model holds the domain types shared across the overlay pipeline.
package model

import "github.com/ctessum/geom"

// AgeRegime is the reclassified stand age structure of an inventory polygon.
// The empty string means the source age class was absent.
type AgeRegime string

// Age regime values.
const (
	RegimeEven   AgeRegime = "Even"
	RegimeUneven AgeRegime = "Uneven"
	RegimeNone   AgeRegime = ""
)

// Tolerance is the reclassified shade tolerance of a species group.
// The empty string means the source species group was absent.
type Tolerance string

// Shade tolerance values.
const (
	ToleranceTol     Tolerance = "Tol"
	ToleranceIntol   Tolerance = "Intol"
	ToleranceUnknown Tolerance = "Unknown"
	ToleranceNone    Tolerance = ""
)

// Forest type categories derived from (age regime, shade tolerance).
const (
	ForestEvenTol     = "Even/Tol"
	ForestUnevenTol   = "Uneven/Tol"
	ForestEvenIntol   = "Even/Intol"
	ForestUnevenIntol = "Uneven/Intol"
	ForestUnknown     = "Unknown/Unclassified"
)

// ForestTypes is the complete, ordered forest type column set. Output
// matrices always carry all five columns, inserting zeros for missing ones.
var ForestTypes = []string{
	ForestEvenTol,
	ForestUnevenTol,
	ForestEvenIntol,
	ForestUnevenIntol,
	ForestUnknown,
}

// InventoryFeature is one stand-level record from the forest inventory layer.
// Attributes are raw layer codes; empty string means the attribute was unset.
type InventoryFeature struct {
	Geom         geom.Polygon
	AgeClass     string // e.g. "60" or "JIN"
	SpeciesGroup string // e.g. "BJR_FI"
	Terrain      string
}

// InterventionAttrs are the attributes of a recorded harvest or disturbance
// event. Fragments carry them verbatim from their source intervention.
type InterventionAttrs struct {
	FiscalYear      string // operating campaign label, e.g. "2019-2020"
	Origin          string
	OriginYear      string
	Disturbance     string
	DisturbanceYear string
	Reforest        [3]string // reforestation species codes
}

// Intervention is one record from the forest intervention layer.
type Intervention struct {
	InterventionAttrs
	Geom geom.Polygonal
}

// Fragment is the intersection of one inventory polygon with one
// intervention polygon. Its geometry is always a single polygon; multi-part
// intersection results are exploded into one fragment per part. Once
// persisted a fragment is never mutated.
type Fragment struct {
	InterventionAttrs
	Geom           geom.Polygon
	AgeRegime      AgeRegime
	ShadeTolerance Tolerance
	Terrain        string
}
