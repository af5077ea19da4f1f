package matrix

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/boreal-analytics/forestcut/internal/model"
)

// DefaultExcludedCutTypes are the cut categories dropped from the
// probability matrix. They describe treatments the downstream simulation
// does not prescribe.
var DefaultExcludedCutTypes = []string{"Commercial thinning", "Others"}

// Table is a finished output matrix: cut types as rows, forest types as
// columns, a fixed and complete column set.
type Table struct {
	Rows []string // cut types, sorted
	Cols []string // forest types, fixed order
	Data map[string]map[string]float64
}

// Cell returns one cell value; absent cells are 0.
func (t *Table) Cell(row, col string) float64 {
	return t.Data[row][col]
}

// Percentages converts the cross-tab to percentage-of-total-area form: each
// cell divided by the grand total area × 100, rounded to two decimals. All
// five forest type columns are always present.
func (ct *CrossTab) Percentages() *Table {
	t := &Table{
		Rows: sortedRows(ct.cells),
		Cols: slices.Clone(model.ForestTypes),
		Data: make(map[string]map[string]float64, len(ct.cells)),
	}
	for _, cut := range t.Rows {
		row := make(map[string]float64, len(t.Cols))
		for _, ft := range t.Cols {
			var pct float64
			if ct.total > 0 {
				pct = round(ct.cells[cut][ft]/ct.total*100, 2)
			}
			row[ft] = pct
		}
		t.Data[cut] = row
	}
	return t
}

// Probabilities builds the column-normalized probability matrix: the
// Unknown/Unclassified column and the excluded cut type rows are removed,
// then every remaining column is rescaled to sum to 1.0. A column with zero
// post-filter mass stays all-zero instead of producing an undefined ratio.
// Values are rounded to four decimals.
func (ct *CrossTab) Probabilities(excludedCutTypes []string) *Table {
	if excludedCutTypes == nil {
		excludedCutTypes = DefaultExcludedCutTypes
	}

	var rows []string
	for _, cut := range sortedRows(ct.cells) {
		if !slices.Contains(excludedCutTypes, cut) {
			rows = append(rows, cut)
		}
	}

	var cols []string
	for _, ft := range model.ForestTypes {
		if ft != model.ForestUnknown {
			cols = append(cols, ft)
		}
	}

	t := &Table{
		Rows: rows,
		Cols: cols,
		Data: make(map[string]map[string]float64, len(rows)),
	}
	for _, cut := range rows {
		t.Data[cut] = make(map[string]float64, len(cols))
	}

	col := make([]float64, len(rows))
	for _, ft := range cols {
		for i, cut := range rows {
			col[i] = ct.cells[cut][ft]
		}
		sum := floats.Sum(col)
		for i, cut := range rows {
			if sum > 0 {
				t.Data[cut][ft] = round(col[i]/sum, 4)
			} else {
				t.Data[cut][ft] = 0
			}
		}
	}
	return t
}

func sortedRows(cells map[string]map[string]float64) []string {
	rows := make([]string, 0, len(cells))
	for cut := range cells {
		rows = append(rows, cut)
	}
	slices.Sort(rows)
	return rows
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
