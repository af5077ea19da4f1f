package matrix

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
)

// WriteCSV writes a table with the cut type as the row key in the first
// column, matching the layout consumed downstream.
func WriteCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "matrix: create %s", path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)

	header := append([]string{""}, t.Cols...)
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "matrix: write header")
	}

	record := make([]string, len(t.Cols)+1)
	for _, cut := range t.Rows {
		record[0] = cut
		for i, ft := range t.Cols {
			record[i+1] = strconv.FormatFloat(t.Data[cut][ft], 'f', -1, 64)
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "matrix: write row %s", cut)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "matrix: flush csv")
	}
	return nil
}
