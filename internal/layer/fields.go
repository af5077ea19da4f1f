// Package layer reads the forest inventory and intervention shapefile layers.
package layer

import (
	"strings"

	"github.com/jonas-p/go-shp"
)

// fieldIndex returns the index of a named DBF field, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// attribute reads a DBF attribute, stripping padding. Returns "" for unset
// values and for fields that were not resolved.
func attribute(reader *shp.Reader, idx int) string {
	if idx < 0 {
		return ""
	}
	val := strings.TrimRight(reader.Attribute(idx), "\x00")
	return strings.TrimSpace(val)
}
