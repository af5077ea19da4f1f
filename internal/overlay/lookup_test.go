package overlay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boreal-analytics/forestcut/internal/model"
)

func writeLookupFiles(t *testing.T) (shadePath, cutPath string) {
	t.Helper()
	dir := t.TempDir()

	shadePath = filepath.Join(dir, "shade.json")
	require.NoError(t, os.WriteFile(shadePath, []byte(`{
		"AB": {"nom_francais": "Sapin baumier", "tolerance_ombre": "Tolérant"},
		"BJ": {"tolerance_ombre": "Intolérant"}
	}`), 0o644))

	cutPath = filepath.Join(dir, "cuts.json")
	require.NoError(t, os.WriteFile(cutPath, []byte(`{
		"CT": {"description": "Coupe de jardinage", "english_category": "Commercial thinning"},
		"CPR": {"english_category": "Clearcut"}
	}`), 0o644))

	return shadePath, cutPath
}

func TestLoadLookups(t *testing.T) {
	shadePath, cutPath := writeLookupFiles(t)

	lk, err := LoadLookups(shadePath, cutPath)
	require.NoError(t, err)

	// Unrelated JSON keys are ignored, the mapped fields survive.
	assert.Equal(t, model.ToleranceTol, ShadeTolerance("AB", lk.ShadeTolerance))
	assert.Equal(t, model.ToleranceIntol, ShadeTolerance("BJ", lk.ShadeTolerance))
	assert.Equal(t, "Commercial thinning", CutType("", "CT", lk.CutCategories))
}

func TestLoadLookups_MissingShadeFile(t *testing.T) {
	_, cutPath := writeLookupFiles(t)

	_, err := LoadLookups("/nonexistent/shade.json", cutPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shade tolerance")
}

func TestLoadLookups_MissingCutFile(t *testing.T) {
	shadePath, _ := writeLookupFiles(t)

	_, err := LoadLookups(shadePath, "/nonexistent/cuts.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cut category")
}

func TestLoadLookups_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{not json`), 0o644))

	_, cutPath := writeLookupFiles(t)
	_, err := LoadLookups(bad, cutPath)
	require.Error(t, err)
}
