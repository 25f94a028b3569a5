package tiger

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/require"
)

type fixtureCounty struct {
	StateFP  string
	CountyFP string
	Name     string
	Rings    [][]shp.Point
}

// writeCountyShapefile writes a cb_*_county style shapefile and returns the
// .shp path. cpg, when non-empty, is written as the .cpg sidecar.
func writeCountyShapefile(t *testing.T, dir, base, cpg string, counties []fixtureCounty) string {
	t.Helper()
	shpPath := filepath.Join(dir, base+".shp")

	w, err := shp.Create(shpPath, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("STATEFP", 2),
		shp.StringField("COUNTYFP", 3),
		shp.StringField("NAME", 40),
	}))

	for _, c := range counties {
		n := w.Write(polygonOf(c.Rings...))
		w.WriteAttribute(int(n), 0, c.StateFP)
		w.WriteAttribute(int(n), 1, c.CountyFP)
		w.WriteAttribute(int(n), 2, c.Name)
	}
	w.Close()
	fixDBFName(t, dir, base)

	if cpg != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, base+".cpg"), []byte(cpg), 0o644))
	}
	return shpPath
}

// fixDBFName renames the "<base>dbf" table go-shp's writer leaves behind to
// "<base>.dbf", which is where its reader looks.
func fixDBFName(t *testing.T, dir, base string) {
	t.Helper()
	require.NoError(t, os.Rename(filepath.Join(dir, base+"dbf"), filepath.Join(dir, base+".dbf")))
}

// zipDir zips every file in dir whose name starts with base.
func zipDir(t *testing.T, dir, base string) []byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), base) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		fw, err := zw.Create(e.Name())
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func indianaFixture() []fixtureCounty {
	return []fixtureCounty{
		{StateFP: "18", CountyFP: "001", Name: "Adams", Rings: [][]shp.Point{squareCW(-85, 40.6)}},
		{StateFP: "18", CountyFP: "003", Name: "Allen", Rings: [][]shp.Point{squareCW(-85.2, 41), holeCCW(-85.2, 41)}},
		{StateFP: "17", CountyFP: "001", Name: "Adams", Rings: [][]shp.Point{squareCW(-91, 40)}},
		{StateFP: "18", CountyFP: "005", Name: "Bartholomew", Rings: [][]shp.Point{squareCW(-86, 39.2)}},
		{StateFP: "18", CountyFP: "007", Name: "Benton", Rings: [][]shp.Point{{{X: -87, Y: 40}, {X: -87, Y: 41}, {X: -87, Y: 40}}}},
	}
}
