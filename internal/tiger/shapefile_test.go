package tiger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounties_FiltersState(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "cb_2018_us_county_500k", "UTF-8", indianaFixture())

	counties, err := ParseCounties(shpPath, "18")
	require.NoError(t, err)

	// Illinois is filtered out; Benton's only ring is degenerate and is skipped.
	require.Len(t, counties, 3)
	assert.Equal(t, "18001", counties[0].FIPS)
	assert.Equal(t, "Adams", counties[0].Name)
	assert.Equal(t, "18003", counties[1].FIPS)
	assert.Equal(t, "18005", counties[2].FIPS)

	for _, c := range counties {
		require.NotNil(t, c.Boundary, c.FIPS)
		assert.Equal(t, 1, c.Boundary.NumPolygons())
	}
	// Allen carries a hole.
	assert.Equal(t, 2, counties[1].Boundary.Polygon(0).NumLinearRings())
}

func TestParseCounties_OtherState(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "counties", "", indianaFixture())

	counties, err := ParseCounties(shpPath, "17")
	require.NoError(t, err)
	require.Len(t, counties, 1)
	assert.Equal(t, "17001", counties[0].FIPS)
}

func TestParseCounties_Latin1Names(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "counties", "ISO-8859-1", []fixtureCounty{
		{StateFP: "35", CountyFP: "013", Name: "Do\xf1a Ana", Rings: [][]shp.Point{squareCW(-107, 32)}},
	})

	counties, err := ParseCounties(shpPath, "35")
	require.NoError(t, err)
	require.Len(t, counties, 1)
	assert.Equal(t, "Doña Ana", counties[0].Name)
}

func TestParseCounties_UnknownCharset(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "counties", "EBCDIC-XYZ", indianaFixture())

	_, err := ParseCounties(shpPath, "18")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charset")
}

func TestParseCounties_MissingFields(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "nofields.shp")
	w, err := shp.Create(shpPath, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("GEOID", 5)}))
	n := w.Write(polygonOf(squareCW(0, 0)))
	w.WriteAttribute(int(n), 0, "18001")
	w.Close()
	fixDBFName(t, dir, "nofields")

	_, err = ParseCounties(shpPath, "18")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STATEFP")
}

func TestParseCounties_TruncatedShapes(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "counties", "", indianaFixture())

	info, err := os.Stat(shpPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(shpPath, info.Size()/2))

	counties, err := ParseCounties(shpPath, "18")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read shapefile")
	assert.Nil(t, counties)
}

func TestParseCounties_TruncatedAtRecordBoundary(t *testing.T) {
	dir := t.TempDir()
	shpPath := writeCountyShapefile(t, dir, "counties", "", indianaFixture())

	// Drop the last record (Benton: 8-byte record header, shape type, box,
	// part/point counts, one part index and three points).
	const bentonRecord = 8 + 4 + 32 + 4 + 4 + 4 + 3*16
	info, err := os.Stat(shpPath)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(shpPath, info.Size()-bentonRecord))

	_, err = ParseCounties(shpPath, "18")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 shapes for 5 attribute records")
}

func TestParseCounties_MissingFile(t *testing.T) {
	_, err := ParseCounties(filepath.Join(t.TempDir(), "absent.shp"), "18")
	assert.Error(t, err)
}

func TestAttributeDecoder_Default(t *testing.T) {
	dir := t.TempDir()
	shpPath := filepath.Join(dir, "x.shp")

	dec, err := attributeDecoder(shpPath)
	require.NoError(t, err)
	s, err := dec.String("Adams")
	require.NoError(t, err)
	assert.Equal(t, "Adams", s)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.cpg"), []byte("1252\n"), 0o644))
	dec, err = attributeDecoder(shpPath)
	require.NoError(t, err)
	s, err = dec.String("La Porte\x92s")
	require.NoError(t, err)
	assert.Equal(t, "La Porte’s", s)
}
