package ingest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pv_simulator/internal/model"
)

func weatherCSV(rows int) string {
	var b strings.Builder
	b.WriteString("drybulb_C,glohorrad_Whm2,ratio_diffhout\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%.1f,%d,0.3\n", 10+float64(i%10), (i%24)*40)
	}
	return b.String()
}

func TestReadWeather_FullYear(t *testing.T) {
	w, err := ReadWeather(strings.NewReader(weatherCSV(model.HoursPerYear)))
	require.NoError(t, err)

	assert.Equal(t, model.HoursPerYear, w.Len())
	assert.InDelta(t, 10, w.DryBulbC[0], 1e-9)
	assert.InDelta(t, 0, w.GlobalHorizWhM2[0], 1e-9)
	assert.InDelta(t, 0.3, w.DiffuseRatio[0], 1e-9)
}

func TestReadWeather_EmptyRatioDefaultsToZero(t *testing.T) {
	var b strings.Builder
	b.WriteString("drybulb_C,glohorrad_Whm2,ratio_diffhout\n")
	b.WriteString("12.0,100,\n")
	for i := 1; i < model.HoursPerYear; i++ {
		b.WriteString("12.0,100,0.4\n")
	}

	w, err := ReadWeather(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.InDelta(t, 0, w.DiffuseRatio[0], 1e-9)
	assert.InDelta(t, 0.4, w.DiffuseRatio[1], 1e-9)
}

func TestReadWeather_RejectsShortYear(t *testing.T) {
	_, err := ReadWeather(strings.NewReader(weatherCSV(100)))
	assert.ErrorContains(t, err, "100 rows")
}

func radiationCSV(rows int) string {
	var b strings.Builder
	b.WriteString("srf0,srf1\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i%500, (i*2)%500)
	}
	return b.String()
}

func TestReadRadiation_WideTable(t *testing.T) {
	table, err := ReadRadiation(strings.NewReader(radiationCSV(model.HoursPerYear)))
	require.NoError(t, err)

	assert.Equal(t, []string{"srf0", "srf1"}, table.SensorIDs)
	require.Len(t, table.Hourly["srf0"], model.HoursPerYear)
	assert.InDelta(t, 3, table.Hourly["srf0"][3], 1e-9)
	assert.InDelta(t, 6, table.Hourly["srf1"][3], 1e-9)
}

func TestReadRadiation_RejectsBadInput(t *testing.T) {
	_, err := ReadRadiation(strings.NewReader(""))
	assert.ErrorContains(t, err, "empty")

	_, err = ReadRadiation(strings.NewReader(radiationCSV(10)))
	assert.ErrorContains(t, err, "10 data rows")

	var b strings.Builder
	b.WriteString("srf0\n")
	b.WriteString("not-a-number\n")
	for i := 1; i < model.HoursPerYear; i++ {
		b.WriteString("1\n")
	}
	_, err = ReadRadiation(strings.NewReader(b.String()))
	assert.ErrorContains(t, err, "srf0")
}

func TestReadMetadata_ParsesRows(t *testing.T) {
	csv := "SURFACE,TYPE,Xdir,Ydir,Zdir,AREA_m2\n" +
		"srf0,roof,0,0,1,80.5\n" +
		"srf1,wall,0,-1,0,40\n"

	meta, err := ReadMetadata(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, meta, 2)

	assert.Equal(t, "srf0", meta[0].Surface)
	assert.Equal(t, model.SurfaceRoof, meta[0].Type)
	assert.InDelta(t, 80.5, meta[0].AreaM2, 1e-9)
	assert.Equal(t, model.SurfaceWall, meta[1].Type)
	assert.InDelta(t, -1, meta[1].Ydir, 1e-9)
}

func TestReadMetadata_RejectsEmptySurfaceID(t *testing.T) {
	csv := "SURFACE,TYPE,Xdir,Ydir,Zdir,AREA_m2\n" +
		",roof,0,0,1,80.5\n"

	_, err := ReadMetadata(strings.NewReader(csv))
	assert.ErrorContains(t, err, "empty SURFACE")
}
