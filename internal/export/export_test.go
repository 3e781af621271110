package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bank/geometry"
	"github.com/banshee-data/hexbank/internal/metric"
	"github.com/banshee-data/hexbank/internal/units"
)

func sampleBank() *bank.Bank {
	return &bank.Bank{
		Params: bank.GridParam{MinimumMismatch: 0.03, FLower: 40, MassMin: 1, MassMax: 20},
		Stats:  bank.Stats{Seed: geometry.Point{T0: 4.77, T3: 1.25}, Passes: 3, Cells: 2},
		Templates: []bank.Template{
			{ID: 0, T0: 5, T3: 0.8, Mass1: 3, Mass2: 2, TotalMass: 5, Eta: 0.24, ChirpMass: 2.1,
				Ellipse: metric.Ellipse{A: 0.08, B: 0.02, Theta: 1.47}},
			{ID: 1, T0: 5.1, T3: 0.81, Mass1: 2.5, Mass2: 2.5, TotalMass: 5, Eta: 0.25, ChirpMass: 2.17,
				Ellipse: metric.Ellipse{A: 0.08, B: 0.02, Theta: 1.47}},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	b := sampleBank()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, b.Templates, units.MSun))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"0", "5", "0.8", "3", "2", "5", "0.24", "2.1", "0.08", "0.02", "1.47"}, records[1])
	assert.Equal(t, "1", records[2][0])
}

func TestWriteCSVConvertsMass(t *testing.T) {
	b := sampleBank()
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, b.Templates, units.Seconds))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	m1, err := strconv.ParseFloat(records[1][3], 64)
	require.NoError(t, err)
	assert.InDelta(t, 3*units.SolarMassSeconds, m1, 1e-18)
	// Chirp times and eta do not depend on the mass units.
	assert.Equal(t, "5", records[1][1])
	assert.Equal(t, "0.24", records[1][6])
}

func TestRowsRejectsUnits(t *testing.T) {
	_, err := Rows(sampleBank().Templates, "stone")
	assert.Error(t, err)
	assert.Error(t, WriteCSV(&bytes.Buffer{}, nil, "stone"))
}

func TestJSONRoundTrip(t *testing.T) {
	b := sampleBank()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, b, units.Kg))

	doc, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, units.Kg, doc.MassUnits)
	assert.Equal(t, b.Params, doc.Params)
	assert.Equal(t, b.Stats, doc.Stats)
	require.Len(t, doc.Templates, 2)
	assert.InDelta(t, 5*units.SolarMassKilograms, doc.Templates[0].TotalMass, 1e18)
}

func TestReadJSONError(t *testing.T) {
	_, err := ReadJSON(bytes.NewBufferString("{"))
	assert.Error(t, err)
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	b := sampleBank()

	csvPath := filepath.Join(dir, "bank.csv")
	require.NoError(t, WriteFile(csvPath, b, units.MSun))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("id,t0,t3")))

	jsonPath := filepath.Join(dir, "bank.json")
	require.NoError(t, WriteFile(jsonPath, b, units.MSun))
	f, err := os.Open(jsonPath)
	require.NoError(t, err)
	defer f.Close()
	doc, err := ReadJSON(f)
	require.NoError(t, err)
	assert.Len(t, doc.Templates, 2)

	assert.Error(t, WriteFile(filepath.Join(dir, "bank.txt"), b, units.MSun))
}
