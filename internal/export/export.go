// Package export writes template banks as CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/units"
)

// Header is the CSV column list. Mass columns are in the requested units.
var Header = []string{
	"id", "t0", "t3", "mass1", "mass2", "total_mass", "eta", "chirp_mass",
	"ellipse_a", "ellipse_b", "ellipse_theta",
}

// Row is one template in export form.
type Row struct {
	ID           int     `json:"id"`
	T0           float64 `json:"t0"`
	T3           float64 `json:"t3"`
	Mass1        float64 `json:"mass1"`
	Mass2        float64 `json:"mass2"`
	TotalMass    float64 `json:"total_mass"`
	Eta          float64 `json:"eta"`
	ChirpMass    float64 `json:"chirp_mass"`
	EllipseA     float64 `json:"ellipse_a"`
	EllipseB     float64 `json:"ellipse_b"`
	EllipseTheta float64 `json:"ellipse_theta"`
}

// Document is the JSON form of a bank.
type Document struct {
	MassUnits string         `json:"mass_units"`
	Params    bank.GridParam `json:"params"`
	Stats     bank.Stats     `json:"stats"`
	Templates []Row          `json:"templates"`
}

// Rows converts templates into export rows with masses in massUnits.
func Rows(templates []bank.Template, massUnits string) ([]Row, error) {
	if !units.IsValid(massUnits) {
		return nil, fmt.Errorf("invalid mass units %q (want %s)", massUnits, units.GetValidUnitsString())
	}
	rows := make([]Row, len(templates))
	for i, t := range templates {
		rows[i] = Row{
			ID:           t.ID,
			T0:           t.T0,
			T3:           t.T3,
			Mass1:        units.ConvertMass(t.Mass1, massUnits),
			Mass2:        units.ConvertMass(t.Mass2, massUnits),
			TotalMass:    units.ConvertMass(t.TotalMass, massUnits),
			Eta:          t.Eta,
			ChirpMass:    units.ConvertMass(t.ChirpMass, massUnits),
			EllipseA:     t.Ellipse.A,
			EllipseB:     t.Ellipse.B,
			EllipseTheta: t.Ellipse.Theta,
		}
	}
	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes templates as CSV with a header row.
func WriteCSV(w io.Writer, templates []bank.Template, massUnits string) error {
	rows, err := Rows(templates, massUnits)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.ID),
			formatFloat(r.T0),
			formatFloat(r.T3),
			formatFloat(r.Mass1),
			formatFloat(r.Mass2),
			formatFloat(r.TotalMass),
			formatFloat(r.Eta),
			formatFloat(r.ChirpMass),
			formatFloat(r.EllipseA),
			formatFloat(r.EllipseB),
			formatFloat(r.EllipseTheta),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes b as an indented Document.
func WriteJSON(w io.Writer, b *bank.Bank, massUnits string) error {
	rows, err := Rows(b.Templates, massUnits)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		MassUnits: massUnits,
		Params:    b.Params,
		Stats:     b.Stats,
		Templates: rows,
	})
}

// ReadJSON reads a Document written by WriteJSON.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode bank document: %w", err)
	}
	return &doc, nil
}

// WriteFile writes b to path, choosing CSV or JSON by extension.
func WriteFile(path string, b *bank.Bank, massUnits string) (err error) {
	ext := filepath.Ext(path)
	if ext != ".csv" && ext != ".json" {
		return fmt.Errorf("output file must have .csv or .json extension, got %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if ext == ".csv" {
		return WriteCSV(f, b.Templates, massUnits)
	}
	return WriteJSON(f, b, massUnits)
}
