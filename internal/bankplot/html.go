package bankplot

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/hexbank/internal/bank"
)

// WriteHTML renders an interactive scatter of the bank's templates, coloured
// by total mass, with the boundary curves as overlaid series.
func WriteHTML(w io.Writer, b *bank.Bank) error {
	if b == nil {
		return fmt.Errorf("bankplot: nil bank")
	}

	data := make([]opts.ScatterData, 0, len(b.Templates))
	masses := make([]float64, 0, len(b.Templates))
	for _, t := range b.Templates {
		data = append(data, opts.ScatterData{Value: []interface{}{t.T0, t.T3, t.TotalMass}})
		masses = append(masses, t.TotalMass)
	}
	minM, maxM := 0.0, 1.0
	if len(masses) > 0 {
		minM, maxM = floats.Min(masses), floats.Max(masses)
	}

	box := b.Params.Box
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Template Bank", Theme: "dark", Width: "1000px", Height: "760px"}),
		charts.WithTitleOpts(opts.Title{Title: "Template Bank", Subtitle: fmt.Sprintf("templates=%d cells=%d passes=%d", len(b.Templates), b.Stats.Cells, b.Stats.Passes)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: box.T0Min, Max: box.T0Max, Name: "τ0 (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: box.T3Min, Max: box.T3Max, Name: "τ3 (s)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(minM),
			Max:        float32(maxM),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}},
		}),
	)
	scatter.AddSeries("templates", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 4}))

	for _, curve := range BoundaryCurves(b.Params) {
		pts := make([]opts.ScatterData, 0, len(curve.Points))
		for _, q := range curve.Points {
			if math.IsNaN(q.T3) {
				continue
			}
			pts = append(pts, opts.ScatterData{Value: []interface{}{q.T0, q.T3}})
		}
		scatter.AddSeries(curve.Name, pts, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 1}))
	}

	return scatter.Render(w)
}
