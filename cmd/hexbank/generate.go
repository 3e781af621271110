package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bankdb"
	"github.com/banshee-data/hexbank/internal/bankplot"
	"github.com/banshee-data/hexbank/internal/config"
	"github.com/banshee-data/hexbank/internal/export"
)

type generateOptions struct {
	configPath string
	out        string
	dbPath     string
	label      string
	png        string
	html       string
	massUnits  string

	mismatch float64
	fLower   float64
	massMin  float64
	massMax  float64
	etaMin   float64
	maxCells int
}

func newGenerateCmd(env config.Env) *cobra.Command {
	var o generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a template bank",
		Long: `Build a template bank from a configuration file and/or flags.

Flags override values from --config. The bank can be written to a CSV or
JSON file, stored in a bank database, and plotted as PNG or HTML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			provider, err := cfg.Provider()
			if err != nil {
				return err
			}
			b, err := bank.Build(cfg.GridParam(), provider, nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "built %d templates (%d cells, %d passes, %d edge cells, %d stitched, %d corrected)\n",
				len(b.Templates), b.Stats.Cells, b.Stats.Passes, b.Stats.EdgeCells, b.Stats.Stitched, b.Stats.Corrected)
			return writeOutputs(cmd, b, outputs{
				out:       o.out,
				png:       o.png,
				html:      o.html,
				massUnits: cfg.GetMassUnits(),
				dbPath:    o.dbPath,
				label:     o.label,
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", env.ConfigPath, "Bank configuration file (.json, .yaml or .yml; HEXBANK_CONFIG)")
	f.StringVarP(&o.out, "out", "o", "", "Write templates to this .csv or .json file")
	f.StringVar(&o.dbPath, "db", "", "Store the bank in this SQLite database")
	f.StringVar(&o.label, "label", "", "Label for the stored bank")
	f.StringVar(&o.png, "png", "", "Plot the bank to this image file")
	f.StringVar(&o.html, "html", "", "Write an interactive HTML chart to this file")
	f.StringVar(&o.massUnits, "mass-units", "", "Mass units for output (msun, kg, s)")
	f.Float64Var(&o.mismatch, "mismatch", 0, "Minimum match mismatch, in (0, 1)")
	f.Float64Var(&o.fLower, "f-lower", 0, "Low-frequency cutoff in Hz")
	f.Float64Var(&o.massMin, "mass-min", 0, "Minimum component mass in solar masses")
	f.Float64Var(&o.massMax, "mass-max", 0, "Maximum component mass in solar masses")
	f.Float64Var(&o.etaMin, "eta-min", 0, "Symmetric mass ratio floor")
	f.IntVar(&o.maxCells, "max-cells", 0, "Cap on stored cells (0 for none)")
	return cmd
}

// config loads --config, or the empty config, and applies flag overrides.
func (o *generateOptions) config(cmd *cobra.Command) (*config.BankConfig, error) {
	cfg := config.EmptyBankConfig()
	if o.configPath != "" {
		loaded, err := config.LoadBankConfig(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("mismatch") {
		cfg.MinimumMismatch = &o.mismatch
	}
	if f.Changed("f-lower") {
		cfg.FLower = &o.fLower
	}
	if f.Changed("mass-min") {
		cfg.MassMin = &o.massMin
	}
	if f.Changed("mass-max") {
		cfg.MassMax = &o.massMax
	}
	if f.Changed("eta-min") {
		cfg.EtaMin = &o.etaMin
	}
	if f.Changed("max-cells") {
		cfg.MaxCells = &o.maxCells
	}
	if f.Changed("mass-units") {
		cfg.MassUnits = &o.massUnits
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type outputs struct {
	out       string
	png       string
	html      string
	massUnits string
	dbPath    string
	label     string
}

// writeOutputs writes every requested artefact for b. Files are written
// concurrently; b is only read.
func writeOutputs(cmd *cobra.Command, b *bank.Bank, o outputs) error {
	w := cmd.OutOrStdout()

	var files []string
	var g errgroup.Group
	if o.out != "" {
		files = append(files, o.out)
		g.Go(func() error { return export.WriteFile(o.out, b, o.massUnits) })
	}
	if o.png != "" {
		files = append(files, o.png)
		g.Go(func() error { return bankplot.SavePNG(o.png, b) })
	}
	if o.html != "" {
		files = append(files, o.html)
		g.Go(func() error { return writeHTMLFile(o.html, b) })
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(w, "wrote %s\n", f)
	}

	if o.dbPath != "" {
		db, err := bankdb.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		id, err := db.SaveBank(b, o.label)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "stored bank %s in %s\n", id, o.dbPath)
	}
	return nil
}
