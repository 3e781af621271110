package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/banshee-data/hexbank/internal/bank"
	"github.com/banshee-data/hexbank/internal/bankdb"
	"github.com/banshee-data/hexbank/internal/bankplot"
	"github.com/banshee-data/hexbank/internal/config"
	"github.com/banshee-data/hexbank/internal/units"
)

func newListCmd(env config.Env) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List banks stored in a database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := bankdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			records, err := db.ListBanks()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tCREATED\tTEMPLATES\tMASSES")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%g-%g\n",
					r.ID, r.Label, r.CreatedAt.UTC().Format(time.RFC3339), r.TemplateCount,
					r.Params.MassMin, r.Params.MassMax)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", env.DBPath, "Bank database (HEXBANK_DB)")
	return cmd
}

func newDeleteCmd(env config.Env) *cobra.Command {
	var dbPath, id string
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a stored bank and its templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := bankdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteBank(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted bank %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", env.DBPath, "Bank database (HEXBANK_DB)")
	cmd.Flags().StringVar(&id, "id", "", "Bank id (see list)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// newMigrateCmd manages the database schema directly. Other commands
// migrate up on open.
func newMigrateCmd(env config.Env) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:       "migrate (up|down|version)",
		Short:     "Apply or roll back schema migrations, or show the schema version",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := bankdb.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			switch args[0] {
			case "up":
				err = db.MigrateUp()
			case "down":
				err = db.MigrateDown()
			}
			if err != nil {
				return err
			}
			version, dirty, err := db.MigrateVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %v)\n", version, dirty)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", env.DBPath, "Bank database (HEXBANK_DB)")
	return cmd
}

func newExportCmd(env config.Env) *cobra.Command {
	var (
		dbPath    string
		id        string
		out       string
		png       string
		html      string
		massUnits string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored bank to CSV, JSON, PNG or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" && png == "" && html == "" {
				return fmt.Errorf("nothing to export: set --out, --png or --html")
			}
			if !units.IsValid(massUnits) {
				return fmt.Errorf("mass-units must be one of %s, got %q", units.GetValidUnitsString(), massUnits)
			}
			db, err := bankdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			b, err := loadBank(db, id)
			if err != nil {
				return err
			}
			return writeOutputs(cmd, b, outputs{out: out, png: png, html: html, massUnits: massUnits})
		},
	}
	f := cmd.Flags()
	f.StringVar(&dbPath, "db", env.DBPath, "Bank database (HEXBANK_DB)")
	f.StringVar(&id, "id", "", "Bank id (see list)")
	f.StringVarP(&out, "out", "o", "", "Write templates to this .csv or .json file")
	f.StringVar(&png, "png", "", "Plot the bank to this image file")
	f.StringVar(&html, "html", "", "Write an interactive HTML chart to this file")
	f.StringVar(&massUnits, "mass-units", units.MSun, "Mass units for output (msun, kg, s)")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

// loadBank rebuilds a bank from its stored record and templates.
func loadBank(db *bankdb.DB, id string) (*bank.Bank, error) {
	rec, err := db.GetBank(id)
	if err != nil {
		return nil, err
	}
	templates, err := db.LoadTemplates(id)
	if err != nil {
		return nil, err
	}
	return &bank.Bank{Params: rec.Params, Stats: rec.Stats, Templates: templates}, nil
}

func writeHTMLFile(path string, b *bank.Bank) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return bankplot.WriteHTML(f, b)
}
