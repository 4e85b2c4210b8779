package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/infra/logger"
	"github.com/kilianp07/assetplan/pkg/export"
)

var combinationsOpts struct {
	out    string
	format string
}

var combinationsCmd = &cobra.Command{
	Use:   "combinations",
	Short: "List the candidate machine combinations of the configured fleet",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runCombinations(cmd.OutOrStdout(), cfg, combinationsOpts.out, combinationsOpts.format)
	},
}

func init() {
	f := combinationsCmd.Flags()
	f.StringVarP(&combinationsOpts.out, "out", "o", "", "output file, stdout when empty")
	f.StringVar(&combinationsOpts.format, "format", "", "csv, xlsx or json; inferred from --out")
	rootCmd.AddCommand(combinationsCmd)
}

func runCombinations(w io.Writer, cfg *config.Config, out, format string) error {
	format, err := resolveFormat(format, out)
	if err != nil {
		return err
	}
	if format == "xlsx" && out == "" {
		return fmt.Errorf("xlsx output needs --out")
	}
	planners := planner.NewFactory(cfg.Fleet.Fleet(), cfg.Assign, planner.Deps{
		Log: logger.New("planner"),
	})
	cands, err := planners.Candidates()
	if err != nil {
		return err
	}
	return writeOutput(w, out, func(w io.Writer) error {
		switch format {
		case "xlsx":
			return export.WriteXLSX(w, export.Sheet{Name: "combinations", Table: export.CombinationsTable(cands)})
		case "json":
			return export.WriteJSON(w, cands)
		default:
			return export.WriteCombinationsCSV(w, cands)
		}
	})
}
