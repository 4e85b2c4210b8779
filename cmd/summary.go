package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/tabular"
	"github.com/kilianp07/assetplan/infra/ingest"
	"github.com/kilianp07/assetplan/pkg/export"
)

type summaryFlags struct {
	input string
	sheet string
	out   string
	merge string
	view  string
}

var summaryOpts summaryFlags

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize plant databases per load band",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runSummary(cmd.OutOrStdout(), cfg, summaryOpts)
	},
}

func init() {
	f := summaryCmd.Flags()
	f.StringVarP(&summaryOpts.input, "input", "i", "", "plant database file (csv, txt, tsv, xlsx)")
	f.StringVar(&summaryOpts.sheet, "sheet", "", "Excel sheet, defaults to the first one")
	f.StringVarP(&summaryOpts.out, "out", "o", "", "output file, stdout when empty")
	f.StringVar(&summaryOpts.merge, "merge", "", "groups to merge, e.g. \"0,1;2\"; overrides summary.merge")
	f.StringVar(&summaryOpts.view, "view", "summary", "summary or merged (csv output only)")
	_ = summaryCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(w io.Writer, cfg *config.Config, o summaryFlags) error {
	format, err := resolveFormat("", o.out)
	if err != nil {
		return err
	}
	if format == "json" {
		return fmt.Errorf("summary is available as csv or xlsx")
	}
	if format == "xlsx" && o.out == "" {
		return fmt.Errorf("xlsx output needs --out")
	}
	if o.view != "summary" && o.view != "merged" {
		return fmt.Errorf("unknown view %q", o.view)
	}

	readOpts := cfg.Ingest.ReadOptions()
	if o.sheet != "" {
		readOpts.Sheet = o.sheet
	}
	t, err := ingest.ReadFile(o.input, readOpts)
	if err != nil {
		return err
	}
	merges := cfg.Summary.Merge
	if o.merge != "" {
		if merges, err = tabular.ParseMergeSets(o.merge); err != nil {
			return err
		}
	}
	reports, err := tabular.BuildReports(t, cfg.Summary.Groups, merges, cfg.Summary.Bands)
	if err != nil {
		return fmt.Errorf("%s: %w", o.input, err)
	}

	return writeOutput(w, o.out, func(w io.Writer) error {
		if format == "xlsx" {
			return export.WriteXLSX(w,
				export.Sheet{Name: "summary", Table: tabular.SummaryTable(reports)},
				export.Sheet{Name: "merged", Table: tabular.MergedTable(reports)},
			)
		}
		if o.view == "merged" {
			return export.WriteTableCSV(w, tabular.MergedTable(reports))
		}
		return export.WriteTableCSV(w, tabular.SummaryTable(reports))
	})
}
