package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/assetplan/config"
	"github.com/kilianp07/assetplan/core/assign"
	coremetrics "github.com/kilianp07/assetplan/core/metrics"
	"github.com/kilianp07/assetplan/core/planner"
	"github.com/kilianp07/assetplan/core/runlog"
	"github.com/kilianp07/assetplan/core/tabular"
	"github.com/kilianp07/assetplan/infra/ingest"
	"github.com/kilianp07/assetplan/infra/logger"
	_ "github.com/kilianp07/assetplan/infra/metrics"
	_ "github.com/kilianp07/assetplan/infra/mqtt"
	"github.com/kilianp07/assetplan/pkg/export"
)

type assignFlags struct {
	input  string
	power  string
	time   string
	sheet  string
	policy string
	out    string
	format string
}

var assignOpts assignFlags

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign a machine combination to every row of a demand file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runAssign(cmd, cfg, assignOpts)
	},
}

func init() {
	f := assignCmd.Flags()
	f.StringVarP(&assignOpts.input, "input", "i", "", "demand file (csv, txt, tsv, xlsx)")
	f.StringVar(&assignOpts.power, "power", "", "power column, overrides ingest.columns.power")
	f.StringVar(&assignOpts.time, "time", "", "timestamp column, overrides ingest.columns.time")
	f.StringVar(&assignOpts.sheet, "sheet", "", "Excel sheet, defaults to the first one")
	f.StringVar(&assignOpts.policy, "policy", "", "selection policy, overrides assign.policy")
	f.StringVarP(&assignOpts.out, "out", "o", "", "output file, stdout when empty")
	f.StringVar(&assignOpts.format, "format", "", "csv, xlsx or json; inferred from --out")
	_ = assignCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, cfg *config.Config, o assignFlags) (err error) {
	format, err := resolveFormat(o.format, o.out)
	if err != nil {
		return err
	}
	if format == "xlsx" && o.out == "" {
		return fmt.Errorf("xlsx output needs --out")
	}
	logg := logger.New("assign")

	readOpts := cfg.Ingest.ReadOptions()
	if o.sheet != "" {
		readOpts.Sheet = o.sheet
	}
	t, err := ingest.ReadFile(o.input, readOpts)
	if err != nil {
		return err
	}
	cols := cfg.Ingest.Columns
	if o.power != "" {
		cols.Power = o.power
	}
	if o.time != "" {
		cols.Time = o.time
	}
	series, skipped, err := tabular.ExtractDemand(t, cols, cfg.Ingest.ExtractOptions())
	if err != nil {
		return fmt.Errorf("%s: %w", o.input, err)
	}
	if skipped > 0 {
		logg.Warnf("skipped %d invalid rows in %s", skipped, o.input)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	defer coremetrics.Close(sink)
	store, err := runlog.NewStore(cfg.RunLog)
	if err != nil {
		return fmt.Errorf("run store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	planners := planner.NewFactory(cfg.Fleet.Fleet(), cfg.Assign, planner.Deps{
		Sink:  sink,
		Store: store,
		Log:   logger.New("planner"),
	})
	p, err := planners.Get(assign.Policy(o.policy))
	if err != nil {
		return err
	}
	plan, err := p.Plan(cmd.Context(), o.input, series)
	if err != nil {
		if plan == nil {
			return err
		}
		logg.Errorf("plan %s: %v", plan.ID, err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "xlsx":
		err = writeOutput(out, o.out, func(w io.Writer) error {
			return export.WriteXLSX(w,
				export.Sheet{Name: "assignments", Table: export.AssignmentsTable(plan.Assignments)},
				export.Sheet{Name: "usage", Table: export.UsageTable(plan.Usage())},
			)
		})
	case "json":
		err = writeOutput(out, o.out, func(w io.Writer) error {
			return export.WriteJSON(w, struct {
				*planner.Plan
				Usage []planner.CombinationUsage `json:"usage"`
			}{plan, plan.Usage()})
		})
	default:
		err = writeOutput(out, o.out, func(w io.Writer) error {
			return export.WriteAssignmentsCSV(w, plan.Assignments)
		})
		if err == nil && o.out != "" {
			err = writeOutput(out, siblingPath(o.out, ".usage.csv"), func(w io.Writer) error {
				return export.WriteUsageCSV(w, plan.Usage())
			})
		}
	}
	if err != nil {
		return err
	}
	logg.Infof("plan %s: %d rows, %d unassigned, %d below min load",
		plan.ID, plan.Stats.Rows, plan.Stats.Unassigned, plan.Stats.BelowMinLoad)
	return nil
}
