package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/metrics"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/report"
	"github.com/san-kum/physiosim/internal/response"
	"github.com/san-kum/physiosim/internal/serum"
	"github.com/san-kum/physiosim/internal/stack"
	"github.com/san-kum/physiosim/internal/storage"
	"github.com/san-kum/physiosim/internal/systemic"
)

var (
	dtHours      float64
	durationDays float64
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func evaluateConfig(ref *pkpd.Reference, cfg *config.Config) stack.Result {
	return cfg.Evaluate(ref)
}

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "score a stack's benefit and risk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			res := evaluateConfig(ref, cfg)
			if jsonOut {
				return printJSON(res)
			}
			fmt.Println(report.Evaluation(res))
			if notes := report.Narrative(response.Narrative(cfg.Profile)); notes != "" {
				fmt.Println(notes)
			}
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "project organ load, labs and gains for a stack",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			snap := systemic.CalculateCycleMetrics(ref, cfg.Stack, cfg.SystemicOptions())
			if jsonOut {
				return printJSON(snap)
			}
			fmt.Println(report.Snapshot(snap))
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func addSerumFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dtHours, "dt", serum.DefaultDtHours, "step in hours")
	cmd.Flags().Float64Var(&durationDays, "days", 0, "duration in days (0 picks from half-lives)")
}

// simulate runs the serum curve with the standard metric set on the total.
func simulate(ctx context.Context, ref *pkpd.Reference, cfg *config.Config, cmd *cobra.Command) (*serum.Result, error) {
	sc := cfg.Serum
	if cmd.Flags().Changed("dt") || sc.DtHours == 0 {
		sc.DtHours = dtHours
	}
	if cmd.Flags().Changed("days") {
		sc.DurationDays = durationDays
	}
	days := sc.DurationDays
	if days == 0 {
		days = serum.DurationDays(ref, cfg.Stack)
	}

	sim := serum.New(ref)
	for _, m := range metrics.Standard(serum.SeriesTotal, metrics.SteadyWindowStart(days)) {
		sim.AddMetric(m)
	}
	return sim.Run(ctx, cfg.Stack, sc)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate, snapshot and simulate a stack, then save the run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}

			start := time.Now()
			eval := evaluateConfig(ref, cfg)
			snap := systemic.CalculateCycleMetrics(ref, cfg.Stack, cfg.SystemicOptions())
			res, err := simulate(cmd.Context(), ref, cfg, cmd)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			runID, err := st.Save(cfg, storage.Summarize(eval, snap), res)
			if err != nil {
				return err
			}
			logger.Debug("run complete", zap.String("id", runID), zap.Duration("elapsed", elapsed))

			fmt.Println(report.Evaluation(eval))
			fmt.Println(report.Snapshot(snap))
			fmt.Println(report.SerumMetrics(res))
			fmt.Printf("completed in %v\n", elapsed)
			fmt.Printf("run id: %s\n", runID)
			return nil
		},
	}
	addRunFlags(cmd)
	addSerumFlags(cmd)
	return cmd
}

func serumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serum",
		Short: "simulate and plot serum levels without saving",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			res, err := simulate(cmd.Context(), ref, cfg, cmd)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(res)
			}
			plotSeries(res)
			fmt.Println(report.SerumMetrics(res))
			return nil
		},
	}
	addRunFlags(cmd)
	addSerumFlags(cmd)
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

// plotSeries draws one chart per compound and one for the total.
func plotSeries(res *serum.Result) {
	const maxPlots = 6
	series := append([]string{}, res.Compounds...)
	if len(series) > maxPlots-1 {
		series = series[:maxPlots-1]
	}
	series = append(series, serum.SeriesTotal)

	for _, name := range series {
		data := res.Series(name)
		if len(data) == 0 {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s (mg) over %.0f days", name, res.Hours[len(res.Hours)-1]/24)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
}
