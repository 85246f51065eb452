package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/physiosim/internal/analysis"
	"github.com/san-kum/physiosim/internal/api"
	"github.com/san-kum/physiosim/internal/config"
	"github.com/san-kum/physiosim/internal/interaction"
	"github.com/san-kum/physiosim/internal/optim"
	"github.com/san-kum/physiosim/internal/pkpd"
	"github.com/san-kum/physiosim/internal/report"
	"github.com/san-kum/physiosim/internal/serum"
)

var (
	frequency    string
	ester        string
	ranges       []string
	objective    string
	maxRisk      float64
	workers      int
	surfaceSteps int
	sweepSteps   int
)

func frontLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frontload [compound] [weekly_mg]",
		Short: "suggest a first-pin dose that reaches steady state sooner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			c, ok := ref.Compound(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", pkpd.ErrUnknownCompound, args[0])
			}
			weekly, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad weekly dose %q: %w", args[1], err)
			}
			fl, ok := serum.CalculateFrontLoad(c, weekly, pkpd.ParseFrequency(frequency), ester)
			if !ok {
				return fmt.Errorf("weekly dose must be positive")
			}
			if jsonOut {
				return printJSON(fl)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "compound\t%s\n", fl.Compound)
			fmt.Fprintf(w, "interval\t%.1f days\n", fl.IntervalDays)
			fmt.Fprintf(w, "maintenance\t%.0f mg\n", fl.MaintenanceDose)
			fmt.Fprintf(w, "front load\t%.0f mg\n", fl.FrontLoadDose)
			fmt.Fprintf(w, "accumulation\t%.2fx\n", fl.Accumulation)
			fmt.Fprintf(w, "weeks saved\t%d\n", fl.WeeksSaved)
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Println(fl.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&frequency, "freq", "", "dosing frequency (e.g. 2x/wk, EOD)")
	cmd.Flags().StringVar(&ester, "ester", "", "ester key")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func optimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid-search doses for the best score",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			if len(ranges) == 0 {
				return fmt.Errorf("at least one --vary compound=lo:hi:steps is required")
			}

			names := make([]string, 0, len(ranges))
			grid := make([][]float64, 0, len(ranges))
			for _, spec := range ranges {
				name, r, err := parseRange(spec)
				if err != nil {
					return err
				}
				names = append(names, name)
				grid = append(grid, optim.DoseSteps(r[0], r[1], int(r[2])))
			}

			gs := optim.NewGridSearch(names, grid)
			best, evaluated, err := gs.Search(cmd.Context(), ref, cfg.Stack, optim.Options{
				Profile:       cfg.Profile,
				Goal:          cfg.Goal,
				Sensitivities: cfg.Sensitivities,
				EvidenceBlend: cfg.EvidenceBlend,
				Objective:     optim.Objective(objective),
				MaxRisk:       maxRisk,
				Workers:       workers,
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			if best == nil {
				fmt.Printf("evaluated %d points; none under max risk %.2f\n", evaluated, maxRisk)
				return nil
			}
			if jsonOut {
				return printJSON(best)
			}

			fmt.Printf("evaluated %d points\n\n", evaluated)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "COMPOUND\tDOSE")
			for _, n := range names {
				fmt.Fprintf(w, "%s\t%.1f\n", n, best.Doses[n])
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("\nscore: %.3f\n\n", best.Score)
			fmt.Println(report.Evaluation(best.Result))
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().StringArrayVar(&ranges, "vary", nil, "dose range as compound=lo:hi:steps (repeatable)")
	cmd.Flags().StringVar(&objective, "objective", string(optim.ObjectiveNet), "net or ratio")
	cmd.Flags().Float64Var(&maxRisk, "max-risk", 0, "skip points above this weighted risk (0 disables)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel evaluations (0 uses all cores)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func surfaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surface [pair_id]",
		Short: "tabulate a pair's interaction over its dose grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			pair, ok := ref.PairByID(args[0])
			if !ok {
				return fmt.Errorf("%w: %s (available: %s)", pkpd.ErrUnknownPair, args[0], strings.Join(ref.PairIDs(), ", "))
			}
			opts := interaction.DefaultOptions()
			cells := interaction.Surface(ref, pair, surfaceSteps, opts)
			if jsonOut {
				return printJSON(cells)
			}

			fmt.Printf("%s  heatmap: benefit %.3f  risk %.3f  combined %.3f\n\n", pair.ID,
				interaction.Heatmap(ref, pair, interaction.ModeBenefit, opts),
				interaction.Heatmap(ref, pair, interaction.ModeRisk, opts),
				interaction.Heatmap(ref, pair, interaction.ModeCombined, opts))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(w, "%s\t%s\tBENEFIT\tRISK\tSCORE\t\n", strings.ToUpper(pair.Compounds[0]), strings.ToUpper(pair.Compounds[1]))
			for _, c := range cells {
				fmt.Fprintf(w, "%.0f\t%.0f\t%.3f\t%.3f\t%.3f\t\n", c.DoseA, c.DoseB, c.Benefit, c.Risk, c.Score)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&surfaceSteps, "steps", 0, "grid steps per axis (0 uses the default)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [compound] [lo] [hi]",
		Short: "steady-state serum band across a dose range",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(ref)
			if err != nil {
				return err
			}
			lo, err1 := strconv.ParseFloat(args[1], 64)
			hi, err2 := strconv.ParseFloat(args[2], 64)
			if err1 != nil || err2 != nil || hi <= lo {
				return fmt.Errorf("want numeric lo < hi, got %s %s", args[1], args[2])
			}
			pts, err := analysis.DoseSweep(cmd.Context(), ref, cfg.Stack, args[0], lo, hi, sweepSteps, cfg.Serum)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(pts)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "DOSE\tTROUGH\tMEAN\tPEAK\t")
			for _, p := range pts {
				fmt.Fprintf(w, "%.0f\t%.1f\t%.1f\t%.1f\t\n", p.Dose, p.Trough, p.Mean, p.Peak)
			}
			return w.Flush()
		},
	}
	addRunFlags(cmd)
	cmd.Flags().IntVar(&sweepSteps, "steps", 6, "dose points")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")
	return cmd
}

func compoundsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compounds",
		Short: "list reference compounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCLASS\tUNIT\tPLATEAU\tHALF-LIFE\tESTERS")
			for _, id := range ref.CompoundIDs() {
				c, _ := ref.Compound(id)
				unit := "mg/wk"
				if c.IsTablet() {
					unit = "mg/day"
				}
				esters := make([]string, 0, len(c.Esters))
				for e := range c.Esters {
					esters = append(esters, e)
				}
				sort.Strings(esters)
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%.0fh\t%s\n",
					c.ID, c.Name, c.Class, unit, c.BenefitCurve.PlateauDose(), c.HalfLifeHours, strings.Join(esters, ","))
			}
			return w.Flush()
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [goal]",
		Short: "list preset regimens",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			goals := config.Goals()
			if len(args) == 1 {
				goals = []string{args[0]}
			}
			for _, g := range goals {
				presets := config.ListPresets(g)
				if len(presets) == 0 {
					fmt.Printf("no presets for goal: %s\n", g)
					continue
				}
				fmt.Printf("presets for %s:\n", g)
				for _, p := range presets {
					fmt.Printf("  %s/%s\n", g, p)
				}
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := loadReference()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.New(ref, logger).Run(ctx, settings.GetString("listen"))
		},
	}
	cmd.Flags().String("listen", ":8080", "listen address")
	_ = settings.BindPFlag("listen", cmd.Flags().Lookup("listen"))
	return cmd
}
