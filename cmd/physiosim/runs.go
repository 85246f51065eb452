package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/physiosim/internal/analysis"
	"github.com/san-kum/physiosim/internal/export"
	"github.com/san-kum/physiosim/internal/report"
	"github.com/san-kum/physiosim/internal/storage"
)

var svgOut string

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			runs, err := st.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tGOAL\tCOMPOUNDS\tNET\tLOAD\tDOMINANT")
			for _, run := range runs {
				goal := ""
				if run.Config != nil {
					goal = run.Config.Goal
				}
				flag := ""
				if run.Summary.IsCritical {
					flag = " !"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f\t%.1f%s\t%s\n",
					run.ID,
					run.Name,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					goal,
					len(run.Compounds),
					run.Summary.NetScore,
					run.Summary.SystemLoad, flag,
					run.Summary.Dominant,
				)
			}
			return w.Flush()
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			return printJSON(meta)
		},
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run's serum curves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			res, err := st.LoadSeries(args[0])
			if err != nil {
				return err
			}
			if len(res.Hours) == 0 {
				return fmt.Errorf("no data to plot")
			}
			res.Metrics = meta.Metrics

			if svgOut != "" {
				f, err := os.Create(svgOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := export.WriteSerumSVG(f, res, 960, 360); err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", svgOut)
				return nil
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("samples: %d\n\n", len(res.Hours))
			plotSeries(res)
			fmt.Println(report.SerumMetrics(res))
			return nil
		},
	}
	cmd.Flags().StringVar(&svgOut, "svg", "", "write an SVG chart to this path instead")
	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find the dominant oscillation period of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			res, err := st.LoadSeries(args[0])
			if err != nil {
				return err
			}
			from := analysis.SteadyStart(res)
			sp := analysis.DominantPeriod(res.Total, res.Hours, from)
			if sp.PeriodHours == 0 {
				fmt.Println("no oscillation in the steady window")
				return nil
			}
			fmt.Printf("steady window from day %.1f\n", from/24)
			fmt.Printf("dominant period: %.1f h (%.2f days)\n", sp.PeriodHours, sp.PeriodHours/24)
			return nil
		},
	}
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			res, err := st.LoadSeries(args[0])
			if err != nil {
				return err
			}
			res.Metrics = meta.Metrics
			return storage.ExportJSON(os.Stdout, meta, res)
		},
	}
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			res, err := st.LoadSeries(args[0])
			if err != nil {
				return err
			}
			return storage.ExportCSV(os.Stdout, res)
		},
	}
}
