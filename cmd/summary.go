package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seres-labs/regdash/internal/dashboard"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overview KPIs and breakdowns for the filtered processes",
	RunE: func(cmd *cobra.Command, args []string) error {
		fl, err := filtersFromFlags()
		if err != nil {
			return err
		}

		d, closeEnv, err := initDashboard(cmd.Context())
		if err != nil {
			return err
		}
		defer closeEnv()

		s := d.Summary(fl)
		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}
		formatSummary(os.Stdout, s)
		return nil
	},
}

func formatSummary(w io.Writer, s *dashboard.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Processos\t%d\n", s.Total)
	fmt.Fprintf(tw, "%% Encerrados\t%.1f\n", s.PctClosed)
	if s.MedianTramit != nil {
		fmt.Fprintf(tw, "Mediana tramitação (dias)\t%.0f\n", *s.MedianTramit)
	} else {
		fmt.Fprintf(tw, "Mediana tramitação (dias)\t-\n")
	}
	fmt.Fprintf(tw, "%% Risco alto\t%.1f\n", s.PctHighRisk)
	tw.Flush()

	if len(s.VolumeByYear) > 0 {
		fmt.Fprintln(w, "\nVolume por ano:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, yc := range s.VolumeByYear {
			fmt.Fprintf(tw, "  %d\t%d\n", yc.Year, yc.Count)
		}
		tw.Flush()
	}
	if len(s.ByRegion) > 0 {
		fmt.Fprintln(w, "\nPor UF:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vc := range s.ByRegion {
			fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
		}
		tw.Flush()
	}
	if len(s.ByModality) > 0 {
		fmt.Fprintln(w, "\nPor modalidade:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vc := range s.ByModality {
			fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
		}
		tw.Flush()
	}
}

func init() {
	registerFilterFlags(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(summaryCmd)
}
