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

var riskJSON bool

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Risk KPIs, backlog and bottlenecks for the filtered processes",
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

		v := d.Risk(fl)
		if riskJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}
		formatRisk(os.Stdout, v)
		return nil
	},
}

func formatRisk(w io.Writer, v *dashboard.RiskView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Processos\t%d\n", v.Total)
	fmt.Fprintf(tw, "Ativos\t%d\n", v.Active)
	fmt.Fprintf(tw, "Encerrados\t%d\n", v.Closed)
	if v.MedianOpenDays != nil {
		fmt.Fprintf(tw, "Mediana em aberto (dias)\t%.0f\n", *v.MedianOpenDays)
	}
	if v.MedianTramitDays != nil {
		fmt.Fprintf(tw, "Mediana tramitação (dias)\t%.0f\n", *v.MedianTramitDays)
	}
	tw.Flush()

	if len(v.BandDistribution) > 0 {
		fmt.Fprintln(w, "\nFaixas de risco:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vc := range v.BandDistribution {
			label := vc.Value
			if label == "" {
				label = "(sem faixa)"
			}
			fmt.Fprintf(tw, "  %s\t%d\n", label, vc.Count)
		}
		tw.Flush()
	}
	if len(v.Backlog) > 0 {
		fmt.Fprintln(w, "\nBacklog por ano (ativos/encerrados):")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, ya := range v.Backlog {
			fmt.Fprintf(tw, "  %d\t%d\t%d\n", ya.Year, ya.Active, ya.Closed)
		}
		tw.Flush()
	}
	if len(v.TopPhases) > 0 {
		fmt.Fprintln(w, "\nFases com mais processos:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vc := range v.TopPhases {
			fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
		}
		tw.Flush()
	}
	if len(v.TopAgencies) > 0 {
		fmt.Fprintln(w, "\nÓrgãos com mais processos:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, vc := range v.TopAgencies {
			fmt.Fprintf(tw, "  %s\t%d\n", vc.Value, vc.Count)
		}
		tw.Flush()
	}
}

func init() {
	registerFilterFlags(riskCmd)
	riskCmd.Flags().BoolVar(&riskJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(riskCmd)
}
