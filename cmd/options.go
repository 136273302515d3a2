package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the filter values present in the loaded model",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, closeEnv, err := initDashboard(cmd.Context())
		if err != nil {
			return err
		}
		defer closeEnv()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d.Options())
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
