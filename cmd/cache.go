package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/seres-labs/regdash/internal/dataset"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed-table cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Parse every gold table and fill the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newCache()
		if err != nil {
			return err
		}
		if cache == nil {
			return eris.New("cache: driver is off, nothing to warm")
		}
		defer cache.Close()

		loader := dataset.NewLoader(cfg.Data.Dirs, cache)
		m, err := loader.LoadModel(cmd.Context())
		if err != nil {
			return err
		}

		dims := 0
		for _, name := range dataset.DimNames {
			if m.Dim(name) != nil {
				dims++
			}
		}
		fmt.Printf("Cached %d dimension table(s), fact table present: %v\n", dims, m.HasFact())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := newCache()
		if err != nil {
			return err
		}
		if cache == nil {
			return nil
		}
		defer cache.Close()

		if err := cache.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Cache cleared.")
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
