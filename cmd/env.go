package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seres-labs/regdash/internal/dashboard"
	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/filter"
)

// newCache builds the table cache selected by config. Returns nil for the
// "off" driver; the loader treats a nil cache as caching disabled.
func newCache() (dataset.Cache, error) {
	switch cfg.Data.Cache.Driver {
	case "", "memory":
		return dataset.NewMemoryCache(), nil
	case "sqlite":
		return dataset.NewSQLiteCache(cfg.Data.Cache.Path)
	case "off":
		return nil, nil
	default:
		return nil, eris.Errorf("unknown cache driver %q (want memory, sqlite or off)", cfg.Data.Cache.Driver)
	}
}

// initDashboard loads the model and builds the scored dashboard. The one
// user-facing failure is a missing fact table, which gets a plain message
// instead of a stack trace.
func initDashboard(ctx context.Context) (*dashboard.Dashboard, func(), error) {
	cache, err := newCache()
	if err != nil {
		return nil, nil, err
	}
	closeCache := func() {
		if cache != nil {
			if err := cache.Close(); err != nil {
				zap.L().Warn("cache close failed", zap.Error(err))
			}
		}
	}

	loader := dataset.NewLoader(cfg.Data.Dirs, cache)
	model, err := loader.LoadModel(ctx)
	if err != nil {
		closeCache()
		return nil, nil, err
	}

	d, err := dashboard.New(model, cfg.Risk)
	if err != nil {
		closeCache()
		if eris.Is(err, dashboard.ErrNoFact) {
			fmt.Fprintf(os.Stderr, "Fact table not found under %s.\nRun the data pipeline first, or point data.dirs at its output.\n",
				strings.Join(cfg.Data.Dirs, ", "))
		}
		return nil, nil, err
	}
	return d, closeCache, nil
}

// Filter flags shared by the summary and risk commands.
var (
	flagYears      []int
	flagUFs        []string
	flagModalities []string
	flagCategories []string
	flagBands      []string
	flagSituation  string
)

func registerFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceVar(&flagYears, "ano", nil, "filter by protocol year (repeatable)")
	cmd.Flags().StringSliceVar(&flagUFs, "uf", nil, "filter by UF (repeatable)")
	cmd.Flags().StringSliceVar(&flagModalities, "modalidade", nil, "filter by modality (repeatable)")
	cmd.Flags().StringSliceVar(&flagCategories, "categoria", nil, "filter by public/private category (repeatable)")
	cmd.Flags().StringSliceVar(&flagBands, "faixa", nil, "filter by risk band (repeatable)")
	cmd.Flags().StringVar(&flagSituation, "situacao", filter.SituationAll, "process situation: todos, ativos or encerrados")
}

func filtersFromFlags() (filter.Filters, error) {
	f := filter.Filters{
		Regions:       flagUFs,
		Modalities:    flagModalities,
		PublicPrivate: flagCategories,
		RiskBands:     flagBands,
		Situation:     flagSituation,
	}
	for _, y := range flagYears {
		f.Years = append(f.Years, int64(y))
	}
	switch f.Situation {
	case filter.SituationAll, filter.SituationActive, filter.SituationClosed:
	default:
		return filter.Filters{}, eris.Errorf("unknown situacao %q (want todos, ativos or encerrados)", f.Situation)
	}
	return f, nil
}

// filtersFromQuery maps the API query parameters onto a filter selection.
// Repeated parameters and comma-separated values both work.
func filtersFromQuery(q map[string][]string) (filter.Filters, error) {
	f := filter.Filters{Situation: filter.SituationAll}

	for _, raw := range splitQuery(q["ano"]) {
		y, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter.Filters{}, eris.Errorf("bad ano %q", raw)
		}
		f.Years = append(f.Years, y)
	}
	f.Regions = splitQuery(q["uf"])
	f.Modalities = splitQuery(q["modalidade"])
	f.PublicPrivate = splitQuery(q["categoria"])
	f.RiskBands = splitQuery(q["faixa"])

	if vals := splitQuery(q["situacao"]); len(vals) > 0 {
		switch vals[0] {
		case filter.SituationAll, filter.SituationActive, filter.SituationClosed:
			f.Situation = vals[0]
		default:
			return filter.Filters{}, eris.Errorf("bad situacao %q", vals[0])
		}
	}
	return f, nil
}

func splitQuery(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
