// Package dashboard composes the loaded model, the risk scorer, the
// filter engine and the aggregate metrics into the views consumed by the
// CLI and the HTTP API.
package dashboard

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/seres-labs/regdash/internal/config"
	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/filter"
	"github.com/seres-labs/regdash/internal/metrics"
	"github.com/seres-labs/regdash/internal/risk"
	"github.com/seres-labs/regdash/internal/table"
)

// ErrNoFact signals that the primary dataset is absent or empty. The
// presentation layer shows guidance instead of views; nothing else about
// the session is an error.
var ErrNoFact = eris.New("dashboard: fact table not available (generate fato_processo_regulatorio and place it under a configured data dir)")

// Dashboard holds a scored, bound model ready for filtering.
type Dashboard struct {
	model  *dataset.Model
	scorer *risk.Scorer
	facts  *dataset.Facts
}

// New scores the model's fact table once and binds the result. Returns
// ErrNoFact when the primary dataset is missing or empty.
func New(model *dataset.Model, cfg config.RiskConfig) (*Dashboard, error) {
	if !model.HasFact() {
		return nil, ErrNoFact
	}
	if err := risk.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	scorer := risk.New(cfg)
	scored := scorer.Score(dataset.BindFacts(model.Fact))
	facts := dataset.BindFacts(scored)

	zap.L().Info("dashboard: model ready",
		zap.Int("records", facts.Table.NumRows()),
		zap.Int("columns", len(facts.Table.Columns())),
	)
	return &Dashboard{model: model, scorer: scorer, facts: facts}, nil
}

// Options lists the selectable values for every filter dimension.
type Options struct {
	Years         []int64  `json:"years"`
	Regions       []string `json:"regions"`
	Modalities    []string `json:"modalities"`
	PublicPrivate []string `json:"public_private"`
	RiskBands     []string `json:"risk_bands"`
	Situations    []string `json:"situations"`
}

// Summary carries the overview KPIs and count breakdowns.
type Summary struct {
	Total        int                  `json:"total"`
	PctClosed    float64              `json:"pct_closed"`
	MedianTramit *float64             `json:"median_tramit_days"`
	PctHighRisk  float64              `json:"pct_high_risk"`
	VolumeByYear []metrics.YearCount  `json:"volume_by_year"`
	ByRegion     []metrics.ValueCount `json:"by_region"`
	ByModality   []metrics.ValueCount `json:"by_modality"`
}

// RiskView carries the risk-page KPIs, backlog series and bottlenecks.
type RiskView struct {
	Total            int                  `json:"total"`
	Active           int                  `json:"active"`
	Closed           int                  `json:"closed"`
	MedianOpenDays   *float64             `json:"median_open_days"`
	MedianTramitDays *float64             `json:"median_tramit_days"`
	Backlog          []metrics.YearAgg    `json:"backlog"`
	ActivePctByYear  []metrics.YearPct    `json:"active_pct_by_year"`
	TopPhases        []metrics.ValueCount `json:"top_phases"`
	TopAgencies      []metrics.ValueCount `json:"top_agencies"`
	BandDistribution []metrics.ValueCount `json:"band_distribution"`
}

// Options derives the filter option lists from the unfiltered model. The
// public/private categories come from the fact table when it carries the
// column, otherwise from the institution dimension.
func (d *Dashboard) Options() *Options {
	f := d.facts
	t := f.Table

	opts := &Options{
		Years:      table.IntSet(t.Col(f.Year)),
		Regions:    table.StringSet(t.Col(f.Region)),
		Modalities: table.StringSet(t.Col(f.Modality)),
		RiskBands:  risk.Bands,
		Situations: []string{filter.SituationAll, filter.SituationActive, filter.SituationClosed},
	}

	if f.PublicPrivate != "" {
		opts.PublicPrivate = table.StringSet(t.Col(f.PublicPrivate))
	} else if ies := d.model.Dim(dataset.DimIES); ies != nil {
		if col, ok := resolveCategory(ies); ok {
			opts.PublicPrivate = table.StringSet(ies.Col(col))
		}
	}
	return opts
}

// Summary computes the overview KPIs for one filter selection.
func (d *Dashboard) Summary(fl filter.Filters) *Summary {
	f := filter.Apply(d.facts, d.model.Dim(dataset.DimIES), fl)
	t := f.Table

	s := &Summary{
		Total:        t.NumRows(),
		PctClosed:    metrics.MeanPct(t, f.Closed),
		PctHighRisk:  metrics.MeanPct(t, f.HighRisk),
		VolumeByYear: metrics.VolumeByYear(t, f.Year),
		ByRegion:     metrics.ValueCountsTop(t, f.Region, 27, true),
		ByModality:   metrics.ValueCountsTop(t, f.Modality, 0, true),
	}
	if v, ok := metrics.Median(t, f.TramitDays); ok {
		s.MedianTramit = &v
	}
	return s
}

// Risk computes the risk-page view for one filter selection.
func (d *Dashboard) Risk(fl filter.Filters) *RiskView {
	f := filter.Apply(d.facts, d.model.Dim(dataset.DimIES), fl)
	t := f.Table

	active := 0
	for _, a := range f.ActiveFlags {
		if a == 1 {
			active++
		}
	}

	v := &RiskView{
		Total:            t.NumRows(),
		Active:           active,
		Closed:           t.NumRows() - active,
		Backlog:          metrics.Backlog(t, f.Year, f.ActiveFlags),
		ActivePctByYear:  metrics.ActivePctByYear(t, f.Year, f.ActiveFlags),
		TopPhases:        metrics.ValueCountsTop(t, f.Phase, 15, true),
		TopAgencies:      metrics.ValueCountsTop(t, f.Agency, 15, true),
		BandDistribution: metrics.ValueCountsTop(t, f.RiskBand, 0, false),
	}
	if m, ok := metrics.Median(t, f.OpenDays); ok {
		v.MedianOpenDays = &m
	}
	if m, ok := metrics.Median(t, f.TramitDays); ok {
		v.MedianTramitDays = &m
	}
	return v
}

// Scored exposes the augmented record table (the source columns plus
// risco_score and risco_faixa) for one filter selection.
func (d *Dashboard) Scored(fl filter.Filters) *dataset.Facts {
	return filter.Apply(d.facts, d.model.Dim(dataset.DimIES), fl)
}

func resolveCategory(t *table.Table) (string, bool) {
	return table.Resolve(t, "PublicaPrivada", "publica_privada", "CATEGORIA_ADMINISTRATIVA")
}
