// Package filter narrows the fact table by a set of independent
// row-membership predicates. Every predicate is a no-op when its
// selection is empty or its column cannot be resolved, so filters compose
// by AND in any order with identical results.
package filter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/table"
)

// Situation values for the active/closed filter. Anything else passes
// every record through.
const (
	SituationAll    = "todos"
	SituationActive = "ativos"
	SituationClosed = "encerrados"
)

// Filters is one filter selection. Zero-valued fields are pass-through.
type Filters struct {
	Years         []int64  `json:"years,omitempty"`
	Regions       []string `json:"regions,omitempty"`
	Modalities    []string `json:"modalities,omitempty"`
	PublicPrivate []string `json:"public_private,omitempty"`
	RiskBands     []string `json:"risk_bands,omitempty"`
	Situation     string   `json:"situation,omitempty"`
}

// IsZero reports whether no filter is selected.
func (f Filters) IsZero() bool {
	return len(f.Years) == 0 && len(f.Regions) == 0 && len(f.Modalities) == 0 &&
		len(f.PublicPrivate) == 0 && len(f.RiskBands) == 0 &&
		(f.Situation == "" || f.Situation == SituationAll)
}

// Apply filters the bound fact view and returns a freshly bound view of
// the surviving rows. instDim is the institution dimension used by the
// public/private join; it may be nil.
func Apply(facts *dataset.Facts, instDim *table.Table, f Filters) *dataset.Facts {
	if facts == nil || facts.Table == nil {
		return facts
	}
	if f.IsZero() {
		return facts
	}

	t := facts.Table
	keep := make([]bool, t.NumRows())
	for i := range keep {
		keep[i] = true
	}

	applyYears(t, facts.Year, f.Years, keep)
	applyStrings(t, facts.Region, f.Regions, keep)
	applyStrings(t, facts.Modality, f.Modalities, keep)
	applyStrings(t, facts.RiskBand, f.RiskBands, keep)
	applyPublicPrivate(t, facts, instDim, f.PublicPrivate, keep)
	applySituation(facts, f.Situation, keep)

	filtered := t.Select(func(i int) bool { return keep[i] })
	zap.L().Debug("filter: applied",
		zap.Int("rows_in", t.NumRows()),
		zap.Int("rows_out", filtered.NumRows()),
	)
	return dataset.BindFacts(filtered)
}

func applyYears(t *table.Table, col string, sel []int64, keep []bool) {
	if col == "" || len(sel) == 0 {
		return
	}
	allowed := make(map[int64]struct{}, len(sel))
	for _, y := range sel {
		allowed[y] = struct{}{}
	}
	for i, v := range table.Ints(t.Col(col)) {
		if !v.OK {
			keep[i] = false
			continue
		}
		if _, ok := allowed[v.Val]; !ok {
			keep[i] = false
		}
	}
}

func applyStrings(t *table.Table, col string, sel []string, keep []bool) {
	if col == "" || len(sel) == 0 {
		return
	}
	allowed := make(map[string]struct{}, len(sel))
	for _, s := range sel {
		allowed[strings.TrimSpace(s)] = struct{}{}
	}
	for i := range keep {
		if _, ok := allowed[t.Cell(i, col)]; !ok {
			keep[i] = false
		}
	}
}

// applyPublicPrivate resolves the administrative category either directly
// on the fact table or through the institution dimension: dimension rows
// matching the selection yield an allowed institution-id set, and fact
// rows must join into it. When neither side resolves the filter is
// skipped.
func applyPublicPrivate(t *table.Table, facts *dataset.Facts, instDim *table.Table, sel []string, keep []bool) {
	if len(sel) == 0 {
		return
	}

	if facts.PublicPrivate != "" {
		applyStrings(t, facts.PublicPrivate, sel, keep)
		return
	}

	if facts.InstitutionID == "" {
		return
	}
	catCol, ok := table.Resolve(instDim, "PublicaPrivada", "publica_privada", "CATEGORIA_ADMINISTRATIVA")
	if !ok {
		return
	}
	idCol, ok := table.Resolve(instDim, "id_ies", "ID_IES")
	if !ok {
		return
	}

	allowed := make(map[string]struct{}, len(sel))
	for _, s := range sel {
		allowed[strings.TrimSpace(s)] = struct{}{}
	}
	ids := make(map[string]struct{})
	for i := 0; i < instDim.NumRows(); i++ {
		if _, ok := allowed[instDim.Cell(i, catCol)]; ok {
			ids[instDim.Cell(i, idCol)] = struct{}{}
		}
	}

	for i := range keep {
		if _, ok := ids[t.Cell(i, facts.InstitutionID)]; !ok {
			keep[i] = false
		}
	}
}

func applySituation(facts *dataset.Facts, situation string, keep []bool) {
	switch situation {
	case SituationActive:
		for i := range keep {
			if facts.ActiveFlags[i] != 1 {
				keep[i] = false
			}
		}
	case SituationClosed:
		for i := range keep {
			if facts.ClosedFlags[i] != 1 {
				keep[i] = false
			}
		}
	}
}
