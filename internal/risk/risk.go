package risk

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/seres-labs/regdash/internal/config"
	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/table"
)

// Scorer computes per-record risk scores from the bound fact view.
type Scorer struct {
	cfg config.RiskConfig
}

// New creates a Scorer with the given config.
func New(cfg config.RiskConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// signals holds the coerced inputs for one record. Any of them may be
// missing; missing signals contribute zero points, never a penalty.
type signals struct {
	tramitDays table.Float
	openDays   table.Float
	addrDiv    bool
	seatDiv    bool
	remoteSeat bool
	text       string
}

// Score returns a copy of the fact table with the risco_score and
// risco_faixa columns appended (or replaced, when re-scoring an already
// augmented table). The source table is never mutated, so scoring is
// idempotent: recomputing from the same base columns yields identical
// values.
func (s *Scorer) Score(f *dataset.Facts) *table.Table {
	t := f.Table
	n := t.NumRows()

	tramit := optNumeric(t, f.TramitDays, n)
	open := optNumeric(t, f.OpenDays, n)
	addrDiv := flagColumn(t, f.AddrDivergence, n)
	seatDiv := flagColumn(t, f.SeatDivergence, n)
	remote := flagColumn(t, f.RemoteSeat, n)

	scores := make([]string, n)
	bands := make([]string, n)
	for i := 0; i < n; i++ {
		sig := signals{
			tramitDays: tramit[i],
			openDays:   open[i],
			addrDiv:    addrDiv[i],
			seatDiv:    seatDiv[i],
			remoteSeat: remote[i],
			text:       criticalityText(t, f, i),
		}
		score := s.computeScore(sig)
		scores[i] = strconv.FormatFloat(score, 'f', -1, 64)
		bands[i] = s.Band(score)
	}

	zap.L().Debug("risk: scored records", zap.Int("records", n))

	return t.
		WithColumn(dataset.RiskScoreColumn, scores).
		WithColumn(dataset.RiskBandColumn, bands)
}

// computeScore sums the six signal groups and clamps to [0, 100].
func (s *Scorer) computeScore(sig signals) float64 {
	var score float64

	score += s.timePoints(sig.tramitDays)
	score += s.timePoints(sig.openDays)

	if sig.addrDiv {
		score += s.cfg.AddressDivergencePoints
	}
	if sig.seatDiv {
		score += s.cfg.SeatDivergencePoints
	}
	if sig.remoteSeat {
		score += s.cfg.RemoteSeatPoints
	}

	for kw, points := range s.cfg.KeywordPoints {
		if strings.Contains(sig.text, strings.ToUpper(kw)) {
			score += points
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// timePoints buckets a days value: below warn, warn to critical, and
// critical onward. Missing contributes nothing.
func (s *Scorer) timePoints(days table.Float) float64 {
	if !days.OK {
		return 0
	}
	switch {
	case days.Val >= s.cfg.CriticalDays:
		return s.cfg.TimeCriticalPoints
	case days.Val >= s.cfg.WarnDays:
		return s.cfg.TimeMediumPoints
	default:
		return s.cfg.TimeShortPoints
	}
}

// Band assigns the label for a score: <= LowMax is Baixo, <= MediumMax is
// Médio, above that Alto. The bins are right-closed, so a score of
// exactly LowMax stays Baixo.
func (s *Scorer) Band(score float64) string {
	switch {
	case score <= s.cfg.LowMax:
		return BandLow
	case score <= s.cfg.MediumMax:
		return BandMedium
	default:
		return BandHigh
	}
}

// criticalityText concatenates the uppercased act, act-category and
// current-phase cells of one record into the searched text. Unbound
// columns contribute an empty string.
func criticalityText(t *table.Table, f *dataset.Facts, row int) string {
	var b strings.Builder
	for _, col := range []string{f.Act, f.ActCategory, f.Phase} {
		if col == "" {
			continue
		}
		b.WriteString(strings.ToUpper(t.Cell(row, col)))
		b.WriteByte(' ')
	}
	return b.String()
}

// optNumeric coerces a bound column, or yields n missing values when the
// column is unbound.
func optNumeric(t *table.Table, col string, n int) []table.Float {
	if col == "" {
		return make([]table.Float, n)
	}
	return table.Numeric(t.Col(col))
}

// flagColumn reports, per record, whether a 0/1 indicator column equals 1
// after integer coercion with missing defaulting to 0.
func flagColumn(t *table.Table, col string, n int) []bool {
	out := make([]bool, n)
	if col == "" {
		return out
	}
	for i, v := range table.Ints(t.Col(col)) {
		out[i] = v.OK && v.Val == 1
	}
	return out
}
