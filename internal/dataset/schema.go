package dataset

import (
	"github.com/seres-labs/regdash/internal/table"
)

// Derived column names appended by the risk scorer.
const (
	RiskScoreColumn = "risco_score"
	RiskBandColumn  = "risco_faixa"
)

// Facts is the resolved view of the fact table: each field holds the real
// column name found in the table, or "" when no candidate matched. All
// downstream computation consumes this view instead of re-resolving
// candidate lists, so every contract reads "this field is bound or it is
// not".
//
// ClosedFlags and ActiveFlags are complementary 0/1 indicators derived
// once at bind time: a record is closed when the closed-flag column
// coerces to 1, and active otherwise. When the column is entirely absent
// every record counts as active. This is the single authoritative
// default-active policy.
type Facts struct {
	Table *table.Table

	Year          string
	Region        string
	Modality      string
	PublicPrivate string
	InstitutionID string
	ModalityID    string

	TramitDays string
	OpenDays   string
	Closed     string
	HighRisk   string

	Phase       string
	Agency      string
	Act         string
	ActCategory string

	AddrDivergence string
	SeatDivergence string
	RemoteSeat     string

	FilingKey  string
	PhaseKey   string
	LastActKey string

	RiskScore string
	RiskBand  string

	ClosedFlags []int64
	ActiveFlags []int64
}

// Candidate lists carry the historical and regional-casing variants seen
// across extractions. Upstream aliasing is best-effort, so binding probes
// all of them, canonical name first.
var (
	yearCandidates          = []string{"AnoProtocolo", "ANO_DO_PROTOCOLO", "ano_protocolo"}
	regionCandidates        = []string{"UF", "uf"}
	modalityCandidates      = []string{"modalidade_norm", "Modalidade_norm", "MODALIDADE"}
	publicPrivateCandidates = []string{"PublicaPrivada", "publica_privada"}
	institutionIDCandidates = []string{"id_ies", "ID_IES"}
	modalityIDCandidates    = []string{"id_modalidade"}

	tramitDaysCandidates = []string{"tempo_tramitacao_dias", "TEMPO_TRAMITACAO_DIAS"}
	openDaysCandidates   = []string{"tempo_em_aberto_dias", "TEMPO_EM_ABERTO_DIAS"}
	closedCandidates     = []string{"processo_encerrado", "PROCESSO_ENCERRADO"}
	highRiskCandidates   = []string{"flag_risco_alto", "FLAG_RISCO_ALTO"}

	phaseCandidates       = []string{"FASE_ATUAL", "fase_atual"}
	agencyCandidates      = []string{"ORGAO", "ORGÃO", "ORGAO_PROCESSO", "ÓRGÃO"}
	actCandidates         = []string{"ATO", "ato"}
	actCategoryCandidates = []string{"CATEGORIA_ATO", "categoria_ato"}

	addrDivergenceCandidates = []string{"endereco_divergente_flag", "ENDERECO_DIVERGENTE_FLAG"}
	seatDivergenceCandidates = []string{"tem_divergencia_vagas", "TEM_DIVERGENCIA_VAGAS"}
	remoteSeatCandidates     = []string{"is_sede_ead_flag", "IS_SEDE_EAD_FLAG"}

	filingKeyCandidates  = []string{"dt_protocolo_key", "DT_PROTOCOLO_KEY"}
	phaseKeyCandidates   = []string{"dt_entrada_fase_key", "DT_ENTRADA_FASE_KEY"}
	lastActKeyCandidates = []string{"dt_ultimo_ato_key", "DT_ULTIMO_ATO_KEY"}
)

// BindFacts resolves every known fact column once and derives the
// active/closed indicator pair. Binding a nil or empty table is valid and
// yields a view where nothing is bound.
func BindFacts(t *table.Table) *Facts {
	f := &Facts{Table: t}

	f.Year = resolveOrEmpty(t, yearCandidates)
	f.Region = resolveOrEmpty(t, regionCandidates)
	f.Modality = resolveOrEmpty(t, modalityCandidates)
	f.PublicPrivate = resolveOrEmpty(t, publicPrivateCandidates)
	f.InstitutionID = resolveOrEmpty(t, institutionIDCandidates)
	f.ModalityID = resolveOrEmpty(t, modalityIDCandidates)

	f.TramitDays = resolveOrEmpty(t, tramitDaysCandidates)
	f.OpenDays = resolveOrEmpty(t, openDaysCandidates)
	f.Closed = resolveOrEmpty(t, closedCandidates)
	f.HighRisk = resolveOrEmpty(t, highRiskCandidates)

	f.Phase = resolveOrEmpty(t, phaseCandidates)
	f.Agency = resolveOrEmpty(t, agencyCandidates)
	f.Act = resolveOrEmpty(t, actCandidates)
	f.ActCategory = resolveOrEmpty(t, actCategoryCandidates)

	f.AddrDivergence = resolveOrEmpty(t, addrDivergenceCandidates)
	f.SeatDivergence = resolveOrEmpty(t, seatDivergenceCandidates)
	f.RemoteSeat = resolveOrEmpty(t, remoteSeatCandidates)

	f.FilingKey = resolveOrEmpty(t, filingKeyCandidates)
	f.PhaseKey = resolveOrEmpty(t, phaseKeyCandidates)
	f.LastActKey = resolveOrEmpty(t, lastActKeyCandidates)

	f.RiskScore = resolveOrEmpty(t, []string{RiskScoreColumn})
	f.RiskBand = resolveOrEmpty(t, []string{RiskBandColumn})

	n := t.NumRows()
	f.ClosedFlags = make([]int64, n)
	f.ActiveFlags = make([]int64, n)
	if f.Closed != "" {
		for i, v := range table.Ints(t.Col(f.Closed)) {
			if v.OK && v.Val == 1 {
				f.ClosedFlags[i] = 1
			}
		}
	}
	for i := range f.ActiveFlags {
		f.ActiveFlags[i] = 1 - f.ClosedFlags[i]
	}

	return f
}

func resolveOrEmpty(t *table.Table, candidates []string) string {
	name, ok := table.Resolve(t, candidates...)
	if !ok {
		return ""
	}
	return name
}
