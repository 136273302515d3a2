package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seres-labs/regdash/internal/table"
)

func TestBindFacts_ResolvesColumns(t *testing.T) {
	tbl := table.New(
		[]string{"AnoProtocolo", "UF", "modalidade_norm", "id_ies", "tempo_tramitacao_dias", "FASE_ATUAL", "ORGÃO"},
		[][]string{{"2022", "SP", "EAD", "10", "120", "ANALISE", "SERES"}},
	)
	f := BindFacts(tbl)
	require.NotNil(t, f)

	assert.Equal(t, "AnoProtocolo", f.Year)
	assert.Equal(t, "UF", f.Region)
	assert.Equal(t, "modalidade_norm", f.Modality)
	assert.Equal(t, "id_ies", f.InstitutionID)
	assert.Equal(t, "tempo_tramitacao_dias", f.TramitDays)
	assert.Equal(t, "FASE_ATUAL", f.Phase)
	assert.Equal(t, "ORGÃO", f.Agency)
	assert.Empty(t, f.Closed)
	assert.Empty(t, f.PublicPrivate)
}

func TestBindFacts_DefaultActive(t *testing.T) {
	// No closed column: every row counts as active.
	tbl := table.New([]string{"UF"}, [][]string{{"SP"}, {"RJ"}})
	f := BindFacts(tbl)
	assert.Equal(t, []int64{1, 1}, f.ActiveFlags)
	assert.Equal(t, []int64{0, 0}, f.ClosedFlags)
}

func TestBindFacts_ClosedFlags(t *testing.T) {
	// Only an exact 1 marks a row closed; blanks, zeros and junk stay
	// active.
	tbl := table.New(
		[]string{"processo_encerrado"},
		[][]string{{"1"}, {"0"}, {""}, {"1.0"}, {"x"}, {"2"}},
	)
	f := BindFacts(tbl)
	assert.Equal(t, []int64{1, 0, 0, 1, 0, 0}, f.ClosedFlags)
	assert.Equal(t, []int64{0, 1, 1, 0, 1, 1}, f.ActiveFlags)
}

func TestBindFacts_Nil(t *testing.T) {
	f := BindFacts(nil)
	require.NotNil(t, f)
	assert.Empty(t, f.Year)
	assert.Empty(t, f.ClosedFlags)
}
