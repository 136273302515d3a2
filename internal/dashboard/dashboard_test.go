package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/filter"
	"github.com/seres-labs/regdash/internal/risk"
	"github.com/seres-labs/regdash/internal/table"
)

func modelFixture() *dataset.Model {
	fact := table.New(
		[]string{"AnoProtocolo", "UF", "modalidade_norm", "id_ies", "processo_encerrado", "tempo_tramitacao_dias", "FASE_ATUAL", "ORGAO"},
		[][]string{
			{"2022", "SP", "EAD", "10", "0", "800", "ANALISE", "SERES"},
			{"2022", "RJ", "Presencial", "11", "1", "100", "ARQUIVO", "SERES"},
			{"2023", "SP", "EAD", "12", "0", "400", "ANALISE", "GABINETE"},
			{"2023", "MG", "EAD", "10", "0", "", "ANALISE", "SERES"},
		},
	)
	ies := table.New(
		[]string{"id_ies", "PublicaPrivada"},
		[][]string{{"10", "Privada"}, {"11", "Pública"}, {"12", "Privada"}},
	)
	return &dataset.Model{
		Fact: fact,
		Dims: map[string]*table.Table{dataset.DimIES: ies},
	}
}

func TestNew_NoFact(t *testing.T) {
	_, err := New(&dataset.Model{}, risk.DefaultConfig())
	assert.ErrorIs(t, err, ErrNoFact)

	_, err = New(&dataset.Model{Fact: table.New([]string{"UF"}, nil)}, risk.DefaultConfig())
	assert.ErrorIs(t, err, ErrNoFact)
}

func TestNew_InvalidRiskConfig(t *testing.T) {
	cfg := risk.DefaultConfig()
	cfg.CriticalDays = 1
	_, err := New(modelFixture(), cfg)
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	opts := d.Options()
	assert.Equal(t, []int64{2022, 2023}, opts.Years)
	assert.Equal(t, []string{"MG", "RJ", "SP"}, opts.Regions)
	assert.Equal(t, []string{"EAD", "Presencial"}, opts.Modalities)
	// Fact carries no category column, so the institution dimension
	// populates the list.
	assert.Equal(t, []string{"Privada", "Pública"}, opts.PublicPrivate)
	assert.Equal(t, risk.Bands, opts.RiskBands)
}

func TestSummary(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	s := d.Summary(filter.Filters{})
	assert.Equal(t, 4, s.Total)
	assert.InDelta(t, 25.0, s.PctClosed, 1e-9)
	require.NotNil(t, s.MedianTramit)
	assert.InDelta(t, 400.0, *s.MedianTramit, 1e-9)
	assert.Equal(t, 2, len(s.VolumeByYear))
	assert.Equal(t, "SP", s.ByRegion[0].Value)
	assert.Equal(t, 2, s.ByRegion[0].Count)
	assert.Equal(t, "EAD", s.ByModality[0].Value)
}

func TestSummary_Filtered(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	s := d.Summary(filter.Filters{PublicPrivate: []string{"Privada"}})
	assert.Equal(t, 3, s.Total)
	assert.InDelta(t, 0.0, s.PctClosed, 1e-9)
}

func TestRisk(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	v := d.Risk(filter.Filters{})
	assert.Equal(t, 4, v.Total)
	assert.Equal(t, 3, v.Active)
	assert.Equal(t, 1, v.Closed)
	require.NotEmpty(t, v.Backlog)
	assert.Equal(t, int64(2022), v.Backlog[0].Year)
	assert.Equal(t, int64(1), v.Backlog[0].Active)
	assert.Equal(t, int64(1), v.Backlog[0].Closed)
	assert.Equal(t, "ANALISE", v.TopPhases[0].Value)
	assert.Equal(t, 3, v.TopPhases[0].Count)
	assert.Equal(t, "SERES", v.TopAgencies[0].Value)
	assert.NotEmpty(t, v.BandDistribution)
}

func TestRisk_BandFilterUsesDerivedColumn(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	// Filtering by each band in turn must partition the rows.
	all := 0
	for _, band := range risk.Bands {
		v := d.Risk(filter.Filters{RiskBands: []string{band}})
		all += v.Total
	}
	assert.Equal(t, 4, all)
}

func TestScored_CarriesDerivedColumns(t *testing.T) {
	d, err := New(modelFixture(), risk.DefaultConfig())
	require.NoError(t, err)

	f := d.Scored(filter.Filters{Years: []int64{2022}})
	assert.Equal(t, 2, f.Table.NumRows())
	assert.True(t, f.Table.HasColumn(dataset.RiskScoreColumn))
	assert.True(t, f.Table.HasColumn(dataset.RiskBandColumn))
	assert.NotEmpty(t, f.RiskBand)
}
