//go:build !integration

package main

import (
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seres-labs/regdash/internal/config"
	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/filter"
)

func TestFiltersFromQuery(t *testing.T) {
	q, err := url.ParseQuery("ano=2022&ano=2023&uf=SP,RJ&modalidade=EAD&categoria=Privada&faixa=Alto&situacao=ativos")
	require.NoError(t, err)

	f, err := filtersFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, []int64{2022, 2023}, f.Years)
	assert.Equal(t, []string{"SP", "RJ"}, f.Regions)
	assert.Equal(t, []string{"EAD"}, f.Modalities)
	assert.Equal(t, []string{"Privada"}, f.PublicPrivate)
	assert.Equal(t, []string{"Alto"}, f.RiskBands)
	assert.Equal(t, filter.SituationActive, f.Situation)
}

func TestFiltersFromQuery_Empty(t *testing.T) {
	f, err := filtersFromQuery(url.Values{})
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestFiltersFromQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"bad year", "ano=dois mil"},
		{"bad situation", "situacao=abertos"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery(tc.query)
			require.NoError(t, err)
			_, err = filtersFromQuery(q)
			assert.Error(t, err)
		})
	}
}

func TestSplitQuery(t *testing.T) {
	assert.Equal(t, []string{"SP", "RJ", "MG"}, splitQuery([]string{"SP, RJ", "MG", " "}))
	assert.Nil(t, splitQuery(nil))
}

func TestFiltersFromFlags_BadSituation(t *testing.T) {
	old := flagSituation
	defer func() { flagSituation = old }()

	flagSituation = "abertos"
	_, err := filtersFromFlags()
	assert.Error(t, err)

	flagSituation = filter.SituationClosed
	f, err := filtersFromFlags()
	require.NoError(t, err)
	assert.Equal(t, filter.SituationClosed, f.Situation)
}

func TestNewCache(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()

	cfg = &config.Config{}
	cfg.Data.Cache.Driver = "memory"
	c, err := newCache()
	require.NoError(t, err)
	assert.IsType(t, &dataset.MemoryCache{}, c)

	cfg.Data.Cache.Driver = "off"
	c, err = newCache()
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.Data.Cache.Driver = "sqlite"
	cfg.Data.Cache.Path = filepath.Join(t.TempDir(), "cache.db")
	c, err = newCache()
	require.NoError(t, err)
	require.IsType(t, &dataset.SQLiteCache{}, c)
	require.NoError(t, c.Close())

	cfg.Data.Cache.Driver = "redis"
	_, err = newCache()
	assert.Error(t, err)
}
