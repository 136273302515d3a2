//go:build !integration

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seres-labs/regdash/internal/dashboard"
	"github.com/seres-labs/regdash/internal/dataset"
	"github.com/seres-labs/regdash/internal/risk"
	"github.com/seres-labs/regdash/internal/table"
)

func testDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	fact := table.New(
		[]string{"AnoProtocolo", "UF", "modalidade_norm", "processo_encerrado", "tempo_tramitacao_dias"},
		[][]string{
			{"2022", "SP", "EAD", "0", "800"},
			{"2023", "RJ", "Presencial", "1", "100"},
			{"2023", "SP", "EAD", "0", "200"},
		},
	)
	d, err := dashboard.New(&dataset.Model{Fact: fact}, risk.DefaultConfig())
	require.NoError(t, err)
	return d
}

func TestRouter_Health(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Options(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/api/options", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var opts dashboard.Options
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &opts))
	assert.Equal(t, []int64{2022, 2023}, opts.Years)
	assert.Equal(t, []string{"RJ", "SP"}, opts.Regions)
	assert.Equal(t, risk.Bands, opts.RiskBands)
}

func TestRouter_SummaryFiltered(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/api/summary?uf=SP&situacao=ativos", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var s dashboard.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 0.0, s.PctClosed)
}

func TestRouter_SummaryBadParam(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/api/summary?ano=abc", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "ano")
}

func TestRouter_Risk(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/api/risk?ano=2023", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var v dashboard.RiskView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, 1, v.Active)
	assert.Equal(t, 1, v.Closed)
}

func TestRouter_RiskBadSituation(t *testing.T) {
	r := buildRouter(testDashboard(t))

	req := httptest.NewRequest(http.MethodGet, "/api/risk?situacao=abertos", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
