package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	return New(
		[]string{"AnoProtocolo", " UF ", "modalidade_norm"},
		[][]string{
			{"2022", "SP", "EAD"},
			{"2023", "RJ", "Presencial"},
			{"2023", "SP"},
		},
	)
}

func TestNew_TrimsColumnNames(t *testing.T) {
	tb := sample()
	assert.Equal(t, []string{"AnoProtocolo", "UF", "modalidade_norm"}, tb.Columns())
	assert.True(t, tb.HasColumn("UF"))
	assert.False(t, tb.HasColumn(" UF "))
}

func TestCol(t *testing.T) {
	tb := sample()

	assert.Equal(t, []string{"SP", "RJ", "SP"}, tb.Col("UF"))
	// Short row pads with an empty cell.
	assert.Equal(t, []string{"EAD", "Presencial", ""}, tb.Col("modalidade_norm"))
	// Absent column is nil.
	assert.Nil(t, tb.Col("nope"))

	var nilTable *Table
	assert.Nil(t, nilTable.Col("UF"))
	assert.Equal(t, 0, nilTable.NumRows())
	assert.True(t, nilTable.Empty())
}

func TestCell(t *testing.T) {
	tb := New([]string{"a"}, [][]string{{" x "}})
	assert.Equal(t, "x", tb.Cell(0, "a"))
	assert.Equal(t, "", tb.Cell(1, "a"))
	assert.Equal(t, "", tb.Cell(0, "b"))
	assert.Equal(t, "", tb.Cell(-1, "a"))
}

func TestWithColumn_AppendAndReplace(t *testing.T) {
	tb := sample()

	added := tb.WithColumn("risco_faixa", []string{"Baixo", "Alto", "Médio"})
	assert.Equal(t, []string{"Baixo", "Alto", "Médio"}, added.Col("risco_faixa"))
	// Source table untouched.
	assert.False(t, tb.HasColumn("risco_faixa"))

	replaced := added.WithColumn("risco_faixa", []string{"Alto"})
	assert.Equal(t, []string{"Alto", "", ""}, replaced.Col("risco_faixa"))
	assert.Equal(t, 3, replaced.NumRows())
}

func TestSelect(t *testing.T) {
	tb := sample()
	sp := tb.Select(func(i int) bool { return tb.Cell(i, "UF") == "SP" })
	require.Equal(t, 2, sp.NumRows())
	assert.Equal(t, []string{"2022", "2023"}, sp.Col("AnoProtocolo"))

	none := tb.Select(func(int) bool { return false })
	assert.True(t, none.Empty())
	assert.Equal(t, tb.Columns(), none.Columns())
}

func TestResolve(t *testing.T) {
	tb := sample()

	tests := []struct {
		name       string
		candidates []string
		want       string
		ok         bool
	}{
		{"first present wins", []string{"AnoProtocolo", "UF"}, "AnoProtocolo", true},
		{"priority order", []string{"ano_protocolo", "AnoProtocolo"}, "AnoProtocolo", true},
		{"later candidate", []string{"ANO_DO_PROTOCOLO", "UF"}, "UF", true},
		{"no match", []string{"ORGAO", "ORGÃO"}, "", false},
		{"empty candidates", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tb, tt.candidates...)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Resolve(nil, "UF")
	assert.False(t, ok)
}
