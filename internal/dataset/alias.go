// Package dataset loads the gold dimensional model (dimension tables plus
// one fact table) from flat files, canonicalizes column names, and binds
// the fact columns into a typed view consumed by the rest of the core.
package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/seres-labs/regdash/internal/table"
)

// Logical table names of the gold model.
const (
	FactTable     = "fato_processo_regulatorio"
	DimCurso      = "dim_curso"
	DimIES        = "dim_ies"
	DimTempo      = "dim_tempo"
	DimModalidade = "dim_modalidade"
	DimLocal      = "dim_local"
)

// DimNames lists the auxiliary tables the loader looks for.
var DimNames = []string{DimCurso, DimIES, DimTempo, DimModalidade, DimLocal}

// Source headers have drifted across extractions: casing changes,
// underscores appear and disappear, and accented variants show up
// (ORGÃO vs ORGAO). Alias keys are stored folded and incoming headers are
// folded before lookup, so one entry covers the whole family.
var factAliases = map[string]string{
	"ano_do_protocolo": "AnoProtocolo",
	"uf_processo":      "UF",
	"uf_cadastro":      "UF",
	"modalidade":       "modalidade_norm",

	"publicaprivada":           "PublicaPrivada",
	"publica_privada":          "PublicaPrivada",
	"categoria_administrativa": "PublicaPrivada",
}

var dimAliases = map[string]map[string]string{
	DimTempo:      {"ano_do_protocolo": "AnoProtocolo"},
	DimLocal:      {"uf_processo": "UF", "uf_cadastro": "UF"},
	DimModalidade: {"modalidade": "modalidade_norm"},
	DimIES:        {"categoria_administrativa": "PublicaPrivada", "publicaprivada": "PublicaPrivada"},
}

var foldChain = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases a column name and strips diacritics so that ORGÃO,
// Orgão and orgao all land on the same key.
func fold(s string) string {
	s = strings.TrimSpace(s)
	out, _, err := transform.String(foldChain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// applyAliases returns a table whose known source columns are renamed to
// their canonical names. Unknown columns keep their trimmed original
// name. Downstream code still resolves columns through candidate lists,
// so a miss here is not fatal.
func applyAliases(t *table.Table, aliases map[string]string) *table.Table {
	if t == nil || len(aliases) == 0 {
		return t
	}
	cols := t.Columns()
	renamed := false
	for i, c := range cols {
		if canonical, ok := aliases[fold(c)]; ok && c != canonical {
			cols[i] = canonical
			renamed = true
		}
	}
	if !renamed {
		return t
	}
	rows := make([][]string, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return table.New(cols, rows)
}

// aliasesFor returns the alias map for a logical table name.
func aliasesFor(name string) map[string]string {
	if name == FactTable {
		return factAliases
	}
	return dimAliases[name]
}
