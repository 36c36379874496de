package schedule

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical master-data columns the pipeline depends on.
const (
	ColAgent   = "nombre_visible_agente"
	ColType    = "tipo_de_central_hidro_termo_filo_menor"
	ColCentral = "central"
	ColSum     = "suma_horizontal"
)

// DefaultAgent replaces a blank agent name.
const DefaultAgent = "DESCONOCIDO"

// RenameMap maps normalized master headers to canonical names. Normalized
// headers not listed keep their name.
var RenameMap = map[string]string{
	"central_ddec_dsegdes_dpru":  ColCentral,
	"precio_de_arranque_par":     "precio_arranque",
	"minimo_tecnico_por_central": "minimo_tecnico_central",
	"minimo_tenico__por_unidad":  "minimo_tecnico_unidad",
}

// NormalizeHeader turns a spreadsheet header into a column key: trimmed,
// lowercased, spaces to underscores, diacritics removed and anything outside
// [a-z0-9_] dropped. "Tipo de Central (Hidro, Termo)" becomes
// "tipo_de_central_hidro_termo".
func NormalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = stripAccents(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeaders normalizes every header. Empty results are named
// column_N and repeats get a numeric suffix so each key is unique.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		key := NormalizeHeader(h)
		if key == "" {
			key = "column_" + strconv.Itoa(i+1)
		}
		if n := seen[key]; n > 0 {
			seen[key] = n + 1
			key = key + "_" + strconv.Itoa(n)
		} else {
			seen[key] = 1
		}
		out[i] = key
	}
	return out
}

// renamedColumns applies RenameMap to an ordered header list, dropping a
// renamed column whose target name is already present.
func renamedColumns(cols []string) []string {
	present := make(map[string]bool, len(cols))
	for _, c := range cols {
		present[c] = true
	}
	out := make([]string, 0, len(cols))
	for _, c := range cols {
		if to, ok := RenameMap[c]; ok && to != c {
			if present[to] {
				continue
			}
			c = to
		}
		out = append(out, c)
	}
	return out
}
