package servidor

import (
	"strings"
	"unicode"

	"golang.org/x/exp/slices"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filtro holds the criteria of the payroll table filter bar. Empty criteria
// match every record.
type Filtro struct {
	Nome    string
	Cargo   string
	Vinculo string
	Lotacao string
}

// Vazio reports whether no criterion is set.
func (f Filtro) Vazio() bool {
	return f == Filtro{}
}

// Match reports whether s satisfies every criterion. Nome is an accent and
// case insensitive substring match, the others must be equal.
func (f Filtro) Match(s Servidor) bool {
	if f.Nome != "" && !strings.Contains(Normalize(s.Nome), Normalize(f.Nome)) {
		return false
	}
	if f.Cargo != "" && s.Cargo != f.Cargo {
		return false
	}
	if f.Vinculo != "" && s.Vinculo != f.Vinculo {
		return false
	}
	if f.Lotacao != "" && s.Lotacao != f.Lotacao {
		return false
	}
	return true
}

// Apply returns the records matching f, keeping their order.
func (f Filtro) Apply(servidores []Servidor) []Servidor {
	out := make([]Servidor, 0, len(servidores))
	for _, s := range servidores {
		if f.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// Normalize lowercases s and removes its accents: "Lotação " -> "lotacao".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
		runes.Map(unicode.ToLower))
	result, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return result
}

// Distinct lists the sorted unique non-empty values of a filter attribute
// ("cargo", "vinculo" or "lotacao").
func Distinct(servidores []Servidor, key string) []string {
	var values []string
	for _, s := range servidores {
		var v string
		switch key {
		case "cargo":
			v = s.Cargo
		case "vinculo":
			v = s.Vinculo
		case "lotacao":
			v = s.Lotacao
		default:
			return nil
		}
		if v != "" {
			values = append(values, v)
		}
	}
	slices.Sort(values)
	return slices.Compact(values)
}
