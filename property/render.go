package property

import (
	"sort"
	"strings"
)

// recognizedParamOrder fixes the rendering order of the parameters this
// engine understands; anything else (experimental X-params and IANA
// params) is rendered afterwards in alphabetical order, per the
// canonicalization contract (§4.2).
var recognizedParamOrder = map[string]int{
	"VALUE":    0,
	"TZID":     1,
	"LANGUAGE": 2,
	"ALTREP":   3,
	"RELTYPE":  4,
	"PROP":     5,
	"OP":       6,
	"DIST":     7,
}

// Render renders p as a canonical content line: parameters sorted
// recognized-first (in the fixed order above) then alphabetically, values
// quoted only when the grammar requires it (presence of `:`, `;` or `,`).
func Render(p Property) string {
	var b strings.Builder
	b.WriteString(p.Name)

	params := make([]Param, len(p.Params))
	copy(params, p.Params)
	sort.SliceStable(params, func(i, j int) bool {
		oi, oki := recognizedParamOrder[params[i].Name]
		oj, okj := recognizedParamOrder[params[j].Name]
		switch {
		case oki && okj:
			return oi < oj
		case oki && !okj:
			return true
		case !oki && okj:
			return false
		default:
			return params[i].Name < params[j].Name
		}
	})

	for _, param := range params {
		b.WriteByte(';')
		b.WriteString(param.Name)
		b.WriteByte('=')
		for i, v := range param.Values {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteIfNeeded(v))
		}
	}

	b.WriteByte(':')
	b.WriteString(p.Value)
	return b.String()
}

func quoteIfNeeded(v string) string {
	if strings.ContainsAny(v, ":;,") {
		return `"` + v + `"`
	}
	return v
}
