package ical

import "strings"

// ParseText unescapes a RFC-5545 TEXT value: \\, \;, \,, \N and \n all
// unescape to their literal/escaped meaning. The caller is responsible for
// having already isolated this value to its own content line (the property
// layer's parser stops at the next unescaped property boundary before this
// function ever sees the text) — this function does not itself look ahead
// for a following property.
func ParseText(input string) (string, error) {
	if !strings.Contains(input, "\\") {
		return input, nil
	}
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(input) {
			return "", newParseError(ErrTextUnterminated, "trailing backslash", input, Span{i, i + 1})
		}
		switch input[i+1] {
		case '\\':
			b.WriteByte('\\')
		case ';':
			b.WriteByte(';')
		case ',':
			b.WriteByte(',')
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			return "", newParseError(ErrTextUnterminated, "unknown escape sequence", input, Span{i, i + 2})
		}
		i++
	}
	return b.String(), nil
}

// RenderText escapes a plain string into its RFC-5545 TEXT form.
func RenderText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTextList splits a comma-delimited TEXT-list value (e.g. CATEGORIES)
// at unescaped commas and unescapes each element.
func ParseTextList(input string) ([]string, error) {
	if input == "" {
		return nil, nil
	}
	var out []string
	var cur strings.Builder
	for i := 0; i < len(input); i++ {
		if input[i] == '\\' && i+1 < len(input) {
			cur.WriteByte(input[i])
			cur.WriteByte(input[i+1])
			i++
			continue
		}
		if input[i] == ',' {
			out = append(out, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(input[i])
	}
	out = append(out, cur.String())
	unescaped := make([]string, len(out))
	for i, v := range out {
		u, err := ParseText(v)
		if err != nil {
			return nil, err
		}
		unescaped[i] = u
	}
	return unescaped, nil
}

// RenderTextList joins and escapes a TEXT-list value.
func RenderTextList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = RenderText(v)
	}
	return strings.Join(parts, ",")
}
