package converter

import "strings"

// set-constant spells empty values differently in each ecosystem
var setConstantValues = []struct {
	adg string
	ubo string
}{
	{adg: "emptyStr", ubo: "''"},
	{adg: "emptyArr", ubo: "[]"},
	{adg: "emptyObj", ubo: "{}"},
}

func setConstantValueToUbo(v string) string {
	for _, sv := range setConstantValues {
		if v == sv.adg {
			return sv.ubo
		}
	}
	return v
}

func setConstantValueToAdg(v string) string {
	for _, sv := range setConstantValues {
		if v == sv.ubo {
			return sv.adg
		}
	}
	return v
}

// escapeCommas escapes commas not already escaped; uBO splits args on them
func escapeCommas(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && (i == 0 || s[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unescapeCommas(s string) string {
	return strings.ReplaceAll(s, `\,`, ",")
}

// unescapeQuotes drops the backslash the AdGuard tokenizer keeps in front of
// an escaped quote
func unescapeQuotes(s string) string {
	s = strings.ReplaceAll(s, `\'`, "'")
	return strings.ReplaceAll(s, `\"`, `"`)
}

// wrapInSingleQuotes strips one pair of outer quotes and wraps s in single
// quotes, turning inner single quotes into double quotes
func wrapInSingleQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			s = s[1 : len(s)-1]
		}
	}
	return "'" + strings.ReplaceAll(s, "'", `"`) + "'"
}

// quoteAbpArg quotes an ABP snippet argument when it would not survive
// whitespace splitting
func quoteAbpArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t;'\"") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
