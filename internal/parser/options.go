package parser

import (
	"regexp"
	"strings"
)

// Redirect option markers
const (
	RedirectMarker     = "redirect="
	RedirectRuleMarker = "redirect-rule="
	AbpRedirectMarker  = "rewrite=abp-resource:"
)

// RedirectOption locates the redirect modifier within a network rule
type RedirectOption struct {
	Base    string   // everything before the option separator
	Options []string // modifiers in rule order
	Index   int      // position of the redirect modifier in Options
	Marker  string
	Name    string
}

// Rule reassembles the network rule from its parts
func (o RedirectOption) Rule() string {
	return o.Base + "$" + strings.Join(o.Options, ",")
}

// reOptionName matches the start of a modifier such as script, ~image or domain=
var reOptionName = regexp.MustCompile(`(?i)^~?[a-z0-9][a-z0-9_-]*(=|$)`)

// FindRedirectOption returns the redirect modifier of a network rule. The
// option list starts at the last $ unless the text after it is not a list
// of modifiers (a $ inside a regex value), in which case earlier $ are
// tried. A redirect= substring inside the pattern or inside another
// option's value is not a redirect modifier.
func FindRedirectOption(rule string) (RedirectOption, bool) {
	for pos := strings.LastIndex(rule, "$"); pos >= 0; pos = strings.LastIndex(rule[:pos], "$") {
		opts := SplitOptions(rule[pos+1:])
		for i, opt := range opts {
			if marker, ok := redirectMarker(opt); ok {
				return RedirectOption{
					Base:    rule[:pos],
					Options: opts,
					Index:   i,
					Marker:  marker,
					Name:    opt[len(marker):],
				}, true
			}
		}
		if isOptionList(opts) {
			break
		}
	}
	return RedirectOption{}, false
}

func isOptionList(opts []string) bool {
	for _, o := range opts {
		if !reOptionName.MatchString(o) {
			return false
		}
	}
	return true
}

func redirectMarker(opt string) (string, bool) {
	for _, m := range []string{RedirectMarker, RedirectRuleMarker, AbpRedirectMarker} {
		if strings.HasPrefix(opt, m) {
			return m, true
		}
	}
	return "", false
}

// SplitOptions splits a modifier list on commas that are not escaped
func SplitOptions(s string) []string {
	var opts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && (i == 0 || s[i-1] != '\\') {
			opts = append(opts, s[start:i])
			start = i + 1
		}
	}
	return append(opts, s[start:])
}
