package parser

import (
	"regexp"
	"strings"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// AdgScriptletMask introduces the call syntax of an AdGuard scriptlet rule
const AdgScriptletMask = "//scriptlet"

var reAdgScriptletMask = regexp.MustCompile(`#@?%#//scriptlet`)

type tokenState int

const (
	stateOpened tokenState = iota
	stateParam
	stateClosed
)

// ParseCall tokenizes call syntax such as ('name', 'arg1', "arg2").
// The first quoted word becomes the name, the rest the positional args.
// Escaped quotes are kept verbatim.
func ParseCall(s string) (models.ScriptletCall, error) {
	state := stateOpened
	var sep byte
	var buf strings.Builder
	var words []string

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case stateOpened:
			switch c {
			case ' ', '\t', '(', ',':
			case '\'', '"':
				sep = c
				state = stateParam
			case ')':
				if i == len(s)-1 {
					state = stateClosed
				}
			default:
				return models.ScriptletCall{}, models.NewRuleError(models.ErrMalformedSyntax, s, "rule is not a scriptlet")
			}
		case stateParam:
			if c == sep && (i == 0 || s[i-1] != '\\') {
				words = append(words, buf.String())
				buf.Reset()
				sep = 0
				state = stateOpened
				continue
			}
			buf.WriteByte(c)
		}
	}

	if state != stateClosed {
		return models.ScriptletCall{}, models.NewRuleError(models.ErrMalformedSyntax, s, "invalid scriptlet rule")
	}
	if len(words) == 0 {
		return models.ScriptletCall{}, models.NewRuleError(models.ErrMalformedSyntax, s, "scriptlet name is missing")
	}

	return models.NewScriptletCall(words[0], words[1:]), nil
}

// AdgRule is a tokenized AdGuard scriptlet rule
type AdgRule struct {
	Domains   string
	Exception bool
	Call      models.ScriptletCall
}

// ParseAdgRule splits an AdGuard scriptlet rule into its domain list and call
func ParseAdgRule(rule string) (AdgRule, error) {
	if !IsAdgScriptletRule(rule) {
		return AdgRule{}, models.NewRuleError(models.ErrNotThisDialect, rule, "not an adguard scriptlet rule")
	}

	loc := reAdgScriptletMask.FindStringIndex(rule)
	if loc == nil {
		return AdgRule{}, models.NewRuleError(models.ErrMalformedSyntax, rule, "scriptlet mask is incomplete")
	}

	call, err := ParseCall(rule[loc[1]:])
	if err != nil {
		return AdgRule{}, err
	}

	return AdgRule{
		Domains:   rule[:loc[0]],
		Exception: strings.Contains(rule[loc[0]:loc[1]], "@"),
		Call:      call,
	}, nil
}
