package parser

import (
	"strings"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// UboRule is a tokenized uBO +js rule
type UboRule struct {
	Domains   string
	Exception bool
	Call      models.ScriptletCall
}

// ParseUboRule splits a uBO scriptlet rule. uBO arguments are separated by
// unescaped commas and trimmed; quoting has no meaning to uBO.
func ParseUboRule(rule string) (UboRule, error) {
	if !IsUboScriptletRule(rule) {
		return UboRule{}, models.NewRuleError(models.ErrNotThisDialect, rule, "not a ubo scriptlet rule")
	}

	loc := reUboScriptletMask.FindStringIndex(rule)
	rest := rule[loc[1]:]
	open := strings.Index(rest, "(")
	closing := strings.LastIndex(rest, ")")
	if open < 0 || closing < open || strings.TrimSpace(rest[closing+1:]) != "" {
		return UboRule{}, models.NewRuleError(models.ErrMalformedSyntax, rule, "arguments are not enclosed in parentheses")
	}

	args := SplitOptions(rest[open+1 : closing])
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}
	if args[0] == "" {
		return UboRule{}, models.NewRuleError(models.ErrMalformedSyntax, rule, "scriptlet name is missing")
	}

	return UboRule{
		Domains:   rule[:loc[0]],
		Exception: strings.Contains(rule[loc[0]:loc[1]], "@"),
		Call:      models.NewScriptletCall(args[0], args[1:]),
	}, nil
}

// AbpRule is a tokenized ABP snippet rule. One rule may chain several
// snippets separated by semicolons.
type AbpRule struct {
	Domains   string
	Exception bool
	Snippets  []models.ScriptletCall
}

// ParseAbpRule splits an ABP snippet rule into its snippet calls
func ParseAbpRule(rule string) (AbpRule, error) {
	if !IsAbpSnippetRule(rule) {
		return AbpRule{}, models.NewRuleError(models.ErrNotThisDialect, rule, "not an abp snippet rule")
	}

	mask := AbpSnippetMask
	pos := strings.Index(rule, AbpSnippetMask)
	if exc := strings.Index(rule, AbpSnippetExceptionMask); exc >= 0 && (pos < 0 || exc < pos) {
		mask, pos = AbpSnippetExceptionMask, exc
	}

	out := AbpRule{
		Domains:   rule[:pos],
		Exception: mask == AbpSnippetExceptionMask,
	}

	body := rule[pos+len(mask):]
	for _, snippet := range splitSnippets(body) {
		words, err := snippetWords(snippet)
		if err != nil {
			return AbpRule{}, models.NewRuleError(models.ErrMalformedSyntax, rule, err.Error())
		}
		if len(words) == 0 {
			continue
		}
		out.Snippets = append(out.Snippets, models.NewScriptletCall(words[0], words[1:]))
	}

	if len(out.Snippets) == 0 {
		return AbpRule{}, models.NewRuleError(models.ErrMalformedSyntax, rule, "no snippet in rule")
	}
	return out, nil
}

// splitSnippets splits on semicolons outside quoted strings
func splitSnippets(body string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			parts = append(parts, body[start:i])
			start = i + 1
		}
	}
	return append(parts, body[start:])
}

type unterminatedQuoteError byte

func (e unterminatedQuoteError) Error() string {
	return "unterminated " + string(byte(e)) + " quote"
}

// snippetWords splits a snippet on whitespace. Quoted words lose their
// outer quotes and the escapes on them, and may contain whitespace.
func snippetWords(snippet string) ([]string, error) {
	var words []string
	i := 0
	for i < len(snippet) {
		c := snippet[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '\'' || c == '"':
			end := i + 1
			for end < len(snippet) && !(snippet[end] == c && snippet[end-1] != '\\') {
				end++
			}
			if end >= len(snippet) {
				return nil, unterminatedQuoteError(c)
			}
			words = append(words, strings.ReplaceAll(snippet[i+1:end], `\`+string(c), string(c)))
			i = end + 1
		default:
			end := i
			for end < len(snippet) && snippet[end] != ' ' && snippet[end] != '\t' {
				end++
			}
			words = append(words, snippet[i:end])
			i = end
		}
	}
	return words, nil
}
