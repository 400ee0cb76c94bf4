package converter

import (
	"strings"

	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/bnema/scriptlet-converter/internal/parser"
	"github.com/bnema/scriptlet-converter/internal/registry"
)

// Output masks per dialect
const (
	adgScriptletMask          = "#%#//scriptlet"
	adgScriptletExceptionMask = "#@%#//scriptlet"
	uboScriptletMask          = "##+js"
	uboScriptletExceptionMask = "#@#+js"

	// A bare $ in uBO args ends the domain list in acis-like scriptlets
	uboDollarArg = "$"
	adgDollarArg = "$$"
)

func (c *Converter) convertScriptlet(rule string, class models.Classification, target models.Dialect) ([]string, error) {
	if class.Dialect == target {
		return []string{rule}, nil
	}

	adgRules, err := c.scriptletToAdg(rule, class)
	if err != nil {
		return nil, err
	}
	if target == models.DialectAdGuard {
		return adgRules, nil
	}

	out := make([]string, 0, len(adgRules))
	for _, r := range adgRules {
		var converted string
		switch target {
		case models.DialectUBlockOrigin:
			converted, err = c.adgScriptletToUbo(r)
		case models.DialectAdblockPlus:
			converted, err = c.adgScriptletToAbp(r)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}

func (c *Converter) scriptletToAdg(rule string, class models.Classification) ([]string, error) {
	switch class.Dialect {
	case models.DialectAdGuard:
		return []string{rule}, nil
	case models.DialectUBlockOrigin:
		r, err := c.uboScriptletToAdg(rule)
		if err != nil {
			return nil, err
		}
		return []string{r}, nil
	case models.DialectAdblockPlus:
		return c.abpSnippetToAdg(rule)
	}
	return nil, models.NewRuleError(models.ErrNotThisDialect, rule, "not a scriptlet rule")
}

// uboScriptletToAdg points the rule at the ubo- alias so AdGuard runs the
// uBO-compatible implementation
func (c *Converter) uboScriptletToAdg(rule string) (string, error) {
	r, err := parser.ParseUboRule(rule)
	if err != nil {
		return "", err
	}

	name := registry.UBOAliasMarker + r.Call.Name()
	// fuckadblock.js-3.2.0 carries .js mid-name
	if !strings.Contains(name, registry.JSSuffix) {
		name += registry.JSSuffix
	}
	desc, ok := c.registry.Resolve(name)
	if !ok {
		return "", models.NewRuleError(models.ErrUnknownName, rule, name)
	}

	args := r.Call.Args()
	if desc.Name == registry.SetConstantName && len(args) > 1 {
		args[1] = setConstantValueToAdg(args[1])
	}
	for i, a := range args {
		if a == uboDollarArg {
			args[i] = adgDollarArg
			continue
		}
		args[i] = unescapeCommas(a)
	}

	return formatAdgRule(r.Domains, r.Exception, name, args), nil
}

// abpSnippetToAdg emits one AdGuard rule per chained snippet
func (c *Converter) abpSnippetToAdg(rule string) ([]string, error) {
	r, err := parser.ParseAbpRule(rule)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(r.Snippets))
	for _, call := range r.Snippets {
		name := registry.ABPAliasMarker + call.Name()
		if _, ok := c.registry.Resolve(name); !ok {
			return nil, models.NewRuleError(models.ErrUnknownName, rule, name)
		}
		out = append(out, formatAdgRule(r.Domains, r.Exception, name, call.Args()))
	}
	return out, nil
}

func (c *Converter) resolveAdgRule(rule string) (parser.AdgRule, registry.ScriptletDescriptor, error) {
	r, err := parser.ParseAdgRule(rule)
	if err != nil {
		return parser.AdgRule{}, registry.ScriptletDescriptor{}, err
	}
	desc, ok := c.registry.Resolve(r.Call.Name())
	if !ok {
		return parser.AdgRule{}, registry.ScriptletDescriptor{}, models.NewRuleError(models.ErrUnknownName, rule, r.Call.Name())
	}
	return r, desc, nil
}

func (c *Converter) adgScriptletToUbo(rule string) (string, error) {
	r, desc, err := c.resolveAdgRule(rule)
	if err != nil {
		return "", err
	}

	alias, ok := c.registry.UBOAlias(desc)
	if !ok {
		return "", models.NewRuleError(models.ErrInconvertible, rule, desc.Name+" has no ubo equivalent")
	}
	// .js can be omitted from uBO scriptlet names
	name := strings.TrimSuffix(strings.TrimPrefix(alias, registry.UBOAliasMarker), registry.JSSuffix)

	args := r.Call.Args()
	for i, a := range args {
		if a == adgDollarArg {
			args[i] = uboDollarArg
			continue
		}
		// uBO splits every argument on commas and has no quote escaping
		args[i] = escapeCommas(unescapeQuotes(a))
	}
	if desc.Name == registry.SetConstantName && len(args) > 1 {
		args[1] = setConstantValueToUbo(args[1])
	}

	mask := uboScriptletMask
	if r.Exception {
		mask = uboScriptletExceptionMask
	}
	parts := append([]string{name}, args...)
	return r.Domains + mask + "(" + strings.Join(parts, ", ") + ")", nil
}

func (c *Converter) adgScriptletToAbp(rule string) (string, error) {
	r, desc, err := c.resolveAdgRule(rule)
	if err != nil {
		return "", err
	}

	alias, ok := c.registry.ABPAlias(desc)
	if !ok {
		return "", models.NewRuleError(models.ErrInconvertible, rule, desc.Name+" has no abp equivalent")
	}

	words := []string{strings.TrimPrefix(alias, registry.ABPAliasMarker)}
	for _, a := range r.Call.Args() {
		words = append(words, quoteAbpArg(unescapeQuotes(a)))
	}

	mask := parser.AbpSnippetMask
	if r.Exception {
		mask = parser.AbpSnippetExceptionMask
	}
	return r.Domains + mask + strings.Join(words, " "), nil
}

func formatAdgRule(domains string, exception bool, name string, args []string) string {
	mask := adgScriptletMask
	if exception {
		mask = adgScriptletExceptionMask
	}
	quoted := make([]string, 0, len(args)+1)
	quoted = append(quoted, wrapInSingleQuotes(name))
	for _, a := range args {
		quoted = append(quoted, wrapInSingleQuotes(a))
	}
	return domains + mask + "(" + strings.Join(quoted, ", ") + ")"
}

// IsValidScriptletRule reports whether rule is a scriptlet rule whose every
// scriptlet resolves in the registry
func (c *Converter) IsValidScriptletRule(rule string) bool {
	class := c.classifier.Classify(rule)
	if class.Kind != models.RuleKindScriptlet {
		return false
	}

	adgRules, err := c.scriptletToAdg(rule, class)
	if err != nil {
		return false
	}
	for _, r := range adgRules {
		parsed, err := parser.ParseAdgRule(r)
		if err != nil || !c.registry.IsValid(parsed.Call.Name()) {
			return false
		}
	}
	return true
}
