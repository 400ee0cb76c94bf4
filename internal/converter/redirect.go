package converter

import (
	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/bnema/scriptlet-converter/internal/parser"
	"github.com/bnema/scriptlet-converter/internal/registry"
)

// uBO spells the xmlhttprequest content type as xhr
const (
	uboXHRType = "xhr"
	adgXHRType = "xmlhttprequest"
)

func (c *Converter) convertRedirect(rule string, class models.Classification, target models.Dialect) ([]string, error) {
	if class.Dialect == target {
		return []string{rule}, nil
	}

	opt, ok := parser.FindRedirectOption(rule)
	if !ok {
		return nil, models.NewRuleError(models.ErrNotThisDialect, rule, "no redirect modifier")
	}

	adgOpt, err := c.redirectToAdg(rule, opt, class.Dialect)
	if err != nil {
		return nil, err
	}

	switch target {
	case models.DialectUBlockOrigin:
		adgOpt, err = c.adgRedirectToUbo(rule, adgOpt)
	case models.DialectAdblockPlus:
		adgOpt, err = c.adgRedirectToAbp(rule, adgOpt)
	}
	if err != nil {
		return nil, err
	}
	return []string{adgOpt.Rule()}, nil
}

// redirectToAdg rewrites the redirect modifier of a rule in dialect d to its
// AdGuard form. Other modifiers keep their position.
func (c *Converter) redirectToAdg(rule string, opt parser.RedirectOption, d models.Dialect) (parser.RedirectOption, error) {
	name := opt.Name
	if d == models.DialectUBlockOrigin {
		name = parser.StripRedirectPriority(name)
	}

	adgName, ok := c.registry.RedirectToADG(d, name)
	if !ok {
		return parser.RedirectOption{}, models.NewRuleError(models.ErrUnknownName, rule, "redirect "+name)
	}

	marker := opt.Marker
	if marker == parser.AbpRedirectMarker {
		marker = parser.RedirectMarker
	}

	out := withRedirect(opt, marker, adgName)
	if d == models.DialectUBlockOrigin {
		for i, o := range out.Options {
			if o == uboXHRType {
				out.Options[i] = adgXHRType
			}
		}
	}
	return out, nil
}

// adgRedirectToUbo swaps in the uBO resource name and, when the rule
// declares no content type, appends the ones uBO requires for it
func (c *Converter) adgRedirectToUbo(rule string, opt parser.RedirectOption) (parser.RedirectOption, error) {
	uboName, ok := c.registry.RedirectFromADG(models.DialectUBlockOrigin, opt.Name)
	if !ok {
		return parser.RedirectOption{}, models.NewRuleError(models.ErrInconvertible, rule, "redirect "+opt.Name+" has no ubo equivalent")
	}

	out := withRedirect(opt, opt.Marker, uboName)
	if !hasContentType(out.Options) {
		if types, ok := c.registry.RequiredContentTypes(opt.Name); ok {
			out.Options = append(out.Options, types...)
		}
	}
	return out, nil
}

func (c *Converter) adgRedirectToAbp(rule string, opt parser.RedirectOption) (parser.RedirectOption, error) {
	abpName, ok := c.registry.RedirectFromADG(models.DialectAdblockPlus, opt.Name)
	if !ok {
		return parser.RedirectOption{}, models.NewRuleError(models.ErrInconvertible, rule, "redirect "+opt.Name+" has no abp equivalent")
	}
	return withRedirect(opt, parser.AbpRedirectMarker, abpName), nil
}

// withRedirect returns a copy of opt with its redirect modifier replaced
func withRedirect(opt parser.RedirectOption, marker, name string) parser.RedirectOption {
	out := opt
	out.Options = append([]string(nil), opt.Options...)
	out.Options[opt.Index] = marker + name
	out.Marker = marker
	out.Name = name
	return out
}

func hasContentType(opts []string) bool {
	for _, o := range opts {
		if registry.IsContentType(o) {
			return true
		}
	}
	return false
}

// IsValidRedirectRule reports whether rule is a redirect rule whose resource
// is known to its dialect
func (c *Converter) IsValidRedirectRule(rule string) bool {
	class := c.classifier.Classify(rule)
	if class.Kind != models.RuleKindRedirect {
		return false
	}
	opt, ok := parser.FindRedirectOption(rule)
	if !ok {
		return false
	}
	name := opt.Name
	if class.Dialect == models.DialectUBlockOrigin {
		name = parser.StripRedirectPriority(name)
	}
	return c.registry.IsRedirectName(class.Dialect, name)
}
