package parser

import (
	"regexp"
	"strings"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// Dialect markers
const (
	CommentMarker = "!"

	AdgScriptletMarker = "#//scriptlet"
	AdgJSRuleMarker    = "#%#"
	AdgJSRuleException = "#@%#"

	UboScriptletMask1          = "##+js"
	UboScriptletMask2          = "##script:inject"
	UboScriptletExceptionMask1 = "#@#+js"
	UboScriptletExceptionMask2 = "#@#script:inject"

	AbpSnippetMask          = "#$#"
	AbpSnippetExceptionMask = "#@$#"
)

var (
	// The substring masks also match things like ##+jsfoo selectors
	reUboScriptletMask = regexp.MustCompile(`#@?#script:inject|#@?#\s*\+js`)

	// ADG CSS injection shares the #$# marker with ABP snippets
	reAdgCSSInjection = regexp.MustCompile(`#@?\$#.+?\s*\{.*\}\s*$`)

	scriptletMarkers = []string{
		AdgJSRuleMarker, AdgJSRuleException,
		UboScriptletMask1, UboScriptletMask2, UboScriptletExceptionMask1, UboScriptletExceptionMask2,
		AbpSnippetMask, AbpSnippetExceptionMask,
	}
)

// IsComment reports whether rule is a filter list comment
func IsComment(rule string) bool {
	return strings.HasPrefix(rule, CommentMarker)
}

// IsAdgScriptletRule reports whether rule uses the AdGuard scriptlet syntax
func IsAdgScriptletRule(rule string) bool {
	return !IsComment(rule) && strings.Contains(rule, AdgScriptletMarker)
}

// IsUboScriptletRule reports whether rule is a uBO +js/script:inject rule
func IsUboScriptletRule(rule string) bool {
	if IsComment(rule) {
		return false
	}
	hasMask := strings.Contains(rule, UboScriptletMask1) ||
		strings.Contains(rule, UboScriptletMask2) ||
		strings.Contains(rule, UboScriptletExceptionMask1) ||
		strings.Contains(rule, UboScriptletExceptionMask2)
	return hasMask && reUboScriptletMask.MatchString(rule)
}

// IsAdgCSSInjection reports whether rule is a #$# CSS injection rather than a snippet
func IsAdgCSSInjection(rule string) bool {
	return reAdgCSSInjection.MatchString(rule)
}

// IsAbpSnippetRule reports whether rule is an ABP #$# snippet rule
func IsAbpSnippetRule(rule string) bool {
	if IsComment(rule) {
		return false
	}
	hasMask := strings.Contains(rule, AbpSnippetMask) || strings.Contains(rule, AbpSnippetExceptionMask)
	return hasMask && !IsAdgCSSInjection(rule)
}

// HasScriptletMarker reports whether rule contains any dialect's scriptlet
// marker. JS rules may carry a redirect= substring in their code.
func HasScriptletMarker(rule string) bool {
	for _, m := range scriptletMarkers {
		if strings.Contains(rule, m) {
			return true
		}
	}
	return false
}

// RedirectLookup answers whether a resource name belongs to a dialect
type RedirectLookup interface {
	IsRedirectName(d models.Dialect, name string) bool
}

// Classifier labels raw rule lines
type Classifier struct {
	redirects RedirectLookup
}

// NewClassifier creates a classifier. Redirect names are checked against
// redirects to tell AdGuard and uBO redirect rules apart.
func NewClassifier(redirects RedirectLookup) *Classifier {
	return &Classifier{redirects: redirects}
}

// Classify labels rule. Comments short-circuit everything else.
func (c *Classifier) Classify(rule string) models.Classification {
	if IsComment(rule) {
		return models.Classification{Kind: models.RuleKindComment}
	}

	if d, exception, ok := scriptletDialect(rule); ok {
		return models.Classification{Kind: models.RuleKindScriptlet, Dialect: d, Exception: exception}
	}

	if HasScriptletMarker(rule) {
		return models.Classification{Kind: models.RuleKindUnrelated}
	}

	if opt, ok := FindRedirectOption(rule); ok {
		return models.Classification{
			Kind:      models.RuleKindRedirect,
			Dialect:   c.redirectDialect(opt),
			Exception: strings.HasPrefix(rule, "@@"),
		}
	}

	return models.Classification{Kind: models.RuleKindUnrelated}
}

// scriptletDialect picks the dialect whose marker appears first, so a marker
// quoted inside another dialect's arguments does not win.
func scriptletDialect(rule string) (models.Dialect, bool, bool) {
	best := -1
	var dialect models.Dialect
	var exception bool

	consider := func(d models.Dialect, pos int, exc bool) {
		if pos >= 0 && (best < 0 || pos < best) {
			best, dialect, exception = pos, d, exc
		}
	}

	if IsAdgScriptletRule(rule) {
		if loc := reAdgScriptletMask.FindStringIndex(rule); loc != nil {
			consider(models.DialectAdGuard, loc[0], strings.Contains(rule[loc[0]:loc[1]], "@"))
		} else {
			consider(models.DialectAdGuard, strings.Index(rule, AdgScriptletMarker), false)
		}
	}
	if IsUboScriptletRule(rule) {
		loc := reUboScriptletMask.FindStringIndex(rule)
		consider(models.DialectUBlockOrigin, loc[0], strings.Contains(rule[loc[0]:loc[1]], "@"))
	}
	if IsAbpSnippetRule(rule) {
		pos := strings.Index(rule, AbpSnippetMask)
		exc := strings.Index(rule, AbpSnippetExceptionMask)
		if exc >= 0 && (pos < 0 || exc < pos) {
			consider(models.DialectAdblockPlus, exc, true)
		} else {
			consider(models.DialectAdblockPlus, pos, false)
		}
	}

	return dialect, exception, best >= 0
}

func (c *Classifier) redirectDialect(opt RedirectOption) models.Dialect {
	if opt.Marker == AbpRedirectMarker {
		return models.DialectAdblockPlus
	}
	if c.redirects == nil || c.redirects.IsRedirectName(models.DialectAdGuard, opt.Name) {
		return models.DialectAdGuard
	}
	if c.redirects.IsRedirectName(models.DialectUBlockOrigin, StripRedirectPriority(opt.Name)) {
		return models.DialectUBlockOrigin
	}
	// Unknown names are left to the converter to reject
	return models.DialectAdGuard
}

// StripRedirectPriority drops uBO's :priority suffix from a redirect value
func StripRedirectPriority(name string) string {
	idx := strings.LastIndex(name, ":")
	if idx <= 0 || idx == len(name)-1 {
		return name
	}
	for _, ch := range name[idx+1:] {
		if ch < '0' || ch > '9' {
			return name
		}
	}
	return name[:idx]
}
