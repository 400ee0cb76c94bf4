package converter

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/bnema/scriptlet-converter/internal/parser"
	"github.com/bnema/scriptlet-converter/internal/registry"
)

// Converter translates scriptlet and redirect rules between dialects.
// ConvertRule is safe for concurrent use; Convert updates Stats and is not.
type Converter struct {
	registry          *registry.Registry
	classifier        *parser.Classifier
	logger            zerolog.Logger
	keepInconvertible bool
	stats             Stats
}

// Stats tracks conversion statistics
type Stats struct {
	Converted     int
	PassedThrough int
	Skipped       int
	SkipReasons   map[string]int
}

// Skip reason constants
const (
	SkipMalformed      = "malformed-syntax"
	SkipUnknownName    = "unknown-name"
	SkipInconvertible  = "inconvertible"
	SkipNotThisDialect = "not-this-dialect"
	SkipOther          = "other"
)

// Option configures a Converter
type Option func(*Converter)

// WithLogger sets the logger used to trace skipped rules
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithKeepInconvertible keeps the source text of rules that fail to convert
func WithKeepInconvertible(keep bool) Option {
	return func(c *Converter) {
		c.keepInconvertible = keep
	}
}

// New creates a new converter
func New(reg *registry.Registry, opts ...Option) *Converter {
	c := &Converter{
		registry:   reg,
		classifier: parser.NewClassifier(reg),
		logger:     zerolog.Nop(),
		stats: Stats{
			SkipReasons: make(map[string]int),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classifier returns the classifier bound to this converter's registry
func (c *Converter) Classifier() *parser.Classifier {
	return c.classifier
}

// skip records a skipped rule with reason
func (c *Converter) skip(reason string) {
	c.stats.Skipped++
	c.stats.SkipReasons[reason]++
}

// Stats returns conversion statistics
func (c *Converter) Stats() Stats {
	return c.stats
}

// Convert translates classified rules into the target dialect. Comments and
// unrelated rules pass through; rules that fail are dropped (or kept as-is
// with WithKeepInconvertible) and counted.
func (c *Converter) Convert(rules []models.Rule, target models.Dialect) []string {
	var out []string

	for _, r := range rules {
		switch r.Classification.Kind {
		case models.RuleKindScriptlet, models.RuleKindRedirect:
		default:
			c.stats.PassedThrough++
			out = append(out, r.Raw)
			continue
		}

		converted, err := c.convertClassified(r.Raw, r.Classification, target)
		if err != nil {
			c.skip(SkipReason(err))
			c.logger.Debug().
				Err(err).
				Str("rule", r.Raw).
				Str("target", target.String()).
				Msg("rule not converted")
			if c.keepInconvertible {
				out = append(out, r.Raw)
			}
			continue
		}

		c.stats.Converted++
		out = append(out, converted...)
	}

	return out
}

// ConvertRule translates a single rule line into the target dialect.
// ABP rules chaining several snippets may yield more than one rule.
func (c *Converter) ConvertRule(rule string, target models.Dialect) ([]string, error) {
	return c.convertClassified(rule, c.classifier.Classify(rule), target)
}

func (c *Converter) convertClassified(rule string, class models.Classification, target models.Dialect) ([]string, error) {
	switch target {
	case models.DialectAdGuard, models.DialectUBlockOrigin, models.DialectAdblockPlus:
	default:
		return nil, models.NewRuleError(models.ErrInconvertible, rule, "unknown target dialect")
	}

	switch class.Kind {
	case models.RuleKindScriptlet:
		return c.convertScriptlet(rule, class, target)
	case models.RuleKindRedirect:
		return c.convertRedirect(rule, class, target)
	}
	return []string{rule}, nil
}

// SkipReason maps a conversion error to a skip reason
func SkipReason(err error) string {
	switch {
	case errors.Is(err, models.ErrMalformedSyntax):
		return SkipMalformed
	case errors.Is(err, models.ErrUnknownName):
		return SkipUnknownName
	case errors.Is(err, models.ErrInconvertible):
		return SkipInconvertible
	case errors.Is(err, models.ErrNotThisDialect):
		return SkipNotThisDialect
	}
	return SkipOther
}
