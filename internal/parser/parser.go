package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// maxLineSize bounds a single rule line; some scriptlet rules carry long regexes
const maxLineSize = 1024 * 1024

// Parser reads filter lists line by line and classifies each rule
type Parser struct {
	classifier *Classifier
	stats      Stats
}

// Stats tracks parsing statistics
type Stats struct {
	Total      int
	Comments   int
	Scriptlets int
	Redirects  int
	Exceptions int
	Unrelated  int
	ByDialect  map[string]int // scriptlet and redirect rules per dialect
}

// New creates a new parser
func New(classifier *Classifier) *Parser {
	return &Parser{
		classifier: classifier,
		stats: Stats{
			ByDialect: make(map[string]int),
		},
	}
}

// Stats returns parsing statistics
func (p *Parser) Stats() Stats {
	return p.stats
}

// Parse reads filter content and returns every non-empty line, classified
func (p *Parser) Parse(r io.Reader) ([]models.Rule, error) {
	var rules []models.Rule
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rule := p.parseLine(line)
		p.stats.Total++

		switch rule.Classification.Kind {
		case models.RuleKindComment:
			p.stats.Comments++
		case models.RuleKindScriptlet:
			p.stats.Scriptlets++
			p.stats.ByDialect[rule.Classification.Dialect.String()]++
		case models.RuleKindRedirect:
			p.stats.Redirects++
			p.stats.ByDialect[rule.Classification.Dialect.String()]++
		default:
			p.stats.Unrelated++
		}
		if rule.Classification.Exception {
			p.stats.Exceptions++
		}

		rules = append(rules, rule)
	}

	return rules, scanner.Err()
}

// parseLine classifies a single filter line
func (p *Parser) parseLine(line string) models.Rule {
	// List headers like [Adblock Plus 2.0] are kept as comments
	if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
		return models.Rule{Raw: line, Classification: models.Classification{Kind: models.RuleKindComment}}
	}

	return models.Rule{Raw: line, Classification: p.classifier.Classify(line)}
}
