package converter

import (
	"fmt"
)

// MaxRulesPerFile is the default size of one output part
const MaxRulesPerFile = 50000

// Splitter splits converted rules into output parts
type Splitter struct {
	maxRules int
}

// NewSplitter creates a splitter with the given max rules per file
func NewSplitter(maxRules int) *Splitter {
	if maxRules <= 0 {
		maxRules = MaxRulesPerFile
	}
	return &Splitter{maxRules: maxRules}
}

// Split divides rules into multiple files if needed
// Returns a map of filename suffix -> rules
func (s *Splitter) Split(rules []string, baseName string) map[string][]string {
	result := make(map[string][]string)

	if len(rules) <= s.maxRules {
		result[baseName] = rules
		return result
	}

	numParts := (len(rules) + s.maxRules - 1) / s.maxRules

	for i := 0; i < numParts; i++ {
		start := i * s.maxRules
		end := min(start+s.maxRules, len(rules))

		filename := fmt.Sprintf("%s-part%d", baseName, i+1)
		result[filename] = rules[start:end]
	}

	return result
}

// Deduplicate removes repeated rule lines, keeping the first occurrence.
// Comments are kept as-is since list headers repeat across lists.
func Deduplicate(rules []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(rules))

	for _, r := range rules {
		if len(r) > 0 && r[0] == '!' {
			result = append(result, r)
			continue
		}
		if !seen[r] {
			seen[r] = true
			result = append(result, r)
		}
	}

	return result
}
