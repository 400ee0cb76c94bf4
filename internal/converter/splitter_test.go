package converter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitter(t *testing.T) {
	rules := make([]string, 5)
	for i := range rules {
		rules[i] = fmt.Sprintf("example.org##+js(set-constant, v%d, true)", i)
	}

	t.Run("under the limit", func(t *testing.T) {
		parts := NewSplitter(10).Split(rules, "ubo")
		assert.Len(t, parts, 1)
		assert.Equal(t, rules, parts["ubo"])
	})

	t.Run("over the limit", func(t *testing.T) {
		parts := NewSplitter(2).Split(rules, "ubo")
		assert.Len(t, parts, 3)
		assert.Equal(t, rules[0:2], parts["ubo-part1"])
		assert.Equal(t, rules[2:4], parts["ubo-part2"])
		assert.Equal(t, rules[4:], parts["ubo-part3"])
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		s := NewSplitter(0)
		assert.Equal(t, MaxRulesPerFile, s.maxRules)
	})
}

func TestDeduplicate(t *testing.T) {
	in := []string{
		"! Title: a",
		"example.org##+js(nowebrtc)",
		"! Title: a",
		"example.org##+js(nowebrtc)",
		"||example.com^$redirect=noop.js,script",
	}
	assert.Equal(t, []string{
		"! Title: a",
		"example.org##+js(nowebrtc)",
		"! Title: a",
		"||example.com^$redirect=noop.js,script",
	}, Deduplicate(in))
}

func TestSetConstantValues(t *testing.T) {
	for _, v := range setConstantValues {
		assert.Equal(t, v.ubo, setConstantValueToUbo(v.adg))
		assert.Equal(t, v.adg, setConstantValueToAdg(v.ubo))
	}
	assert.Equal(t, "true", setConstantValueToUbo("true"))
	assert.Equal(t, "noopFunc", setConstantValueToAdg("noopFunc"))
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `'a'`, wrapInSingleQuotes(`"a"`))
	assert.Equal(t, `'it"s'`, wrapInSingleQuotes(`it's`))
	assert.Equal(t, `''`, wrapInSingleQuotes(``))
	assert.Equal(t, `a\,b\,c`, escapeCommas(`a,b\,c`))
	assert.Equal(t, `a,b`, unescapeCommas(`a\,b`))
	assert.Equal(t, `plain`, quoteAbpArg(`plain`))
	assert.Equal(t, `'two words'`, quoteAbpArg(`two words`))
	assert.Equal(t, `'it\'s'`, quoteAbpArg(`it's`))
}
