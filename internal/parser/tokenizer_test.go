package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgs []string
	}{
		{
			name:     "single quotes",
			input:    `('set-constant', 'foo', 'true')`,
			wantName: "set-constant",
			wantArgs: []string{"foo", "true"},
		},
		{
			name:     "double quotes",
			input:    `("prevent-setTimeout", "ads")`,
			wantName: "prevent-setTimeout",
			wantArgs: []string{"ads"},
		},
		{
			name:     "no args",
			input:    `('nowebrtc')`,
			wantName: "nowebrtc",
		},
		{
			name:     "mixed quotes keep the other quote",
			input:    `('log', "it's", 'say "hi"')`,
			wantName: "log",
			wantArgs: []string{"it's", `say "hi"`},
		},
		{
			name:     "comma inside quotes",
			input:    `('remove-attr', 'href', 'a[href^="x"], a.ad')`,
			wantName: "remove-attr",
			wantArgs: []string{"href", `a[href^="x"], a.ad`},
		},
		{
			name:     "escaped separator is retained",
			input:    `('abort-current-inline-script', '$', '.css(\'display\',\'block\');')`,
			wantName: "abort-current-inline-script",
			wantArgs: []string{"$", `.css(\'display\',\'block\');`},
		},
		{
			name:     "empty argument",
			input:    `('set-constant', 'foo', '')`,
			wantName: "set-constant",
			wantArgs: []string{"foo", ""},
		},
		{
			name:     "no spaces",
			input:    `('set-constant','foo','1')`,
			wantName: "set-constant",
			wantArgs: []string{"foo", "1"},
		},
		{
			name:     "inner parenthesis before the last char",
			input:    `('json-prune', 'a'), )`,
			wantName: "json-prune",
			wantArgs: []string{"a"},
		},
		{
			name:     "unicode argument",
			input:    `('log', 'héllo wörld')`,
			wantName: "log",
			wantArgs: []string{"héllo wörld"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := ParseCall(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, call.Name())
			assert.Equal(t, tt.wantArgs, call.Args())
		})
	}
}

func TestParseCallEscapedQuotesStayInOneToken(t *testing.T) {
	call, err := ParseCall(`('log', '.css(\'display\',\'block\');')`)
	require.NoError(t, err)
	require.Equal(t, 1, call.NumArgs())
	assert.Contains(t, call.Arg(0), `\'display\'`)
	assert.Contains(t, call.Arg(0), `\'block\'`)
}

func TestParseCallErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unquoted name", input: `(set-constant, foo)`},
		{name: "unterminated argument", input: `('set-constant', 'foo`},
		{name: "missing closing paren", input: `('set-constant', 'foo'`},
		{name: "trailing text after paren", input: `('set-constant') x`},
		{name: "trailing space after paren", input: `('set-constant') `},
		{name: "empty call", input: `()`},
		{name: "empty input", input: ``},
		{name: "escaped closing quote never closes", input: `('foo\')`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCall(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMalformedSyntax))
		})
	}
}

func TestParseCallRoundTrip(t *testing.T) {
	calls := [][]string{
		{"set-constant", "foo", "true"},
		{"prevent-setTimeout", "adsbygoogle", "500"},
		{"json-prune", "ads.*.banner playerResponse.adPlacements", ""},
		{"nowebrtc"},
		{"remove-class", "ad, banner", "div.wrapper > span", "complete"},
	}

	for _, words := range calls {
		t.Run(words[0], func(t *testing.T) {
			quoted := make([]string, len(words))
			for i, w := range words {
				quoted[i] = "'" + w + "'"
			}
			src := "(" + strings.Join(quoted, ", ") + ")"

			call, err := ParseCall(src)
			require.NoError(t, err)
			assert.Equal(t, words[0], call.Name())
			if len(words) > 1 {
				assert.Equal(t, words[1:], call.Args())
			} else {
				assert.Empty(t, call.Args())
			}
		})
	}
}

func TestParseAdgRule(t *testing.T) {
	rule, err := ParseAdgRule(`example.org,example.com#%#//scriptlet('set-constant', 'foo', 'true')`)
	require.NoError(t, err)
	assert.Equal(t, "example.org,example.com", rule.Domains)
	assert.False(t, rule.Exception)
	assert.Equal(t, "set-constant", rule.Call.Name())
	assert.Equal(t, []string{"foo", "true"}, rule.Call.Args())

	rule, err = ParseAdgRule(`#@%#//scriptlet('nowebrtc')`)
	require.NoError(t, err)
	assert.Empty(t, rule.Domains)
	assert.True(t, rule.Exception)

	_, err = ParseAdgRule(`example.org##+js(set-constant, foo, true)`)
	assert.ErrorIs(t, err, models.ErrNotThisDialect)

	_, err = ParseAdgRule(`example.org#%#//scriptlet(set-constant)`)
	assert.ErrorIs(t, err, models.ErrMalformedSyntax)

	_, err = ParseAdgRule(`example.org#//scriptlet('set-constant')`)
	assert.ErrorIs(t, err, models.ErrMalformedSyntax)
}

func TestScriptletCallIsImmutable(t *testing.T) {
	args := []string{"a", "b"}
	call := models.NewScriptletCall("log", args)
	args[0] = "changed"
	assert.Equal(t, "a", call.Arg(0))

	got := call.Args()
	got[1] = "changed"
	assert.Equal(t, "b", call.Arg(1))
	assert.Equal(t, "", call.Arg(5))
}
