package registry

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistryBuilds(t *testing.T) {
	r := Default()
	require.NotNil(t, r)
	assert.Same(t, r, Default(), "default registry is built once")
	assert.NotEmpty(t, r.Scriptlets())
	assert.NotEmpty(t, r.Redirects())
}

func TestBuildRejectsAliasCollision(t *testing.T) {
	_, err := NewBuilder().
		AddScriptlets(
			ScriptletDescriptor{Name: "foo", Aliases: []string{"foo.js", "ubo-foo.js"}},
			ScriptletDescriptor{Name: "bar", Aliases: []string{"bar.js", "foo.js"}},
		).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"foo.js"`)
}

func TestBuildRejectsCanonicalNameCollision(t *testing.T) {
	_, err := NewBuilder().
		AddScriptlets(
			ScriptletDescriptor{Name: "foo"},
			ScriptletDescriptor{Name: "bar", Aliases: []string{"foo"}},
		).
		Build()
	assert.Error(t, err)
}

func TestBuildRejectsDuplicateRedirect(t *testing.T) {
	_, err := NewBuilder().
		AddRedirects(
			RedirectDescriptor{ADG: "noopjs", UBO: "noop.js"},
			RedirectDescriptor{ADG: "noopjs2", UBO: "noop.js"},
		).
		Build()
	assert.Error(t, err)

	_, err = NewBuilder().AddRedirects(RedirectDescriptor{UBO: "noop.js"}).Build()
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		name      string
		input     string
		canonical string
		found     bool
	}{
		{name: "canonical name", input: "set-constant", canonical: "set-constant", found: true},
		{name: "ubo alias with suffix", input: "ubo-set-constant.js", canonical: "set-constant", found: true},
		{name: "ubo short alias", input: "ubo-set", canonical: "set-constant", found: true},
		{name: "abp alias", input: "abp-override-property-read", canonical: "set-constant", found: true},
		{name: "suffix retry", input: "ubo-nostif", canonical: "prevent-setTimeout", found: true},
		{name: "suffix retry on short ubo name", input: "ubo-aopr", canonical: "abort-on-property-read", found: true},
		{name: "suffix retry without ubo prefix", input: "acis", canonical: "abort-current-inline-script", found: true},
		{name: "unknown", input: "no-such-scriptlet", found: false},
		{name: "unknown with suffix is not retried", input: "no-such-scriptlet.js", found: false},
		{name: "empty", input: "", found: false},
		{name: "case sensitive", input: "Set-Constant", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := r.Resolve(tt.input)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.canonical, d.Name)
			}
		})
	}
}

func TestIsValidConsistentWithResolve(t *testing.T) {
	r := Default()

	for _, d := range r.Scriptlets() {
		for _, name := range d.Names() {
			_, resolved := r.Resolve(name)
			assert.True(t, resolved, name)
			assert.True(t, r.IsValid(name), name)
			assert.True(t, r.IsValid(name), "cached result for %s", name)
		}
	}

	for _, name := range []string{"foo", "ubo-foo.js", "abp-", "set-constant.jsx", " set-constant"} {
		assert.False(t, r.IsValid(name), name)
		assert.False(t, r.IsValid(name), "cached result for %s", name)
	}
}

func TestIsValidConcurrent(t *testing.T) {
	r := Default()
	names := []string{"set-constant", "ubo-nostif", "nope", "abp-json-prune", "json-prune.js"}
	want := []bool{true, true, false, true, true}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j, n := range names {
				assert.Equal(t, want[j], r.IsValid(n), n)
			}
		}()
	}
	wg.Wait()
}

func TestDialectAliases(t *testing.T) {
	r := Default()

	d, ok := r.Resolve("set-constant")
	require.True(t, ok)
	ubo, ok := r.UBOAlias(d)
	require.True(t, ok)
	assert.Equal(t, "ubo-set-constant.js", ubo)
	abp, ok := r.ABPAlias(d)
	require.True(t, ok)
	assert.Equal(t, "abp-override-property-read", abp)

	d, ok = r.Resolve("log-eval")
	require.True(t, ok)
	_, ok = r.UBOAlias(d)
	assert.False(t, ok)
	_, ok = r.ABPAlias(d)
	assert.False(t, ok)
}

func TestRedirectTables(t *testing.T) {
	r := Default()

	adg, ok := r.RedirectToADG(models.DialectUBlockOrigin, "noop.js")
	require.True(t, ok)
	assert.Equal(t, "noopjs", adg)

	adg, ok = r.RedirectToADG(models.DialectAdblockPlus, "blank-mp3")
	require.True(t, ok)
	assert.Equal(t, "noopmp3-0.1s", adg)

	_, ok = r.RedirectFromADG(models.DialectUBlockOrigin, "noopvast-2.0")
	assert.False(t, ok, "redirects without a ubo name are absent from adgToUbo")

	_, ok = r.RedirectFromADG(models.DialectAdblockPlus, "google-analytics")
	assert.False(t, ok)

	assert.True(t, r.IsRedirectName(models.DialectAdGuard, "noopjs"))
	assert.False(t, r.IsRedirectName(models.DialectAdGuard, "noop.js"))
	assert.True(t, r.IsRedirectName(models.DialectUBlockOrigin, "noop.js"))
	assert.True(t, r.IsRedirectName(models.DialectAdblockPlus, "blank-js"))
	assert.False(t, r.IsRedirectName(models.DialectUnknown, "noopjs"))
}

func TestRedirectRoundTripThroughUBO(t *testing.T) {
	r := Default()

	for _, d := range r.Redirects() {
		ubo, ok := r.RedirectFromADG(models.DialectUBlockOrigin, d.ADG)
		if !ok {
			continue
		}
		back, ok := r.RedirectToADG(models.DialectUBlockOrigin, ubo)
		require.True(t, ok, d.ADG)
		assert.Equal(t, d.ADG, back)
	}
}

func TestRequiredContentTypes(t *testing.T) {
	r := Default()

	types, ok := r.RequiredContentTypes("google-analytics")
	require.True(t, ok)
	assert.Equal(t, []string{"script"}, types)

	types, ok = r.RequiredContentTypes("googlesyndication-adsbygoogle")
	require.True(t, ok)
	assert.Equal(t, []string{"xmlhttprequest", "script"}, types)

	_, ok = r.RequiredContentTypes(EmptyRedirect)
	assert.False(t, ok)

	_, ok = r.RequiredContentTypes("noopvast-2.0")
	assert.False(t, ok)

	types[0] = "mutated"
	again, _ := r.RequiredContentTypes("googlesyndication-adsbygoogle")
	assert.Equal(t, "xmlhttprequest", again[0], "returned slices are copies")
}

func TestReducedTable(t *testing.T) {
	r, err := NewBuilder().
		AddScriptlets(ScriptletDescriptor{Name: "foo", Aliases: []string{"foo.js", "ubo-foo.js"}}).
		AddRedirects(RedirectDescriptor{ADG: "noopjs", UBO: "noop.js", ContentTypes: []string{"script"}}).
		Build()
	require.NoError(t, err)

	assert.True(t, r.IsValid("ubo-foo"))
	assert.False(t, r.IsValid("set-constant"))
	assert.True(t, r.IsRedirectName(models.DialectUBlockOrigin, "noop.js"))
	assert.False(t, r.IsRedirectName(models.DialectUBlockOrigin, "noop.txt"))
}

func TestTablesYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeTables(&buf, DefaultTables()))
	assert.Contains(t, buf.String(), "ubo-set-constant.js")
	assert.Contains(t, buf.String(), "google-analytics_analytics.js")

	decoded, err := DecodeTables(&buf)
	require.NoError(t, err)
	assert.Equal(t, DefaultTables(), decoded)
}

func TestDecodeTablesRejectsUnknownFields(t *testing.T) {
	_, err := DecodeTables(strings.NewReader("scriptlets:\n  - nam: foo\n"))
	assert.Error(t, err)
}

func TestDecodeTablesEmpty(t *testing.T) {
	tables, err := DecodeTables(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tables.Scriptlets)
}

func TestNewWithTablesFile(t *testing.T) {
	r, err := NewWithTablesFile("")
	require.NoError(t, err)
	assert.Same(t, Default(), r)

	path := t.TempDir() + "/tables.yaml"
	content := `scriptlets:
  - name: my-scriptlet
    aliases:
      - ubo-my-scriptlet.js
redirects:
  - adg: my-redirect
    ubo: my-redirect.js
    content_types: [script]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err = NewWithTablesFile(path)
	require.NoError(t, err)
	assert.True(t, r.IsValid("ubo-my-scriptlet"))
	assert.True(t, r.IsValid("set-constant"))
	name, ok := r.RedirectFromADG(models.DialectUBlockOrigin, "my-redirect")
	require.True(t, ok)
	assert.Equal(t, "my-redirect.js", name)

	_, err = NewWithTablesFile(t.TempDir() + "/missing.yaml")
	assert.Error(t, err)
}

func TestNewWithTablesFileCollision(t *testing.T) {
	path := t.TempDir() + "/tables.yaml"
	require.NoError(t, os.WriteFile(path, []byte("scriptlets:\n  - name: acis.js\n"), 0o644))

	_, err := NewWithTablesFile(path)
	assert.Error(t, err)
}
