package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bnema/scriptlet-converter/internal/models"
)

// Dialect alias markers and the uBO scriptlet suffix
const (
	UBOAliasMarker = "ubo-"
	ABPAliasMarker = "abp-"
	JSSuffix       = ".js"
)

// Registry resolves scriptlet names and redirect resources.
// It is immutable after Build and safe for concurrent use.
type Registry struct {
	scriptlets []ScriptletDescriptor
	byName     map[string]int // alias -> index into scriptlets
	redirects  []RedirectDescriptor
	compat     compatTables
	valid      sync.Map // exact input name -> bool
}

// Builder collects descriptors before building a Registry
type Builder struct {
	scriptlets []ScriptletDescriptor
	redirects  []RedirectDescriptor
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{}
}

// AddScriptlets appends scriptlet descriptors
func (b *Builder) AddScriptlets(ds ...ScriptletDescriptor) *Builder {
	b.scriptlets = append(b.scriptlets, ds...)
	return b
}

// AddRedirects appends redirect descriptors
func (b *Builder) AddRedirects(ds ...RedirectDescriptor) *Builder {
	b.redirects = append(b.redirects, ds...)
	return b
}

// AddTables appends both tables from a decoded table file
func (b *Builder) AddTables(t Tables) *Builder {
	return b.AddScriptlets(t.Scriptlets...).AddRedirects(t.Redirects...)
}

// Build validates the collected tables and derives the lookup maps.
// An alias claimed by two scriptlets or a redirect name declared twice is an error.
func (b *Builder) Build() (*Registry, error) {
	r := &Registry{
		scriptlets: make([]ScriptletDescriptor, 0, len(b.scriptlets)),
		byName:     make(map[string]int),
		redirects:  append([]RedirectDescriptor(nil), b.redirects...),
	}

	for _, d := range b.scriptlets {
		if d.Name == "" {
			return nil, fmt.Errorf("scriptlet descriptor without a name")
		}
		idx := len(r.scriptlets)
		for _, name := range d.Names() {
			if prev, ok := r.byName[name]; ok {
				return nil, fmt.Errorf("alias %q claimed by both %q and %q",
					name, r.scriptlets[prev].Name, d.Name)
			}
			r.byName[name] = idx
		}
		r.scriptlets = append(r.scriptlets, ScriptletDescriptor{
			Name:    d.Name,
			Aliases: append([]string(nil), d.Aliases...),
		})
	}

	if err := checkRedirects(r.redirects); err != nil {
		return nil, err
	}
	r.compat = newCompatTables(r.redirects)

	return r, nil
}

func checkRedirects(redirects []RedirectDescriptor) error {
	seen := map[models.Dialect]map[string]bool{
		models.DialectAdGuard:      {},
		models.DialectUBlockOrigin: {},
		models.DialectAdblockPlus:  {},
	}
	for _, r := range redirects {
		if r.ADG == "" {
			return fmt.Errorf("redirect descriptor without an adg name (ubo=%q, abp=%q)", r.UBO, r.ABP)
		}
		for d, name := range map[models.Dialect]string{
			models.DialectAdGuard:      r.ADG,
			models.DialectUBlockOrigin: r.UBO,
			models.DialectAdblockPlus:  r.ABP,
		} {
			if name == "" {
				continue
			}
			if seen[d][name] {
				return fmt.Errorf("redirect %q declared twice for %s", name, d)
			}
			seen[d][name] = true
		}
	}
	return nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry built from the bundled tables
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewBuilder().
			AddScriptlets(defaultScriptlets...).
			AddRedirects(defaultRedirects...).
			Build()
		if err != nil {
			panic(fmt.Sprintf("registry: bundled tables are invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// DefaultTables returns a copy of the bundled tables
func DefaultTables() Tables {
	return Default().Tables()
}

// Resolve finds the descriptor for name. Names without the .js suffix are
// retried with it, since uBO lists often omit it.
func (r *Registry) Resolve(name string) (ScriptletDescriptor, bool) {
	if name == "" {
		return ScriptletDescriptor{}, false
	}
	idx, ok := r.byName[name]
	if !ok && !strings.HasSuffix(name, JSSuffix) {
		idx, ok = r.byName[name+JSSuffix]
	}
	if !ok {
		return ScriptletDescriptor{}, false
	}
	return r.scriptlets[idx], true
}

// IsValid reports whether name resolves. Results are cached per exact input.
func (r *Registry) IsValid(name string) bool {
	if v, ok := r.valid.Load(name); ok {
		return v.(bool)
	}
	_, ok := r.Resolve(name)
	r.valid.Store(name, ok)
	return ok
}

// UBOAlias returns the first alias carrying the ubo- marker
func (r *Registry) UBOAlias(d ScriptletDescriptor) (string, bool) {
	return aliasWithMarker(d, UBOAliasMarker)
}

// ABPAlias returns the first alias carrying the abp- marker
func (r *Registry) ABPAlias(d ScriptletDescriptor) (string, bool) {
	return aliasWithMarker(d, ABPAliasMarker)
}

func aliasWithMarker(d ScriptletDescriptor, marker string) (string, bool) {
	for _, a := range d.Aliases {
		if strings.Contains(a, marker) {
			return a, true
		}
	}
	return "", false
}

// Scriptlets returns a copy of the scriptlet descriptors
func (r *Registry) Scriptlets() []ScriptletDescriptor {
	out := make([]ScriptletDescriptor, len(r.scriptlets))
	for i, d := range r.scriptlets {
		out[i] = ScriptletDescriptor{Name: d.Name, Aliases: append([]string(nil), d.Aliases...)}
	}
	return out
}

// Redirects returns a copy of the redirect descriptors
func (r *Registry) Redirects() []RedirectDescriptor {
	out := make([]RedirectDescriptor, len(r.redirects))
	for i, d := range r.redirects {
		d.ContentTypes = append([]string(nil), d.ContentTypes...)
		out[i] = d
	}
	return out
}

// Tables returns the registry contents in table-file form
func (r *Registry) Tables() Tables {
	return Tables{Scriptlets: r.Scriptlets(), Redirects: r.Redirects()}
}

// IsRedirectName reports whether name is a redirect resource in dialect d
func (r *Registry) IsRedirectName(d models.Dialect, name string) bool {
	switch d {
	case models.DialectAdGuard:
		_, ok := r.compat.adg[name]
		return ok
	case models.DialectUBlockOrigin:
		_, ok := r.compat.uboToAdg[name]
		return ok
	case models.DialectAdblockPlus:
		_, ok := r.compat.abpToAdg[name]
		return ok
	}
	return false
}

// RedirectToADG maps a redirect name of dialect d to its AdGuard name
func (r *Registry) RedirectToADG(d models.Dialect, name string) (string, bool) {
	switch d {
	case models.DialectAdGuard:
		_, ok := r.compat.adg[name]
		return name, ok
	case models.DialectUBlockOrigin:
		adg, ok := r.compat.uboToAdg[name]
		return adg, ok
	case models.DialectAdblockPlus:
		adg, ok := r.compat.abpToAdg[name]
		return adg, ok
	}
	return "", false
}

// RedirectFromADG maps an AdGuard redirect name to dialect d. Redirects with
// no equivalent in d are reported as missing.
func (r *Registry) RedirectFromADG(d models.Dialect, adgName string) (string, bool) {
	switch d {
	case models.DialectAdGuard:
		_, ok := r.compat.adg[adgName]
		return adgName, ok
	case models.DialectUBlockOrigin:
		name, ok := r.compat.adgToUbo[adgName]
		return name, ok
	case models.DialectAdblockPlus:
		name, ok := r.compat.adgToAbp[adgName]
		return name, ok
	}
	return "", false
}

// RequiredContentTypes returns the modifiers a uBO rule for adgName needs
// when it declares none. The empty redirect never needs one.
func (r *Registry) RequiredContentTypes(adgName string) ([]string, bool) {
	if adgName == EmptyRedirect {
		return nil, false
	}
	types, ok := r.compat.contentTypes[adgName]
	if !ok {
		return nil, false
	}
	return append([]string(nil), types...), true
}

// IsContentType reports whether opt is a known resource-type modifier
func IsContentType(opt string) bool {
	for _, t := range ContentTypes {
		if opt == t {
			return true
		}
	}
	return false
}
