package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Tables is the on-disk form of the registry, used for custom tables and
// for dumping the bundled ones
type Tables struct {
	Scriptlets []ScriptletDescriptor `yaml:"scriptlets" json:"scriptlets"`
	Redirects  []RedirectDescriptor  `yaml:"redirects" json:"redirects"`
}

// DecodeTables reads YAML tables from r
func DecodeTables(r io.Reader) (Tables, error) {
	var t Tables
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if err == io.EOF {
			return Tables{}, nil
		}
		return Tables{}, fmt.Errorf("decode registry tables: %w", err)
	}
	return t, nil
}

// LoadTablesFile reads YAML tables from path
func LoadTablesFile(path string) (Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tables{}, err
	}
	defer f.Close()

	return DecodeTables(f)
}

// EncodeTables writes t to w as YAML
func EncodeTables(w io.Writer, t Tables) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// NewWithTablesFile builds a registry from the bundled tables extended with
// the tables in path. An empty path returns the default registry.
func NewWithTablesFile(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	extra, err := LoadTablesFile(path)
	if err != nil {
		return nil, err
	}

	return NewBuilder().
		AddScriptlets(defaultScriptlets...).
		AddRedirects(defaultRedirects...).
		AddTables(extra).
		Build()
}
