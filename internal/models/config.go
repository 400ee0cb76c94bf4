package models

import "time"

// Config represents the main configuration
type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Output   OutputConfig   `mapstructure:"output"`
	Convert  ConvertConfig  `mapstructure:"convert"`
	Registry RegistryConfig `mapstructure:"registry"`
	Log      LogConfig      `mapstructure:"log"`
	Lists    []FilterList   `mapstructure:"lists"`
}

// HTTPConfig contains HTTP client settings
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

// OutputConfig contains output settings
type OutputConfig struct {
	MaxRulesPerFile  int  `mapstructure:"max_rules_per_file"`
	GenerateCombined bool `mapstructure:"generate_combined"`
	GenerateManifest bool `mapstructure:"generate_manifest"`
}

// ConvertConfig contains conversion settings
type ConvertConfig struct {
	Target            string `mapstructure:"target"`             // adg, ubo or abp
	KeepInconvertible bool   `mapstructure:"keep_inconvertible"` // keep source text of failed rules
	Workers           int    `mapstructure:"workers"`            // lists converted concurrently
}

// RegistryConfig points at optional extra scriptlet/redirect tables
type RegistryConfig struct {
	TablesFile string `mapstructure:"tables_file"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// FilterList represents a single filter list configuration
type FilterList struct {
	Name    string `mapstructure:"name"`
	URL     string `mapstructure:"url"`
	Path    string `mapstructure:"path"` // local file, takes precedence over URL
	Enabled bool   `mapstructure:"enabled"`
}

// Source returns where the list is read from
func (l FilterList) Source() string {
	if l.Path != "" {
		return l.Path
	}
	return l.URL
}

// EnabledLists returns only enabled filter lists
func (c *Config) EnabledLists() []FilterList {
	var enabled []FilterList
	for _, l := range c.Lists {
		if l.Enabled {
			enabled = append(enabled, l)
		}
	}
	return enabled
}
