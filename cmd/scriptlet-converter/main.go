package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/scriptlet-converter/internal/converter"
	"github.com/bnema/scriptlet-converter/internal/logging"
	"github.com/bnema/scriptlet-converter/internal/models"
	"github.com/bnema/scriptlet-converter/internal/parser"
	"github.com/bnema/scriptlet-converter/internal/registry"
)

const (
	envPrefix         = "SCRIPTLET_CONVERTER"
	defaultConfigPath = "./configs/scriptlet_converter.toml"
)

var (
	cfgFile string
	verbose bool
	cfg     models.Config
	logger  zerolog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scriptlet-converter",
	Short: "Convert scriptlet and redirect rules between ad blocker dialects",
	Long: `A tool that converts scriptlet and redirect filter rules between the
AdGuard, uBlock Origin and Adblock Plus syntaxes.`,
	SilenceUsage: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert configured filter lists to a target dialect",
	RunE:  runConvert,
}

var ruleCmd = &cobra.Command{
	Use:   "rule <rule>...",
	Short: "Convert single rules and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRule,
}

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Report scriptlet and redirect rules with unknown names",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runValidate,
}

var compatCmd = &cobra.Command{
	Use:   "compat",
	Short: "Print the scriptlet and redirect compatibility tables",
	RunE:  runCompat,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured filter lists",
	RunE:  runList,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE:  runInit,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: "+defaultConfigPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	convertCmd.Flags().StringP("target", "t", "", "target dialect: adg, ubo or abp (default from config)")
	convertCmd.Flags().StringSliceP("input", "i", nil, "convert local files instead of the configured lists")
	convertCmd.Flags().StringP("output", "o", "./output", "output directory")
	convertCmd.Flags().Bool("dry-run", false, "parse and convert without writing files")
	convertCmd.Flags().Bool("combined", true, "generate combined output file")
	convertCmd.Flags().Bool("keep-inconvertible", false, "keep rules that cannot be converted as-is")

	ruleCmd.Flags().StringP("target", "t", "", "target dialect: adg, ubo or abp (default from config)")

	compatCmd.Flags().StringP("format", "f", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(convertCmd, ruleCmd, validateCmd, compatCmd, listCmd, initCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scriptlet_converter")
		viper.SetConfigType("toml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.retries", 3)
	viper.SetDefault("output.max_rules_per_file", converter.MaxRulesPerFile)
	viper.SetDefault("output.generate_combined", true)
	viper.SetDefault("output.generate_manifest", true)
	viper.SetDefault("convert.target", "adg")
	viper.SetDefault("convert.keep_inconvertible", false)
	viper.SetDefault("convert.workers", 4)
	viper.SetDefault("registry.tables_file", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")

	configErr := viper.ReadInConfig()
	unmarshalErr := viper.Unmarshal(&cfg)

	logger = logging.NewFromEnv(cfg.Log)
	if verbose {
		logger = logger.Level(zerolog.DebugLevel)
	}

	if configErr != nil {
		if _, ok := configErr.(viper.ConfigFileNotFoundError); !ok {
			logger.Error().Err(configErr).Msg("reading config")
		}
	} else {
		logger.Debug().Str("file", viper.ConfigFileUsed()).Msg("config loaded")
	}
	if unmarshalErr != nil {
		logger.Error().Err(unmarshalErr).Msg("parsing config")
	}
}

// targetDialect reads --target, falling back to convert.target
func targetDialect(cmd *cobra.Command) (models.Dialect, error) {
	target, _ := cmd.Flags().GetString("target")
	if target == "" {
		target = cfg.Convert.Target
	}
	return models.ParseDialect(target)
}

func newRegistry() (*registry.Registry, error) {
	reg, err := registry.NewWithTablesFile(cfg.Registry.TablesFile)
	if err != nil {
		return nil, fmt.Errorf("loading registry tables: %w", err)
	}
	return reg, nil
}

func runRule(cmd *cobra.Command, args []string) error {
	target, err := targetDialect(cmd)
	if err != nil {
		return err
	}
	reg, err := newRegistry()
	if err != nil {
		return err
	}

	c := converter.New(reg, converter.WithLogger(logger))
	out := cmd.OutOrStdout()
	failed := 0

	for _, rule := range args {
		converted, err := c.ConvertRule(strings.TrimSpace(rule), target)
		if err != nil {
			failed++
			logger.Error().Err(err).Str("reason", converter.SkipReason(err)).Msg("rule not converted")
			continue
		}
		for _, r := range converted {
			fmt.Fprintln(out, r)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d rules could not be converted", failed, len(args))
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	c := converter.New(reg)
	out := cmd.OutOrStdout()
	invalid := 0

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		p := parser.New(c.Classifier())
		rules, err := p.Parse(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		fileInvalid := 0
		for _, r := range rules {
			if !isValidRule(c, r) {
				fileInvalid++
				fmt.Fprintf(out, "%s: [%s] %s\n", path, r.Classification.Dialect, r.Raw)
			}
		}

		stats := p.Stats()
		logger.Info().
			Str("file", path).
			Int("scriptlets", stats.Scriptlets).
			Int("redirects", stats.Redirects).
			Int("invalid", fileInvalid).
			Msg("validated")
		invalid += fileInvalid
	}

	if invalid > 0 {
		return fmt.Errorf("%d invalid rules", invalid)
	}
	return nil
}

// isValidRule reports false only for scriptlet and redirect rules that do
// not resolve
func isValidRule(c *converter.Converter, r models.Rule) bool {
	switch r.Classification.Kind {
	case models.RuleKindScriptlet:
		return c.IsValidScriptletRule(r.Raw)
	case models.RuleKindRedirect:
		return c.IsValidRedirectRule(r.Raw)
	}
	return true
}

func runCompat(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	return writeTables(cmd.OutOrStdout(), reg.Tables(), format)
}

func writeTables(w io.Writer, t registry.Tables, format string) error {
	switch format {
	case "yaml", "yml":
		return registry.EncodeTables(w, t)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	}
	return fmt.Errorf("unknown format %q (want yaml or json)", format)
}

func runList(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "Configured filter lists:\n\n")
	for _, list := range cfg.Lists {
		status := "enabled"
		if !list.Enabled {
			status = "disabled"
		}
		fmt.Fprintf(out, "  [%s] %s\n", status, list.Name)
		fmt.Fprintf(out, "         %s\n\n", list.Source())
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := defaultConfigPath
	if cfgFile != "" {
		configPath = cfgFile
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", configPath)
	return nil
}

const defaultConfig = `# Scriptlet Converter Configuration

# HTTP client settings
[http]
timeout = "30s"
retries = 3

# Output settings
[output]
max_rules_per_file = 50000
generate_combined = true
generate_manifest = true

# Conversion settings
# target is one of adg, ubo, abp
[convert]
target = "adg"
keep_inconvertible = false
workers = 4

# Extra scriptlet/redirect tables (YAML), merged over the bundled ones
[registry]
tables_file = ""

# Logging: level is trace, debug, info, warn or error; format is console or json
[log]
level = "info"
format = "console"

# Filter lists to convert
# Set enabled = false to skip a list, path = "..." to read a local file

[[lists]]
name = "ublock-filters"
url = "https://ublockorigin.github.io/uAssets/filters/filters.txt"
enabled = true

[[lists]]
name = "ublock-quick-fixes"
url = "https://ublockorigin.github.io/uAssets/filters/quick-fixes.txt"
enabled = true

[[lists]]
name = "ublock-unbreak"
url = "https://ublockorigin.github.io/uAssets/filters/unbreak.txt"
enabled = true

[[lists]]
name = "adguard-base"
url = "https://filters.adtidy.org/extension/chromium/filters/2.txt"
enabled = false

[[lists]]
name = "abp-filters-anti-cv"
url = "https://easylist-downloads.adblockplus.org/abp-filters-anti-cv.txt"
enabled = false
`

// writeLines writes one rule per line to dir/filename
func writeLines(dir, filename string, lines []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		if _, err := w.WriteString(l + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

func writeJSON(dir, filename string, data any) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
