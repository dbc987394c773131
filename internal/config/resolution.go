package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Valid output formats and themes.
var (
	Formats = []string{"auto", "terminal", "llm", "json", "prom"}
	Themes  = []string{"default", "orca", "mono"}
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user passed the flag explicitly.
type CliFlags struct {
	ConfigPath       string
	Format           string
	Theme            string
	SkipFiles        []string
	ArchivePath      string
	FailOnRegression bool
	Verbose          bool

	FormatSet           bool
	ThemeSet            bool
	ArchivePathSet      bool
	FailOnRegressionSet bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	Format           string
	Theme            string
	SkipFiles        []string
	ArchivePath      string
	FailOnRegression bool
	NoColor          bool
	CI               bool
	Debug            bool
	WatchDebounce    time.Duration

	// ConfigFile is the YAML file that was loaded, if any.
	ConfigFile string

	// Resolution metadata (for debugging)
	FormatSource string // "cli", "env", "file", "default"
	ThemeSource  string // "cli", "env", "file", "default"
}

// ResolveConfig resolves configuration from all sources with explicit priority order.
//
// Resolution order:
//  1. Load base config from .rundiff.yaml (or defaults)
//  2. Apply environment variables
//  3. Apply CLI flags (highest priority)
//  4. Validate the result
func ResolveConfig(cli CliFlags) (*ResolvedConfig, error) {
	appCfg, file, err := LoadConfig(cli.ConfigPath)
	if err != nil {
		return nil, err
	}

	resolved := &ResolvedConfig{
		Format:           appCfg.Format,
		Theme:            appCfg.Theme,
		SkipFiles:        append([]string(nil), appCfg.SkipFiles...),
		ArchivePath:      appCfg.ArchivePath,
		FailOnRegression: appCfg.FailOnRegression,
		NoColor:          appCfg.NoColor,
		CI:               appCfg.CI,
		Debug:            appCfg.Debug,
		WatchDebounce:    appCfg.WatchDebounce,
		ConfigFile:       file,
		FormatSource:     "default",
		ThemeSource:      "default",
	}
	if file != "" {
		if appCfg.Format != DefaultFormat {
			resolved.FormatSource = "file"
		}
		if appCfg.Theme != DefaultTheme {
			resolved.ThemeSource = "file"
		}
	}

	applyEnv(resolved)

	if cli.FormatSet {
		resolved.Format = cli.Format
		resolved.FormatSource = "cli"
	}
	if cli.ThemeSet {
		resolved.Theme = cli.Theme
		resolved.ThemeSource = "cli"
	}
	if cli.ArchivePathSet {
		resolved.ArchivePath = cli.ArchivePath
	}
	if cli.FailOnRegressionSet {
		resolved.FailOnRegression = cli.FailOnRegression
	}
	if cli.Verbose {
		resolved.Debug = true
	}
	resolved.SkipFiles = append(resolved.SkipFiles, cli.SkipFiles...)

	if resolved.CI {
		resolved.NoColor = true
	}

	if err := validate(resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func applyEnv(r *ResolvedConfig) {
	if v := os.Getenv("RUNDIFF_FORMAT"); v != "" {
		r.Format = v
		r.FormatSource = "env"
	}
	if v := os.Getenv("RUNDIFF_THEME"); v != "" {
		r.Theme = v
		r.ThemeSource = "env"
	}
	if v := os.Getenv("RUNDIFF_SKIP"); v != "" {
		for _, p := range filepath.SplitList(v) {
			if p != "" {
				r.SkipFiles = append(r.SkipFiles, p)
			}
		}
	}
	if v := os.Getenv("RUNDIFF_DB"); v != "" {
		r.ArchivePath = v
	}
	if b, ok := envBool("RUNDIFF_FAIL_ON_REGRESSION"); ok {
		r.FailOnRegression = b
	}
	if b, ok := envBool("RUNDIFF_NO_COLOR", "NO_COLOR"); ok {
		r.NoColor = b
	}
	if b, ok := envBool("RUNDIFF_CI", "CI"); ok {
		r.CI = b
	}
	if os.Getenv("RUNDIFF_DEBUG") != "" {
		r.Debug = true
	}
}

// envBool returns the first parseable boolean among keys. NO_COLOR is
// conventionally "any non-empty value", so unparseable values count as true.
func envBool(keys ...string) (bool, bool) {
	for _, k := range keys {
		v := os.Getenv(k)
		if v == "" {
			continue
		}
		if b, err := strconv.ParseBool(v); err == nil {
			return b, true
		}
		if k == "NO_COLOR" {
			return true, true
		}
	}
	return false, false
}

func validate(r *ResolvedConfig) error {
	if !contains(Formats, r.Format) {
		return fmt.Errorf("unknown format %q (expected %s)", r.Format, strings.Join(Formats, ", "))
	}
	if !contains(Themes, r.Theme) {
		return fmt.Errorf("unknown theme %q (expected %s)", r.Theme, strings.Join(Themes, ", "))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
