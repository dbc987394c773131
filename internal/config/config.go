package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".rundiff.yaml"

// AppConfig represents the application's configuration from .rundiff.yaml.
type AppConfig struct {
	Format           string        `yaml:"format"`
	Theme            string        `yaml:"theme"`
	SkipFiles        []string      `yaml:"skip_files"`
	ArchivePath      string        `yaml:"archive_path"`
	FailOnRegression bool          `yaml:"fail_on_regression"`
	NoColor          bool          `yaml:"no_color"`
	CI               bool          `yaml:"ci"`
	Debug            bool          `yaml:"debug"`
	WatchDebounce    time.Duration `yaml:"watch_debounce"`
}

// Constants for default values.
const (
	DefaultFormat        = "auto"
	DefaultTheme         = "default"
	DefaultArchivePath   = ".rundiff/snapshots.db"
	DefaultWatchDebounce = 250 * time.Millisecond
)

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		Format:        DefaultFormat,
		Theme:         DefaultTheme,
		ArchivePath:   DefaultArchivePath,
		WatchDebounce: DefaultWatchDebounce,
	}
}

// LoadConfig loads configuration from path, or from the first discovered
// .rundiff.yaml when path is empty. It returns the file actually used ("" when
// none was found). An explicit path that does not exist is an error; a
// missing discovered file is not.
func LoadConfig(path string) (*AppConfig, string, error) {
	appCfg := Defaults()

	explicit := path != ""
	if !explicit {
		path = getConfigPath()
		if path == "" {
			return appCfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return appCfg, "", nil
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, "", fmt.Errorf("parsing config file %s: %w", path, err)
	}

	// Merge YAML settings onto the defaults
	if fileCfg.Format != "" {
		appCfg.Format = fileCfg.Format
	}
	if fileCfg.Theme != "" {
		appCfg.Theme = fileCfg.Theme
	}
	if fileCfg.ArchivePath != "" {
		appCfg.ArchivePath = fileCfg.ArchivePath
	}
	if fileCfg.WatchDebounce > 0 {
		appCfg.WatchDebounce = fileCfg.WatchDebounce
	}
	appCfg.SkipFiles = resolvePaths(filepath.Dir(path), fileCfg.SkipFiles)
	appCfg.FailOnRegression = fileCfg.FailOnRegression
	appCfg.NoColor = fileCfg.NoColor
	appCfg.CI = fileCfg.CI
	appCfg.Debug = fileCfg.Debug

	return appCfg, path, nil
}

// resolvePaths makes relative skip files relative to the config file.
func resolvePaths(dir string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		out = append(out, p)
	}
	return out
}

// getConfigPath tries to find the .rundiff.yaml configuration file.
// It checks the local directory first, then the user config directory.
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	configHome, err := os.UserConfigDir()
	// An empty or root config dir is not usable for per-user config.
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "rundiff", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
