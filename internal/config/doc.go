// Package config handles configuration loading and merging for rundiff.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --skip, --db, --fail-on-regression, ...)
//  2. Environment variables (RUNDIFF_*, NO_COLOR, CI)
//  3. YAML config file (.rundiff.yaml in the working directory, then
//     $XDG_CONFIG_HOME/rundiff/.rundiff.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
// Skip files are the exception: every source's skip files are combined, since
// each lists failures someone has agreed to track.
//
// # CI Mode Behavior
//
// When CI mode is enabled (CI=true or ci: true in YAML) colors are disabled and
// the auto output format resolves to llm, which is friendlier to log files.
//
// # Environment Variables
//
//   - RUNDIFF_FORMAT: auto, terminal, llm, json, prom
//   - RUNDIFF_THEME: default, orca, mono
//   - RUNDIFF_SKIP: skip list paths separated by the OS list separator
//   - RUNDIFF_DB: snapshot archive path
//   - RUNDIFF_FAIL_ON_REGRESSION: exit 1 when regressions are found
//   - RUNDIFF_NO_COLOR or NO_COLOR: disable colors
//   - RUNDIFF_CI or CI: enable CI mode
//   - RUNDIFF_DEBUG: set to any non-empty value for debug logging
package config
