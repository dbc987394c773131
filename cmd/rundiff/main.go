// rundiff compares two test or coverage runs and reports what changed.
//
// Usage:
//
//	rundiff tests --baseline main.xml --report pr.xml --skip known_failures.txt
//	rundiff coverage --baseline main-cov.xml --report coverage.xml
//	rundiff snapshot save --label main report.xml
//	rundiff tests --baseline-snapshot main --report pr.xml --fail-on-regression
//
// Reports are JUnit XML (tests) or Cobertura XML (coverage); the format is
// sniffed from the file. "-" reads the current report from stdin.
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped or in CI)
//	json      structured JSON for automation
//	prom      Prometheus text exposition for textfile collectors
//
// Exit codes: 0 report rendered, 1 regressions with --fail-on-regression,
// 2 usage, load, or parse error.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dkoosis/rundiff/internal/config"
	"github.com/dkoosis/rundiff/internal/logging"
	"github.com/dkoosis/rundiff/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// exitError carries a specific exit code. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// errRegressions signals that --fail-on-regression tripped.
var errRegressions = &exitError{code: 1}

// app holds state shared by every subcommand for one invocation.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer

	// persistent flags
	configPath string
	format     string
	theme      string
	verbose    bool

	cfg *config.ResolvedConfig
	log zerolog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr, log: logging.Nop()}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return exitCode(root.ExecuteContext(ctx), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "rundiff: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "rundiff: %v\n", err)
	return 2
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rundiff",
		Short:         "Compare two test or coverage runs",
		Long:          "rundiff classifies every test or file across a baseline and a current run\nand reports regressions, progressions and coverage movement.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.resolve(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default .rundiff.yaml, then user config dir)")
	pf.StringVar(&a.format, "format", config.DefaultFormat, "output format: auto, terminal, llm, json, prom")
	pf.StringVar(&a.theme, "theme", config.DefaultTheme, "theme: default, orca, mono")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		a.testsCmd(),
		a.coverageCmd(),
		a.snapshotCmd(),
		a.versionCmd(),
	)
	return root
}

// resolve layers config file, environment and flags, then builds the logger.
func (a *app) resolve(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cli := config.CliFlags{
		ConfigPath: a.configPath,
		Format:     a.format,
		Theme:      a.theme,
		Verbose:    a.verbose,
		FormatSet:  flags.Changed("format"),
		ThemeSet:   flags.Changed("theme"),
	}
	if skips, err := flags.GetStringArray("skip"); err == nil {
		cli.SkipFiles = skips
	}
	if db, err := flags.GetString("db"); err == nil {
		cli.ArchivePath = db
		cli.ArchivePathSet = flags.Changed("db")
	}
	if fail, err := flags.GetBool("fail-on-regression"); err == nil {
		cli.FailOnRegression = fail
		cli.FailOnRegressionSet = flags.Changed("fail-on-regression")
	}

	cfg, err := config.ResolveConfig(cli)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	a.cfg = cfg
	a.log = logging.New(a.stderr, logging.Options{Verbose: cfg.Debug, NoColor: cfg.NoColor})
	if cfg.ConfigFile != "" {
		a.log.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}
	a.log.Debug().
		Str("format", cfg.Format).Str("format_source", cfg.FormatSource).
		Str("theme", cfg.Theme).Str("theme_source", cfg.ThemeSource).
		Msg("config resolved")
	return nil
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(a.stdout, version.String())
			return nil
		},
	}
}
