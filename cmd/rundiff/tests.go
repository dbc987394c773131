package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/dkoosis/rundiff/internal/watch"
	"github.com/dkoosis/rundiff/pkg/archive"
	"github.com/dkoosis/rundiff/pkg/delta"
	"github.com/dkoosis/rundiff/pkg/mapper"
	"github.com/dkoosis/rundiff/pkg/promfile"
	"github.com/dkoosis/rundiff/pkg/skiplist"
)

// compareFlags are shared by the tests and coverage commands.
type compareFlags struct {
	baseline         string
	baselineSnapshot string
	report           string
	db               string
	failOnRegression bool
	watch            bool
}

func (f *compareFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.baseline, "baseline", "", `baseline report file ("-" for stdin)`)
	fl.StringVar(&f.baselineSnapshot, "baseline-snapshot", "", "use the latest archived snapshot with this label as the baseline")
	fl.StringVar(&f.report, "report", "", `current report file ("-" for stdin)`)
	fl.StringVar(&f.db, "db", "", "snapshot archive path")
	fl.BoolVar(&f.failOnRegression, "fail-on-regression", false, "exit 1 when anything regressed")
	fl.BoolVar(&f.watch, "watch", false, "re-run whenever an input file changes")
	_ = cmd.MarkFlagRequired("report")
	cmd.MarkFlagsMutuallyExclusive("baseline", "baseline-snapshot")
	cmd.MarkFlagsOneRequired("baseline", "baseline-snapshot")
}

func (f *compareFlags) sources() (source, source) {
	return source{path: f.baseline, snapshot: f.baselineSnapshot}, source{path: f.report}
}

// watchPaths lists the input files a watch should follow.
func (f *compareFlags) watchPaths() ([]string, error) {
	if f.report == stdinPath || f.baseline == stdinPath {
		return nil, errors.New("--watch cannot read from stdin")
	}
	paths := []string{f.report}
	if f.baseline != "" {
		paths = append(paths, f.baseline)
	}
	return paths, nil
}

func (a *app) testsCmd() *cobra.Command {
	var f compareFlags
	var skipFiles []string
	cmd := &cobra.Command{
		Use:   "tests",
		Short: "Classify test outcome changes between two JUnit reports",
		Long: `Classify every test in the union of the baseline and current JUnit reports
as a regression, progression, known failure, changed failure, missing or extra.

Skip files list one test identity per line (classname::name); blank lines and
lines starting with # are ignored. Skip-listed tests never regress.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.compare(cmd.Context(), &f, a.compareTests)
		},
	}
	f.register(cmd)
	cmd.Flags().StringArrayVar(&skipFiles, "skip", nil, "skip list file (repeatable)")
	return cmd
}

// compareTests runs one tests comparison. The bool reports regressions.
func (a *app) compareTests(ctx context.Context, f *compareFlags) (bool, error) {
	policy, err := skiplist.ReadFiles(a.cfg.SkipFiles)
	if err != nil {
		return false, err
	}
	baseSrc, currSrc := f.sources()
	base, curr, err := loadPair(ctx, a.loadTests, baseSrc, currSrc)
	if err != nil {
		return false, err
	}

	d := delta.Classify(base, curr, policy)
	warnings := delta.Compatibility(base.Meta(), curr.Meta())
	for _, w := range warnings {
		a.log.Debug().Str("kind", string(w.Kind)).Msg(w.Message)
	}
	a.log.Debug().
		Int("total", d.Total).
		Int("regressions", len(d.Regressions)).
		Int("progressions", len(d.Progressions)).
		Int("skip_policy", d.SkipPolicySize).
		Msg("tests classified")

	if a.outputFormat() == formatProm {
		if err := promfile.WriteTestDelta(a.stdout, d); err != nil {
			return false, err
		}
	} else {
		a.emit(mapper.FromTestDelta(base, curr, d, warnings), string(archive.KindTests), d)
	}
	return len(d.Regressions) > 0, nil
}

// compare runs one comparison, or keeps re-running it under --watch.
func (a *app) compare(ctx context.Context, f *compareFlags, once func(context.Context, *compareFlags) (bool, error)) error {
	if f.baseline == stdinPath && f.report == stdinPath {
		return &exitError{code: 2, err: errors.New("only one of --baseline and --report can read stdin")}
	}
	if !f.watch {
		regressed, err := once(ctx, f)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		if regressed && a.cfg.FailOnRegression {
			return errRegressions
		}
		return nil
	}

	paths, err := f.watchPaths()
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	rerun := func() {
		if _, err := once(ctx, f); err != nil {
			a.emitError(f.report, err)
		}
	}
	rerun()
	if err := watch.Watch(ctx, paths, a.cfg.WatchDebounce, a.log, rerun); err != nil {
		return &exitError{code: 2, err: err}
	}
	return nil
}
