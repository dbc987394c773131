package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dkoosis/rundiff/internal/detect"
	"github.com/dkoosis/rundiff/pkg/archive"
	"github.com/dkoosis/rundiff/pkg/cobertura"
	"github.com/dkoosis/rundiff/pkg/junit"
	"github.com/dkoosis/rundiff/pkg/result"
)

// stdinPath names the current report when it is piped in.
const stdinPath = "-"

// source names where one side of a comparison comes from: a report file or
// an archived snapshot label.
type source struct {
	path     string
	snapshot string
}

func (s source) String() string {
	if s.snapshot != "" {
		return "snapshot " + s.snapshot
	}
	return s.path
}

// readInput reads a report file, or stdin for "-".
func (a *app) readInput(path string) ([]byte, error) {
	var data []byte
	var err error
	if path == stdinPath {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: empty report", path)
	}
	return data, nil
}

// readReport reads a report and checks it is in the expected format.
func (a *app) readReport(path string, want detect.Format) ([]byte, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	if got := detect.Sniff(data); got != want {
		return nil, fmt.Errorf("%s: expected %s report, found %s", path, want, got)
	}
	return data, nil
}

func (a *app) loadTests(ctx context.Context, src source) (*result.TestSet, error) {
	if src.snapshot != "" {
		return withArchive(ctx, a, func(s *archive.Store) (*result.TestSet, error) {
			return s.LoadTests(ctx, src.snapshot)
		})
	}
	data, err := a.readReport(src.path, detect.JUnit)
	if err != nil {
		return nil, err
	}
	set, err := junit.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.path, err)
	}
	set = set.WithOrigin(src.path)
	a.log.Debug().Str("file", src.path).Int("tests", set.Len()).Int("duplicates", set.Duplicates()).Msg("junit report loaded")
	return set, nil
}

func (a *app) loadCoverage(ctx context.Context, src source) (*result.CoverageSet, error) {
	if src.snapshot != "" {
		return withArchive(ctx, a, func(s *archive.Store) (*result.CoverageSet, error) {
			return s.LoadCoverage(ctx, src.snapshot)
		})
	}
	data, err := a.readReport(src.path, detect.Cobertura)
	if err != nil {
		return nil, err
	}
	set, err := cobertura.ReadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.path, err)
	}
	set = set.WithOrigin(src.path)
	a.log.Debug().Str("file", src.path).Int("files", set.Len()).Msg("cobertura report loaded")
	return set, nil
}

// loadPair loads baseline and current concurrently.
func loadPair[S any](ctx context.Context, load func(context.Context, source) (S, error), baseline, current source) (S, S, error) {
	var base, curr S
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		base, err = load(gctx, baseline)
		return err
	})
	g.Go(func() error {
		var err error
		curr, err = load(gctx, current)
		return err
	})
	err := g.Wait()
	return base, curr, err
}

func withArchive[S any](ctx context.Context, a *app, fn func(*archive.Store) (S, error)) (S, error) {
	var zero S
	store, err := archive.Open(ctx, a.cfg.ArchivePath, a.log)
	if err != nil {
		return zero, err
	}
	defer store.Close()
	return fn(store)
}
