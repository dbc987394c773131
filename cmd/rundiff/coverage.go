package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dkoosis/rundiff/pkg/archive"
	"github.com/dkoosis/rundiff/pkg/delta"
	"github.com/dkoosis/rundiff/pkg/mapper"
	"github.com/dkoosis/rundiff/pkg/promfile"
)

func (a *app) coverageCmd() *cobra.Command {
	var f compareFlags
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Compare per-file line coverage between two Cobertura reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.compare(cmd.Context(), &f, a.compareCoverage)
		},
	}
	f.register(cmd)
	return cmd
}

// compareCoverage runs one coverage comparison. A drop in the overall rate
// or in any file's rate counts as a regression.
func (a *app) compareCoverage(ctx context.Context, f *compareFlags) (bool, error) {
	baseSrc, currSrc := f.sources()
	base, curr, err := loadPair(ctx, a.loadCoverage, baseSrc, currSrc)
	if err != nil {
		return false, err
	}

	d := delta.CompareCoverage(base, curr)
	a.log.Debug().
		Float64("rate_change", d.RateChange).
		Int("files", d.Files).
		Int("regressed", len(d.RegressedFiles)).
		Msg("coverage compared")

	if a.outputFormat() == formatProm {
		if err := promfile.WriteCoverageDelta(a.stdout, d); err != nil {
			return false, err
		}
	} else {
		a.emit(mapper.FromCoverageDelta(base, curr, d), string(archive.KindCoverage), d)
	}
	return d.RateChange < 0 || len(d.RegressedFiles) > 0, nil
}
