// Package promfile writes delta reports in the Prometheus text exposition
// format, suitable for a node-exporter textfile collector.
package promfile

import (
	"fmt"
	"io"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/dkoosis/rundiff/pkg/delta"
)

// Metric names.
const (
	TestsTotal             = "rundiff_tests_total"
	TestsClassified        = "rundiff_tests_classified"
	TestsRegressionPercent = "rundiff_tests_regression_percent"
	TestsSkipPolicySize    = "rundiff_tests_skip_policy_size"
	CoverageLineRate       = "rundiff_coverage_line_rate"
	CoverageLineRateDelta  = "rundiff_coverage_line_rate_delta"
	CoverageFiles          = "rundiff_coverage_files"
)

// WriteTestDelta writes the test classification counts as gauges.
func WriteTestDelta(w io.Writer, d *delta.TestDelta) error {
	if d == nil {
		d = &delta.TestDelta{}
	}
	counts := d.Counts()

	classified := family(TestsClassified, "Tests per classification category.")
	for _, c := range delta.Categories {
		classified.Metric = append(classified.Metric, gauge(float64(counts[c]), "category", string(c)))
	}

	return write(w,
		single(TestsTotal, "Identities in the union of baseline and current runs.", float64(d.Total)),
		classified,
		single(TestsRegressionPercent, "Regressions as a percentage of total.", d.RegressionPercent()),
		single(TestsSkipPolicySize, "Entries in the skip policy.", float64(d.SkipPolicySize)),
	)
}

// WriteCoverageDelta writes the overall rates and per-file change counts as gauges.
func WriteCoverageDelta(w io.Writer, d *delta.CoverageDelta) error {
	if d == nil {
		d = &delta.CoverageDelta{}
	}

	rate := family(CoverageLineRate, "Overall line coverage ratio per run.")
	rate.Metric = append(rate.Metric,
		gauge(d.BaselineRate, "run", "baseline"),
		gauge(d.CurrentRate, "run", "current"),
	)

	files := family(CoverageFiles, "Files per coverage change category.")
	files.Metric = append(files.Metric,
		gauge(float64(len(d.NewFiles)), "category", "new"),
		gauge(float64(len(d.RemovedFiles)), "category", "removed"),
		gauge(float64(len(d.RegressedFiles)), "category", "regressed"),
		gauge(float64(len(d.ImprovedFiles)), "category", "improved"),
	)

	return write(w,
		rate,
		single(CoverageLineRateDelta, "Current minus baseline overall line rate.", d.RateChange),
		files,
	)
}

func write(w io.Writer, families ...*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func family(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func single(name, help string, v float64) *dto.MetricFamily {
	mf := family(name, help)
	mf.Metric = []*dto.Metric{gauge(v)}
	return mf
}

// gauge builds one sample; labels are name/value pairs.
func gauge(v float64, labels ...string) *dto.Metric {
	m := &dto.Metric{Gauge: &dto.Gauge{Value: proto.Float64(v)}}
	for i := 0; i+1 < len(labels); i += 2 {
		m.Label = append(m.Label, &dto.LabelPair{
			Name:  proto.String(labels[i]),
			Value: proto.String(labels[i+1]),
		})
	}
	return m
}
