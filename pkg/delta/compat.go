package delta

import (
	"fmt"

	"github.com/dkoosis/rundiff/pkg/result"
)

// WarningKind identifies a compatibility concern between two runs.
type WarningKind string

const (
	// WarnNameMismatch means the runs come from differently named suites,
	// so the comparison may be meaningless.
	WarnNameMismatch WarningKind = "name_mismatch"
	// WarnTotalMismatch means the runs declared different unit counts,
	// which usually points at a misconfigured run.
	WarnTotalMismatch WarningKind = "total_mismatch"
)

// Warning is an advisory note about the comparison. Warnings never change
// classification.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
}

// Compatibility checks whether two runs look comparable.
func Compatibility(baseline, current result.Metadata) []Warning {
	var out []Warning
	if baseline.Name != current.Name {
		out = append(out, Warning{
			Kind:    WarnNameMismatch,
			Message: fmt.Sprintf("suite names differ: %q vs. %q", baseline.Name, current.Name),
		})
	}
	if baseline.Total != current.Total {
		out = append(out, Warning{
			Kind:    WarnTotalMismatch,
			Message: fmt.Sprintf("total count differs: %d vs. %d", baseline.Total, current.Total),
		})
	}
	return out
}
