package delta

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/rundiff/pkg/result"
)

func TestCompatibility(t *testing.T) {
	tests := []struct {
		name string
		base result.Metadata
		curr result.Metadata
		want []WarningKind
	}{
		{"identical", result.Metadata{Name: "pytest", Total: 10}, result.Metadata{Name: "pytest", Total: 10}, nil},
		{"renamed suite", result.Metadata{Name: "pytest", Total: 10}, result.Metadata{Name: "unit", Total: 10}, []WarningKind{WarnNameMismatch}},
		{"count drift", result.Metadata{Name: "pytest", Total: 10}, result.Metadata{Name: "pytest", Total: 12}, []WarningKind{WarnTotalMismatch}},
		{"both", result.Metadata{Name: "a", Total: 1}, result.Metadata{Name: "b", Total: 2}, []WarningKind{WarnNameMismatch, WarnTotalMismatch}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []WarningKind
			for _, w := range Compatibility(tt.base, tt.curr) {
				got = append(got, w.Kind)
				assert.NotEmpty(t, w.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
