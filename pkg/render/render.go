// Package render provides output renderers for rundiff's report patterns.
package render

import "github.com/dkoosis/rundiff/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
