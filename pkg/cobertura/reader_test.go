package cobertura

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/rundiff/pkg/result"
)

const coveragePy = `<?xml version="1.0" ?>
<coverage version="7.4.1" timestamp="1710408413589" lines-valid="200" lines-covered="150"
          line-rate="0.75" branches-covered="30" branches-valid="60" branch-rate="0.5" complexity="0">
  <sources>
    <source>/workspace/python/cucim/src</source>
  </sources>
  <packages>
    <package name="cucim.clara" line-rate="0.8">
      <classes>
        <class name="io.py" filename="cucim/clara/io.py" line-rate="0.8" branch-rate="0.5"/>
        <class name="util.py" filename="cucim/clara/util.py" line-rate="1"/>
      </classes>
    </package>
    <package name="cucim.skimage">
      <classes>
        <class name="filters.py" filename="cucim/skimage/filters.py" line-rate="0.25"/>
      </classes>
    </package>
  </packages>
</coverage>`

func TestRead_CoveragePyReport(t *testing.T) {
	set, err := ReadBytes([]byte(coveragePy))
	require.NoError(t, err)

	assert.Equal(t, []string{"cucim/clara/io.py", "cucim/clara/util.py", "cucim/skimage/filters.py"}, set.Identities())
	rec, ok := set.Get("cucim/skimage/filters.py")
	require.True(t, ok)
	assert.InDelta(t, 0.25, rec.LineRate, 1e-9)

	meta := set.Meta()
	assert.Equal(t, "7.4.1", meta.Version)
	assert.Equal(t, "/workspace/python/cucim/src", meta.Name)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, time.UnixMilli(1710408413589).UTC(), meta.Timestamp)
	assert.Equal(t, result.CoverageTotals{
		LineRate: 0.75, BranchRate: 0.5,
		LinesValid: 200, LinesCovered: 150,
		BranchesValid: 60, BranchesCovered: 30,
	}, meta.Coverage)
}

func TestRead_MissingAttributesDefault(t *testing.T) {
	set, err := ReadBytes([]byte(`<coverage><packages/></coverage>`))
	require.NoError(t, err)

	assert.Equal(t, 0, set.Len())
	assert.Equal(t, "?", set.Meta().Version)
	assert.Equal(t, "N/A", set.Meta().Name)
	assert.True(t, set.Meta().Timestamp.IsZero())
	assert.Zero(t, set.Meta().Coverage.LineRate)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"junit root", `<testsuites/>`, "decode cobertura xml"},
		{"bad class rate", `<coverage><packages><package name="p"><classes><class filename="a.py" line-rate="high"/></classes></package></packages></coverage>`, "bad line-rate"},
		{"rate out of range", `<coverage><packages><package name="p"><classes><class filename="a.py" line-rate="1.5"/></classes></package></packages></coverage>`, "outside [0, 1]"},
		{"no filename", `<coverage><packages><package name="p"><classes><class line-rate="1"/></classes></package></packages></coverage>`, "no filename"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadBytes([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.xml")
	require.NoError(t, os.WriteFile(path, []byte(coveragePy), 0o600))

	set, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, set.Meta().Origin)
}
