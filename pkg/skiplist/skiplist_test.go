package skiplist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DropsCommentsAndBlankLines(t *testing.T) {
	input := strings.Join([]string{
		"# known failures tracked in issue 812",
		"",
		"   ",
		"pkg.Decoder::test_jpeg",
		"  pkg.Decoder::test_png  ",
		"pkg.Decoder::test_jpeg",
	}, "\n")

	p, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Contains("pkg.Decoder::test_jpeg"))
	assert.True(t, p.Contains("pkg.Decoder::test_png"))
	assert.Equal(t, []string{"pkg.Decoder::test_jpeg", "pkg.Decoder::test_png"}, p.Entries())
}

func TestParse_IndentedHashIsNotAComment(t *testing.T) {
	p, err := Parse(strings.NewReader("  #weird::name\n"))
	require.NoError(t, err)
	assert.True(t, p.Contains("#weird::name"))
}

func TestContains_IsExactAndCaseSensitive(t *testing.T) {
	p := New("A::t1")

	assert.True(t, p.Contains("A::t1"))
	assert.False(t, p.Contains("a::t1"))
	assert.False(t, p.Contains("A::t"))
	assert.False(t, p.Contains("A::*"))
}

func TestZeroValuePolicy_IsEmpty(t *testing.T) {
	var p Policy
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.Contains("anything"))
	assert.Empty(t, p.Entries())
}

func TestMerge_UnionsWithoutMutatingInputs(t *testing.T) {
	a := New("x")
	b := New("y", "x")

	m := a.Merge(b)

	assert.Equal(t, []string{"x", "y"}, m.Entries())
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestReadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("A::t1\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("# comment\nB::t2\n"), 0o600))

	p, err := ReadFiles([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, []string{"A::t1", "B::t2"}, p.Entries())

	_, err = ReadFiles([]string{filepath.Join(dir, "missing.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open skip list")
}
