// Package cobertura reads Cobertura XML coverage reports into result sets.
package cobertura

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/rundiff/pkg/result"
)

type document struct {
	XMLName         xml.Name  `xml:"coverage"`
	Version         string    `xml:"version,attr"`
	Timestamp       string    `xml:"timestamp,attr"`
	LinesValid      string    `xml:"lines-valid,attr"`
	LinesCovered    string    `xml:"lines-covered,attr"`
	LineRate        string    `xml:"line-rate,attr"`
	BranchesValid   string    `xml:"branches-valid,attr"`
	BranchesCovered string    `xml:"branches-covered,attr"`
	BranchRate      string    `xml:"branch-rate,attr"`
	Complexity      string    `xml:"complexity,attr"`
	Sources         []string  `xml:"sources>source"`
	Packages        []pkgElem `xml:"packages>package"`
}

type pkgElem struct {
	Name    string      `xml:"name,attr"`
	Classes []classElem `xml:"classes>class"`
}

type classElem struct {
	Filename string `xml:"filename,attr"`
	LineRate string `xml:"line-rate,attr"`
}

// ReadFile parses a Cobertura report from disk. The path is recorded as the
// set's origin.
func ReadFile(path string) (*result.CoverageSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coverage report: %w", err)
	}
	defer f.Close()

	set, err := read(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Read parses a Cobertura report from r.
func Read(r io.Reader) (*result.CoverageSet, error) {
	return read(r, "")
}

// ReadBytes parses a Cobertura report from a byte slice.
func ReadBytes(data []byte) (*result.CoverageSet, error) {
	return Read(bytes.NewReader(data))
}

func read(r io.Reader, origin string) (*result.CoverageSet, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cobertura xml: %w", err)
	}

	meta := result.Metadata{
		Origin:  origin,
		Name:    "N/A",
		Version: valueOr(doc.Version, "?"),
		Coverage: result.CoverageTotals{
			LineRate:        atof(doc.LineRate),
			BranchRate:      atof(doc.BranchRate),
			LinesValid:      atoi(doc.LinesValid),
			LinesCovered:    atoi(doc.LinesCovered),
			BranchesValid:   atoi(doc.BranchesValid),
			BranchesCovered: atoi(doc.BranchesCovered),
			Complexity:      atof(doc.Complexity),
		},
	}
	if len(doc.Sources) > 0 {
		meta.Name = strings.TrimSpace(doc.Sources[0])
	}
	// Cobertura stamps reports in epoch milliseconds.
	if ms, err := strconv.ParseInt(strings.TrimSpace(doc.Timestamp), 10, 64); err == nil && ms > 0 {
		meta.Timestamp = time.UnixMilli(ms).UTC()
	}

	var records []result.CoverageRecord
	for _, p := range doc.Packages {
		for _, c := range p.Classes {
			if c.Filename == "" {
				return nil, fmt.Errorf("class in package %q has no filename", p.Name)
			}
			rate, err := strconv.ParseFloat(strings.TrimSpace(c.LineRate), 64)
			if err != nil {
				return nil, fmt.Errorf("class %s: bad line-rate %q: %w", c.Filename, c.LineRate, err)
			}
			records = append(records, result.CoverageRecord{Path: c.Filename, LineRate: rate})
		}
	}

	meta.Total = distinctPaths(records)
	return result.NewCoverageSet(meta, records)
}

func distinctPaths(records []result.CoverageRecord) int {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.Path] = struct{}{}
	}
	return len(seen)
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
