// Package junit reads JUnit XML test reports into result sets.
package junit

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/rundiff/pkg/result"
)

// Separator joins a test case's classname and name into its identity.
const Separator = "::"

// ErrNoSuite is returned when a document contains no <testsuite> element.
var ErrNoSuite = errors.New("no <testsuite> found")

type document struct {
	XMLName xml.Name
	suite
}

type suite struct {
	Name      string  `xml:"name,attr"`
	Tests     string  `xml:"tests,attr"`
	Failures  string  `xml:"failures,attr"`
	Errors    string  `xml:"errors,attr"`
	Skipped   string  `xml:"skipped,attr"`
	Time      string  `xml:"time,attr"`
	Timestamp string  `xml:"timestamp,attr"`
	Hostname  string  `xml:"hostname,attr"`
	Cases     []tcase `xml:"testcase"`
	Nested    []suite `xml:"testsuite"`
}

type tcase struct {
	Classname string    `xml:"classname,attr"`
	Name      string    `xml:"name,attr"`
	Failure   *struct{} `xml:"failure"`
	Error     *struct{} `xml:"error"`
	Skipped   *struct{} `xml:"skipped"`
}

// ReadFile parses a JUnit report from disk. The path is recorded as the
// set's origin.
func ReadFile(path string) (*result.TestSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open junit report: %w", err)
	}
	defer f.Close()

	set, err := read(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Read parses a JUnit report from r.
func Read(r io.Reader) (*result.TestSet, error) {
	return read(r, "")
}

// ReadBytes parses a JUnit report from a byte slice.
func ReadBytes(data []byte) (*result.TestSet, error) {
	return Read(bytes.NewReader(data))
}

func read(r io.Reader, origin string) (*result.TestSet, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode junit xml: %w", err)
	}

	var roots []suite
	switch doc.XMLName.Local {
	case "testsuites":
		roots = doc.Nested
	case "testsuite":
		roots = []suite{doc.suite}
	default:
		return nil, fmt.Errorf("unexpected root element <%s>", doc.XMLName.Local)
	}
	suites := flatten(roots)
	if len(suites) == 0 {
		return nil, ErrNoSuite
	}

	meta := metadata(roots)
	meta.Origin = origin

	var records []result.TestRecord
	for _, s := range suites {
		for _, c := range s.Cases {
			records = append(records, result.TestRecord{
				ID:     c.Classname + Separator + c.Name,
				Status: c.status(),
			})
		}
	}
	return result.NewTestSet(meta, records)
}

// flatten walks nested suites depth-first.
func flatten(suites []suite) []suite {
	var out []suite
	for _, s := range suites {
		out = append(out, s)
		out = append(out, flatten(s.Nested)...)
	}
	return out
}

// status maps child elements to an outcome. A case carrying several
// markers takes the first of failure, error, skipped.
func (c tcase) status() result.Status {
	switch {
	case c.Failure != nil:
		return result.StatusFailure
	case c.Error != nil:
		return result.StatusError
	case c.Skipped != nil:
		return result.StatusSkipped
	default:
		return result.StatusPassed
	}
}

// metadata sums the declared counts of the top-level suites only, since a
// suite's counts already include those of its nested suites.
func metadata(roots []suite) result.Metadata {
	first := roots[0]
	meta := result.Metadata{
		Name:  valueOr(first.Name, "unknown"),
		Host:  valueOr(first.Hostname, "unknown"),
		Label: valueOr(first.Timestamp, "unknown"),
	}
	if ts, ok := parseTimestamp(first.Timestamp); ok {
		meta.Timestamp = ts
	}

	var seconds float64
	for _, s := range roots {
		meta.Tests.Tests += atoi(s.Tests)
		meta.Tests.Failures += atoi(s.Failures)
		meta.Tests.Errors += atoi(s.Errors)
		meta.Tests.Skipped += atoi(s.Skipped)
		seconds += atof(s.Time)
	}
	meta.Tests.Duration = time.Duration(seconds * float64(time.Second))
	meta.Total = meta.Tests.Tests
	return meta
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// atoi is lenient: producers disagree on whether counts may be empty.
func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
