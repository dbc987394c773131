// Package detect sniffs report bytes to determine the input format.
package detect

import (
	"bytes"
	"encoding/xml"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown   Format = iota
	JUnit            // JUnit XML test report (<testsuites> or <testsuite> root)
	Cobertura        // Cobertura XML coverage report (<coverage> root)
)

func (f Format) String() string {
	switch f {
	case JUnit:
		return "junit"
	case Cobertura:
		return "cobertura"
	default:
		return "unknown"
	}
}

var utf8BOM = []byte("\xEF\xBB\xBF")

// Sniff examines the leading bytes of a report and returns its format.
// The XML prolog, comments, and DOCTYPE are skipped; only the root element
// name is inspected, so a truncated prefix is enough. A leading UTF-8 byte
// order mark is ignored.
func Sniff(data []byte) Format {
	data = bytes.TrimSpace(bytes.TrimPrefix(bytes.TrimSpace(data), utf8BOM))
	if len(data) == 0 || data[0] != '<' {
		return Unknown
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return Unknown
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "testsuites", "testsuite":
			return JUnit
		case "coverage":
			return Cobertura
		default:
			return Unknown
		}
	}
}
