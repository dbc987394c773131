// Package result defines the normalized records and report sets that the
// delta engines compare. Sets are built once and never mutated.
package result

import "fmt"

// Status is the outcome of a single test in a single run.
type Status uint8

const (
	// StatusMissing marks an identity absent from a set. It is never stored
	// on a record; Lookup returns it for unknown identities.
	StatusMissing Status = iota
	StatusPassed
	StatusFailure
	StatusError
	StatusSkipped
)

var statusNames = [...]string{
	StatusMissing: "missing",
	StatusPassed:  "passed",
	StatusFailure: "failure",
	StatusError:   "error",
	StatusSkipped: "skipped",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// IsFailing reports whether s is a recorded non-passing outcome
// (failure, error or skipped).
func (s Status) IsFailing() bool {
	return s == StatusFailure || s == StatusError || s == StatusSkipped
}

// ParseStatus converts a status name to a Status.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return StatusMissing, fmt.Errorf("unknown test status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
