package result

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidRecord is returned when a record violates the set's invariants.
var ErrInvalidRecord = errors.New("invalid record")

// Set is an immutable snapshot of every record from one run.
type Set[R Record] struct {
	meta       Metadata
	records    map[string]R
	duplicates int
}

// TestSet is a set of test outcomes.
type TestSet = Set[TestRecord]

// CoverageSet is a set of per-file coverage ratios.
type CoverageSet = Set[CoverageRecord]

// NewSet builds a set from records, checking each with validate (if non-nil).
// When two records share an identity the later one wins.
func NewSet[R Record](meta Metadata, records []R, validate func(R) error) (*Set[R], error) {
	s := &Set[R]{
		meta:    meta,
		records: make(map[string]R, len(records)),
	}
	for _, r := range records {
		if validate != nil {
			if err := validate(r); err != nil {
				return nil, err
			}
		}
		id := r.Identity()
		if _, ok := s.records[id]; ok {
			s.duplicates++
		}
		s.records[id] = r
	}
	return s, nil
}

// NewTestSet builds a TestSet. Records may not carry StatusMissing.
func NewTestSet(meta Metadata, records []TestRecord) (*TestSet, error) {
	return NewSet(meta, records, validateTest)
}

// NewCoverageSet builds a CoverageSet. Line rates must lie in [0, 1].
func NewCoverageSet(meta Metadata, records []CoverageRecord) (*CoverageSet, error) {
	return NewSet(meta, records, validateCoverage)
}

func validateTest(r TestRecord) error {
	switch r.Status {
	case StatusPassed, StatusFailure, StatusError, StatusSkipped:
		return nil
	case StatusMissing:
		return fmt.Errorf("%w: %q has synthetic status missing", ErrInvalidRecord, r.ID)
	default:
		return fmt.Errorf("%w: %q has unknown status %s", ErrInvalidRecord, r.ID, r.Status)
	}
}

func validateCoverage(r CoverageRecord) error {
	if math.IsNaN(r.LineRate) || r.LineRate < 0 || r.LineRate > 1 {
		return fmt.Errorf("%w: %q line rate %v outside [0, 1]", ErrInvalidRecord, r.Path, r.LineRate)
	}
	return nil
}

// Meta returns the run's metadata. A nil set has zero metadata.
func (s *Set[R]) Meta() Metadata {
	if s == nil {
		return Metadata{}
	}
	return s.meta
}

// WithOrigin returns a copy of the set whose metadata names origin as the
// report's source. The records are shared, not copied.
func (s *Set[R]) WithOrigin(origin string) *Set[R] {
	if s == nil {
		return nil
	}
	c := *s
	c.meta.Origin = origin
	return &c
}

// Len returns the number of distinct identities.
func (s *Set[R]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// Get returns the record for id.
func (s *Set[R]) Get(id string) (R, bool) {
	if s == nil {
		var zero R
		return zero, false
	}
	r, ok := s.records[id]
	return r, ok
}

// Has reports whether id is present.
func (s *Set[R]) Has(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Duplicates returns how many records were collapsed because they repeated
// an identity already seen.
func (s *Set[R]) Duplicates() int {
	if s == nil {
		return 0
	}
	return s.duplicates
}

// Identities returns every identity in ascending order.
func (s *Set[R]) Identities() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Records returns a copy of the records ordered by identity.
func (s *Set[R]) Records() []R {
	ids := s.Identities()
	out := make([]R, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out
}

// Lookup returns the outcome recorded for id, or StatusMissing when the
// set has no such test.
func Lookup(s *TestSet, id string) Status {
	r, ok := s.Get(id)
	if !ok {
		return StatusMissing
	}
	return r.Status
}

// Union returns the sorted union of identities across sets.
func Union[R Record](sets ...*Set[R]) []string {
	seen := make(map[string]struct{})
	for _, s := range sets {
		if s == nil {
			continue
		}
		for id := range s.records {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
