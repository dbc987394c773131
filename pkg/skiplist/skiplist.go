// Package skiplist holds the set of test identities whose failures are
// already known and tracked.
//
// Membership is exact and case-sensitive; there is no wildcard or pattern
// matching. When a policy is read from a file, each line is trimmed of
// surrounding whitespace, blank lines are dropped, and lines whose raw text
// begins with '#' are treated as comments. An indented "#" is therefore not
// a comment: it becomes an identity that starts with '#'.
package skiplist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// CommentMarker starts a comment line in a skip list file.
const CommentMarker = '#'

// Policy is a set of identities excluded from regression and progression
// accounting. The zero value is an empty policy.
type Policy struct {
	ids map[string]struct{}
}

// New builds a policy from ids. Entries are used verbatim.
func New(ids ...string) Policy {
	p := Policy{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		p.ids[id] = struct{}{}
	}
	return p
}

// Contains reports whether id is listed.
func (p Policy) Contains(id string) bool {
	_, ok := p.ids[id]
	return ok
}

// Len returns the number of distinct entries.
func (p Policy) Len() int { return len(p.ids) }

// Entries returns the listed identities in ascending order.
func (p Policy) Entries() []string {
	out := make([]string, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Merge returns a policy holding the entries of p and every other policy.
func (p Policy) Merge(others ...Policy) Policy {
	merged := New(p.Entries()...)
	for _, o := range others {
		for id := range o.ids {
			merged.ids[id] = struct{}{}
		}
	}
	return merged
}

// Parse reads a skip list: one identity per line.
func Parse(r io.Reader) (Policy, error) {
	p := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		if len(raw) > 0 && raw[0] == CommentMarker {
			continue
		}
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		p.ids[id] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return Policy{}, fmt.Errorf("scanning skip list: %w", err)
	}
	return p, nil
}

// ReadFile parses the skip list at path.
func ReadFile(path string) (Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return Policy{}, fmt.Errorf("open skip list: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return Policy{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadFiles parses and merges several skip lists.
func ReadFiles(paths []string) (Policy, error) {
	merged := New()
	for _, path := range paths {
		p, err := ReadFile(path)
		if err != nil {
			return Policy{}, err
		}
		merged = merged.Merge(p)
	}
	return merged, nil
}
