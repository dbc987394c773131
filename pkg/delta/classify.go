// Package delta compares two runs of a verification process.
//
// Classify sorts every test identity into one category describing how its
// outcome moved between a baseline run and a current run. CompareCoverage
// does the same for per-file line rates. Both are pure: they read two
// finalized sets and return a fresh report that shares no memory with its
// inputs, so independent comparisons may run concurrently.
package delta

import "github.com/dkoosis/rundiff/pkg/result"

// SkipPolicy lists identities whose failures are already known.
// skiplist.Policy satisfies it.
type SkipPolicy interface {
	Contains(id string) bool
	Len() int
}

// Category names the bucket an identity was classified into.
type Category string

const (
	CategoryRegression     Category = "regression"
	CategoryProgression    Category = "progression"
	CategoryKnownFailure   Category = "known_failure"
	CategoryChangedFailure Category = "changed_failure"
	CategoryMissing        Category = "missing"
	CategoryExtra          Category = "extra"
	CategoryUnchanged      Category = "unchanged"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryMissing,
	CategoryExtra,
	CategoryRegression,
	CategoryProgression,
	CategoryKnownFailure,
	CategoryChangedFailure,
	CategoryUnchanged,
}

// Transition records an identity's outcome in both runs.
type Transition struct {
	Baseline result.Status `json:"baseline"`
	Current  result.Status `json:"current"`
}

// TestDelta is the classification of every identity in the union of the
// two runs. The six lists are disjoint and sorted by identity.
type TestDelta struct {
	Regressions      []string `json:"regressions"`
	Progressions     []string `json:"progressions"`
	KnownFailures    []string `json:"known_failures"`
	ChangedFailures  []string `json:"changed_failures"`
	MissingInCurrent []string `json:"missing_in_current"`
	ExtraInCurrent   []string `json:"extra_in_current"`

	// Unchanged counts identities that fell into no category.
	Unchanged int `json:"unchanged"`
	// Total is the size of the identity union.
	Total int `json:"total"`
	// SkipPolicySize is the number of entries in the policy applied.
	SkipPolicySize int `json:"skip_policy_size"`

	// Transitions holds both outcomes for every classified identity.
	Transitions map[string]Transition `json:"transitions"`
}

// Classify compares current against baseline. A nil skip applies no policy.
//
// Each identity takes the first matching rule:
//  1. listed in skip: known failure when current is not passed, else nothing
//  2. baseline failing, current passed: progression
//  3. baseline passed, current failing: regression
//  4. statuses differ and both present: changed failure
//  5. absent from baseline: extra
//  6. absent from current: missing
//  7. otherwise unchanged
func Classify(baseline, current *result.TestSet, skip SkipPolicy) *TestDelta {
	ids := result.Union(baseline, current)
	d := &TestDelta{
		Regressions:      []string{},
		Progressions:     []string{},
		KnownFailures:    []string{},
		ChangedFailures:  []string{},
		MissingInCurrent: []string{},
		ExtraInCurrent:   []string{},
		Total:            len(ids),
		Transitions:      make(map[string]Transition),
	}
	if skip != nil {
		d.SkipPolicySize = skip.Len()
	}

	for _, id := range ids {
		tr := Transition{
			Baseline: result.Lookup(baseline, id),
			Current:  result.Lookup(current, id),
		}
		switch classifyOne(id, tr, skip) {
		case CategoryKnownFailure:
			d.KnownFailures = append(d.KnownFailures, id)
		case CategoryProgression:
			d.Progressions = append(d.Progressions, id)
		case CategoryRegression:
			d.Regressions = append(d.Regressions, id)
		case CategoryChangedFailure:
			d.ChangedFailures = append(d.ChangedFailures, id)
		case CategoryExtra:
			d.ExtraInCurrent = append(d.ExtraInCurrent, id)
		case CategoryMissing:
			d.MissingInCurrent = append(d.MissingInCurrent, id)
		default:
			d.Unchanged++
			continue
		}
		d.Transitions[id] = tr
	}
	return d
}

func classifyOne(id string, tr Transition, skip SkipPolicy) Category {
	base, curr := tr.Baseline, tr.Current
	if skip != nil && skip.Contains(id) {
		if curr != result.StatusPassed {
			return CategoryKnownFailure
		}
		return CategoryUnchanged
	}

	switch {
	case base.IsFailing() && curr == result.StatusPassed:
		return CategoryProgression
	case base == result.StatusPassed && curr.IsFailing():
		return CategoryRegression
	case base != curr && base != result.StatusMissing && curr != result.StatusMissing:
		return CategoryChangedFailure
	case base == result.StatusMissing && curr != result.StatusMissing:
		return CategoryExtra
	case base != result.StatusMissing && curr == result.StatusMissing:
		return CategoryMissing
	default:
		return CategoryUnchanged
	}
}

// Category returns the bucket id was classified into, or CategoryUnchanged
// when it appears in no list.
func (d *TestDelta) Category(id string) Category {
	lists := []struct {
		cat Category
		ids []string
	}{
		{CategoryRegression, d.Regressions},
		{CategoryProgression, d.Progressions},
		{CategoryKnownFailure, d.KnownFailures},
		{CategoryChangedFailure, d.ChangedFailures},
		{CategoryMissing, d.MissingInCurrent},
		{CategoryExtra, d.ExtraInCurrent},
	}
	for _, l := range lists {
		for _, x := range l.ids {
			if x == id {
				return l.cat
			}
		}
	}
	return CategoryUnchanged
}

// Counts returns the size of each category, including unchanged.
func (d *TestDelta) Counts() map[Category]int {
	return map[Category]int{
		CategoryRegression:     len(d.Regressions),
		CategoryProgression:    len(d.Progressions),
		CategoryKnownFailure:   len(d.KnownFailures),
		CategoryChangedFailure: len(d.ChangedFailures),
		CategoryMissing:        len(d.MissingInCurrent),
		CategoryExtra:          len(d.ExtraInCurrent),
		CategoryUnchanged:      d.Unchanged,
	}
}

// RegressionPercent is the share of the identity union that regressed.
// It is 0 when the union is empty.
func (d *TestDelta) RegressionPercent() float64 {
	return percent(len(d.Regressions), d.Total)
}

// ProgressionPercent is the share of the identity union that progressed.
// It is 0 when the union is empty.
func (d *TestDelta) ProgressionPercent() float64 {
	return percent(len(d.Progressions), d.Total)
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
