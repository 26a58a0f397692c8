package directory

import "skillijob-backend/internal/domain"

// Result is the ordered, filtered view of a dataset.
//
// Candidates is nil only on the zero Result, which stands for "not computed
// yet". Apply always returns a non-nil slice, empty when nothing matched.
type Result struct {
	Candidates    []domain.Candidate `json:"candidates"`
	DatasetTotal  int                `json:"dataset_total"`
	ActiveFilters int                `json:"active_filters"`
}

// Computed reports whether r was produced by Apply.
func (r Result) Computed() bool {
	return r.Candidates != nil
}

// Len is the number of candidates in the view.
func (r Result) Len() int {
	return len(r.Candidates)
}

// Apply runs the whole pipeline: every active predicate of s is intersected,
// then the survivors are sorted by s.Sort. records is not modified.
func Apply(records []domain.Candidate, s FilterState) Result {
	ps := Predicates(s)

	out := make([]domain.Candidate, 0, len(records))
	for _, c := range records {
		if matchAll(c, ps) {
			out = append(out, c)
		}
	}
	sortInPlace(out, s.sortKey())

	return Result{
		Candidates:    out,
		DatasetTotal:  len(records),
		ActiveFilters: ActiveFilterCount(s),
	}
}
