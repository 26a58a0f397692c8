package directory

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"skillijob-backend/internal/domain"
)

// Collation for the directory: the site and its data are French.
var collationTag = language.French

func newCollator() *collate.Collator {
	return collate.New(collationTag)
}

// Sort returns a new slice holding records in the order selected by key.
// Every order is stable; "recent" keeps the dataset order.
func Sort(records []domain.Candidate, key SortKey) []domain.Candidate {
	out := slices.Clone(records)
	if out == nil {
		out = []domain.Candidate{}
	}
	sortInPlace(out, key)
	return out
}

type yearsKeyed struct {
	c     domain.Candidate
	years int
}

func sortInPlace(records []domain.Candidate, key SortKey) {
	switch key {
	case SortExperience:
		keyed := make([]yearsKeyed, len(records))
		for i, c := range records {
			keyed[i] = yearsKeyed{c: c, years: ParseExperience(c.Experience)}
		}
		slices.SortStableFunc(keyed, func(a, b yearsKeyed) int {
			return cmp.Compare(b.years, a.years)
		})
		for i := range keyed {
			records[i] = keyed[i].c
		}
	case SortName:
		// Collator keeps internal buffers and is not safe for concurrent use.
		col := newCollator()
		slices.SortStableFunc(records, func(a, b domain.Candidate) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortLocation:
		col := newCollator()
		slices.SortStableFunc(records, func(a, b domain.Candidate) int {
			return col.CompareString(a.Location, b.Location)
		})
	}
}
