package directory

import (
	"slices"
	"strings"
	"sync"

	"skillijob-backend/internal/domain"
)

// AvailabilityOptions are the availability values offered by the directory,
// in display order.
var AvailabilityOptions = []string{"Immédiate", "2 semaines", "3 semaines", "1 mois"}

// Facets are the values offered by the directory selectors.
type Facets struct {
	Regions        []string  `json:"regions"`
	Sectors        []string  `json:"sectors"`
	Skills         []string  `json:"skills"`
	Availabilities []string  `json:"availabilities"`
	Experience     []Bracket `json:"experience"`
	SortKeys       []SortKey `json:"sort_keys"`
}

// ExtractFacets computes the distinct regions, sectors and skills of records,
// each sorted ascending with the directory collation. Empty values are skipped.
// Availabilities start with AvailabilityOptions; values found in the data but
// not in that list follow, sorted.
func ExtractFacets(records []domain.Candidate) Facets {
	regions := newValueSet()
	sectors := newValueSet()
	skills := newValueSet()
	extraAvailability := newValueSet()

	known := make(map[string]struct{}, len(AvailabilityOptions))
	for _, a := range AvailabilityOptions {
		known[a] = struct{}{}
	}

	for _, c := range records {
		regions.add(c.Region)
		sectors.add(c.Sector)
		for _, s := range c.Skills {
			skills.add(s)
		}
		if _, ok := known[c.Availability]; !ok {
			extraAvailability.add(c.Availability)
		}
	}

	return Facets{
		Regions:        regions.sorted(),
		Sectors:        sectors.sorted(),
		Skills:         skills.sorted(),
		Availabilities: append(slices.Clone(AvailabilityOptions), extraAvailability.sorted()...),
		Experience:     slices.Clone(Brackets),
		SortKeys:       []SortKey{SortRecent, SortExperience, SortName, SortLocation},
	}
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return valueSet{} }

func (v valueSet) add(s string) {
	if s == "" {
		return
	}
	v[s] = struct{}{}
}

func (v valueSet) sorted() []string {
	out := make([]string, 0, len(v))
	for s := range v {
		out = append(out, s)
	}
	col := newCollator()
	slices.SortFunc(out, func(a, b string) int {
		if c := col.CompareString(a, b); c != 0 {
			return c
		}
		// collation can tie distinct strings; fall back to byte order
		return strings.Compare(a, b)
	})
	return out
}

// FacetCache memoizes ExtractFacets for the latest dataset version. It is safe
// for concurrent use.
type FacetCache struct {
	mu       sync.Mutex
	version  string
	facets   Facets
	valid    bool
	computed int
}

// Get returns the facets of ds, recomputing them only when ds.Version differs
// from the cached one. The returned slices are copies.
func (fc *FacetCache) Get(ds *domain.Dataset) Facets {
	if ds == nil {
		return ExtractFacets(nil)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if !fc.valid || fc.version != ds.Version {
		fc.facets = ExtractFacets(ds.Candidates)
		fc.version = ds.Version
		fc.valid = true
		fc.computed++
	}
	return fc.facets.clone()
}

func (f Facets) clone() Facets {
	return Facets{
		Regions:        slices.Clone(f.Regions),
		Sectors:        slices.Clone(f.Sectors),
		Skills:         slices.Clone(f.Skills),
		Availabilities: slices.Clone(f.Availabilities),
		Experience:     slices.Clone(f.Experience),
		SortKeys:       slices.Clone(f.SortKeys),
	}
}
