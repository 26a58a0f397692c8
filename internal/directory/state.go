package directory

import "strings"

// All is the selector sentinel meaning "no constraint".
const All = "all"

// SortKey selects the ordering of the filtered view.
type SortKey string

const (
	SortRecent     SortKey = "recent"
	SortExperience SortKey = "experience"
	SortName       SortKey = "name"
	SortLocation   SortKey = "location"
)

// Valid reports whether k is empty or a known sort key.
func (k SortKey) Valid() bool {
	switch k {
	case "", SortRecent, SortExperience, SortName, SortLocation:
		return true
	}
	return false
}

// FilterState is the full set of filter and sort selections for one view.
// The zero value behaves like DefaultFilterState: empty selectors and an empty
// bracket or sort key are read as "all" and "recent".
type FilterState struct {
	Query        string   `json:"q"`
	Region       string   `json:"region"`
	Sector       string   `json:"sector"`
	Experience   Bracket  `json:"experience"`
	Availability string   `json:"availability"`
	Skills       []string `json:"skills"`
	Sort         SortKey  `json:"sort"`
}

// DefaultFilterState is the state of a freshly opened directory.
func DefaultFilterState() FilterState {
	return FilterState{
		Region:       All,
		Sector:       All,
		Experience:   BracketAll,
		Availability: All,
		Skills:       []string{},
		Sort:         SortRecent,
	}
}

// Reset returns the default state.
func (s FilterState) Reset() FilterState {
	return DefaultFilterState()
}

// WithSkillToggled returns a copy of s with skill added to the selection, or
// removed if it was already selected.
func (s FilterState) WithSkillToggled(skill string) FilterState {
	next := make([]string, 0, len(s.Skills)+1)
	found := false
	for _, sk := range s.Skills {
		if sk == skill {
			found = true
			continue
		}
		next = append(next, sk)
	}
	if !found {
		next = append(next, skill)
	}
	s.Skills = next
	return s
}

func selectorActive(v string) bool {
	return v != "" && v != All
}

func (s FilterState) queryActive() bool {
	return strings.TrimSpace(s.Query) != ""
}

func (s FilterState) sortKey() SortKey {
	if s.Sort == "" {
		return SortRecent
	}
	return s.Sort
}

// ActiveFilterCount reports how many filter dimensions currently constrain the
// result. A skill selection counts once however many skills it holds. The sort
// key is not a filter.
func ActiveFilterCount(s FilterState) int {
	n := 0
	if s.queryActive() {
		n++
	}
	if selectorActive(s.Region) {
		n++
	}
	if selectorActive(s.Sector) {
		n++
	}
	if s.Experience.active() {
		n++
	}
	if selectorActive(s.Availability) {
		n++
	}
	if len(s.Skills) > 0 {
		n++
	}
	return n
}
