package directory

import (
	"strings"

	"skillijob-backend/internal/domain"
)

// Predicate is a boolean test over one candidate for one filter dimension.
type Predicate func(c domain.Candidate) bool

// Predicates returns one predicate per active dimension of s. Dimensions left at
// their default contribute nothing, so an empty result accepts every candidate.
func Predicates(s FilterState) []Predicate {
	var ps []Predicate

	if s.queryActive() {
		q := strings.ToLower(strings.TrimSpace(s.Query))
		ps = append(ps, func(c domain.Candidate) bool { return matchesText(c, q) })
	}
	if selectorActive(s.Region) {
		region := s.Region
		ps = append(ps, func(c domain.Candidate) bool { return c.Region == region })
	}
	if selectorActive(s.Sector) {
		sector := s.Sector
		ps = append(ps, func(c domain.Candidate) bool { return c.Sector == sector })
	}
	if s.Experience.active() {
		bracket := s.Experience
		ps = append(ps, func(c domain.Candidate) bool {
			return bracket.Contains(ParseExperience(c.Experience))
		})
	}
	if selectorActive(s.Availability) {
		availability := s.Availability
		ps = append(ps, func(c domain.Candidate) bool { return c.Availability == availability })
	}
	if len(s.Skills) > 0 {
		wanted := append([]string(nil), s.Skills...)
		ps = append(ps, func(c domain.Candidate) bool { return hasAllSkills(c.Skills, wanted) })
	}

	return ps
}

func matchAll(c domain.Candidate, ps []Predicate) bool {
	for _, p := range ps {
		if !p(c) {
			return false
		}
	}
	return true
}

// matchesText expects q already lower-cased and trimmed.
func matchesText(c domain.Candidate, q string) bool {
	if strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Position), q) ||
		strings.Contains(strings.ToLower(c.Location), q) {
		return true
	}
	for _, skill := range c.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}

func hasAllSkills(have, wanted []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, w := range wanted {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
