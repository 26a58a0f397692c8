package directory

import (
	"strconv"
	"strings"
)

// Bracket is a named range of years of experience.
type Bracket string

const (
	BracketAll     Bracket = "all"
	Bracket0To5    Bracket = "0-5"
	Bracket5To10   Bracket = "5-10"
	Bracket10To15  Bracket = "10-15"
	Bracket15Plus  Bracket = "15+"
	bracketUnknown Bracket = ""
)

// Brackets lists the selectable ranges in display order.
var Brackets = []Bracket{Bracket0To5, Bracket5To10, Bracket10To15, Bracket15Plus}

// Valid reports whether b is "all", empty, or one of Brackets.
func (b Bracket) Valid() bool {
	switch b {
	case bracketUnknown, BracketAll, Bracket0To5, Bracket5To10, Bracket10To15, Bracket15Plus:
		return true
	}
	return false
}

func (b Bracket) active() bool {
	return b != bracketUnknown && b != BracketAll
}

// Contains reports whether years falls in b. Boundaries belong to the lower
// bracket: 5 is in "0-5", 10 in "5-10", 15 in "10-15".
func (b Bracket) Contains(years int) bool {
	switch b {
	case Bracket0To5:
		return years <= 5
	case Bracket5To10:
		return years > 5 && years <= 10
	case Bracket10To15:
		return years > 10 && years <= 15
	case Bracket15Plus:
		return years > 15
	}
	return true
}

// ParseExperience returns the leading integer of s ("7 ans" -> 7).
// Anything that does not start with a digit, after trimming, yields 0.
func ParseExperience(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow
		return 0
	}
	return n
}
