// Package directory implements the candidate directory view: the filter
// predicates, their composition, the sort orders, facet extraction and the
// active-filter counter.
//
// Every function here is pure. Callers pass an immutable FilterState and a
// read-only slice of candidates and get a new ordered slice back; the input is
// never modified.
package directory
