package domain

import (
	"context"
	"time"
)

// Candidate is one anonymised profile of the public directory.
// Experience is kept as the raw dataset string ("7 ans"); the directory
// package parses it.
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Position       string   `json:"position"`
	Location       string   `json:"location"`
	Region         string   `json:"region"`
	Sector         string   `json:"sector"`
	Experience     string   `json:"experience"`
	Availability   string   `json:"availability"`
	Education      string   `json:"education"`
	Mobility       string   `json:"mobility"`
	ContractType   string   `json:"contractType"`
	Skills         []string `json:"skills"`
	Languages      []string `json:"languages"`
	Certifications []string `json:"certifications"`
}

// Dataset is a read-only snapshot of the candidate directory.
// Version identifies the content and changes whenever the records do.
type Dataset struct {
	Version    string
	Candidates []Candidate
	LoadedAt   time.Time
}

// CandidateSource supplies the directory dataset.
type CandidateSource interface {
	Snapshot(ctx context.Context) (*Dataset, error)
}

// CandidateRepository is a writable candidate store used for seeding.
type CandidateRepository interface {
	CandidateSource
	UpsertMany(ctx context.Context, candidates []Candidate) (int, error)
}

// SanitizeCandidates enforces the dataset invariants: records with an empty or
// already seen id are dropped (their ids are returned) and nil multi-valued
// fields become empty slices.
func SanitizeCandidates(records []Candidate) (clean []Candidate, dropped []string) {
	seen := make(map[string]struct{}, len(records))
	clean = make([]Candidate, 0, len(records))
	for _, c := range records {
		if c.ID == "" {
			dropped = append(dropped, c.ID)
			continue
		}
		if _, dup := seen[c.ID]; dup {
			dropped = append(dropped, c.ID)
			continue
		}
		seen[c.ID] = struct{}{}
		if c.Skills == nil {
			c.Skills = []string{}
		}
		if c.Languages == nil {
			c.Languages = []string{}
		}
		if c.Certifications == nil {
			c.Certifications = []string{}
		}
		clean = append(clean, c)
	}
	return clean, dropped
}
