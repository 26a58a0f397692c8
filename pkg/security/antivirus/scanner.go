package antivirus

import "context"

// Verdict is the outcome of a malware scan.
type Verdict struct {
	Infected   bool
	ThreatName string
	Scanner    string
}

// Scanner checks uploaded content for malware. Callers treat a non-nil error
// as a rejection.
type Scanner interface {
	Scan(ctx context.Context, data []byte) (Verdict, error)
	Name() string
}

// NoOpScanner reports every file as clean. It is used when no clamd address
// is configured.
type NoOpScanner struct{}

var _ Scanner = NoOpScanner{}

func (NoOpScanner) Scan(context.Context, []byte) (Verdict, error) {
	return Verdict{Scanner: "noop"}, nil
}

func (NoOpScanner) Name() string { return "noop" }
