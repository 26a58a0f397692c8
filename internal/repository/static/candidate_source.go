package static

import (
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/logger"
)

//go:embed data/candidates.json
var embeddedCandidates []byte

type candidateSource struct {
	path string

	mu      sync.Mutex
	cached  *domain.Dataset
	modTime time.Time
}

// NewCandidateSource serves the directory from a JSON file. An empty path
// selects the dataset compiled into the binary. A file on disk is re-read when
// its modification time changes.
func NewCandidateSource(path string) domain.CandidateSource {
	return &candidateSource{path: path}
}

func (s *candidateSource) Snapshot(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.cached == nil {
			ds, err := decodeDataset(embeddedCandidates)
			if err != nil {
				return nil, fmt.Errorf("embedded candidates: %w", err)
			}
			s.cached = ds
		}
		return s.cached, nil
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if s.cached != nil {
			logger.Log.Warn("Candidate file unavailable, serving previous snapshot", "path", s.path, "error", err)
			return s.cached, nil
		}
		return nil, fmt.Errorf("stat candidates file: %w", err)
	}
	if s.cached != nil && info.ModTime().Equal(s.modTime) {
		return s.cached, nil
	}

	ds, err := readDataset(s.path)
	if err != nil {
		if s.cached != nil {
			// Remember the broken version so it is not re-parsed on every request.
			s.modTime = info.ModTime()
			logger.Log.Warn("Candidate file rejected, serving previous snapshot", "path", s.path, "version", s.cached.Version, "error", err)
			return s.cached, nil
		}
		return nil, err
	}
	s.cached = ds
	s.modTime = info.ModTime()
	logger.Log.Info("Candidate dataset loaded", "path", s.path, "version", ds.Version, "count", len(ds.Candidates))
	return ds, nil
}

func readDataset(path string) (*domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}
	ds, err := decodeDataset(raw)
	if err != nil {
		return nil, fmt.Errorf("candidates file %s: %w", path, err)
	}
	return ds, nil
}

func decodeDataset(raw []byte) (*domain.Dataset, error) {
	var records []domain.Candidate
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	clean, dropped := domain.SanitizeCandidates(records)
	if len(dropped) > 0 {
		logger.Log.Warn("Dropped candidates with empty or duplicate id", "ids", dropped)
	}

	sum := sha256.Sum256(raw)
	return &domain.Dataset{
		Version:    hex.EncodeToString(sum[:8]),
		Candidates: clean,
		LoadedAt:   time.Now(),
	}, nil
}

// EmbeddedCandidates returns the records of the compiled-in dataset.
func EmbeddedCandidates() ([]domain.Candidate, error) {
	ds, err := decodeDataset(embeddedCandidates)
	if err != nil {
		return nil, err
	}
	return ds.Candidates, nil
}
