package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepo struct {
	db *pgxpool.Pool

	mu      sync.Mutex
	current *domain.Dataset
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

// Snapshot returns the directory ordered by recency. The rows are only
// reloaded when the row count or the latest update time changes.
func (r *candidateRepo) Snapshot(ctx context.Context) (*domain.Dataset, error) {
	var count int64
	var lastUpdate time.Time
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(updated_at), 'epoch'::timestamptz) FROM candidates`,
	).Scan(&count, &lastUpdate)
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%d-%d", count, lastUpdate.UnixNano())

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil && r.current.Version == version {
		return r.current, nil
	}

	records, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	clean, dropped := domain.SanitizeCandidates(records)
	if len(dropped) > 0 {
		logger.Log.Warn("Dropped invalid candidate rows", "ids", dropped)
	}

	r.current = &domain.Dataset{Version: version, Candidates: clean, LoadedAt: time.Now()}
	return r.current, nil
}

func (r *candidateRepo) loadAll(ctx context.Context) ([]domain.Candidate, error) {
	query := `
		SELECT id, name, position, location, region, sector, experience, availability,
			education, mobility, contract_type, skills, languages, certifications
		FROM candidates
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Position, &c.Location, &c.Region, &c.Sector, &c.Experience, &c.Availability,
			&c.Education, &c.Mobility, &c.ContractType,
			pq.Array(&c.Skills), pq.Array(&c.Languages), pq.Array(&c.Certifications),
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertMany inserts or updates the candidates in one transaction. Records
// keep their relative order through created_at so the first one is the most
// recent.
func (r *candidateRepo) UpsertMany(ctx context.Context, candidates []domain.Candidate) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO candidates (id, name, position, location, region, sector, experience, availability,
			education, mobility, contract_type, skills, languages, certifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, position = EXCLUDED.position, location = EXCLUDED.location,
			region = EXCLUDED.region, sector = EXCLUDED.sector, experience = EXCLUDED.experience,
			availability = EXCLUDED.availability, education = EXCLUDED.education,
			mobility = EXCLUDED.mobility, contract_type = EXCLUDED.contract_type,
			skills = EXCLUDED.skills, languages = EXCLUDED.languages,
			certifications = EXCLUDED.certifications, updated_at = NOW()`

	base := time.Now()
	for i, c := range candidates {
		createdAt := base.Add(-time.Duration(i) * time.Second)
		if _, err := tx.Exec(ctx, query,
			c.ID, c.Name, c.Position, c.Location, c.Region, c.Sector, c.Experience, c.Availability,
			c.Education, c.Mobility, c.ContractType,
			pq.Array(c.Skills), pq.Array(c.Languages), pq.Array(c.Certifications), createdAt,
		); err != nil {
			return 0, fmt.Errorf("upsert candidate %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(candidates), nil
}
