// Command seed loads the candidate directory into Postgres and can create a
// demo company account for local testing.
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"skillijob-backend/config"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/repository/postgres"
	"skillijob-backend/internal/repository/static"
	"skillijob-backend/pkg/database"
	"skillijob-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	file := flag.String("file", "", "candidates JSON file (defaults to the embedded dataset)")
	companyEmail := flag.String("company-email", "", "create a company account with this email")
	companyPassword := flag.String("company-password", "", "password of the company account")
	companyName := flag.String("company-name", "Skillijob Démo", "name of the company account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	candidates, err := loadCandidates(ctx, *file)
	if err != nil {
		log.Fatalf("Failed to load candidates: %v", err)
	}

	n, err := postgres.NewCandidateRepository(pool).UpsertMany(ctx, candidates)
	if err != nil {
		log.Fatalf("Failed to seed candidates: %v", err)
	}
	logger.Log.Info("Candidates seeded", "count", n, "source", sourceName(*file))

	if *companyEmail == "" {
		return
	}
	if len(*companyPassword) < 6 {
		log.Fatal("-company-password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*companyPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(*companyEmail)),
		PasswordHash: string(hash),
		UserType:     domain.UserTypeCompany,
		CompanyName:  *companyName,
	}
	if err := postgres.NewUserRepository(pool).Create(ctx, user); err != nil {
		log.Fatalf("Failed to create company account: %v", err)
	}
	logger.Log.Info("Company account created", "id", user.ID, "email", user.Email)
}

func loadCandidates(ctx context.Context, path string) ([]domain.Candidate, error) {
	if path == "" {
		return static.EmbeddedCandidates()
	}
	ds, err := static.NewCandidateSource(path).Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ds.Candidates, nil
}

func sourceName(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
