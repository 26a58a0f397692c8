package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"skillijob-backend/internal/directory"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubSource struct {
	ds  *domain.Dataset
	err error
}

func (s *stubSource) Snapshot(context.Context) (*domain.Dataset, error) {
	return s.ds, s.err
}

func directoryDataset() *domain.Dataset {
	return &domain.Dataset{
		Version: "v1",
		Candidates: []domain.Candidate{
			{ID: "c1", Name: "Alice Martin", Position: "Développeuse backend", Location: "Paris", Region: "Île-de-France", Sector: "Tech", Experience: "7 ans", Availability: "Immédiate", Skills: []string{"Java", "SQL"}},
			{ID: "c2", Name: "Bob Dupont", Position: "Technicien support", Location: "Marseille", Region: "PACA", Sector: "Tech", Experience: "3 ans", Availability: "1 mois", Skills: []string{"Java"}},
			{ID: "c3", Name: "Émilie Roux", Position: "Comptable", Location: "Lyon", Region: "Auvergne-Rhône-Alpes", Sector: "Finance", Experience: "12 ans", Availability: "2 semaines", Skills: []string{"SAP", "Excel"}},
		},
	}
}

func TestDirectorySearch(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	state := directory.DefaultFilterState()
	state.Sector = "Tech"
	state.Sort = directory.SortExperience

	page, err := uc.Search(context.Background(), state)
	require.NoError(t, err)

	require.Len(t, page.Candidates, 2)
	assert.Equal(t, "c1", page.Candidates[0].ID)
	assert.Equal(t, "c2", page.Candidates[1].ID)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 3, page.DatasetTotal)
	assert.Equal(t, 1, page.ActiveFilters)
	assert.Equal(t, "v1", page.Version)
	assert.Equal(t, state, page.Filters)
}

func TestDirectorySearch_NoMatchIsEmptyNotNil(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	page, err := uc.Search(context.Background(), directory.FilterState{Query: "plombier"})
	require.NoError(t, err)
	assert.NotNil(t, page.Candidates)
	assert.Empty(t, page.Candidates)
	assert.True(t, page.Computed())
}

func TestDirectorySearch_RejectsUnknownKeys(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	_, err := uc.Search(context.Background(), directory.FilterState{Sort: "salary"})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = uc.Search(context.Background(), directory.FilterState{Experience: "20-30"})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestDirectory_SourceFailure(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{err: errors.New("connection refused")})

	_, err := uc.Search(context.Background(), directory.DefaultFilterState())
	requireAppError(t, err, http.StatusServiceUnavailable)

	_, err = uc.Facets(context.Background())
	requireAppError(t, err, http.StatusServiceUnavailable)
}

func TestDirectoryFacets(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	f, err := uc.Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Auvergne-Rhône-Alpes", "Île-de-France", "PACA"}, f.Regions)
	assert.Equal(t, []string{"Finance", "Tech"}, f.Sectors)
	assert.Equal(t, []string{"Excel", "Java", "SAP", "SQL"}, f.Skills)
	assert.Equal(t, directory.AvailabilityOptions, f.Availabilities)
}

func TestDirectoryGetCandidate(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	c, err := uc.GetCandidate(context.Background(), "c3")
	require.NoError(t, err)
	assert.Equal(t, "Émilie Roux", c.Name)

	_, err = uc.GetCandidate(context.Background(), "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestDirectoryExport(t *testing.T) {
	uc := usecase.NewDirectoryUsecase(&stubSource{ds: directoryDataset()})

	state := directory.DefaultFilterState()
	state.Skills = []string{"Java"}
	state.Sort = directory.SortName

	file, err := uc.Export(context.Background(), state)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "skillijob_candidats_"))
	assert.True(t, strings.HasSuffix(file.Filename, ".xlsx"))

	wb, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Candidats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Nom", rows[0][0])
	assert.Equal(t, "Alice Martin", rows[1][0])
	assert.Equal(t, "Bob Dupont", rows[2][0])
	assert.Equal(t, "Java, SQL", rows[1][10])
}
