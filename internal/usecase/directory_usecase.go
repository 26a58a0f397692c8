package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"skillijob-backend/internal/directory"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

// DirectoryPage is one computed view of the candidate directory.
type DirectoryPage struct {
	directory.Result
	Total   int                   `json:"total"`
	Filters directory.FilterState `json:"filters"`
	Version string                `json:"version"`
}

// ExportFile is a generated spreadsheet.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type DirectoryUsecase interface {
	Search(ctx context.Context, state directory.FilterState) (*DirectoryPage, error)
	Facets(ctx context.Context) (*directory.Facets, error)
	GetCandidate(ctx context.Context, id string) (*domain.Candidate, error)
	Export(ctx context.Context, state directory.FilterState) (*ExportFile, error)
}

type directoryUsecase struct {
	source domain.CandidateSource
	facets directory.FacetCache
	now    func() time.Time
}

func NewDirectoryUsecase(source domain.CandidateSource) DirectoryUsecase {
	return &directoryUsecase{source: source, now: time.Now}
}

// ValidateFilterState rejects sort keys and experience brackets the directory
// does not know. Other selectors are free text compared by equality.
func ValidateFilterState(s directory.FilterState) error {
	if !s.Sort.Valid() {
		return apperror.BadRequest(fmt.Sprintf("Tri inconnu : %q", s.Sort))
	}
	if !s.Experience.Valid() {
		return apperror.BadRequest(fmt.Sprintf("Tranche d'expérience inconnue : %q", s.Experience))
	}
	return nil
}

func (u *directoryUsecase) snapshot(ctx context.Context) (*domain.Dataset, error) {
	ds, err := u.source.Snapshot(ctx)
	if err != nil {
		return nil, apperror.Unavailable("Annuaire des candidats indisponible", err)
	}
	return ds, nil
}

func (u *directoryUsecase) Search(ctx context.Context, state directory.FilterState) (*DirectoryPage, error) {
	if err := ValidateFilterState(state); err != nil {
		return nil, err
	}
	ds, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := directory.Apply(ds.Candidates, state)
	return &DirectoryPage{
		Result:  result,
		Total:   result.Len(),
		Filters: state,
		Version: ds.Version,
	}, nil
}

func (u *directoryUsecase) Facets(ctx context.Context) (*directory.Facets, error) {
	ds, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	f := u.facets.Get(ds)
	return &f, nil
}

func (u *directoryUsecase) GetCandidate(ctx context.Context, id string) (*domain.Candidate, error) {
	ds, err := u.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ds.Candidates {
		if ds.Candidates[i].ID == id {
			c := ds.Candidates[i]
			return &c, nil
		}
	}
	return nil, apperror.NotFound("Candidat introuvable")
}

var exportHeaders = []string{
	"Nom", "Poste", "Localisation", "Région", "Secteur", "Expérience", "Disponibilité",
	"Formation", "Mobilité", "Type de contrat", "Compétences", "Langues", "Certifications",
}

func exportRow(c domain.Candidate) []any {
	return []any{
		c.Name, c.Position, c.Location, c.Region, c.Sector, c.Experience, c.Availability,
		c.Education, c.Mobility, c.ContractType,
		strings.Join(c.Skills, ", "), strings.Join(c.Languages, ", "), strings.Join(c.Certifications, ", "),
	}
}

// Export renders the same view as Search into an xlsx workbook.
func (u *directoryUsecase) Export(ctx context.Context, state directory.FilterState) (*ExportFile, error) {
	page, err := u.Search(ctx, state)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Candidats"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &exportHeaders); err != nil {
		return nil, apperror.Internal(err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#2563EB"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for i, c := range page.Candidates {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := exportRow(c)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetColWidth(sheetName, "A", lastCol, 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}

	return &ExportFile{
		Filename:    fmt.Sprintf("skillijob_candidats_%s.xlsx", u.now().Format("20060102_150405")),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
