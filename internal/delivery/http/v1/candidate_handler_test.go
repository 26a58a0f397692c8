package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"skillijob-backend/internal/delivery/http/middleware"
	v1 "skillijob-backend/internal/delivery/http/v1"
	"skillijob-backend/internal/directory"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/usecase"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Data
}

type staticSource struct{ ds *domain.Dataset }

func (s staticSource) Snapshot(context.Context) (*domain.Dataset, error) { return s.ds, nil }

func testDataset() *domain.Dataset {
	return &domain.Dataset{
		Version: "v-test",
		Candidates: []domain.Candidate{
			{ID: "c1", Name: "Alice Martin", Position: "Développeuse backend", Location: "Paris", Region: "Île-de-France", Sector: "Tech", Experience: "7 ans", Availability: "Immédiate", Skills: []string{"Java", "SQL", "Docker", "Kubernetes", "Go"}},
			{ID: "c2", Name: "Bob Dupont", Position: "Technicien support", Location: "Marseille", Region: "PACA", Sector: "Tech", Experience: "3 ans", Availability: "1 mois", Skills: []string{"Java"}},
			{ID: "c3", Name: "Émilie Roux", Position: "Comptable", Location: "Lyon", Region: "Auvergne-Rhône-Alpes", Sector: "Finance", Experience: "16 ans", Availability: "2 semaines", Skills: []string{"SAP", "Excel"}},
		},
	}
}

type sessionAuth struct {
	domain.AuthUsecase
	users map[string]*domain.User
}

func (a sessionAuth) Authenticate(_ context.Context, token string) (*domain.User, *domain.Session, error) {
	u, ok := a.users[token]
	if !ok {
		return nil, nil, apperror.Unauthorized("Session invalide")
	}
	return u, &domain.Session{UserID: u.ID, Token: token}, nil
}

func newCandidateRouter() *gin.Engine {
	auth := sessionAuth{users: map[string]*domain.User{
		"company":   {ID: "u1", UserType: domain.UserTypeCompany},
		"candidate": {ID: "u2", UserType: domain.UserTypeCandidate},
	}}

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	api := r.Group("/v1")
	company := api.Group("", middleware.AuthMiddleware(auth), middleware.RequireUserType(domain.UserTypeCompany))
	v1.NewCandidateHandler(api, company, usecase.NewDirectoryUsecase(staticSource{ds: testDataset()}))
	return r
}

func get(r http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ids(cards []v1.CandidateCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestCandidateQuery_FilterState(t *testing.T) {
	t.Run("empty query is the default state", func(t *testing.T) {
		assert.Equal(t, directory.DefaultFilterState(), v1.CandidateQuery{}.FilterState())
	})

	t.Run("values are trimmed and skills split", func(t *testing.T) {
		s := v1.CandidateQuery{
			Q:      "  dev  ",
			Region: " PACA ",
			Skills: []string{"Java, SQL", "Java", " "},
			Sort:   "name",
		}.FilterState()

		assert.Equal(t, "dev", s.Query)
		assert.Equal(t, "PACA", s.Region)
		assert.Equal(t, directory.All, s.Sector)
		assert.Equal(t, []string{"Java", "SQL"}, s.Skills)
		assert.Equal(t, directory.SortName, s.Sort)
	})

	t.Run("unescaped plus in experience", func(t *testing.T) {
		s := v1.CandidateQuery{Experience: "15 "}.FilterState()
		assert.Equal(t, directory.Bracket15Plus, s.Experience)
	})

	t.Run("padded experience bracket", func(t *testing.T) {
		s := v1.CandidateQuery{Experience: " 5-10 "}.FilterState()
		assert.Equal(t, directory.Bracket5To10, s.Experience)
	})

	t.Run("toggle skill", func(t *testing.T) {
		s := v1.CandidateQuery{Skills: []string{"Java", "SQL"}, ToggleSkill: "Java"}.FilterState()
		assert.Equal(t, []string{"SQL"}, s.Skills)

		s = v1.CandidateQuery{Skills: []string{"SQL"}, ToggleSkill: "Go"}.FilterState()
		assert.Equal(t, []string{"SQL", "Go"}, s.Skills)
	})

	t.Run("reset wins", func(t *testing.T) {
		s := v1.CandidateQuery{Q: "java", Sort: "name", Reset: true}.FilterState()
		assert.Equal(t, directory.DefaultFilterState(), s)
	})
}

func TestCandidateHandler_List(t *testing.T) {
	r := newCandidateRouter()

	t.Run("default view", func(t *testing.T) {
		rec := get(r, "/v1/candidates", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeData[v1.CandidateListResponse](t, rec)
		assert.Equal(t, 3, data.Total)
		assert.Equal(t, 3, data.DatasetTotal)
		assert.Equal(t, 0, data.ActiveFilters)
		assert.Equal(t, "v-test", data.Version)
		assert.Equal(t, []string{"c1", "c2", "c3"}, ids(data.Candidates))
	})

	t.Run("combined filters", func(t *testing.T) {
		q := url.Values{"sector": {"Tech"}, "skills": {"Java"}, "sort": {"experience"}}
		rec := get(r, "/v1/candidates?"+q.Encode(), "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeData[v1.CandidateListResponse](t, rec)
		assert.Equal(t, []string{"c1", "c2"}, ids(data.Candidates))
		assert.Equal(t, 2, data.ActiveFilters)
		assert.Equal(t, directory.SortExperience, data.Filters.Sort)
	})

	t.Run("experience bracket", func(t *testing.T) {
		q := url.Values{"experience": {"15+"}}
		rec := get(r, "/v1/candidates?"+q.Encode(), "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"c3"}, ids(decodeData[v1.CandidateListResponse](t, rec).Candidates))
	})

	t.Run("card presentation", func(t *testing.T) {
		rec := get(r, "/v1/candidates?q=alice", "")
		require.Equal(t, http.StatusOK, rec.Code)

		cards := decodeData[v1.CandidateListResponse](t, rec).Candidates
		require.Len(t, cards, 1)
		assert.Equal(t, "AM", cards[0].Initials)
		assert.Equal(t, []string{"Java", "SQL", "Docker", "Kubernetes"}, cards[0].SkillsPreview)
		assert.Equal(t, 1, cards[0].SkillsHidden)
	})

	t.Run("no match", func(t *testing.T) {
		rec := get(r, "/v1/candidates?q=plombier", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decodeData[v1.CandidateListResponse](t, rec)
		assert.NotNil(t, data.Candidates)
		assert.Empty(t, data.Candidates)
		assert.Equal(t, 1, data.ActiveFilters)
	})

	t.Run("experience with a leading space", func(t *testing.T) {
		rec := get(r, "/v1/candidates?experience=%205-10", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"c1"}, ids(decodeData[v1.CandidateListResponse](t, rec).Candidates))
	})

	t.Run("unknown sort", func(t *testing.T) {
		rec := get(r, "/v1/candidates?sort=salary", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("query too long", func(t *testing.T) {
		rec := get(r, "/v1/candidates?q="+strings.Repeat("a", 201), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCandidateHandler_FacetsAndGet(t *testing.T) {
	r := newCandidateRouter()

	rec := get(r, "/v1/candidates/facets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	facets := decodeData[v1.FacetsResponse](t, rec)
	assert.Equal(t, []string{"Finance", "Tech"}, facets.Sectors)
	assert.Contains(t, facets.FeaturedSkills, "Java")

	rec = get(r, "/v1/candidates/c2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	card := decodeData[v1.CandidateCard](t, rec)
	assert.Equal(t, "Bob Dupont", card.Name)
	assert.Equal(t, "BD", card.Initials)

	rec = get(r, "/v1/candidates/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCandidateHandler_Export(t *testing.T) {
	r := newCandidateRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/v1/candidates/export", "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/v1/candidates/export", "candidate").Code)

	rec := get(r, "/v1/candidates/export?sector=Tech", "company")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"skillijob_candidats_")
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Candidats")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alice Martin", rows[1][0])
	assert.Equal(t, "Bob Dupont", rows[2][0])
}
