package v1

import (
	"net/http"
	"strconv"
	"strings"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/directory"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/usecase"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	cardSkillLimit     = 4
	featuredSkillCount = 10
)

type CandidateHandler struct {
	directoryUC usecase.DirectoryUsecase
}

// NewCandidateHandler registers the directory routes. Browsing is public; the
// spreadsheet export needs a company session.
func NewCandidateHandler(public *gin.RouterGroup, company *gin.RouterGroup, directoryUC usecase.DirectoryUsecase) {
	handler := &CandidateHandler{directoryUC: directoryUC}

	candidates := public.Group("/candidates")
	{
		candidates.GET("", handler.List)
		candidates.GET("/facets", handler.Facets)
		candidates.GET("/:id", handler.Get)
	}
	company.GET("/candidates/export", handler.Export)
}

// CandidateQuery is the filter state as sent in the query string. Skills may
// be repeated (?skills=Java&skills=SQL) or comma separated.
type CandidateQuery struct {
	Q            string   `form:"q" binding:"max=200"`
	Region       string   `form:"region" binding:"max=100"`
	Sector       string   `form:"sector" binding:"max=100"`
	Experience   string   `form:"experience"`
	Availability string   `form:"availability" binding:"max=50"`
	Skills       []string `form:"skills" binding:"max=30,dive,max=100"`
	Sort         string   `form:"sort"`
	// ToggleSkill flips one skill in the selection, like a skill chip.
	ToggleSkill string `form:"toggle_skill" binding:"max=100"`
	Reset       bool   `form:"reset"`
}

// FilterState converts the query into a pipeline state. Missing selectors
// fall back to the defaults.
func (q CandidateQuery) FilterState() directory.FilterState {
	if q.Reset {
		return directory.FilterState{}.Reset()
	}

	s := directory.DefaultFilterState()
	s.Query = strings.TrimSpace(q.Q)
	if v := strings.TrimSpace(q.Region); v != "" {
		s.Region = v
	}
	if v := strings.TrimSpace(q.Sector); v != "" {
		s.Sector = v
	}
	if v := strings.TrimSpace(q.Experience); v != "" {
		// An unescaped "15+" arrives as "15 ".
		if v+"+" == string(directory.Bracket15Plus) && strings.HasSuffix(q.Experience, " ") {
			v += "+"
		}
		s.Experience = directory.Bracket(v)
	}
	if v := strings.TrimSpace(q.Availability); v != "" {
		s.Availability = v
	}
	if v := strings.TrimSpace(q.Sort); v != "" {
		s.Sort = directory.SortKey(v)
	}

	seen := map[string]bool{}
	for _, raw := range q.Skills {
		for _, skill := range strings.Split(raw, ",") {
			skill = strings.TrimSpace(skill)
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			s.Skills = append(s.Skills, skill)
		}
	}
	if t := strings.TrimSpace(q.ToggleSkill); t != "" {
		s = s.WithSkillToggled(t)
	}
	return s
}

// CandidateCard is a directory entry with its card presentation.
type CandidateCard struct {
	domain.Candidate
	Initials      string   `json:"initials"`
	SkillsPreview []string `json:"skills_preview"`
	SkillsHidden  int      `json:"skills_hidden"`
}

func newCandidateCard(c domain.Candidate) CandidateCard {
	visible, hidden := directory.SkillPreview(c.Skills, cardSkillLimit)
	return CandidateCard{
		Candidate:     c,
		Initials:      directory.Initials(c.Name),
		SkillsPreview: visible,
		SkillsHidden:  hidden,
	}
}

type CandidateListResponse struct {
	Candidates    []CandidateCard       `json:"candidates"`
	Total         int                   `json:"total"`
	DatasetTotal  int                   `json:"dataset_total"`
	ActiveFilters int                   `json:"active_filters"`
	Filters       directory.FilterState `json:"filters"`
	Version       string                `json:"version"`
}

type FacetsResponse struct {
	directory.Facets
	FeaturedSkills []string `json:"featured_skills"`
}

func (h *CandidateHandler) bindState(c *gin.Context) (directory.FilterState, bool) {
	var q CandidateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.Error(apperror.BadRequest("Paramètres de recherche invalides").WithDetails([]string{err.Error()}))
		return directory.FilterState{}, false
	}
	return q.FilterState(), true
}

// List godoc
// @Summary      Search the candidate directory
// @Description  Filters and sorts the anonymised candidate profiles. All filters are combined.
// @Tags         candidates
// @Produce      json
// @Param        q             query     string  false  "Free text (name, position, location, skills)"
// @Param        region        query     string  false  "Region or 'all'"
// @Param        sector        query     string  false  "Sector or 'all'"
// @Param        experience    query     string  false  "all, 0-5, 5-10, 10-15, 15+"
// @Param        availability  query     string  false  "Availability or 'all'"
// @Param        skills        query     []string  false  "Required skills (all must match)"
// @Param        sort          query     string  false  "recent, experience, name, location"
// @Success      200  {object}  response.Response{data=CandidateListResponse}
// @Failure      400  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) List(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	page, err := h.directoryUC.Search(c.Request.Context(), state)
	if err != nil {
		c.Error(err)
		return
	}

	cards := make([]CandidateCard, len(page.Candidates))
	for i, cand := range page.Candidates {
		cards[i] = newCandidateCard(cand)
	}

	response.Success(c, http.StatusOK, strconv.Itoa(page.Total)+" candidat(s) trouvé(s)", CandidateListResponse{
		Candidates:    cards,
		Total:         page.Total,
		DatasetTotal:  page.DatasetTotal,
		ActiveFilters: page.ActiveFilters,
		Filters:       page.Filters,
		Version:       page.Version,
	})
}

// Facets godoc
// @Summary      Directory filter options
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=FacetsResponse}
// @Failure      503  {object}  response.Response
// @Router       /candidates/facets [get]
func (h *CandidateHandler) Facets(c *gin.Context) {
	facets, err := h.directoryUC.Facets(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Filtres disponibles", FacetsResponse{
		Facets:         *facets,
		FeaturedSkills: directory.FeaturedSkills(*facets, featuredSkillCount),
	})
}

// Get godoc
// @Summary      Candidate profile
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate ID"
// @Success      200  {object}  response.Response{data=CandidateCard}
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) Get(c *gin.Context) {
	cand, err := h.directoryUC.GetCandidate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profil candidat", newCandidateCard(*cand))
}

// Export godoc
// @Summary      Export the filtered directory
// @Description  Same filters as the search, rendered as an Excel workbook. Company accounts only.
// @Tags         candidates
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /candidates/export [get]
// @Security     BearerAuth
func (h *CandidateHandler) Export(c *gin.Context) {
	state, ok := h.bindState(c)
	if !ok {
		return
	}

	file, err := h.directoryUC.Export(c.Request.Context(), state)
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
