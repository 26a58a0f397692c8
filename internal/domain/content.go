package domain

// LegalSection is one titled block of a legal document.
type LegalSection struct {
	Heading    string   `json:"heading"`
	Paragraphs []string `json:"paragraphs"`
}

type LegalDocument struct {
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	UpdatedAt string         `json:"updated_at"`
	Sections  []LegalSection `json:"sections,omitempty"`
}

type LegalUsecase interface {
	List() []LegalDocument
	Get(slug string) (*LegalDocument, error)
}

type Partner struct {
	Name   string `json:"name"`
	Color  string `json:"color"`
	Domain string `json:"domain"`
}

type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type CallToAction struct {
	Text    string `json:"text"`
	Href    string `json:"href"`
	Variant string `json:"variant"`
}

// LandingPage is the content of a funnel page (candidates or companies).
type LandingPage struct {
	Slug     string         `json:"slug"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Badges   []string       `json:"badges"`
	Actions  []CallToAction `json:"actions"`
	Partners []Partner      `json:"partners,omitempty"`
	FAQs     []FAQ          `json:"faqs"`
}

type ContentUsecase interface {
	Page(slug string) (*LandingPage, error)
}
