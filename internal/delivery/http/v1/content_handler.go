package v1

import (
	"net/http"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	legalUC   domain.LegalUsecase
	contentUC domain.ContentUsecase
}

// NewContentHandler registers the static site content: legal documents and
// landing pages.
func NewContentHandler(public *gin.RouterGroup, legalUC domain.LegalUsecase, contentUC domain.ContentUsecase) {
	handler := &ContentHandler{legalUC: legalUC, contentUC: contentUC}

	public.GET("/legal", handler.ListLegal)
	public.GET("/legal/:slug", handler.GetLegal)
	public.GET("/pages/:slug", handler.GetPage)
}

// ListLegal godoc
// @Summary      Legal documents
// @Tags         content
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.LegalDocument}
// @Router       /legal [get]
func (h *ContentHandler) ListLegal(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	response.Success(c, http.StatusOK, "Documents légaux", h.legalUC.List())
}

// GetLegal godoc
// @Summary      Legal document
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "mentions, cookies, confidentialite or cgv"
// @Success      200   {object}  response.Response{data=domain.LegalDocument}
// @Failure      404   {object}  response.Response
// @Router       /legal/{slug} [get]
func (h *ContentHandler) GetLegal(c *gin.Context) {
	doc, err := h.legalUC.Get(c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	response.Success(c, http.StatusOK, doc.Title, doc)
}

// GetPage godoc
// @Summary      Landing page content
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "candidates or companies"
// @Success      200   {object}  response.Response{data=domain.LandingPage}
// @Failure      404   {object}  response.Response
// @Router       /pages/{slug} [get]
func (h *ContentHandler) GetPage(c *gin.Context) {
	page, err := h.contentUC.Page(c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	response.Success(c, http.StatusOK, page.Title, page)
}
