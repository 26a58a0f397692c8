package v1

import (
	"net/http"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type NewsletterHandler struct {
	newsletterUC domain.NewsletterUsecase
}

func NewNewsletterHandler(public *gin.RouterGroup, newsletterUC domain.NewsletterUsecase) {
	handler := &NewsletterHandler{newsletterUC: newsletterUC}
	public.POST("/newsletter", handler.Subscribe)
}

// Subscribe godoc
// @Summary      Subscribe to the newsletter
// @Description  Subscribing an address twice is not an error.
// @Tags         newsletter
// @Accept       json
// @Produce      json
// @Param        request  body      domain.NewsletterRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /newsletter [post]
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req domain.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	created, err := h.newsletterUC.Subscribe(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	if created {
		response.Success(c, http.StatusCreated, "Merci ! Vous êtes inscrit à la newsletter.", nil)
		return
	}
	response.Success(c, http.StatusOK, "Vous êtes déjà inscrit à la newsletter.", nil)
}
