package v1

import (
	"net/http"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactUC domain.ContactUsecase
}

func NewContactHandler(forms *gin.RouterGroup, contactUC domain.ContactUsecase) {
	handler := &ContactHandler{contactUC: contactUC}
	forms.POST("/contact", handler.Send)
}

// Send godoc
// @Summary      Send a contact message
// @Description  Forwards the message to the Skillijob team by email.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact form"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      503      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) Send(c *gin.Context) {
	var req domain.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	if err := h.contactUC.SendContactMessage(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}

	logger.Log.Info("Contact message forwarded", "request_id", response.RequestID(c))
	response.Success(c, http.StatusOK, "Merci, votre message a bien été envoyé. Nous vous répondrons rapidement.", nil)
}
