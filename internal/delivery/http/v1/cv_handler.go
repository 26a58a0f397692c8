package v1

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is the room left for the text fields and multipart
// framing on top of the file size limit.
const multipartOverhead = 64 << 10

type CVHandler struct {
	cvUC     domain.CVUsecase
	limiter  *security.UploadLimiter
	maxBytes int64
}

func NewCVHandler(public *gin.RouterGroup, cvUC domain.CVUsecase, limiter *security.UploadLimiter, maxBytes int64) {
	handler := &CVHandler{cvUC: cvUC, limiter: limiter, maxBytes: maxBytes}
	public.POST("/cv", handler.Submit)
}

// Submit godoc
// @Summary      Submit a CV
// @Description  Multipart form with the candidate details and the CV file (PDF, DOC or DOCX).
// @Tags         cv
// @Accept       multipart/form-data
// @Produce      json
// @Param        first_name   formData  string  true   "First name"
// @Param        last_name    formData  string  true   "Last name"
// @Param        email        formData  string  true   "Email"
// @Param        phone        formData  string  true   "Phone"
// @Param        position     formData  string  true   "Wanted position"
// @Param        address      formData  string  false  "Address"
// @Param        city         formData  string  false  "City"
// @Param        postal_code  formData  string  false  "Postal code"
// @Param        summary      formData  string  false  "Short presentation"
// @Param        cv           formData  file    true   "CV file"
// @Success      201  {object}  response.Response{data=domain.CVSubmission}
// @Failure      400  {object}  response.Response
// @Failure      413  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /cv [post]
func (h *CVHandler) Submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+multipartOverhead)

	var req domain.CVSubmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(h.tooLarge())
			return
		}
		c.Error(apperror.BadRequest("Formulaire invalide"))
		return
	}

	header, err := c.FormFile("cv")
	if err != nil {
		c.Error(apperror.BadRequest("Veuillez joindre votre CV"))
		return
	}
	if header.Size > h.maxBytes {
		c.Error(h.tooLarge())
		return
	}

	// Only well-formed submissions use up a slot.
	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), c.ClientIP()) {
		security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventUploadRejected,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: response.RequestID(c),
			Details:   map[string]any{"reason": "rate_limited"},
		})
		c.Error(apperror.TooManyRequests("Trop d'envois de CV, réessayez plus tard"))
		return
	}

	src, err := header.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	sub, err := h.cvUC.Submit(c.Request.Context(), &req, domain.CVFile{Filename: header.Filename, Data: data})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Merci ! Votre CV a bien été reçu.", sub)
}

func (h *CVHandler) tooLarge() *apperror.AppError {
	return apperror.New(http.StatusRequestEntityTooLarge, fmt.Sprintf("Le CV ne doit pas dépasser %d Mo", h.maxBytes>>20), nil)
}
