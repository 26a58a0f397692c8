package v1

import (
	"net/http"

	"skillijob-backend/internal/delivery/http/middleware"
	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkoutUC domain.CheckoutUsecase
}

func NewCheckoutHandler(public *gin.RouterGroup, protected *gin.RouterGroup, checkoutUC domain.CheckoutUsecase) {
	handler := &CheckoutHandler{checkoutUC: checkoutUC}

	public.GET("/plans", handler.Plans)
	protected.POST("/checkout", handler.Checkout)
	protected.GET("/orders", handler.Orders)
}

type PlansResponse struct {
	Plans         []domain.Plan `json:"plans"`
	DefaultPlanID string        `json:"default_plan_id"`
}

// Plans godoc
// @Summary      Profile packs
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  response.Response{data=PlansResponse}
// @Router       /plans [get]
func (h *CheckoutHandler) Plans(c *gin.Context) {
	response.Success(c, http.StatusOK, "Formules disponibles", PlansResponse{
		Plans:         h.checkoutUC.Plans(),
		DefaultPlanID: h.checkoutUC.DefaultPlanID(),
	})
}

// Checkout godoc
// @Summary      Order a pack
// @Description  Creates a pending order. Company accounts only.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CheckoutRequest  true  "Plan"
// @Success      201      {object}  response.Response{data=domain.Order}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /checkout [post]
// @Security     BearerAuth
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req domain.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	order, err := h.checkoutUC.Checkout(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Commande enregistrée", order)
}

// Orders godoc
// @Summary      My orders
// @Tags         checkout
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Order}
// @Router       /orders [get]
// @Security     BearerAuth
func (h *CheckoutHandler) Orders(c *gin.Context) {
	orders, err := h.checkoutUC.Orders(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Commandes", orders)
}
