package v1

import (
	"net/http"
	"time"

	"skillijob-backend/internal/delivery/http/middleware"
	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// forgotPasswordDuration is the minimum response time of forgot-password, so
// timing does not reveal whether the account exists.
const forgotPasswordDuration = 1500 * time.Millisecond

type AuthHandler struct {
	authUC       domain.AuthUsecase
	secureCookie bool
	minDuration  time.Duration
}

func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, secureCookie bool) {
	handler := &AuthHandler{
		authUC:       authUC,
		secureCookie: secureCookie,
		minDuration:  forgotPasswordDuration,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", handler.Login)
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/forgot-password", handler.ForgotPassword)
		publicAuth.POST("/reset-password", handler.ResetPassword)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.PUT("/profile", handler.UpdateProfile)
		protectedAuth.PUT("/password", handler.ChangePassword)
	}
}

func clientMeta(c *gin.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: response.RequestID(c),
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, result *domain.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, result.Token, maxAge, "/", "", h.secureCookie, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.secureCookie, true)
}

// Register godoc
// @Summary      Create an account
// @Description  Registers a candidate or company account and opens a session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterRequest  true  "Registration details"
// @Success      201       {object}  response.Response{data=domain.AuthResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	result, err := h.authUC.Register(c.Request.Context(), &req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, result)
	response.Success(c, http.StatusCreated, "Compte créé", result)
}

// Login godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginRequest  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.AuthResult}
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	result, err := h.authUC.Login(c.Request.Context(), &req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}

	h.setSessionCookie(c, result)
	response.Success(c, http.StatusOK, "Connexion réussie", result)
}

// Logout godoc
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authUC.Logout(c.Request.Context(), c.GetString(string(domain.KeySessionID))); err != nil {
		c.Error(err)
		return
	}
	h.clearSessionCookie(c)
	response.Success(c, http.StatusOK, "Déconnexion réussie", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profil utilisateur", gin.H{
		"user":         user,
		"display_name": user.DisplayName(),
	})
}

// UpdateProfile godoc
// @Summary      Update profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateProfileRequest  true  "Profile fields"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Router       /auth/profile [put]
// @Security     BearerAuth
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	user, err := h.authUC.UpdateProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profil mis à jour", user)
}

// ChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        password  body      domain.ChangePasswordRequest  true  "Current and new password"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      401       {object}  response.Response
// @Router       /auth/password [put]
// @Security     BearerAuth
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	if err := h.authUC.ChangePassword(c.Request.Context(), c.GetString(string(domain.KeyUserID)), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Mot de passe modifié", nil)
}

// ForgotPassword godoc
// @Summary      Request a password reset link
// @Description  Always answers the same way, whether or not the account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	start := time.Now()

	var req domain.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	err := h.authUC.ForgotPassword(c.Request.Context(), &req, clientMeta(c))
	h.simulateDelay(start)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Si un compte existe pour cette adresse, un lien de réinitialisation vient d'être envoyé.", nil)
}

// simulateDelay pads the response up to minDuration.
func (h *AuthHandler) simulateDelay(start time.Time) {
	if remaining := h.minDuration - time.Since(start); remaining > 0 {
		time.Sleep(remaining)
	}
}

// ResetPassword godoc
// @Summary      Reset password with a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ResetPasswordRequest  true  "Token and new password"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Requête invalide"))
		return
	}

	if err := h.authUC.ResetPassword(c.Request.Context(), &req, clientMeta(c)); err != nil {
		c.Error(err)
		return
	}
	h.clearSessionCookie(c)
	response.Success(c, http.StatusOK, "Mot de passe réinitialisé, vous pouvez vous connecter", nil)
}
