package middleware

import (
	"errors"
	"net/http"
	"strings"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// SessionCookieName carries the signed session token for browser clients.
const SessionCookieName = "auth_token"

// bearerToken reads the session token from the Authorization header, then
// from the session cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookieName); err == nil {
		return cookie
	}
	return ""
}

func setSession(c *gin.Context, user *domain.User, session *domain.Session) {
	c.Set(string(domain.KeyUser), user)
	c.Set(string(domain.KeyUserID), user.ID)
	c.Set(string(domain.KeyUserEmail), user.Email)
	c.Set(string(domain.KeyUserType), user.UserType)
	// KeySessionID holds the opaque session token, which is what logout revokes.
	c.Set(string(domain.KeySessionID), session.Token)
}

func abortWith(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		response.Error(c, appErr.Code, appErr.Message, nil)
	} else {
		response.Error(c, http.StatusInternalServerError, "Une erreur inattendue est survenue. Veuillez réessayer plus tard.", nil)
	}
	c.Abort()
}

// AuthMiddleware requires a valid session. The signature is checked first,
// then the session row, then the user.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "Connexion requise", nil)
			c.Abort()
			return
		}

		user, session, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWith(c, err)
			return
		}

		setSession(c, user, session)
		c.Next()
	}
}

// RequireUserType must run after AuthMiddleware.
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(string(domain.KeyUserType)) != userType {
			response.Error(c, http.StatusForbidden, "Accès réservé aux comptes "+userTypeLabel(userType), nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func userTypeLabel(userType string) string {
	if userType == domain.UserTypeCompany {
		return "entreprise"
	}
	return "candidat"
}

// CurrentUser returns the user attached by the auth middlewares.
func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(string(domain.KeyUser))
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}
