package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/auth"
	"skillijob-backend/pkg/email"
	"skillijob-backend/pkg/logger"
	"skillijob-backend/pkg/security"
	"skillijob-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig holds the session and lockout settings.
type AuthConfig struct {
	SessionTTL         time.Duration
	PasswordResetTTL   time.Duration
	LoginMaxAttempts   int
	LoginAttemptWindow time.Duration
	FrontendURL        string
}

// AuthRepositories groups the stores used by the auth usecase.
type AuthRepositories struct {
	Users    domain.UserRepository
	Sessions domain.SessionRepository
	Attempts domain.LoginAttemptRepository
	Resets   domain.PasswordResetRepository
}

type authUsecase struct {
	repos    AuthRepositories
	tokens   *auth.TokenManager
	mailer   email.Mailer
	audit    *security.SecurityLogger
	validate *validator.Validate
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthUsecase(
	repos AuthRepositories,
	tokens *auth.TokenManager,
	mailer email.Mailer,
	audit *security.SecurityLogger,
	validate *validator.Validate,
	cfg AuthConfig,
) domain.AuthUsecase {
	if cfg.LoginMaxAttempts <= 0 {
		cfg.LoginMaxAttempts = 5
	}
	if cfg.LoginAttemptWindow <= 0 {
		cfg.LoginAttemptWindow = 15 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.PasswordResetTTL <= 0 {
		cfg.PasswordResetTTL = time.Hour
	}
	return &authUsecase{
		repos:    repos,
		tokens:   tokens,
		mailer:   mailer,
		audit:    audit,
		validate: validate,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (u *authUsecase) Register(ctx context.Context, req *domain.RegisterRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	if req.UserType == domain.UserTypeCandidate && (req.FirstName == "" || req.LastName == "") {
		return nil, apperror.BadRequest("Prénom et nom sont obligatoires pour un compte candidat")
	}

	existing, err := u.repos.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Un compte existe déjà avec cet email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		UserType:     req.UserType,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Phone:        validation.NormalizePhone(req.Phone),
		Position:     strings.TrimSpace(req.Position),
	}
	if err := u.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventRegistered,
		SubjectType:  "email",
		SubjectValue: user.Email,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
		Details:      map[string]any{"user_type": user.UserType},
	})

	return u.startSession(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}

	now := u.now()
	failures, err := u.repos.Attempts.CountSince(ctx, req.Email, now.Add(-u.cfg.LoginAttemptWindow))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if failures >= u.cfg.LoginMaxAttempts {
		u.audit.LogLoginBlocked(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID)
		return nil, apperror.TooManyRequests("Trop de tentatives de connexion. Réessayez dans quelques minutes.")
	}

	user, err := u.repos.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		if err := u.repos.Attempts.Record(ctx, req.Email, now); err != nil {
			logger.Log.Error("Failed to record login attempt", "error", err)
		}
		reason := "invalid_password"
		if user == nil {
			reason = "unknown_email"
		}
		u.audit.LogLoginFailed(ctx, req.Email, meta.IP, meta.UserAgent, meta.RequestID, reason)
		return nil, apperror.Unauthorized("Email ou mot de passe incorrect")
	}

	if err := u.repos.Attempts.Clear(ctx, req.Email); err != nil {
		logger.Log.Warn("Failed to clear login attempts", "error", err)
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: user.ID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})

	return u.startSession(ctx, user)
}

func (u *authUsecase) startSession(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	opaque, err := auth.NewOpaqueToken()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	now := u.now()
	session := &domain.Session{
		UserID:    user.ID,
		Token:     opaque,
		ExpiresAt: now.Add(u.cfg.SessionTTL),
	}
	if err := u.repos.Sessions.Create(ctx, session); err != nil {
		return nil, apperror.Internal(err)
	}

	signed, err := u.tokens.Issue(user.ID, user.UserType, opaque, now, session.ExpiresAt)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.AuthResult{User: user, Token: signed, ExpiresAt: session.ExpiresAt}, nil
}

func (u *authUsecase) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}
	if err := u.repos.Sessions.DeleteByToken(ctx, sessionToken); err != nil {
		return apperror.Internal(err)
	}
	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventSessionRevoked,
		SubjectType:  "session",
		SubjectValue: sessionToken,
		Details:      map[string]any{"reason": "logout"},
	})
	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, signedToken string) (*domain.User, *domain.Session, error) {
	claims, err := u.tokens.Parse(signedToken)
	if err != nil {
		return nil, nil, apperror.Unauthorized("Session invalide")
	}

	session, err := u.repos.Sessions.GetByToken(ctx, claims.ID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if session == nil || session.UserID != claims.Subject {
		return nil, nil, apperror.Unauthorized("Session invalide")
	}
	if session.Expired(u.now()) {
		if err := u.repos.Sessions.DeleteByToken(ctx, session.Token); err != nil {
			logger.Log.Warn("Failed to delete expired session", "error", err)
		}
		return nil, nil, apperror.Unauthorized("Session expirée")
	}

	user, err := u.repos.Users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, nil, apperror.Unauthorized("Session invalide")
	}
	return user, session, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("Utilisateur introuvable")
	}
	return user, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	if err := validateStruct(u.validate, req); err != nil {
		return nil, err
	}
	user, err := u.GetCurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.CompanyName = strings.TrimSpace(req.CompanyName)
	user.Phone = validation.NormalizePhone(req.Phone)
	user.Position = strings.TrimSpace(req.Position)

	switch user.UserType {
	case domain.UserTypeCompany:
		if user.CompanyName == "" {
			return nil, apperror.BadRequest("Le nom de l'entreprise est obligatoire")
		}
	default:
		if user.FirstName == "" || user.LastName == "" {
			return nil, apperror.BadRequest("Prénom et nom sont obligatoires")
		}
	}

	if err := u.repos.Users.UpdateProfile(ctx, user); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, req *domain.ChangePasswordRequest) error {
	if err := validateStruct(u.validate, req); err != nil {
		return err
	}
	user, err := u.GetCurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return apperror.BadRequest("Mot de passe actuel incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.repos.Users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperror.Internal(err)
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventPasswordChanged,
		SubjectType:  "user_id",
		SubjectValue: user.ID,
	})
	return nil
}

// ForgotPassword never reveals whether the address has an account: unknown
// addresses and delivery failures both end in a nil error.
func (u *authUsecase) ForgotPassword(ctx context.Context, req *domain.ForgotPasswordRequest, meta domain.ClientMeta) error {
	req.Email = normalizeEmail(req.Email)
	if err := validateStruct(u.validate, req); err != nil {
		return err
	}

	user, err := u.repos.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		return apperror.Internal(err)
	}
	if user == nil {
		logger.Log.Debug("Password reset requested for unknown email")
		return nil
	}

	token, err := auth.NewOpaqueToken()
	if err != nil {
		logger.Log.Error("Failed to generate reset token", "error", err)
		return nil
	}
	reset := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     auth.HashToken(token),
		ExpiresAt: u.now().Add(u.cfg.PasswordResetTTL),
	}
	if err := u.repos.Resets.Create(ctx, reset); err != nil {
		logger.Log.Error("Failed to store reset token", "error", err)
		return nil
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventPasswordResetRequested,
		SubjectType:  "email",
		SubjectValue: user.Email,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})

	if !u.mailer.IsConfigured() {
		logger.Log.Warn("Email service not configured, reset link not sent")
		return nil
	}
	err = u.mailer.SendPasswordReset(email.PasswordResetEmailData{
		To:        user.Email,
		Name:      user.DisplayName(),
		ResetLink: u.cfg.FrontendURL + "/reinitialiser-mot-de-passe?token=" + token,
		ExpiresIn: humanDuration(u.cfg.PasswordResetTTL),
	})
	if err != nil {
		logger.Log.Error("Failed to send reset email", "error", err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *domain.ResetPasswordRequest, meta domain.ClientMeta) error {
	if err := validateStruct(u.validate, req); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}

	// The token is claimed before the password changes; a concurrent
	// request with the same link gets nil here.
	reset, err := u.repos.Resets.Consume(ctx, auth.HashToken(req.Token), u.now())
	if err != nil {
		return apperror.Internal(err)
	}
	if reset == nil {
		return apperror.BadRequest("Lien de réinitialisation invalide ou expiré")
	}

	if err := u.repos.Users.UpdatePassword(ctx, reset.UserID, string(hash)); err != nil {
		return apperror.Internal(err)
	}
	// Every open session was established with the old password.
	if err := u.repos.Sessions.DeleteByUserID(ctx, reset.UserID); err != nil {
		logger.Log.Error("Failed to revoke sessions after reset", "error", err)
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventPasswordResetCompleted,
		SubjectType:  "user_id",
		SubjectValue: reset.UserID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})
	return nil
}

// humanDuration renders a TTL in French for emails ("1 heure", "30 minutes").
func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		h := int(d / time.Hour)
		if h == 1 {
			return "1 heure"
		}
		return strconv.Itoa(h) + " heures"
	default:
		m := int(d / time.Minute)
		if m <= 1 {
			return "1 minute"
		}
		return strconv.Itoa(m) + " minutes"
	}
}
