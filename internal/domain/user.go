package domain

import (
	"context"
	"strings"
	"time"
)

const (
	UserTypeCandidate = "candidate"
	UserTypeCompany   = "company"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	CompanyName  string    `json:"company_name,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Position     string    `json:"position,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the name shown on the profile header.
func (u *User) DisplayName() string {
	if u.UserType == UserTypeCompany {
		if u.CompanyName != "" {
			return u.CompanyName
		}
		return "Entreprise"
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is a server-side login. Token is the opaque value embedded in the
// client's signed session token.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// ClientMeta describes the caller of a security-sensitive operation.
type ClientMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	UserType    string `json:"user_type" validate:"required,oneof=candidate company"`
	FirstName   string `json:"first_name" validate:"omitempty,max=100,valid_name"`
	LastName    string `json:"last_name" validate:"omitempty,max=100,valid_name"`
	CompanyName string `json:"company_name" validate:"required_if=UserType company,omitempty,max=150,no_emoji"`
	Phone       string `json:"phone" validate:"omitempty,valid_phone"`
	Position    string `json:"position" validate:"omitempty,max=150,no_emoji"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName   string `json:"first_name" validate:"omitempty,max=100,valid_name"`
	LastName    string `json:"last_name" validate:"omitempty,max=100,valid_name"`
	CompanyName string `json:"company_name" validate:"omitempty,max=150,no_emoji"`
	Phone       string `json:"phone" validate:"omitempty,valid_phone"`
	Position    string `json:"position" validate:"omitempty,max=150,no_emoji"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *User     `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginAttemptRepository stores failed login attempts per identifier (email or IP).
type LoginAttemptRepository interface {
	Record(ctx context.Context, identifier string, at time.Time) error
	CountSince(ctx context.Context, identifier string, since time.Time) (int, error)
	Clear(ctx context.Context, identifier string) error
}

type PasswordResetRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	// Consume marks an unused, unexpired token as used and returns it.
	// It returns nil when no such token exists, so only one caller can
	// ever claim a given token.
	Consume(ctx context.Context, token string, now time.Time) (*PasswordResetToken, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, req *RegisterRequest, meta ClientMeta) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest, meta ClientMeta) (*AuthResult, error)
	Logout(ctx context.Context, sessionToken string) error
	Authenticate(ctx context.Context, signedToken string) (*User, *Session, error)
	GetCurrentUser(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*User, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	ForgotPassword(ctx context.Context, req *ForgotPasswordRequest, meta ClientMeta) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest, meta ClientMeta) error
}
