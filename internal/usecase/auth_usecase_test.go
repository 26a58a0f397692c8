package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/usecase"
	"skillijob-backend/pkg/auth"
	"skillijob-backend/pkg/email"
	"skillijob-backend/pkg/security"
	"skillijob-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users    *MockUserRepo
	attempts *MockAttemptRepo
	resets   *MockResetRepo
	mailer   *MockMailer
	sessions *memSessions
	uc       domain.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    new(MockUserRepo),
		attempts: new(MockAttemptRepo),
		resets:   new(MockResetRepo),
		mailer:   new(MockMailer),
		sessions: newMemSessions(),
	}
	f.uc = usecase.NewAuthUsecase(
		usecase.AuthRepositories{Users: f.users, Sessions: f.sessions, Attempts: f.attempts, Resets: f.resets},
		auth.NewTokenManager("test-secret"),
		f.mailer,
		security.NewSecurityLogger(zap.NewNop(), "test"),
		validation.New(),
		usecase.AuthConfig{
			SessionTTL:         time.Hour,
			PasswordResetTTL:   time.Hour,
			LoginMaxAttempts:   5,
			LoginAttemptWindow: 15 * time.Minute,
			FrontendURL:        "https://skillijob.fr",
		},
	)
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

var meta = domain.ClientMeta{IP: "10.0.0.1", UserAgent: "test", RequestID: "req-1"}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and opens a session", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "alice@example.fr").Return(nil, nil)
		f.users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
			u := args.Get(1).(*domain.User)
			assert.NotEqual(t, "secret1", u.PasswordHash)
			assert.Equal(t, "+33612345678", u.Phone)
			u.ID = "user-1"
		})

		res, err := f.uc.Register(ctx, &domain.RegisterRequest{
			Email:     "  Alice@Example.fr ",
			Password:  "secret1",
			UserType:  "candidate",
			FirstName: "Alice",
			LastName:  "Martin",
			Phone:     "06 12 34 56 78",
		}, meta)
		require.NoError(t, err)
		assert.Equal(t, "user-1", res.User.ID)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, 1, f.sessions.count())

		f.users.On("GetByID", ctx, "user-1").Return(res.User, nil)
		user, session, err := f.uc.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "user-1", session.UserID)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "alice@example.fr").Return(&domain.User{ID: "user-1"}, nil)

		_, err := f.uc.Register(ctx, &domain.RegisterRequest{
			Email: "alice@example.fr", Password: "secret1", UserType: "candidate", FirstName: "Alice", LastName: "Martin",
		}, meta)
		requireAppError(t, err, http.StatusConflict)
		f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validates the form", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.uc.Register(ctx, &domain.RegisterRequest{
			Email: "not-an-email", Password: "123", UserType: "admin",
		}, meta)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		details, ok := appErr.Details.([]string)
		require.True(t, ok)
		assert.Contains(t, details, "Mot de passe : 6 caractères minimum")
	})

	t.Run("company accounts need a company name", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.uc.Register(ctx, &domain.RegisterRequest{
			Email: "rh@acme.fr", Password: "secret1", UserType: "company",
		}, meta)
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("candidate accounts need both names", func(t *testing.T) {
		f := newAuthFixture()
		_, err := f.uc.Register(ctx, &domain.RegisterRequest{
			Email: "bob@example.fr", Password: "secret1", UserType: "candidate", FirstName: "Bob",
		}, meta)
		requireAppError(t, err, http.StatusBadRequest)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "user-1", Email: "alice@example.fr", UserType: "candidate"}

	t.Run("wrong password records a failed attempt", func(t *testing.T) {
		f := newAuthFixture()
		u := *user
		u.PasswordHash = hashed(t, "secret1")
		f.attempts.On("CountSince", ctx, "alice@example.fr", mock.AnythingOfType("time.Time")).Return(0, nil)
		f.users.On("GetByEmail", ctx, "alice@example.fr").Return(&u, nil)
		f.attempts.On("Record", ctx, "alice@example.fr", mock.AnythingOfType("time.Time")).Return(nil)

		_, err := f.uc.Login(ctx, &domain.LoginRequest{Email: "alice@example.fr", Password: "wrong!"}, meta)
		requireAppError(t, err, http.StatusUnauthorized)
		f.attempts.AssertCalled(t, "Record", ctx, "alice@example.fr", mock.AnythingOfType("time.Time"))
		assert.Equal(t, 0, f.sessions.count())
	})

	t.Run("unknown email looks like a wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.attempts.On("CountSince", ctx, "ghost@example.fr", mock.AnythingOfType("time.Time")).Return(0, nil)
		f.users.On("GetByEmail", ctx, "ghost@example.fr").Return(nil, nil)
		f.attempts.On("Record", ctx, "ghost@example.fr", mock.AnythingOfType("time.Time")).Return(nil)

		_, err := f.uc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.fr", Password: "whatever"}, meta)
		appErr := requireAppError(t, err, http.StatusUnauthorized)
		assert.Equal(t, "Email ou mot de passe incorrect", appErr.Message)
	})

	t.Run("blocks after too many failures", func(t *testing.T) {
		f := newAuthFixture()
		f.attempts.On("CountSince", ctx, "alice@example.fr", mock.AnythingOfType("time.Time")).Return(5, nil)

		_, err := f.uc.Login(ctx, &domain.LoginRequest{Email: "alice@example.fr", Password: "secret1"}, meta)
		requireAppError(t, err, http.StatusTooManyRequests)
		f.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("success clears attempts and logout revokes the session", func(t *testing.T) {
		f := newAuthFixture()
		u := *user
		u.PasswordHash = hashed(t, "secret1")
		f.attempts.On("CountSince", ctx, "alice@example.fr", mock.AnythingOfType("time.Time")).Return(2, nil)
		f.users.On("GetByEmail", ctx, "alice@example.fr").Return(&u, nil)
		f.users.On("GetByID", ctx, "user-1").Return(&u, nil)
		f.attempts.On("Clear", ctx, "alice@example.fr").Return(nil)

		res, err := f.uc.Login(ctx, &domain.LoginRequest{Email: "Alice@example.fr", Password: "secret1"}, meta)
		require.NoError(t, err)
		f.attempts.AssertCalled(t, "Clear", ctx, "alice@example.fr")

		_, session, err := f.uc.Authenticate(ctx, res.Token)
		require.NoError(t, err)

		require.NoError(t, f.uc.Logout(ctx, session.Token))
		_, _, err = f.uc.Authenticate(ctx, res.Token)
		requireAppError(t, err, http.StatusUnauthorized)
	})
}

func TestAuthenticate_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	u := &domain.User{ID: "user-1", Email: "alice@example.fr", UserType: "candidate", PasswordHash: hashed(t, "secret1")}
	f.attempts.On("CountSince", ctx, "alice@example.fr", mock.AnythingOfType("time.Time")).Return(0, nil)
	f.users.On("GetByEmail", ctx, "alice@example.fr").Return(u, nil)
	f.attempts.On("Clear", ctx, "alice@example.fr").Return(nil)

	res, err := f.uc.Login(ctx, &domain.LoginRequest{Email: "alice@example.fr", Password: "secret1"}, meta)
	require.NoError(t, err)

	_, _, err = f.uc.Authenticate(ctx, "not-a-token")
	requireAppError(t, err, http.StatusUnauthorized)

	f.sessions.expireAll()
	_, _, err = f.uc.Authenticate(ctx, res.Token)
	appErr := requireAppError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Session expirée", appErr.Message)
	assert.Equal(t, 0, f.sessions.count())
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	u := &domain.User{ID: "user-1", Email: "alice@example.fr", UserType: "candidate"}

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture()
		cp := *u
		cp.PasswordHash = hashed(t, "secret1")
		f.users.On("GetByID", ctx, "user-1").Return(&cp, nil)

		err := f.uc.ChangePassword(ctx, "user-1", &domain.ChangePasswordRequest{
			CurrentPassword: "nope", NewPassword: "secret2", ConfirmPassword: "secret2",
		})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Mot de passe actuel incorrect", appErr.Message)
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		f := newAuthFixture()
		err := f.uc.ChangePassword(ctx, "user-1", &domain.ChangePasswordRequest{
			CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret3",
		})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Contains(t, appErr.Details, "Les mots de passe ne correspondent pas")
	})

	t.Run("stores a new hash", func(t *testing.T) {
		f := newAuthFixture()
		cp := *u
		cp.PasswordHash = hashed(t, "secret1")
		f.users.On("GetByID", ctx, "user-1").Return(&cp, nil)
		f.users.On("UpdatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil).Run(func(args mock.Arguments) {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(args.String(2)), []byte("secret2")))
		})

		err := f.uc.ChangePassword(ctx, "user-1", &domain.ChangePasswordRequest{
			CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2",
		})
		require.NoError(t, err)
		f.users.AssertExpectations(t)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.users.On("GetByID", ctx, "co-1").Return(&domain.User{ID: "co-1", UserType: "company", CompanyName: "Acme"}, nil)

	_, err := f.uc.UpdateProfile(ctx, "co-1", &domain.UpdateProfileRequest{CompanyName: "  "})
	requireAppError(t, err, http.StatusBadRequest)

	f.users.On("UpdateProfile", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
	user, err := f.uc.UpdateProfile(ctx, "co-1", &domain.UpdateProfileRequest{CompanyName: "Acme SAS", Phone: "09 70 19 67 02"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", user.CompanyName)
	assert.Equal(t, "+33970196702", user.Phone)
}

func TestForgotAndResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email is silent", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "ghost@example.fr").Return(nil, nil)

		err := f.uc.ForgotPassword(ctx, &domain.ForgotPasswordRequest{Email: "ghost@example.fr"}, meta)
		require.NoError(t, err)
		f.resets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "SendPasswordReset", mock.Anything)
	})

	t.Run("emails a link whose token is stored hashed", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("GetByEmail", ctx, "alice@example.fr").Return(&domain.User{ID: "user-1", Email: "alice@example.fr", FirstName: "Alice", LastName: "Martin"}, nil)

		var stored string
		f.resets.On("Create", ctx, mock.AnythingOfType("*domain.PasswordResetToken")).Return(nil).Run(func(args mock.Arguments) {
			stored = args.Get(1).(*domain.PasswordResetToken).Token
		})
		f.mailer.On("IsConfigured").Return(true)

		var sent email.PasswordResetEmailData
		f.mailer.On("SendPasswordReset", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
			sent = args.Get(0).(email.PasswordResetEmailData)
		})

		err := f.uc.ForgotPassword(ctx, &domain.ForgotPasswordRequest{Email: "alice@example.fr"}, meta)
		require.NoError(t, err)

		assert.Equal(t, "alice@example.fr", sent.To)
		assert.Equal(t, "Alice Martin", sent.Name)
		assert.Equal(t, "1 heure", sent.ExpiresIn)
		prefix := "https://skillijob.fr/reinitialiser-mot-de-passe?token="
		require.True(t, strings.HasPrefix(sent.ResetLink, prefix))
		assert.Equal(t, auth.HashToken(strings.TrimPrefix(sent.ResetLink, prefix)), stored)
	})

	t.Run("reset rejects an unknown or spent token", func(t *testing.T) {
		f := newAuthFixture()
		f.resets.On("Consume", ctx, auth.HashToken("tok"), mock.AnythingOfType("time.Time")).Return(nil, nil)

		err := f.uc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: "tok", NewPassword: "secret2", ConfirmPassword: "secret2"}, meta)
		requireAppError(t, err, http.StatusBadRequest)
		f.users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reset updates the password and revokes sessions", func(t *testing.T) {
		f := newAuthFixture()
		require.NoError(t, f.sessions.Create(ctx, &domain.Session{UserID: "user-1", Token: "open", ExpiresAt: time.Now().Add(time.Hour)}))

		f.resets.On("Consume", ctx, auth.HashToken("tok"), mock.AnythingOfType("time.Time")).Return(&domain.PasswordResetToken{
			ID: "r1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour), Used: true,
		}, nil)
		f.users.On("UpdatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil)

		err := f.uc.ResetPassword(ctx, &domain.ResetPasswordRequest{Token: "tok", NewPassword: "secret2", ConfirmPassword: "secret2"}, meta)
		require.NoError(t, err)
		f.users.AssertCalled(t, "UpdatePassword", ctx, "user-1", mock.AnythingOfType("string"))
		assert.Equal(t, 0, f.sessions.count())
	})

	t.Run("a reset link works only once", func(t *testing.T) {
		f := newAuthFixture()
		f.resets.On("Consume", ctx, auth.HashToken("tok"), mock.AnythingOfType("time.Time")).Return(&domain.PasswordResetToken{
			ID: "r1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour), Used: true,
		}, nil).Once()
		f.resets.On("Consume", ctx, auth.HashToken("tok"), mock.AnythingOfType("time.Time")).Return(nil, nil)
		f.users.On("UpdatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil)

		req := &domain.ResetPasswordRequest{Token: "tok", NewPassword: "secret2", ConfirmPassword: "secret2"}
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = f.uc.ResetPassword(ctx, req, meta)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			requireAppError(t, err, http.StatusBadRequest)
		}
		assert.Equal(t, 1, succeeded)
		f.users.AssertNumberOfCalls(t, "UpdatePassword", 1)
	})
}
