package usecase_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"skillijob-backend/internal/domain"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/email"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requireAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T", err)
	require.Equal(t, code, appErr.Code, appErr.Message)
	return appErr
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return m.Called(ctx, userID, passwordHash).Error(0)
}

type MockAttemptRepo struct {
	mock.Mock
}

func (m *MockAttemptRepo) Record(ctx context.Context, identifier string, at time.Time) error {
	return m.Called(ctx, identifier, at).Error(0)
}

func (m *MockAttemptRepo) CountSince(ctx context.Context, identifier string, since time.Time) (int, error) {
	args := m.Called(ctx, identifier, since)
	return args.Int(0), args.Error(1)
}

func (m *MockAttemptRepo) Clear(ctx context.Context, identifier string) error {
	return m.Called(ctx, identifier).Error(0)
}

type MockResetRepo struct {
	mock.Mock
}

func (m *MockResetRepo) Create(ctx context.Context, token *domain.PasswordResetToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockResetRepo) Consume(ctx context.Context, token string, now time.Time) (*domain.PasswordResetToken, error) {
	args := m.Called(ctx, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordResetToken), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) IsConfigured() bool {
	return m.Called().Bool(0)
}

func (m *MockMailer) SendContactEmail(data email.ContactEmailData) error {
	return m.Called(data).Error(0)
}

func (m *MockMailer) SendCVNotification(data email.CVEmailData) error {
	return m.Called(data).Error(0)
}

func (m *MockMailer) SendPasswordReset(data email.PasswordResetEmailData) error {
	return m.Called(data).Error(0)
}

// memSessions is an in-memory SessionRepository.
type memSessions struct {
	mu   sync.Mutex
	byID map[string]*domain.Session
	seq  int
}

func newMemSessions() *memSessions {
	return &memSessions{byID: map[string]*domain.Session{}}
}

func (s *memSessions) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	session.ID = "sess-" + strconv.Itoa(s.seq)
	session.CreatedAt = time.Now()
	cp := *session
	s.byID[session.Token] = &cp
	return nil
}

func (s *memSessions) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byID[token]; ok {
		cp := *sess
		return &cp, nil
	}
	return nil, nil
}

func (s *memSessions) DeleteByToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, token)
	return nil
}

func (s *memSessions) DeleteByUserID(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, sess := range s.byID {
		if sess.UserID == userID {
			delete(s.byID, token)
		}
	}
	return nil
}

func (s *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for token, sess := range s.byID {
		if sess.Expired(now) {
			delete(s.byID, token)
			n++
		}
	}
	return n, nil
}

func (s *memSessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *memSessions) expireAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.byID {
		sess.ExpiresAt = time.Now().Add(-time.Minute)
	}
}
