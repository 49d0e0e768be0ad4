package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roomly/internal/auth"
	"roomly/internal/errors"
	"roomly/internal/google"
	"roomly/internal/model"
)

// MockSessionStore is a mock implementation of auth.SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) StoreSession(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, sessionID string) (uuid.UUID, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) StoreOAuthState(ctx context.Context, state string) error {
	args := m.Called(ctx, state)
	return args.Error(0)
}

func (m *MockSessionStore) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	args := m.Called(ctx, state)
	return args.Bool(0), args.Error(1)
}

func newTestAuthService(users *MockUserRepository, sessions *MockSessionStore) AuthService {
	oauth := google.NewOAuth("client-id", "client-secret", "http://localhost:8080/api/auth/google/callback", "example.com")
	jwtService := auth.NewJWTService("test-secret")
	return NewAuthService(users, oauth, jwtService, sessions)
}

func TestAuthService_LoginURL(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	mockSessions.On("StoreOAuthState", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	svc := newTestAuthService(mockUsers, mockSessions)
	url, err := svc.LoginURL(context.Background())

	assert.NoError(t, err)
	assert.Contains(t, url, "accounts.google.com")
	assert.Contains(t, url, "client-id")
	assert.Contains(t, url, "state=")
	mockSessions.AssertExpectations(t)
}

func TestAuthService_LoginURL_StateStoreFailure(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	mockSessions.On("StoreOAuthState", mock.Anything, mock.AnythingOfType("string")).Return(stderrors.New("redis down"))

	svc := newTestAuthService(mockUsers, mockSessions)
	url, err := svc.LoginURL(context.Background())

	assert.Error(t, err)
	assert.Empty(t, url)
}

func TestAuthService_HandleCallback_RejectsUnknownState(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	mockSessions.On("ConsumeOAuthState", mock.Anything, "forged-state").Return(false, nil)

	svc := newTestAuthService(mockUsers, mockSessions)
	token, user, err := svc.HandleCallback(context.Background(), "forged-state", "some-code")

	assert.ErrorIs(t, err, errors.ErrInvalidOAuthState)
	assert.Empty(t, token)
	assert.Nil(t, user)
	mockUsers.AssertNotCalled(t, "FindByGoogleID", mock.Anything, mock.Anything)
}

func TestAuthService_HandleCallback_StateIsSingleUse(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	// The second consume of the same nonce fails.
	mockSessions.On("ConsumeOAuthState", mock.Anything, "used-state").Return(false, nil)

	svc := newTestAuthService(mockUsers, mockSessions)
	_, _, err := svc.HandleCallback(context.Background(), "used-state", "some-code")

	assert.ErrorIs(t, err, errors.ErrInvalidOAuthState)
}

func TestAuthService_Logout(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionStore)
	mockSessions.On("DeleteSession", mock.Anything, "session-1").Return(nil)

	svc := newTestAuthService(mockUsers, mockSessions)
	err := svc.Logout(context.Background(), "session-1")

	assert.NoError(t, err)
	mockSessions.AssertExpectations(t)
}

func TestAuthService_ResolveSession(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockUserRepository, *MockSessionStore)
		expectedError error
	}{
		{
			name: "valid session",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				sessions.On("GetSession", mock.Anything, "session-1").Return(userID, nil)
				users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "dana@example.com"}, nil)
			},
		},
		{
			name: "session record gone",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				sessions.On("GetSession", mock.Anything, "session-1").Return(uuid.Nil, stderrors.New("session not found"))
			},
			expectedError: errors.ErrInvalidSession,
		},
		{
			name: "session points at another user",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				sessions.On("GetSession", mock.Anything, "session-1").Return(uuid.New(), nil)
			},
			expectedError: errors.ErrInvalidSession,
		},
		{
			name: "user deleted since login",
			setupMock: func(users *MockUserRepository, sessions *MockSessionStore) {
				sessions.On("GetSession", mock.Anything, "session-1").Return(userID, nil)
				users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrInvalidSession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUsers := new(MockUserRepository)
			mockSessions := new(MockSessionStore)
			tt.setupMock(mockUsers, mockSessions)

			svc := newTestAuthService(mockUsers, mockSessions)
			user, err := svc.ResolveSession(context.Background(), "session-1", userID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, userID, user.ID)
			}

			mockSessions.AssertExpectations(t)
		})
	}
}
