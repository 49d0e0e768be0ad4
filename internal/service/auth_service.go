package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomly/internal/auth"
	"roomly/internal/errors"
	"roomly/internal/google"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// AuthService handles the Google OAuth login flow and session lifecycle.
type AuthService interface {
	LoginURL(ctx context.Context) (string, error)
	HandleCallback(ctx context.Context, state, code string) (sessionToken string, user *model.User, err error)
	Logout(ctx context.Context, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	users      repository.UserRepository
	oauth      *google.OAuth
	jwtService *auth.JWTService
	sessions   auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	oauth *google.OAuth,
	jwtService *auth.JWTService,
	sessions auth.SessionStoreInterface,
) AuthService {
	return &authService{
		users:      users,
		oauth:      oauth,
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// LoginURL creates a state nonce and returns the Google consent URL.
func (s *authService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.New().String()
	if err := s.sessions.StoreOAuthState(ctx, state); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return s.oauth.AuthCodeURL(state), nil
}

// HandleCallback completes the login: it verifies the state nonce,
// exchanges the code, enforces the domain restriction, upserts the user
// with the fresh credential pair, and mints a session token backed by a
// server-side session record.
func (s *authService) HandleCallback(ctx context.Context, state, code string) (string, *model.User, error) {
	ok, err := s.sessions.ConsumeOAuthState(ctx, state)
	if err != nil || !ok {
		return "", nil, errors.ErrInvalidOAuthState
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("oauth exchange: %w", err)
	}

	profile, err := s.oauth.FetchProfile(ctx, token)
	if err != nil {
		return "", nil, fmt.Errorf("fetch profile: %w", err)
	}

	if !s.oauth.EmailAllowed(profile.Email) {
		return "", nil, errors.ErrEmailDomainNotAllowed
	}

	user, err := s.upsertUser(ctx, profile, token.AccessToken, token.RefreshToken, token.Expiry)
	if err != nil {
		return "", nil, err
	}

	sessionID := auth.NewSessionID()
	if err := s.sessions.StoreSession(ctx, sessionID, user.ID, auth.SessionExpiry); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	sessionToken, err := s.jwtService.GenerateSessionToken(user.ID, user.Email, string(user.Role), sessionID)
	if err != nil {
		return "", nil, fmt.Errorf("generate session token: %w", err)
	}

	return sessionToken, user, nil
}

// Logout invalidates the server-side session record; the signed token is
// useless without it.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

// ResolveSession checks the session record behind a validated token and
// loads the user. A token whose record is gone, or whose record points at
// a different user, is rejected.
func (s *authService) ResolveSession(ctx context.Context, sessionID string, userID uuid.UUID) (*model.User, error) {
	recordedID, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil || recordedID != userID {
		return nil, errors.ErrInvalidSession
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// upsertUser finds the user by Google identity (falling back to email for
// accounts created before OAuth linking) and stores the new credential
// pair. A login without a rotated refresh token keeps the stored one so
// the pair stays complete.
func (s *authService) upsertUser(ctx context.Context, profile *google.Profile, accessToken, refreshToken string, expiry time.Time) (*model.User, error) {
	user, err := s.users.FindByGoogleID(ctx, profile.ID)
	if err != nil && stderrors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.users.FindByEmail(ctx, profile.Email)
	}
	if err != nil {
		if !stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		user = &model.User{
			Name:      profile.Name,
			Email:     profile.Email,
			AvatarURL: profile.AvatarURL,
			Role:      model.RoleUser,
			GoogleID:  profile.ID,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	user.Name = profile.Name
	user.AvatarURL = profile.AvatarURL
	user.GoogleID = profile.ID
	user.AccessToken = accessToken
	if refreshToken != "" {
		user.RefreshToken = refreshToken
	}
	user.TokenExpiry = expiry

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
