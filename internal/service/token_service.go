package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"golang.org/x/oauth2"

	"roomly/internal/errors"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// tokenExpiryLeeway refreshes slightly before the recorded expiry so a
// token never dies mid-request.
const tokenExpiryLeeway = 30 * time.Second

// TokenRefresher exchanges a refresh token for a fresh token pair.
// Implemented by google.OAuth.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// TokenService hands out valid OAuth access tokens for a user, refreshing
// and persisting them when expired.
type TokenService interface {
	ValidAccessToken(ctx context.Context, user *model.User) (string, error)
}

type tokenService struct {
	users     repository.UserRepository
	refresher TokenRefresher
	now       func() time.Time
}

// NewTokenService creates a new token service.
func NewTokenService(users repository.UserRepository, refresher TokenRefresher) TokenService {
	return &tokenService{
		users:     users,
		refresher: refresher,
		now:       time.Now,
	}
}

// ValidAccessToken returns a usable access token for the user. Fails with
// ErrNoCredentials when the user holds no credential pair, and with
// ErrRefreshFailed when the refresh exchange fails; in the latter case the
// stored tokens are left untouched so the caller can prompt re-auth.
// On a successful refresh the new pair is persisted and mirrored onto the
// passed user so later calls in the same request see it.
func (s *tokenService) ValidAccessToken(ctx context.Context, user *model.User) (string, error) {
	if !user.HasCredentials() {
		return "", errors.ErrNoCredentials
	}

	if user.TokenExpiry.After(s.now().Add(tokenExpiryLeeway)) {
		return user.AccessToken, nil
	}

	fresh, err := s.refresher.Refresh(ctx, user.RefreshToken)
	if err != nil {
		log.Warnf("token refresh failed for user %s: %v", user.ID, err)
		return "", errors.ErrRefreshFailed
	}

	refreshToken := user.RefreshToken
	if fresh.RefreshToken != "" {
		// Google rotated the refresh token; keep the new one.
		refreshToken = fresh.RefreshToken
	}

	if err := s.users.UpdateTokens(ctx, user.ID, fresh.AccessToken, refreshToken, fresh.Expiry); err != nil {
		// The refreshed token is still valid for this request even if
		// persisting it failed.
		log.Errorf("failed to persist refreshed tokens for user %s: %v", user.ID, err)
	}

	user.AccessToken = fresh.AccessToken
	user.RefreshToken = refreshToken
	user.TokenExpiry = fresh.Expiry

	return fresh.AccessToken, nil
}
