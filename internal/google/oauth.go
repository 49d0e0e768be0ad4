package google

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Profile is the basic identity returned by Google after login.
type Profile struct {
	ID        string
	Email     string
	Name      string
	AvatarURL string
}

// OAuth wraps the Google OAuth2 flow: building the consent URL, exchanging
// the authorization code, refreshing access tokens, and fetching the basic
// profile. The calendar.events scope is requested up front so the same
// credential pair serves both login and calendar sync.
type OAuth struct {
	conf          *oauth2.Config
	allowedDomain string
}

// NewOAuth builds the OAuth client. allowedDomain restricts sign-in to
// addresses under that domain; empty means any domain is accepted.
func NewOAuth(clientID, clientSecret, redirectURL, allowedDomain string) *OAuth {
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
				calendar.CalendarEventsScope,
			},
		},
		allowedDomain: strings.ToLower(strings.TrimSpace(allowedDomain)),
	}
}

// AuthCodeURL returns the Google consent page URL for the given state
// nonce. Offline access with forced consent guarantees a refresh token on
// every login, so the stored credential pair is always complete.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange swaps an authorization code for a token pair.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := o.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// Refresh exchanges a refresh token for a fresh access token. The returned
// token carries a rotated refresh token only if Google issued one.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	src := o.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	return token, nil
}

// FetchProfile fetches the authenticated user's basic profile.
func (o *OAuth) FetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(o.conf.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create userinfo service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	return &Profile{
		ID:        info.Id,
		Email:     info.Email,
		Name:      info.Name,
		AvatarURL: info.Picture,
	}, nil
}

// EmailAllowed reports whether the email passes the domain restriction.
func (o *OAuth) EmailAllowed(email string) bool {
	if o.allowedDomain == "" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(email), "@"+o.allowedDomain)
}
