package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Session is a signed-in user's credentials. ExpiresAt is read from the
// access token's exp claim without verifying the signature; the service
// verifies tokens server-side, the client only needs to know when to
// prompt for a fresh sign-in.
type Session struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the token has passed its expiry at the given
// instant. A session with no readable expiry never reports expired; the
// service will reject it when the time comes.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

// tokenExpiry extracts the exp claim from an access token.
func tokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no expiry")
	}
	return exp.Time, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authResponse struct {
	User        rawUser `json:"user"`
	AccessToken string  `json:"accessToken"`
}

// SignUp registers a new account and returns the created user.
func (c *Client) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	var resp authResponse
	err := c.post(ctx, "/auth/sign-up", credentials{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	u := normalizeUser(resp.User)
	if u == nil {
		return nil, fmt.Errorf("sign-up returned no user record")
	}
	return u, nil
}

// SignIn authenticates and installs the session on the client. Every
// subsequent call carries its access token.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var resp authResponse
	err := c.post(ctx, "/auth/sign-in", credentials{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: sign-in returned no access token", ErrUnauthorized)
	}

	s := &Session{
		UserID:      domain.StrFromPtr(resp.User.ID),
		AccessToken: resp.AccessToken,
	}
	if exp, err := tokenExpiry(resp.AccessToken); err == nil {
		s.ExpiresAt = exp
	}
	c.setSession(s)
	return s, nil
}

// SignOut invalidates the session remotely and drops it locally. The
// local session is dropped even if the remote call fails.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/sign-out", nil, nil, nil)
	c.setSession(nil)
	return err
}

// CurrentUser fetches the signed-in user's record.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	if c.Session() == nil {
		return nil, ErrUnauthorized
	}
	var raw rawUser
	if err := c.get(ctx, "/auth/me", &raw); err != nil {
		return nil, err
	}
	u := normalizeUser(raw)
	if u == nil {
		return nil, fmt.Errorf("me endpoint returned no user record")
	}
	return u, nil
}
