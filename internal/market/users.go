package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/soyeahso/azent/internal/domain"
)

// Login authenticates and returns the session token. The backend may return
// the token in the JSON body or only as a "token" cookie.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var body struct {
		Token string `json:"token"`
	}
	resp, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "users", "login"), false, creds, &body)
	if err != nil {
		return "", err
	}
	if body.Token != "" {
		return body.Token, nil
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == "token" && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", errors.New("login succeeded but no session token was returned")
}

// Signup registers a new account and returns the server's message.
func (c *Client) Signup(ctx context.Context, s domain.Signup) (string, error) {
	var body struct {
		Message string `json:"message"`
	}
	if _, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "users", "signup"), false, s, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}

// ForgotPassword asks the backend to email a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "users", "forgot-password"), false,
		map[string]string{"email": email}, nil)
	return err
}

// ResetPassword sets a new password using the token from a reset email.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) error {
	_, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "users", "reset-password", resetToken), false,
		map[string]string{"password": password}, nil)
	return err
}

// GoogleAuthURL is where a browser starts the Google sign-in flow.
func (c *Client) GoogleAuthURL() string {
	return c.endpoint(nil, "users", "auth", "google")
}

// Like records a like for the agent. A repeat like returns ErrAlreadyLiked.
func (c *Client) Like(ctx context.Context, agentID string) error {
	_, err := c.sendJSON(ctx, http.MethodPut, c.endpoint(nil, "users", agentID, "like"), true, struct{}{}, nil)
	if err != nil {
		return fmt.Errorf("liking agent %s: %w", agentID, err)
	}
	return nil
}

// ToggleWishlist adds the agent to the wishlist or removes it if present.
func (c *Client) ToggleWishlist(ctx context.Context, agentID string) (domain.WishlistResult, error) {
	var body struct {
		Agent struct {
			SavedByCount int `json:"savedByCount"`
		} `json:"agent"`
	}
	resp, err := c.sendJSON(ctx, http.MethodPost, c.endpoint(nil, "users", "wishlist", agentID), true, struct{}{}, &body)
	if err != nil {
		return domain.WishlistResult{}, fmt.Errorf("updating wishlist for %s: %w", agentID, err)
	}
	return domain.WishlistResult{
		Added:        resp.StatusCode != http.StatusCreated,
		SavedByCount: body.Agent.SavedByCount,
	}, nil
}
