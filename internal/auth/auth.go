// Package auth attaches marketplace session tokens to outgoing requests and
// reads the claims they carry.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// Transport returns a round tripper that sends token as a bearer
// credential on every request through base. A nil base uses
// http.DefaultTransport.
func Transport(token string, base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
}

// Claims is the subset of session token claims the client displays.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IsAdmin reports whether the token carries the admin role.
func (c Claims) IsAdmin() bool { return c.Role == "admin" }

// Expired reports whether the token has an expiry that is before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

var ErrMalformedToken = errors.New("malformed session token")

// Inspect decodes the claims of a session token without verifying its
// signature. The server remains the authority; this only feeds status
// output and early expiry warnings.
func Inspect(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	var c Claims
	c.Subject, _ = mc.GetSubject()
	if c.Subject == "" {
		c.Subject = stringClaim(mc, "id", "_id", "userId")
	}
	c.Email = stringClaim(mc, "email")
	c.Role = stringClaim(mc, "role")
	if c.Role == "" {
		if admin, ok := mc["isAdmin"].(bool); ok && admin {
			c.Role = "admin"
		}
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

func stringClaim(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if s, ok := mc[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
