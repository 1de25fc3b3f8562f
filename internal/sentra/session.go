package sentra

import (
	"context"
	"net/http"
)

// Session holds the authenticated vendor cloud session.
type Session struct {
	// Token authenticates subsequent API calls.
	Token string
	// UserID is the vendor account identifier.
	UserID int64
	// SiteID is the operable site, resolved from the first master site.
	SiteID int64
}

// Authenticated reports whether the session carries a usable token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Login authenticates against the vendor cloud and stores the session
// token and user identifier. Calling it again replaces the session, which
// is how re-login during recovery works. The operable site is resolved
// separately by FetchSyncInfo.
func (c *Client) Login(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	req, err := c.newRequest(callCtx, http.MethodGet, "/auth/login", nil)
	if err != nil {
		return &AuthError{Cause: err}
	}

	// Credentials and device identity travel as query parameters,
	// mirroring the vendor's mobile client.
	q := req.URL.Query()
	q.Set("email", c.username)
	q.Set("password", c.password)
	q.Set("appId", appPackageID)
	q.Set("deviceOS", deviceOS)
	q.Set("deviceId", deviceID)
	req.URL.RawQuery = q.Encode()

	var resp loginResponse
	if err := c.doRequest(req, &resp); err != nil {
		c.clearSession()

		return &AuthError{Cause: err}
	}

	if err := resp.validate(); err != nil {
		c.clearSession()

		return &AuthError{Cause: err}
	}

	c.setSession(Session{
		Token:  resp.Token,
		UserID: resp.User.ID,
	})

	return nil
}
