package gateway

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by New when no bearer credential is configured.
var ErrNoToken = errors.New("no API token configured")

// bearerClient returns an HTTP client that attaches the static bearer token
// to every request. base is used as the underlying transport client.
func bearerClient(ctx context.Context, token string, base *http.Client) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	c := oauth2.NewClient(ctx, ts)
	c.Timeout = base.Timeout
	return c
}
