package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// CloudPlatformScope is the OAuth scope for the prediction endpoint.
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

type Client struct {
	httpClient *http.Client
}

// NewClient returns an unauthenticated client. A zero timeout leaves the
// transport defaults in place.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewServiceAccountClient returns a client that attaches OAuth2 bearer tokens
// minted from a service account key file.
func NewServiceAccountClient(ctx context.Context, credentialsFile string, timeout time.Duration) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials %s: %w", credentialsFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", credentialsFile, err)
	}
	return NewTokenClient(ctx, creds.TokenSource, timeout), nil
}

// NewTokenClient wraps an arbitrary token source.
func NewTokenClient(ctx context.Context, ts oauth2.TokenSource, timeout time.Duration) *Client {
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = timeout
	return &Client{httpClient: hc}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

