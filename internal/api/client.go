// Package api is the HTTP client for the remote user/points and content
// services.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-ports/agame/internal/models"
)

// Client talks to the game service. It enforces no timeout of its own;
// requests end when the server answers or ctx is cancelled.
type Client struct {
	APIBase     string
	ContentBase string

	creds  Credentials
	client *http.Client
}

// New returns a Client. Credentials are attached to the user endpoints only.
func New(apiBase, contentBase string, creds Credentials) *Client {
	return &Client{
		APIBase:     strings.TrimRight(apiBase, "/"),
		ContentBase: strings.TrimRight(contentBase, "/"),
		creds:       creds,
		client:      &http.Client{},
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

// FetchUser calls GET /user/me/ with the session credential.
func (c *Client) FetchUser(ctx context.Context) (models.User, error) {
	var u models.User
	err := doJSON(ctx, c.client, request{
		method: http.MethodGet,
		url:    c.APIBase + "/user/me/",
		creds:  c.creds,
	}, &u)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch user: %w", err)
	}
	return u, nil
}

// FetchContent calls GET /ui.json on the content base.
func (c *Client) FetchContent(ctx context.Context) (models.UIContent, error) {
	var content models.UIContent
	err := doJSON(ctx, c.client, request{
		method: http.MethodGet,
		url:    c.ContentBase + "/ui.json",
	}, &content)
	if err != nil {
		return models.UIContent{}, fmt.Errorf("fetch content: %w", err)
	}
	if err := content.Validate(); err != nil {
		return models.UIContent{}, fmt.Errorf("fetch content: %w", err)
	}
	return content, nil
}

// AddPoints calls POST /user/me/points/ with {"amount": amount} and returns
// the server's updated user record.
func (c *Client) AddPoints(ctx context.Context, amount int) (models.User, error) {
	var u models.User
	err := doJSON(ctx, c.client, request{
		method: http.MethodPost,
		url:    c.APIBase + "/user/me/points/",
		body:   map[string]int{"amount": amount},
		creds:  c.creds,
		csrf:   true,
	}, &u)
	if err != nil {
		return models.User{}, fmt.Errorf("add points: %w", err)
	}
	return u, nil
}
