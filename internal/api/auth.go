package api

import (
	"context"
	"net/http"

	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/session"
)

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	resp, err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      map[string]string{"email": email, "password": password},
		Anonymous: true,
	})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, notFound(resp, "login endpoint")
	}

	auth, err := decodeData[models.AuthResponse](resp)
	if err != nil {
		return nil, err
	}
	if auth.AccessToken == "" {
		return nil, &Error{Kind: ErrServerFault, Status: resp.Status, Message: "login response has no access token"}
	}

	user := auth.User
	c.tokens.Save(session.Session{
		AccessToken:  auth.AccessToken,
		RefreshToken: auth.RefreshToken,
		User:         &user,
	})
	return &auth, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, name, password string) error {
	resp, err := c.Do(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/register",
		Body:      map[string]string{"email": email, "name": name, "password": password},
		Anonymous: true,
	})
	if err != nil {
		return err
	}
	if resp.NotFound {
		return notFound(resp, "register endpoint")
	}
	return nil
}

// Logout forgets the local session. The backend keeps no logout endpoint.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// Me fetches the profile of the logged-in user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/users/me"})
	if err != nil {
		return nil, err
	}
	if resp.NotFound {
		return nil, notFound(resp, "user")
	}
	user, err := decodeData[models.User](resp)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
