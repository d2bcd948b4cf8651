// Package identity talks to the platform's GoTrue auth API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dimitrije/gabay-admin-api/internal/models"
	"github.com/dimitrije/gabay-admin-api/internal/platform"
)

var ErrNoIdentity = errors.New("platform returned no identity")

type CreateUserParams struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Client holds two views of the platform: anon for calls made on behalf of
// a caller, service for admin calls.
type Client struct {
	anon    *platform.Client
	service *platform.Client
}

func NewClient(anon, service *platform.Client) *Client {
	return &Client{anon: anon, service: service}
}

// GetUser exchanges a caller's access token for the identity it belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	var user models.Identity
	err := c.anon.WithBearer(accessToken).Do(ctx, platform.Request{
		Method: http.MethodGet,
		Path:   "/auth/v1/user",
	}, &user)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrNoIdentity
	}
	return &user, nil
}

func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (*models.Identity, error) {
	var user models.Identity
	err := c.service.Do(ctx, platform.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/admin/users",
		Body:   params,
	}, &user)
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, ErrNoIdentity
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.service.Do(ctx, platform.Request{
		Method: http.MethodDelete,
		Path:   "/auth/v1/admin/users/" + url.PathEscape(userID),
	}, nil)
}

// ResetPasswordForEmail asks the platform to send a recovery email.
func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	var query url.Values
	if redirectTo != "" {
		query = url.Values{"redirect_to": {redirectTo}}
	}
	err := c.service.Do(ctx, platform.Request{
		Method: http.MethodPost,
		Path:   "/auth/v1/recover",
		Query:  query,
		Body:   map[string]string{"email": email},
	}, nil)
	if err != nil {
		return fmt.Errorf("recover: %w", err)
	}
	return nil
}
