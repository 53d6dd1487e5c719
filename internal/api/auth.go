package api

import (
	"context"

	"github.com/saathghoomo/go-saath/internal/types"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	IdToken string `json:"idToken"`
}

// AuthResponse is the session payload of login, register and Google
// exchange. User may be present alongside the token; the session store
// falls back to it when the follow-up profile read fails.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *types.User `json:"user,omitempty"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	req := RegisterRequest{Name: name, Email: email, Password: password}
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/google", GoogleLoginRequest{IdToken: idToken}, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

func (c *Client) Profile(ctx context.Context) (*types.User, error) {
	var resp struct {
		User *types.User `json:"user"`
	}
	if err := c.get(ctx, "/auth/profile", &resp); err != nil {
		return nil, err
	}

	return resp.User, nil
}
