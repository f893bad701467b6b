package api

import (
	"context"
	"net/http"

	"marketplace/client/internal/models"
)

// AvatarResponse is returned by POST /users/{id}/avatar.
type AvatarResponse struct {
	Message string `json:"message"`
	Avatar  string `json:"avatar"`
}

func (c *Client) Login(ctx context.Context, credentials models.LoginRequest) (models.AuthResponse, error) {
	return c.authenticate(ctx, "auth.login", "auth/login", credentials)
}

func (c *Client) Register(ctx context.Context, data models.RegisterRequest) (models.AuthResponse, error) {
	return c.authenticate(ctx, "auth.register", "auth/register", data)
}

func (c *Client) authenticate(ctx context.Context, op, path string, payload any) (models.AuthResponse, error) {
	req, err := c.jsonRequest(op, http.MethodPost, path, payload)
	if err != nil {
		return models.AuthResponse{}, err
	}
	req.anonymous = true

	var resp models.AuthResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return models.AuthResponse{}, err
	}
	return resp, nil
}

func (c *Client) UploadAvatar(ctx context.Context, userID string, file models.File) (AvatarResponse, error) {
	req, err := multipartRequest("users.avatar", "users/"+escape(userID)+"/avatar", file, nil)
	if err != nil {
		return AvatarResponse{}, err
	}

	var resp AvatarResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return AvatarResponse{}, err
	}
	return resp, nil
}
