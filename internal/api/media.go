package api

import (
	"context"
	"net/http"

	"marketplace/client/internal/models"
)

func (c *Client) ListMedia(ctx context.Context, productID string) ([]models.Media, error) {
	var media []models.Media
	req := &request{op: "media.by_product", method: http.MethodGet, path: "media/product/" + escape(productID)}
	if err := c.do(ctx, req, &media); err != nil {
		return nil, err
	}
	if media == nil {
		media = []models.Media{}
	}
	return media, nil
}

func (c *Client) UploadMedia(ctx context.Context, file models.File, productID string) (models.Media, error) {
	req, err := multipartRequest("media.upload", "media/upload", file, map[string]string{"productId": productID})
	if err != nil {
		return models.Media{}, err
	}
	var media models.Media
	if err := c.do(ctx, req, &media); err != nil {
		return models.Media{}, err
	}
	return media, nil
}

func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.do(ctx, &request{op: "media.delete", method: http.MethodDelete, path: "media/" + escape(id)}, nil)
}
