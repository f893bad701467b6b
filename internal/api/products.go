package api

import (
	"context"
	"net/http"
	"net/url"

	"marketplace/client/internal/models"
)

func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	return c.productList(ctx, &request{op: "products.list", method: http.MethodGet, path: "products"})
}

func (c *Client) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	err := c.do(ctx, &request{op: "products.get", method: http.MethodGet, path: "products/" + escape(id)}, &product)
	return product, err
}

func (c *Client) ListProductsByUser(ctx context.Context, userID string) ([]models.Product, error) {
	return c.productList(ctx, &request{op: "products.by_user", method: http.MethodGet, path: "products/user/" + escape(userID)})
}

func (c *Client) SearchProducts(ctx context.Context, name string) ([]models.Product, error) {
	return c.productList(ctx, &request{
		op:     "products.search",
		method: http.MethodGet,
		path:   "products/search",
		query:  url.Values{"name": []string{name}},
	})
}

func (c *Client) CreateProduct(ctx context.Context, payload models.ProductRequest) (models.Product, error) {
	return c.productWrite(ctx, "products.create", http.MethodPost, "products", payload)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, payload models.ProductRequest) (models.Product, error) {
	return c.productWrite(ctx, "products.update", http.MethodPut, "products/"+escape(id), payload)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, &request{op: "products.delete", method: http.MethodDelete, path: "products/" + escape(id)}, nil)
}

func (c *Client) productList(ctx context.Context, req *request) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, req, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (c *Client) productWrite(ctx context.Context, op, method, path string, payload models.ProductRequest) (models.Product, error) {
	req, err := c.jsonRequest(op, method, path, payload)
	if err != nil {
		return models.Product{}, err
	}
	var product models.Product
	if err := c.do(ctx, req, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}
