package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/repository"
)

type ProductService struct {
	products *repository.ProductRepository
	media    *repository.MediaRepository
	log      zerolog.Logger
}

func NewProductService(products *repository.ProductRepository, media *repository.MediaRepository, log zerolog.Logger) *ProductService {
	return &ProductService{products: products, media: media, log: log}
}

func (s *ProductService) List(ctx context.Context) []models.Product {
	return s.products.List(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (models.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *ProductService) ListByUser(ctx context.Context, userID string) []models.Product {
	return s.products.ListByUser(ctx, userID)
}

func (s *ProductService) Search(ctx context.Context, name string) []models.Product {
	return s.products.SearchByName(ctx, name)
}

func (s *ProductService) Create(ctx context.Context, actor Actor, req models.ProductRequest) (models.Product, error) {
	if !actor.IsSeller() {
		return models.Product{}, &ForbiddenError{Message: "Only sellers can create products"}
	}
	if err := validateProduct(req); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		UserID:      actor.UserID,
	}
	s.products.Create(ctx, p)
	s.log.Info().Str("product_id", p.ID).Str("user_id", actor.UserID).Msg("product created")
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, actor Actor, id string, req models.ProductRequest) (models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if p.UserID != actor.UserID {
		return models.Product{}, &ForbiddenError{Message: "You can only update your own products"}
	}
	if err := validateProduct(req); err != nil {
		return models.Product{}, err
	}

	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.Quantity = req.Quantity
	if err := s.products.Update(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Delete removes the product together with its media.
func (s *ProductService) Delete(ctx context.Context, actor Actor, id string) error {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != actor.UserID {
		return &ForbiddenError{Message: "You can only delete your own products"}
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	removed := s.media.DeleteByProduct(ctx, id)
	s.log.Info().Str("product_id", id).Int("media_removed", removed).Msg("product deleted")
	return nil
}

func validateProduct(req models.ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return &InputError{Message: "Product name is required"}
	case req.Price.IsNegative():
		return &InputError{Message: "Price must be non-negative"}
	case req.Quantity < 0:
		return &InputError{Message: "Quantity must be non-negative"}
	}
	return nil
}
