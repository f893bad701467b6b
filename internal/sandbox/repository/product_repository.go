package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"marketplace/client/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]models.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{byID: make(map[string]models.Product)}
}

func (r *ProductRepository) List(_ context.Context) []models.Product {
	return r.filter(func(models.Product) bool { return true })
}

func (r *ProductRepository) ListByUser(_ context.Context, userID string) []models.Product {
	return r.filter(func(p models.Product) bool { return p.UserID == userID })
}

// SearchByName matches a case-insensitive substring of the name.
func (r *ProductRepository) SearchByName(_ context.Context, fragment string) []models.Product {
	needle := strings.ToLower(fragment)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	})
}

func (r *ProductRepository) Get(_ context.Context, id string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) Create(_ context.Context, p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

func (r *ProductRepository) Update(_ context.Context, p models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return ErrProductNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.order))
	for _, id := range r.order {
		if p := r.byID[id]; keep(p) {
			out = append(out, p)
		}
	}
	return out
}
