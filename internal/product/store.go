// Package product caches the marketplace catalogue and applies
// server-confirmed writes to it.
package product

import (
	"context"

	"github.com/rs/zerolog"

	"marketplace/client/internal/models"
	"marketplace/client/internal/reactive"
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	ListProductsByUser(ctx context.Context, userID string) ([]models.Product, error)
	SearchProducts(ctx context.Context, name string) ([]models.Product, error)
	CreateProduct(ctx context.Context, payload models.ProductRequest) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, payload models.ProductRequest) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Store holds the cached collection. Slices handed out through Products are
// shared and must not be modified.
type Store struct {
	client   ProductAPI
	log      zerolog.Logger
	products *reactive.Signal[[]models.Product]
	inflight *reactive.Signal[int]
	loading  *reactive.Computed[bool]
}

func New(client ProductAPI, log zerolog.Logger) *Store {
	s := &Store{
		client:   client,
		log:      log,
		products: reactive.NewSignal([]models.Product{}),
		inflight: reactive.NewSignal(0),
	}
	s.loading = reactive.NewComputed(func() bool { return s.inflight.Get() > 0 }, s.inflight)
	return s
}

func (s *Store) Products() reactive.Readable[[]models.Product] { return s.products.ReadOnly() }

// Loading is true while at least one LoadAll is in flight.
func (s *Store) Loading() reactive.Readable[bool] { return s.loading }

// LoadAll replaces the cache with the server's collection.
func (s *Store) LoadAll(ctx context.Context) ([]models.Product, error) {
	s.inflight.Update(func(n int) int { return n + 1 })
	defer s.inflight.Update(func(n int) int { return n - 1 })

	list, err := s.client.ListProducts(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("load products failed")
		return nil, err
	}
	list = dedupe(list)
	s.products.Set(list)
	s.log.Debug().Int("count", len(list)).Msg("products loaded")
	return list, nil
}

// GetOne always asks the server and leaves the cache alone.
func (s *Store) GetOne(ctx context.Context, id string) (models.Product, error) {
	return s.client.GetProduct(ctx, id)
}

func (s *Store) GetByOwner(ctx context.Context, ownerID string) ([]models.Product, error) {
	return s.client.ListProductsByUser(ctx, ownerID)
}

func (s *Store) Search(ctx context.Context, name string) ([]models.Product, error) {
	return s.client.SearchProducts(ctx, name)
}

func (s *Store) Create(ctx context.Context, req models.ProductRequest) (models.Product, error) {
	created, err := s.client.CreateProduct(ctx, req)
	if err != nil {
		return models.Product{}, err
	}
	s.products.Update(func(cur []models.Product) []models.Product {
		if i := indexOf(cur, created.ID); i >= 0 {
			return replaceAt(cur, i, created)
		}
		next := make([]models.Product, 0, len(cur)+1)
		next = append(next, cur...)
		return append(next, created)
	})
	s.log.Info().Str("product_id", created.ID).Msg("product created")
	return created, nil
}

// Update replaces the cached entry in place. A product that is not cached
// stays uncached.
func (s *Store) Update(ctx context.Context, id string, req models.ProductRequest) (models.Product, error) {
	updated, err := s.client.UpdateProduct(ctx, id, req)
	if err != nil {
		return models.Product{}, err
	}
	s.products.Update(func(cur []models.Product) []models.Product {
		if i := indexOf(cur, id); i >= 0 {
			return replaceAt(cur, i, updated)
		}
		return cur
	})
	s.log.Info().Str("product_id", id).Msg("product updated")
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.products.Update(func(cur []models.Product) []models.Product {
		i := indexOf(cur, id)
		if i < 0 {
			return cur
		}
		next := make([]models.Product, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		return append(next, cur[i+1:]...)
	})
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

func indexOf(list []models.Product, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func replaceAt(list []models.Product, i int, p models.Product) []models.Product {
	next := make([]models.Product, len(list))
	copy(next, list)
	next[i] = p
	return next
}

// dedupe keeps the last occurrence of each id at the position of the first.
func dedupe(list []models.Product) []models.Product {
	out := make([]models.Product, 0, len(list))
	seen := make(map[string]int, len(list))
	for _, p := range list {
		if i, ok := seen[p.ID]; ok {
			out[i] = p
			continue
		}
		seen[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
