package repository

import (
	"context"
	"errors"
	"sync"

	"marketplace/client/internal/models"
)

var ErrMediaNotFound = errors.New("media not found")

// MediaRecord is a stored upload with its bytes and uploader.
type MediaRecord struct {
	models.Media
	UserID string
	Data   []byte
}

type MediaRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]MediaRecord
}

func NewMediaRepository() *MediaRepository {
	return &MediaRepository{byID: make(map[string]MediaRecord)}
}

func (r *MediaRepository) Create(_ context.Context, m MediaRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	r.byID[m.ID] = m
}

func (r *MediaRepository) Get(_ context.Context, id string) (MediaRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return MediaRecord{}, ErrMediaNotFound
	}
	return m, nil
}

func (r *MediaRepository) ListByProduct(_ context.Context, productID string) []models.Media {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Media, 0)
	for _, id := range r.order {
		if m := r.byID[id]; m.ProductID == productID {
			out = append(out, m.Media)
		}
	}
	return out
}

func (r *MediaRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrMediaNotFound
	}
	r.remove(id)
	return nil
}

// DeleteByProduct removes every media record of the product and returns how
// many were removed.
func (r *MediaRepository) DeleteByProduct(_ context.Context, productID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doomed []string
	for _, id := range r.order {
		if r.byID[id].ProductID == productID {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		r.remove(id)
	}
	return len(doomed)
}

func (r *MediaRepository) remove(id string) {
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
