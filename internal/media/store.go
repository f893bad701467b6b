// Package media caches the images of one product at a time and tracks
// uploads that are still in flight.
package media

import (
	"context"

	"github.com/rs/zerolog"

	"marketplace/client/internal/ids"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/models"
	"marketplace/client/internal/reactive"
)

type MediaAPI interface {
	ListMedia(ctx context.Context, productID string) ([]models.Media, error)
	UploadMedia(ctx context.Context, file models.File, productID string) (models.Media, error)
	DeleteMedia(ctx context.Context, id string) error
}

type Store struct {
	client    MediaAPI
	validator *validator.Validator
	log       zerolog.Logger

	view      *reactive.Signal[view]
	media     *reactive.Computed[[]models.Media]
	productID *reactive.Computed[string]
	pending   *reactive.Signal[map[string]string]
	uploading *reactive.Computed[bool]
}

// view is the product in context together with its media. Both change in
// one write so readers never pair one product with another's media.
type view struct {
	productID string
	media     []models.Media
}

func emptyView() view {
	return view{media: []models.Media{}}
}

func New(client MediaAPI, v *validator.Validator, log zerolog.Logger) *Store {
	if v == nil {
		v = validator.Default()
	}
	s := &Store{
		client:    client,
		validator: v,
		log:       log,
		view:      reactive.NewSignal(emptyView()),
		pending:   reactive.NewSignal(map[string]string{}),
	}
	s.media = reactive.NewComputed(func() []models.Media { return s.view.Get().media }, s.view)
	s.productID = reactive.NewComputed(func() string { return s.view.Get().productID }, s.view)
	s.uploading = reactive.NewComputed(func() bool { return len(s.pending.Get()) > 0 }, s.pending)
	return s
}

func (s *Store) Media() reactive.Readable[[]models.Media] { return s.media }

// ProductID is the product whose media is cached, or "" when none is.
func (s *Store) ProductID() reactive.Readable[string] { return s.productID }

// Uploading is true while at least one upload is pending.
func (s *Store) Uploading() reactive.Readable[bool] { return s.uploading }

func (s *Store) LoadForProduct(ctx context.Context, productID string) ([]models.Media, error) {
	list, err := s.client.ListMedia(ctx, productID)
	if err != nil {
		return nil, err
	}
	list = dedupe(list)
	s.view.Set(view{productID: productID, media: list})
	return list, nil
}

func (s *Store) Validate(file models.File) error {
	return s.validator.Validate(file)
}

func (s *Store) IsValid(file models.File) bool {
	return s.validator.IsValid(file)
}

// Upload validates the file before any network I/O. A successful result is
// appended when it belongs to the product in context. With no product in
// context the upload's product becomes the context.
func (s *Store) Upload(ctx context.Context, file models.File, productID string) (models.Media, error) {
	if err := s.validator.Validate(file); err != nil {
		return models.Media{}, err
	}

	ticket := ids.New()
	s.pending.Update(func(cur map[string]string) map[string]string {
		next := make(map[string]string, len(cur)+1)
		for k, v := range cur {
			next[k] = v
		}
		next[ticket] = file.Name
		return next
	})
	defer s.pending.Update(func(cur map[string]string) map[string]string {
		next := make(map[string]string, len(cur))
		for k, v := range cur {
			if k != ticket {
				next[k] = v
			}
		}
		return next
	})

	s.log.Debug().Str("ticket", ticket).Str("product_id", productID).Str("file", file.Name).Msg("upload started")
	created, err := s.client.UploadMedia(ctx, file, productID)
	if err != nil {
		s.log.Warn().Err(err).Str("ticket", ticket).Msg("upload failed")
		return models.Media{}, err
	}

	s.view.Update(func(cur view) view {
		if cur.productID != "" && cur.productID != productID {
			return cur
		}
		next := make([]models.Media, 0, len(cur.media)+1)
		for _, m := range cur.media {
			if m.ID != created.ID {
				next = append(next, m)
			}
		}
		return view{productID: productID, media: append(next, created)}
	})
	s.log.Info().Str("media_id", created.ID).Str("product_id", productID).Msg("media uploaded")
	return created, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteMedia(ctx, id); err != nil {
		return err
	}
	s.view.Update(func(cur view) view {
		next := make([]models.Media, 0, len(cur.media))
		for _, m := range cur.media {
			if m.ID != id {
				next = append(next, m)
			}
		}
		return view{productID: cur.productID, media: next}
	})
	return nil
}

// Reset drops the cached set and the product context. Pending uploads keep
// running and still clear their own tickets; a result that lands afterwards
// starts a new context for its product.
func (s *Store) Reset() {
	s.view.Set(emptyView())
}

func dedupe(list []models.Media) []models.Media {
	out := make([]models.Media, 0, len(list))
	seen := make(map[string]int, len(list))
	for _, m := range list {
		if i, ok := seen[m.ID]; ok {
			out[i] = m
			continue
		}
		seen[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}
