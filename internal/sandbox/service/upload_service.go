package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"marketplace/client/internal/media/sniffer"
	"marketplace/client/internal/media/validator"
	"marketplace/client/internal/models"
	"marketplace/client/internal/sandbox/repository"
)

type UploadService struct {
	media     *repository.MediaRepository
	products  *repository.ProductRepository
	users     *repository.UserRepository
	validator *validator.Validator
	publicURL string
	now       func() time.Time
	log       zerolog.Logger
}

func NewUploadService(
	media *repository.MediaRepository,
	products *repository.ProductRepository,
	users *repository.UserRepository,
	v *validator.Validator,
	publicURL string,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		media:     media,
		products:  products,
		users:     users,
		validator: v,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		now:       time.Now,
		log:       log,
	}
}

func (s *UploadService) UploadMedia(ctx context.Context, actor Actor, productID string, file models.File) (models.Media, error) {
	if !actor.IsSeller() {
		return models.Media{}, &ForbiddenError{Message: "Only sellers can upload media"}
	}
	if strings.TrimSpace(productID) == "" {
		return models.Media{}, &InputError{Message: "productId is required"}
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return models.Media{}, err
	}
	if p.UserID != actor.UserID {
		return models.Media{}, &ForbiddenError{Message: "You can only add media to your own products"}
	}

	res := s.validator.Check(file)
	if !res.OK {
		return models.Media{}, &InputError{Message: res.Reason}
	}

	id := uuid.NewString()
	m := models.Media{
		ID:               id,
		ProductID:        productID,
		ContentType:      res.ContentType,
		FileSize:         int64(len(file.Content)),
		OriginalFilename: file.Name,
		UploadedAt:       models.Timestamp{Time: s.now().UTC()},
		URL:              s.publicURL + "/" + id,
	}
	s.media.Create(ctx, repository.MediaRecord{Media: m, UserID: actor.UserID, Data: file.Content})
	s.log.Info().Str("media_id", id).Str("product_id", productID).Int64("size", m.FileSize).Msg("media stored")
	return m, nil
}

func (s *UploadService) ListMedia(ctx context.Context, productID string) []models.Media {
	return s.media.ListByProduct(ctx, productID)
}

func (s *UploadService) GetMedia(ctx context.Context, id string) (repository.MediaRecord, error) {
	return s.media.Get(ctx, id)
}

func (s *UploadService) DeleteMedia(ctx context.Context, actor Actor, id string) error {
	m, err := s.media.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != actor.UserID {
		return &ForbiddenError{Message: "You can only delete your own media"}
	}
	return s.media.Delete(ctx, id)
}

// UploadAvatar stores a seller's own avatar and returns its generated name.
func (s *UploadService) UploadAvatar(ctx context.Context, actor Actor, userID string, file models.File) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if actor.UserID != user.ID {
		return "", &ForbiddenError{Message: "You can only upload your own avatar"}
	}
	if user.Role != models.UserRoleSeller {
		return "", &ForbiddenError{Message: "Only sellers can upload avatars"}
	}

	res := s.validator.Check(file)
	if !res.OK {
		return "", &InputError{Message: res.Reason}
	}

	name := uuid.NewString() + avatarExtension(file.Name, res.ContentType)
	if err := s.users.SetAvatar(ctx, user.ID, name, res.ContentType, file.Content); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return name, nil
}

func avatarExtension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" && sniffer.ExtensionAllowed(filename) {
		return ext
	}
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ".jpg"
}
