package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-shop-api/internal/blob"
	"go-shop-api/internal/model"
	"go-shop-api/pkg/apierror"
)

// ProductStore is the catalog document collection.
type ProductStore interface {
	Create(ctx context.Context, p model.Product) error
	FindByID(ctx context.Context, id string) (model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}

// CatalogService runs the product workflow: validate input, upload the image
// blob, then persist the document. The two writes are not transactional; a
// persist failure after a successful upload leaves an orphaned blob, which is
// logged but not compensated.
type CatalogService struct {
	products  ProductStore
	blobs     blob.Store
	thumbSize int
}

func NewCatalogService(products ProductStore, blobs blob.Store, thumbSize int) *CatalogService {
	if thumbSize <= 0 {
		thumbSize = 256
	}

	return &CatalogService{products: products, blobs: blobs, thumbSize: thumbSize}
}

func (s *CatalogService) Create(ctx context.Context, fields model.ProductFields, image *model.ImageUpload) (model.Product, error) {
	if image.Empty() {
		return model.Product{}, apierror.BadRequest("image file is required", "image")
	}

	imageURL, thumbnailURL, err := s.uploadImage(ctx, image)
	if err != nil {
		return model.Product{}, err
	}

	now := time.Now().UTC()
	product := model.Product{
		ID:           uuid.NewString(),
		Name:         fields.Name,
		Price:        fields.Price,
		Description:  fields.Description,
		Quantity:     fields.Quantity,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		// The blob is already written and nothing references it now.
		slog.Warn("catalog write failed after upload; blob orphaned", "image_url", imageURL, "error", err)
		return model.Product{}, apierror.Internal("PERSIST_FAILED", "failed to add product", "")
	}

	return product, nil
}

func (s *CatalogService) Update(ctx context.Context, productID string, fields model.ProductFields, image *model.ImageUpload) (model.Product, error) {
	existing, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return model.Product{}, err
	}

	imageURL := existing.ImageURL
	thumbnailURL := existing.ThumbnailURL

	if !image.Empty() {
		// The new URL is only known once the upload completed, so a failed
		// upload never commits a partial update. The previous blob stays.
		imageURL, thumbnailURL, err = s.uploadImage(ctx, image)
		if err != nil {
			return model.Product{}, err
		}
	}

	updated := model.Product{
		ID:           existing.ID,
		Name:         fields.Name,
		Price:        fields.Price,
		Description:  fields.Description,
		Quantity:     fields.Quantity,
		ImageURL:     imageURL,
		ThumbnailURL: thumbnailURL,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}

	if err := s.products.Update(ctx, updated); err != nil {
		if !image.Empty() {
			slog.Warn("catalog update failed after upload; blob orphaned", "image_url", imageURL, "error", err)
		}
		if errors.Is(err, model.ErrProductNotFound) {
			return model.Product{}, err
		}
		return model.Product{}, apierror.Internal("PERSIST_FAILED", "failed to update product", "")
	}

	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, productID string) error {
	// The image blob is intentionally left behind; only the document goes.
	return s.products.Delete(ctx, productID)
}

func (s *CatalogService) Get(ctx context.Context, productID string) (model.Product, error) {
	return s.products.FindByID(ctx, productID)
}

func (s *CatalogService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

// uploadImage writes the original blob under a fresh UUID key, then tries to
// derive a thumbnail next to it. The thumbnail is best effort: an image the
// decoder cannot handle still uploads fine, it just has no thumbnail.
func (s *CatalogService) uploadImage(ctx context.Context, image *model.ImageUpload) (imageURL string, thumbnailURL string, err error) {
	base := uuid.NewString()
	key := base + normalizeExtension(image.Filename)

	if err := s.blobs.Put(ctx, key, image.ContentType, bytes.NewReader(image.Data)); err != nil {
		slog.Error("blob upload failed", "key", key, "error", err)
		return "", "", apierror.Internal("UPLOAD_FAILED", "failed to upload image", "")
	}

	thumb, thumbErr := renderThumbnail(image.Data, s.thumbSize)
	if thumbErr != nil {
		slog.Warn("thumbnail generation skipped", "key", key, "error", thumbErr)
		return s.blobs.PublicURL(key), "", nil
	}

	thumbKey := base + "_thumb.jpg"
	if err := s.blobs.Put(ctx, thumbKey, "image/jpeg", bytes.NewReader(thumb)); err != nil {
		slog.Warn("thumbnail upload skipped", "key", thumbKey, "error", err)
		return s.blobs.PublicURL(key), "", nil
	}

	return s.blobs.PublicURL(key), s.blobs.PublicURL(thumbKey), nil
}

// normalizeExtension keeps the original file extension when it is a plain
// one, and falls back to .bin otherwise so keys stay flat names.
func normalizeExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if ext == "" || ext == "." || strings.ContainsAny(ext, `/\`) {
		return ".bin"
	}

	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".bin"
		}
	}

	return ext
}
