package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"sareemart/internal/caching"
	"sareemart/internal/common"
	"sareemart/internal/models"
	"sareemart/internal/repositories"

	"github.com/google/uuid"
)

const (
	sareeCacheTTL  = 5 * time.Minute
	imageURLExpiry = 15 * time.Minute
	maxSareePrice  = 1000000.0
	maxSareeStock  = 100000
)

type SareeService interface {
	Create(ctx context.Context, saree *models.Saree) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Saree, error)
	Update(ctx context.Context, saree *models.Saree) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Saree, error)
	Search(ctx context.Context, filter *models.SareeSearchFilter) ([]*models.Saree, error)
	UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error)
	ImageURL(ctx context.Context, id uuid.UUID) (string, error)
}

type sareeService struct {
	sareeRepo    repositories.SareeRepository
	minioSvc     MinioService
	cacheService caching.CacheService
	imageBucket  string
}

func NewSareeService(sareeRepo repositories.SareeRepository, minioSvc MinioService, cacheService caching.CacheService, imageBucket string) SareeService {
	return &sareeService{
		sareeRepo:    sareeRepo,
		minioSvc:     minioSvc,
		cacheService: cacheService,
		imageBucket:  imageBucket,
	}
}

func validateSaree(saree *models.Saree) error {
	if err := common.ValidateRequiredString(saree.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateRequiredString(saree.Category, "category"); err != nil {
		return err
	}
	if err := common.ValidatePositiveFloat(saree.Price, "price", maxSareePrice); err != nil {
		return err
	}
	// Stock never goes negative, at creation or through any order operation.
	if saree.Stock < 0 || saree.Stock > maxSareeStock {
		return common.NewValidationError("stock", fmt.Sprintf("stock must be between 0 and %d", maxSareeStock))
	}
	return nil
}

func (s *sareeService) Create(ctx context.Context, saree *models.Saree) error {
	if err := validateSaree(saree); err != nil {
		return err
	}
	if saree.ID == uuid.Nil {
		saree.ID = uuid.New()
	}
	return s.sareeRepo.Create(ctx, saree)
}

func (s *sareeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Saree, error) {
	if cached, err := s.cacheService.GetSaree(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	saree, err := s.sareeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetSaree(ctx, saree, sareeCacheTTL); cacheErr != nil {
		log.Printf("Failed to cache saree %s: %v", id, cacheErr)
	}
	return saree, nil
}

func (s *sareeService) Update(ctx context.Context, saree *models.Saree) error {
	if err := validateSaree(saree); err != nil {
		return err
	}

	existing, err := s.sareeRepo.GetByID(ctx, saree.ID)
	if err != nil {
		return err
	}
	saree.CreatedAt = existing.CreatedAt
	if saree.Image == nil {
		saree.Image = existing.Image
	}

	if err := s.sareeRepo.Update(ctx, saree); err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteSaree(ctx, saree.ID); cacheErr != nil {
		log.Printf("Failed to invalidate cache for saree %s: %v", saree.ID, cacheErr)
	}
	return nil
}

func (s *sareeService) Delete(ctx context.Context, id uuid.UUID) error {
	saree, err := s.sareeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sareeRepo.Delete(ctx, id); err != nil {
		return err
	}

	// Stored image goes with the record; losing the object is not fatal.
	if saree.Image != nil && *saree.Image != "" {
		if delErr := s.minioSvc.DeleteImage(ctx, s.imageBucket, *saree.Image); delErr != nil {
			log.Printf("Failed to delete image %s for saree %s: %v", *saree.Image, id, delErr)
		}
	}

	if cacheErr := s.cacheService.DeleteSaree(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for saree %s: %v", id, cacheErr)
	}
	return nil
}

func (s *sareeService) List(ctx context.Context, limit, offset int) ([]*models.Saree, error) {
	return s.sareeRepo.List(ctx, limit, offset)
}

func (s *sareeService) Search(ctx context.Context, filter *models.SareeSearchFilter) ([]*models.Saree, error) {
	if filter == nil {
		filter = &models.SareeSearchFilter{}
	}
	if filter.Query != "" {
		filter.Query = common.SanitizeSearchQuery(filter.Query)
	}
	return s.sareeRepo.AdvancedSearch(ctx, filter)
}

// UploadImage stores the image object and records its key on the saree.
func (s *sareeService) UploadImage(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.sareeRepo.GetByID(ctx, id); err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("sarees/%s", id.String())
	if err := s.minioSvc.UploadImage(ctx, s.imageBucket, objectName, reader, size, contentType); err != nil {
		return "", fmt.Errorf("upload saree image: %w", err)
	}

	if err := s.sareeRepo.UpdateImage(ctx, id, &objectName); err != nil {
		return "", err
	}

	if cacheErr := s.cacheService.DeleteSaree(ctx, id); cacheErr != nil {
		log.Printf("Failed to invalidate cache for saree %s: %v", id, cacheErr)
	}
	return objectName, nil
}

// ImageURL returns a short-lived presigned URL for the saree's stored image.
func (s *sareeService) ImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	saree, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if saree.Image == nil || *saree.Image == "" {
		return "", common.NewNotFoundError("saree image")
	}
	return s.minioSvc.GetPresignedURL(ctx, s.imageBucket, *saree.Image, imageURLExpiry)
}
