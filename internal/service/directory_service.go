package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"servicedirectory/internal/cache"
	apperrors "servicedirectory/internal/errors"
	"servicedirectory/internal/events"
	"servicedirectory/internal/model"
	"servicedirectory/internal/repository"
	"servicedirectory/internal/storage"
)

const (
	defaultServiceCacheTTL = 5 * time.Minute

	listCacheKey = "services:all"

	// Every cache key has a generation counter at <key>:gen. Inserts bump the
	// counter and readers store results under <key>:v<gen>, so a read that
	// raced an insert can only fill a generation nobody asks for again.
	generationSuffix = ":gen"

	// ImagePathPrefix is the public route uploaded images are served from.
	ImagePathPrefix = "/api/images/"
)

// DirectoryService handles listing, searching and adding service records.
type DirectoryService interface {
	ListServices(ctx context.Context) ([]model.ServiceRecord, error)
	SearchServices(ctx context.Context, pincode, category string) ([]model.ServiceRecord, error)
	AddService(ctx context.Context, record *model.ServiceRecord) (*model.ServiceRecord, error)
}

type directoryService struct {
	repo      repository.ServiceRepository
	cache     *cache.Client
	storage   storage.Storage
	publisher events.Publisher
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewDirectoryService creates a new directory service. cache may be nil.
func NewDirectoryService(
	repo repository.ServiceRepository,
	cache *cache.Client,
	store storage.Storage,
	publisher events.Publisher,
	logger *zap.Logger,
	cacheTTL time.Duration,
) DirectoryService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultServiceCacheTTL
	}
	return &directoryService{
		repo:      repo,
		cache:     cache,
		storage:   store,
		publisher: publisher,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

func searchCacheKey(pincode string, category model.Category) string {
	return fmt.Sprintf("services:search:%s:%s", category, pincode)
}

// readThrough serves key from the cache or loads and caches it under the
// key's current generation.
func (s *directoryService) readThrough(
	ctx context.Context,
	key string,
	load func() ([]model.ServiceRecord, error),
) ([]model.ServiceRecord, error) {
	gen, ok := s.cache.Generation(ctx, key+generationSuffix)
	versioned := fmt.Sprintf("%s:v%d", key, gen)
	if ok {
		var cached []model.ServiceRecord
		if s.cache.GetJSON(ctx, versioned, &cached) {
			return cached, nil
		}
	}

	records, err := load()
	if err != nil {
		return nil, err
	}
	if ok {
		s.cache.SetJSON(ctx, versioned, records, s.cacheTTL)
	}
	return records, nil
}

// ListServices returns every record.
func (s *directoryService) ListServices(ctx context.Context) ([]model.ServiceRecord, error) {
	return s.readThrough(ctx, listCacheKey, func() ([]model.ServiceRecord, error) {
		records, err := s.repo.List(ctx)
		if err != nil {
			s.logger.Error("list services", zap.Error(err))
			return nil, fmt.Errorf("list services: %w", err)
		}
		return records, nil
	})
}

// SearchServices returns records whose pincode equals pincode and whose
// category equals category, compared case-insensitively. No match is an
// empty slice, not an error.
func (s *directoryService) SearchServices(ctx context.Context, pincode, category string) ([]model.ServiceRecord, error) {
	pincode = strings.TrimSpace(pincode)
	cat, ok := model.ParseCategory(category)

	var fields []string
	if pincode == "" {
		fields = append(fields, "pincode")
	}
	if !ok {
		fields = append(fields, "selectedService")
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields...)
	}

	return s.readThrough(ctx, searchCacheKey(pincode, cat), func() ([]model.ServiceRecord, error) {
		records, err := s.repo.FindByFilter(ctx, pincode, cat)
		if err != nil {
			s.logger.Error("search services", zap.String("pincode", pincode), zap.String("category", cat.String()), zap.Error(err))
			return nil, fmt.Errorf("search services: %w", err)
		}
		return records, nil
	})
}

// AddService validates and stores a record. Image payloads sent as data URLs
// are uploaded to object storage and replaced by their public path.
func (s *directoryService) AddService(ctx context.Context, record *model.ServiceRecord) (*model.ServiceRecord, error) {
	record.ID = ""
	record.Normalize()
	if err := record.Validate(); err != nil {
		return nil, err
	}

	images, uploaded, err := s.storeImages(ctx, record.Images)
	if err != nil {
		return nil, err
	}
	record.Images = images

	if err := s.repo.Create(ctx, record); err != nil {
		s.discardImages(uploaded)
		s.logger.Error("add service", zap.String("service_name", record.ServiceName), zap.Error(err))
		return nil, fmt.Errorf("add service: %w", err)
	}

	genKeys := []string{
		listCacheKey + generationSuffix,
		searchCacheKey(record.Pincode, record.ServiceType) + generationSuffix,
	}
	if err := s.cache.Bump(ctx, genKeys...); err != nil {
		s.logger.Warn("invalidate service cache", zap.String("id", record.ID), zap.Error(err))
	}

	event := events.ServiceCreatedEvent{
		ID:          record.ID,
		ServiceName: record.ServiceName,
		Pincode:     record.Pincode,
		ServiceType: record.ServiceType.String(),
		CreatedAt:   record.CreatedAt,
	}
	if err := s.publisher.PublishJSON(ctx, events.ServiceCreated, event); err != nil {
		s.logger.Warn("publish service.created", zap.String("id", record.ID), zap.Error(err))
	}

	return record, nil
}

// storeImages uploads data URL payloads and keeps http(s) links as given.
// It returns the references to persist and the storage paths it created.
func (s *directoryService) storeImages(ctx context.Context, images []string) ([]string, []string, error) {
	if len(images) == 0 {
		return nil, nil, nil
	}

	refs := make([]string, 0, len(images))
	var uploaded []string
	for i, img := range images {
		img = strings.TrimSpace(img)
		switch {
		case storage.IsDataURL(img):
			decoded, err := storage.DecodeDataURL(img)
			if err != nil {
				s.discardImages(uploaded)
				return nil, nil, apperrors.NewValidationError(fmt.Sprintf("images[%d]", i))
			}
			if s.storage == nil {
				s.discardImages(uploaded)
				return nil, nil, fmt.Errorf("store image: no storage configured")
			}
			path, err := s.storage.Upload(ctx, uuid.New(), "image"+decoded.Extension(), bytes.NewReader(decoded.Data))
			if err != nil {
				s.discardImages(uploaded)
				s.logger.Error("upload image", zap.Error(err))
				return nil, nil, fmt.Errorf("store image: %w", err)
			}
			uploaded = append(uploaded, path)
			refs = append(refs, ImagePathPrefix+path)
		case strings.HasPrefix(img, "http://"), strings.HasPrefix(img, "https://"):
			refs = append(refs, img)
		default:
			s.discardImages(uploaded)
			return nil, nil, apperrors.NewValidationError(fmt.Sprintf("images[%d]", i))
		}
	}
	return refs, uploaded, nil
}

// discardImages removes uploads that ended up unreferenced. It runs on a
// fresh context so a cancelled request still cleans up.
func (s *directoryService) discardImages(paths []string) {
	if s.storage == nil || len(paths) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.Warn("discard image", zap.String("path", p), zap.Error(err))
		}
	}
}
