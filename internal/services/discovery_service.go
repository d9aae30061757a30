package services

import (
	"context"
	"math"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/repository"
)

// DiscoveryService is the read path: it shapes store rows into the four
// projections, going through the view cache where the view allows it
type DiscoveryService struct {
	repo  repository.DiscoveryRepo
	cache ProjectionCache
}

// NewDiscoveryService creates a new DiscoveryService
func NewDiscoveryService(repo repository.DiscoveryRepo, cache ProjectionCache) *DiscoveryService {
	return &DiscoveryService{repo: repo, cache: cache}
}

// GetFull returns the full projection: every species with its complete
// photo list and the first-seen timestamp
func (s *DiscoveryService) GetFull(ctx context.Context, userID string) (models.FullProjection, error) {
	if cached, ok := s.cache.Get(models.ViewFull, userID); ok {
		if projection, ok := cached.(models.FullProjection); ok {
			observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewFull, true)
			return projection, nil
		}
	}
	observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewFull, false)

	rows, err := s.repo.GetRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	projection := models.FullProjection{}
	for _, row := range rows {
		bird, exists := projection[row.BirdNumber]
		if !exists {
			bird = models.BirdFull{
				DiscoveredAt: row.DiscoveredAt.UTC().Format("2006-01-02 15:04:05"),
				Photos:       []models.PhotoView{},
			}
		}
		if row.Photo != nil {
			bird.Photos = append(bird.Photos, photoView(row.Photo))
		}
		projection[row.BirdNumber] = bird
	}

	s.cache.Set(models.ViewFull, userID, projection, FullCacheTTL)
	return projection, nil
}

// GetLight returns the legacy projection: photos without discovery timestamps
func (s *DiscoveryService) GetLight(ctx context.Context, userID string) (models.LightProjection, error) {
	if cached, ok := s.cache.Get(models.ViewLight, userID); ok {
		if projection, ok := cached.(models.LightProjection); ok {
			observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewLight, true)
			return projection, nil
		}
	}
	observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewLight, false)

	rows, err := s.repo.GetRows(ctx, userID)
	if err != nil {
		return nil, err
	}

	projection := models.LightProjection{}
	for _, row := range rows {
		bird, exists := projection[row.BirdNumber]
		if !exists {
			bird = models.BirdLight{Photos: []models.PhotoView{}}
		}
		if row.Photo != nil {
			bird.Photos = append(bird.Photos, photoView(row.Photo))
		}
		projection[row.BirdNumber] = bird
	}

	s.cache.Set(models.ViewLight, userID, projection, LightCacheTTL)
	return projection, nil
}

// GetMetadata returns the photo-free summary projection
func (s *DiscoveryService) GetMetadata(ctx context.Context, userID string) (*models.MetadataProjection, error) {
	if cached, ok := s.cache.Get(models.ViewMetadata, userID); ok {
		if projection, ok := cached.(*models.MetadataProjection); ok {
			observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewMetadata, true)
			return projection, nil
		}
	}
	observability.GetBusinessMetrics().RecordCacheLookup(ctx, models.ViewMetadata, false)

	discoveries, photos, totalSize, err := s.repo.GetUserTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	meta, err := s.repo.GetPhotoMeta(ctx, userID)
	if err != nil {
		return nil, err
	}

	projection := &models.MetadataProjection{
		DiscoveredCount: discoveries,
		TotalPhotos:     photos,
		TotalSizeMB:     RoundMB(totalSize),
		Birds:           map[string]models.BirdMetadata{},
	}

	for _, row := range meta {
		bird, exists := projection.Birds[row.BirdNumber]
		if !exists {
			bird = models.BirdMetadata{Dates: []string{}}
		}
		if row.HasPhoto {
			bird.PhotoCount++
			bird.Dates = append(bird.Dates, row.Date)
			if row.HasGPS {
				bird.HasGPS = true
			}
		}
		projection.Birds[row.BirdNumber] = bird
	}

	s.cache.Set(models.ViewMetadata, userID, projection, MetadataCacheTTL)
	return projection, nil
}

// GetGallery returns one page of thumbnails, newest first. Never cached:
// the projection is offset-sensitive.
func (s *DiscoveryService) GetGallery(ctx context.Context, userID string, page, perPage int) (*models.GalleryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 12
	}

	total, err := s.repo.CountPhotos(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetGalleryPage(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	return &models.GalleryPage{
		Photos:     items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// GetPhoto returns the primary rendition of one owner-scoped photo
func (s *DiscoveryService) GetPhoto(ctx context.Context, userID, birdNumber string, photoID int64) (string, error) {
	return s.repo.GetPhotoData(ctx, userID, birdNumber, photoID)
}

// photoView converts a stored photo row into its projection shape,
// deserializing the coordinate text back into structured form
func photoView(p *models.Photo) models.PhotoView {
	return models.PhotoView{
		ID:          p.ID,
		Photo:       p.Data,
		Thumbnail:   p.Thumbnail,
		Location:    p.Location,
		City:        p.City,
		Region:      p.Region,
		Country:     p.Country,
		Coordinates: models.ParseCoordinates(p.Coordinates),
		Date:        p.Date,
		Sex:         p.Sex,
		Note:        p.Note,
	}
}

// RoundMB converts bytes to megabytes rounded to 2 decimals
func RoundMB(bytes int64) float64 {
	return math.Round(float64(bytes)/(1024*1024)*100) / 100
}
