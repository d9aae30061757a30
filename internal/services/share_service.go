package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

// ShareService manages public share tokens and the token-addressed,
// unauthenticated read of a user's collection
type ShareService struct {
	userRepo      repository.UserRepo
	discoveryRepo repository.DiscoveryRepo
}

// NewShareService creates a new ShareService
func NewShareService(userRepo repository.UserRepo, discoveryRepo repository.DiscoveryRepo) *ShareService {
	return &ShareService{userRepo: userRepo, discoveryRepo: discoveryRepo}
}

// GetToken returns the user's share token, creating one on first use
func (s *ShareService) GetToken(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.ErrUserNotFound
	}

	if user.ShareToken != nil && *user.ShareToken != "" {
		return *user.ShareToken, nil
	}

	token := uuid.New().String()
	if err := s.userRepo.SetShareToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("set share token: %w", err)
	}
	return token, nil
}

// RegenerateToken replaces the share token, invalidating old share links
func (s *ShareService) RegenerateToken(ctx context.Context, userID string) (string, error) {
	token := uuid.New().String()
	if err := s.userRepo.SetShareToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("set share token: %w", err)
	}
	return token, nil
}

// GetSharedProfile resolves a share token to its owner and returns the
// public projection of their collection. No authentication involved.
func (s *ShareService) GetSharedProfile(ctx context.Context, token string) (*models.SharedProfile, error) {
	user, err := s.userRepo.GetByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}

	rows, err := s.discoveryRepo.GetRows(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	discoveries := map[string]models.SharedBird{}
	totalPhotos := 0
	for _, row := range rows {
		bird, exists := discoveries[row.BirdNumber]
		if !exists {
			bird = models.SharedBird{Photos: []models.SharedPhotoView{}}
		}
		if row.Photo != nil {
			bird.Photos = append(bird.Photos, models.SharedPhotoView{
				Photo:       row.Photo.Data,
				Location:    row.Photo.Location,
				City:        row.Photo.City,
				Region:      row.Photo.Region,
				Country:     row.Photo.Country,
				Coordinates: models.ParseCoordinates(row.Photo.Coordinates),
				Date:        row.Photo.Date,
				Sex:         row.Photo.Sex,
				Note:        row.Photo.Note,
			})
			totalPhotos++
		}
		discoveries[row.BirdNumber] = bird
	}

	return &models.SharedProfile{
		Username:        user.Username,
		MemberSince:     user.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		Theme:           user.Theme,
		DiscoveredCount: len(discoveries),
		TotalPhotos:     totalPhotos,
		Discoveries:     discoveries,
	}, nil
}
