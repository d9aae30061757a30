package services

import (
	"context"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
)

// AdminService provides instance-wide aggregates and user promotion
type AdminService struct {
	userRepo      repository.UserRepo
	discoveryRepo repository.DiscoveryRepo
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepo, discoveryRepo repository.DiscoveryRepo) *AdminService {
	return &AdminService{userRepo: userRepo, discoveryRepo: discoveryRepo}
}

// GetStats returns totals and per-user aggregates across all users
func (s *AdminService) GetStats(ctx context.Context) (*models.AdminStats, error) {
	users, discoveries, photos, totalSize, err := s.discoveryRepo.GetGlobalTotals(ctx)
	if err != nil {
		return nil, err
	}

	perUser, err := s.discoveryRepo.GetPerUserStats(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:       users,
		TotalDiscoveries: discoveries,
		TotalPhotos:      photos,
		StorageMB:        RoundMB(totalSize),
		Users:            perUser,
	}, nil
}

// Promote grants the admin flag to a user
func (s *AdminService) Promote(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.ErrUserNotFound
	}
	return s.userRepo.SetAdmin(ctx, userID, true)
}
