package repository

import (
	"context"
	"time"

	"github.com/ornithedex/server/internal/models"
)

// UserRepo defines persistence operations for user accounts
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByShareToken(ctx context.Context, token string) (*models.User, error)
	UpdateTheme(ctx context.Context, id, theme string) error
	SetShareToken(ctx context.Context, id, token string) error
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

// SessionRepo defines persistence operations for browser sessions
type SessionRepo interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// SpeciesPhotos is the prepared photo set for one species, ready to be
// committed by Sync. Photos are inserted in slice order.
type SpeciesPhotos struct {
	BirdNumber string
	Photos     []models.Photo
}

// DiscoveryRow is one row of the user-scoped join used by the full,
// light and share projections. Photo is nil for discoveries that have
// no photos.
type DiscoveryRow struct {
	BirdNumber   string
	DiscoveredAt time.Time
	Photo        *models.Photo
}

// PhotoMetaRow is the photo-free row used by the metadata projection
type PhotoMetaRow struct {
	BirdNumber string
	HasPhoto   bool
	Date       string
	HasGPS     bool
}

// DiscoveryRepo defines the store operations for discoveries and photos
type DiscoveryRepo interface {
	// Sync commits the full snapshot in one transaction: per species it
	// upserts the discovery, deletes its photo rows and inserts the
	// submitted set. On error nothing is committed.
	Sync(ctx context.Context, userID string, species []SpeciesPhotos) error

	GetRows(ctx context.Context, userID string) ([]DiscoveryRow, error)
	GetPhotoMeta(ctx context.Context, userID string) ([]PhotoMetaRow, error)
	GetUserTotals(ctx context.Context, userID string) (discoveries, photos int, totalSize int64, err error)
	CountPhotos(ctx context.Context, userID string) (int, error)
	GetGalleryPage(ctx context.Context, userID string, limit, offset int) ([]models.GalleryItem, error)
	GetPhotoData(ctx context.Context, userID, birdNumber string, photoID int64) (string, error)

	// Admin aggregates
	GetGlobalTotals(ctx context.Context) (users, discoveries, photos int, totalSize int64, err error)
	GetPerUserStats(ctx context.Context) ([]models.AdminUserStats, error)
}

// StatsRepo records audit actions for admin visibility
type StatsRepo interface {
	Record(ctx context.Context, userID, action, details string) error
}
