package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/repository"
)

// SyncService is the write path: it reconciles a full snapshot of a
// user's discoveries against the store with replace-per-species
// semantics, compressing only genuinely new photos.
type SyncService struct {
	discoveryRepo repository.DiscoveryRepo
	statsRepo     repository.StatsRepo
	cache         ProjectionCache
	codec         *ImageCodec
	exif          *EXIFService
	sanitizer     *Sanitizer
	hub           *EventHub

	// Serializes concurrent syncs per user so the delete-then-insert
	// replace stays atomic per (user, species) on every backend.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewSyncService creates a new SyncService. The hub may be nil.
func NewSyncService(
	discoveryRepo repository.DiscoveryRepo,
	statsRepo repository.StatsRepo,
	cache ProjectionCache,
	codec *ImageCodec,
	exif *EXIFService,
	sanitizer *Sanitizer,
	hub *EventHub,
) *SyncService {
	return &SyncService{
		discoveryRepo: discoveryRepo,
		statsRepo:     statsRepo,
		cache:         cache,
		codec:         codec,
		exif:          exif,
		sanitizer:     sanitizer,
		hub:           hub,
		locks:         make(map[string]*sync.Mutex),
	}
}

// SaveDiscoveries processes the snapshot. Compression runs before the
// store transaction is opened; on success every submitted species holds
// exactly the submitted photo set and the user's cached views are
// invalidated. On failure nothing is committed.
func (s *SyncService) SaveDiscoveries(ctx context.Context, userID string, req models.SyncRequest) error {
	if len(req) == 0 {
		return models.ErrNoData
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	species, err := s.prepare(ctx, userID, req)
	if err != nil {
		return err
	}

	if err := s.discoveryRepo.Sync(ctx, userID, species); err != nil {
		return fmt.Errorf("persist discoveries: %w", err)
	}

	photoCount := 0
	for _, sp := range species {
		photoCount += len(sp.Photos)
	}
	observability.GetBusinessMetrics().RecordSync(ctx, userID, len(species), photoCount)

	// Invalidation after commit: the next read recomputes from the store
	s.cache.Invalidate(userID)

	if s.hub != nil {
		s.hub.SendToUser(userID, EventMessage{Type: EventDiscoveriesUpdated})
	}

	if err := s.statsRepo.Record(ctx, userID, "sync",
		fmt.Sprintf("%d species", len(species))); err != nil {
		observability.Warnf("audit record failed: %v", err)
	}

	return nil
}

// prepare runs the codec and sanitization for every entry, outside any
// store transaction. Entries without a usable payload are dropped.
func (s *SyncService) prepare(ctx context.Context, userID string, req models.SyncRequest) ([]repository.SpeciesPhotos, error) {
	// Deterministic species order
	birdNumbers := make([]string, 0, len(req))
	for birdNumber := range req {
		birdNumbers = append(birdNumbers, birdNumber)
	}
	sort.Strings(birdNumbers)

	species := make([]repository.SpeciesPhotos, 0, len(birdNumbers))
	for _, birdNumber := range birdNumbers {
		sp := repository.SpeciesPhotos{BirdNumber: birdNumber}

		for _, entry := range req[birdNumber].Photos {
			if entry.Photo == "" {
				continue
			}

			photo, ok := s.preparePhoto(ctx, userID, birdNumber, entry)
			if !ok {
				continue
			}
			sp.Photos = append(sp.Photos, photo)
		}

		species = append(species, sp)
	}

	return species, nil
}

func (s *SyncService) preparePhoto(ctx context.Context, userID, birdNumber string, entry models.PhotoEntry) (models.Photo, bool) {
	photo := models.Photo{
		UserID:      userID,
		BirdNumber:  birdNumber,
		Location:    s.sanitizer.Clean(entry.Location),
		City:        s.sanitizer.Clean(entry.City),
		Region:      s.sanitizer.Clean(entry.Region),
		Country:     s.sanitizer.Clean(entry.Country),
		Date:        s.sanitizer.Clean(entry.Date),
		Sex:         s.sanitizer.Clean(entry.Sex),
		Note:        s.sanitizer.Clean(entry.Note),
		Coordinates: entry.Coordinates.Encode(),
	}

	if !entry.IsNew() {
		// Pre-compressed reference: store as supplied, size not recomputed
		photo.Data = entry.Photo
		photo.Thumbnail = entry.Thumbnail
		photo.FileSize = 0
		return photo, true
	}

	result, err := s.codec.Compress(entry.Photo)
	if err != nil {
		observability.WithField("bird", birdNumber).Warnf("unusable photo payload skipped: %v", err)
		return models.Photo{}, false
	}

	observability.GetBusinessMetrics().RecordCompression(ctx, result.Degraded)
	if result.Degraded {
		observability.WithField("bird", birdNumber).Warnf("codec degraded, original stored: %v", result.Reason)
	}

	photo.Data = result.Primary
	photo.Thumbnail = result.Thumbnail
	photo.FileSize = result.Size

	// Backfill GPS and date from EXIF when the client left them empty
	if !result.Degraded && (photo.Coordinates == "" || photo.Date == "") {
		meta := s.exif.ExtractFromPayload(entry.Photo)
		if photo.Coordinates == "" && meta.Coordinates.Valid {
			photo.Coordinates = meta.Coordinates.Encode()
		}
		if photo.Date == "" && meta.DateTaken != nil {
			photo.Date = meta.DateTaken.Format("2006-01-02")
		}
	}

	return photo, true
}

func (s *SyncService) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
