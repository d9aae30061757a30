package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ornithedex/server/internal/models"
)

// DiscoveryRepository implements DiscoveryRepo for PostgreSQL/SQLite
type DiscoveryRepository struct {
	db *sql.DB
}

// NewDiscoveryRepository creates a new DiscoveryRepository
func NewDiscoveryRepository(db *sql.DB) *DiscoveryRepository {
	return &DiscoveryRepository{db: db}
}

// Sync commits a full snapshot for the given species in one transaction.
// Per species: the discovery row is created (or its updated_at touched),
// all existing photo rows are deleted and the submitted set is inserted
// in order. Any failure rolls the whole request back.
func (r *DiscoveryRepository) Sync(ctx context.Context, userID string, species []SpeciesPhotos) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sync transaction: %w", err)
	}
	defer tx.Rollback()

	for _, sp := range species {
		discoveryID, err := r.upsertDiscovery(ctx, tx, userID, sp.BirdNumber)
		if err != nil {
			return fmt.Errorf("upsert discovery %s: %w", sp.BirdNumber, err)
		}

		// Full replace: the submitted set is authoritative
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM photos WHERE discovery_id = $1 AND user_id = $2`,
			discoveryID, userID); err != nil {
			return fmt.Errorf("delete photos for %s: %w", sp.BirdNumber, err)
		}

		for i, photo := range sp.Photos {
			// Spread created_at so read-back order matches submission order
			createdAt := time.Now().UTC().Add(time.Duration(i) * time.Microsecond)
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO photos (
					discovery_id, user_id, bird_number,
					photo_data, photo_thumbnail, file_size,
					location, city, region, country, coordinates,
					date, sex, note, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
				discoveryID, userID, sp.BirdNumber,
				photo.Data, photo.Thumbnail, photo.FileSize,
				photo.Location, photo.City, photo.Region, photo.Country, photo.Coordinates,
				photo.Date, photo.Sex, photo.Note, createdAt, createdAt,
			); err != nil {
				return fmt.Errorf("insert photo for %s: %w", sp.BirdNumber, err)
			}
		}
	}

	return tx.Commit()
}

// upsertDiscovery finds or creates the discovery row for (user, species).
// A concurrent insert losing the race against the uniqueness constraint
// falls back to re-reading the winner's row.
func (r *DiscoveryRepository) upsertDiscovery(ctx context.Context, tx *sql.Tx, userID, birdNumber string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM discoveries WHERE user_id = $1 AND bird_number = $2`,
		userID, birdNumber).Scan(&id)

	if err == nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE discoveries SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
		return id, err
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = tx.QueryRowContext(ctx,
		`INSERT INTO discoveries (user_id, bird_number) VALUES ($1, $2) RETURNING id`,
		userID, birdNumber).Scan(&id)
	if isUniqueViolation(err) {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM discoveries WHERE user_id = $1 AND bird_number = $2`,
			userID, birdNumber).Scan(&id)
	}
	return id, err
}

// GetRows returns the user's discoveries joined with their photos,
// ordered by bird number then photo insertion order
func (r *DiscoveryRepository) GetRows(ctx context.Context, userID string) ([]DiscoveryRow, error) {
	query := `
		SELECT d.bird_number, d.discovered_at,
			   p.id, p.photo_data, p.photo_thumbnail,
			   COALESCE(p.location, ''), COALESCE(p.city, ''), COALESCE(p.region, ''),
			   COALESCE(p.country, ''), COALESCE(p.coordinates, ''),
			   COALESCE(p.date, ''), COALESCE(p.sex, ''), COALESCE(p.note, '')
		FROM discoveries d
		LEFT JOIN photos p ON d.id = p.discovery_id
		WHERE d.user_id = $1
		ORDER BY d.bird_number, p.created_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []DiscoveryRow
	for rows.Next() {
		var row DiscoveryRow
		var photoID sql.NullInt64
		var data, thumbnail sql.NullString
		var location, city, region, country, coordinates, date, sex, note string

		if err := rows.Scan(
			&row.BirdNumber, &row.DiscoveredAt,
			&photoID, &data, &thumbnail,
			&location, &city, &region, &country, &coordinates,
			&date, &sex, &note,
		); err != nil {
			return nil, err
		}

		if photoID.Valid {
			row.Photo = &models.Photo{
				ID:          photoID.Int64,
				UserID:      userID,
				BirdNumber:  row.BirdNumber,
				Data:        data.String,
				Thumbnail:   thumbnail.String,
				Location:    location,
				City:        city,
				Region:      region,
				Country:     country,
				Coordinates: coordinates,
				Date:        date,
				Sex:         sex,
				Note:        note,
			}
		}

		result = append(result, row)
	}

	return result, rows.Err()
}

// GetPhotoMeta returns the photo-free rows backing the metadata projection
func (r *DiscoveryRepository) GetPhotoMeta(ctx context.Context, userID string) ([]PhotoMetaRow, error) {
	query := `
		SELECT d.bird_number, p.id,
			   COALESCE(p.date, ''), COALESCE(p.coordinates, '')
		FROM discoveries d
		LEFT JOIN photos p ON d.id = p.discovery_id
		WHERE d.user_id = $1
		ORDER BY d.bird_number, p.created_at, p.id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PhotoMetaRow
	for rows.Next() {
		var row PhotoMetaRow
		var photoID sql.NullInt64
		var coordinates string
		if err := rows.Scan(&row.BirdNumber, &photoID, &row.Date, &coordinates); err != nil {
			return nil, err
		}
		row.HasPhoto = photoID.Valid
		row.HasGPS = coordinates != ""
		result = append(result, row)
	}

	return result, rows.Err()
}

// GetUserTotals returns discovery count, photo count and total primary
// rendition bytes for one user
func (r *DiscoveryRepository) GetUserTotals(ctx context.Context, userID string) (int, int, int64, error) {
	query := `
		SELECT COUNT(DISTINCT d.bird_number), COUNT(p.id), COALESCE(SUM(p.file_size), 0)
		FROM discoveries d
		LEFT JOIN photos p ON d.id = p.discovery_id
		WHERE d.user_id = $1
	`

	var discoveries, photos int
	var totalSize int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&discoveries, &photos, &totalSize)
	return discoveries, photos, totalSize, err
}

// CountPhotos returns the user's total photo count
func (r *DiscoveryRepository) CountPhotos(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM photos WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// GetGalleryPage returns one page of photo summaries, newest first
func (r *DiscoveryRepository) GetGalleryPage(ctx context.Context, userID string, limit, offset int) ([]models.GalleryItem, error) {
	query := `
		SELECT p.id, p.bird_number, COALESCE(p.photo_thumbnail, ''),
			   COALESCE(p.date, ''), COALESCE(p.location, ''), COALESCE(p.city, '')
		FROM photos p
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.GalleryItem{}
	for rows.Next() {
		var item models.GalleryItem
		if err := rows.Scan(&item.ID, &item.BirdNumber, &item.Thumbnail,
			&item.Date, &item.Location, &item.City); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetPhotoData returns the primary rendition of a single owner-scoped photo
func (r *DiscoveryRepository) GetPhotoData(ctx context.Context, userID, birdNumber string, photoID int64) (string, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT photo_data FROM photos WHERE id = $1 AND user_id = $2 AND bird_number = $3`,
		photoID, userID, birdNumber).Scan(&data)
	if err == sql.ErrNoRows {
		return "", models.ErrPhotoMissing
	}
	return data, err
}

// GetGlobalTotals returns instance-wide counts for the admin overview
func (r *DiscoveryRepository) GetGlobalTotals(ctx context.Context) (int, int, int, int64, error) {
	var users, discoveries, photos int
	var totalSize int64

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
		return 0, 0, 0, 0, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM discoveries`).Scan(&discoveries); err != nil {
		return 0, 0, 0, 0, err
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(file_size), 0) FROM photos`).Scan(&photos, &totalSize); err != nil {
		return 0, 0, 0, 0, err
	}

	return users, discoveries, photos, totalSize, nil
}

// GetPerUserStats returns one aggregate row per user, newest account first
func (r *DiscoveryRepository) GetPerUserStats(ctx context.Context) ([]models.AdminUserStats, error) {
	query := `
		SELECT u.username, u.created_at,
			   COUNT(DISTINCT d.id), COUNT(p.id), COALESCE(SUM(p.file_size), 0)
		FROM users u
		LEFT JOIN discoveries d ON u.id = d.user_id
		LEFT JOIN photos p ON u.id = p.user_id
		GROUP BY u.id, u.username, u.created_at
		ORDER BY u.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []models.AdminUserStats{}
	for rows.Next() {
		var s models.AdminUserStats
		var createdAt time.Time
		if err := rows.Scan(&s.Username, &createdAt,
			&s.DiscoveriesCount, &s.PhotosCount, &s.StorageUsed); err != nil {
			return nil, err
		}
		s.CreatedAt = createdAt.UTC().Format("2006-01-02 15:04:05")
		stats = append(stats, s)
	}

	return stats, rows.Err()
}
