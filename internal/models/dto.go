package models

// View names for the per-user projection cache
const (
	ViewFull     = "discoveries_v2"
	ViewMetadata = "metadata_v2"
	ViewLight    = "discoveries_light"
	ViewGallery  = "gallery"
)

// PhotoView is one photo as returned by the full and light projections
type PhotoView struct {
	ID          int64       `json:"id"`
	Photo       string      `json:"photo"`
	Thumbnail   string      `json:"thumbnail"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Region      string      `json:"region"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
	Date        string      `json:"date"`
	Sex         string      `json:"sex"`
	Note        string      `json:"note"`
}

// BirdFull is one species entry in the full projection
type BirdFull struct {
	DiscoveredAt string      `json:"discovered_at"`
	Photos       []PhotoView `json:"photos"`
}

// BirdLight is one species entry in the legacy light projection
type BirdLight struct {
	Photos []PhotoView `json:"photos"`
}

// FullProjection maps bird number to its discovery detail
type FullProjection map[string]BirdFull

// LightProjection maps bird number to its photo list
type LightProjection map[string]BirdLight

// BirdMetadata summarizes one species without photo payloads
type BirdMetadata struct {
	PhotoCount int      `json:"photo_count"`
	Dates      []string `json:"dates"`
	HasGPS     bool     `json:"has_gps"`
}

// MetadataProjection is the photo-free summary of a user's collection
type MetadataProjection struct {
	DiscoveredCount int                     `json:"discovered_count"`
	TotalPhotos     int                     `json:"total_photos"`
	TotalSizeMB     float64                 `json:"total_size_mb"`
	Birds           map[string]BirdMetadata `json:"birds"`
}

// GalleryItem is one thumbnail card in the paginated gallery
type GalleryItem struct {
	ID         int64  `json:"id"`
	BirdNumber string `json:"bird_number"`
	Thumbnail  string `json:"photo_thumbnail"`
	Date       string `json:"date"`
	Location   string `json:"location"`
	City       string `json:"city"`
}

// GalleryPage is one page of the gallery projection
type GalleryPage struct {
	Photos     []GalleryItem `json:"photos"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	TotalPages int           `json:"total_pages"`
}

// SharedPhotoView is a photo in the public share projection (no photo id)
type SharedPhotoView struct {
	Photo       string      `json:"photo"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Region      string      `json:"region"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
	Date        string      `json:"date"`
	Sex         string      `json:"sex"`
	Note        string      `json:"note"`
}

// SharedBird is one species entry in the public share projection
type SharedBird struct {
	Photos []SharedPhotoView `json:"photos"`
}

// SharedProfile is the public, token-addressed read of a user's collection
type SharedProfile struct {
	Username        string                `json:"username"`
	MemberSince     string                `json:"member_since"`
	Theme           string                `json:"theme"`
	DiscoveredCount int                   `json:"discovered_count"`
	TotalPhotos     int                   `json:"total_photos"`
	Discoveries     map[string]SharedBird `json:"discoveries"`
}

// AdminUserStats is one per-user row in the admin overview
type AdminUserStats struct {
	Username         string `json:"username"`
	CreatedAt        string `json:"created_at"`
	DiscoveriesCount int    `json:"discoveries_count"`
	PhotosCount      int    `json:"photos_count"`
	StorageUsed      int64  `json:"storage_used"`
}

// AdminStats is the instance-wide aggregate for admins
type AdminStats struct {
	TotalUsers       int              `json:"total_users"`
	TotalDiscoveries int              `json:"total_discoveries"`
	TotalPhotos      int              `json:"total_photos"`
	StorageMB        float64          `json:"storage_mb"`
	Users            []AdminUserStats `json:"users"`
}

// ErrorResponse is the standard error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the standard success body
type StatusResponse struct {
	Status string `json:"status"`
}
