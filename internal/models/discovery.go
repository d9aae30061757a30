package models

import (
	"encoding/json"
	"time"
)

// Discovery records that a user has sighted a given species at least once.
// At most one row exists per (user, bird number) pair.
type Discovery struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	BirdNumber   string    `json:"birdNumber"`
	DiscoveredAt time.Time `json:"discoveredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Photo is one photographed sighting attached to a discovery. The bird
// number and user id are duplicated from the parent discovery so gallery
// and stats queries avoid the join.
type Photo struct {
	ID          int64     `json:"id"`
	DiscoveryID int64     `json:"discoveryId"`
	UserID      string    `json:"userId"`
	BirdNumber  string    `json:"birdNumber"`
	Data        string    `json:"photo"`     // primary rendition, data-URI base64
	Thumbnail   string    `json:"thumbnail"` // thumbnail rendition, empty when codec degraded
	Location    string    `json:"location"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Coordinates string    `json:"coordinates"` // canonical JSON text, empty when absent
	Date        string    `json:"date"`
	Sex         string    `json:"sex"`
	Note        string    `json:"note"`
	FileSize    int64     `json:"fileSize"` // bytes of the primary rendition, 0 for pre-compressed entries
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Coordinates is a GPS point. Clients send either an object
// {"lat": .., "lng": ..}, an empty string, or nothing at all; anything
// that is not a parseable object is treated as absent rather than an error.
type Coordinates struct {
	Lat   float64
	Lng   float64
	Valid bool
}

type coordinatesJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UnmarshalJSON accepts an object, a string, or null
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	*c = Coordinates{}

	// A nil pointer after unmarshal means the value was JSON null;
	// legacy clients also send "" for missing coordinates. Both decode
	// as absent, as does anything else that is not an object.
	var obj *coordinatesJSON
	if err := json.Unmarshal(data, &obj); err == nil && obj != nil {
		c.Lat = obj.Lat
		c.Lng = obj.Lng
		c.Valid = true
	}
	return nil
}

// MarshalJSON emits the object form, or "" when no point is present
func (c Coordinates) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte(`""`), nil
	}
	return json.Marshal(coordinatesJSON{Lat: c.Lat, Lng: c.Lng})
}

// Encode returns the canonical text form stored in the database
func (c Coordinates) Encode() string {
	if !c.Valid {
		return ""
	}
	data, err := json.Marshal(coordinatesJSON{Lat: c.Lat, Lng: c.Lng})
	if err != nil {
		return ""
	}
	return string(data)
}

// ParseCoordinates decodes the stored text form, falling back to an
// absent point when the text is empty or not parseable
func ParseCoordinates(s string) Coordinates {
	if s == "" {
		return Coordinates{}
	}
	var obj coordinatesJSON
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return Coordinates{}
	}
	return Coordinates{Lat: obj.Lat, Lng: obj.Lng, Valid: true}
}

// Discovery errors
var (
	ErrNoData       = DiscoveryError{"no data"}
	ErrPhotoMissing = DiscoveryError{"photo not found"}
)

type DiscoveryError struct {
	Message string
}

func (e DiscoveryError) Error() string {
	return e.Message
}
