package models

// SyncRequest is the write payload: a full snapshot of the user's
// discoveries, keyed by bird number.
type SyncRequest map[string]BirdSync

// BirdSync carries the complete photo set for one species
type BirdSync struct {
	Photos []PhotoEntry `json:"photos"`
}

// PhotoEntry is one submitted photo. Entries without an ID carry a fresh
// image payload to be compressed; entries with an ID reference a photo the
// client previously read back and are stored as supplied.
type PhotoEntry struct {
	ID          *int64      `json:"id,omitempty"`
	Photo       string      `json:"photo"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	Location    string      `json:"location"`
	City        string      `json:"city"`
	Region      string      `json:"region"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coordinates"`
	Date        string      `json:"date"`
	Sex         string      `json:"sex"`
	Note        string      `json:"note"`
}

// IsNew reports whether this entry needs compression
func (p PhotoEntry) IsNew() bool {
	return p.ID == nil
}
