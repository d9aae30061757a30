package services

import (
	"bytes"
	"encoding/base64"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/ornithedex/server/internal/models"
)

// EXIFData is the subset of EXIF metadata the sync procedure can use to
// backfill fields the client left empty
type EXIFData struct {
	Coordinates models.Coordinates
	DateTaken   *time.Time
}

// EXIFService extracts GPS coordinates and capture dates from the
// original (pre-compression) image payload
type EXIFService struct{}

// NewEXIFService creates a new EXIFService
func NewEXIFService() *EXIFService {
	return &EXIFService{}
}

// ExtractFromPayload reads EXIF from a base64 image payload, with or
// without a data-URI header. Absent or unparseable EXIF is not an
// error; the zero EXIFData is returned instead.
func (s *EXIFService) ExtractFromPayload(input string) *EXIFData {
	payload := input
	if idx := strings.Index(input, ","); idx >= 0 {
		payload = input[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return &EXIFData{}
	}

	return s.ExtractFromBytes(raw)
}

// ExtractFromBytes reads EXIF from raw image bytes
func (s *EXIFService) ExtractFromBytes(data []byte) *EXIFData {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return &EXIFData{}
	}

	result := &EXIFData{}

	if lat, lng, err := x.LatLong(); err == nil {
		result.Coordinates = models.Coordinates{Lat: lat, Lng: lng, Valid: true}
	}

	if tm, err := x.DateTime(); err == nil {
		result.DateTaken = &tm
	}

	return result
}
