package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinatesUnmarshal(t *testing.T) {
	t.Run("object form", func(t *testing.T) {
		var c Coordinates
		require.NoError(t, json.Unmarshal([]byte(`{"lat": 48.85, "lng": 2.35}`), &c))
		assert.True(t, c.Valid)
		assert.Equal(t, 48.85, c.Lat)
		assert.Equal(t, 2.35, c.Lng)
	})

	t.Run("empty string means absent", func(t *testing.T) {
		var c Coordinates
		require.NoError(t, json.Unmarshal([]byte(`""`), &c))
		assert.False(t, c.Valid)
	})

	t.Run("null means absent", func(t *testing.T) {
		var c Coordinates
		require.NoError(t, json.Unmarshal([]byte(`null`), &c))
		assert.False(t, c.Valid)
	})

	t.Run("garbage string means absent, not error", func(t *testing.T) {
		var c Coordinates
		require.NoError(t, json.Unmarshal([]byte(`"48.85,2.35"`), &c))
		assert.False(t, c.Valid)
	})

	t.Run("null inside an entry stays absent", func(t *testing.T) {
		var entry PhotoEntry
		require.NoError(t, json.Unmarshal([]byte(`{"photo":"abc","coordinates":null}`), &entry))
		assert.False(t, entry.Coordinates.Valid)
		assert.Equal(t, "", entry.Coordinates.Encode())
	})
}

func TestCoordinatesMarshal(t *testing.T) {
	t.Run("valid point emits object", func(t *testing.T) {
		data, err := json.Marshal(Coordinates{Lat: -33.9, Lng: 151.2, Valid: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"lat": -33.9, "lng": 151.2}`, string(data))
	})

	t.Run("absent point emits empty string", func(t *testing.T) {
		data, err := json.Marshal(Coordinates{})
		require.NoError(t, err)
		assert.Equal(t, `""`, string(data))
	})
}

func TestCoordinatesEncodeParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := Coordinates{Lat: 60.17, Lng: 24.94, Valid: true}
		parsed := ParseCoordinates(original.Encode())
		assert.Equal(t, original, parsed)
	})

	t.Run("absent encodes empty", func(t *testing.T) {
		assert.Equal(t, "", Coordinates{}.Encode())
	})

	t.Run("parse tolerates bad stored text", func(t *testing.T) {
		assert.False(t, ParseCoordinates("not json").Valid)
		assert.False(t, ParseCoordinates("").Valid)
	})
}
