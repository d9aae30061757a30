package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/models"
	"github.com/ornithedex/server/internal/repository"
	"github.com/ornithedex/server/internal/services"
)

func newDiscoveryTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := repository.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	discoveryRepo := repository.NewDiscoveryRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	cache := services.NewViewCache()
	syncService := services.NewSyncService(discoveryRepo, statsRepo, cache,
		services.NewImageCodec(), services.NewEXIFService(), services.NewSanitizer(), nil)
	discoveryService := services.NewDiscoveryService(discoveryRepo, cache)

	authService := services.NewAuthService(userRepo, sessionRepo, statsRepo)
	authHandler := NewAuthHandler(authService)
	handler := NewDiscoveryHandler(discoveryService, syncService)

	r := chi.NewRouter()
	r.Post("/api/register", authHandler.Register)
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessionRepo, userRepo))
		r.Get("/api/discoveries", handler.GetDiscoveries)
		r.Post("/api/discoveries", handler.SaveDiscoveries)
		r.Get("/api/discoveries/metadata", handler.GetMetadata)
		r.Get("/api/discoveries/gallery", handler.GetGallery)
		r.Get("/api/photo/{birdNumber}/{photoID}", handler.GetPhoto)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func smallJPEG(t *testing.T) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for x := 0; x < 40; x++ {
		for y := 0; y < 40; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 40, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDiscoveryEndpoints(t *testing.T) {
	srv := newDiscoveryTestServer(t)
	client := newCookieClient(t)

	resp := postJSON(t, client, srv.URL+"/api/register",
		map[string]string{"username": "alice", "password": "secret123"})
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("unauthenticated access is rejected", func(t *testing.T) {
		anon, err := http.Get(srv.URL + "/api/discoveries")
		require.NoError(t, err)
		defer anon.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)
	})

	t.Run("save then read back", func(t *testing.T) {
		payload := models.SyncRequest{
			"042": {Photos: []models.PhotoEntry{{Photo: smallJPEG(t), Location: "Reed bed"}}},
		}

		resp := postJSON(t, client, srv.URL+"/api/discoveries", payload)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		readResp, err := client.Get(srv.URL + "/api/discoveries")
		require.NoError(t, err)
		defer readResp.Body.Close()
		require.Equal(t, http.StatusOK, readResp.StatusCode)

		var projection map[string]struct {
			DiscoveredAt string `json:"discovered_at"`
			Photos       []struct {
				ID       int64  `json:"id"`
				Photo    string `json:"photo"`
				Location string `json:"location"`
			} `json:"photos"`
		}
		require.NoError(t, json.NewDecoder(readResp.Body).Decode(&projection))
		require.Contains(t, projection, "042")
		require.Len(t, projection["042"].Photos, 1)
		assert.Equal(t, "Reed bed", projection["042"].Photos[0].Location)
		assert.NotEmpty(t, projection["042"].Photos[0].Photo)
	})

	t.Run("empty sync body is a bad request", func(t *testing.T) {
		resp := postJSON(t, client, srv.URL+"/api/discoveries", models.SyncRequest{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("metadata endpoint", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/discoveries/metadata")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var meta models.MetadataProjection
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&meta))
		assert.Equal(t, 1, meta.DiscoveredCount)
		assert.Equal(t, 1, meta.TotalPhotos)
	})

	t.Run("gallery endpoint paginates", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/discoveries/gallery?page=1&per_page=5")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var page models.GalleryPage
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 5, page.PerPage)
		assert.Len(t, page.Photos, 1)
	})

	t.Run("single photo fetch", func(t *testing.T) {
		var page models.GalleryPage
		resp, err := client.Get(srv.URL + "/api/discoveries/gallery")
		require.NoError(t, err)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
		resp.Body.Close()
		require.NotEmpty(t, page.Photos)

		photoResp, err := client.Get(srv.URL + "/api/photo/042/" +
			strconv.FormatInt(page.Photos[0].ID, 10))
		require.NoError(t, err)
		defer photoResp.Body.Close()
		require.Equal(t, http.StatusOK, photoResp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(photoResp.Body).Decode(&body))
		assert.NotEmpty(t, body["photo"])
	})

	t.Run("missing photo is 404", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/photo/042/999999")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

