package services

import (
	"encoding/json"
	"os"
	"sync"
)

// catalogCacheUser is the pseudo-user key for the global catalog entry
const catalogCacheUser = "_global"

// CatalogService serves the static bird catalog. The decoded document
// is memoized through the view cache; a failed read is not memoized so
// a later request retries the file.
type CatalogService struct {
	path   string
	cache  ProjectionCache
	mu     sync.Mutex
	doc    interface{}
	loaded bool
}

// NewCatalogService creates a catalog service for the given JSON file
func NewCatalogService(path string, cache ProjectionCache) *CatalogService {
	return &CatalogService{path: path, cache: cache}
}

// Get returns the decoded catalog document
func (s *CatalogService) Get() (interface{}, error) {
	if cached, ok := s.cache.Get("birds_catalog", catalogCacheUser); ok {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return nil, err
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		s.doc = doc
		s.loaded = true
	}

	s.cache.Set("birds_catalog", catalogCacheUser, s.doc, CatalogCacheTTL)
	return s.doc, nil
}
