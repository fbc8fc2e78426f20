package services

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"gigmap-server/config"
	"gigmap-server/models"
)

// AssetStore persists cached assets by cache name.
type AssetStore interface {
	PutAsset(cacheName string, asset models.CachedAsset) error
	GetAsset(cacheName, path string) (*models.CachedAsset, error)
	ListCacheNames() ([]string, error)
	DeleteCache(cacheName string) error
}

const NETWORK_ERROR_BODY = "Network error"

// Cache status reported in the X-Cache header.
const (
	CACHE_HIT    = "HIT"
	CACHE_MISS   = "MISS"
	CACHE_BYPASS = "BYPASS"
)

var cacheableTypes = []string{"text/html", "text/css", "javascript", "font"}

// AssetCacheService is a cache-first static asset server.
type AssetCacheService struct {
	store     AssetStore
	origin    AssetOrigin
	cacheName string
	precache  []string
	bypass    []string
	disabled  bool
}

// NewAssetCacheService builds the cache. With disabled set every request
// goes to the origin and install/activate purge all caches.
func NewAssetCacheService(store AssetStore, origin AssetOrigin, cfg config.AssetsConfig, disabled bool) *AssetCacheService {
	return &AssetCacheService{
		store:     store,
		origin:    origin,
		cacheName: cfg.CacheName,
		precache:  cfg.Precache,
		bypass:    cfg.Bypass,
		disabled:  disabled,
	}
}

// Install precaches the fixed asset list. Individual failures are logged and
// skipped; it returns how many assets were stored.
func (s *AssetCacheService) Install(ctx context.Context) int {
	if s.disabled {
		if err := s.purgeAll(); err != nil {
			log.Printf("[AssetCacheService] Failed to purge caches: %v", err)
		}
		return 0
	}

	stored := 0
	for _, p := range s.precache {
		res, err := s.origin.Fetch(ctx, http.MethodGet, p)
		if err != nil {
			log.Printf("[AssetCacheService] Failed to precache %s: %v", p, err)
			continue
		}
		if res.Status != http.StatusOK {
			log.Printf("[AssetCacheService] Skipping precache of %s: status %d", p, res.Status)
			continue
		}
		if err := s.store.PutAsset(s.cacheName, toAsset(p, res)); err != nil {
			log.Printf("[AssetCacheService] Failed to store %s: %v", p, err)
			continue
		}
		stored++
	}
	log.Printf("[AssetCacheService] Installed %d of %d assets into %s", stored, len(s.precache), s.cacheName)
	return stored
}

// Activate deletes every cache other than the current one.
func (s *AssetCacheService) Activate() error {
	if s.disabled {
		return s.purgeAll()
	}
	names, err := s.store.ListCacheNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == s.cacheName {
			continue
		}
		if err := s.store.DeleteCache(name); err != nil {
			return err
		}
		log.Printf("[AssetCacheService] Deleted stale cache %s", name)
	}
	return nil
}

// ServeHTTP answers from the cache when it can and fills it on a miss.
func (s *AssetCacheService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Path
	if s.disabled || r.Method != http.MethodGet || s.bypassed(p) {
		s.serveOrigin(w, r, CACHE_BYPASS, false)
		return
	}

	asset, err := s.store.GetAsset(s.cacheName, p)
	if err != nil {
		log.Printf("[AssetCacheService] Cache lookup for %s failed: %v", p, err)
	}
	if asset != nil {
		writeAsset(w, asset.ContentType, CACHE_HIT, http.StatusOK, asset.Body)
		return
	}
	s.serveOrigin(w, r, CACHE_MISS, true)
}

func (s *AssetCacheService) serveOrigin(w http.ResponseWriter, r *http.Request, cacheStatus string, store bool) {
	res, err := s.origin.Fetch(r.Context(), r.Method, r.URL.Path)
	if err != nil {
		log.Printf("[AssetCacheService] Origin fetch for %s failed: %v", r.URL.Path, err)
		writeAsset(w, "text/plain; charset=utf-8", cacheStatus, http.StatusRequestTimeout, []byte(NETWORK_ERROR_BODY))
		return
	}

	if store && res.Status == http.StatusOK && Cacheable(res.ContentType) {
		if err := s.store.PutAsset(s.cacheName, toAsset(r.URL.Path, res)); err != nil {
			log.Printf("[AssetCacheService] Failed to store %s: %v", r.URL.Path, err)
		}
	}
	writeAsset(w, res.ContentType, cacheStatus, res.Status, res.Body)
}

func (s *AssetCacheService) bypassed(p string) bool {
	for _, pattern := range s.bypass {
		if strings.Contains(p, pattern) {
			return true
		}
	}
	return false
}

func (s *AssetCacheService) purgeAll() error {
	names, err := s.store.ListCacheNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := s.store.DeleteCache(name); err != nil {
			return err
		}
	}
	if len(names) > 0 {
		log.Printf("[AssetCacheService] Asset cache disabled; purged %d caches", len(names))
	}
	return nil
}

// Cacheable reports whether a response of this content type is stored.
func Cacheable(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, t := range cacheableTypes {
		if strings.Contains(ct, t) {
			return true
		}
	}
	return false
}

func toAsset(p string, res *OriginResponse) models.CachedAsset {
	return models.CachedAsset{
		Path:        p,
		ContentType: res.ContentType,
		Body:        res.Body,
		StoredAt:    time.Now().UTC(),
	}
}

func writeAsset(w http.ResponseWriter, contentType, cacheStatus string, status int, body []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(status)
	w.Write(body)
}
