package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gigmap-server/db"
	"gigmap-server/models"
)

const ASSET_CACHE_KEY_FORMAT = "asset_cache:%s:%s"
const ASSET_CACHE_PREFIX = "asset_cache:"

// RedisAssetDAO stores cached static assets, namespaced by cache name.
type RedisAssetDAO struct {
	client db.RedisClient
}

func NewRedisAssetDAO(client db.RedisClient) *RedisAssetDAO {
	return &RedisAssetDAO{client: client}
}

// PutAsset stores an asset under the given cache name.
func (dao *RedisAssetDAO) PutAsset(cacheName string, asset models.CachedAsset) error {
	data, err := json.Marshal(asset)
	if err != nil {
		return fmt.Errorf("failed to marshal asset %s: %w", asset.Path, err)
	}
	key := fmt.Sprintf(ASSET_CACHE_KEY_FORMAT, cacheName, asset.Path)
	if err := dao.client.Set(key, string(data)); err != nil {
		return fmt.Errorf("failed to set asset %s in redis: %w", asset.Path, err)
	}
	return nil
}

// GetAsset returns the cached asset, or nil on a cache miss.
func (dao *RedisAssetDAO) GetAsset(cacheName, path string) (*models.CachedAsset, error) {
	key := fmt.Sprintf(ASSET_CACHE_KEY_FORMAT, cacheName, path)
	str, err := dao.client.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get asset %s from redis: %w", path, err)
	}
	var asset models.CachedAsset
	if err := json.Unmarshal([]byte(str), &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset %s: %w", path, err)
	}
	return &asset, nil
}

// ListCacheNames returns every cache name with at least one stored asset.
func (dao *RedisAssetDAO) ListCacheNames() ([]string, error) {
	keys, err := dao.client.Keys(ASSET_CACHE_PREFIX + "*")
	if err != nil {
		return nil, fmt.Errorf("failed to list asset keys: %w", err)
	}
	seen := make(map[string]bool)
	var names []string
	for _, k := range keys {
		rest := strings.TrimPrefix(k, ASSET_CACHE_PREFIX)
		name, _, ok := strings.Cut(rest, ":")
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// DeleteCache removes every asset stored under the cache name.
func (dao *RedisAssetDAO) DeleteCache(cacheName string) error {
	keys, err := dao.client.Keys(fmt.Sprintf(ASSET_CACHE_KEY_FORMAT, cacheName, "*"))
	if err != nil {
		return fmt.Errorf("failed to list assets of cache %s: %w", cacheName, err)
	}
	if err := dao.client.Del(keys...); err != nil {
		return fmt.Errorf("failed to delete cache %s: %w", cacheName, err)
	}
	return nil
}
