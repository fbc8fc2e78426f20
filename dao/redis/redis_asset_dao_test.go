package redis

import (
	"context"
	"testing"

	"gigmap-server/db"
	"gigmap-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisAssetDAO_PutAndGet(t *testing.T) {
	dao := NewRedisAssetDAO(db.NewMemoryRedisClient(context.Background()))

	asset := models.CachedAsset{Path: "/styles.css", ContentType: "text/css", Body: []byte("body{}")}
	require.NoError(t, dao.PutAsset("gigmap-v1", asset))

	got, err := dao.GetAsset("gigmap-v1", "/styles.css")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []byte("body{}"), got.Body)
	assert.Equal(t, "text/css", got.ContentType)

	miss, err := dao.GetAsset("gigmap-v1", "/missing.css")
	require.NoError(t, err)
	assert.Nil(t, miss)

	other, err := dao.GetAsset("gigmap-v0", "/styles.css")
	require.NoError(t, err)
	assert.Nil(t, other)
}

func TestRedisAssetDAO_ListAndDeleteCaches(t *testing.T) {
	dao := NewRedisAssetDAO(db.NewMemoryRedisClient(context.Background()))

	require.NoError(t, dao.PutAsset("gigmap-v0", models.CachedAsset{Path: "/index.html"}))
	require.NoError(t, dao.PutAsset("gigmap-v1", models.CachedAsset{Path: "/index.html"}))
	require.NoError(t, dao.PutAsset("gigmap-v1", models.CachedAsset{Path: "/script.js"}))

	names, err := dao.ListCacheNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"gigmap-v0", "gigmap-v1"}, names)

	require.NoError(t, dao.DeleteCache("gigmap-v0"))

	names, err = dao.ListCacheNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"gigmap-v1"}, names)
}
