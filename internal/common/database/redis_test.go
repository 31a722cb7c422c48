package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"carprice/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedis(config.CacheConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.CacheConfig{})
	assert.Error(t, err)
}

func TestRedisClient_Ping(t *testing.T) {
	client, _ := newMiniRedis(t)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestRedisClient_JSONRoundTrip(t *testing.T) {
	client, mr := newMiniRedis(t)
	ctx := context.Background()

	in := map[string][]string{"BRAND": {"Audi", "Toyota"}}
	require.NoError(t, client.SetJSON(ctx, "choices:v1", in, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("choices:v1"))

	var out map[string][]string
	found, err := client.GetJSON(ctx, "choices:v1", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestRedisClient_GetJSON_Missing(t *testing.T) {
	client, _ := newMiniRedis(t)

	var out map[string][]string
	found, err := client.GetJSON(context.Background(), "absent", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisClient_GetJSON_Expired(t *testing.T) {
	client, mr := newMiniRedis(t)
	ctx := context.Background()

	require.NoError(t, client.SetJSON(ctx, "k", []string{"a"}, time.Second))
	mr.FastForward(2 * time.Second)

	var out []string
	found, err := client.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisClient_GetJSON_Corrupt(t *testing.T) {
	client, mr := newMiniRedis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	var out []string
	_, err := client.GetJSON(context.Background(), "k", &out)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "decode k")
}

// ==========================
// Failure paths via redismock
// ==========================

func TestRedisClient_GetJSON_ServerError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectGet("choices").SetErr(errors.New("connection reset"))

	var out []string
	found, err := client.GetJSON(context.Background(), "choices", &out)
	assert.False(t, found)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis get choices")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_GetJSON_NilReply(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectGet("choices").RedisNil()

	var out []string
	found, err := client.GetJSON(context.Background(), "choices", &out)
	assert.False(t, found)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisClient_Ping_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	client := &RedisClient{Client: db}

	mock.ExpectPing().SetErr(errors.New("dial tcp: refused"))

	err := client.Ping(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestRedisClient_CloseNil(t *testing.T) {
	var client *RedisClient
	assert.NoError(t, client.Close())
}
