package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	log, err := logger.New(&logger.Config{
		Level:  "debug",
		Format: "json",
		Output: "stderr",
	})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Addrs = []string{mr.Addr()}

	client, err := New(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "single without addr", mutate: func(c *Config) { c.Addrs = nil }, wantErr: true},
		{name: "sentinel without master", mutate: func(c *Config) { c.Mode = ModeSentinel }, wantErr: true},
		{name: "sentinel", mutate: func(c *Config) {
			c.Mode = ModeSentinel
			c.MasterName = "mymaster"
		}},
		{name: "cluster with db", mutate: func(c *Config) {
			c.Mode = ModeCluster
			c.DB = 2
		}, wantErr: true},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "read-write" }, wantErr: true},
		{name: "bad db", mutate: func(c *Config) { c.DB = 16 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_PingFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addrs = []string{"127.0.0.1:1"}
	cfg.DialTimeout = 100 * time.Millisecond

	_, err := New(cfg, nil)
	assert.Error(t, err)
}

func TestClient_GetSetDel(t *testing.T) {
	client, mr := setupTestClient(t)
	ctx := context.Background()

	_, err := client.Get(ctx, "missing")
	assert.True(t, IsNil(err))

	require.NoError(t, client.Set(ctx, "k", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("lyricnote:k"))

	val, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	mr.FastForward(2 * time.Minute)
	_, err = client.Get(ctx, "k")
	assert.True(t, IsNil(err))

	require.NoError(t, client.Set(ctx, "a", []byte("1"), 0))
	n, err := client.Del(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
