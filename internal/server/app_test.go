package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.BcryptCost = 4
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_MemoryBackends(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)
	assert.NotNil(t, app.server)
	assert.NotNil(t, app.repos)
}

func TestNewApp_BadLogBackend(t *testing.T) {
	c := memoryConfig()
	c.LogBackend = "nope"

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_BadBcryptCost(t *testing.T) {
	c := memoryConfig()
	c.BcryptCost = 1000

	_, err := NewApp(context.Background(), c)
	assert.Error(t, err)
}

func TestNewApp_SeedsCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Mug","price":5,"category":"kitchen"}]`), 0o600))

	c := memoryConfig()
	c.ProductsSeedFile = path

	ctx := context.Background()
	app, err := NewApp(ctx, c)
	require.NoError(t, err)

	n, err := app.repos.Products().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
