package utils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestEventBus_DispatchesToSubscribers(t *testing.T) {
	bus := NewEventBus()

	var mu sync.Mutex
	var specific, all []string
	done := make(chan struct{}, 4)

	bus.Subscribe("board_created", func(e Event) {
		mu.Lock()
		specific = append(specific, e.Event)
		mu.Unlock()
		done <- struct{}{}
	})
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		all = append(all, e.Event)
		mu.Unlock()
		done <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Run(ctx)

	bus.Publish("board_created", map[string]int{"id": 1})
	bus.Publish("board_deleted", map[string]int{"id": 1})

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for dispatch")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"board_created"}, specific)
	assert.Equal(t, []string{"board_created", "board_deleted"}, all)
}

func TestEventBus_PublishNeverBlocks(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() {
		for i := 0; i < 500; i++ {
			bus.Publish("board_created", i)
		}
	})
}

func TestHealthChecker(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	checker := &HealthChecker{DB: db, Redis: client}
	status := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	require.Len(t, status.Services, 2)
	assert.Equal(t, "sqlite", status.Services[0].Name)

	mr.Close()
	status = checker.Check(context.Background())
	assert.Equal(t, StatusDegraded, status.Status)
	assert.Equal(t, "down", status.Services[1].Status)
}

func TestHealthChecker_WithoutRedis(t *testing.T) {
	checker := &HealthChecker{}
	status := checker.Check(context.Background())
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Empty(t, status.Services)
}

func TestLoadEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(file, []byte("CRUDBOARD_TEST_A=from-file\nCRUDBOARD_TEST_B=from-file\n"), 0o600))

	t.Setenv("ENV_FILE", file)
	t.Setenv("CRUDBOARD_TEST_A", "from-env")
	t.Cleanup(func() { os.Unsetenv("CRUDBOARD_TEST_B") })

	LoadEnv(zap.NewNop())

	assert.Equal(t, "from-env", os.Getenv("CRUDBOARD_TEST_A"))
	assert.Equal(t, "from-file", os.Getenv("CRUDBOARD_TEST_B"))
}
