package refreshrecordscache

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"classaction-admin/internal/cache"
	"classaction-admin/internal/common/camunda/camundatest"
	"classaction-admin/internal/common/errors"
	"classaction-admin/internal/common/logger"
	"classaction-admin/internal/dashboard"
	"classaction-admin/internal/records"
)

type brokenCache struct{}

func (brokenCache) Load(context.Context, cache.Kind) (cache.Entry, bool, error) {
	return cache.Entry{}, false, nil
}

func (brokenCache) Save(context.Context, cache.Kind, cache.Entry) error { return nil }

func (brokenCache) Invalidate(context.Context, ...cache.Kind) error {
	return errors.NewCacheUnavailableError("invalidate", stderrors.New("connection reset"))
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func createHandler(t *testing.T, c cache.Cache) *Handler {
	log := createTestLogger(t)
	source := records.NewCached(records.NewFixture(), c, records.DefaultTTL, log)
	return NewHandler(&Config{Timeout: time.Second}, dashboard.NewService(source, log), log)
}

func TestExecute_InvalidatesCache(t *testing.T) {
	mem := cache.NewMemory()
	handler := createHandler(t, mem)
	ctx := context.Background()

	require.NoError(t, mem.Save(ctx, cache.KindMembers, cache.Entry{Data: []byte("[]"), FetchedAt: time.Now()}))

	out, err := handler.Execute(ctx, &Input{Reason: "manual"})
	require.NoError(t, err)
	assert.True(t, out.Refreshed)
	_, err = time.Parse(time.RFC3339, out.RefreshedAt)
	assert.NoError(t, err)

	_, ok, err := mem.Load(ctx, cache.KindMembers)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandle_CompletesJob(t *testing.T) {
	handler := createHandler(t, cache.NewMemory())
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(31, 1, Input{})
	require.NoError(t, err)
	handler.Handle(client, job)

	require.Len(t, client.Completed(), 1)
	vars, err := client.CompletedVariables(0)
	require.NoError(t, err)
	assert.Equal(t, true, vars["refreshed"])
}

func TestHandle_CacheDownFailsJob(t *testing.T) {
	handler := createHandler(t, brokenCache{})
	client := camundatest.NewJobClient()

	job, err := camundatest.NewJob(32, 3, Input{})
	require.NoError(t, err)
	handler.Handle(client, job)

	assert.Empty(t, client.Completed())
	require.Len(t, client.Failed(), 1)
	assert.Equal(t, int64(32), client.Failed()[0].JobKey)
}
