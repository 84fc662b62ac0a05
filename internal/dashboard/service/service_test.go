package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"store_opening_backend/internal/dashboard/repository"
	"store_opening_backend/internal/dashboard/transport"
	"store_opening_backend/internal/events"
	"store_opening_backend/platform/apperr"
	"store_opening_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	facts  []repository.ProjectFact
	names  map[uuid.UUID]string
	err    error
	scans  atomic.Int32
	filter atomic.Pointer[repository.Filter]
}

func (f *fakeReader) ListProjectFacts(_ context.Context, filter repository.Filter) ([]repository.ProjectFact, error) {
	f.scans.Add(1)
	f.filter.Store(&filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.facts, nil
}

func (f *fakeReader) RegionNames(context.Context) (map[uuid.UUID]string, error) {
	return f.names, nil
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func newTestService(reader repository.Reader, cache Cache) *Service {
	svc := New(reader, cache, logger.Discard())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestStatisticsWithoutCache(t *testing.T) {
	reader := &fakeReader{facts: sampleFacts()}
	svc := newTestService(reader, nil)

	stats, err := svc.Statistics(context.Background(), transport.StatisticsRequest{StartDate: "2025-05-01"})

	require.NoError(t, err)
	assert.Equal(t, 5, stats.Overview.Total)
	assert.Equal(t, fixedNow, stats.GeneratedAt)
	require.NotNil(t, reader.filter.Load().Start)
	assert.Nil(t, reader.filter.Load().End)
}

func TestStatisticsServesFromCacheUntilInvalidated(t *testing.T) {
	_, client := setupRedis(t)
	cache := NewRedisCache(client, time.Minute)
	reader := &fakeReader{facts: sampleFacts()}
	svc := newTestService(reader, cache)
	ctx := context.Background()

	first, err := svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)
	second, err := svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)

	assert.Equal(t, int32(1), reader.scans.Load())
	assert.Equal(t, first, second)

	require.NoError(t, cache.Invalidate(ctx))
	_, err = svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), reader.scans.Load())
}

func TestStatisticsCachesPerFilter(t *testing.T) {
	_, client := setupRedis(t)
	reader := &fakeReader{facts: sampleFacts()}
	svc := newTestService(reader, NewRedisCache(client, time.Minute))
	ctx := context.Background()

	_, err := svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)
	_, err = svc.Statistics(ctx, transport.StatisticsRequest{EndDate: "2025-05-31"})
	require.NoError(t, err)

	assert.Equal(t, int32(2), reader.scans.Load())
}

func TestStatisticsEntriesExpire(t *testing.T) {
	mr, client := setupRedis(t)
	reader := &fakeReader{facts: sampleFacts()}
	svc := newTestService(reader, NewRedisCache(client, time.Minute))
	ctx := context.Background()

	_, err := svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = svc.Statistics(ctx, transport.StatisticsRequest{})
	require.NoError(t, err)

	assert.Equal(t, int32(2), reader.scans.Load())
}

func TestStatisticsFallsBackWhenCacheIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	reader := &fakeReader{facts: sampleFacts()}
	svc := newTestService(reader, NewRedisCache(client, time.Minute))

	stats, err := svc.Statistics(context.Background(), transport.StatisticsRequest{})

	require.NoError(t, err)
	assert.Equal(t, 5, stats.Overview.Total)
}

func TestStatisticsPropagatesReadErrors(t *testing.T) {
	reader := &fakeReader{err: errors.New("boom")}
	svc := newTestService(reader, nil)

	_, err := svc.Statistics(context.Background(), transport.StatisticsRequest{})

	require.EqualError(t, err, "boom")
}

func TestStatisticsRejectsBadFilter(t *testing.T) {
	reader := &fakeReader{}
	svc := newTestService(reader, nil)

	_, err := svc.Statistics(context.Background(), transport.StatisticsRequest{RegionIDs: []string{"x"}})

	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
	assert.Equal(t, int32(0), reader.scans.Load())
}

func TestSubscribeInvalidationBumpsVersion(t *testing.T) {
	mr, client := setupRedis(t)
	bus := events.NewInMemoryBus(logger.Discard())
	SubscribeInvalidation(bus, NewRedisCache(client, time.Minute), logger.Discard())

	err := bus.PublishSync(context.Background(), events.ProjectStatusChanged{ProjectID: uuid.New(), OldStatus: "PLANNING", NewStatus: "IN_PROGRESS"})
	require.NoError(t, err)
	err = bus.PublishSync(context.Background(), events.ProjectCreated{ProjectID: uuid.New()})
	require.NoError(t, err)

	version, err := mr.Get(cacheVersionKey)
	require.NoError(t, err)
	assert.Equal(t, "2", version)
}
