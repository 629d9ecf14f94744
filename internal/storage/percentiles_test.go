// internal/storage/percentiles_test.go
package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "smartmatch/internal/common/errors"
	"smartmatch/internal/common/logger"
)

const testCacheTTL = 5 * time.Minute

func newPercentileStoreMock(t *testing.T, rdb *redis.Client) (*PercentileStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPercentileStore(db, rdb, testCacheTTL, logger.NewTestLogger(t)), mock
}

func TestPercentileStore_CacheMissReadsDatabaseAndWritesCache(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	store, dbMock := newPercentileStoreMock(t, rdb)

	redisMock.ExpectGet("price:stats:São Paulo").RedisNil()
	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("São Paulo").
		WillReturnRows(sqlmock.NewRows([]string{"p5", "p25", "p95"}).AddRow(10.0, 12.0, 30.0))
	redisMock.ExpectSet("price:stats:São Paulo", []byte(`{"p5":10,"p25":12,"p95":30}`), testCacheTTL).SetVal("OK")

	refs, err := store.PriceRefs(context.Background(), "São Paulo")

	require.NoError(t, err)
	assert.Equal(t, 10.0, refs.P5)
	assert.Equal(t, 30.0, refs.P95)
	require.NotNil(t, refs.P25)
	assert.Equal(t, 12.0, *refs.P25)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPercentileStore_CacheHitSkipsDatabase(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	store, dbMock := newPercentileStoreMock(t, rdb)

	redisMock.ExpectGet("price:stats:São Paulo").SetVal(`{"p5":10,"p25":12,"p95":30}`)

	refs, err := store.PriceRefs(context.Background(), "São Paulo")

	require.NoError(t, err)
	assert.Equal(t, 10.0, refs.P5)
	require.NotNil(t, refs.P25)
	assert.Equal(t, 12.0, *refs.P25)

	// No SQL expectations were set; any query would have failed the mock.
	assert.NoError(t, dbMock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestPercentileStore_NullP25(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	store, dbMock := newPercentileStoreMock(t, rdb)

	redisMock.ExpectGet("price:stats:Campinas").RedisNil()
	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("Campinas").
		WillReturnRows(sqlmock.NewRows([]string{"p5", "p25", "p95"}).AddRow(8.0, nil, 25.0))
	redisMock.ExpectSet("price:stats:Campinas", []byte(`{"p5":8,"p95":25}`), testCacheTTL).SetVal("OK")

	refs, err := store.PriceRefs(context.Background(), "Campinas")

	require.NoError(t, err)
	assert.Equal(t, 8.0, refs.P5)
	assert.Nil(t, refs.P25)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPercentileStore_NoStatsForCity(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	store, dbMock := newPercentileStoreMock(t, rdb)

	redisMock.ExpectGet("price:stats:Nowhere").RedisNil()
	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("Nowhere").
		WillReturnError(sql.ErrNoRows)

	_, err := store.PriceRefs(context.Background(), "Nowhere")

	require.Error(t, err)
	stdErr, ok := err.(*stderrors.StandardError)
	require.True(t, ok)
	assert.Equal(t, stderrors.ErrCodePriceStatsUnavailable, stdErr.Code)
}

func TestPercentileStore_CacheWriteFailureIsNonFatal(t *testing.T) {
	rdb, redisMock := redismock.NewClientMock()
	store, dbMock := newPercentileStoreMock(t, rdb)

	redisMock.ExpectGet("price:stats:Santos").RedisNil()
	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("Santos").
		WillReturnRows(sqlmock.NewRows([]string{"p5", "p25", "p95"}).AddRow(9.0, 11.0, 28.0))
	redisMock.ExpectSet("price:stats:Santos", []byte(`{"p5":9,"p25":11,"p95":28}`), testCacheTTL).SetErr(assert.AnError)

	refs, err := store.PriceRefs(context.Background(), "Santos")

	require.NoError(t, err)
	assert.Equal(t, 9.0, refs.P5)
	assert.Equal(t, 28.0, refs.P95)
}

// Round-trip against a real redis protocol server: the first call populates
// the cache, the second is served from it without touching the database.
func TestPercentileStore_CacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store, dbMock := newPercentileStoreMock(t, rdb)

	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("São Paulo").
		WillReturnRows(sqlmock.NewRows([]string{"p5", "p25", "p95"}).AddRow(10.0, 12.0, 30.0))

	first, err := store.PriceRefs(context.Background(), "São Paulo")
	require.NoError(t, err)
	require.True(t, mr.Exists("price:stats:São Paulo"))

	second, err := store.PriceRefs(context.Background(), "São Paulo")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NoError(t, dbMock.ExpectationsWereMet(), "second read must not hit the database")

	mr.FastForward(testCacheTTL + time.Second)
	assert.False(t, mr.Exists("price:stats:São Paulo"), "cache entry expires with the TTL")
}

func TestPercentileStore_NoRedisConfigured(t *testing.T) {
	store, dbMock := newPercentileStoreMock(t, nil)

	dbMock.ExpectQuery("SELECT p5, p25, p95").
		WithArgs("São Paulo").
		WillReturnRows(sqlmock.NewRows([]string{"p5", "p25", "p95"}).AddRow(10.0, 12.0, 30.0))

	refs, err := store.PriceRefs(context.Background(), "São Paulo")

	require.NoError(t, err)
	assert.Equal(t, 30.0, refs.P95)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
