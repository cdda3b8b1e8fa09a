package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = Options{Prefix: "idem", LockTTL: 10 * time.Second, ResponseTTL: time.Hour}

func TestRedisStore_BeginAcquiresLock(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, testOpts)

	mock.ExpectGet("idem:u-1:key-1:response").RedisNil()
	mock.ExpectSetNX("idem:u-1:key-1:lock", "1", 10*time.Second).SetVal(true)

	resp, err := store.Begin(context.Background(), "u-1:key-1")
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_BeginInProgress(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, testOpts)

	mock.ExpectGet("idem:u-1:key-1:response").RedisNil()
	mock.ExpectSetNX("idem:u-1:key-1:lock", "1", 10*time.Second).SetVal(false)

	_, err := store.Begin(context.Background(), "u-1:key-1")
	assert.ErrorIs(t, err, ErrInProgress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_BeginReplaysStoredResponse(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, testOpts)

	stored := Response{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"success":true}`)}
	raw, err := json.Marshal(stored)
	require.NoError(t, err)
	mock.ExpectGet("idem:u-1:key-1:response").SetVal(string(raw))

	resp, err := store.Begin(context.Background(), "u-1:key-1")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, stored, *resp)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_CompleteStoresAndUnlocks(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, testOpts)

	resp := Response{StatusCode: 200, ContentType: "application/json", Body: []byte(`{}`)}
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	mock.ExpectSet("idem:u-1:key-1:response", string(raw), time.Hour).SetVal("OK")
	mock.ExpectDel("idem:u-1:key-1:lock").SetVal(1)

	require.NoError(t, store.Complete(context.Background(), "u-1:key-1", resp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_GetFailure(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, testOpts)

	mock.ExpectGet("idem:u-1:key-1:response").SetErr(errors.New("connection refused"))

	_, err := store.Begin(context.Background(), "u-1:key-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInProgress)
}
