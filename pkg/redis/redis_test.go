package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hashtags/pkg/redis"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		err  error
	}{
		{"empty", "", redis.ErrEmptyConnectionURL},
		{"http scheme", "http://localhost:6379", redis.ErrFailedToParseURL},
		{"no scheme", "localhost:6379", redis.ErrFailedToParseURL},
		{"invalid port", "redis://localhost:notaport", redis.ErrFailedToParseURL},
		{"invalid database", "redis://localhost:6379/notanumber", redis.ErrFailedToParseURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, err := redis.Open(context.Background(), tt.url)
			require.ErrorIs(t, err, tt.err)
			assert.Nil(t, client)
		})
	}
}

func TestOpen_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client, err := redis.Open(ctx, "redis://127.0.0.1:1/0", redis.WithRetry(3, time.Hour))
	require.ErrorIs(t, err, redis.ErrConnectionFailed)
	assert.Nil(t, client)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, redis.Healthcheck(nil)(context.Background()), redis.ErrHealthcheckFailed)
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	assert.Empty(t, redis.Config{URL: "redis://localhost:6379"}.Options())
	assert.Len(t, redis.Config{PoolSize: 5, RetryAttempts: 2}.Options(), 2)
}
