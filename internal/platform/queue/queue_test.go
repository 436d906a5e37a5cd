package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/domain/model"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestMailQueue_FIFO(t *testing.T) {
	_, rdb := newTestRedis(t)
	q := NewMailQueue(rdb, "mail_test")
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, model.MailJob{Kind: model.MailKindWelcome, To: "a@b.com", Username: "player_one"}))
	require.NoError(t, q.Enqueue(ctx, model.MailJob{Kind: model.MailKindVerifyEmail, To: "c@d.com", Token: "tok"}))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	first, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.MailKindWelcome, first.Kind)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.EnqueuedAt.IsZero())

	second, err := q.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "tok", second.Token)
}

func TestMailQueue_EmptyAndMalformed(t *testing.T) {
	mr, rdb := newTestRedis(t)
	q := NewMailQueue(rdb, "mail_test")
	ctx := context.Background()

	_, err := q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrQueueEmpty)

	_, err = mr.Lpush("mail_test", "{not json")
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrMalformedJob)

	_, err = mr.Lpush("mail_test", `{"kind":"welcome"}`)
	require.NoError(t, err)
	_, err = q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrMalformedJob)
}

func TestMailQueue_CanceledContext(t *testing.T) {
	_, rdb := newTestRedis(t)
	q := NewMailQueue(rdb, "mail_test")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := q.Dequeue(ctx, time.Second)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrQueueEmpty))
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := NewRateLimiter(rdb, "rl:auth", 2, time.Minute)
	start := time.Date(2025, 3, 1, 12, 0, 10, 0, time.UTC)
	l.now = func() time.Time { return start }
	ctx := context.Background()
	assert.Equal(t, 2, l.Limit())
	assert.Equal(t, time.Minute, l.Window())

	ok, remaining, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, _, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, remaining, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)

	ok, _, err = l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "other clients have their own budget")

	l.now = func() time.Time { return start.Add(time.Minute) }
	ok, _, err = l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "a new window resets the count")
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter(nil, "rl", 0, time.Minute)
	ok, _, err := l.Allow(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiter_RedisDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := NewRateLimiter(rdb, "rl", 5, time.Minute)
	mr.Close()

	_, _, err := l.Allow(context.Background(), "x")
	assert.Error(t, err)
}
