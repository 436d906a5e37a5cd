package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"gamestore/internal/domain/model"
)

var (
	ErrQueueEmpty   = errors.New("queue empty")
	ErrMalformedJob = errors.New("malformed mail job")
)

// MailQueue is a FIFO of mail jobs stored as JSON in a redis list. Producers
// LPUSH and the worker BRPOPs from the other end.
type MailQueue struct {
	rdb  *redis.Client
	name string
}

func NewMailQueue(rdb *redis.Client, name string) *MailQueue {
	return &MailQueue{rdb: rdb, name: name}
}

func (q *MailQueue) Name() string { return q.name }

// Enqueue assigns an id and timestamp to new jobs and pushes them.
func (q *MailQueue) Enqueue(ctx context.Context, job model.MailJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode mail job: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("push mail job %s to %s: %w", job.ID, q.name, err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job. It returns ErrQueueEmpty
// when nothing arrived and ErrMalformedJob, with the payload discarded, when
// the entry cannot be decoded.
func (q *MailQueue) Dequeue(ctx context.Context, timeout time.Duration) (*model.MailJob, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrQueueEmpty
		}
		return nil, fmt.Errorf("pop from %s: %w", q.name, err)
	}
	// BRPop returns [queueName, value].
	if len(res) < 2 || res[1] == "" {
		return nil, ErrMalformedJob
	}

	var job model.MailJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.To == "" || job.Kind == "" {
		return nil, fmt.Errorf("%w: missing recipient or kind", ErrMalformedJob)
	}
	return &job, nil
}

func (q *MailQueue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.name).Result()
}
