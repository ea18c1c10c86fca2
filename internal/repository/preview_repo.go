package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrPreviewNotFound = errors.New("preview not found")

// Preview is the image bytes behind an attachment's preview URL.
type Preview struct {
	MIMEType string
	Data     []byte
}

// PreviewRepo stores previews until they are deleted or their TTL passes.
// Nothing here outlives the process's configured TTL.
type PreviewRepo interface {
	Put(ctx context.Context, id uuid.UUID, p Preview) error
	Get(ctx context.Context, id uuid.UUID) (*Preview, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type memoryEntry struct {
	preview   Preview
	expiresAt time.Time
}

type MemoryPreviewRepo struct {
	mu      sync.Mutex
	entries map[uuid.UUID]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryPreviewRepo(ttl time.Duration) *MemoryPreviewRepo {
	return &MemoryPreviewRepo{
		entries: make(map[uuid.UUID]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryPreviewRepo) Put(_ context.Context, id uuid.UUID, p Preview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = memoryEntry{preview: p, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *MemoryPreviewRepo) Get(_ context.Context, id uuid.UUID) (*Preview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrPreviewNotFound
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.entries, id)
		return nil, ErrPreviewNotFound
	}
	p := e.preview
	return &p, nil
}

func (r *MemoryPreviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

// Purge drops expired previews and returns how many were removed.
func (r *MemoryPreviewRepo) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

type RedisPreviewRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPreviewRepo(client *redis.Client, ttl time.Duration) *RedisPreviewRepo {
	return &RedisPreviewRepo{client: client, ttl: ttl}
}

func previewKey(id uuid.UUID) string {
	return "preview:" + id.String()
}

func (r *RedisPreviewRepo) Put(ctx context.Context, id uuid.UUID, p Preview) error {
	key := previewKey(id)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, "mime_type", p.MIMEType, "data", p.Data)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store preview: %w", err)
	}
	return nil
}

func (r *RedisPreviewRepo) Get(ctx context.Context, id uuid.UUID) (*Preview, error) {
	fields, err := r.client.HGetAll(ctx, previewKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load preview: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrPreviewNotFound
	}
	return &Preview{MIMEType: fields["mime_type"], Data: []byte(fields["data"])}, nil
}

func (r *RedisPreviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, previewKey(id)).Err()
}
