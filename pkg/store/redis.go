package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/swimlane/pkg/errors"
)

// DefaultRedisPrefix namespaces swimlane keys.
const DefaultRedisPrefix = "swimlane:"

// RedisStore keeps each document as a JSON string at <prefix>diagram:<id>
// and indexes ids in the sorted set <prefix>diagrams, scored by update time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore connects to a redis server.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisStoreFromClient wraps an existing client. Close closes the client.
func NewRedisStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string { return s.prefix + "diagram:" + id }

func (s *RedisStore) indexKey() string { return s.prefix + "diagrams" }

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storageErr(err, "ping redis")
	}
	return nil
}

// Get loads a document.
func (s *RedisStore) Get(ctx context.Context, id string) (*Document, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get diagram %s", id)
	}
	return decode(data)
}

// Put writes the document and its index entry in one pipeline.
func (s *RedisStore) Put(ctx context.Context, doc *Document) error {
	if err := Check(doc); err != nil {
		return err
	}
	doc.UpdatedAt = now()
	data, err := encode(doc)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(doc.ID), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{
		Score:  float64(doc.UpdatedAt.UnixMilli()),
		Member: doc.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "put diagram %s", doc.ID)
	}
	return nil
}

// Delete removes the document and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return storageErr(err, "delete diagram %s", id)
	}
	return nil
}

// List reads the index and fetches all indexed documents. Index entries
// whose value has disappeared are pruned.
func (s *RedisStore) List(ctx context.Context) ([]Summary, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, storageErr(err, "list diagrams")
	}
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storageErr(err, "list diagrams")
	}

	out := make([]Summary, 0, len(vals))
	var stale []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		doc, err := decode([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, doc.Summary())
	}
	if len(stale) > 0 {
		s.client.ZRem(ctx, s.indexKey(), stale...)
	}
	return sortSummaries(out), nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
