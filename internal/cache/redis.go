package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "classaction-admin/internal/common/errors"
)

// Redis keeps entries under <prefix><kind>. Keys expire after expiry so a
// forgotten entry cannot outlive the TTL by much.
type Redis struct {
	client redis.Cmdable
	prefix string
	expiry time.Duration
}

func NewRedis(client redis.Cmdable, prefix string, expiry time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, expiry: expiry}
}

func (r *Redis) Key(kind Kind) string {
	return r.prefix + string(kind)
}

func (r *Redis) Load(ctx context.Context, kind Kind) (Entry, bool, error) {
	val, err := r.client.Get(ctx, r.Key(kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, commonerrors.NewCacheUnavailableError("get", err)
	}

	var e Entry
	if err := json.Unmarshal(val, &e); err != nil {
		// unreadable entries count as a miss and get overwritten on the next save
		return Entry{}, false, nil
	}
	return e, true, nil
}

func (r *Redis) Save(ctx context.Context, kind Kind, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return commonerrors.NewCacheUnavailableError("encode", err)
	}
	if err := r.client.Set(ctx, r.Key(kind), data, r.expiry).Err(); err != nil {
		return commonerrors.NewCacheUnavailableError("set", err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, kinds ...Kind) error {
	if len(kinds) == 0 {
		return nil
	}
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = r.Key(k)
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return commonerrors.NewCacheUnavailableError("del", err)
	}
	return nil
}
