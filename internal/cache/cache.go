// Package cache stores fetched record sets keyed by fetch kind.
package cache

import (
	"context"
	"time"
)

// Kind identifies one fetch operation.
type Kind string

const (
	KindMembers     Kind = "members"
	KindSubmissions Kind = "submissions"
)

// AllKinds lists every fetch kind; a refresh invalidates all of them.
var AllKinds = []Kind{KindMembers, KindSubmissions}

// Entry is a cached fetch result. Data is the JSON encoded record set.
type Entry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return !e.FetchedAt.IsZero() && now.Sub(e.FetchedAt) < ttl
}

// Cache is the storage behind the fetch memoization. Freshness is decided by
// the caller through Entry.Fresh; backends only keep and drop entries.
type Cache interface {
	Load(ctx context.Context, kind Kind) (Entry, bool, error)
	Save(ctx context.Context, kind Kind, entry Entry) error
	Invalidate(ctx context.Context, kinds ...Kind) error
}
