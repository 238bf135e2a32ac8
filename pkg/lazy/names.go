package lazy

import (
	"context"
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/doodlesbykumbi/iam-in-go/pkg/metrics"
)

// Unknown is displayed for ids that could not be resolved
const Unknown = "unknown"

// Resolver returns the display names of ids
type Resolver func(ctx context.Context, ids []int64) (map[int64]string, error)

// ResolveBy adapts a bulk lookup to a Resolver. Entities without an id are
// skipped.
func ResolveBy[T any](get func(ctx context.Context, ids []int64) ([]T, error), id func(T) *int64, name func(T) string) Resolver {
	return func(ctx context.Context, ids []int64) (map[int64]string, error) {
		found, err := get(ctx, ids)
		if err != nil {
			return nil, err
		}
		names := make(map[int64]string, len(found))
		for _, e := range found {
			if id := id(e); id != nil {
				names[*id] = name(e)
			}
		}
		return names, nil
	}
}

// Names memoizes id to display name lookups for one kind of entity. Entries
// never expire; the cache lives as long as its data model.
type Names struct {
	model   string
	resolve Resolver
	cache   *cache.Cache
}

// NewNames creates an empty name cache
func NewNames(model string, resolve Resolver) *Names {
	return &Names{
		model:   model,
		resolve: resolve,
		cache:   cache.New(cache.NoExpiration, 0),
	}
}

// Prefetch resolves, in one call, the ids not cached yet
func (n *Names) Prefetch(ctx context.Context, ids []int64) error {
	seen := make(map[int64]struct{}, len(ids))
	var missing []int64
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := n.cache.Get(key(id)); ok {
			metrics.EnrichmentLookupsTotal.WithLabelValues(n.model, "hit").Inc()
			continue
		}
		metrics.EnrichmentLookupsTotal.WithLabelValues(n.model, "miss").Inc()
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return nil
	}

	names, err := n.resolve(ctx, missing)
	if err != nil {
		return err
	}
	for id, name := range names {
		n.cache.Set(key(id), name, cache.NoExpiration)
	}
	return nil
}

// Name returns the cached name of id, or Unknown
func (n *Names) Name(id int64) string {
	if v, ok := n.cache.Get(key(id)); ok {
		return v.(string)
	}
	return Unknown
}

// Len is the number of cached names
func (n *Names) Len() int {
	return n.cache.ItemCount()
}

func key(id int64) string {
	return strconv.FormatInt(id, 10)
}
