package directory

import (
	"context"

	"github.com/gatherhub/gatherhub/internal/cache"
	"github.com/gatherhub/gatherhub/internal/domain/event"
)

type EventsSource interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

// CachedEvents fronts an event source with a short TTL cache. Lookups may
// be stale for at most the TTL; the registration engine re-reads capacity
// under its per-event lock so the window is harmless for reads.
type CachedEvents struct {
	src   EventsSource
	cache *cache.Cache
}

func NewCachedEvents(src EventsSource, c *cache.Cache) *CachedEvents {
	return &CachedEvents{
		src:   src,
		cache: c,
	}
}

func (d *CachedEvents) GetByID(ctx context.Context, id string) (event.Event, error) {
	if v, ok := d.cache.Get(id); ok {
		if e, ok := v.(event.Event); ok {
			return e, nil
		}
	}

	e, err := d.src.GetByID(ctx, id)

	if err != nil {
		return event.Event{}, err
	}

	d.cache.Set(id, e)

	return e, nil
}

// Invalidate drops a cached entry, used after event updates and deletes.

func (d *CachedEvents) Invalidate(id string) {
	d.cache.Delete(id)
}
