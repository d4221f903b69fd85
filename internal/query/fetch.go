package query

import (
	"context"
	"strings"

	"github.com/yungbote/facilitator-console/internal/platform/apierr"
	"github.com/yungbote/facilitator-console/internal/platform/ctxutil"
	"github.com/yungbote/facilitator-console/internal/platform/httpx"
)

// Read describes one cached read. When RequireID is set and ID is blank the
// read fails closed: no request is issued and no data is returned.
type Read struct {
	Resource  string
	ID        string
	RequireID bool
	Filters   map[string]string
}

func (r Read) key(ctx context.Context) Key {
	return Key{Scope: ctxutil.SessionID(ctx), Resource: r.Resource, Detail: r.ID, Filters: r.Filters}
}

// Fetch returns the cached value for r or loads it. Identical concurrent loads
// share one request. Client errors (4xx except 408/429) are returned at once;
// everything else is retried with exponential backoff.
func Fetch[T any](ctx context.Context, c *Cache, r Read, load func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	if r.RequireID && strings.TrimSpace(r.ID) == "" {
		return zero, false, nil
	}
	k := r.key(ctx)
	if v, ok := c.get(k); ok {
		if typed, ok := v.(T); ok {
			return typed, true, nil
		}
	}

	gen := c.generation(r.Resource)
	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		out, err := withRetry(ctx, c, c.readRetries, "read", r.Resource, load)
		if err != nil {
			return nil, err
		}
		c.setIfCurrent(k, gen, out)
		return out, nil
	})
	if err != nil {
		return zero, false, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false, nil
	}
	return typed, true, nil
}

// Write describes one mutation and the cache entries it makes stale.
type Write struct {
	Resource string
	// ID, when set, also drops that record's cached detail.
	ID string
	// Related resources are invalidated wholesale (e.g. dashboard counts).
	Related []string
}

// Mutate runs do with at most one retry for retryable failures and, on success,
// invalidates the written resource's lists, its detail and every related resource.
func Mutate[T any](ctx context.Context, c *Cache, w Write, do func(context.Context) (T, error)) (T, error) {
	out, err := withRetry(ctx, c, c.mutationRetries, "write", w.Resource, do)
	if err != nil {
		return out, err
	}
	c.InvalidateLists(w.Resource)
	c.InvalidateDetail(w.Resource, w.ID)
	for _, related := range w.Related {
		c.Invalidate(related)
	}
	return out, nil
}

func withRetry[T any](ctx context.Context, c *Cache, retries int, kind, resource string, fn func(context.Context) (T, error)) (T, error) {
	var (
		out T
		err error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		out, err = fn(ctx)
		if err == nil {
			return out, nil
		}
		if !httpx.IsRetryableError(err) || attempt == retries {
			return out, err
		}
		sleepFor := httpx.JitterSleep(httpx.ExponentialBackoff(attempt, c.backoffBase, c.backoffMax))
		if hint := apierr.RetryAfterOf(err); hint > sleepFor {
			sleepFor = hint
		}
		c.log.Warn("query retrying",
			"kind", kind,
			"resource", resource,
			"attempt", attempt+1,
			"max_retries", retries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if sleepErr := httpx.Sleep(ctx, sleepFor); sleepErr != nil {
			return out, err
		}
	}
	return out, err
}
