package query

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/facilitator-console/internal/platform/logger"
)

const (
	DefaultStaleTime = 30 * time.Second

	defaultReadRetries     = 3
	defaultMutationRetries = 1
	defaultBackoffBase     = time.Second
	defaultBackoffMax      = 30 * time.Second
)

// Key identifies one cached read. Detail is empty for list reads.
type Key struct {
	Scope    string
	Resource string
	Detail   string
	Filters  map[string]string
}

// String renders scope|resource|detail|k=v&k=v with filters sorted and blanks dropped.
func (k Key) String() string {
	names := make([]string, 0, len(k.Filters))
	for name, v := range k.Filters {
		if strings.TrimSpace(v) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(k.Scope)
	b.WriteByte('|')
	b.WriteString(k.Resource)
	b.WriteByte('|')
	b.WriteString(k.Detail)
	b.WriteByte('|')
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(k.Filters[name])
	}
	return b.String()
}

type entry struct {
	key     Key
	value   any
	expires time.Time
}

type Option func(*Cache)

func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.staleTime = d
		}
	}
}

// WithBackoff overrides the retry backoff (base doubles per attempt, capped at max).
func WithBackoff(base, max time.Duration) Option {
	return func(c *Cache) {
		c.backoffBase = base
		c.backoffMax = max
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Cache is the read cache shared by all resource services. Writers never touch
// entries in place; they invalidate and the next read refetches.
type Cache struct {
	log *logger.Logger

	mu      sync.RWMutex
	entries map[string]entry
	// generations bump on every invalidation of a resource so an in-flight read
	// that started before the invalidation does not repopulate stale data.
	generations map[string]uint64

	group singleflight.Group

	staleTime       time.Duration
	readRetries     int
	mutationRetries int
	backoffBase     time.Duration
	backoffMax      time.Duration
	now             func() time.Time
}

func NewCache(log *logger.Logger, opts ...Option) *Cache {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Cache{
		log:             log.With("service", "QueryCache"),
		entries:         map[string]entry{},
		generations:     map[string]uint64{},
		staleTime:       DefaultStaleTime,
		readRetries:     defaultReadRetries,
		mutationRetries: defaultMutationRetries,
		backoffBase:     defaultBackoffBase,
		backoffMax:      defaultBackoffMax,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) get(k Key) (any, bool) {
	id := k.String()
	c.mu.RLock()
	e, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, still := c.entries[id]; still && cur.expires == e.expires {
			delete(c.entries, id)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) generation(resource string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generations[resource]
}

// setIfCurrent stores v unless resource was invalidated after gen was read.
func (c *Cache) setIfCurrent(k Key, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[k.Resource] != gen {
		return
	}
	c.entries[k.String()] = entry{key: k, value: v, expires: c.now().Add(c.staleTime)}
}

// Invalidate drops every list and detail entry of resource in every scope.
func (c *Cache) Invalidate(resource string) {
	c.drop(resource, func(e entry) bool { return e.key.Resource == resource })
}

// InvalidateLists drops list entries of resource and keeps cached details.
func (c *Cache) InvalidateLists(resource string) {
	c.drop(resource, func(e entry) bool { return e.key.Resource == resource && e.key.Detail == "" })
}

// InvalidateDetail drops the cached detail of one record in every scope.
func (c *Cache) InvalidateDetail(resource, id string) {
	if id == "" {
		return
	}
	c.drop(resource, func(e entry) bool { return e.key.Resource == resource && e.key.Detail == id })
}

func (c *Cache) drop(resource string, match func(entry) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[resource]++
	for id, e := range c.entries {
		if match(e) {
			delete(c.entries, id)
		}
	}
}

// Purge drops everything cached for scope (logout).
func (c *Cache) Purge(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for id, e := range c.entries {
		if e.key.Scope == scope {
			delete(c.entries, id)
			n++
		}
	}
	for resource := range c.generations {
		c.generations[resource]++
	}
	c.log.Debug("query cache purged", "session_id", scope, "entries", n)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
