package scheduler

import (
	"container/list"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// checker is the subset of *Manager's surface the search engine and
// propagator depend on. CachedManager implements it too, so either can be
// dropped into searchState/Propagate interchangeably.
type checker interface {
	Check(assignment LessonAssignment, ctx Context) []Violation
	IsValid(assignment LessonAssignment, ctx Context) bool
}

// ConstraintCache memoizes constraint evaluation results keyed by the
// structural fingerprint of (assignment, existing-assignment context),
// per spec.md's cache note: the same tentative placement against the same
// context is re-evaluated often across backtracking branches and across
// the relaxation cascade's repeated passes.
type ConstraintCache interface {
	Get(key string) ([]Violation, bool)
	Set(key string, violations []Violation)
}

// LRUCache is the default in-memory ConstraintCache: bounded, evict-oldest.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type lruEntry struct {
	key    string
	values []Violation
}

// NewLRUCache builds an in-memory cache holding at most capacity entries.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = 4096
	}
	return &LRUCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *LRUCache) Get(key string) ([]Violation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*lruEntry).values, true
}

func (c *LRUCache) Set(key string, violations []Violation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).values = violations
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&lruEntry{key: key, values: violations})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry).key)
		}
	}
}

// RedisConstraintCache backs the cache with Redis, for sharing constraint
// results across solver instances (e.g. parallel branches or horizontally
// scaled HTTP workers) rather than per-process memory.
type RedisConstraintCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisConstraintCache wraps an already-connected client.
func NewRedisConstraintCache(client *redis.Client, prefix string, ttl time.Duration) *RedisConstraintCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisConstraintCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisConstraintCache) Get(key string) ([]Violation, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		return nil, false
	}
	var violations []Violation
	if err := json.Unmarshal(raw, &violations); err != nil {
		return nil, false
	}
	return violations, true
}

func (c *RedisConstraintCache) Set(key string, violations []Violation) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	raw, err := json.Marshal(violations)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err()
}

// CachedManager wraps a *Manager with a ConstraintCache, so that repeated
// Check calls for the same (assignment, context) pair across backtracking
// branches and relaxation-cascade passes skip re-evaluating every
// constraint.
type CachedManager struct {
	inner *Manager
	cache ConstraintCache
}

// NewCachedManager wraps manager with cache; a nil cache falls back to an
// unbounded-free passthrough (equivalent to using manager directly).
func NewCachedManager(manager *Manager, cache ConstraintCache) *CachedManager {
	return &CachedManager{inner: manager, cache: cache}
}

func (m *CachedManager) Check(assignment LessonAssignment, ctx Context) []Violation {
	if m.cache == nil {
		return m.inner.Check(assignment, ctx)
	}
	key := fingerprint(assignment, ctx)
	if cached, ok := m.cache.Get(key); ok {
		return cached
	}
	violations := m.inner.Check(assignment, ctx)
	m.cache.Set(key, violations)
	return violations
}

func (m *CachedManager) IsValid(assignment LessonAssignment, ctx Context) bool {
	for _, v := range m.Check(assignment, ctx) {
		if v.Type == Hard {
			return false
		}
	}
	return true
}

// fingerprint builds a stable cache key from a tentative assignment and the
// existing-assignment context it's checked against. The registered
// constraint set is assumed fixed per Manager instance, so it is not part
// of the key.
func fingerprint(a LessonAssignment, ctx Context) string {
	existing := make([]LessonAssignment, len(ctx.ExistingAssignments))
	copy(existing, ctx.ExistingAssignments)
	sort.Slice(existing, func(i, j int) bool {
		if existing[i].StudentID != existing[j].StudentID {
			return existing[i].StudentID < existing[j].StudentID
		}
		if existing[i].DayOfWeek != existing[j].DayOfWeek {
			return existing[i].DayOfWeek < existing[j].DayOfWeek
		}
		return existing[i].Start < existing[j].Start
	})

	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%d|%s#", a.StudentID, a.DayOfWeek, a.Start, a.Duration, ctx.Student.Person.ID)
	for _, e := range existing {
		fmt.Fprintf(h, "%s:%d:%d:%d;", e.StudentID, e.DayOfWeek, e.Start, e.Duration)
	}
	return fmt.Sprintf("%x", h.Sum64())
}
