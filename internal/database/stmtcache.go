// internal/database/stmtcache.go
//
// Bounded LRU of prepared statements, keyed by query text.
//
// Concurrency contract
// --------------------
// Safe for concurrent use.  Concurrent misses on the same query are
// deduplicated by the caller (PreparexCached) via singleflight, and an
// insert that races an existing entry keeps the cached statement and
// closes the newcomer, so a statement handed to one borrower is never
// closed by a competing insert.  Eviction does close the least
// recently used statement; statements therefore stay owned by the
// cache and must be re-requested per use, not retained.
//
// A capacity below one disables caching entirely.

package database

import (
	"container/list"
	"sync"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"
)

type stmtCache struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	dict  map[string]*list.Element
	group singleflight.Group
}

type stmtEntry struct {
	query string
	stmt  *sqlx.Stmt
}

// newStmtCache returns a cache bounded at capacity, or nil when
// capacity < 1 (callers treat nil as caching disabled).
func newStmtCache(capacity int) *stmtCache {
	if capacity < 1 {
		return nil
	}
	return &stmtCache{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[string]*list.Element, capacity),
	}
}

// get retrieves a statement and marks it most recently used.
func (c *stmtCache) get(query string) (*sqlx.Stmt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[query]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(stmtEntry).stmt, true
	}
	return nil, false
}

// put inserts stmt and returns the statement now cached for query.
// When an entry already exists the cached statement wins and the
// newcomer is closed; earlier borrowers keep a live handle.  A full
// cache evicts and closes its least recently used entry.
func (c *stmtCache) put(query string, stmt *sqlx.Stmt) *sqlx.Stmt {
	c.mu.Lock()
	if ele, hit := c.dict[query]; hit {
		cached := ele.Value.(stmtEntry).stmt
		c.ll.MoveToFront(ele)
		c.mu.Unlock()
		if cached != stmt {
			_ = stmt.Close()
		}
		return cached
	}

	c.dict[query] = c.ll.PushFront(stmtEntry{query, stmt})
	var evicted *sqlx.Stmt
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		entry := last.Value.(stmtEntry)
		delete(c.dict, entry.query)
		evicted = entry.stmt
	}
	c.mu.Unlock()

	if evicted != nil {
		_ = evicted.Close()
	}
	return stmt
}

// len reports current size.
func (c *stmtCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// close releases every cached statement.
func (c *stmtCache) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ele := range c.dict {
		_ = ele.Value.(stmtEntry).stmt.Close()
	}
	c.ll.Init()
	c.dict = make(map[string]*list.Element)
}
