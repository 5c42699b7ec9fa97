// Package quota keeps the running byte totals of quota checked namespaces.
package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/log"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/tidwall/btree"
)

var (
	errNotTracked   = errors.New("namespace is not tracked")
	errInvalidLimit = errors.New("quota limit must be positive")
)

// Walker enumerates the regular objects of a backing store.
type Walker interface {
	WalkObjects(ctx context.Context, fn backend.WalkFunc) error
}

// Tracker holds the quota state of every tracked namespace. The total of
// a namespace always equals the sum of its per-key sizes.
type Tracker struct {
	mu         sync.Mutex
	logger     *log.Logger
	namespaces map[data.Namespace]*state
}

type state struct {
	limit int64
	total int64
	// In-memory B-tree of key → size
	sizes *btree.Map[string, int64]
}

// Reservation describes an accepted write that has not been committed yet.
type Reservation struct {
	Namespace data.Namespace
	Key       string
	Previous  int64 // Size of the object being replaced, 0 if new
	Size      int64
	Projected int64 // Namespace total after the commit
}

func NewTracker(logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &Tracker{
		logger:     logger,
		namespaces: make(map[data.Namespace]*state),
	}
}

// Rebuild recomputes the state of ns by walking its backing store. Every
// regular file counts, including files the VFS did not write itself.
func (t *Tracker) Rebuild(ctx context.Context, ns data.Namespace, limit int64, walker Walker) error {
	if limit <= 0 {
		return fmt.Errorf("%w: %s", errInvalidLimit, ns)
	}

	st := &state{
		limit: limit,
		sizes: btree.NewMap[string, int64](0),
	}

	err := walker.WalkObjects(ctx, func(stat *data.FileStat) error {
		st.sizes.Set(stat.Key, stat.Size)
		st.total += stat.Size
		return nil
	})
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.namespaces[ns] = st
	t.mu.Unlock()

	t.logger.Info("Quota for '%s' rebuilt: %s of %s used in %d files",
		ns, humanize.Bytes(uint64(st.total)), humanize.Bytes(uint64(limit)), st.sizes.Len())
	if st.total > limit {
		t.logger.Warn("Namespace '%s' already exceeds its quota", ns)
	}

	return nil
}

// Forget drops the state of ns, e.g. when its mount is torn down.
func (t *Tracker) Forget(ns data.Namespace) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.namespaces, ns)
}

// Reserve checks whether replacing key with size bytes keeps ns within
// its limit. No state changes until the reservation is committed.
// A namespace that is already over its limit only accepts removals.
func (t *Tracker) Reserve(ns data.Namespace, key string, size int64) (*Reservation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.namespaces[ns]
	if !ok {
		return nil, verrors.IO(errNotTracked, "reserve", ns.String())
	}

	previous, _ := st.sizes.Get(key)
	projected := st.total - previous + size

	if projected > st.limit {
		return nil, verrors.QuotaExceeded(nil, ns.String()+":/"+key, projected, st.limit)
	}

	return &Reservation{
		Namespace: ns,
		Key:       key,
		Previous:  previous,
		Size:      size,
		Projected: projected,
	}, nil
}

// Commit applies a reservation after its physical write succeeded.
func (t *Tracker) Commit(r *Reservation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.namespaces[r.Namespace]
	if !ok {
		return
	}

	previous, _ := st.sizes.Get(r.Key)
	st.sizes.Set(r.Key, r.Size)
	st.total += r.Size - previous
}

// Release removes key from ns after it was deleted and returns the freed
// number of bytes.
func (t *Tracker) Release(ns data.Namespace, key string) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.namespaces[ns]
	if !ok {
		return 0
	}

	size, exists := st.sizes.Delete(key)
	if !exists {
		return 0
	}

	st.total -= size
	return size
}

// Usage returns the current total and limit of ns.
func (t *Tracker) Usage(ns data.Namespace) (used, limit int64, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.namespaces[ns]
	if !ok {
		return 0, 0, false
	}
	return st.total, st.limit, true
}
