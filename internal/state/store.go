package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/shakeit/internal/recipe"
)

// ViewMode selects how result lists are laid out.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewGrid
)

// String returns the lowercase mode name used in preferences.
func (m ViewMode) String() string {
	if m == ViewGrid {
		return "grid"
	}
	return "list"
}

// ParseViewMode maps a preference value to a mode, defaulting to list.
func ParseViewMode(s string) ViewMode {
	if s == "grid" {
		return ViewGrid
	}
	return ViewList
}

// Toggle returns the other mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewGrid {
		return ViewList
	}
	return ViewGrid
}

// Loading has one flag per independent asynchronous load.
type Loading struct {
	List        bool
	Detail      bool
	Favorites   bool
	Ingredients bool
}

// Any reports whether any load is in flight.
func (l Loading) Any() bool {
	return l.List || l.Detail || l.Favorites || l.Ingredients
}

// Snapshot represents everything the UI should show.
type Snapshot struct {
	Results     []recipe.Recipe
	Selected    *recipe.Recipe
	Loading     Loading
	Error       string // empty when there is no error to show
	SearchText  string
	Favorites   []recipe.Recipe
	ViewMode    ViewMode
	Ingredients []string
	LastUpdated time.Time
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	changed  chan struct{}
}

// NewStore returns a store holding initial.
func NewStore(initial Snapshot) *Store {
	return &Store{snapshot: clone(initial)}
}

// Update replaces the snapshot with fn applied to the current one. fn runs
// under the write lock and must not call back into the store.
func (s *Store) Update(fn func(Snapshot) Snapshot) {
	s.mu.Lock()
	next := clone(fn(clone(s.snapshot)))
	next.LastUpdated = time.Now()
	s.snapshot = next
	ch := s.changed
	s.mu.Unlock()

	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.snapshot)
}

// Changes returns a channel that receives a value after updates. Bursts of
// updates coalesce into one notification; read Snapshot to see the result.
func (s *Store) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.changed == nil {
		s.changed = make(chan struct{}, 1)
	}
	return s.changed
}

func clone(snap Snapshot) Snapshot {
	dup := snap
	dup.Results = cloneSlice(snap.Results)
	dup.Favorites = cloneSlice(snap.Favorites)
	dup.Ingredients = cloneSlice(snap.Ingredients)
	if snap.Selected != nil {
		sel := *snap.Selected
		dup.Selected = &sel
	}
	return dup
}

func cloneSlice[T any](items []T) []T {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}
