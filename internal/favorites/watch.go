package favorites

import (
	"context"
)

type watcher struct {
	// signal is buffered so a burst of writes coalesces into one re-query.
	signal chan struct{}
}

// WatchExists emits whether id is stored, now and after every write.
func (s *Store) WatchExists(ctx context.Context, id string) <-chan bool {
	return watch(ctx, s, "exists", func(ctx context.Context) (bool, error) {
		return s.Exists(ctx, id)
	})
}

// WatchCount emits the row count, now and after every write.
func (s *Store) WatchCount(ctx context.Context) <-chan int {
	return watch(ctx, s, "count", s.Count)
}

// WatchAll emits the full table ordered by name, now and after every write.
func (s *Store) WatchAll(ctx context.Context) <-chan []Record {
	return watch(ctx, s, "all", s.All)
}

// watch runs query once immediately and again after each committed write,
// sending results on the returned channel. A failed query is logged and
// emits the zero value of T. A result not yet received when another write
// lands is dropped in favor of a fresh query. The channel is closed when ctx
// ends or the store closes.
func watch[T any](ctx context.Context, s *Store, name string, query func(context.Context) (T, error)) <-chan T {
	out := make(chan T)
	w := s.register()
	if w == nil {
		close(out)
		return out
	}

	go func() {
		defer close(out)
		defer s.unregister(w)

		for {
			value, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("favorites watch query failed", "watch", name, "error", err)
				var zero T
				value = zero
			}
			select {
			case out <- value:
			case <-ctx.Done():
				return
			case _, ok := <-w.signal:
				if !ok {
					return
				}
				continue
			}

			select {
			case <-ctx.Done():
				return
			case _, ok := <-w.signal:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}

func (s *Store) register() *watcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	w := &watcher{signal: make(chan struct{}, 1)}
	s.watchers[w] = struct{}{}
	return w
}

func (s *Store) unregister(w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, w)
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers {
		select {
		case w.signal <- struct{}{}:
		default:
		}
	}
}
