package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/five82/shakeit/internal/recipe"
	"github.com/five82/shakeit/internal/state"
)

const defaultPollInterval = 2 * time.Second

// watchFavorites prints the favorites list, then reprints it whenever the
// session publishes a different list, until ctx is cancelled. Writes made
// by other processes are picked up by re-subscribing on a fixed cadence.
func (a *app) watchFavorites(ctx context.Context) error {
	changes := a.session.Store().Changes()
	a.session.LoadFavorites()
	a.session.Wait()

	grp, ctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		return followSnapshots(ctx, a.session.Store(), changes, favoritesChanged, func(snap state.Snapshot) error {
			return a.printer.Results(fmt.Sprintf("Favorites (%d)", len(snap.Favorites)), snap.Favorites, snap.ViewMode)
		})
	})
	grp.Go(func() error {
		startPoller(ctx, defaultPollInterval, a.session.LoadFavorites)
		return nil
	})
	grp.Go(func() error {
		for n := range a.favs.WatchCount(ctx) {
			a.logger.Debug("favorites count", "count", n)
		}
		return nil
	})

	err := grp.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// followSnapshots calls emit with the current snapshot and again after each
// change notification for which changed reports a difference. It returns
// ctx.Err() once ctx ends.
func followSnapshots(ctx context.Context, store *state.Store, changes <-chan struct{}, changed func(prev, next state.Snapshot) bool, emit func(state.Snapshot) error) error {
	prev := store.Snapshot()
	if err := emit(prev); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
		}
		next := store.Snapshot()
		if !changed(prev, next) {
			continue
		}
		if err := emit(next); err != nil {
			return err
		}
		prev = next
	}
}

func favoritesChanged(prev, next state.Snapshot) bool {
	return !slices.EqualFunc(prev.Favorites, next.Favorites, func(a, b recipe.Recipe) bool {
		return a == b
	})
}

// startPoller calls refresh every interval until ctx is cancelled. It blocks.
func startPoller(ctx context.Context, interval time.Duration, refresh func()) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
