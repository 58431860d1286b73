// Package state holds the single snapshot the shakeit UI renders from.
//
// # Overview
//
// Session operations finish on their own goroutines and publish results
// into a Store; the UI reads Snapshot whenever it renders. The Store is the
// only place the two meet.
//
//	Producers (session ops):         Consumer (UI):
//	┌──────────────────────┐        ┌──────────────────┐
//	│ search / random /    │        │                  │
//	│ favorites watch ...  │        │                  │
//	│         ↓            │        │                  │
//	│ store.Update(fn)     │───────→│ store.Snapshot() │
//	└──────────────────────┘ (mutex)└──────────────────┘
//
// # Update Semantics
//
// Every change is a read-modify-replace: Update hands fn a copy of the
// current snapshot and stores whatever fn returns.
//
//	store.Update(func(s state.Snapshot) state.Snapshot {
//		s.Results = results
//		s.Loading.List = false
//		return s
//	})
//
// Readers never see a half-applied change. Two updates racing on the same
// field resolve by completion order: whichever Update runs last wins.
//
// # Defensive Copying
//
// Update and Snapshot both copy slices and the selected recipe so callers
// can keep or mutate what they hold without affecting the store.
//
// # Change notification
//
// Changes returns a channel that is signalled (non-blocking, coalesced)
// after each Update, for renderers that want to redraw on change instead of
// polling.
//
// The zero Store is ready to use.
package state
