// Package favorites persists the user's favorite cocktails in a local
// SQLite database.
//
// The store holds a single table keyed by drink id. Writes (Upsert,
// DeleteByID, DeleteAll) each run in their own transaction; after a commit
// every live watcher re-runs its query and emits the new result:
//
//	favs := store.WatchAll(ctx)
//	for records := range favs {
//		render(records)
//	}
//
// Watch channels emit the current value immediately and close when the
// context ends or the store is closed. Readers that fall behind see only
// the newest result.
//
// Ingredients and measures are stored as comma-joined strings rather than
// numbered slots; see the recipe package for the conversion.
package favorites
