// Package app is the composition root for the shakeit command.
//
// # Overview
//
// Run loads configuration, builds the remote lookup client, opens the
// favorites database, creates a state.Store seeded with the saved view mode
// and hands everything to a session.Session. It then executes one command,
// waits for the session to settle and prints the resulting snapshot.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.LoadEnvFile()  Export .env into the environment
//	       ├─────> config.Load()         Read ~/.config/shakeit/config.toml
//	       ├─────> prefs.Load()          Read view mode and grid columns
//	       ├─────> cocktaildb.NewClient() Create HTTP client
//	       ├─────> favorites.Open()      Open the SQLite store
//	       ├─────> session.New()         Intent layer over state.Store
//	       └─────> dispatch()            Run one command, then render
//
// # Error Handling
//
// Read failures never reach the user as errors; the session turns them into
// empty results and logs them. Write failures land in the snapshot's Error
// field, are printed, and make Run return an error so the process exits
// non-zero.
//
// # Watching
//
// "favorites watch" prints the favorites list, then reprints it whenever it
// changes. Changes made in-process arrive through the store's live
// observation; changes from other processes are picked up by a poller that
// re-subscribes every two seconds.
package app
