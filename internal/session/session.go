package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/favorites"
	"github.com/five82/shakeit/internal/recipe"
	"github.com/five82/shakeit/internal/state"
)

// Favorites is the subset of the favorites store a Session needs.
// *favorites.Store implements it.
type Favorites interface {
	Upsert(ctx context.Context, r favorites.Record) error
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	Exists(ctx context.Context, id string) (bool, error)
	WatchExists(ctx context.Context, id string) <-chan bool
	WatchAll(ctx context.Context) <-chan []favorites.Record
}

var _ Favorites = (*favorites.Store)(nil)

// Session applies UI intents to a state.Store. Every operation returns
// immediately; its I/O runs on a separate goroutine and publishes into the
// store when it completes. Operations of the same kind are not cancelled
// when superseded; whichever completes last wins.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	lookup cocktaildb.Lookup
	favs   Favorites
	store  *state.Store
	logger *slog.Logger

	wg sync.WaitGroup

	mu            sync.Mutex
	favGen        uint64
	stopFavorites context.CancelFunc
}

// New builds a Session. Cancelling ctx (or calling Close) stops the
// favorites subscription and abandons in-flight requests.
func New(ctx context.Context, lookup cocktaildb.Lookup, favs Favorites, store *state.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ctx:    ctx,
		cancel: cancel,
		lookup: lookup,
		favs:   favs,
		store:  store,
		logger: logger,
	}
}

// Store returns the snapshot store the session publishes into.
func (s *Session) Store() *state.Store {
	return s.store
}

// Start issues the initial loads: a random recipe, the favorites list and
// the ingredient catalog.
func (s *Session) Start() {
	s.FetchRandom()
	s.LoadFavorites()
	s.LoadIngredientCatalog()
}

// Wait blocks until every operation issued so far has published its result.
// For LoadFavorites that means the first emission of its subscription.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Close cancels the session and waits for outstanding work to finish.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

// FetchRandom replaces the results with one random recipe and selects it.
func (s *Session) FetchRandom() {
	s.beginList(nil)
	s.wg.Go(func() {
		resp, err := s.lookup.FindRandom(s.ctx)
		if err != nil {
			s.readFailed("random", err)
			resp = cocktaildb.DrinksResponse{}
		}
		var selected *recipe.Recipe
		var results []recipe.Recipe
		if len(resp.Drinks) > 0 {
			r := recipe.FromDrink(resp.Drinks[0])
			selected = &r
			results = []recipe.Recipe{r}
		}
		s.store.Update(func(snap state.Snapshot) state.Snapshot {
			snap.Results = results
			snap.Selected = selected
			snap.Loading.List = false
			return snap
		})
	})
}

// Search looks up recipes by name and records query as the search text.
func (s *Session) Search(query string) {
	s.beginList(&query)
	s.runList("search by name", func(ctx context.Context) (cocktaildb.DrinksResponse, error) {
		return s.lookup.FindByName(ctx, query)
	})
}

// SearchByLetter lists recipes starting with letter. The search text is
// left unchanged.
func (s *Session) SearchByLetter(letter string) {
	s.beginList(nil)
	s.runList("search by letter", func(ctx context.Context) (cocktaildb.DrinksResponse, error) {
		return s.lookup.FindByFirstLetter(ctx, letter)
	})
}

// SearchByIngredient lists recipes using ingredient and records it as the
// search text. Results are thin until selected.
func (s *Session) SearchByIngredient(ingredient string) {
	s.beginList(&ingredient)
	s.runList("search by ingredient", func(ctx context.Context) (cocktaildb.DrinksResponse, error) {
		return s.lookup.FindByIngredient(ctx, ingredient)
	})
}

// UpdateSearchText changes the search text without searching.
func (s *Session) UpdateSearchText(text string) {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.SearchText = text
		return snap
	})
}

// SelectRecipe selects r right away. When r lacks instructions or
// ingredients, the full recipe is fetched by id and replaces the selection
// when it arrives.
func (s *Session) SelectRecipe(r recipe.Recipe) {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Selected = &r
		return snap
	})
	if !r.Complete() {
		s.loadDetails(r.ID)
	}
}

// ClearSelection drops the selected recipe.
func (s *Session) ClearSelection() {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Selected = nil
		return snap
	})
}

func (s *Session) loadDetails(id string) {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Loading.Detail = true
		return snap
	})
	s.wg.Go(func() {
		resp, err := s.lookup.FindByID(s.ctx, id)
		if err != nil {
			s.readFailed("lookup by id", err, "id", id)
			resp = cocktaildb.DrinksResponse{}
		}
		s.store.Update(func(snap state.Snapshot) state.Snapshot {
			if len(resp.Drinks) > 0 {
				detailed := recipe.FromDrink(resp.Drinks[0])
				snap.Selected = &detailed
			}
			snap.Loading.Detail = false
			return snap
		})
	})
}

// ToggleFavorite removes r from favorites if present, otherwise stores it,
// then reloads the favorites list. The check and the write are separate
// steps, so two toggles of the same id racing each other can both observe
// the same starting state.
func (s *Session) ToggleFavorite(r recipe.Recipe) {
	s.wg.Go(func() {
		if err := s.toggle(s.ctx, r); err != nil {
			s.writeFailed("Failed to update favorites", err)
			return
		}
		s.LoadFavorites()
	})
}

func (s *Session) toggle(ctx context.Context, r recipe.Recipe) error {
	isFavorite, err := s.favs.Exists(ctx, r.ID)
	if err != nil {
		return err
	}
	if isFavorite {
		s.logger.Debug("removing favorite", "id", r.ID, "name", r.Name)
		return s.favs.DeleteByID(ctx, r.ID)
	}
	s.logger.Debug("adding favorite", "id", r.ID, "name", r.Name)
	return s.favs.Upsert(ctx, recipe.ToFavoriteRecord(r))
}

// AddFavorite stores r, replacing any stored copy, then reloads the list.
func (s *Session) AddFavorite(r recipe.Recipe) {
	s.wg.Go(func() {
		if err := s.favs.Upsert(s.ctx, recipe.ToFavoriteRecord(r)); err != nil {
			s.writeFailed("Failed to update favorites", err)
			return
		}
		s.LoadFavorites()
	})
}

// RemoveFavorite deletes id from favorites, then reloads the list.
func (s *Session) RemoveFavorite(id string) {
	s.wg.Go(func() {
		if err := s.favs.DeleteByID(s.ctx, id); err != nil {
			s.writeFailed("Failed to update favorites", err)
			return
		}
		s.LoadFavorites()
	})
}

// IsFavorite returns a live observation of whether id is a favorite.
func (s *Session) IsFavorite(ctx context.Context, id string) <-chan bool {
	return s.favs.WatchExists(ctx, id)
}

// ClearFavorites deletes every favorite and reloads the list.
func (s *Session) ClearFavorites() {
	s.wg.Go(func() {
		if err := s.favs.DeleteAll(s.ctx); err != nil {
			s.writeFailed("Failed to clear favorites", err)
			return
		}
		s.LoadFavorites()
	})
}

// LoadFavorites subscribes to the stored favorites and republishes every
// emission as recipes. A new call replaces the previous subscription.
func (s *Session) LoadFavorites() {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Loading.Favorites = true
		return snap
	})

	ctx, cancel := context.WithCancel(s.ctx)
	s.mu.Lock()
	if s.stopFavorites != nil {
		s.stopFavorites()
	}
	s.stopFavorites = cancel
	s.favGen++
	gen := s.favGen
	s.mu.Unlock()

	records := s.favs.WatchAll(ctx)

	s.wg.Add(1)
	go func() {
		first := true
		defer func() {
			if first {
				s.wg.Done()
			}
		}()
		for recs := range records {
			recipes := recipe.ToRecipes(recs)
			s.store.Update(func(snap state.Snapshot) state.Snapshot {
				if !s.currentFavorites(gen) {
					return snap
				}
				snap.Favorites = recipes
				snap.Loading.Favorites = false
				return snap
			})
			if first {
				first = false
				s.wg.Done()
			}
		}
	}()
}

func (s *Session) currentFavorites(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favGen == gen
}

// LoadIngredientCatalog fetches every ingredient name, sorted ascending.
func (s *Session) LoadIngredientCatalog() {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Loading.Ingredients = true
		return snap
	})
	s.wg.Go(func() {
		resp, err := s.lookup.ListIngredientNames(s.ctx)
		if err != nil {
			s.readFailed("list ingredients", err)
			resp = cocktaildb.IngredientListResponse{}
		}
		names := lo.Map(resp.Drinks, func(item cocktaildb.IngredientItem, _ int) string {
			return item.Name
		})
		slices.Sort(names)
		s.store.Update(func(snap state.Snapshot) state.Snapshot {
			snap.Ingredients = names
			snap.Loading.Ingredients = false
			return snap
		})
	})
}

// ToggleViewMode flips between list and grid layout.
func (s *Session) ToggleViewMode() {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.ViewMode = snap.ViewMode.Toggle()
		return snap
	})
}

// beginList marks the result list as loading and clears the last error.
// A non-nil searchText also replaces the search text.
func (s *Session) beginList(searchText *string) {
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		if searchText != nil {
			snap.SearchText = *searchText
		}
		snap.Loading.List = true
		snap.Error = ""
		return snap
	})
}

func (s *Session) runList(op string, fetch func(context.Context) (cocktaildb.DrinksResponse, error)) {
	s.wg.Go(func() {
		resp, err := fetch(s.ctx)
		if err != nil {
			s.readFailed(op, err)
			resp = cocktaildb.DrinksResponse{}
		}
		results := recipe.FromDrinks(resp.Drinks)
		s.store.Update(func(snap state.Snapshot) state.Snapshot {
			snap.Results = results
			snap.Loading.List = false
			return snap
		})
	})
}

// readFailed logs a failed read. Reads degrade to empty results and never
// surface in the snapshot.
func (s *Session) readFailed(op string, err error, attrs ...any) {
	s.logger.Warn("lookup failed", append([]any{"op", op, "error", err}, attrs...)...)
}

// writeFailed publishes a failed write as the snapshot error.
func (s *Session) writeFailed(prefix string, err error) {
	s.logger.Error(prefix, "error", err)
	msg := fmt.Sprintf("%s: %v", prefix, err)
	s.store.Update(func(snap state.Snapshot) state.Snapshot {
		snap.Error = msg
		return snap
	})
}
