package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/samber/lo"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/favorites"
	"github.com/five82/shakeit/internal/recipe"
	"github.com/five82/shakeit/internal/state"
)

// fakeLookup serves drinks from memory. Calls whose key appears in gates
// block until the gate channel is closed.
type fakeLookup struct {
	mu          sync.Mutex
	byID        map[string]cocktaildb.Drink
	byName      map[string][]cocktaildb.Drink
	byLetter    map[string][]cocktaildb.Drink
	byIngr      map[string][]cocktaildb.Drink
	random      *cocktaildb.Drink
	ingredients []string
	err         error
	gates       map[string]chan struct{}
	calls       []string
}

var _ cocktaildb.Lookup = (*fakeLookup)(nil)

func (f *fakeLookup) enter(key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	gate := f.gates[key]
	err := f.err
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return err
}

func (f *fakeLookup) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return lo.Count(f.calls, key)
}

func (f *fakeLookup) FindByName(_ context.Context, name string) (cocktaildb.DrinksResponse, error) {
	if err := f.enter("name:" + name); err != nil {
		return cocktaildb.DrinksResponse{}, err
	}
	return cocktaildb.DrinksResponse{Drinks: f.byName[name]}, nil
}

func (f *fakeLookup) FindByFirstLetter(_ context.Context, letter string) (cocktaildb.DrinksResponse, error) {
	if err := f.enter("letter:" + letter); err != nil {
		return cocktaildb.DrinksResponse{}, err
	}
	return cocktaildb.DrinksResponse{Drinks: f.byLetter[letter]}, nil
}

func (f *fakeLookup) FindByIngredient(_ context.Context, ingredient string) (cocktaildb.DrinksResponse, error) {
	if err := f.enter("ingredient:" + ingredient); err != nil {
		return cocktaildb.DrinksResponse{}, err
	}
	return cocktaildb.DrinksResponse{Drinks: f.byIngr[ingredient]}, nil
}

func (f *fakeLookup) FindByID(_ context.Context, id string) (cocktaildb.DrinksResponse, error) {
	if err := f.enter("id:" + id); err != nil {
		return cocktaildb.DrinksResponse{}, err
	}
	d, ok := f.byID[id]
	if !ok {
		return cocktaildb.DrinksResponse{}, nil
	}
	return cocktaildb.DrinksResponse{Drinks: []cocktaildb.Drink{d}}, nil
}

func (f *fakeLookup) FindRandom(_ context.Context) (cocktaildb.DrinksResponse, error) {
	if err := f.enter("random"); err != nil {
		return cocktaildb.DrinksResponse{}, err
	}
	if f.random == nil {
		return cocktaildb.DrinksResponse{}, nil
	}
	return cocktaildb.DrinksResponse{Drinks: []cocktaildb.Drink{*f.random}}, nil
}

func (f *fakeLookup) ListIngredientNames(_ context.Context) (cocktaildb.IngredientListResponse, error) {
	if err := f.enter("ingredients"); err != nil {
		return cocktaildb.IngredientListResponse{}, err
	}
	return cocktaildb.IngredientListResponse{
		Drinks: lo.Map(f.ingredients, func(name string, _ int) cocktaildb.IngredientItem {
			return cocktaildb.IngredientItem{Name: name}
		}),
	}, nil
}

func margaritaDrink() cocktaildb.Drink {
	d := cocktaildb.Drink{
		ID:           "11007",
		Name:         "Margarita",
		Thumb:        lo.ToPtr("https://example.com/margarita.jpg"),
		Category:     lo.ToPtr("Ordinary Drink"),
		Alcoholic:    lo.ToPtr("Alcoholic"),
		Glass:        lo.ToPtr("Cocktail glass"),
		Instructions: lo.ToPtr("Rub the rim of the glass with the lime slice."),
	}
	for i, v := range []string{"Tequila", "Triple sec", "Lime juice", "Salt"} {
		d.Ingredients[i] = lo.ToPtr(v)
	}
	for i, v := range []string{"1 1/2 oz", "1/2 oz", "1 oz"} {
		d.Measures[i] = lo.ToPtr(v)
	}
	return d
}

func thin(d cocktaildb.Drink) cocktaildb.Drink {
	return cocktaildb.Drink{ID: d.ID, Name: d.Name, Thumb: d.Thumb}
}

func newTestSession(t *testing.T, lookup *fakeLookup) (*Session, *favorites.Store) {
	t.Helper()
	favs, err := favorites.Open(context.Background(), filepath.Join(t.TempDir(), "favorites.db"), nil)
	if err != nil {
		t.Fatalf("favorites.Open returned error: %v", err)
	}
	s := New(context.Background(), lookup, favs, &state.Store{}, nil)
	t.Cleanup(func() {
		s.Close()
		_ = favs.Close()
	})
	return s, favs
}

func TestSession_StartLoadsRandomFavoritesAndCatalog(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{random: &d, ingredients: []string{"Vodka", "Gin", "Amaretto"}}
	s, _ := newTestSession(t, lookup)

	s.Start()
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.Selected == nil || snap.Selected.ID != "11007" {
		t.Fatalf("Selected = %#v, want random margarita", snap.Selected)
	}
	if len(snap.Results) != 1 || snap.Results[0].ID != "11007" {
		t.Fatalf("Results = %#v, want the random recipe", snap.Results)
	}
	if diff := cmp.Diff([]string{"Amaretto", "Gin", "Vodka"}, snap.Ingredients); diff != "" {
		t.Fatalf("Ingredients mismatch (-want +got):\n%s", diff)
	}
	if snap.Loading.Any() {
		t.Fatalf("Loading = %#v, want all clear", snap.Loading)
	}
	if len(snap.Favorites) != 0 {
		t.Fatalf("Favorites = %#v, want none", snap.Favorites)
	}
}

func TestSession_FetchRandomEmpty(t *testing.T) {
	s, _ := newTestSession(t, &fakeLookup{})
	s.Store().Update(func(snap state.Snapshot) state.Snapshot {
		snap.Results = []recipe.Recipe{{ID: "old"}}
		snap.Selected = &recipe.Recipe{ID: "old"}
		return snap
	})

	s.FetchRandom()
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.Selected != nil || len(snap.Results) != 0 {
		t.Fatalf("snapshot = %#v, want cleared results and selection", snap)
	}
}

func TestSession_SearchSetsTextAndResults(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{byName: map[string][]cocktaildb.Drink{"margarita": {d}}}
	s, _ := newTestSession(t, lookup)

	s.Search("margarita")
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.SearchText != "margarita" {
		t.Fatalf("SearchText = %q, want margarita", snap.SearchText)
	}
	if len(snap.Results) != 1 || snap.Results[0].Name != "Margarita" {
		t.Fatalf("Results = %#v, want margarita", snap.Results)
	}
	if snap.Loading.List {
		t.Fatalf("Loading.List still set")
	}
}

func TestSession_SearchByLetterKeepsSearchText(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{byLetter: map[string][]cocktaildb.Drink{"m": {d}}}
	s, _ := newTestSession(t, lookup)
	s.UpdateSearchText("typed")

	s.SearchByLetter("m")
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.SearchText != "typed" {
		t.Fatalf("SearchText = %q, want typed", snap.SearchText)
	}
	if len(snap.Results) != 1 {
		t.Fatalf("Results = %#v, want 1", snap.Results)
	}
}

func TestSession_SearchByIngredientSetsText(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{byIngr: map[string][]cocktaildb.Drink{"Tequila": {thin(d)}}}
	s, _ := newTestSession(t, lookup)

	s.SearchByIngredient("Tequila")
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.SearchText != "Tequila" {
		t.Fatalf("SearchText = %q, want Tequila", snap.SearchText)
	}
	if len(snap.Results) != 1 || snap.Results[0].Complete() {
		t.Fatalf("Results = %#v, want one thin recipe", snap.Results)
	}
}

func TestSession_ReadFailureYieldsEmptyWithoutError(t *testing.T) {
	lookup := &fakeLookup{err: errors.New("network down")}
	s, _ := newTestSession(t, lookup)
	s.Store().Update(func(snap state.Snapshot) state.Snapshot {
		snap.Results = []recipe.Recipe{{ID: "stale"}}
		snap.Error = "old error"
		return snap
	})

	s.Search("anything")
	s.LoadIngredientCatalog()
	s.Wait()

	snap := s.Store().Snapshot()
	if len(snap.Results) != 0 {
		t.Fatalf("Results = %#v, want empty", snap.Results)
	}
	if len(snap.Ingredients) != 0 {
		t.Fatalf("Ingredients = %#v, want empty", snap.Ingredients)
	}
	// Starting a search clears the error; the read failure does not set one.
	if snap.Error != "" {
		t.Fatalf("Error = %q, want empty", snap.Error)
	}
}

func TestSession_SelectThinRecipeFetchesDetails(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{
		byName: map[string][]cocktaildb.Drink{"margarita": {thin(d)}},
		byID:   map[string]cocktaildb.Drink{d.ID: d},
	}
	s, _ := newTestSession(t, lookup)

	s.Search("margarita")
	s.Wait()
	results := s.Store().Snapshot().Results
	if len(results) == 0 {
		t.Fatalf("search returned no results")
	}
	first := results[0]
	if first.Instructions != "" {
		t.Fatalf("first result already has instructions")
	}

	s.SelectRecipe(first)
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.Selected == nil || snap.Selected.Instructions == "" {
		t.Fatalf("Selected = %#v, want instructions after detail fetch", snap.Selected)
	}
	if len(snap.Selected.Ingredients()) != 4 {
		t.Fatalf("Selected ingredients = %v, want 4", snap.Selected.Ingredients())
	}
	if snap.Loading.Detail {
		t.Fatalf("Loading.Detail still set")
	}
}

func TestSession_SelectShowsOptimisticValueFirst(t *testing.T) {
	d := margaritaDrink()
	gate := make(chan struct{})
	lookup := &fakeLookup{
		byID:  map[string]cocktaildb.Drink{d.ID: d},
		gates: map[string]chan struct{}{"id:" + d.ID: gate},
	}
	s, _ := newTestSession(t, lookup)

	thinRecipe := recipe.FromDrink(thin(d))
	thinRecipe.Name = "Margarita (thin)"
	s.SelectRecipe(thinRecipe)

	snap := s.Store().Snapshot()
	if snap.Selected == nil || snap.Selected.Name != "Margarita (thin)" {
		t.Fatalf("Selected = %#v, want optimistic thin recipe", snap.Selected)
	}
	if !snap.Loading.Detail {
		t.Fatalf("Loading.Detail = false while fetch in flight")
	}

	close(gate)
	s.Wait()

	// The fetched recipe replaces the optimistic one wholesale.
	snap = s.Store().Snapshot()
	if snap.Selected.Name != "Margarita" {
		t.Fatalf("Selected.Name = %q, want Margarita", snap.Selected.Name)
	}
}

func TestSession_SelectCompleteRecipeSkipsFetch(t *testing.T) {
	d := margaritaDrink()
	lookup := &fakeLookup{byID: map[string]cocktaildb.Drink{d.ID: d}}
	s, _ := newTestSession(t, lookup)

	s.SelectRecipe(recipe.FromDrink(d))
	s.Wait()

	if n := lookup.callCount("id:" + d.ID); n != 0 {
		t.Fatalf("FindByID calls = %d, want 0", n)
	}
}

func TestSession_DetailFetchMissKeepsOptimisticSelection(t *testing.T) {
	s, _ := newTestSession(t, &fakeLookup{})

	s.SelectRecipe(recipe.Recipe{ID: "404", Name: "Ghost"})
	s.Wait()

	snap := s.Store().Snapshot()
	if snap.Selected == nil || snap.Selected.Name != "Ghost" {
		t.Fatalf("Selected = %#v, want Ghost kept", snap.Selected)
	}
	if snap.Loading.Detail {
		t.Fatalf("Loading.Detail still set")
	}
}

func TestSession_LastToCompleteWins(t *testing.T) {
	gin := cocktaildb.Drink{ID: "1", Name: "Gin Fizz"}
	rum := cocktaildb.Drink{ID: "2", Name: "Rum Punch"}
	slow := make(chan struct{})
	lookup := &fakeLookup{
		byName: map[string][]cocktaildb.Drink{"gin": {gin}, "rum": {rum}},
		gates:  map[string]chan struct{}{"name:gin": slow},
	}
	s, _ := newTestSession(t, lookup)

	s.Search("gin")
	s.Search("rum")

	// Let the later-issued search finish first.
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := s.Store().Snapshot()
		if len(snap.Results) == 1 && snap.Results[0].ID == "2" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("rum search never published")
		}
		time.Sleep(5 * time.Millisecond)
	}

	close(slow)
	s.Wait()

	snap := s.Store().Snapshot()
	if len(snap.Results) != 1 || snap.Results[0].ID != "1" {
		t.Fatalf("Results = %#v, want the gin search that completed last", snap.Results)
	}
}

func TestSession_ToggleFavoriteTwiceRestoresState(t *testing.T) {
	s, favs := newTestSession(t, &fakeLookup{})
	r := recipe.FromDrink(margaritaDrink())

	s.ToggleFavorite(r)
	s.Wait()

	snap := s.Store().Snapshot()
	if len(snap.Favorites) != 1 || snap.Favorites[0].ID != r.ID {
		t.Fatalf("Favorites = %#v, want margarita", snap.Favorites)
	}
	if diff := cmp.Diff(r.IngredientsWithMeasures(), snap.Favorites[0].IngredientsWithMeasures()); diff != "" {
		t.Fatalf("favorite pairs mismatch (-want +got):\n%s", diff)
	}
	ok, err := favs.Exists(context.Background(), r.ID)
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	s.ToggleFavorite(r)
	s.Wait()

	snap = s.Store().Snapshot()
	if len(snap.Favorites) != 0 {
		t.Fatalf("Favorites = %#v, want none after second toggle", snap.Favorites)
	}
	ok, err = favs.Exists(context.Background(), r.ID)
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false", ok, err)
	}
}

func TestSession_FavoritesFollowExternalWrites(t *testing.T) {
	s, favs := newTestSession(t, &fakeLookup{})
	s.LoadFavorites()
	s.Wait()

	if err := favs.Upsert(context.Background(), favorites.Record{ID: "9", Name: "Negroni"}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(s.Store().Snapshot().Favorites) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("favorites snapshot never picked up external write")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSession_IsFavoriteIsLive(t *testing.T) {
	s, _ := newTestSession(t, &fakeLookup{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := recipe.Recipe{ID: "17", Name: "Daiquiri"}
	live := s.IsFavorite(ctx, r.ID)
	if v := <-live; v {
		t.Fatalf("initial IsFavorite = true, want false")
	}

	s.ToggleFavorite(r)
	select {
	case v := <-live:
		if !v {
			t.Fatalf("IsFavorite after toggle = false, want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("IsFavorite did not re-emit after toggle")
	}
	s.Wait()
}

func TestSession_ClearFavorites(t *testing.T) {
	s, favs := newTestSession(t, &fakeLookup{})
	ctx := context.Background()
	for _, id := range []string{"1", "2"} {
		if err := favs.Upsert(ctx, favorites.Record{ID: id, Name: id}); err != nil {
			t.Fatalf("Upsert returned error: %v", err)
		}
	}
	s.LoadFavorites()
	s.Wait()
	if n := len(s.Store().Snapshot().Favorites); n != 2 {
		t.Fatalf("Favorites = %d, want 2", n)
	}

	s.ClearFavorites()
	s.Wait()
	if n := len(s.Store().Snapshot().Favorites); n != 0 {
		t.Fatalf("Favorites = %d, want 0", n)
	}
}

func TestSession_WriteFailureSetsError(t *testing.T) {
	s, favs := newTestSession(t, &fakeLookup{})
	if err := favs.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s.ToggleFavorite(recipe.Recipe{ID: "1", Name: "x"})
	s.Wait()
	snap := s.Store().Snapshot()
	if !strings.HasPrefix(snap.Error, "Failed to update favorites: ") {
		t.Fatalf("Error = %q, want update failure", snap.Error)
	}

	s.ClearFavorites()
	s.Wait()
	snap = s.Store().Snapshot()
	if !strings.HasPrefix(snap.Error, "Failed to clear favorites: ") {
		t.Fatalf("Error = %q, want clear failure", snap.Error)
	}
}

func TestSession_ToggleViewMode(t *testing.T) {
	s, _ := newTestSession(t, &fakeLookup{})

	s.ToggleViewMode()
	if m := s.Store().Snapshot().ViewMode; m != state.ViewGrid {
		t.Fatalf("ViewMode = %v, want grid", m)
	}
	s.ToggleViewMode()
	if m := s.Store().Snapshot().ViewMode; m != state.ViewList {
		t.Fatalf("ViewMode = %v, want list", m)
	}
}

func TestSession_ClearSelection(t *testing.T) {
	d := margaritaDrink()
	s, _ := newTestSession(t, &fakeLookup{})
	s.SelectRecipe(recipe.FromDrink(d))
	s.ClearSelection()
	if sel := s.Store().Snapshot().Selected; sel != nil {
		t.Fatalf("Selected = %#v, want nil", sel)
	}
}

func TestSession_AddAndRemoveFavorite(t *testing.T) {
	s, favs := newTestSession(t, &fakeLookup{})
	r := recipe.FromDrink(margaritaDrink())

	s.AddFavorite(r)
	s.AddFavorite(r)
	s.Wait()

	n, err := favs.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Fatalf("Count after adding twice = %d, want 1", n)
	}

	s.RemoveFavorite(r.ID)
	s.RemoveFavorite("missing")
	s.Wait()

	if got := s.Store().Snapshot().Favorites; len(got) != 0 {
		t.Fatalf("Favorites = %#v, want empty", got)
	}
	if got := s.Store().Snapshot().Error; got != "" {
		t.Fatalf("Error = %q, want none", got)
	}
}

func TestSession_FavoritesReadFailureSettlesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.db")
	favs, err := favorites.Open(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("favorites.Open returned error: %v", err)
	}
	s := New(context.Background(), &fakeLookup{}, favs, &state.Store{}, nil)
	t.Cleanup(func() {
		s.Close()
		_ = favs.Close()
	})
	if err := favs.Upsert(context.Background(), recipe.ToFavoriteRecord(recipe.FromDrink(margaritaDrink()))); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("DROP TABLE favorite_cocktails"); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	_ = db.Close()

	s.LoadFavorites()
	waited := make(chan struct{})
	go func() {
		s.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatalf("Wait still blocked after a failed favorites read")
	}

	snap := s.Store().Snapshot()
	if snap.Loading.Favorites {
		t.Fatalf("Loading.Favorites = true, want false")
	}
	if len(snap.Favorites) != 0 {
		t.Fatalf("Favorites = %#v, want empty", snap.Favorites)
	}
	if snap.Error != "" {
		t.Fatalf("Error = %q, want none for a read failure", snap.Error)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	select {
	case ok := <-s.IsFavorite(ctx, "11007"):
		if ok {
			t.Fatalf("IsFavorite after failed read = true, want false")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("IsFavorite did not emit after a failed read")
	}
}
