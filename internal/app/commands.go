package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/five82/shakeit/internal/prefs"
	"github.com/five82/shakeit/internal/recipe"
	"github.com/five82/shakeit/internal/state"
)

// Usage describes the supported commands.
const Usage = `usage: shakeit [flags] [command]

commands:
  (none)                   random cocktail plus favorites and catalog summary
  random                   show a random cocktail
  search <name>            search cocktails by name
  letter <letter>          list cocktails starting with a letter
  ingredient <name>        list cocktails using an ingredient
  show <id>                show one cocktail
  ingredients              list every ingredient
  favorites [list]         list favorites
  favorites add <id>...    add cocktails to favorites
  favorites remove <id>... remove cocktails from favorites
  favorites toggle <id>    add or remove one cocktail
  favorites clear          remove every favorite
  favorites count          print the number of favorites
  favorites watch          print favorites whenever they change
  view [toggle]            show or flip the saved list/grid layout`

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("invalid usage")

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return a.home(ctx)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "random":
		return a.random(ctx)
	case "search":
		return a.search(strings.Join(rest, " "))
	case "letter":
		if len(rest) != 1 {
			return usageError("letter needs exactly one argument")
		}
		return a.letter(rest[0])
	case "ingredient":
		if len(rest) == 0 {
			return usageError("ingredient needs a name")
		}
		return a.ingredient(strings.Join(rest, " "))
	case "show":
		if len(rest) != 1 {
			return usageError("show needs exactly one id")
		}
		return a.show(ctx, rest[0])
	case "ingredients":
		return a.ingredients()
	case "favorites", "favs":
		return a.favorites(ctx, rest)
	case "view":
		return a.view(rest)
	default:
		return usageError(fmt.Sprintf("unknown command %q", cmd))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%w: %s\n\n%s", ErrUsage, msg, Usage)
}

func (a *app) home(ctx context.Context) error {
	a.session.Start()
	snap, err := a.settle()
	if err != nil {
		return err
	}
	if snap.Selected != nil {
		if err := a.printer.Recipe(*snap.Selected, a.isFavorite(ctx, snap.Selected.ID)); err != nil {
			return err
		}
	} else {
		_ = a.printer.Results("", nil, snap.ViewMode)
	}
	return a.printer.Info("%d favorites · %d ingredients", len(snap.Favorites), len(snap.Ingredients))
}

func (a *app) random(ctx context.Context) error {
	a.session.FetchRandom()
	snap, err := a.settle()
	if err != nil {
		return err
	}
	if snap.Selected == nil {
		return a.printer.Results("", nil, snap.ViewMode)
	}
	return a.printer.Recipe(*snap.Selected, a.isFavorite(ctx, snap.Selected.ID))
}

func (a *app) search(query string) error {
	a.session.Search(query)
	return a.printResults(func(snap state.Snapshot) string {
		return fmt.Sprintf("Search: %s", snap.SearchText)
	})
}

func (a *app) letter(letter string) error {
	a.session.SearchByLetter(letter)
	return a.printResults(func(state.Snapshot) string {
		return fmt.Sprintf("Starting with %q", letter)
	})
}

func (a *app) ingredient(name string) error {
	a.session.SearchByIngredient(name)
	return a.printResults(func(snap state.Snapshot) string {
		return fmt.Sprintf("With %s", snap.SearchText)
	})
}

func (a *app) printResults(title func(state.Snapshot) string) error {
	snap, err := a.settle()
	if err != nil {
		return err
	}
	return a.printer.Results(title(snap), snap.Results, snap.ViewMode)
}

func (a *app) show(ctx context.Context, id string) error {
	r, err := a.selectByID(id)
	if err != nil {
		return err
	}
	return a.printer.Recipe(r, a.favoriteNow(ctx, id))
}

// selectByID selects a thin recipe so the session fetches its details.
func (a *app) selectByID(id string) (recipe.Recipe, error) {
	a.session.SelectRecipe(recipe.Recipe{ID: id})
	snap, err := a.settle()
	if err != nil {
		return recipe.Recipe{}, err
	}
	if snap.Selected == nil || snap.Selected.Name == "" {
		return recipe.Recipe{}, fmt.Errorf("no cocktail with id %q", id)
	}
	return *snap.Selected, nil
}

func (a *app) ingredients() error {
	a.session.LoadIngredientCatalog()
	snap, err := a.settle()
	if err != nil {
		return err
	}
	return a.printer.Ingredients(snap.Ingredients)
}

func (a *app) favorites(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list", "ls":
		return a.listFavorites()
	case "add":
		if len(args) == 0 {
			return usageError("favorites add needs at least one id")
		}
		recipes, err := fetchRecipes(ctx, a.lookup, args)
		if err != nil {
			return err
		}
		for _, r := range recipes {
			a.session.AddFavorite(r)
		}
		return a.listFavorites()
	case "remove", "rm":
		if len(args) == 0 {
			return usageError("favorites remove needs at least one id")
		}
		for _, id := range args {
			a.session.RemoveFavorite(id)
		}
		return a.listFavorites()
	case "toggle":
		if len(args) != 1 {
			return usageError("favorites toggle needs exactly one id")
		}
		return a.toggleFavorite(ctx, args[0])
	case "clear":
		a.session.ClearFavorites()
		if _, err := a.settle(); err != nil {
			return err
		}
		return a.printer.Info("favorites cleared")
	case "count":
		n, err := a.favs.Count(ctx)
		if err != nil {
			return fmt.Errorf("count favorites: %w", err)
		}
		_, err = fmt.Fprintln(a.opts.Out, n)
		return err
	case "watch":
		return a.watchFavorites(ctx)
	default:
		return usageError(fmt.Sprintf("unknown favorites command %q", sub))
	}
}

func (a *app) listFavorites() error {
	a.session.LoadFavorites()
	snap, err := a.settle()
	if err != nil {
		return err
	}
	return a.printer.Results(fmt.Sprintf("Favorites (%d)", len(snap.Favorites)), snap.Favorites, snap.ViewMode)
}

func (a *app) toggleFavorite(ctx context.Context, id string) error {
	r, err := a.selectByID(id)
	if err != nil {
		return err
	}
	a.session.ToggleFavorite(r)
	if _, err := a.settle(); err != nil {
		return err
	}
	if a.favoriteNow(ctx, id) {
		return a.printer.Info("added %s to favorites", r.Name)
	}
	return a.printer.Info("removed %s from favorites", r.Name)
}

func (a *app) view(args []string) error {
	if len(args) > 1 || (len(args) == 1 && args[0] != "toggle") {
		return usageError("view takes an optional \"toggle\"")
	}
	if len(args) == 1 {
		a.session.ToggleViewMode()
		mode := a.session.Store().Snapshot().ViewMode
		next := a.prefs
		next.ViewMode = mode.String()
		if err := prefs.Save(a.opts.PrefsPath, next); err != nil {
			return fmt.Errorf("save prefs: %w", err)
		}
		a.prefs = next
	}
	return a.printer.Info("view: %s", a.session.Store().Snapshot().ViewMode)
}

func (a *app) isFavorite(ctx context.Context, id string) bool {
	ok, err := a.favs.Exists(ctx, id)
	if err != nil {
		a.logger.Warn("favorite lookup failed", "id", id, "error", err)
		return false
	}
	return ok
}

// favoriteNow reads the first value of the live favorite observation.
func (a *app) favoriteNow(ctx context.Context, id string) bool {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	return <-a.session.IsFavorite(ctx, id)
}
