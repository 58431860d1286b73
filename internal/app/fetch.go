package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/recipe"
)

const maxConcurrentLookups = 4

// fetchRecipes looks up every id concurrently and returns the recipes in
// argument order. Any failed or empty lookup fails the whole batch.
func fetchRecipes(ctx context.Context, lookup cocktaildb.Lookup, ids []string) ([]recipe.Recipe, error) {
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(maxConcurrentLookups)

	recipes := make([]recipe.Recipe, len(ids))
	for i, id := range ids {
		grp.Go(func() error {
			resp, err := lookup.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", id, err)
			}
			if len(resp.Drinks) == 0 {
				return fmt.Errorf("no cocktail with id %q", id)
			}
			recipes[i] = recipe.FromDrink(resp.Drinks[0])
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return recipes, nil
}
