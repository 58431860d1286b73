package recipe

import (
	"strings"

	"github.com/samber/lo"

	"github.com/five82/shakeit/internal/cocktaildb"
	"github.com/five82/shakeit/internal/favorites"
)

const listSeparator = ","

// FromDrink converts an API record into a Recipe. Null fields become empty.
func FromDrink(d cocktaildb.Drink) Recipe {
	r := Recipe{
		ID:           d.ID,
		Name:         d.Name,
		ImageURL:     lo.FromPtr(d.Thumb),
		Category:     lo.FromPtr(d.Category),
		Alcoholic:    lo.FromPtr(d.Alcoholic),
		Glass:        lo.FromPtr(d.Glass),
		Instructions: lo.FromPtr(d.Instructions),
	}
	for i := range MaxSlots {
		r.Ingredient[i] = lo.FromPtr(d.Ingredients[i])
		r.Measure[i] = lo.FromPtr(d.Measures[i])
	}
	return r
}

// FromDrinks converts a result list, keeping order.
func FromDrinks(drinks []cocktaildb.Drink) []Recipe {
	return lo.Map(drinks, func(d cocktaildb.Drink, _ int) Recipe {
		return FromDrink(d)
	})
}

// ToFavoriteRecord flattens r for storage. Ingredients and measures are the
// compacted sequences joined with commas, so the stored measure list can be
// shorter than the ingredient list.
func ToFavoriteRecord(r Recipe) favorites.Record {
	return favorites.Record{
		ID:           r.ID,
		Name:         r.Name,
		ImageURL:     r.ImageURL,
		Category:     r.Category,
		Instructions: r.Instructions,
		Alcoholic:    r.Alcoholic,
		Glass:        r.Glass,
		Ingredients:  JoinList(r.Ingredients()),
		Measures:     JoinList(r.Measures()),
	}
}

// ToRecipe expands a stored record back into slots 1..n in list order.
// Original slot numbers are not recoverable: a recipe stored with a gap
// comes back with its entries packed into the leading slots. Entries past
// the fifteenth are dropped.
func ToRecipe(rec favorites.Record) Recipe {
	r := Recipe{
		ID:           rec.ID,
		Name:         rec.Name,
		ImageURL:     rec.ImageURL,
		Category:     rec.Category,
		Instructions: rec.Instructions,
		Alcoholic:    rec.Alcoholic,
		Glass:        rec.Glass,
	}
	fill(&r.Ingredient, SplitList(rec.Ingredients))
	fill(&r.Measure, SplitList(rec.Measures))
	return r
}

// ToRecipes converts stored records, keeping order.
func ToRecipes(records []favorites.Record) []Recipe {
	return lo.Map(records, func(rec favorites.Record, _ int) Recipe {
		return ToRecipe(rec)
	})
}

// SplitList splits a stored list on commas and trims each token. The empty
// string yields no tokens.
func SplitList(s string) []string {
	if s == "" {
		return []string{}
	}
	return lo.Map(strings.Split(s, listSeparator), func(token string, _ int) string {
		return strings.TrimSpace(token)
	})
}

// JoinList joins values with commas.
func JoinList(values []string) string {
	return strings.Join(values, listSeparator)
}

func fill(slots *[MaxSlots]string, values []string) {
	for i, v := range values {
		if i >= MaxSlots {
			return
		}
		slots[i] = v
	}
}
