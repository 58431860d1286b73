package recipe

import (
	"github.com/samber/lo"

	"github.com/five82/shakeit/internal/cocktaildb"
)

// MaxSlots is the number of ingredient/measure slots a recipe can hold.
const MaxSlots = cocktaildb.MaxSlots

// Recipe is a cocktail as the application sees it. Only ID is guaranteed;
// list and filter results leave the other fields empty until the recipe is
// looked up by id. An empty string means the field is absent.
type Recipe struct {
	ID           string
	Name         string
	ImageURL     string
	Category     string
	Alcoholic    string
	Glass        string
	Instructions string

	// Ingredient[i] pairs with Measure[i] by slot number (slot i+1).
	Ingredient [MaxSlots]string
	Measure    [MaxSlots]string
}

// Pair is an ingredient with the measure at the same compacted position.
type Pair struct {
	Ingredient string
	Measure    string
	HasMeasure bool
}

// Ingredients returns the non-empty ingredient slots in slot order.
func (r Recipe) Ingredients() []string {
	return compact(r.Ingredient)
}

// Measures returns the non-empty measure slots in slot order.
func (r Recipe) Measures() []string {
	return compact(r.Measure)
}

// IngredientsWithMeasures zips Ingredients with Measures by index. Pairing
// follows the compacted positions, not the original slot numbers, so a gap
// in the measure slots shifts later measures onto earlier ingredients.
func (r Recipe) IngredientsWithMeasures() []Pair {
	ingredients := r.Ingredients()
	measures := r.Measures()
	return lo.Map(ingredients, func(ingredient string, i int) Pair {
		p := Pair{Ingredient: ingredient}
		if i < len(measures) {
			p.Measure = measures[i]
			p.HasMeasure = true
		}
		return p
	})
}

// Complete reports whether the recipe carries the detail fields a by-id
// lookup provides.
func (r Recipe) Complete() bool {
	return r.Instructions != "" && len(r.Ingredients()) > 0
}

// compact is slot compaction: absent entries are dropped, order is kept.
func compact(slots [MaxSlots]string) []string {
	return lo.Compact(slots[:])
}
