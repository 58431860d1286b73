package cocktaildb

import "strings"

const ingredientImageBase = "https://www.thecocktaildb.com/images/ingredients/"

// ImageSize selects one of the ingredient image renditions the API serves.
type ImageSize int

const (
	ImageLarge ImageSize = iota
	ImageMedium
	ImageSmall
)

// IngredientImageURL builds the image URL for an ingredient name.
func IngredientImageURL(name string, size ImageSize) string {
	suffix := ".png"
	switch size {
	case ImageSmall:
		suffix = "-Small.png"
	case ImageMedium:
		suffix = "-Medium.png"
	}
	return ingredientImageBase + strings.ReplaceAll(name, " ", "%20") + suffix
}
