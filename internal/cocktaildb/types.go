package cocktaildb

import (
	"encoding/json"
	"fmt"
)

// MaxSlots is the number of ingredient/measure slots a drink record carries.
const MaxSlots = 15

// DrinksResponse mirrors the envelope returned by the search, filter, lookup
// and random endpoints. A null or missing drinks field means no results.
type DrinksResponse struct {
	Drinks []Drink `json:"drinks"`
}

// Drink is the wire form of a cocktail. Every field except ID may be null;
// list endpoints such as filter.php return only ID, Name and Thumb.
type Drink struct {
	ID           string  `json:"idDrink"`
	Name         string  `json:"strDrink"`
	Thumb        *string `json:"strDrinkThumb"`
	Category     *string `json:"strCategory"`
	Alcoholic    *string `json:"strAlcoholic"`
	Glass        *string `json:"strGlass"`
	Instructions *string `json:"strInstructions"`

	// Ingredients and Measures hold strIngredient1..15 and strMeasure1..15.
	Ingredients [MaxSlots]*string `json:"-"`
	Measures    [MaxSlots]*string `json:"-"`
}

// drinkFields is Drink without its custom codec.
type drinkFields Drink

// UnmarshalJSON decodes the fixed fields and the numbered slot fields.
func (d *Drink) UnmarshalJSON(data []byte) error {
	var fields drinkFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := range MaxSlots {
		ing, err := slotValue(raw, ingredientKey(i))
		if err != nil {
			return err
		}
		meas, err := slotValue(raw, measureKey(i))
		if err != nil {
			return err
		}
		fields.Ingredients[i] = ing
		fields.Measures[i] = meas
	}
	*d = Drink(fields)
	return nil
}

func slotValue(raw map[string]json.RawMessage, key string) (*string, error) {
	msg, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var v *string
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return v, nil
}

func ingredientKey(i int) string { return fmt.Sprintf("strIngredient%d", i+1) }
func measureKey(i int) string    { return fmt.Sprintf("strMeasure%d", i+1) }

// IngredientListResponse mirrors list.php?i=list.
type IngredientListResponse struct {
	Drinks []IngredientItem `json:"drinks"`
}

// IngredientItem is a bare ingredient name record.
type IngredientItem struct {
	Name string `json:"strIngredient1"`
}
