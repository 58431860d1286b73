// Package recipe defines the Recipe entity and converts it to and from the
// API wire record and the stored favorite record.
//
// # Slots and compaction
//
// A recipe carries fifteen ingredient slots and fifteen measure slots.
// Ingredients and Measures drop the empty slots while keeping order, and
// IngredientsWithMeasures pairs the two compacted lists by index. When
// measure slots have gaps that the ingredient slots do not, a measure can
// end up paired with a different ingredient than its slot number suggests.
// That pairing is the established behavior and is kept as is.
//
// # Stored form
//
// Favorites store the compacted lists joined with commas:
//
//	Ingredients: "Tequila,Triple sec,Lime juice"
//	Measures:    "1 1/2 oz,1/2 oz,1 oz"
//
// ToRecipe splits them back into slots 1..n. The round trip keeps the
// compacted lists (and so IngredientsWithMeasures) but not the original
// slot numbers. Lists longer than fifteen entries are truncated to the
// first fifteen; the slot model has no room for more.
package recipe
