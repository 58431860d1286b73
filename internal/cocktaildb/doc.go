// Package cocktaildb provides an HTTP client for TheCocktailDB JSON API.
//
// # Overview
//
// The client issues six fixed read queries (name search, first-letter
// search, ingredient filter, id lookup, random drink and the ingredient
// catalog) and decodes the API's envelopes:
//
//	{"drinks": [ {...}, ... ]}   // results
//	{"drinks": null}             // no results
//
// A null or missing list decodes to an empty result, never an error.
//
// # Files
//
//   - client.go: Client, the Lookup interface and request handling
//   - types.go: wire types mirroring the API schema
//   - images.go: ingredient image URL helper
//
// # Drink records
//
// Drinks carry fifteen numbered ingredient and measure fields
// (strIngredient1..15, strMeasure1..15). Drink decodes them into fixed
// arrays so callers can iterate slots without reflection.
//
// # Errors
//
// Every failed round trip returns a *RequestError carrying the operation
// name and, for HTTP failures, the status code:
//
//	var reqErr *cocktaildb.RequestError
//	if errors.As(err, &reqErr) {
//		log.Printf("%s failed", reqErr.Op)
//	}
//
// Queries are forwarded as given. The client performs no validation,
// retries or caching; each call is one independent request.
package cocktaildb
