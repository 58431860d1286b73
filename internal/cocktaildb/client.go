package cocktaildb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Lookup defines the read operations offered by the recipe API.
// This interface is implemented by *Client and can be used for testing.
type Lookup interface {
	FindByName(ctx context.Context, name string) (DrinksResponse, error)
	FindByFirstLetter(ctx context.Context, letter string) (DrinksResponse, error)
	FindByIngredient(ctx context.Context, ingredient string) (DrinksResponse, error)
	FindByID(ctx context.Context, id string) (DrinksResponse, error)
	FindRandom(ctx context.Context) (DrinksResponse, error)
	ListIngredientNames(ctx context.Context) (IngredientListResponse, error)
}

// Ensure Client implements Lookup at compile time.
var _ Lookup = (*Client)(nil)

// Client talks to TheCocktailDB JSON API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the public free-tier endpoint.
	DefaultBaseURL   = "https://www.thecocktaildb.com/api/json/v1/1/"
	defaultUserAgent = "shakeit/0.1"
	requestTimeout   = 10 * time.Second
)

// RequestError reports a failed round trip: transport, HTTP status or decode.
type RequestError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: api returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// NewClient builds a Client rooted at baseURL. An empty value selects
// DefaultBaseURL.
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FindByName searches drinks whose name contains name.
func (c *Client) FindByName(ctx context.Context, name string) (DrinksResponse, error) {
	return c.drinks(ctx, "search by name", "search.php", url.Values{"s": {name}})
}

// FindByFirstLetter lists drinks starting with letter.
func (c *Client) FindByFirstLetter(ctx context.Context, letter string) (DrinksResponse, error) {
	return c.drinks(ctx, "search by first letter", "search.php", url.Values{"f": {letter}})
}

// FindByIngredient lists drinks using ingredient. Results are thin: only
// id, name and thumbnail are populated.
func (c *Client) FindByIngredient(ctx context.Context, ingredient string) (DrinksResponse, error) {
	return c.drinks(ctx, "filter by ingredient", "filter.php", url.Values{"i": {ingredient}})
}

// FindByID fetches the complete record for one drink.
func (c *Client) FindByID(ctx context.Context, id string) (DrinksResponse, error) {
	return c.drinks(ctx, "lookup by id", "lookup.php", url.Values{"i": {id}})
}

// FindRandom fetches a single random drink.
func (c *Client) FindRandom(ctx context.Context) (DrinksResponse, error) {
	return c.drinks(ctx, "random", "random.php", nil)
}

// ListIngredientNames fetches the ingredient catalog.
func (c *Client) ListIngredientNames(ctx context.Context) (IngredientListResponse, error) {
	if c == nil {
		return IngredientListResponse{}, fmt.Errorf("client is nil")
	}
	var payload IngredientListResponse
	rel := &url.URL{Path: "list.php", RawQuery: url.Values{"i": {"list"}}.Encode()}
	if err := c.doURL(ctx, "list ingredients", rel, &payload); err != nil {
		return IngredientListResponse{}, err
	}
	return payload, nil
}

func (c *Client) drinks(ctx context.Context, op, path string, query url.Values) (DrinksResponse, error) {
	if c == nil {
		return DrinksResponse{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path}
	if len(query) > 0 {
		rel.RawQuery = query.Encode()
	}
	var payload DrinksResponse
	if err := c.doURL(ctx, op, rel, &payload); err != nil {
		return DrinksResponse{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, op string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("execute request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &RequestError{Op: op, StatusCode: resp.StatusCode}
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	// Endpoints resolve relative to the base, so it must name a directory.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
