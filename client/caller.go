// Package client calls the greeting endpoint the way the home page does and
// turns the result into what the page displays.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/segmentio/encoding/json"
)

const DefaultPath = "/api/hello"

type Greeting struct {
	Message string `json:"message"`
	TS      string `json:"ts"`
}

// ResolveEndpoint returns {base}/hello when a base URL is configured (one
// trailing slash removed), otherwise the same-origin default path.
func ResolveEndpoint(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		return DefaultPath
	}
	return base + "/hello"
}

// PageEndpoint is the endpoint a page mounted under basePath calls. A
// configured base URL wins; otherwise the same-origin path gets the prefix.
func PageEndpoint(baseURL, basePath string) string {
	endpoint := ResolveEndpoint(baseURL)
	if strings.HasPrefix(endpoint, "/") {
		return strings.TrimSuffix(basePath, "/") + endpoint
	}
	return endpoint
}

type Caller struct {
	// BaseURL mirrors NEXT_PUBLIC_API_BASE_URL.
	BaseURL string
	// Origin stands in for the page's own origin when the endpoint is
	// relative, e.g. http://localhost:8080.
	Origin string
	// BasePath mirrors NEXT_PUBLIC_BASE_PATH for same-origin calls.
	BasePath   string
	HTTPClient *http.Client
}

func (c *Caller) Endpoint() (string, error) {
	endpoint := PageEndpoint(c.BaseURL, c.BasePath)

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.IsAbs() {
		return endpoint, nil
	}
	if c.Origin == "" {
		return "", fmt.Errorf("relative endpoint %s needs an origin", endpoint)
	}

	origin, err := url.Parse(c.Origin)
	if err != nil || !origin.IsAbs() {
		return "", fmt.Errorf("invalid origin %q", c.Origin)
	}
	return origin.ResolveReference(u).String(), nil
}

// Fetch issues one GET. Errors are *HTTPStatusError, *NetworkError, or a
// decoding error.
func (c *Caller) Fetch(ctx context.Context) (Greeting, error) {
	endpoint, err := c.Endpoint()
	if err != nil {
		return Greeting{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Greeting{}, err
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Greeting{}, newNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Greeting{}, &HTTPStatusError{Status: resp.StatusCode}
	}

	var g Greeting
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return Greeting{}, err
	}
	return g, nil
}

type Outcome struct {
	Message string
	Details string
	Err     error
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Call never fails: any error becomes the generic message plus details.
func (c *Caller) Call(ctx context.Context) Outcome {
	g, err := c.Fetch(ctx)
	if err != nil {
		return Outcome{Message: ErrorMessage, Details: Describe(err), Err: err}
	}
	return Outcome{Message: g.Message}
}

// Run drives state through one call. It returns false without calling when
// a call is already in flight.
func (c *Caller) Run(ctx context.Context, state *State) bool {
	if !state.Begin() {
		return false
	}
	state.Finish(c.Call(ctx))
	return true
}
