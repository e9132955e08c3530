// Package catalog proxies album search to the Spotify Web API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

// searchLimit caps how many albums one search returns.
const searchLimit = 20

// ErrUpstream is returned when the provider token exchange or search call
// fails. The caller surfaces it as a generic "search failed" state; no
// retry is performed.
var ErrUpstream = errors.New("catalog search failed")

// Album is a normalized catalog search result. It mirrors the record shape
// so a result can be saved to a collection as-is.
type Album struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artist      string   `json:"artist"`
	Image       string   `json:"image"`
	ReleaseDate string   `json:"release_date"`
	Genres      []string `json:"genres"`
	Variant     *string  `json:"variant"`
}

// Searcher is the interface consumed by the HTTP layer.
type Searcher interface {
	SearchAlbums(ctx context.Context, query string) ([]Album, error)
}

// Config holds catalog client settings. TokenURL and BaseURL exist for
// tests; when empty the real Spotify endpoints are used.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
}

// Client searches the Spotify catalog using the client-credentials flow.
// The underlying token source refreshes service tokens as they expire and
// is safe for concurrent use.
type Client struct {
	api     *spotify.Client
	limiter *rate.Limiter
}

// New creates a catalog client. The context governs token refresh requests
// for the lifetime of the client.
func New(ctx context.Context, cfg Config) *Client {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
	}

	var opts []spotify.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, spotify.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:     spotify.New(creds.Client(ctx), opts...),
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// SearchAlbums runs an album-scoped search and normalizes the results.
// An empty query returns an empty slice without calling the provider.
func (c *Client) SearchAlbums(ctx context.Context, query string) ([]Album, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Album{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	results, err := c.api.Search(ctx, query, spotify.SearchTypeAlbum, spotify.Limit(searchLimit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if results.Albums == nil {
		return []Album{}, nil
	}

	albums := make([]Album, 0, len(results.Albums.Albums))
	for _, a := range results.Albums.Albums {
		albums = append(albums, normalize(a))
	}
	return albums, nil
}

// normalize converts a provider album to the record shape: first image,
// artists joined into one string, empty genre list, no variant.
func normalize(a spotify.SimpleAlbum) Album {
	names := make([]string, len(a.Artists))
	for i, artist := range a.Artists {
		names[i] = artist.Name
	}

	image := ""
	if len(a.Images) > 0 {
		image = a.Images[0].URL
	}

	return Album{
		ID:          string(a.ID),
		Name:        a.Name,
		Artist:      strings.Join(names, ", "),
		Image:       image,
		ReleaseDate: a.ReleaseDate,
		Genres:      []string{},
		Variant:     nil,
	}
}
