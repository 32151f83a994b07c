package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/statuscard/pkg/cache"
	"github.com/matzehuels/statuscard/pkg/errors"
	"github.com/matzehuels/statuscard/pkg/httputil"
)

const (
	defaultAPIBase       = "https://api.steampowered.com"
	defaultCommunityBase = "https://steamcommunity.com"

	// summariesBatchSize is the Web API limit on steamids per request.
	summariesBatchSize = 100

	// imageTTL keeps fetched avatars and headers for a week; Steam image
	// URLs are content-addressed so stale entries are harmless.
	imageTTL = 7 * 24 * time.Hour
)

// Player is one entry from GetPlayerSummaries.
type Player struct {
	SteamID       string `json:"steamid"`
	PersonaName   string `json:"personaname"`
	Avatar        string `json:"avatar"`
	AvatarMedium  string `json:"avatarmedium"`
	AvatarFull    string `json:"avatarfull"`
	AvatarHash    string `json:"avatarhash"`
	LastLogoff    int64  `json:"lastlogoff"`
	PersonaState  int    `json:"personastate"`
	GameID        string `json:"gameid,omitempty"`
	GameExtraInfo string `json:"gameextrainfo,omitempty"`
}

// Client talks to the Steam Web API and community pages.
//
// API keys are tried in order: when one key fails (bad status, network
// error) the next key takes over, so a rate-limited or revoked key never
// blocks a render. The client is safe for concurrent use.
type Client struct {
	keys          []string
	http          *http.Client
	cache         cache.Cache
	logger        *log.Logger
	apiBase       string
	communityBase string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to route
// requests through a proxy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache enables byte caching for fetched images.
func WithCache(store cache.Cache) Option {
	return func(c *Client) { c.cache = store }
}

// WithLogger sets the logger; the default is log.Default().
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithAPIBase overrides the Web API base URL (used in tests).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimSuffix(base, "/") }
}

// WithCommunityBase overrides the community base URL (used in tests).
func WithCommunityBase(base string) Option {
	return func(c *Client) { c.communityBase = strings.TrimSuffix(base, "/") }
}

// WithProxy routes all requests through the given proxy URL.
func WithProxy(proxy string) Option {
	return func(c *Client) {
		u, err := url.Parse(proxy)
		if err != nil {
			return
		}
		c.http = &http.Client{
			Timeout:   c.http.Timeout,
			Transport: &http.Transport{Proxy: http.ProxyURL(u)},
		}
	}
}

// NewClient creates a Client with the given API keys.
func NewClient(keys []string, opts ...Option) *Client {
	c := &Client{
		keys:          keys,
		http:          &http.Client{Timeout: 30 * time.Second},
		cache:         cache.NewNullCache(),
		logger:        log.Default(),
		apiBase:       defaultAPIBase,
		communityBase: defaultCommunityBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type summariesEnvelope struct {
	Response struct {
		Players []Player `json:"players"`
	} `json:"response"`
}

// PlayerSummaries fetches persona data for the given SteamID64s, batching
// requests at the API's 100-ID limit. Results preserve no particular
// order; callers match players back by SteamID.
func (c *Client) PlayerSummaries(ctx context.Context, ids []string) ([]Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var players []Player
	for start := 0; start < len(ids); start += summariesBatchSize {
		end := min(start+summariesBatchSize, len(ids))
		batch, err := c.summariesBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		players = append(players, batch...)
	}
	return players, nil
}

func (c *Client) summariesBatch(ctx context.Context, ids []string) ([]Player, error) {
	if len(c.keys) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no Steam API keys configured")
	}

	joined := strings.Join(ids, ",")
	var lastErr error
	for _, key := range c.keys {
		endpoint := fmt.Sprintf("%s/ISteamUser/GetPlayerSummaries/v0002/?key=%s&steamids=%s",
			c.apiBase, url.QueryEscape(key), joined)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "build summaries request")
		}

		data, err := httputil.GetBytes(c.http, req)
		if err != nil {
			c.logger.Warn("player summaries request failed, rotating key", "error", err)
			lastErr = err
			continue
		}

		var envelope summariesEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.logger.Warn("player summaries response malformed, rotating key", "error", err)
			lastErr = err
			continue
		}
		return envelope.Response.Players, nil
	}
	return nil, errors.Wrap(errors.ErrCodeNetwork, lastErr, "all Steam API keys failed")
}

// FetchImage downloads the image at rawURL, caching the bytes and retrying
// transient failures. On any permanent failure it logs and returns
// fallback, so a missing avatar never fails a render.
func (c *Client) FetchImage(ctx context.Context, rawURL string, fallback []byte) []byte {
	if rawURL == "" {
		return fallback
	}

	key := "image:" + rawURL
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		return data
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		data, err = httputil.GetBytes(c.http, req)
		return err
	})
	if err != nil {
		c.logger.Warn("image fetch failed, using fallback", "url", rawURL, "error", err)
		return fallback
	}

	if err := c.cache.Set(ctx, key, data, imageTTL); err != nil {
		c.logger.Debug("image cache write failed", "url", rawURL, "error", err)
	}
	return data
}
