// Package googleplaces implements a rating provider over the Google Places
// Text Search API.
package googleplaces

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/match"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Name identifies this provider in ratings maps and logs.
const Name = "google"

const (
	textSearchPath = "/maps/api/place/textsearch/json"
	language       = "ko"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// genericTypes are Places types too broad to serve as a category.
var genericTypes = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
	"food":              true,
}

// Client queries Google Places.
type Client struct {
	client *resty.Client
	key    string
	log    zerolog.Logger
}

// New creates a Client.
func New(baseURL, key string, timeout time.Duration, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &Client{client: c, key: key, log: log.With().Str("component", Name).Logger()}
}

// Name implements source.RatingProvider.
func (c *Client) Name() string { return Name }

type result struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
}

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message"`
	Results      []result `json:"results"`
}

func (r result) place() restaurant.Place {
	p := restaurant.Place{
		Name:        r.Name,
		Address:     strings.TrimPrefix(r.FormattedAddress, "대한민국 "),
		Rating:      r.Rating,
		ReviewCount: r.UserRatingsTotal,
		Source:      Name,
	}
	if r.PriceLevel != nil {
		p.PriceRange = strconv.Itoa(*r.PriceLevel)
	}
	for _, t := range r.Types {
		if !genericTypes[t] {
			p.Category = t
			break
		}
	}
	return p
}

func (c *Client) textSearch(ctx context.Context, query string) ([]result, error) {
	var out response
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"language": language,
			"type":     "restaurant",
			"key":      c.key,
		}).
		SetResult(&out).
		Get(textSearchPath)
	if err != nil {
		return nil, source.Wrap(Name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, source.Errorf(Name, "HTTP_"+strconv.Itoa(resp.StatusCode()), "text search failed")
	}
	switch out.Status {
	case statusOK:
		return out.Results, nil
	case statusZeroResults:
		return nil, nil
	default:
		c.log.Warn().Str("status", out.Status).Msg("text search rejected")
		return nil, source.Errorf(Name, out.Status, "text search failed: %s", out.ErrorMessage)
	}
}

// SearchByName returns the best-matching result for name in region, or nil.
func (c *Client) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	results, err := c.textSearch(ctx, strings.TrimSpace(name+" "+region))
	if err != nil {
		return nil, err
	}
	want := match.FromQuery(restaurant.Query{Name: name, Region: region})
	var best *restaurant.Place
	var bestScore float64
	for _, r := range results {
		p := r.place()
		if s := match.Restaurant(match.FromPlace(p), want).Score; best == nil || s > bestScore {
			best, bestScore = &p, s
		}
	}
	return best, nil
}

// SearchByArea lists the first page of restaurants for area. Text Search has
// no total count, so an area is never reported as too broad.
func (c *Client) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	term := category
	if term == "" {
		term = "맛집"
	}
	results, err := c.textSearch(ctx, strings.TrimSpace(area+" "+term))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &restaurant.AreaResult{Status: restaurant.AreaNotFound}, nil
	}
	res := &restaurant.AreaResult{Status: restaurant.AreaReady}
	for _, r := range results {
		res.Restaurants = append(res.Restaurants, r.place())
	}
	return res, nil
}
