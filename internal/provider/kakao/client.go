// Package kakao implements a map provider over the Kakao Local keyword
// search API. Kakao supplies names, addresses and categories but no ratings.
package kakao

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
const Name = "kakao"

const (
	foodCategory = "FD6" // 음식점
	searchPath   = "/v2/local/search/keyword.json"
	pageSize     = 15
	maxPages     = 3
	// categoryRoot prefixes every FD6 category name.
	categoryRoot = "음식점 > "
)

// DefaultTooMany is the hit count above which an area is too broad.
const DefaultTooMany = 300

// Client queries Kakao Local.
type Client struct {
	client  *resty.Client
	tooMany int
	log     zerolog.Logger
}

// New creates a Client. restKey is the Kakao REST API key.
func New(baseURL, restKey string, timeout time.Duration, tooMany int, log zerolog.Logger) *Client {
	if tooMany <= 0 {
		tooMany = DefaultTooMany
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "KakaoAK "+restKey).
		SetTimeout(timeout)
	return &Client{client: c, tooMany: tooMany, log: log.With().Str("component", Name).Logger()}
}

// Name implements source.RatingProvider.
func (c *Client) Name() string { return Name }

type document struct {
	PlaceName   string `json:"place_name"`
	Category    string `json:"category_name"`
	RoadAddress string `json:"road_address_name"`
	Address     string `json:"address_name"`
	PlaceURL    string `json:"place_url"`
}

type response struct {
	Meta struct {
		TotalCount    int  `json:"total_count"`
		PageableCount int  `json:"pageable_count"`
		IsEnd         bool `json:"is_end"`
	} `json:"meta"`
	Documents []document `json:"documents"`
}

type apiError struct {
	Type    string `json:"errorType"`
	Message string `json:"message"`
}

func (d document) place() restaurant.Place {
	return restaurant.Place{
		Name:       d.PlaceName,
		Address:    d.RoadAddress,
		LotAddress: d.Address,
		Category:   strings.TrimPrefix(d.Category, categoryRoot),
		Source:     Name,
	}
}

func (c *Client) search(ctx context.Context, query string, page int) (*response, error) {
	var out response
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":               query,
			"category_group_code": foodCategory,
			"page":                strconv.Itoa(page),
			"size":                strconv.Itoa(pageSize),
		}).
		SetResult(&out).
		SetError(&apiErr).
		Get(searchPath)
	if err != nil {
		return nil, source.Wrap(Name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		code := "HTTP_" + strconv.Itoa(resp.StatusCode())
		if apiErr.Type != "" {
			code = apiErr.Type
		}
		return nil, source.Errorf(Name, code, "keyword search failed: %s", apiErr.Message)
	}
	return &out, nil
}

// SearchByName returns the document that best matches name in region, or
// nil when none is a plausible match.
func (c *Client) SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error) {
	res, err := c.search(ctx, strings.TrimSpace(region+" "+name), 1)
	if err != nil {
		return nil, err
	}
	want := match.Subject{Name: name, Address: region, LotAddress: region}
	var best *restaurant.Place
	var bestScore float64
	for _, d := range res.Documents {
		p := d.place()
		if s := match.Restaurant(match.FromPlace(p), want).Score; best == nil || s > bestScore {
			best, bestScore = &p, s
		}
	}
	return best, nil
}

// SearchByArea lists restaurants in area. Areas with more hits than the
// configured limit are reported as too broad, with the neighbourhoods seen in
// the first page as suggestions.
func (c *Client) SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error) {
	term := category
	if term == "" {
		term = "맛집"
	}
	query := strings.TrimSpace(area + " " + term)

	first, err := c.search(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	switch {
	case first.Meta.TotalCount == 0:
		return &restaurant.AreaResult{Status: restaurant.AreaNotFound}, nil
	case first.Meta.TotalCount > c.tooMany:
		c.log.Debug().Str("area", area).Int("total", first.Meta.TotalCount).Msg("area too broad")
		return &restaurant.AreaResult{Status: restaurant.AreaTooMany, Suggestions: neighbourhoods(first.Documents, area)}, nil
	}

	res := &restaurant.AreaResult{Status: restaurant.AreaReady}
	docs := first.Documents
	for page := 2; !first.Meta.IsEnd && page <= maxPages; page++ {
		next, err := c.search(ctx, query, page)
		if err != nil {
			return nil, err
		}
		docs = append(docs, next.Documents...)
		if next.Meta.IsEnd {
			break
		}
	}
	for _, d := range docs {
		res.Restaurants = append(res.Restaurants, d.place())
	}
	return res, nil
}

// neighbourhoods returns the distinct 동/읍/면 names in the documents' lot
// addresses, excluding the area itself.
func neighbourhoods(docs []document, area string) []string {
	seen := map[string]bool{strings.TrimSpace(area): true}
	var out []string
	for _, d := range docs {
		for _, tok := range strings.Fields(d.Address) {
			if !strings.HasSuffix(tok, "동") && !strings.HasSuffix(tok, "읍") && !strings.HasSuffix(tok, "면") {
				continue
			}
			if !seen[tok] {
				seen[tok] = true
				out = append(out, tok)
			}
			break
		}
	}
	return out
}
