// Package foodsafety implements the hygiene registry and violation history
// collaborators over the 식품안전나라 (foodsafetykorea.go.kr) OpenAPI.
package foodsafety

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/safetable/safetable/pkg/normalize"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Name identifies this collaborator in errors and logs.
const Name = "foodsafety"

// Service IDs of the OpenAPI datasets used.
const (
	ServiceGrades     = "C004"  // 위생등급 지정 현황
	ServiceViolations = "I2630" // 행정처분 결과
)

// PageSize is the number of rows requested per call.
const PageSize = 100

// Result codes that are not failures.
const (
	codeOK     = "INFO-000"
	codeNoData = "INFO-200"
)

// Client talks to the OpenAPI.
type Client struct {
	client *resty.Client
	key    string
	log    zerolog.Logger
}

// New creates a Client for baseURL (e.g. http://openapi.foodsafetykorea.go.kr/api).
func New(baseURL, key string, timeout time.Duration, log zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	return &Client{client: c, key: key, log: log.With().Str("component", Name).Logger()}
}

type result struct {
	Code    string `json:"CODE"`
	Message string `json:"MSG"`
}

type envelope[T any] struct {
	TotalCount string `json:"total_count"`
	Rows       []T    `json:"row"`
	Result     result `json:"RESULT"`
}

// fetch calls one service with name as the BSSH_NM-style filter and decodes
// its rows.
func fetch[T any](ctx context.Context, c *Client, service, param, name string) ([]T, int, error) {
	path := fmt.Sprintf("/%s/%s/json/1/%d/%s=%s", url.PathEscape(c.key), service, PageSize, param, url.PathEscape(name))
	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, 0, source.Wrap(Name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, 0, source.Errorf(Name, "HTTP_"+strconv.Itoa(resp.StatusCode()), "%s returned status %d", service, resp.StatusCode())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, 0, &source.Error{Source: Name, Code: "DECODE", Message: "decode response", Err: err}
	}
	// Key and quota failures come back as a bare top-level RESULT.
	raw, ok := body[service]
	if !ok {
		var r result
		if top, ok := body["RESULT"]; ok {
			_ = json.Unmarshal(top, &r)
		}
		if r.Code == codeNoData {
			return nil, 0, nil
		}
		return nil, 0, source.Errorf(Name, r.Code, "%s", r.Message)
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, &source.Error{Source: Name, Code: "DECODE", Message: "decode rows", Err: err}
	}
	switch env.Result.Code {
	case codeOK, "":
	case codeNoData:
		return nil, 0, nil
	default:
		return nil, 0, source.Errorf(Name, env.Result.Code, "%s", env.Result.Message)
	}
	total, _ := strconv.Atoi(env.TotalCount)
	if total < len(env.Rows) {
		total = len(env.Rows)
	}
	return env.Rows, total, nil
}

// gradeRow is one C004 row.
type gradeRow struct {
	Name         string `json:"BSSH_NM"`
	Address      string `json:"ADDR"`
	LotAddress   string `json:"LOCP_ADDR"`
	BusinessType string `json:"INDUTY_CD_NM"`
	Grade        string `json:"HG_ASGN_LV"`
	LicensedAt   string `json:"PRMS_DT"`
}

func (r gradeRow) record() restaurant.CandidateRecord {
	rec := restaurant.CandidateRecord{
		Name:         r.Name,
		Address:      r.Address,
		LotAddress:   r.LotAddress,
		BusinessType: r.BusinessType,
		RawGrade:     r.Grade,
	}
	if t, ok := restaurant.ParseDate(r.LicensedAt); ok {
		rec.LicensedAt = &t
	}
	return rec
}

// records fetches every graded establishment whose name contains the
// normalized query name. Exact and relaxed matching happen locally.
func (c *Client) records(ctx context.Context, name string) ([]restaurant.CandidateRecord, error) {
	q := normalize.Normalize(name)
	if q == "" {
		return nil, nil
	}
	rows, total, err := fetch[gradeRow](ctx, c, ServiceGrades, "BSSH_NM", q)
	if err != nil {
		return nil, err
	}
	if total > len(rows) {
		c.log.Debug().Str("name", q).Int("total", total).Int("fetched", len(rows)).Msg("registry result truncated")
	}
	out := make([]restaurant.CandidateRecord, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// FindExact implements source.Registry.
func (c *Client) FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error) {
	recs, err := c.records(ctx, name)
	if err != nil {
		return nil, err
	}
	return source.PickExact(recs, name, region), nil
}

// SearchPartial implements source.Registry.
func (c *Client) SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error) {
	recs, err := c.records(ctx, name)
	if err != nil {
		return nil, err
	}
	return source.FilterPartial(recs, name, region), nil
}

// violationRow is one I2630 row.
type violationRow struct {
	Name    string `json:"PRCSCITYPOINT_BSSHNM"`
	Address string `json:"ADDR"`
	Decided string `json:"DSPS_DCSNDT"`
	Type    string `json:"DSPS_TYPECD_NM"`
	Reason  string `json:"VILTCN"`
}

// GetHistory implements source.Violations. Rows are kept when the
// establishment name matches literally and the address lies in region.
func (c *Client) GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error) {
	rows, _, err := fetch[violationRow](ctx, c, ServiceViolations, "PRCSCITYPOINT_BSSHNM", name)
	if err != nil {
		return nil, err
	}
	lit := normalize.Literal(name)
	h := restaurant.EmptyHistory()
	for _, r := range rows {
		if normalize.Literal(r.Name) != lit {
			continue
		}
		if !source.InRegion(restaurant.CandidateRecord{Address: r.Address}, region) {
			continue
		}
		it := restaurant.ViolationItem{Type: r.Type, Reason: r.Reason}
		if t, ok := restaurant.ParseDate(r.Decided); ok {
			it.Date = &t
		}
		h.RecentItems = append(h.RecentItems, it)
	}
	h.TotalCount = len(h.RecentItems)
	return &h, nil
}
