// Package restaurant defines the records exchanged between the resolution,
// aggregation and scoring stages.
package restaurant

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// ErrInvalidQuery is returned when a query's name or region is blank.
var ErrInvalidQuery = errors.New("restaurant name and region are required")

// Query is a caller's resolution request.
type Query struct {
	Name           string `json:"name"`
	Region         string `json:"region"`
	IncludeHistory bool   `json:"include_history"`
}

// Validate checks that name and region survive whitespace folding.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Name) == "" || strings.TrimSpace(q.Region) == "" {
		return ErrInvalidQuery
	}
	return nil
}

// CandidateRecord is one hygiene registry row.
type CandidateRecord struct {
	Name         string     `json:"name"`
	Address      string     `json:"address"`               // road address
	LotAddress   string     `json:"lot_address,omitempty"` // jibun address
	Region       string     `json:"region,omitempty"`
	BusinessType string     `json:"business_type,omitempty"`
	RawGrade     string     `json:"raw_grade,omitempty"`
	LicensedAt   *time.Time `json:"licensed_at,omitempty"`
}

// Hygiene returns the normalized grade of the record.
func (r CandidateRecord) Hygiene() HygieneGrade {
	return ParseGrade(r.RawGrade)
}

// SearchPage is the result of a relaxed registry search.
type SearchPage struct {
	Items      []CandidateRecord `json:"items"`
	TotalCount int               `json:"total_count"`
}

// ViolationItem is one administrative action against an establishment.
type ViolationItem struct {
	Date   *time.Time `json:"date,omitempty"`
	Type   string     `json:"type"`
	Reason string     `json:"reason"`
}

// ViolationHistory aggregates violations for an entity.
type ViolationHistory struct {
	TotalCount  int             `json:"total_count"`
	RecentItems []ViolationItem `json:"recent_items"`
	HasMore     bool            `json:"has_more"`
}

// ViolationWindow is the trailing period considered "recent".
const ViolationWindow = 3

// EmptyHistory is substituted when history was not requested.
func EmptyHistory() ViolationHistory {
	return ViolationHistory{RecentItems: []ViolationItem{}}
}

// Window keeps items dated within the trailing ViolationWindow years of now,
// newest first. Undated items are kept at the end. TotalCount becomes the
// number of kept items; HasMore reports rows the source knew of but did not
// return.
func (h ViolationHistory) Window(now time.Time) ViolationHistory {
	cutoff := now.AddDate(-ViolationWindow, 0, 0)
	var dated, undated []ViolationItem
	for _, it := range h.RecentItems {
		switch {
		case it.Date == nil:
			undated = append(undated, it)
		case !it.Date.Before(cutoff):
			dated = append(dated, it)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].Date.After(*dated[j].Date)
	})

	out := ViolationHistory{
		RecentItems: append(dated, undated...),
		HasMore:     h.HasMore || h.TotalCount > len(h.RecentItems),
	}
	if out.RecentItems == nil {
		out.RecentItems = []ViolationItem{}
	}
	out.TotalCount = len(out.RecentItems)
	return out
}

// Place is a single map/rating provider hit.
type Place struct {
	Name        string   `json:"name"`
	Address     string   `json:"address,omitempty"`
	LotAddress  string   `json:"lot_address,omitempty"`
	Category    string   `json:"category,omitempty"`
	Rating      *float64 `json:"rating,omitempty"` // 0-5
	ReviewCount int      `json:"review_count"`
	PriceRange  string   `json:"price_range,omitempty"`
	IsFranchise *bool    `json:"is_franchise,omitempty"`
	Source      string   `json:"source"`
}

// AreaStatus classifies an area search.
type AreaStatus string

const (
	AreaReady    AreaStatus = "ready"
	AreaTooMany  AreaStatus = "too_many"
	AreaNotFound AreaStatus = "not_found"
)

// AreaResult is the result of a provider's area search.
type AreaResult struct {
	Status      AreaStatus `json:"status"`
	Restaurants []Place    `json:"restaurants"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

// SourceRating is one provider's rating contribution.
type SourceRating struct {
	Score   *float64 `json:"score"`
	Reviews int      `json:"reviews"`
}

// UnifiedEntity is a restaurant merged from the registry and the rating
// providers. It is never mutated after aggregation.
type UnifiedEntity struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Address        string                  `json:"address"`
	LotAddress     string                  `json:"lot_address,omitempty"`
	Category       string                  `json:"category,omitempty"`
	Hygiene        HygieneGrade            `json:"hygiene"`
	Violations     ViolationHistory        `json:"violations"`
	Ratings        map[string]SourceRating `json:"ratings"`
	CombinedRating float64                 `json:"combined_rating"`
	HasRating      bool                    `json:"has_rating"`
	ReviewCount    int                     `json:"review_count"`
	PriceRange     string                  `json:"price_range,omitempty"`
	IsFranchise    bool                    `json:"is_franchise"`
	BusinessYears  *float64                `json:"business_years,omitempty"`
}

// Rating returns the combined rating, or nil when no provider had one.
func (e *UnifiedEntity) Rating() *float64 {
	if !e.HasRating {
		return nil
	}
	r := e.CombinedRating
	return &r
}

// ViolationRecord is a violation row as stored by an importable dataset: the
// establishment it belongs to plus the action itself.
type ViolationRecord struct {
	Name       string     `json:"name" yaml:"name"`
	Address    string     `json:"address" yaml:"address"`
	LotAddress string     `json:"lot_address,omitempty" yaml:"lot_address,omitempty"`
	Region     string     `json:"region,omitempty" yaml:"region,omitempty"`
	Date       *time.Time `json:"date,omitempty" yaml:"date,omitempty"`
	Type       string     `json:"type" yaml:"type"`
	Reason     string     `json:"reason" yaml:"reason"`
}

// Item returns the action part of the record.
func (v ViolationRecord) Item() ViolationItem {
	return ViolationItem{Date: v.Date, Type: v.Type, Reason: v.Reason}
}

// Holder returns the establishment part of the record for region checks.
func (v ViolationRecord) Holder() CandidateRecord {
	return CandidateRecord{Name: v.Name, Address: v.Address, LotAddress: v.LotAddress, Region: v.Region}
}
