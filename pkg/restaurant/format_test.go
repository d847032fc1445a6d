package restaurant_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safetable/safetable/pkg/restaurant"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"20240115", "2024-01-15", true},
		{"19991231", "1999-12-31", true},
		{"2024011", "", false},   // 7 chars
		{"202401150", "", false}, // 9 chars
		{"2024013a", "", false},
		{"20240230", "", false}, // no Feb 30th
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := restaurant.FormatDate(tt.in)
		assert.Equal(t, tt.wantOK, ok, "FormatDate(%q) ok", tt.in)
		assert.Equal(t, tt.want, got, "FormatDate(%q)", tt.in)
	}
}

func TestFormatStars(t *testing.T) {
	assert.Equal(t, "", restaurant.FormatStars(0))
	assert.Equal(t, "", restaurant.FormatStars(-1))
	assert.Equal(t, "★", restaurant.FormatStars(1))
	assert.Equal(t, "★★★", restaurant.FormatStars(3))
	assert.Equal(t, "★★★", restaurant.FormatStars(7))
}

func TestParseGrade(t *testing.T) {
	tests := []struct {
		raw   string
		grade string
		stars int
	}{
		{"AAA", "AAA", 3},
		{"매우우수", "AAA", 3},
		{"매우 우수", "AAA", 3},
		{"aa", "AA", 2},
		{"우수", "AA", 2},
		{"A", "A", 1},
		{"좋음", "A", 1},
	}
	for _, tt := range tests {
		g := restaurant.ParseGrade(tt.raw)
		assert.True(t, g.HasGrade, tt.raw)
		assert.Equal(t, tt.grade, g.Grade, tt.raw)
		assert.Equal(t, tt.stars, g.Stars, tt.raw)
	}

	for _, raw := range []string{"", "B", "none", "등급없음"} {
		g := restaurant.ParseGrade(raw)
		assert.False(t, g.HasGrade, raw)
		assert.Zero(t, g.Stars, raw)
		assert.Equal(t, restaurant.NoGradeLabel, g.GradeOrNone())
	}
}

func TestPriceTier(t *testing.T) {
	assert.Equal(t, 0, restaurant.PriceTier(""))
	assert.Equal(t, 2, restaurant.PriceTier("₩₩"))
	assert.Equal(t, 3, restaurant.PriceTier("$$$"))
	assert.Equal(t, 1, restaurant.PriceTier("0"))
	assert.Equal(t, 4, restaurant.PriceTier("4"))
	assert.Equal(t, 4, restaurant.PriceTier("₩₩₩₩₩"))
}

func TestViolationHistoryWindow(t *testing.T) {
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) *time.Time {
		tm := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &tm
	}

	h := restaurant.ViolationHistory{
		TotalCount: 1,
		RecentItems: []restaurant.ViolationItem{
			{Date: day(2024, 3, 1), Type: "영업정지"},
			{Date: day(2020, 1, 1), Type: "과태료"}, // outside window
			{Date: nil, Type: "시정명령"},
			{Date: day(2025, 6, 1), Type: "경고"},
		},
	}
	got := h.Window(now)
	require.Len(t, got.RecentItems, 3)
	assert.Equal(t, "경고", got.RecentItems[0].Type)
	assert.Equal(t, "영업정지", got.RecentItems[1].Type)
	assert.Equal(t, "시정명령", got.RecentItems[2].Type)
	assert.Equal(t, 3, got.TotalCount)
	assert.False(t, got.HasMore)

	stale := restaurant.ViolationHistory{
		TotalCount:  1,
		RecentItems: []restaurant.ViolationItem{{Date: day(2019, 5, 1), Type: "영업정지"}},
	}.Window(now)
	assert.Empty(t, stale.RecentItems)
	assert.Zero(t, stale.TotalCount)

	truncated := restaurant.ViolationHistory{
		TotalCount:  5,
		RecentItems: []restaurant.ViolationItem{{Date: day(2025, 1, 1)}, {Date: day(2024, 1, 1)}},
	}.Window(now)
	assert.Equal(t, 2, truncated.TotalCount)
	assert.True(t, truncated.HasMore)

	empty := restaurant.EmptyHistory().Window(now)
	assert.NotNil(t, empty.RecentItems)
	assert.Zero(t, empty.TotalCount)
}

func TestEntityIDStable(t *testing.T) {
	a := restaurant.EntityID("스타벅스", "서울 강남구  테헤란로 1")
	b := restaurant.EntityID("스타벅스", "서울 강남구 테헤란로 1")
	c := restaurant.EntityID("스타벅스", "서울 서초구 강남대로 2")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
