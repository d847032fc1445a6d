package surface

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
)

// MarkdownRenderer renders results as GitHub-flavored Markdown, for
// pasting into chats and issues.
type MarkdownRenderer struct{}

func gradeIcon(g scoring.Grade) string {
	switch g {
	case scoring.GradeA:
		return ":green_circle:"
	case scoring.GradeB:
		return ":large_blue_circle:"
	case scoring.GradeC:
		return ":yellow_circle:"
	default:
		return ":red_circle:"
	}
}

func sortedSources(m map[string]restaurant.SourceRating) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mdViolations(sb *strings.Builder, h restaurant.ViolationHistory) {
	fmt.Fprintf(sb, "**행정처분**: %d건\n", h.TotalCount)
	max := 3
	if len(h.RecentItems) < max {
		max = len(h.RecentItems)
	}
	for _, it := range h.RecentItems[:max] {
		date := "날짜 미상"
		if it.Date != nil {
			date = it.Date.Format("2006-01-02")
		}
		fmt.Fprintf(sb, "- %s %s %s\n", date, it.Type, it.Reason)
	}
}

func (r *MarkdownRenderer) Hygiene(w io.Writer, res *service.ResolvedResult) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", res.Name)
	sb.WriteString("| 항목 | 내용 |\n|------|------|\n")
	fmt.Fprintf(&sb, "| 주소 | %s |\n", res.Address)
	if res.Hygiene.HasGrade {
		fmt.Fprintf(&sb, "| 위생등급 | %s %s |\n", res.Stars, res.Hygiene.Label)
	} else {
		fmt.Fprintf(&sb, "| 위생등급 | %s |\n", restaurant.NoGradeLabel)
	}
	if res.LicensedAt != "" {
		fmt.Fprintf(&sb, "| 인허가일 | %s |\n", res.LicensedAt)
	}
	sb.WriteString("\n")
	mdViolations(&sb, res.Violations)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) TrustScore(w io.Writer, rep *service.TrustReport) error {
	res := rep.Result
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s %s: %s등급 (%d점)\n\n", gradeIcon(res.Grade), rep.Entity.Name, res.Grade, res.Score)
	fmt.Fprintf(&sb, "%s\n\n", res.Message)
	sb.WriteString("| 지표 | 점수 | 가중치 | 기여 | 근거 |\n|------|------|--------|------|------|\n")
	for _, d := range res.Details {
		fmt.Fprintf(&sb, "| %s | %d | %.2f | %.1f | %s |\n", d.Name, d.Score, d.Weight, d.Contribution, d.Summary)
	}
	sb.WriteString("\n")
	mdViolations(&sb, rep.Entity.Violations)
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) Comparison(w io.Writer, res *service.ComparisonResult) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## 비교 결과 (%s)\n\n", res.Status)
	if c := res.Comparison; c != nil {
		sb.WriteString("| 식당 | 위생 | 인기 | 종합 | 신뢰도 |\n|------|------|------|------|--------|\n")
		for _, s := range c.Scores {
			fmt.Fprintf(&sb, "| %s | %d | %d | %d | %d (%s) |\n",
				s.Name, s.HygieneScore, s.PopularityScore, s.OverallScore, s.TrustScore, s.Grade)
		}
		sb.WriteString("\n")
		if c.Recommendation != "" {
			fmt.Fprintf(&sb, "**%s**\n\n", c.Recommendation)
		}
	}
	if len(res.NotFound) > 0 {
		sb.WriteString("### 찾지 못한 식당\n\n")
		for _, nf := range res.NotFound {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", nf.Name, nf.Region, nf.Reason)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func (r *MarkdownRenderer) Recommendations(w io.Writer, list *service.RankedList) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s 추천\n\n", strings.TrimSpace(list.Area+" "+list.Category))
	if list.Status != restaurant.AreaReady {
		fmt.Fprintf(&sb, "%s\n", list.Message)
		for _, s := range list.Suggestions {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	} else {
		for _, rec := range list.Recommendations {
			fmt.Fprintf(&sb, "%d. %s **%s** %d점: %s\n", rec.Rank, gradeIcon(rec.Grade), rec.Entity.Name, rec.Score, rec.Reason)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
