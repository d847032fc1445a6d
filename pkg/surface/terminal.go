package surface

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/safetable/safetable/internal/service"
	"github.com/safetable/safetable/pkg/rank"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/scoring"
)

// TerminalRenderer renders results as colored terminal output. Colors are
// disabled when NO_COLOR is set.
type TerminalRenderer struct{}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// maxViolations caps the violation lines shown per establishment.
const maxViolations = 5

func gradeColor(g scoring.Grade) string {
	if noColor() {
		return ""
	}
	switch g {
	case scoring.GradeA, scoring.GradeB:
		return colorGreen
	case scoring.GradeC:
		return colorYellow
	case scoring.GradeD:
		return colorRed
	default:
		return ""
	}
}

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

func bold(s string) string {
	if noColor() {
		return s
	}
	return colorBold + s + colorReset
}

func dim(s string) string {
	if noColor() {
		return s
	}
	return colorDim + s + colorReset
}

func colored(s, color string) string {
	if noColor() || color == "" {
		return s
	}
	return color + s + colorReset
}

func hygieneLine(g restaurant.HygieneGrade) string {
	if !g.HasGrade {
		return dim(restaurant.NoGradeLabel)
	}
	return fmt.Sprintf("%s %s (%s)", colored(restaurant.FormatStars(g.Stars), colorYellow), g.Label, g.Grade)
}

func writeViolations(w io.Writer, h restaurant.ViolationHistory) {
	if h.TotalCount == 0 {
		fmt.Fprintf(w, "  행정처분: %s\n", colored("없음", colorGreen))
		return
	}
	fmt.Fprintf(w, "  행정처분: %s\n", colored(fmt.Sprintf("%d건", h.TotalCount), colorRed))
	n := len(h.RecentItems)
	if n > maxViolations {
		n = maxViolations
	}
	for _, it := range h.RecentItems[:n] {
		date := "날짜 미상"
		if it.Date != nil {
			date = it.Date.Format("2006-01-02")
		}
		line := fmt.Sprintf("%s %s", date, it.Type)
		if it.Reason != "" {
			line += " - " + it.Reason
		}
		fmt.Fprintf(w, "    %s\n", dim(line))
	}
	if h.HasMore {
		fmt.Fprintf(w, "    %s\n", dim(fmt.Sprintf("... 외 %d건", h.TotalCount-n)))
	}
}

func (r *TerminalRenderer) Hygiene(w io.Writer, res *service.ResolvedResult) error {
	fmt.Fprintf(w, "%s\n", bold(res.Name))
	fmt.Fprintf(w, "  주소: %s\n", res.Address)
	if res.LotAddress != "" {
		fmt.Fprintf(w, "  지번: %s\n", dim(res.LotAddress))
	}
	if res.BusinessType != "" {
		fmt.Fprintf(w, "  업종: %s\n", res.BusinessType)
	}
	fmt.Fprintf(w, "  위생등급: %s\n", hygieneLine(res.Hygiene))
	if res.LicensedAt != "" {
		fmt.Fprintf(w, "  인허가일: %s\n", res.LicensedAt)
	}
	writeViolations(w, res.Violations)
	return nil
}

func (r *TerminalRenderer) TrustScore(w io.Writer, rep *service.TrustReport) error {
	res, e := rep.Result, rep.Entity
	gc := gradeColor(res.Grade)

	fmt.Fprintf(w, "%s\n", bold(e.Name))
	fmt.Fprintf(w, "  %s\n\n", dim(e.Address))
	fmt.Fprintf(w, "%s\n", bold(fmt.Sprintf("신뢰도 %s등급 · %d점", colored(string(res.Grade), gc), res.Score)))
	fmt.Fprintf(w, "  %s\n\n", res.Message)

	fmt.Fprintln(w, "세부 지표:")
	for _, d := range res.Details {
		fmt.Fprintf(w, "  %-8s %3d점 %s %s\n", d.Name, d.Score,
			dim(fmt.Sprintf("(x%.2f = %.1f)", d.Weight, d.Contribution)), d.Summary)
	}
	fmt.Fprintln(w)

	if len(e.Ratings) > 0 {
		fmt.Fprintln(w, "평점 출처:")
		for _, src := range sortedSources(e.Ratings) {
			sr := e.Ratings[src]
			score := "평점 없음"
			if sr.Score != nil {
				score = fmt.Sprintf("%.1f", *sr.Score)
			}
			fmt.Fprintf(w, "  • %s %s (리뷰 %d개)\n", src, score, sr.Reviews)
		}
		fmt.Fprintln(w)
	}
	writeViolations(w, e.Violations)
	return nil
}

func (r *TerminalRenderer) Comparison(w io.Writer, res *service.ComparisonResult) error {
	fmt.Fprintf(w, "%s\n\n", bold(fmt.Sprintf("비교 결과 (%s)", res.Status)))

	if res.Comparison != nil {
		c := res.Comparison
		fmt.Fprintf(w, "  %-16s %6s %6s %6s %6s %4s\n", "식당", "위생", "인기", "종합", "신뢰도", "가격")
		for _, s := range c.Scores {
			tier := "-"
			if s.PriceTier > 0 {
				tier = strings.Repeat("₩", s.PriceTier)
			}
			fmt.Fprintf(w, "  %-16s %6d %6d %6d %6s %4s\n", s.Name, s.HygieneScore, s.PopularityScore,
				s.OverallScore, colored(fmt.Sprintf("%d%s", s.TrustScore, s.Grade), gradeColor(s.Grade)), tier)
		}
		fmt.Fprintln(w)
		for _, best := range []struct{ label, id string }{
			{"위생 최고", c.BestHygiene},
			{"평점 최고", c.BestRating},
			{"가성비 최고", c.BestValue},
		} {
			if best.id != "" {
				fmt.Fprintf(w, "  %s: %s\n", best.label, bold(c.Label(best.id)))
			}
		}
		if c.Recommendation != "" {
			fmt.Fprintf(w, "\n%s\n", c.Recommendation)
		}
		fmt.Fprintln(w)
	} else if res.Status == rank.StatusInsufficient {
		fmt.Fprintln(w, "비교하려면 식당을 2곳 이상 찾아야 해요.")
		fmt.Fprintln(w)
	}

	if len(res.NotFound) > 0 {
		fmt.Fprintln(w, "찾지 못한 식당:")
		for _, nf := range res.NotFound {
			fmt.Fprintf(w, "  %s %s (%s) - %s\n", colored("●", colorRed), nf.Name, nf.Region, nf.Reason)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (r *TerminalRenderer) Recommendations(w io.Writer, list *service.RankedList) error {
	header := list.Area
	if list.Category != "" {
		header += " " + list.Category
	}
	fmt.Fprintf(w, "%s\n\n", bold(header+" 추천"))

	if list.Status != restaurant.AreaReady {
		if list.Message != "" {
			fmt.Fprintln(w, list.Message)
		}
		if len(list.Suggestions) > 0 {
			fmt.Fprintf(w, "이런 동네로 좁혀 보세요: %s\n", strings.Join(list.Suggestions, ", "))
		}
		return nil
	}
	if len(list.Recommendations) == 0 {
		fmt.Fprintln(w, "조건에 맞는 식당이 없어요.")
		return nil
	}

	for _, rec := range list.Recommendations {
		fmt.Fprintf(w, "%d. %s %s\n", rec.Rank, bold(rec.Entity.Name),
			colored(fmt.Sprintf("%d점 %s등급", rec.Score, rec.Grade), gradeColor(rec.Grade)))
		fmt.Fprintf(w, "   %s\n", rec.Reason)
		fmt.Fprintf(w, "   %s\n", dim(rec.Entity.Address))
	}
	fmt.Fprintf(w, "\n%s\n", dim(fmt.Sprintf("후보 %d곳 중 선정", list.Considered)))
	return nil
}
