package normalize

// DefaultBrands is the compiled-in franchise brand list. Config may replace
// it at startup.
var DefaultBrands = []string{
	"스타벅스", "투썸플레이스", "이디야", "메가커피", "빽다방", "컴포즈커피", "할리스", "파스쿠찌",
	"맥도날드", "버거킹", "롯데리아", "맘스터치", "KFC", "서브웨이",
	"BBQ", "BHC", "교촌치킨", "굽네치킨", "푸라닭", "네네치킨",
	"도미노피자", "피자헛", "파파존스", "미스터피자",
	"파리바게뜨", "뚜레쥬르", "배스킨라빈스", "던킨",
	"김밥천국", "한솥", "본죽", "명랑핫도그", "신전떡볶이", "엽기떡볶이",
	"새마을식당", "백종원의 원조쌈밥집", "홍콩반점", "역전우동",
}

// BrandTable is an immutable lookup of franchise brands.
type BrandTable struct {
	compact []string
}

// NewBrandTable builds a table from brand names. Blank names are ignored.
func NewBrandTable(brands []string) *BrandTable {
	t := &BrandTable{}
	seen := make(map[string]bool)
	for _, b := range brands {
		c := Compact(b)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		t.compact = append(t.compact, c)
	}
	return t
}

// Len returns the number of distinct brands.
func (t *BrandTable) Len() int { return len(t.compact) }

// IsFranchise reports whether name contains a brand or is contained in one.
// Matching is case and space insensitive.
func (t *BrandTable) IsFranchise(name string) bool {
	n := Compact(name)
	if n == "" {
		return false
	}
	for _, b := range t.compact {
		if containsEither(n, b) {
			return true
		}
	}
	return false
}

// Brand returns the first brand matching name, or "".
func (t *BrandTable) Brand(name string) string {
	n := Compact(name)
	if n == "" {
		return ""
	}
	for _, b := range t.compact {
		if containsEither(n, b) {
			return b
		}
	}
	return ""
}
