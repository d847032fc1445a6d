package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// provinceAliases maps long administrative names to their short forms.
var provinceAliases = map[string]string{
	"서울특별시":   "서울",
	"서울시":     "서울",
	"부산광역시":   "부산",
	"부산시":     "부산",
	"대구광역시":   "대구",
	"대구시":     "대구",
	"인천광역시":   "인천",
	"인천시":     "인천",
	"광주광역시":   "광주",
	"대전광역시":   "대전",
	"대전시":     "대전",
	"울산광역시":   "울산",
	"울산시":     "울산",
	"세종특별자치시": "세종",
	"세종시":     "세종",
	"경기도":     "경기",
	"강원도":     "강원",
	"강원특별자치도": "강원",
	"충청북도":    "충북",
	"충청남도":    "충남",
	"전라북도":    "전북",
	"전북특별자치도": "전북",
	"전라남도":    "전남",
	"경상북도":    "경북",
	"경상남도":    "경남",
	"제주특별자치도": "제주",
	"제주도":     "제주",
}

var (
	numberedDong = regexp.MustCompile(`^(\p{Hangul}+?)[0-9]+(동|가)$`)
	lotSuffix    = regexp.MustCompile(`번지$`)
)

// Region canonicalizes one administrative token: province long forms become
// short forms and numbered sub-districts fold into their parent
// ("역삼1동" -> "역삼동").
func Region(token string) string {
	t := strings.TrimSpace(norm.NFC.String(token))
	if short, ok := provinceAliases[t]; ok {
		return short
	}
	if m := numberedDong.FindStringSubmatch(t); m != nil {
		return m[1] + m[2]
	}
	return t
}

// AddressTokens returns the alias-normalized token set of an address.
func AddressTokens(address string) []string {
	var out []string
	for _, f := range strings.Fields(norm.NFC.String(address)) {
		f = strings.Trim(f, ",()")
		f = lotSuffix.ReplaceAllString(f, "")
		if f == "" {
			continue
		}
		out = append(out, strings.ToLower(Region(f)))
	}
	return out
}

// RegionKey is the canonical form of a region string used in cache keys and
// registry lookups.
func RegionKey(region string) string {
	return strings.Join(AddressTokens(region), " ")
}
