package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/unicode/norm"

	"github.com/safetable/safetable/pkg/normalize"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  스타벅스   강남역점 ", "스타벅스"},
		{"스타벅스 (강남R점)", "스타벅스"},
		{"Mom's  Touch", "mom's touch"},
		{"본점", "본점"},
		{"맘스터치 2호점", "맘스터치"},
		{"홍콩 반점", "홍콩 반점"},
		{"Shake Shack Branch", "shake shack"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalize.Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalizeComposesHangul(t *testing.T) {
	decomposed := norm.NFD.String("김밥천국")
	assert.NotEqual(t, "김밥천국", decomposed)
	assert.Equal(t, "김밥천국", normalize.Normalize(decomposed))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "momstouch", normalize.Compact("Mom's Touch"))
	assert.Equal(t, "교촌치킨", normalize.Compact("교촌 치킨 역삼점"))
	assert.Equal(t, "", normalize.Compact("   "))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"원조", "쌈밥집"}, normalize.Tokens("원조, 쌈밥집!"))
	assert.Empty(t, normalize.Tokens(""))
}

func TestRegion(t *testing.T) {
	assert.Equal(t, "서울", normalize.Region("서울특별시"))
	assert.Equal(t, "경기", normalize.Region("경기도"))
	assert.Equal(t, "역삼동", normalize.Region("역삼1동"))
	assert.Equal(t, "강남구", normalize.Region("강남구"))
}

func TestAddressTokens(t *testing.T) {
	got := normalize.AddressTokens("서울특별시 강남구 역삼1동 123-4번지")
	assert.Equal(t, []string{"서울", "강남구", "역삼동", "123-4"}, got)
	assert.Equal(t, "서울 강남구", normalize.RegionKey(" 서울시  강남구 "))
}

func TestBrandTable(t *testing.T) {
	brands := normalize.NewBrandTable([]string{"스타벅스", "Mom's Touch", "", "스타벅스"})
	assert.Equal(t, 2, brands.Len())

	assert.True(t, brands.IsFranchise("스타벅스 강남역점"))
	assert.True(t, brands.IsFranchise("MOMS TOUCH 역삼점"))
	assert.True(t, brands.IsFranchise("스타벅스리저브"))
	assert.True(t, brands.IsFranchise("스타"), "name contained in a brand also matches")
	assert.False(t, brands.IsFranchise("동네 김밥"))
	assert.False(t, brands.IsFranchise(""))
	assert.Equal(t, "스타벅스", brands.Brand("스타벅스 리저브"))
	assert.Equal(t, "", brands.Brand("동네 김밥"))
}

func TestDefaultBrands(t *testing.T) {
	brands := normalize.NewBrandTable(normalize.DefaultBrands)
	assert.True(t, brands.IsFranchise("교촌치킨 역삼점"))
	assert.True(t, brands.IsFranchise("kfc 강남점"))
}
