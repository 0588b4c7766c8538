package product_test

import (
	"testing"

	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariations() []product.Variation {
	return []product.Variation{
		{ID: 1, InStock: true, Price: 250000, Attributes: []product.Attribute{
			{TypeID: 1, Slug: "small"},
			{TypeID: 2, Slug: "red"},
		}},
		{ID: 2, InStock: false, Price: 250000, Attributes: []product.Attribute{
			{TypeID: 1, Slug: "small"},
			{TypeID: 2, Slug: "blue"},
		}},
		{ID: 3, InStock: true, Price: 270000, Attributes: []product.Attribute{
			{TypeID: 1, Slug: "large"},
			{TypeID: 2, Slug: "blue"},
		}},
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		selection product.Selection
		wantID    int
		wantOK    bool
	}{
		{
			name:      "성공: 전체 패싯을 지정한 선택은 단일 배리에이션으로 해석된다",
			selection: product.Selection{1: "small", 2: "red"},
			wantID:    1,
			wantOK:    true,
		},
		{
			name:      "성공: 부분 선택은 목록 순서상 첫 번째 일치 배리에이션으로 해석된다",
			selection: product.Selection{2: "blue"},
			wantID:    2,
			wantOK:    true,
		},
		{
			name:      "성공: 패싯에 존재하지 않는 값은 선택 없음으로 해석된다",
			selection: product.Selection{1: "red"},
			wantOK:    false,
		},
		{
			name:      "성공: 일치하는 배리에이션이 없으면 선택 없음으로 해석된다",
			selection: product.Selection{1: "small", 2: "green"},
			wantOK:    false,
		},
		{
			name:      "성공: 빈 선택은 첫 번째 배리에이션으로 해석된다",
			selection: product.Selection{},
			wantID:    1,
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			variation, ok := product.Resolve(testVariations(), tt.selection)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				require.NotNil(t, variation)
				assert.Equal(t, tt.wantID, variation.ID)
			} else {
				assert.Nil(t, variation)
			}
		})
	}
}

func TestResolve_SpecExample(t *testing.T) {
	t.Parallel()

	variations := []product.Variation{
		{ID: 1, InStock: true, Attributes: []product.Attribute{{TypeID: 1, Slug: "red"}}},
		{ID: 2, InStock: false, Attributes: []product.Attribute{{TypeID: 1, Slug: "blue"}}},
	}

	variation, ok := product.Resolve(variations, product.Selection{1: "red"})
	require.True(t, ok)
	assert.Equal(t, 1, variation.ID)

	variation, ok = product.Resolve(variations, product.Selection{1: "green"})
	assert.False(t, ok)
	assert.Nil(t, variation)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	v := product.Variation{ID: 1, Attributes: []product.Attribute{
		{TypeID: 1, Slug: "small"},
		{TypeID: 2, Slug: "red"},
	}}

	tests := []struct {
		name      string
		selection product.Selection
		want      bool
	}{
		{"성공: 모든 패싯이 일치하면 true", product.Selection{1: "small", 2: "red"}, true},
		{"성공: 선택에 없는 패싯은 제약하지 않는다", product.Selection{2: "red"}, true},
		{"성공: 하나라도 불일치하면 false", product.Selection{1: "small", 2: "blue"}, false},
		{"성공: 배리에이션에 없는 패싯을 지정하면 false", product.Selection{3: "cotton"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, product.Matches(&v, tt.selection))
		})
	}
}

func TestSelectableWith(t *testing.T) {
	t.Parallel()

	t.Run("성공: 선택된 값을 가진 배리에이션의 속성 값과 같은 패싯의 나머지 값이 합산된다", func(t *testing.T) {
		t.Parallel()

		slugs := product.SelectableWith(testVariations(), "red")

		// red를 가진 배리에이션 1의 속성(small, red) + 같은 패싯(TypeID 2)의 나머지 값(blue)
		assert.ElementsMatch(t, []string{"small", "red", "blue"}, slugs)
	})

	t.Run("성공: 같은 패싯 내 전환은 항상 허용된다", func(t *testing.T) {
		t.Parallel()

		slugs := product.SelectableWith(testVariations(), "blue")

		assert.Contains(t, slugs, "red")
		assert.Contains(t, slugs, "blue")
	})

	t.Run("성공: 존재하지 않는 값은 빈 목록을 반환한다", func(t *testing.T) {
		t.Parallel()

		slugs := product.SelectableWith(testVariations(), "green")

		assert.Empty(t, slugs)
	})
}

func TestInStockSlugs(t *testing.T) {
	t.Parallel()

	slugs := product.InStockSlugs(testVariations())

	// 재고 있는 배리에이션 1(small, red)과 3(large, blue)의 속성 값들
	assert.Equal(t, []string{"small", "red", "large", "blue"}, slugs)
}
