package product

import (
	"fmt"
	"sync"
	"time"

	"github.com/iranswimmers/storefront-server/pkg/strutil"
)

// descriptionMaxRunes 메타 태그용 상품 설명의 최대 길이입니다.
const descriptionMaxRunes = 160

// Session 하나의 상품 상세 페이지에 대한 해석 세션입니다.
//
// 상품 로드 시 재고 맵, 그룹화된 속성, 이미지 갤러리를 한 번 구축하고,
// 이후 사용자의 선택 해석 요청마다 선택된 배리에이션과 장바구니 준비
// 데이터를 갱신합니다. 여러 요청이 동일 세션을 공유할 수 있으므로 선택
// 상태는 뮤텍스로 보호됩니다.
type Session struct {
	product     *Product
	stockMap    StockMap
	grouped     []GroupedAttribute
	images      []GalleryImage
	mainImage   *GalleryImage
	colorTypeID int
	createdAt   time.Time

	mu           sync.Mutex
	selected     *Variation
	cartReady    *CartReadyProduct
	inStockSlugs []string
}

// NewSession 지정된 상품에 대한 새로운 해석 세션을 생성합니다.
// 배리에이션이 없는 상품도 유효하며, 빈 재고 맵과 빈 그룹 목록을 갖습니다.
func NewSession(p *Product, colorTypeID int) *Session {
	s := &Session{
		product:     p,
		colorTypeID: colorTypeID,
		createdAt:   time.Now(),
	}

	s.stockMap, s.grouped = Aggregate(p.Variations, colorTypeID)
	s.inStockSlugs = InStockSlugs(p.Variations)
	s.buildImages()

	return s
}

// Product 세션이 소유한 상품을 반환합니다.
func (s *Session) Product() *Product {
	return s.product
}

// StockMap 속성 값별 재고 인덱스를 반환합니다.
func (s *Session) StockMap() StockMap {
	return s.stockMap
}

// GroupedAttributes 패싯별로 그룹화된 속성 목록을 반환합니다.
func (s *Session) GroupedAttributes() []GroupedAttribute {
	return s.grouped
}

// CreatedAt 세션 생성 시각을 반환합니다. TTL 기반 캐시 만료 판정에 사용됩니다.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// buildImages 배리에이션들로부터 이미지 갤러리와 대표 이미지를 구성합니다.
func (s *Session) buildImages() {
	for _, v := range s.product.Variations {
		if len(v.Images) == 0 {
			continue
		}

		alt := v.Images[0].Name
		if alt == "" {
			alt = fmt.Sprintf("%s - محصول %d", s.product.Name, v.ID)
		}

		s.images = append(s.images, GalleryImage{
			VariationID: v.ID,
			Src:         v.Images[0].Path,
			Alt:         alt,
		})
	}

	mainSrc := s.product.Thumbnail
	if mainSrc == "" && len(s.images) > 0 {
		mainSrc = s.images[0].Src
	}

	s.mainImage = &GalleryImage{
		Src: mainSrc,
		Alt: s.product.Name + " - عکس محصول",
	}

	// 대표 이미지가 갤러리 첫 이미지와 다르면 갤러리 맨 앞에 추가한다.
	if s.mainImage.Src != "" && (len(s.images) == 0 || s.mainImage.Src != s.images[0].Src) {
		s.images = append([]GalleryImage{*s.mainImage}, s.images...)
	}
}

// Images 상품 이미지 갤러리를 반환합니다.
func (s *Session) Images() []GalleryImage {
	return s.images
}

// MainImage 상품 대표 이미지를 반환합니다.
func (s *Session) MainImage() *GalleryImage {
	return s.mainImage
}

// Description 메타 태그용으로 HTML 태그를 제거하고 160자로 자른 상품 설명을 반환합니다.
// 설명이 없으면 요약(excerpt)을 대신 사용합니다.
func (s *Session) Description() string {
	source := s.product.Description
	if source == "" {
		source = s.product.Excerpt
	}
	if source == "" {
		return ""
	}

	return strutil.TruncateRunes(strutil.StripHTMLTags(source), descriptionMaxRunes)
}

// Price 상품 유형과 현재 선택 상태에 따른 표시 가격을 반환합니다.
//
// 고정가 상품은 재고가 있으면 가격, 없으면 0입니다. 배리에이션 상품은
// 재고 있는 배리에이션이 존재할 때 선택된 배리에이션의 가격을 반환하며,
// 아직 선택되지 않았으면 가격 범위 표시를 뜻하는 -1을 반환합니다.
func (s *Session) Price() int {
	p := s.product

	switch p.Type {
	case TypeFixed, TypeSimple:
		if p.InStock {
			return p.Price
		}
		return 0

	case TypeVariable:
		if !s.hasInStockVariations() {
			return 0
		}

		s.mu.Lock()
		selected := s.selected
		s.mu.Unlock()

		if selected == nil {
			return -1
		}
		if selected.InStock {
			return selected.Price
		}
		return 0
	}

	return 0
}

// SalePrice 상품 유형과 현재 선택 상태에 따른 할인가를 반환합니다. 할인이 없으면 nil입니다.
func (s *Session) SalePrice() *int {
	p := s.product

	switch p.Type {
	case TypeFixed, TypeSimple:
		if p.InStock {
			return p.SalePrice
		}

	case TypeVariable:
		s.mu.Lock()
		selected := s.selected
		s.mu.Unlock()

		if selected != nil && selected.InStock {
			return selected.SalePrice
		}
	}

	return nil
}

// AddToCartDisabled 장바구니 담기 버튼을 비활성화해야 하는지의 여부를 반환합니다.
func (s *Session) AddToCartDisabled() bool {
	p := s.product

	switch p.Type {
	case TypeFixed, TypeSimple:
		return !p.InStock

	case TypeVariable:
		if !s.hasInStockVariations() {
			return true
		}

		s.mu.Lock()
		selected := s.selected
		s.mu.Unlock()

		if selected == nil {
			return true
		}
		return !selected.InStock
	}

	return true
}

func (s *Session) hasInStockVariations() bool {
	for _, v := range s.product.Variations {
		if v.InStock {
			return true
		}
	}
	return false
}

// ResolveResult 선택 해석의 결과입니다.
type ResolveResult struct {
	// Resolved 선택이 단일 배리에이션을 결정했는지의 여부입니다.
	// false는 에러가 아니라 부분 선택이 아직 충분하지 않은 정상 상태입니다.
	Resolved bool `json:"resolved"`

	// Variation 해석된 배리에이션입니다. Resolved가 false이면 nil입니다.
	Variation *Variation `json:"variation,omitempty"`

	// CartReady 해석된 배리에이션의 장바구니 준비 데이터입니다. Resolved가 false이면 nil입니다.
	CartReady *CartReadyProduct `json:"cart_ready,omitempty"`
}

// Resolve 사용자의 선택을 해석하여 선택된 배리에이션과 장바구니 준비 데이터를 갱신합니다.
//
// 일치하는 배리에이션이 없으면 선택 상태를 해제하고 Resolved가 false인 결과를
// 반환합니다. 일치하면 장바구니 준비 데이터를 생성하며, 다른 배리에이션에 대한
// 기존 장바구니 준비 데이터가 있으면 먼저 폐기합니다. 수량이 0 이하이면 1로
// 보정됩니다.
func (s *Session) Resolve(selection Selection, quantity int) *ResolveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	variation, ok := Resolve(s.product.Variations, selection)
	if !ok {
		s.selected = nil
		return &ResolveResult{Resolved: false}
	}

	s.selected = variation
	s.cartReady = s.buildCartReady(variation, quantity)

	return &ResolveResult{
		Resolved:  true,
		Variation: variation,
		CartReady: s.cartReady,
	}
}

// buildCartReady 해석된 배리에이션의 장바구니 준비 스냅샷을 생성합니다.
// 호출 전에 s.mu가 잠겨 있어야 합니다.
func (s *Session) buildCartReady(variation *Variation, quantity int) *CartReadyProduct {
	// 다른 배리에이션에 대한 기존 장바구니 준비 데이터는 폐기한다.
	if s.cartReady != nil && s.cartReady.VariationID != variation.ID {
		s.cartReady = nil
	}

	if quantity <= 0 {
		quantity = 1
	}

	thumbnail := ""
	if len(variation.Images) > 0 && variation.Images[0].Path != "" {
		thumbnail = variation.Images[0].Path
	} else if s.mainImage != nil {
		thumbnail = s.mainImage.Src
	}

	return &CartReadyProduct{
		Name:          s.product.Name,
		Thumbnail:     thumbnail,
		VariationID:   variation.ID,
		Attributes:    variation.Attributes,
		Price:         variation.Price,
		InStock:       variation.InStock,
		Quantity:      quantity,
		StockQuantity: variation.StockQuantity,
		SalePrice:     variation.SalePrice,
	}
}

// SelectedVariation 현재 선택된 배리에이션을 반환합니다. 선택이 없으면 nil입니다.
func (s *Session) SelectedVariation() *Variation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// CartReady 현재 장바구니 준비 데이터를 반환합니다. 없으면 nil입니다.
func (s *Session) CartReady() *CartReadyProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartReady
}

// ResetSelections 선택된 배리에이션과 장바구니 준비 데이터를 모두 해제합니다.
func (s *Session) ResetSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = nil
	s.cartReady = nil
	s.inStockSlugs = InStockSlugs(s.product.Variations)
}

// SelectableSlugs 현재 선택 가능한 것으로 표시할 속성 값의 Slug 목록을 반환합니다.
func (s *Session) SelectableSlugs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inStockSlugs
}

// SelectAttribute 하나의 속성 값 선택에 따라 선택 가능한 속성 값 목록을 재계산합니다.
func (s *Session) SelectAttribute(chosenSlug string) []string {
	slugs := SelectableWith(s.product.Variations, chosenSlug)

	s.mu.Lock()
	s.inStockSlugs = slugs
	s.mu.Unlock()

	return slugs
}
