// Package product 상품 상세 페이지의 핵심 로직을 담당합니다.
//
// 업스트림 상품 페이로드를 정규화하고, 배리에이션(variation)의 속성을 집계하여
// 재고 맵과 그룹화된 속성 목록을 만들며, 사용자의 부분 선택으로부터 단일
// 배리에이션을 해석(resolve)하여 장바구니 준비 데이터를 생성합니다.
package product

import (
	"fmt"
)

// ProductType 상품의 판매 유형입니다.
type ProductType string

const (
	// TypeFixed 단일 가격으로 판매되는 상품입니다.
	TypeFixed ProductType = "fixed"

	// TypeSimple 단일 가격으로 판매되는 상품입니다. (업스트림의 레거시 표기)
	TypeSimple ProductType = "simple"

	// TypeVariable 색상, 사이즈 등 배리에이션 선택이 필요한 상품입니다.
	TypeVariable ProductType = "variable"
)

// Image 상품 또는 배리에이션에 연결된 이미지입니다.
type Image struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	MimeType string `json:"mime_type,omitempty"`
}

// ColorSwatch 색상 패싯(facet)의 대표 견본 이미지입니다.
// 해당 색상 값을 가진 배리에이션 중 이미지가 존재하는 첫 번째 배리에이션에서 파생됩니다.
type ColorSwatch struct {
	Path string `json:"path"`
	Alt  string `json:"alt"`
}

// Attribute 배리에이션이 가진 하나의 선택 가능한 속성 값입니다.
// (type_id, slug) 쌍이 상품의 모든 배리에이션에 걸쳐 속성 값을 유일하게 식별합니다.
type Attribute struct {
	Type    string            `json:"type,omitempty"`
	TypeID  int               `json:"type_id"`
	Slug    string            `json:"slug"`
	Value   string            `json:"value,omitempty"`
	InStock bool              `json:"in_stock"`
	Swatch  *ColorSwatch      `json:"swatch,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// Variation 구매 가능한 하나의 구체적인 속성 값 조합(SKU)입니다.
// 속성 목록에는 동일한 TypeID를 가진 속성이 둘 이상 존재하지 않습니다.
type Variation struct {
	ID            int         `json:"id"`
	Attributes    []Attribute `json:"attributes"`
	InStock       bool        `json:"in_stock"`
	StockQuantity int         `json:"stock_quantity"`
	Images        []Image     `json:"images,omitempty"`
	Price         int         `json:"price"`
	SalePrice     *int        `json:"sale_price,omitempty"`
	SKU           string      `json:"sku,omitempty"`
}

// Breadcrumb 상품 상세 페이지의 탐색 경로 항목입니다.
type Breadcrumb struct {
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Product 업스트림에서 조회한 단일 상품입니다.
type Product struct {
	ID           int          `json:"id,omitempty"`
	Name         string       `json:"name"`
	Slug         string       `json:"slug,omitempty"`
	Type         ProductType  `json:"type"`
	SKU          string       `json:"sku,omitempty"`
	Price        int          `json:"price"`
	SalePrice    *int         `json:"sale_price,omitempty"`
	InStock      bool         `json:"in_stock"`
	Description  string       `json:"description,omitempty"`
	Excerpt      string       `json:"excerpt,omitempty"`
	Featured     bool         `json:"featured,omitempty"`
	Brand        string       `json:"brand,omitempty"`
	Thumbnail    string       `json:"thumbnail,omitempty"`
	ThumbnailAlt string       `json:"thumbnail_alt,omitempty"`
	Breadcrumb   []Breadcrumb `json:"breadcrumb,omitempty"`
	Variations   []Variation  `json:"variations,omitempty"`
}

// IsVariable 배리에이션 선택이 필요한 상품인지의 여부를 반환합니다.
func (p *Product) IsVariable() bool {
	return p.Type == TypeVariable
}

// StockMap 속성 값("{type_id}-{slug}")별 재고 여부 인덱스입니다.
// 해당 속성 값을 가진 배리에이션 중 하나라도 재고가 있으면 true입니다.
type StockMap map[string]bool

// StockKey StockMap의 키를 생성합니다.
func StockKey(typeID int, slug string) string {
	return fmt.Sprintf("%d-%s", typeID, slug)
}

// InStock 지정된 속성 값의 재고 여부를 반환합니다.
// 키가 존재하지 않으면 false를 반환합니다.
func (m StockMap) InStock(typeID int, slug string) bool {
	return m[StockKey(typeID, slug)]
}

// GroupedValue 그룹화된 속성 목록의 멤버입니다.
// 그룹 수준으로 승격된 Type/TypeID 필드는 제외됩니다.
type GroupedValue struct {
	Slug    string            `json:"slug"`
	Value   string            `json:"value,omitempty"`
	InStock bool              `json:"in_stock"`
	Swatch  *ColorSwatch      `json:"swatch,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// GroupedAttribute 하나의 패싯(TypeID)과 해당 패싯의 중복 제거된 속성 값 목록입니다.
// 그룹 내에 동일한 Slug를 가진 멤버가 둘 이상 존재하지 않습니다.
type GroupedAttribute struct {
	Type       string         `json:"type"`
	TypeID     int            `json:"type_id"`
	Attributes []GroupedValue `json:"attributes"`
}

// CartReadyProduct 해석된 배리에이션을 장바구니에 담기 위한 최소 스냅샷입니다.
// 선택이 변경되면 폐기되고 다시 생성됩니다.
type CartReadyProduct struct {
	Name          string      `json:"name"`
	Thumbnail     string      `json:"thumbnail,omitempty"`
	VariationID   int         `json:"variation_id"`
	Attributes    []Attribute `json:"attributes"`
	Price         int         `json:"price"`
	InStock       bool        `json:"in_stock"`
	Quantity      int         `json:"quantity"`
	StockQuantity int         `json:"stock_quantity"`
	SalePrice     *int        `json:"sale_price,omitempty"`
}

// GalleryImage 상품 상세 페이지 갤러리에 표시되는 이미지입니다.
type GalleryImage struct {
	VariationID int    `json:"variation_id,omitempty"`
	Src         string `json:"src"`
	Alt         string `json:"alt"`
}
