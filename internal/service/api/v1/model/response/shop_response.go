// Package response v1 API의 응답 모델을 정의합니다.
package response

import (
	"github.com/iranswimmers/storefront-server/internal/service/shop/category"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
)

// ProductDetailResponse 상품 상세 응답
type ProductDetailResponse struct {
	// Product 정규화된 상품 원본 데이터
	Product *product.Product `json:"product"`

	// GroupedAttributes 패싯별로 그룹화된 속성 값 목록
	GroupedAttributes []product.GroupedAttribute `json:"grouped_attributes"`

	// StockMap 속성 값("{type_id}-{slug}")별 재고 여부 인덱스
	StockMap product.StockMap `json:"stock_map"`

	// Images 상품 갤러리 이미지 목록 (대표 이미지가 맨 앞에 위치)
	Images []product.GalleryImage `json:"images"`

	// MainImage 대표 이미지
	MainImage *product.GalleryImage `json:"main_image,omitempty"`

	// ShortDescription HTML 태그가 제거된 요약 설명
	ShortDescription string `json:"short_description,omitempty"`

	// DisplayPrice 표시 가격. 배리에이션 미선택 상태는 -1, 재고 없음은 0입니다.
	DisplayPrice int `json:"display_price"`

	// DisplaySalePrice 표시 할인 가격
	DisplaySalePrice *int `json:"display_sale_price,omitempty"`

	// AddToCartDisabled 장바구니 담기 버튼의 비활성화 여부
	AddToCartDisabled bool `json:"add_to_cart_disabled"`
}

// ProductListResponse 상품 목록 응답
type ProductListResponse struct {
	Products []product.Product   `json:"products"`
	Meta     *product.Pagination `json:"meta,omitempty"`
}

// SelectableResponse 선택 가능 속성 슬러그 목록 응답
type SelectableResponse struct {
	Selectable []string `json:"selectable"`
}

// CategoryTreeResponse 카테고리 트리 응답
type CategoryTreeResponse struct {
	Categories []*category.Category `json:"categories"`
}
