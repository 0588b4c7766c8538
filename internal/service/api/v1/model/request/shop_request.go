// Package request v1 API의 요청 모델을 정의합니다.
package request

// ProductListRequest 상품 목록 조회 요청
type ProductListRequest struct {
	// Page 조회할 페이지 번호 (1부터 시작)
	Page int `query:"page" validate:"omitempty,min=1" korean:"페이지 번호" example:"1"`
	// Category 카테고리 슬러그 필터
	Category string `query:"category" korean:"카테고리" example:"swim-caps"`
	// Query 검색어 필터
	Query string `query:"q" korean:"검색어" example:"مایو"`
}

// ResolveRequest 배리에이션 해석 요청
//
// Selection의 키는 속성 패싯의 type_id(문자열), 값은 선택한 속성 값의 슬러그입니다.
type ResolveRequest struct {
	Selection map[string]string `json:"selection" validate:"required,min=1" korean:"속성 선택"`
	// Quantity 장바구니 수량 (생략 시 1)
	Quantity int `json:"quantity" validate:"omitempty,min=1" korean:"수량" example:"1"`
}

// SelectableRequest 선택 가능 속성 조회 요청
type SelectableRequest struct {
	// Slug 기준이 되는 속성 값의 슬러그
	Slug string `json:"slug" validate:"required" korean:"속성 슬러그" example:"blue"`
}
