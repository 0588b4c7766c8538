package upstream

import (
	"fmt"
	"net/url"
	"strings"
)

// Endpoints 업스트림 쇼핑몰 API의 전체 URL을 생성하는 빌더입니다.
// baseURL은 API 경로까지 포함한 기준 URL입니다. (예: https://shop.example.com/wp-json/isw/v1)
type Endpoints struct {
	baseURL string
}

// NewEndpoints 지정된 기준 URL을 사용하는 새로운 Endpoints 인스턴스를 생성합니다.
func NewEndpoints(baseURL string) *Endpoints {
	return &Endpoints{
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ListParams 상품 목록 조회 시 사용되는 필터 매개변수입니다.
type ListParams struct {
	// Page 조회할 페이지 번호입니다. (1부터 시작, 0 이하이면 생략)
	Page int

	// Category 카테고리 슬러그 필터입니다. (빈 문자열이면 생략)
	Category string

	// Query 상품명 검색어 필터입니다. (빈 문자열이면 생략)
	Query string
}

// Products 상품 목록 조회 URL을 반환합니다.
func (e *Endpoints) Products(params ListParams) string {
	values := url.Values{}
	if params.Page > 0 {
		values.Set("page", fmt.Sprintf("%d", params.Page))
	}
	if params.Category != "" {
		values.Set("category", params.Category)
	}
	if params.Query != "" {
		values.Set("q", params.Query)
	}

	u := e.baseURL + "/shop"
	if len(values) > 0 {
		u += "?" + values.Encode()
	}
	return u
}

// Product 단일 상품 조회 URL을 반환합니다.
func (e *Endpoints) Product(slug string) string {
	return e.baseURL + "/product/" + url.PathEscape(slug)
}

// RelatedProducts 연관 상품 목록 조회 URL을 반환합니다.
func (e *Endpoints) RelatedProducts(slug string) string {
	return e.baseURL + "/product/" + url.PathEscape(slug) + "/related"
}

// CategoryTree 지정된 깊이까지의 중첩 카테고리 트리 조회 URL을 반환합니다.
func (e *Endpoints) CategoryTree(depth int) string {
	return fmt.Sprintf("%s/shop/categories?d=%d", e.baseURL, depth)
}

// Category 단일 카테고리 조회 URL을 반환합니다.
func (e *Endpoints) Category(slug string) string {
	return e.baseURL + "/shop/category/" + url.PathEscape(slug)
}

// Search 전체 상품 검색 URL을 반환합니다.
func (e *Endpoints) Search(query string) string {
	return e.baseURL + "/shop/search?q=" + url.QueryEscape(query)
}

// RealtimeSearch 실시간(타이핑 중) 상품 검색 URL을 반환합니다.
func (e *Endpoints) RealtimeSearch(query string) string {
	return e.baseURL + "/shop/rt-search?q=" + url.QueryEscape(query)
}
