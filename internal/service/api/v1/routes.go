// Package v1 Storefront API의 v1 버전 라우트를 정의하고 설정합니다.
//
// 이 패키지는 /api/v1 경로 하위의 모든 엔드포인트를 관리합니다.
//
// 주요 엔드포인트:
//   - GET  /api/v1/products                  - 상품 목록 조회 (page, category, q)
//   - GET  /api/v1/products/:slug            - 상품 상세 조회
//   - GET  /api/v1/products/:slug/related    - 연관 상품 목록 조회
//   - POST /api/v1/products/:slug/resolve    - 배리에이션 해석
//   - POST /api/v1/products/:slug/selectable - 선택 가능 속성 조회
//   - GET  /api/v1/categories                - 카테고리 트리 조회
//   - GET  /api/v1/categories/resolve        - 카테고리 슬러그 해석
//   - GET  /api/v1/search                    - 상품 검색 (q, rt)
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/service/api/v1/handler"
)

// RegisterRoutes Echo 인스턴스에 v1 API 라우트를 설정합니다.
func RegisterRoutes(e *echo.Echo, h *handler.Handler) {
	v1Group := e.Group("/api/v1")

	v1Group.GET("/products", h.ProductListHandler)
	v1Group.GET("/products/:slug", h.ProductDetailHandler)
	v1Group.GET("/products/:slug/related", h.RelatedProductsHandler)
	v1Group.POST("/products/:slug/resolve", h.ResolveVariationHandler)
	v1Group.POST("/products/:slug/selectable", h.SelectableAttributesHandler)

	v1Group.GET("/categories", h.CategoryTreeHandler)
	v1Group.GET("/categories/resolve", h.ResolveCategoryHandler)

	v1Group.GET("/search", h.SearchHandler)
}
