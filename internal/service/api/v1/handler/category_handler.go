package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/service/api/httputil"
	"github.com/iranswimmers/storefront-server/internal/service/api/v1/model/response"
)

// CategoryTreeHandler godoc
// @Summary 카테고리 트리 조회
// @Description 중첩된 카테고리 트리 전체를 반환합니다.
// @Tags Category
// @Produce json
// @Success 200 {object} httputil.SuccessResponse{data=response.CategoryTreeResponse} "카테고리 트리"
// @Failure 503 {object} httputil.ErrorResponse "업스트림 일시적 장애"
// @Router /api/v1/categories [get]
func (h *Handler) CategoryTreeHandler(c echo.Context) error {
	tree, err := h.shop.CategoryTree(c.Request().Context())
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, response.CategoryTreeResponse{
		Categories: tree,
	})
}

// ResolveCategoryHandler godoc
// @Summary 카테고리 슬러그 해석
// @Description 슬러그의 URL 인코딩 변형(공백, 대시, 퍼센트 인코딩)에 강건한 매칭으로 카테고리 노드를 찾습니다.
// @Tags Category
// @Produce json
// @Param slug query string true "카테고리 슬러그" example(swim-caps)
// @Success 200 {object} httputil.SuccessResponse "해석된 카테고리 노드"
// @Failure 400 {object} httputil.ErrorResponse "슬러그 미지정"
// @Failure 404 {object} httputil.ErrorResponse "존재하지 않는 카테고리"
// @Router /api/v1/categories/resolve [get]
func (h *Handler) ResolveCategoryHandler(c echo.Context) error {
	slug := c.QueryParam("slug")
	if slug == "" {
		return httputil.NewBadRequestError("카테고리 슬러그(slug)가 지정되지 않았습니다")
	}

	node, err := h.shop.ResolveCategory(c.Request().Context(), slug)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, node)
}
