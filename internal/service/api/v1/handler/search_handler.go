package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/service/api/httputil"
)

// SearchHandler godoc
// @Summary 상품 검색
// @Description 검색어에 해당하는 업스트림 검색 결과를 반환합니다. rt=1이면 자동완성용 실시간 검색을 사용합니다.
// @Description 디바운스는 클라이언트에서 수행하며, 서버는 검색 결과를 가공하지 않는 단순 프록시입니다.
// @Tags Search
// @Produce json
// @Param q query string true "검색어" example(مایو)
// @Param rt query string false "실시간 검색 여부 (1: 실시간)" example(1)
// @Success 200 {object} httputil.SuccessResponse "검색 결과"
// @Failure 400 {object} httputil.ErrorResponse "검색어 미지정"
// @Failure 503 {object} httputil.ErrorResponse "업스트림 일시적 장애"
// @Router /api/v1/search [get]
func (h *Handler) SearchHandler(c echo.Context) error {
	query := c.QueryParam("q")
	realtime := c.QueryParam("rt") == "1"

	raw, err := h.shop.Search(c.Request().Context(), query, realtime)
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, raw)
}
