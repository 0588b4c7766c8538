package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/service/api/handler"
	"github.com/iranswimmers/storefront-server/internal/service/api/httputil"
	"github.com/iranswimmers/storefront-server/internal/service/api/v1/model/request"
	"github.com/iranswimmers/storefront-server/internal/service/api/v1/model/response"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
)

// ProductListHandler godoc
// @Summary 상품 목록 조회
// @Description 업스트림 상품 목록을 조회합니다. 페이지, 카테고리, 검색어 필터를 지원합니다.
// @Tags Product
// @Produce json
// @Param page query int false "페이지 번호 (1부터 시작)" example(1)
// @Param category query string false "카테고리 슬러그" example(swim-caps)
// @Param q query string false "검색어" example(مایو)
// @Success 200 {object} httputil.SuccessResponse{data=response.ProductListResponse} "상품 목록"
// @Failure 400 {object} httputil.ErrorResponse "잘못된 요청"
// @Failure 503 {object} httputil.ErrorResponse "업스트림 일시적 장애"
// @Router /api/v1/products [get]
func (h *Handler) ProductListHandler(c echo.Context) error {
	req := new(request.ProductListRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError("잘못된 요청 형식입니다")
	}

	if err := handler.ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(handler.FormatValidationError(err))
	}

	products, pagination, err := h.shop.Products(c.Request().Context(), upstream.ListParams{
		Page:     req.Page,
		Category: req.Category,
		Query:    req.Query,
	})
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, response.ProductListResponse{
		Products: products,
		Meta:     pagination,
	})
}

// ProductDetailHandler godoc
// @Summary 상품 상세 조회
// @Description 상품 상세와 함께 그룹화된 속성 목록, 재고 맵, 갤러리 이미지를 반환합니다.
// @Tags Product
// @Produce json
// @Param slug path string true "상품 슬러그" example(speedo-goggles)
// @Success 200 {object} httputil.SuccessResponse{data=response.ProductDetailResponse} "상품 상세"
// @Failure 404 {object} httputil.ErrorResponse "존재하지 않는 상품"
// @Failure 503 {object} httputil.ErrorResponse "업스트림 일시적 장애"
// @Router /api/v1/products/{slug} [get]
func (h *Handler) ProductDetailHandler(c echo.Context) error {
	session, err := h.shop.ProductSession(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, response.ProductDetailResponse{
		Product:           session.Product(),
		GroupedAttributes: session.GroupedAttributes(),
		StockMap:          session.StockMap(),
		Images:            session.Images(),
		MainImage:         session.MainImage(),
		ShortDescription:  session.Description(),
		DisplayPrice:      session.Price(),
		DisplaySalePrice:  session.SalePrice(),
		AddToCartDisabled: session.AddToCartDisabled(),
	})
}

// RelatedProductsHandler godoc
// @Summary 연관 상품 목록 조회
// @Description 상품 슬러그에 해당하는 연관 상품 목록을 반환합니다.
// @Tags Product
// @Produce json
// @Param slug path string true "상품 슬러그" example(speedo-goggles)
// @Success 200 {object} httputil.SuccessResponse{data=response.ProductListResponse} "연관 상품 목록"
// @Failure 404 {object} httputil.ErrorResponse "존재하지 않는 상품"
// @Router /api/v1/products/{slug}/related [get]
func (h *Handler) RelatedProductsHandler(c echo.Context) error {
	products, err := h.shop.RelatedProducts(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, response.ProductListResponse{
		Products: products,
	})
}

// ResolveVariationHandler godoc
// @Summary 배리에이션 해석
// @Description 속성 선택(type_id → slug)으로부터 단일 배리에이션을 해석하여 장바구니 준비 데이터를 반환합니다.
// @Description 선택이 어떤 배리에이션과도 일치하지 않으면 에러가 아닌 resolved:false 응답을 반환합니다.
// @Tags Product
// @Accept json
// @Produce json
// @Param slug path string true "상품 슬러그" example(speedo-goggles)
// @Param body body request.ResolveRequest true "속성 선택 정보"
// @Success 200 {object} httputil.SuccessResponse{data=product.ResolveResult} "해석 결과"
// @Failure 400 {object} httputil.ErrorResponse "잘못된 요청"
// @Failure 404 {object} httputil.ErrorResponse "존재하지 않는 상품"
// @Router /api/v1/products/{slug}/resolve [post]
func (h *Handler) ResolveVariationHandler(c echo.Context) error {
	req := new(request.ResolveRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError("잘못된 요청 형식입니다")
	}

	if err := handler.ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(handler.FormatValidationError(err))
	}

	selection := make(product.Selection, len(req.Selection))
	for key, slug := range req.Selection {
		typeID, err := strconv.Atoi(key)
		if err != nil {
			return httputil.NewBadRequestError("속성 선택의 키는 패싯 타입 식별자(숫자)이어야 합니다")
		}
		selection[typeID] = slug
	}

	session, err := h.shop.ProductSession(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httputil.FromAppError(err)
	}

	result := session.Resolve(selection, req.Quantity)

	h.log(c).WithField("resolved", result.Resolved).Debug("배리에이션 해석 완료")

	return httputil.SuccessWithData(c, result)
}

// SelectableAttributesHandler godoc
// @Summary 선택 가능 속성 조회
// @Description 지정한 속성 값을 선택했을 때 함께 선택 가능한 속성 슬러그 목록을 반환합니다.
// @Tags Product
// @Accept json
// @Produce json
// @Param slug path string true "상품 슬러그" example(speedo-goggles)
// @Param body body request.SelectableRequest true "기준 속성 슬러그"
// @Success 200 {object} httputil.SuccessResponse{data=response.SelectableResponse} "선택 가능 속성 목록"
// @Failure 400 {object} httputil.ErrorResponse "잘못된 요청"
// @Failure 404 {object} httputil.ErrorResponse "존재하지 않는 상품"
// @Router /api/v1/products/{slug}/selectable [post]
func (h *Handler) SelectableAttributesHandler(c echo.Context) error {
	req := new(request.SelectableRequest)
	if err := c.Bind(req); err != nil {
		return httputil.NewBadRequestError("잘못된 요청 형식입니다")
	}

	if err := handler.ValidateRequest(req); err != nil {
		return httputil.NewBadRequestError(handler.FormatValidationError(err))
	}

	session, err := h.shop.ProductSession(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httputil.FromAppError(err)
	}

	return httputil.SuccessWithData(c, response.SelectableResponse{
		Selectable: session.SelectAttribute(req.Slug),
	})
}
