// Package handler v1 API의 HTTP 요청 핸들러를 제공합니다.
//
// HTTP 요청을 받아 검증하고, Shop 서비스를 호출한 후 표준 응답 봉투로
// 변환하여 반환하는 핸들러 함수들을 포함합니다.
package handler

import (
	"context"
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/service/shop/category"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// component v1 핸들러 로깅용 컴포넌트 이름
const component = "api.v1.handler"

// ShopService 핸들러가 사용하는 Shop 서비스의 조회 기능 집합입니다.
type ShopService interface {
	ProductSession(ctx context.Context, slug string) (*product.Session, error)
	Products(ctx context.Context, params upstream.ListParams) ([]product.Product, *product.Pagination, error)
	RelatedProducts(ctx context.Context, slug string) ([]product.Product, error)
	Search(ctx context.Context, query string, realtime bool) (json.RawMessage, error)
	CategoryTree(ctx context.Context) ([]*category.Category, error)
	ResolveCategory(ctx context.Context, slug string) (*category.Category, error)
}

// Handler v1 API 요청을 처리하고 Shop 서비스를 연결하는 핸들러입니다.
type Handler struct {
	shop ShopService
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(shop ShopService) *Handler {
	return &Handler{
		shop: shop,
	}
}

// log 요청 컨텍스트 정보가 포함된 로그 엔트리를 반환합니다.
func (h *Handler) log(c echo.Context) *log.Entry {
	return applog.WithComponentAndFields(component, log.Fields{
		"path":       c.Request().URL.Path,
		"method":     c.Request().Method,
		"remote_ip":  c.RealIP(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
