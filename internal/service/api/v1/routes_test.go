package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iranswimmers/storefront-server/internal/service/api/v1/handler"
	"github.com/iranswimmers/storefront-server/internal/service/shop/category"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
)

// noopShopService 라우트 등록 검증용 ShopService 대역입니다.
type noopShopService struct{}

func (noopShopService) ProductSession(context.Context, string) (*product.Session, error) {
	return nil, nil
}

func (noopShopService) Products(context.Context, upstream.ListParams) ([]product.Product, *product.Pagination, error) {
	return nil, nil, nil
}

func (noopShopService) RelatedProducts(context.Context, string) ([]product.Product, error) {
	return nil, nil
}

func (noopShopService) Search(context.Context, string, bool) (json.RawMessage, error) {
	return nil, nil
}

func (noopShopService) CategoryTree(context.Context) ([]*category.Category, error) {
	return nil, nil
}

func (noopShopService) ResolveCategory(context.Context, string) (*category.Category, error) {
	return nil, nil
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	RegisterRoutes(e, handler.NewHandler(noopShopService{}))

	expectedRoutes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/products"},
		{http.MethodGet, "/api/v1/products/:slug"},
		{http.MethodGet, "/api/v1/products/:slug/related"},
		{http.MethodPost, "/api/v1/products/:slug/resolve"},
		{http.MethodPost, "/api/v1/products/:slug/selectable"},
		{http.MethodGet, "/api/v1/categories"},
		{http.MethodGet, "/api/v1/categories/resolve"},
		{http.MethodGet, "/api/v1/search"},
	}

	for _, expected := range expectedRoutes {
		found := false
		for _, r := range e.Routes() {
			if r.Path == expected.path && r.Method == expected.method {
				found = true
				break
			}
		}
		assert.True(t, found, "라우트 %s %s가 등록되어야 합니다", expected.method, expected.path)
	}
}
