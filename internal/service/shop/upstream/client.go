package upstream

import (
	"context"
	"encoding/json"
	"time"
)

// Client 업스트림 쇼핑몰 API 호출을 담당하는 클라이언트입니다.
//
// 모든 조회 메서드는 응답 본문을 원본 JSON 그대로 반환하며, 필드 구성이 유동적인
// 업스트림 페이로드의 해석은 상위 계층(product, category 패키지)에서 수행합니다.
type Client struct {
	fetcher   Fetcher
	endpoints *Endpoints
}

// NewClient 재시도 정책이 적용된 새로운 Client 인스턴스를 생성합니다.
func NewClient(apiBaseURL string, timeout time.Duration, maxRetries int, retryDelay time.Duration) *Client {
	var f Fetcher = NewHTTPFetcher(timeout)
	f = NewRetryFetcher(f, maxRetries, retryDelay)

	return &Client{
		fetcher:   f,
		endpoints: NewEndpoints(apiBaseURL),
	}
}

// NewClientWithFetcher 지정된 Fetcher를 그대로 사용하는 Client 인스턴스를 생성합니다.
// 테스트에서 Fetcher 체인을 교체할 때 사용합니다.
func NewClientWithFetcher(apiBaseURL string, f Fetcher) *Client {
	return &Client{
		fetcher:   f,
		endpoints: NewEndpoints(apiBaseURL),
	}
}

// Products 상품 목록을 조회합니다.
func (c *Client) Products(ctx context.Context, params ListParams) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.Products(params))
}

// Product 단일 상품을 조회합니다.
func (c *Client) Product(ctx context.Context, slug string) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.Product(slug))
}

// RelatedProducts 지정된 상품의 연관 상품 목록을 조회합니다.
func (c *Client) RelatedProducts(ctx context.Context, slug string) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.RelatedProducts(slug))
}

// CategoryTree 지정된 깊이까지의 중첩 카테고리 트리를 조회합니다.
func (c *Client) CategoryTree(ctx context.Context, depth int) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.CategoryTree(depth))
}

// Category 단일 카테고리를 조회합니다.
func (c *Client) Category(ctx context.Context, slug string) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.Category(slug))
}

// Search 전체 상품 검색을 수행합니다.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.Search(query))
}

// RealtimeSearch 실시간(타이핑 중) 상품 검색을 수행합니다.
func (c *Client) RealtimeSearch(ctx context.Context, query string) (json.RawMessage, error) {
	return FetchRawJSON(ctx, c.fetcher, c.endpoints.RealtimeSearch(query))
}
