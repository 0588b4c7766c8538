// Package upstream 상품 데이터를 공급하는 업스트림 쇼핑몰 API와의 HTTP 통신을 담당합니다.
//
// Fetcher 인터페이스를 중심으로 실제 전송(HTTPFetcher)과 재시도(RetryFetcher)를
// 체인 형태로 조합하며, JSON/HTML 응답 처리를 위한 공통 헬퍼 함수를 제공합니다.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"golang.org/x/net/html/charset"
)

const component = "upstream"

// defaultTimeout HTTP 요청 전체에 대한 기본 타임아웃입니다.
const defaultTimeout = 30 * time.Second

// Fetcher HTTP 요청을 수행하는 인터페이스
type Fetcher interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher 실제 네트워크 I/O를 수행하는 Fetcher 체인의 최내곽 구현체입니다.
type HTTPFetcher struct {
	client *http.Client
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher 지정된 타임아웃이 적용된 새로운 HTTPFetcher 인스턴스를 생성합니다.
// 타임아웃이 0 이하이면 기본값(30초)으로 보정됩니다.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do HTTP 요청을 실행합니다.
// 요청 헤더에 User-Agent가 없는 경우 기본값을 자동으로 추가합니다.
func (h *HTTPFetcher) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	}
	return h.client.Do(req)
}

// Get 지정된 URL로 HTTP GET 요청을 전송합니다.
// Fetcher 인터페이스의 구현체가 공통으로 사용할 수 있는 헬퍼 함수입니다.
func Get(ctx context.Context, f Fetcher, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return f.Do(req)
}

// FetchJSON 지정된 URL로 HTTP GET 요청을 보내고 응답 본문(JSON)을 지정된 구조체(v)로 디코딩합니다.
func FetchJSON(ctx context.Context, f Fetcher, url string, v any) error {
	resp, err := Get(ctx, f, url)
	if err != nil {
		return apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("JSON API(%s) 요청 전송 중 에러가 발생했습니다.", url))
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 메모리 누수 방지

	if err := CheckResponseStatus(resp); err != nil {
		return err
	}

	// json.Decoder를 사용하여 스트림 방식으로 JSON 파싱 (메모리 효율적)
	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("불러온 데이터(%s)의 JSON 변환이 실패하였습니다.", url))
	}

	return nil
}

// FetchRawJSON 지정된 URL의 JSON 응답 본문을 디코딩 없이 원본 그대로 반환합니다.
// 필드 구성이 유동적인 업스트림 페이로드를 상위 계층에서 관대하게 파싱할 때 사용합니다.
func FetchRawJSON(ctx context.Context, f Fetcher, url string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := FetchJSON(ctx, f, url, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchHTMLDocument 지정된 URL로 HTTP 요청을 보내 HTML 문서를 가져오고, goquery.Document로 파싱합니다.
// 응답 헤더의 Content-Type을 분석하여, 비 UTF-8 인코딩(예: Windows-1256) 페이지도 자동으로 UTF-8로 변환하여 처리합니다.
func FetchHTMLDocument(ctx context.Context, f Fetcher, url string) (*goquery.Document, error) {
	resp, err := Get(ctx, f, url)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Unavailable, fmt.Sprintf("HTML 페이지(%s) 요청 중 네트워크 또는 클라이언트 에러가 발생했습니다.", url))
	}
	defer resp.Body.Close() // 응답을 받은 즉시 defer 설정하여 메모리 누수 방지

	if err := CheckResponseStatus(resp); err != nil {
		return nil, err
	}

	// Content-Type 헤더를 기반으로 인코딩을 UTF-8로 변환
	utf8Reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ExecutionFailed, fmt.Sprintf("페이지(%s)의 인코딩 변환이 실패하였습니다.", url))
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ParsingFailed, fmt.Sprintf("불러온 페이지(%s)의 데이터 파싱이 실패하였습니다.", url))
	}

	return doc, nil
}

// CheckResponseStatus HTTP 응답 상태 코드를 분석하여 도메인 에러로 변환합니다.
// 200 OK가 아닌 경우 상태 코드에 따라 적절한 에러 타입을 반환합니다.
func CheckResponseStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	errType := apperrors.ExecutionFailed
	switch {
	case resp.StatusCode == http.StatusNotFound:
		errType = apperrors.NotFound
	// 5xx (Server Error) or 429 (Too Many Requests) -> Unavailable
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		errType = apperrors.Unavailable
	}

	return apperrors.New(errType, fmt.Sprintf("업스트림 HTTP 요청이 실패했습니다. 상태 코드: %s", resp.Status))
}
