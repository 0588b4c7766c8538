package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetcherFunc 함수를 Fetcher 인터페이스로 사용하기 위한 어댑터입니다.
type fetcherFunc func(req *http.Request) (*http.Response, error)

func (f fetcherFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestCheckResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		statusCode  int
		wantErr     bool
		wantErrType apperrors.ErrorType
	}{
		{
			name:       "성공: 200 OK는 에러가 아니다",
			statusCode: http.StatusOK,
			wantErr:    false,
		},
		{
			name:        "실패: 404는 NotFound로 변환된다",
			statusCode:  http.StatusNotFound,
			wantErr:     true,
			wantErrType: apperrors.NotFound,
		},
		{
			name:        "실패: 500은 Unavailable로 변환된다",
			statusCode:  http.StatusInternalServerError,
			wantErr:     true,
			wantErrType: apperrors.Unavailable,
		},
		{
			name:        "실패: 429는 Unavailable로 변환된다",
			statusCode:  http.StatusTooManyRequests,
			wantErr:     true,
			wantErrType: apperrors.Unavailable,
		},
		{
			name:        "실패: 400은 ExecutionFailed로 변환된다",
			statusCode:  http.StatusBadRequest,
			wantErr:     true,
			wantErrType: apperrors.ExecutionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &http.Response{
				StatusCode: tt.statusCode,
				Status:     http.StatusText(tt.statusCode),
			}

			err := upstream.CheckResponseStatus(resp)

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.wantErrType))
		})
	}
}

func TestFetchJSON(t *testing.T) {
	t.Parallel()

	t.Run("성공: JSON 응답 본문을 구조체로 디코딩한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": 42, "name": "swim goggles"}`))
		}))
		defer server.Close()

		var got struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		}

		err := upstream.FetchJSON(context.Background(), upstream.NewHTTPFetcher(0), server.URL, &got)

		require.NoError(t, err)
		assert.Equal(t, 42, got.ID)
		assert.Equal(t, "swim goggles", got.Name)
	})

	t.Run("실패: 유효하지 않은 JSON 본문은 ParsingFailed 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{invalid`))
		}))
		defer server.Close()

		var got map[string]any
		err := upstream.FetchJSON(context.Background(), upstream.NewHTTPFetcher(0), server.URL, &got)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ParsingFailed))
	})

	t.Run("실패: 서버 에러(503)는 Unavailable 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		var got map[string]any
		err := upstream.FetchJSON(context.Background(), upstream.NewHTTPFetcher(0), server.URL, &got)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})

	t.Run("실패: 연결할 수 없는 서버는 Unavailable 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		err := upstream.FetchJSON(context.Background(), upstream.NewHTTPFetcher(time.Second), "http://127.0.0.1:1", &got)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.Unavailable))
	})
}

func TestFetchRawJSON(t *testing.T) {
	t.Parallel()

	t.Run("성공: 응답 본문을 원본 JSON 그대로 반환한다", func(t *testing.T) {
		t.Parallel()

		const payload = `{"id":7,"attributes":[{"type_id":"1","slug":"red"}]}`

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(payload))
		}))
		defer server.Close()

		raw, err := upstream.FetchRawJSON(context.Background(), upstream.NewHTTPFetcher(0), server.URL)

		require.NoError(t, err)
		assert.JSONEq(t, payload, string(raw))
	})
}

func TestFetchHTMLDocument(t *testing.T) {
	t.Parallel()

	t.Run("성공: HTML 문서를 goquery.Document로 파싱한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(`<html><body><h1 class="title">کلاه شنا</h1></body></html>`))
		}))
		defer server.Close()

		doc, err := upstream.FetchHTMLDocument(context.Background(), upstream.NewHTTPFetcher(0), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "کلاه شنا", doc.Find("h1.title").Text())
	})

	t.Run("실패: 404 응답은 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := upstream.FetchHTMLDocument(context.Background(), upstream.NewHTTPFetcher(0), server.URL)

		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.NotFound))
	})
}

func TestHTTPFetcher_Do(t *testing.T) {
	t.Parallel()

	t.Run("성공: User-Agent 미지정 시 기본값이 자동으로 추가된다", func(t *testing.T) {
		t.Parallel()

		var gotUserAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		resp, err := upstream.Get(context.Background(), upstream.NewHTTPFetcher(0), server.URL)

		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Contains(t, gotUserAgent, "Mozilla/5.0")
	})
}
