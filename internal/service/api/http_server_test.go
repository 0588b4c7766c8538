package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// newTestHTTPServer 기본 설정으로 미들웨어 체인이 구성된 서버를 생성합니다.
func newTestHTTPServer() *echo.Echo {
	e := NewHTTPServer(HTTPServerConfig{
		Debug:        false,
		AllowOrigins: []string{"*"},
		Notifier:     nil,
	})

	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	e.POST("/echo", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return e
}

func TestNewHTTPServer(t *testing.T) {
	t.Parallel()

	t.Run("성공: 배너가 숨겨지고 디버그 모드가 설정에 따른다", func(t *testing.T) {
		t.Parallel()

		e := NewHTTPServer(HTTPServerConfig{Debug: true})

		assert.True(t, e.HideBanner)
		assert.True(t, e.Debug)
	})

	t.Run("성공: 요청마다 X-Request-ID 헤더가 부여된다", func(t *testing.T) {
		t.Parallel()

		e := newTestHTTPServer()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("성공: Server 헤더는 비워져 기술 스택을 노출하지 않는다", func(t *testing.T) {
		t.Parallel()

		e := newTestHTTPServer()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get(echo.HeaderServer))
	})

	t.Run("성공: 보안 헤더가 설정된다", func(t *testing.T) {
		t.Parallel()

		e := newTestHTTPServer()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "nosniff", rec.Header().Get(echo.HeaderXContentTypeOptions))
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXFrameOptions))
	})

	t.Run("실패: 본문 크기 제한을 초과하면 413을 반환한다", func(t *testing.T) {
		t.Parallel()

		e := newTestHTTPServer()

		// 2M 제한을 초과하는 본문
		body := strings.Repeat("a", 3*1024*1024)
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("성공: 핸들러 패닉이 500 응답으로 복구된다", func(t *testing.T) {
		t.Parallel()

		e := newTestHTTPServer()
		e.GET("/panic", func(c echo.Context) error {
			panic("boom")
		})

		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
