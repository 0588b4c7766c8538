package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/iranswimmers/storefront-server/internal/service/api/httputil"
	appmiddleware "github.com/iranswimmers/storefront-server/internal/service/api/middleware"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

const (
	// defaultReadTimeout 요청 본문 읽기 제한
	defaultReadTimeout = 30 * time.Second

	// defaultReadHeaderTimeout 요청 헤더 읽기 제한
	defaultReadHeaderTimeout = 10 * time.Second

	// defaultWriteTimeout 응답 쓰기 제한
	defaultWriteTimeout = 60 * time.Second

	// defaultIdleTimeout Keep-Alive 연결 유휴 제한
	defaultIdleTimeout = 90 * time.Second

	// defaultRequestTimeout 각 HTTP 요청의 최대 처리 시간
	defaultRequestTimeout = 60 * time.Second

	// defaultRateLimitPerSecond IP별 초당 허용 요청 수
	defaultRateLimitPerSecond = 20

	// defaultRateLimitBurst IP별 버스트 허용량
	defaultRateLimitBurst = 40

	// defaultMaxBodySize 요청 본문 최대 크기
	defaultMaxBodySize = "2M"
)

// HTTPServerConfig HTTP 서버 생성에 필요한 설정을 정의합니다.
type HTTPServerConfig struct {
	// Debug Echo 프레임워크의 디버그 모드 활성화 여부
	Debug bool

	// AllowOrigins CORS에서 허용할 Origin 목록
	AllowOrigins []string

	// RequestTimeout 각 HTTP 요청의 최대 처리 시간 (미설정 시 60초)
	RequestTimeout time.Duration

	// Notifier panic 복구 시 운영 알림을 발송할 채널
	Notifier notification.Notifier
}

// NewHTTPServer 설정된 미들웨어를 포함한 Echo 인스턴스를 생성합니다.
//
// 미들웨어는 다음 순서로 적용됩니다:
//  1. PanicRecovery - 패닉 복구, 로깅 및 운영 알림
//  2. RequestID - 요청 추적용 고유 ID 부여 (X-Request-ID 헤더)
//  3. Server 헤더 제거 - 기술 스택 노출 방지
//  4. HTTPLogger - 요청/응답 구조화 로깅 (429/503 에러도 기록되도록 RateLimit 이전에 위치)
//  5. RateLimiting - IP별 요청 제한, 초과 시 429 응답
//  6. BodyLimit - 요청 본문 크기 제한, 초과 시 413 응답
//  7. Timeout - 요청 처리 시간 제한, 초과 시 503 응답
//  8. CORS - 허용된 Origin에서의 크로스 도메인 요청 처리
//  9. Secure - 보안 헤더 설정 (X-XSS-Protection, X-Content-Type-Options 등)
//
// 라우트 설정은 포함되지 않으며, 반환된 Echo 인스턴스에 별도로 설정해야 합니다.
func NewHTTPServer(cfg HTTPServerConfig) *echo.Echo {
	e := echo.New()

	e.Debug = cfg.Debug
	e.HideBanner = true

	// 보안 및 리소스 관리를 위한 HTTP 서버 타임아웃 설정
	e.Server.ReadTimeout = defaultReadTimeout
	e.Server.ReadHeaderTimeout = defaultReadHeaderTimeout
	e.Server.WriteTimeout = defaultWriteTimeout
	e.Server.IdleTimeout = defaultIdleTimeout

	// Echo 프레임워크의 내부 로그를 애플리케이션 로거로 통합합니다.
	e.Logger = appmiddleware.Logger{Logger: applog.StandardLogger()}

	// 전역 HTTP 에러 핸들러 설정
	e.HTTPErrorHandler = httputil.ErrorHandler

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}

	e.Use(appmiddleware.PanicRecovery(cfg.Notifier))
	e.Use(middleware.RequestID())
	// 공격자에게 서버 스택 정보(Go/Echo 버전 등)를 노출하지 않도록 합니다.
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Header().Set(echo.HeaderServer, "")
			return next(c)
		}
	})
	e.Use(appmiddleware.HTTPLogger())
	e.Use(appmiddleware.RateLimiting(defaultRateLimitPerSecond, defaultRateLimitBurst))
	e.Use(middleware.BodyLimit(defaultMaxBodySize))
	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: timeout,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
	}))
	e.Use(middleware.Secure())

	return e
}
