// Package api Storefront HTTP API 서버의 생명주기를 관리합니다.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	_ "github.com/iranswimmers/storefront-server/docs"
	"github.com/iranswimmers/storefront-server/internal/config"
	"github.com/iranswimmers/storefront-server/internal/pkg/version"
	"github.com/iranswimmers/storefront-server/internal/service/api/handler/system"
	v1 "github.com/iranswimmers/storefront-server/internal/service/api/v1"
	v1handler "github.com/iranswimmers/storefront-server/internal/service/api/v1/handler"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

// component API 서비스 로깅용 컴포넌트 이름
const component = "api.service"

// shutdownTimeout Graceful Shutdown 시 최대 대기 시간
const shutdownTimeout = 5 * time.Second

// ShopBackend API 핸들러가 사용하는 Shop 서비스의 기능 집합입니다.
type ShopBackend interface {
	v1handler.ShopService
	system.ShopStatus
}

// Service Storefront API 서버의 생명주기를 관리하는 서비스입니다.
//
// Echo 기반 HTTP/HTTPS 서버의 시작과 종료, 미들웨어 체인 설정, 라우팅,
// Swagger UI 제공, Graceful Shutdown을 담당합니다.
type Service struct {
	appConfig *config.AppConfig

	shop     ShopBackend
	notifier notification.Notifier

	buildInfo version.Info

	running   bool
	runningMu sync.Mutex
}

// NewService Service 인스턴스를 생성합니다.
func NewService(appConfig *config.AppConfig, shop ShopBackend, notifier notification.Notifier, buildInfo version.Info) *Service {
	if appConfig == nil {
		panic("AppConfig는 필수입니다")
	}
	if shop == nil {
		panic("Shop 서비스는 필수입니다")
	}
	if notifier == nil {
		notifier = notification.NewNopNotifier()
	}

	return &Service{
		appConfig: appConfig,

		shop:     shop,
		notifier: notifier,

		buildInfo: buildInfo,
	}
}

// Start API 서비스를 시작합니다.
//
// 이 함수는 즉시 반환되며, 실제 서버는 고루틴에서 실행됩니다.
// serviceStopCtx가 취소되면 Graceful Shutdown을 수행합니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("API 서비스가 이미 시작됨!!!")
		return nil
	}

	s.running = true

	go s.runServiceLoop(serviceStopCtx, serviceStopWG)

	applog.WithComponent(component).Info("API 서비스 시작됨")

	return nil
}

// runServiceLoop 서비스의 메인 실행 루프입니다.
// 서버 설정, HTTP 서버 시작, Shutdown 대기를 순차적으로 수행합니다.
func (s *Service) runServiceLoop(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	e := s.setupServer()

	httpServerDone := make(chan struct{})
	go s.startHTTPServer(e, httpServerDone)

	s.waitForShutdown(serviceStopCtx, e, httpServerDone)
}

// setupServer Echo 서버 인스턴스를 생성하고 모든 설정을 완료합니다.
func (s *Service) setupServer() *echo.Echo {
	systemHandler := system.NewHandler(s.shop, s.buildInfo)
	v1Handler := v1handler.NewHandler(s.shop)

	e := NewHTTPServer(HTTPServerConfig{
		Debug:        s.appConfig.Debug,
		AllowOrigins: s.appConfig.Web.CORS.AllowOrigins,
		Notifier:     s.notifier,
	})

	RegisterRoutes(e, systemHandler)
	v1.RegisterRoutes(e, v1Handler)

	return e
}

// startHTTPServer HTTP/HTTPS 서버를 시작합니다.
//
// 설정에 따라 TLS 활성화 여부를 결정하며, 서버가 종료되면 done 채널을 닫아
// 대기 중인 고루틴에 신호를 보냅니다. 이 함수는 서버가 종료될 때까지 블로킹됩니다.
func (s *Service) startHTTPServer(e *echo.Echo, done chan struct{}) {
	defer close(done)

	port := s.appConfig.Web.ListenPort
	applog.WithComponentAndFields(component, applog.Fields{
		"port": port,
		"tls":  s.appConfig.Web.TLSServer,
	}).Debug("HTTP 서버 시작중...")

	var err error
	if s.appConfig.Web.TLSServer {
		err = e.StartTLS(
			fmt.Sprintf(":%d", port),
			s.appConfig.Web.TLSCertFile,
			s.appConfig.Web.TLSKeyFile,
		)
	} else {
		err = e.Start(fmt.Sprintf(":%d", port))
	}

	s.handleServerError(err)
}

// handleServerError HTTP 서버 실행 중 발생한 에러를 처리합니다.
//
//   - nil: 정상 종료, 처리 불필요
//   - http.ErrServerClosed: Graceful Shutdown 완료
//   - 그 외: 로깅 및 운영 알림 발송
func (s *Service) handleServerError(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, http.ErrServerClosed) {
		applog.WithComponent(component).Info("HTTP 서버 중지됨")
		return
	}

	message := "HTTP 서버가 예기치 않은 오류로 중단되었습니다"
	applog.WithComponentAndFields(component, applog.Fields{
		"port":  s.appConfig.Web.ListenPort,
		"error": err,
	}).Error(message)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if notifyErr := s.notifier.Notify(ctx, "API 서버 오류", fmt.Sprintf("%s\n\n%s", message, err)); notifyErr != nil {
		applog.WithComponent(component).WithError(notifyErr).Error("서버 오류 알림 발송이 실패하였습니다.")
	}
}

// waitForShutdown 종료 신호를 대기하고 Graceful Shutdown을 수행합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, e *echo.Echo, httpServerDone chan struct{}) {
	select {
	case <-serviceStopCtx.Done():
		applog.WithComponent(component).Info("API 서비스 중지중...")
	case <-httpServerDone:
		// HTTP 서버가 예기치 않게 종료됨 (포트 바인딩 실패 등)
		// 이미 종료되었으므로 Shutdown 호출 없이 상태만 정리
		applog.WithComponent(component).Error("HTTP 서버가 예기치 않게 종료되어 API 서비스를 정리합니다.")

		s.cleanup()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		applog.WithComponentAndFields(component, applog.Fields{
			"error": err,
		}).Error("HTTP 서버 Shutdown 중 에러가 발생하였습니다.")
	}

	<-httpServerDone

	s.cleanup()
}

// cleanup 서비스 종료 후 상태를 정리합니다.
func (s *Service) cleanup() {
	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	applog.WithComponent(component).Info("API 서비스 중지됨")
}
