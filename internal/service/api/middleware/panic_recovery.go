// Package middleware API 서버의 Echo 미들웨어 모음입니다.
package middleware

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

// component API 미들웨어 로깅용 컴포넌트 이름
const component = "api.middleware"

const (
	// stackBufferSize panic 발생 시 스택 트레이스를 저장할 버퍼 크기 (4KB)
	stackBufferSize = 4 << 10

	// panicAlertTimeout panic 알림 발송에 허용하는 최대 시간
	panicAlertTimeout = 10 * time.Second
)

// PanicRecovery panic을 복구하고 로깅하는 미들웨어를 반환합니다.
//
// 핸들러에서 발생한 panic을 복구하여 서버 다운을 방지하고, 스택 트레이스와
// 함께 에러를 로깅합니다. notifier가 주어지면 운영 알림 채널로도 통지합니다.
func PanicRecovery(notifier notification.Notifier) echo.MiddlewareFunc {
	if notifier == nil {
		notifier = notification.NewNopNotifier()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = apperrors.New(apperrors.Internal, fmt.Sprintf("%v", r))
					}

					// 스택 트레이스 수집
					stack := make([]byte, stackBufferSize)
					length := runtime.Stack(stack, false)

					fields := log.Fields{
						"error": err,
						"stack": string(stack[:length]),
					}
					if requestID := c.Response().Header().Get(echo.HeaderXRequestID); requestID != "" {
						fields["request_id"] = requestID
					}

					applog.WithComponentAndFields(component, fields).Error("PANIC RECOVERED")

					// 알림 발송이 응답 처리를 지연시키지 않도록 백그라운드에서 수행합니다.
					message := fmt.Sprintf("API 서버에서 panic이 복구되었습니다.\n\n경로: %s %s\n오류: %v",
						c.Request().Method, c.Request().URL.Path, err)
					go func() {
						ctx, cancel := context.WithTimeout(context.Background(), panicAlertTimeout)
						defer cancel()

						if notifyErr := notifier.Notify(ctx, "API 서버 오류", message); notifyErr != nil {
							applog.WithComponent(component).WithError(notifyErr).Error("panic 알림 발송이 실패하였습니다.")
						}
					}()

					// Echo의 에러 핸들러로 전달
					c.Error(err)
				}
			}()
			return next(c)
		}
	}
}
