package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

// component 전역 에러 핸들러 로깅용 컴포넌트 이름
const component = "api.error_handler"

const (
	errMsgInternalServer = "서버 내부 오류가 발생하였습니다"
	errMsgNotFound       = "요청하신 리소스를 찾을 수 없습니다"
)

// FromAppError AppError의 에러 종류를 HTTP 상태 코드로 변환한 에러를 반환합니다.
//
// 변환 규칙:
//   - NotFound → 404
//   - InvalidInput → 400
//   - Unavailable, Timeout → 503
//   - 그 외 → 500
func FromAppError(err error) error {
	switch {
	case apperrors.Is(err, apperrors.NotFound):
		return newHTTPError(http.StatusNotFound, apperrors.RootCause(err).Error())
	case apperrors.Is(err, apperrors.InvalidInput):
		return newHTTPError(http.StatusBadRequest, apperrors.RootCause(err).Error())
	case apperrors.Is(err, apperrors.Unavailable), apperrors.Is(err, apperrors.Timeout):
		return newHTTPError(http.StatusServiceUnavailable, apperrors.RootCause(err).Error())
	default:
		return NewInternalServerError(errMsgInternalServer)
	}
}

// ErrorHandler Echo 프레임워크의 전역 에러 핸들러입니다.
//
// 모든 HTTP 에러를 가로채서 표준 ErrorResponse JSON 형식으로 변환하여 반환합니다.
// 에러 발생 시 적절한 로그 레벨(Error/Warn)로 상세 정보를 기록합니다.
func ErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := errMsgInternalServer

	// AppError가 핸들러에서 변환되지 않고 올라온 경우에도 상태 코드를 매핑합니다.
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		err = FromAppError(err)
	}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else if resp, ok := he.Message.(ErrorResponse); ok {
			message = resp.Message
		}
	}

	// 라우트가 존재하지 않는 404는 사용자 친화적인 메시지로 통일
	// (echo의 기본 404 에러는 영문 상태 텍스트를 메시지로 사용함)
	if code == http.StatusNotFound && (message == errMsgInternalServer || message == http.StatusText(code)) {
		message = errMsgNotFound
	}

	fields := applog.Fields{
		"path":        c.Request().URL.Path,
		"method":      c.Request().Method,
		"status_code": code,
		"error":       err,
		"remote_ip":   c.RealIP(),
		"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if code >= http.StatusInternalServerError {
		applog.WithComponentAndFields(component, fields).Error("HTTP 5xx 서버 오류")
	} else if code >= http.StatusBadRequest {
		applog.WithComponentAndFields(component, fields).Warn("HTTP 4xx 클라이언트 오류")
	}

	// 이중 응답 방지: 이미 응답이 전송된 경우 추가 응답 시도하지 않음
	if c.Response().Committed {
		return
	}

	// HEAD 요청 처리: HTTP 명세에 따라 헤더만 반환하고 본문은 생략
	if c.Request().Method == http.MethodHead {
		c.NoContent(code)
		return
	}

	c.JSON(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
