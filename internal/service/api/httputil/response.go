// Package httputil API 응답 포맷과 전역 에러 처리를 담당하는 유틸리티 패키지입니다.
package httputil

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// SuccessResponse API 성공 응답
type SuccessResponse struct {
	// ResultCode 처리 결과 코드 (0: 성공)
	ResultCode int `json:"result_code" example:"0"`

	// Data 응답 데이터
	Data any `json:"data,omitempty"`
}

// ErrorResponse API 오류 응답
type ErrorResponse struct {
	// ResultCode HTTP 상태 코드 (예: 400, 404, 503)
	ResultCode int `json:"result_code" example:"400"`

	// Message 에러 메시지
	Message string `json:"message" example:"상품 슬러그가 지정되지 않았습니다"`
}

// Success 표준 성공 응답(200 OK)을 JSON 형식으로 반환합니다.
func Success(c echo.Context) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		ResultCode: 0,
	})
}

// SuccessWithData 응답 데이터를 포함한 표준 성공 응답(200 OK)을 반환합니다.
func SuccessWithData(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		ResultCode: 0,
		Data:       data,
	})
}

// NewBadRequestError 400 Bad Request 에러를 생성합니다
func NewBadRequestError(message string) error {
	return newHTTPError(http.StatusBadRequest, message)
}

// NewNotFoundError 404 Not Found 에러를 생성합니다
func NewNotFoundError(message string) error {
	return newHTTPError(http.StatusNotFound, message)
}

// NewTooManyRequestsError 429 Too Many Requests 에러를 생성합니다
func NewTooManyRequestsError(message string) error {
	return newHTTPError(http.StatusTooManyRequests, message)
}

// NewInternalServerError 500 Internal Server Error 에러를 생성합니다
func NewInternalServerError(message string) error {
	return newHTTPError(http.StatusInternalServerError, message)
}

// NewServiceUnavailableError 503 Service Unavailable 에러를 생성합니다
func NewServiceUnavailableError(message string) error {
	return newHTTPError(http.StatusServiceUnavailable, message)
}

func newHTTPError(code int, message string) error {
	return echo.NewHTTPError(code, ErrorResponse{
		ResultCode: code,
		Message:    message,
	})
}
