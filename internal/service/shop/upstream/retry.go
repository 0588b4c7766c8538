package upstream

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

const (
	// minAllowedRetries 허용 가능한 최소 재시도 횟수입니다. (0: 재시도 안 함)
	minAllowedRetries = 0

	// maxAllowedRetries 허용 가능한 최대 재시도 횟수입니다.
	maxAllowedRetries = 10

	// minRetryDelay 재시도 대기 시간의 최소값입니다. 너무 빠른 재시도로 인한 서버 부하를 방지합니다.
	minRetryDelay = 100 * time.Millisecond

	// maxRetryDelay 지수 백오프 증가 시 재시도 대기 시간의 상한선입니다.
	maxRetryDelay = 30 * time.Second
)

// RetryFetcher HTTP 요청 실패 시 자동으로 재시도를 수행하는 미들웨어입니다.
//
// 주요 특징:
//   - 지수 백오프(Exponential Backoff): 재시도 간격을 지수적으로 증가시켜 서버 부하를 분산
//   - Jitter: 무작위 지연을 추가하여 동시 다발적인 재시도 분산
//   - 컨텍스트 취소 감지: 사용자 요청 취소 시 즉시 재시도 중단
type RetryFetcher struct {
	delegate Fetcher

	// maxRetries 최대 재시도 횟수입니다. (minAllowedRetries ~ maxAllowedRetries 범위로 보정)
	maxRetries int

	// retryDelay 지수 백오프의 시작점이 되는 재시도 대기 시간입니다.
	retryDelay time.Duration
}

// 컴파일 타임에 인터페이스 구현 여부를 검증합니다.
var _ Fetcher = (*RetryFetcher)(nil)

// NewRetryFetcher 새로운 RetryFetcher 인스턴스를 생성합니다.
func NewRetryFetcher(delegate Fetcher, maxRetries int, retryDelay time.Duration) *RetryFetcher {
	if maxRetries < minAllowedRetries {
		maxRetries = minAllowedRetries
	}
	if maxRetries > maxAllowedRetries {
		maxRetries = maxAllowedRetries
	}
	if retryDelay < minRetryDelay {
		retryDelay = minRetryDelay
	}

	return &RetryFetcher{
		delegate:   delegate,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}
}

// Do HTTP 요청을 수행하며, 실패 시 설정된 정책에 따라 자동으로 재시도합니다.
//
// 재시도 대상:
//   - 네트워크 오류 (타임아웃, 연결 실패 등)
//   - 5xx 서버 에러
//   - 429 Too Many Requests, 408 Request Timeout
//
// 재시도 제외:
//   - 컨텍스트 취소 (context.Canceled)
//   - 비멱등 메서드(POST, PATCH)의 요청
//   - 그 외 4xx 클라이언트 에러 (400, 401, 403, 404 등)
func (f *RetryFetcher) Do(req *http.Request) (*http.Response, error) {
	effectiveMaxRetries := f.maxRetries

	// 비멱등 메서드는 재시도 시 데이터 중복 생성/수정 위험이 있으므로 재시도 비활성화!!
	if !isIdempotentMethod(req.Method) {
		effectiveMaxRetries = 0
	}

	var lastErr error
	var lastResp *http.Response

	// 첫 번째 시도와 재시도를 포함하여 최대 `effectiveMaxRetries + 1`회 반복합니다.
	for i := 0; i <= effectiveMaxRetries; i++ {
		if i > 0 {
			// 지수 백오프: 재시도 횟수가 늘어날수록 대기 시간을 2배씩 증가시킵니다.
			delay := f.retryDelay * time.Duration(1<<(i-1))
			if delay > maxRetryDelay {
				delay = maxRetryDelay
			}

			// Full Jitter: 0 ~ delay 사이의 값을 무작위로 선택하되 최소 대기 시간은 보장합니다.
			delay = time.Duration(rand.Int64N(int64(delay) + 1))
			if delay < minRetryDelay {
				delay = minRetryDelay
			}

			fields := applog.Fields{
				"url":               req.URL.Redacted(),
				"retry":             i,
				"max_retries":       f.maxRetries,
				"remaining_retries": effectiveMaxRetries - i,
				"delay":             delay.String(),
			}
			if lastErr != nil {
				fields["error"] = lastErr.Error()
			}
			if lastResp != nil {
				fields["status_code"] = lastResp.StatusCode
			}

			applog.WithComponentAndFields(component, fields).
				Warn("재시도 대기 중: 일시적 오류로 인해 업스트림 요청 재시도를 준비합니다")

			// 계산된 시간만큼 대기하되, 요청이 취소되면 즉시 중단합니다.
			timer := time.NewTimer(delay)

			select {
			case <-req.Context().Done():
				if !timer.Stop() {
					<-timer.C
				}
				if lastResp != nil && lastResp.Body != nil {
					lastResp.Body.Close()
				}
				return nil, req.Context().Err()

			case <-timer.C:
			}
		}

		// 이전 시도의 응답 본문을 비우고 닫아 커넥션 재사용을 보장합니다.
		if lastResp != nil && lastResp.Body != nil {
			drainAndCloseBody(lastResp.Body)
			lastResp = nil
		}

		resp, err := f.delegate.Do(req)
		if err != nil {
			// 컨텍스트 취소는 사용자의 의도이므로 재시도하지 않습니다.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}

			lastErr = err
			lastResp = nil
			continue
		}

		if isRetryableStatus(resp.StatusCode) {
			lastErr = nil
			lastResp = resp
			continue
		}

		return resp, nil
	}

	// 최대 재시도 횟수를 초과한 경우 마지막 시도의 결과를 그대로 반환합니다.
	// (재시도 대상 상태 코드의 응답은 상위 계층에서 CheckResponseStatus로 에러 변환)
	if lastResp != nil {
		return lastResp, nil
	}
	return nil, lastErr
}

// isIdempotentMethod 지정된 HTTP 메서드가 멱등한지의 여부를 반환합니다.
func isIdempotentMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}

// isRetryableStatus 지정된 HTTP 응답 상태 코드가 재시도 대상인지의 여부를 반환합니다.
func isRetryableStatus(statusCode int) bool {
	if statusCode >= 500 {
		return true
	}
	return statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout
}
