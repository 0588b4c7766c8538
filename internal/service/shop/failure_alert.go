package shop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iranswimmers/storefront-server/internal/config"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// alertSendTimeout 장애 알림 발송에 허용하는 최대 시간
const alertSendTimeout = 10 * time.Second

// failureAlerter 업스트림 연속 실패를 추적하여 임계값 도달 시 운영 알림을 발송합니다.
//
// 동일 장애에 대한 중복 알림은 쿨다운 간격으로 억제되며,
// 업스트림 호출이 한 번이라도 성공하면 연속 실패 카운터는 초기화됩니다.
type failureAlerter struct {
	notifier notification.Notifier

	enabled   bool
	threshold int
	cooldown  time.Duration

	mu          sync.Mutex
	consecutive int
	lastAlertAt time.Time
}

func newFailureAlerter(notifier notification.Notifier, cfg config.FailureAlertConfig) *failureAlerter {
	if notifier == nil {
		notifier = notification.NewNopNotifier()
	}

	return &failureAlerter{
		notifier: notifier,

		enabled:   cfg.Enabled,
		threshold: cfg.Threshold,
		cooldown:  cfg.Cooldown,
	}
}

// recordSuccess 업스트림 호출 성공을 기록하고 연속 실패 카운터를 초기화합니다.
func (a *failureAlerter) recordSuccess() {
	if !a.enabled {
		return
	}

	a.mu.Lock()
	a.consecutive = 0
	a.mu.Unlock()
}

// recordFailure 업스트림 호출 실패를 기록하고, 연속 실패 횟수가 임계값에
// 도달하면 쿨다운 간격 내 최대 1회 운영 알림을 발송합니다.
func (a *failureAlerter) recordFailure(operation string, err error) {
	if !a.enabled {
		return
	}

	a.mu.Lock()
	a.consecutive++

	shouldAlert := a.consecutive >= a.threshold && time.Since(a.lastAlertAt) >= a.cooldown
	if shouldAlert {
		a.lastAlertAt = time.Now()
	}
	consecutive := a.consecutive
	a.mu.Unlock()

	applog.WithComponentAndFields(component, log.Fields{
		"operation":   operation,
		"consecutive": consecutive,
	}).WithError(err).Warn("업스트림 API 호출이 실패하였습니다.")

	if !shouldAlert {
		return
	}

	message := fmt.Sprintf("업스트림 API 호출이 %d회 연속 실패하였습니다.\n\n마지막 작업: %s\n오류: %s", consecutive, operation, err)

	// 알림 발송이 서비스 요청 처리를 지연시키지 않도록 백그라운드에서 수행합니다.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertSendTimeout)
		defer cancel()

		if notifyErr := a.notifier.Notify(ctx, "업스트림 장애", message); notifyErr != nil {
			applog.WithComponent(component).WithError(notifyErr).Error("업스트림 장애 알림 발송이 실패하였습니다.")
		}
	}()
}
