// Package notification 운영 알림 발송을 담당하는 패키지입니다.
//
// Shop 서비스의 업스트림 연속 실패 감지나 API 서버의 패닉 복구 등
// 운영자가 즉시 인지해야 하는 이벤트를 텔레그램으로 발송합니다.
package notification

import "context"

// component Notification 패키지 로깅용 컴포넌트 이름
const component = "notification"

// Notifier 운영 알림 발송 인터페이스입니다.
type Notifier interface {
	// Notify 제목과 메시지를 알림 채널로 발송합니다.
	Notify(ctx context.Context, title, message string) error
}

// NopNotifier 알림 채널이 비활성화된 경우 사용하는 무동작 Notifier입니다.
type NopNotifier struct{}

// NewNopNotifier 무동작 Notifier를 생성하여 반환합니다.
func NewNopNotifier() *NopNotifier {
	return &NopNotifier{}
}

// Notify 아무 동작도 하지 않고 항상 nil을 반환합니다.
func (n *NopNotifier) Notify(_ context.Context, _, _ string) error {
	return nil
}
