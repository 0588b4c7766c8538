package notification

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/iranswimmers/storefront-server/internal/pkg/errors"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	"github.com/iranswimmers/storefront-server/pkg/strutil"
)

const (
	// messageMaxLength 텔레그램 메시지 전송 시 허용되는 최대 문자 길이입니다.
	//
	// 텔레그램 Bot API 공식 제한은 4096자이지만, HTML 태그 오버헤드를 고려하여
	// 안전 마진을 두고 3900자로 설정했습니다. 이를 초과하는 메시지는 분할 전송됩니다.
	messageMaxLength = 3900

	// titleTruncateLength 제목이 너무 길 경우 메시지 분할 시 HTML 태그 깨짐 방지를 위해 자를 길이
	titleTruncateLength = 200

	// titleFormat 제목이 있는 알림 메시지의 서식
	titleFormat = "<b>【 %s 】</b>\n\n%s"
)

// client 텔레그램 봇 API와의 통신을 추상화한 인터페이스입니다.
type client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier 텔레그램 봇을 통해 운영 알림을 발송하는 Notifier 구현체입니다.
type TelegramNotifier struct {
	client client
	chatID int64

	// limiter 텔레그램 API의 초당 전송 횟수 제한을 준수하기 위한 Rate Limiter
	limiter *rate.Limiter
}

// NewTelegramNotifier 봇 토큰과 채팅 ID로 텔레그램 Notifier를 생성하여 반환합니다.
func NewTelegramNotifier(botToken string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, errors.Wrap(err, errors.Unavailable, "텔레그램 봇 초기화가 실패하였습니다")
	}

	return newTelegramNotifier(bot, chatID), nil
}

func newTelegramNotifier(c client, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		client:  c,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Notify 제목과 메시지를 텔레그램으로 발송합니다.
//
// 제목과 메시지는 HTML 이스케이프 처리되며, 메시지가 텔레그램 API의
// 길이 제한을 초과하는 경우 줄바꿈 단위로 분할하여 순차 전송합니다.
func (n *TelegramNotifier) Notify(ctx context.Context, title, message string) error {
	// 중요: Truncate를 먼저 수행한 후 이스케이프해야 안전합니다.
	// 이스케이프된 문자열을 자르면 '&lt;' 따위가 잘려서 '&l' 처럼 되어 HTML 파싱 에러를 유발할 수 있습니다.
	escaped := html.EscapeString(message)
	if len(title) > 0 {
		safeTitle := html.EscapeString(strutil.TruncateRunes(title, titleTruncateLength))
		escaped = fmt.Sprintf(titleFormat, safeTitle, escaped)
	}

	return n.sendMessage(ctx, escaped)
}

// sendMessage 긴 메시지를 텔레그램 API 제한에 맞춰 분할하여 전송합니다.
//
// 가능한 한 줄바꿈(\n) 단위로 메시지를 나누고, 한 줄 자체가 제한을 초과하는
// 경우에만 UTF-8 문자 경계를 존중하여 강제로 자릅니다. 분할된 청크들은 원래
// 순서대로 전송되며, 중간에 실패하면 즉시 중단합니다.
func (n *TelegramNotifier) sendMessage(ctx context.Context, message string) error {
	if len(message) <= messageMaxLength {
		return n.sendChunk(ctx, message)
	}

	var sb strings.Builder
	sb.Grow(messageMaxLength)

	for line := range strings.SplitSeq(message, "\n") {
		if err := ctx.Err(); err != nil {
			return err
		}

		neededSpace := len(line)
		if sb.Len() > 0 {
			neededSpace += 1
		}

		if sb.Len()+neededSpace > messageMaxLength {
			if sb.Len() > 0 {
				if err := n.sendChunk(ctx, sb.String()); err != nil {
					return err
				}
				sb.Reset()
			}

			if len(line) > messageMaxLength {
				// 한 줄 자체가 제한을 초과하므로 강제 분할합니다.
				currentLine := line
				for len(currentLine) > messageMaxLength {
					if err := ctx.Err(); err != nil {
						return err
					}

					chunk, remainder := safeSplit(currentLine, messageMaxLength)
					if err := n.sendChunk(ctx, chunk); err != nil {
						return err
					}
					currentLine = remainder
				}
				sb.WriteString(currentLine)
			} else {
				sb.WriteString(line)
			}
		} else {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(line)
		}
	}

	if sb.Len() > 0 {
		return n.sendChunk(ctx, sb.String())
	}

	return nil
}

// sendChunk 단일 메시지 청크를 텔레그램 API로 전송합니다.
func (n *TelegramNotifier) sendChunk(ctx context.Context, message string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := n.client.Send(msg); err != nil {
		applog.WithComponent(component).WithError(err).Error("텔레그램 메시지 전송이 실패하였습니다.")
		return errors.Wrap(err, errors.Unavailable, "텔레그램 메시지 전송이 실패하였습니다")
	}

	return nil
}

// safeSplit UTF-8 문자 경계를 존중하여 문자열을 최대 limit 바이트 이내에서 분할합니다.
func safeSplit(s string, limit int) (chunk, remainder string) {
	if len(s) <= limit {
		return s, ""
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = limit
	}

	return s[:cut], s[cut:]
}
