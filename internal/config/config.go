// Package config 애플리케이션의 환경설정 로드와 유효성 검증을 담당합니다.
//
// 설정은 [기본값 -> JSON 설정 파일 -> 환경 변수] 순으로 병합되며, 나중에 로드된 값이 우선합니다.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/pkg/cronx"
	"github.com/iranswimmers/storefront-server/pkg/validation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName 애플리케이션의 전역 고유 식별자입니다.
	AppName string = "storefront-server"

	// DefaultFilename 애플리케이션 초기화 시 참조하는 기본 설정 파일명입니다.
	// 실행 인자를 통해 명시적인 경로가 제공되지 않을 경우, 시스템은 이 파일을 탐색하여 구성을 로드합니다.
	DefaultFilename = AppName + ".json"

	// ------------------------------------------------------------------------------------------------
	// 기본값
	// ------------------------------------------------------------------------------------------------

	// DefaultMaxRetries 업스트림 HTTP 요청 실패 시 최대 재시도 횟수 기본값
	DefaultMaxRetries = 3

	// DefaultRetryDelay 재시도 사이의 대기 시간 기본값
	DefaultRetryDelay = "2s"

	// DefaultUpstreamTimeout 업스트림 API 호출에 대한 타임아웃 기본값
	DefaultUpstreamTimeout = "15s"

	// DefaultColorAttributeTypeID 색상(스와치) 속성 패싯의 업스트림 타입 식별자 기본값
	DefaultColorAttributeTypeID = 2

	// DefaultSessionTTL 상품 세션 캐시의 유효 시간 기본값
	DefaultSessionTTL = "10m"

	// DefaultTreeRefreshTimeSpec 카테고리 트리 갱신 스케줄의 기본 Cron 표현식 (매 30분)
	DefaultTreeRefreshTimeSpec = "0 */30 * * * *"

	// DefaultSnapshotDir 카테고리 트리 스냅샷 파일이 저장되는 디렉토리 기본값
	DefaultSnapshotDir = "snapshots"

	// DefaultFailureAlertThreshold 업스트림 장애 알림을 발송하기 위한 연속 실패 횟수 기본값
	DefaultFailureAlertThreshold = 3

	// DefaultFailureAlertCooldown 동일 장애에 대한 중복 알림 억제 간격 기본값
	DefaultFailureAlertCooldown = "30m"

	// DefaultListenPort 웹 서버 기본 포트
	DefaultListenPort = 8080
)

// AppConfig 애플리케이션의 모든 설정을 관장하는 최상위 루트 구조체
type AppConfig struct {
	Debug     bool            `json:"debug"`
	HTTPRetry HTTPRetryConfig `json:"http_retry"`
	Upstream  UpstreamConfig  `json:"upstream"`
	Shop      ShopConfig      `json:"shop"`
	Notifier  NotifierConfig  `json:"notifier"`
	Web       WebConfig       `json:"web"`
}

// validate 설정 파일 로드 직후, 각 설정 항목의 정합성과 필수 값의 유효성을 검증합니다.
func (c *AppConfig) validate(v *configValidator) error {
	if err := c.HTTPRetry.validate(); err != nil {
		return err
	}

	if err := c.Upstream.validate(); err != nil {
		return err
	}

	if err := c.Shop.validate(); err != nil {
		return err
	}

	if err := c.Notifier.validate(v); err != nil {
		return err
	}

	if err := c.Web.validate(v); err != nil {
		return err
	}

	return nil
}

// VerifyRecommendations 서비스 운영의 안정성과 보안을 위해 권장되는 설정 준수 여부를 진단합니다.
// 강제적인 에러를 발생시키지는 않으나, 잠재적 위험 요소(예: Well-known Port 사용)에 대한 경고 메시지를 반환합니다.
func (c *AppConfig) VerifyRecommendations() []string {
	var warnings []string

	warnings = append(warnings, c.Web.VerifyRecommendations()...)

	if c.Shop.FailureAlert.Enabled && !c.Notifier.Telegram.Enabled {
		warnings = append(warnings, "업스트림 장애 알림(failure_alert)이 활성화되어 있으나 텔레그램 알림 채널이 비활성 상태입니다. 장애 발생 시 알림이 발송되지 않습니다")
	}

	return warnings
}

// HTTPRetryConfig 업스트림 HTTP 요청 실패 시 재시도 횟수와 대기 시간을 정의하는 설정 구조체
type HTTPRetryConfig struct {
	MaxRetries int           `json:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay"`
}

func (c *HTTPRetryConfig) validate() error {
	if c.MaxRetries < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 최대 재시도 횟수(max_retries)는 0 이상이어야 합니다: '%d'", c.MaxRetries))
	}
	if c.RetryDelay <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("HTTP 재시도 대기 시간(retry_delay)은 0보다 커야 합니다: '%v'", c.RetryDelay))
	}
	return nil
}

// UpstreamConfig 상품 데이터를 공급하는 업스트림 쇼핑몰 API 접속 정보를 정의하는 설정 구조체
type UpstreamConfig struct {
	BaseURL string        `json:"base_url"`
	APIPath string        `json:"api_path"`
	Timeout time.Duration `json:"timeout"`
}

func (c *UpstreamConfig) validate() error {
	if err := validation.ValidateURL(c.BaseURL); err != nil {
		return apperrors.Wrap(err, apperrors.InvalidInput, "업스트림 주소(base_url) 설정이 올바르지 않습니다")
	}
	if !strings.HasPrefix(c.APIPath, "/") {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("업스트림 API 경로(api_path)는 '/'로 시작해야 합니다: '%s'", c.APIPath))
	}
	if c.Timeout <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("업스트림 타임아웃(timeout)은 0보다 커야 합니다: '%v'", c.Timeout))
	}
	return nil
}

// APIBaseURL 업스트림 API 호출의 기준이 되는 전체 URL을 반환합니다.
// 예: "https://www.iranswimmers.com" + "/wp-json/isw/v1" -> "https://www.iranswimmers.com/wp-json/isw/v1"
func (c *UpstreamConfig) APIBaseURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.APIPath
}

// ShopConfig 상품/카테고리 도메인 동작 방식을 정의하는 설정 구조체
type ShopConfig struct {
	// ColorAttributeTypeID 색상 스와치로 취급할 속성 패싯의 업스트림 타입 식별자
	ColorAttributeTypeID int `json:"color_attribute_type_id"`

	// SessionTTL 상품 세션 캐시의 유효 시간
	SessionTTL time.Duration `json:"session_ttl"`

	// TreeRefresh 카테고리 트리 주기적 갱신 스케줄 설정
	TreeRefresh SchedulerConfig `json:"tree_refresh"`

	// SnapshotDir 카테고리 트리 스냅샷 파일이 저장되는 디렉토리
	SnapshotDir string `json:"snapshot_dir"`

	// FailureAlert 업스트림 연속 장애 발생 시 운영 알림 채널로 통지하는 정책 설정
	FailureAlert FailureAlertConfig `json:"failure_alert"`
}

// FailureAlertConfig 업스트림 장애 알림 정책을 정의하는 구조체
type FailureAlertConfig struct {
	// Enabled 장애 알림 발송 여부
	Enabled bool `json:"enabled"`

	// Threshold 알림을 발송하기 위한 연속 실패 횟수 임계값
	Threshold int `json:"threshold"`

	// Cooldown 동일 장애에 대한 중복 알림을 억제하는 최소 간격
	Cooldown time.Duration `json:"cooldown"`
}

func (c *ShopConfig) validate() error {
	if c.ColorAttributeTypeID < 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("색상 속성 타입 식별자(color_attribute_type_id)는 0 이상이어야 합니다: '%d'", c.ColorAttributeTypeID))
	}
	if c.SessionTTL <= 0 {
		return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("세션 캐시 유효 시간(session_ttl)은 0보다 커야 합니다: '%v'", c.SessionTTL))
	}
	if strings.TrimSpace(c.SnapshotDir) == "" {
		return apperrors.New(apperrors.InvalidInput, "스냅샷 디렉토리(snapshot_dir)가 설정되지 않았습니다")
	}
	if c.FailureAlert.Enabled {
		if c.FailureAlert.Threshold < 1 {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("장애 알림 임계값(failure_alert.threshold)은 1 이상이어야 합니다: '%d'", c.FailureAlert.Threshold))
		}
		if c.FailureAlert.Cooldown <= 0 {
			return apperrors.New(apperrors.InvalidInput, fmt.Sprintf("장애 알림 쿨다운(failure_alert.cooldown)은 0보다 커야 합니다: '%v'", c.FailureAlert.Cooldown))
		}
	}

	// Cron 표현식 검증 (Scheduler가 활성화된 경우)
	if c.TreeRefresh.Runnable {
		if err := cronx.Validate(c.TreeRefresh.TimeSpec); err != nil {
			return apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("카테고리 트리 갱신 스케줄(tree_refresh.time_spec) 설정이 유효하지 않습니다: '%s'", c.TreeRefresh.TimeSpec))
		}
	}

	return nil
}

// SchedulerConfig 주기적 작업의 실행 여부와 Cron 표현식을 정의하는 구조체
type SchedulerConfig struct {
	Runnable bool   `json:"runnable"`
	TimeSpec string `json:"time_spec"`
}

// NotifierConfig 운영 알림 채널을 정의하는 설정 구조체
type NotifierConfig struct {
	Telegram TelegramConfig `json:"telegram"`
}

func (c *NotifierConfig) validate(v *configValidator) error {
	if !c.Telegram.Enabled {
		return nil
	}

	return v.checkStruct(&c.Telegram, "Telegram Notifier")
}

// TelegramConfig 텔레그램 봇 토큰 및 채팅 ID 정보를 담는 설정 구조체
type TelegramConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token" validate:"required,telegram_bot_token"`
	ChatID   int64  `json:"chat_id" validate:"required"`
}

// WebConfig 웹 서버의 포트, TLS(HTTPS) 및 CORS 정책을 정의하는 설정 구조체
type WebConfig struct {
	TLSServer   bool       `json:"tls_server"`
	TLSCertFile string     `json:"tls_cert_file" validate:"required_if=TLSServer true,omitempty,file"`
	TLSKeyFile  string     `json:"tls_key_file" validate:"required_if=TLSServer true,omitempty,file"`
	ListenPort  int        `json:"listen_port" validate:"min=1,max=65535"`
	CORS        CORSConfig `json:"cors"`
}

func (c *WebConfig) validate(v *configValidator) error {
	if err := v.checkStruct(c, "웹 서버"); err != nil {
		return err
	}

	return c.CORS.validate(v)
}

// VerifyRecommendations 웹 서버 설정의 잠재적 위험 요소를 진단합니다.
func (c *WebConfig) VerifyRecommendations() []string {
	var warnings []string

	// 시스템 예약 포트(1024 미만) 사용 경고
	if c.ListenPort < 1024 {
		warnings = append(warnings, fmt.Sprintf("시스템 예약 포트(1-1023)를 사용하도록 설정되었습니다(port: %d). 이 경우 서버 구동 시 관리자 권한이 필요할 수 있습니다", c.ListenPort))
	}

	return warnings
}

// CORSConfig 웹 브라우저의 교차 출처 리소스 공유(CORS) 정책을 설정하는 구조체
type CORSConfig struct {
	AllowOrigins []string `json:"allow_origins" validate:"dive,cors_origin"`
}

func (c *CORSConfig) validate(v *configValidator) error {
	if len(c.AllowOrigins) == 0 {
		return apperrors.New(apperrors.InvalidInput, "CORS 허용 도메인(allow_origins) 목록이 비어있습니다")
	}

	for _, origin := range c.AllowOrigins {
		if origin == "*" {
			if len(c.AllowOrigins) > 1 {
				return apperrors.New(apperrors.InvalidInput, "와일드카드(*)는 다른 도메인과 함께 사용할 수 없습니다. 모든 도메인을 허용하려면 와일드카드만 설정하세요")
			}

			// 와일드카드만 있는 경우는 유효함 (validator skip)
			continue
		}
	}

	return v.checkStruct(c, "CORS")
}

// Load 기본 설정 파일을 읽어 애플리케이션 설정을 로드합니다.
func Load() (*AppConfig, error) {
	return LoadWithFile(DefaultFilename)
}

// LoadWithFile 지정된 경로의 설정 파일을 읽어 AppConfig 객체를 생성합니다.
func LoadWithFile(filename string) (*AppConfig, error) {
	k := koanf.New(".")

	// 1. 기본값 로드 (가장 낮은 우선순위)
	err := k.Load(confmap.Provider(map[string]interface{}{
		"http_retry.max_retries":        DefaultMaxRetries,
		"http_retry.retry_delay":        DefaultRetryDelay,
		"upstream.api_path":             "/wp-json/isw/v1",
		"upstream.timeout":              DefaultUpstreamTimeout,
		"shop.color_attribute_type_id":  DefaultColorAttributeTypeID,
		"shop.session_ttl":              DefaultSessionTTL,
		"shop.tree_refresh.runnable":    true,
		"shop.tree_refresh.time_spec":   DefaultTreeRefreshTimeSpec,
		"shop.snapshot_dir":             DefaultSnapshotDir,
		"shop.failure_alert.threshold":  DefaultFailureAlertThreshold,
		"shop.failure_alert.cooldown":   DefaultFailureAlertCooldown,
		"web.listen_port":               DefaultListenPort,
		"web.cors.allow_origins":        []string{"*"},
	}, "."), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "애플리케이션 기본 설정 로드에 실패했습니다")
	}

	// 2. JSON 설정 파일 로드 (기본값 덮어쓰기)
	if err := k.Load(file.Provider(filename), json.Parser()); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(err, apperrors.System, fmt.Sprintf("설정 파일을 찾을 수 없습니다: '%s'", filename))
		}
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일 로드 중 오류가 발생했습니다: '%s'", filename))
	}

	// 3. 환경 변수 로드 (최우선 순위, JSON 설정 덮어쓰기)
	// 접두사: STOREFRONT_
	// 구분자: 이중 언더스코어(__)를 점(.)으로 변환 (계층 구조 표현)
	// 예: STOREFRONT_UPSTREAM__BASE_URL -> upstream.base_url
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "환경 변수 로드에 실패했습니다")
	}

	// 4. 구조체 언마샬링 (Strict Validation 적용)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "json",
		DecoderConfig: &mapstructure.DecoderConfig{
			ErrorUnused:      true, // 파일에 존재하지만 구조체에 없는 필드가 있을 경우 에러를 발생시킴
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(), // "2s" -> time.Duration
		},
	}
	var appConfig AppConfig
	if err := k.UnmarshalWithConf("", &appConfig, unmarshalConf); err != nil {
		return nil, apperrors.Wrap(err, apperrors.System, "설정 데이터를 애플리케이션 구조체로 변환하는데 실패했습니다")
	}

	// 5. 유효성 검사 수행 (정합성 체크)
	if err := appConfig.validate(newConfigValidator()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.InvalidInput, fmt.Sprintf("설정 파일('%s')의 유효성 검증에 실패했습니다", filename))
	}

	return &appConfig, nil
}
