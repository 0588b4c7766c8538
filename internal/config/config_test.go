package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile 테스트용 설정 파일을 임시 디렉토리에 생성하고 그 경로를 반환합니다.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWithFile(t *testing.T) {
	t.Run("성공: 최소 설정 파일 로드 시 기본값이 적용된다", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			}
		}`)

		cfg, err := LoadWithFile(path)

		require.NoError(t, err)
		assert.Equal(t, "https://www.iranswimmers.com", cfg.Upstream.BaseURL)
		assert.Equal(t, "/wp-json/isw/v1", cfg.Upstream.APIPath)
		assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, DefaultMaxRetries, cfg.HTTPRetry.MaxRetries)
		assert.Equal(t, 2*time.Second, cfg.HTTPRetry.RetryDelay)
		assert.Equal(t, DefaultColorAttributeTypeID, cfg.Shop.ColorAttributeTypeID)
		assert.Equal(t, 10*time.Minute, cfg.Shop.SessionTTL)
		assert.True(t, cfg.Shop.TreeRefresh.Runnable)
		assert.Equal(t, DefaultTreeRefreshTimeSpec, cfg.Shop.TreeRefresh.TimeSpec)
		assert.Equal(t, DefaultSnapshotDir, cfg.Shop.SnapshotDir)
		assert.Equal(t, DefaultListenPort, cfg.Web.ListenPort)
		assert.Equal(t, []string{"*"}, cfg.Web.CORS.AllowOrigins)
	})

	t.Run("성공: 설정 파일 값이 기본값을 덮어쓴다", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"debug": true,
			"upstream": {
				"base_url": "https://www.iranswimmers.com",
				"timeout": "30s"
			},
			"shop": {
				"color_attribute_type_id": 5,
				"session_ttl": "5m"
			},
			"web": {
				"listen_port": 9090,
				"cors": {
					"allow_origins": ["https://iranswimmers.com", "https://www.iranswimmers.com"]
				}
			}
		}`)

		cfg, err := LoadWithFile(path)

		require.NoError(t, err)
		assert.True(t, cfg.Debug)
		assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
		assert.Equal(t, 5, cfg.Shop.ColorAttributeTypeID)
		assert.Equal(t, 5*time.Minute, cfg.Shop.SessionTTL)
		assert.Equal(t, 9090, cfg.Web.ListenPort)
		assert.Len(t, cfg.Web.CORS.AllowOrigins, 2)
	})

	t.Run("성공: 환경 변수가 설정 파일 값을 덮어쓴다", func(t *testing.T) {
		t.Setenv("STOREFRONT_WEB__LISTEN_PORT", "3000")
		t.Setenv("STOREFRONT_SHOP__SESSION_TTL", "1m")

		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"web": {
				"listen_port": 9090
			}
		}`)

		cfg, err := LoadWithFile(path)

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Web.ListenPort)
		assert.Equal(t, time.Minute, cfg.Shop.SessionTTL)
	})

	t.Run("실패: 설정 파일이 존재하지 않는 경우", func(t *testing.T) {
		_, err := LoadWithFile(filepath.Join(t.TempDir(), "no-such-file.json"))

		assert.Error(t, err)
	})

	t.Run("실패: 업스트림 주소(base_url)가 누락된 경우", func(t *testing.T) {
		path := writeConfigFile(t, `{}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "base_url")
	})

	t.Run("실패: 잘못된 Cron 표현식", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"shop": {
				"tree_refresh": {
					"runnable": true,
					"time_spec": "*/30 * * * *"
				}
			}
		}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "tree_refresh")
	})

	t.Run("실패: 알 수 없는 설정 필드가 존재하는 경우", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"unknown_field": true
		}`)

		_, err := LoadWithFile(path)

		assert.Error(t, err)
	})

	t.Run("실패: 텔레그램 알림 활성화 시 봇 토큰이 누락된 경우", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"notifier": {
				"telegram": {
					"enabled": true,
					"chat_id": 123456789
				}
			}
		}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bot_token")
	})

	t.Run("실패: 잘못된 텔레그램 봇 토큰 형식", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"notifier": {
				"telegram": {
					"enabled": true,
					"bot_token": "invalid-token",
					"chat_id": 123456789
				}
			}
		}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "BotToken")
	})

	t.Run("실패: CORS 와일드카드와 도메인 혼용", func(t *testing.T) {
		path := writeConfigFile(t, `{
			"upstream": {
				"base_url": "https://www.iranswimmers.com"
			},
			"web": {
				"cors": {
					"allow_origins": ["*", "https://iranswimmers.com"]
				}
			}
		}`)

		_, err := LoadWithFile(path)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "와일드카드")
	})
}

func TestUpstreamConfig_APIBaseURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		baseURL  string
		apiPath  string
		expected string
	}{
		{
			name:     "기본 조합",
			baseURL:  "https://www.iranswimmers.com",
			apiPath:  "/wp-json/isw/v1",
			expected: "https://www.iranswimmers.com/wp-json/isw/v1",
		},
		{
			name:     "후행 슬래시가 있는 base_url",
			baseURL:  "https://www.iranswimmers.com/",
			apiPath:  "/wp-json/isw/v1",
			expected: "https://www.iranswimmers.com/wp-json/isw/v1",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := UpstreamConfig{BaseURL: tc.baseURL, APIPath: tc.apiPath}
			assert.Equal(t, tc.expected, c.APIBaseURL())
		})
	}
}

func TestAppConfig_VerifyRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("시스템 예약 포트 사용 시 경고", func(t *testing.T) {
		t.Parallel()

		cfg := &AppConfig{Web: WebConfig{ListenPort: 80}}
		warnings := cfg.VerifyRecommendations()

		require.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0], "시스템 예약 포트")
	})

	t.Run("장애 알림 활성화 상태에서 알림 채널 미설정 시 경고", func(t *testing.T) {
		t.Parallel()

		cfg := &AppConfig{
			Shop: ShopConfig{FailureAlert: FailureAlertConfig{Enabled: true}},
			Web:  WebConfig{ListenPort: 8080},
		}
		warnings := cfg.VerifyRecommendations()

		require.NotEmpty(t, warnings)
		assert.Contains(t, warnings[0], "failure_alert")
	})
}
