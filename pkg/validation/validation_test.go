package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCORSOrigin(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		origin  string
		wantErr bool
	}{
		{"성공: 와일드카드", "*", false},
		{"성공: https 도메인", "https://iranswimmers.com", false},
		{"성공: 포트 포함", "http://localhost:3000", false},
		{"성공: IPv4 주소", "http://127.0.0.1", false},
		{"실패: 빈 문자열", "", true},
		{"실패: 후행 슬래시", "https://iranswimmers.com/", true},
		{"실패: 경로 포함", "https://iranswimmers.com/shop", true},
		{"실패: 쿼리 스트링 포함", "https://iranswimmers.com?q=1", true},
		{"실패: 지원하지 않는 스키마", "ftp://iranswimmers.com", true},
		{"실패: 호스트 누락", "https://", true},
		{"실패: 숫자로만 구성된 TLD", "https://example.123", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateCORSOrigin(tc.origin)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidatePort(1))
	assert.NoError(t, ValidatePort(8080))
	assert.NoError(t, ValidatePort(65535))
	assert.Error(t, ValidatePort(0))
	assert.Error(t, ValidatePort(65536))
	assert.Error(t, ValidatePort(-1))
}

func TestValidateHostname(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		host    string
		wantErr bool
	}{
		{"성공: localhost", "localhost", false},
		{"성공: 도메인", "api.iranswimmers.com", false},
		{"성공: IPv4", "192.168.0.1", false},
		{"성공: IPv6", "::1", false},
		{"실패: 하이픈으로 시작하는 레이블", "-bad.example.com", true},
		{"실패: 연속된 점", "bad..example.com", true},
		{"실패: 허용되지 않는 문자", "bad_host.example.com", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateHostname(tc.host)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateURL("https://www.iranswimmers.com/wp-json"))
	assert.NoError(t, ValidateURL("http://localhost:8080/api"))
	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://"))
}
