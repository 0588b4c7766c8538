package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSpaces(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"앞뒤 공백 제거", "  hello  ", "hello"},
		{"연속 공백 축약", "hello   world", "hello world"},
		{"탭과 개행 처리", "hello\t\nworld", "hello world"},
		{"빈 문자열", "", ""},
		{"공백만 있는 문자열", "   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, NormalizeSpaces(tc.input))
		})
	}
}

func TestFormatCommas(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    int
		expected string
	}{
		{"3자리 이하", 999, "999"},
		{"4자리", 1000, "1,000"},
		{"7자리", 1234567, "1,234,567"},
		{"0", 0, "0"},
		{"음수", -1234567, "-1,234,567"},
		{"토만 단위 가격", 2850000, "2,850,000"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, FormatCommas(tc.input))
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		sep      string
		expected []string
	}{
		{"기본 분리", "a,b,c", ",", []string{"a", "b", "c"}},
		{"공백 제거", "a, b , c", ",", []string{"a", "b", "c"}},
		{"빈 항목 제외", "a, , b,c", ",", []string{"a", "b", "c"}},
		{"빈 문자열은 nil 반환", "", ",", nil},
		{"구분자만 있는 문자열은 nil 반환", ",,,", ",", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, SplitAndTrim(tc.input, tc.sep))
		})
	}
}

func TestStripHTMLTags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"태그 제거", "<b>Hello</b> World", "Hello World"},
		{"엔티티 디코딩", "Hello &amp; World", "Hello & World"},
		{"수학 기호는 유지", "3 < 5", "3 < 5"},
		{"속성이 있는 태그", `<a href="https://example.com">링크</a>`, "링크"},
		{"페르시아어 본문", "<p>مایو شنا</p>", "مایو شنا"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, StripHTMLTags(tc.input))
		})
	}
}

func TestNormalizeDigits(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"페르시아 숫자 변환", "۱۲۳۴۵۶۷۸۹۰", "1234567890"},
		{"아랍 숫자 변환", "١٢٣", "123"},
		{"혼합 문자열", "سایز ۴۲", "سایز 42"},
		{"ASCII 숫자는 그대로 유지", "size 42", "size 42"},
		{"빈 문자열", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, NormalizeDigits(tc.input))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		maxRunes int
		expected string
	}{
		{"최대 길이 이하는 그대로 반환", "hello", 10, "hello"},
		{"초과 시 잘라내고 말줄임표 추가", "hello world", 5, "hello..."},
		{"멀티바이트 문자도 Rune 단위로 처리", "مایو شنا حرفه‌ای", 8, "مایو شنا..."},
		{"경계에 공백이 있으면 제거 후 말줄임표", "hello  world", 6, "hello..."},
		{"최대 길이가 0 이하인 경우", "hello", 0, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, TruncateRunes(tc.input, tc.maxRunes))
		})
	}
}
