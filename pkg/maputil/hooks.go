package maputil

import (
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// stringToSliceHookFunc 쉼표(,)로 구분된 문자열을 잘라서 슬라이스로 변환합니다.
//
// [중요] []byte 타입은 쪼개지 않고 원본 그대로 둡니다.
// mapstructure가 []byte를 일반 슬라이스처럼 취급하여 문자열을 분할해버리는 문제를 막기 위함입니다.
func stringToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t.Kind() != reflect.Slice && t.Kind() != reflect.Array {
			return data, nil
		}
		if t.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}

		strData := reflect.ValueOf(data).String()
		if strData == "" {
			return []string{}, nil
		}

		parts := strings.Split(strData, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

// stringToDurationHookFunc 문자열을 time.Duration으로 변환하는 훅입니다.
//
// time.Duration의 별칭(Alias) 타입은 지원하지 않고, 오직 정확한 time.Duration 타입만 변환합니다.
// 이는 이름만 유사한 다른 정수형 타입들이 의도치 않게 시간으로 오해되어 잘못된 값으로 변환되는 것을 방지하기 위함입니다.
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		s := strings.TrimSpace(reflect.ValueOf(data).String())

		// time.ParseDuration은 "ns", "us", "ms", "s", "m", "h" 등의 단위가 필요함
		d, err := time.ParseDuration(s)
		if err != nil {
			// 파싱 실패 시, 다른 훅이나 기본 로직이 처리하도록 pass
			return data, nil
		}

		return d, nil
	}
}
