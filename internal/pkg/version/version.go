// Package version 애플리케이션의 빌드 및 버저닝 정보를 관리하는 패키지입니다.
//
// 빌드 시점에 링커 플래그(-ldflags)로 주입된 메타데이터와
// 실행 시점의 환경 정보(Go 버전, OS, 아키텍처)를 통합하여 제공합니다.
package version

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
)

const unknown = "unknown"

// globalBuildInfo 전역 빌드 정보 (Atomic Value를 사용하여 Thread-Safe 보장)
var globalBuildInfo atomic.Value

// Info 애플리케이션의 빌드 정보를 담고 있습니다.
// 주로 /version API 엔드포인트나 로그 출력에 사용됩니다.
type Info struct {
	Version     string `json:"version"`      // 애플리케이션의 버전 (예: v1.2.0-12-g3fa9c1d)
	BuildDate   string `json:"build_date"`   // 빌드 날짜 (ISO 8601 형식 권장)
	BuildNumber string `json:"build_number"` // CI/CD 빌드 번호
	GoVersion   string `json:"go_version"`   // 빌드에 사용된 Go 컴파일러 버전
	OS          string `json:"os"`           // 실행 중인 운영체제
	Arch        string `json:"arch"`         // 실행 중인 시스템 아키텍처
}

// String 빌드 정보를 사람이 읽기 쉬운 한 줄 문자열로 반환합니다.
func (i Info) String() string {
	var sb strings.Builder

	version := i.Version
	if version == "" {
		version = unknown
	}
	sb.WriteString(version)

	if i.BuildNumber != "" && i.BuildNumber != "0" {
		fmt.Fprintf(&sb, " (build %s)", i.BuildNumber)
	}
	if i.BuildDate != "" && i.BuildDate != unknown {
		fmt.Fprintf(&sb, " built at %s", i.BuildDate)
	}

	return sb.String()
}

// Set 애플리케이션의 빌드 정보를 설정합니다.
// main 함수 도입부에서 한 번만 호출해야 합니다.
func Set(bi Info) {
	if bi.GoVersion == "" {
		bi.GoVersion = runtime.Version()
	}
	if bi.OS == "" {
		bi.OS = runtime.GOOS
	}
	if bi.Arch == "" {
		bi.Arch = runtime.GOARCH
	}

	globalBuildInfo.Store(bi)
}

// Get 애플리케이션의 빌드 정보를 반환합니다.
func Get() Info {
	bi := globalBuildInfo.Load()
	if bi == nil {
		return Info{
			Version:     unknown,
			BuildDate:   unknown,
			BuildNumber: "0",
			GoVersion:   runtime.Version(),
			OS:          runtime.GOOS,
			Arch:        runtime.GOARCH,
		}
	}
	return bi.(Info)
}
