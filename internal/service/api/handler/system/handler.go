// Package system 시스템 엔드포인트 핸들러를 제공합니다.
//
// 헬스체크, 버전 정보 등 시스템 수준의 API를 처리합니다.
package system

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iranswimmers/storefront-server/internal/pkg/version"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

// component System 핸들러 로깅용 컴포넌트 이름
const component = "api.handler.system"

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
)

// ShopStatus Shop 서비스의 캐시 적재 상태를 조회하는 인터페이스입니다.
type ShopStatus interface {
	TreeLoaded() bool
}

// DependencyStatus 개별 의존성의 상태 정보
type DependencyStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message" example:"정상"`
}

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	Status       string                      `json:"status" example:"healthy"`
	Uptime       int64                       `json:"uptime" example:"3600"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// VersionResponse 버전 정보 응답
type VersionResponse struct {
	Version     string `json:"version" example:"v1.2.0"`
	BuildDate   string `json:"build_date" example:"2026-08-01T10:00:00Z"`
	BuildNumber string `json:"build_number" example:"128"`
	GoVersion   string `json:"go_version" example:"go1.24.0"`
}

// Handler 시스템 엔드포인트 핸들러 (헬스체크, 버전 정보)
type Handler struct {
	shopStatus ShopStatus

	buildInfo version.Info

	serverStartTime time.Time
}

// NewHandler Handler 인스턴스를 생성합니다.
func NewHandler(shopStatus ShopStatus, buildInfo version.Info) *Handler {
	return &Handler{
		shopStatus: shopStatus,

		buildInfo: buildInfo,

		serverStartTime: time.Now(),
	}
}

// HealthCheckHandler godoc
// @Summary 서버 헬스체크
// @Description 서버와 내부 캐시의 상태를 확인합니다. 인증 없이 호출 가능하며, 모니터링 시스템에서 사용됩니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.HealthResponse "헬스체크 결과"
// @Router /health [get]
func (h *Handler) HealthCheckHandler(c echo.Context) error {
	applog.WithComponentAndFields(component, applog.Fields{
		"endpoint":  "/health",
		"remote_ip": c.RealIP(),
	}).Debug("헬스체크 요청")

	uptime := int64(time.Since(h.serverStartTime).Seconds())

	deps := make(map[string]DependencyStatus)

	// 카테고리 트리 캐시 적재 상태 확인
	// 트리가 아직 없어도 서비스 자체는 동작하므로 degraded로만 표시합니다.
	if h.shopStatus != nil && h.shopStatus.TreeLoaded() {
		deps["category_tree"] = DependencyStatus{
			Status:  healthStatusHealthy,
			Message: "정상",
		}
	} else {
		deps["category_tree"] = DependencyStatus{
			Status:  healthStatusDegraded,
			Message: "카테고리 트리가 아직 적재되지 않았습니다",
		}
	}

	serverStatus := healthStatusHealthy
	for _, dep := range deps {
		if dep.Status != healthStatusHealthy {
			serverStatus = healthStatusDegraded
			break
		}
	}

	return c.JSON(http.StatusOK, HealthResponse{
		Status:       serverStatus,
		Uptime:       uptime,
		Dependencies: deps,
	})
}

// VersionHandler godoc
// @Summary 서버 버전 정보
// @Description 서버의 버전, 빌드 날짜, 빌드 번호, Go 버전을 반환합니다.
// @Tags System
// @Produce json
// @Success 200 {object} system.VersionResponse "버전 정보"
// @Router /version [get]
func (h *Handler) VersionHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, VersionResponse{
		Version:     h.buildInfo.Version,
		BuildDate:   h.buildInfo.BuildDate,
		BuildNumber: h.buildInfo.BuildNumber,
		GoVersion:   h.buildInfo.GoVersion,
	})
}
