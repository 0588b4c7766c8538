package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/iranswimmers/storefront-server/internal/config"
	"github.com/iranswimmers/storefront-server/internal/pkg/version"
	"github.com/iranswimmers/storefront-server/internal/service"
	"github.com/iranswimmers/storefront-server/internal/service/api"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	"github.com/iranswimmers/storefront-server/internal/service/scheduler"
	"github.com/iranswimmers/storefront-server/internal/service/shop"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// @title Storefront Server API
// @version 1.0.0
// @description 온라인 수영용품 쇼핑몰의 스토어프론트 백엔드 REST API입니다.
// @description
// @description 업스트림 쇼핑몰 API로부터 상품, 카테고리, 검색 데이터를 수집 및 가공하여
// @description 프론트엔드가 바로 사용할 수 있는 형태로 제공합니다.
// @description
// @description ## 주요 기능
// @description - 상품 상세 및 목록 조회 (Variation 속성 집계 포함)
// @description - 속성 선택 조합에 대한 Variation 해석 및 재고/가격 판정
// @description - 카테고리 트리 제공 및 슬러그 기반 카테고리 조회
// @description - 상품 검색 (일반/실시간)

// @termsOfService http://swagger.io/terms/

// @contact.name iranswimmers
// @contact.url https://github.com/iranswimmers

// @host localhost:8080
// @BasePath /

// 빌드 정보 변수 (Dockerfile의 ldflags로 주입됨)
var (
	Version     = "dev"     // Git 커밋 해시
	BuildDate   = "unknown" // 빌드 날짜
	BuildNumber = "0"       // 빌드 번호
)

const (
	banner = `
  ____   _                      __                    _     ____
 / ___| | |_  ___   _ __  ___  / _| _ __  ___   _ __ | |_  / ___|   ___  _ __ __   __  ___  _ __
 \___ \ | __|/ _ \ | '__|/ _ \| |_ | '__|/ _ \ | '_ \| __| \___ \  / _ \| '__|\ \ / / / _ \| '__|
  ___) || |_| (_) || |  |  __/|  _|| |  | (_) || | | | |_   ___) ||  __/| |    \ V / |  __/| |
 |____/  \__|\___/ |_|   \___||_|  |_|   \___/ |_| |_|\__| |____/  \___||_|     \_/   \___||_|
                                                                       %s
------------------------------------------------------------------------------------------------
`
)

func main() {
	// 1. 환경설정 로드 (로그 설정에 필요하므로 가장 먼저 수행한다)
	configFile := config.DefaultFilename
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	appConfig, err := config.LoadWithFile(configFile)
	if err != nil {
		// 로거 초기화 전이므로 표준 에러에 출력
		fmt.Fprintf(os.Stderr, "[FATAL] 환경설정 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 2. 로그 시스템 초기화
	var logOpts applog.Options
	if appConfig.Debug {
		logOpts = applog.NewDevelopmentOptions(config.AppName)
	} else {
		logOpts = applog.NewProductionOptions(config.AppName)
	}

	appLogCloser, err := applog.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FATAL] 로그 시스템 초기화 실패. 서버 구동을 중단합니다. (Cause: %v)\n", err)
		os.Exit(1)
	}
	defer appLogCloser.Close()

	// 3. 로그 레벨 최종 확정
	applog.SetDebugMode(appConfig.Debug)

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, Version)

	// 빌드 정보 설정 (전역 싱글톤 등록)
	buildInfo := version.Info{
		Version:     Version,
		BuildDate:   BuildDate,
		BuildNumber: BuildNumber,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
	}
	version.Set(buildInfo)

	// 빌드 정보 출력
	applog.WithComponentAndFields("main", log.Fields{
		"version": buildInfo.String(),
		"env":     map[bool]string{true: "development", false: "production"}[appConfig.Debug],
	}).Info("서버 초기화 시작")

	// 운영 알림 채널을 생성한다.
	var notifier notification.Notifier
	if appConfig.Notifier.Telegram.Enabled {
		notifier, err = notification.NewTelegramNotifier(appConfig.Notifier.Telegram.BotToken, appConfig.Notifier.Telegram.ChatID)
		if err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("텔레그램 알림 채널 초기화 실패")

			log.Fatal("알림 채널 초기화 실패로 프로그램을 종료합니다")
		}
	} else {
		notifier = notification.NewNopNotifier()
	}

	// 서비스를 생성하고 초기화한다.
	shopService, err := shop.NewService(appConfig, notifier)
	if err != nil {
		applog.WithComponentAndFields("main", log.Fields{
			"error": err,
		}).Error("Shop 서비스 초기화 실패")

		log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
	}
	schedulerService := scheduler.NewService(appConfig.Shop.TreeRefresh, shopService)
	apiService := api.NewService(appConfig, shopService, notifier, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWG := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{shopService, schedulerService, apiService}
	for _, s := range services {
		serviceStopWG.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWG); err != nil {
			applog.WithComponentAndFields("main", log.Fields{
				"error": err,
			}).Error("서비스 초기화 실패")

			cancel() // 다른 서비스들도 종료
			serviceStopWG.Wait()

			log.Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	applog.WithComponent("main").Info("서버 가동 완료")

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()             // Signal cancellation to context.Context
	serviceStopWG.Wait() // Block here until are workers are done
}
