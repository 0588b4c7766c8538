// Package scheduler 카테고리 트리 캐시를 Cron 스케줄에 맞춰 주기적으로 갱신하는 서비스입니다.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iranswimmers/storefront-server/internal/config"
	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/pkg/cronx"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// component Scheduler 서비스의 로깅용 컴포넌트 이름
const component = "scheduler.service"

// refreshTimeout 카테고리 트리 갱신 1회에 허용하는 최대 시간
const refreshTimeout = 2 * time.Minute

// TreeRefresher 카테고리 트리 캐시 갱신을 담당하는 인터페이스입니다.
type TreeRefresher interface {
	RefreshCategoryTree(ctx context.Context) error
}

// Scheduler 설정된 Cron 스케줄에 맞춰 카테고리 트리를 갱신하는 서비스입니다.
type Scheduler struct {
	schedulerConfig config.SchedulerConfig

	cron *cron.Cron

	refresher TreeRefresher

	running   bool
	runningMu sync.Mutex
}

// NewService 새로운 Scheduler 서비스 인스턴스를 생성합니다.
func NewService(schedulerConfig config.SchedulerConfig, refresher TreeRefresher) *Scheduler {
	return &Scheduler{
		schedulerConfig: schedulerConfig,

		refresher: refresher,
	}
}

// Start 스케줄러를 시작하고 카테고리 트리 갱신 작업을 Cron 엔진에 등록합니다.
func (s *Scheduler) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Scheduler 서비스 시작중...")

	if s.refresher == nil {
		serviceStopWG.Done()
		return apperrors.New(apperrors.Internal, "TreeRefresher 객체가 초기화되지 않았습니다")
	}

	if s.running {
		serviceStopWG.Done()
		applog.WithComponent(component).Warn("Scheduler 서비스가 이미 시작됨!!!")
		return nil
	}

	if !s.schedulerConfig.Runnable {
		serviceStopWG.Done()
		applog.WithComponent(component).Info("카테고리 트리 갱신 스케줄이 비활성화되어 Scheduler 서비스를 시작하지 않습니다.")
		return nil
	}

	// StandardParser: 초 단위 스케줄링 지원 (6개 필드: 초 분 시 일 월 요일)
	// Recover: 갱신 작업의 Panic이 Cron 엔진을 중단시키지 않도록 복구
	// SkipIfStillRunning: 이전 갱신이 끝나지 않았으면 다음 실행을 건너뜀
	s.cron = cron.New(
		cron.WithParser(cronx.StandardParser()),
		cron.WithLogger(cron.VerbosePrintfLogger(applog.StandardLogger())),
		cron.WithChain(
			cron.Recover(cron.VerbosePrintfLogger(applog.StandardLogger())),
			cron.SkipIfStillRunning(cron.VerbosePrintfLogger(applog.StandardLogger())),
		),
	)

	timeSpec := s.schedulerConfig.TimeSpec
	if _, err := s.cron.AddFunc(timeSpec, s.refreshCategoryTree); err != nil {
		serviceStopWG.Done()
		return apperrors.Wrap(err, apperrors.InvalidInput, "카테고리 트리 갱신 스케줄 등록 중 에러가 발생했습니다")
	}

	s.cron.Start()
	s.running = true

	applog.WithComponentAndFields(component, log.Fields{
		"time_spec": timeSpec,
	}).Info("Scheduler 서비스 시작됨")

	go func() {
		defer serviceStopWG.Done()

		<-serviceStopCtx.Done()

		s.Stop()
	}()

	return nil
}

// Stop 실행 중인 스케줄러를 안전하게 중지합니다.
func (s *Scheduler) Stop() {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	if !s.running {
		return
	}

	applog.WithComponent(component).Info("Scheduler 서비스 중지중...")

	// Cron 엔진 중지 및 실행 중인 갱신 작업 완료 대기
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}

	s.cron = nil
	s.running = false

	applog.WithComponent(component).Info("Scheduler 서비스 중지됨")
}

// refreshCategoryTree Cron 스케줄에 의해 호출되어 카테고리 트리 캐시를 갱신합니다.
//
// 갱신 요청의 생명주기는 서비스 종료 시그널과 분리합니다. Graceful Shutdown 시
// cron.Stop()이 실행 중인 작업의 완료를 대기하므로, 갱신 도중 컨텍스트 취소로
// 인한 강제 중단을 방지합니다.
func (s *Scheduler) refreshCategoryTree() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.refresher.RefreshCategoryTree(ctx); err != nil {
		applog.WithComponent(component).WithError(err).Error("카테고리 트리 갱신이 실패하였습니다.")
		return
	}

	applog.WithComponent(component).Debug("카테고리 트리 갱신 완료")
}
