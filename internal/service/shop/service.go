// Package shop 업스트림 쇼핑몰 API로부터 상품/카테고리 데이터를 조회하고 캐시하는 서비스입니다.
//
// 상품 상세는 슬러그 단위의 세션 캐시(TTL)로 관리하며, 카테고리 트리는
// 메모리 캐시와 파일 스냅샷 폴백을 함께 사용합니다. 업스트림 장애가
// 연속으로 발생하면 운영 알림 채널로 통지합니다.
package shop

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/iranswimmers/storefront-server/internal/config"
	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/notification"
	"github.com/iranswimmers/storefront-server/internal/service/shop/category"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/iranswimmers/storefront-server/internal/service/shop/storage"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
	"github.com/iranswimmers/storefront-server/pkg/concurrency"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
)

// component Shop 서비스 로깅용 컴포넌트 이름
const component = "shop.service"

const (
	// categoryTreeDepth 업스트림 카테고리 트리 조회 시 요청하는 최대 깊이
	categoryTreeDepth = 3

	// categoryTreeSnapshotName 카테고리 트리 스냅샷 파일의 논리적 이름
	categoryTreeSnapshotName = "CategoryTree"

	// sessionCleanupInterval 만료된 상품 세션을 정리하는 주기
	sessionCleanupInterval = 5 * time.Minute
)

// upstreamAPI 업스트림 쇼핑몰 API 호출 집합을 추상화한 인터페이스입니다.
type upstreamAPI interface {
	Products(ctx context.Context, params upstream.ListParams) (json.RawMessage, error)
	Product(ctx context.Context, slug string) (json.RawMessage, error)
	RelatedProducts(ctx context.Context, slug string) (json.RawMessage, error)
	CategoryTree(ctx context.Context, depth int) (json.RawMessage, error)
	Category(ctx context.Context, slug string) (json.RawMessage, error)
	Search(ctx context.Context, query string) (json.RawMessage, error)
	RealtimeSearch(ctx context.Context, query string) (json.RawMessage, error)
}

// Service 상품/카테고리 데이터의 조회와 캐시를 담당하는 Shop 서비스입니다.
type Service struct {
	appConfig *config.AppConfig

	client    upstreamAPI
	snapshots *storage.SnapshotStore
	alerter   *failureAlerter

	// sessions 슬러그를 키로 하는 상품 세션 캐시
	sessions   map[string]*product.Session
	sessionsMu sync.RWMutex

	// sessionLocks 동일 슬러그에 대한 중복 업스트림 호출을 막는 슬러그 단위 잠금
	sessionLocks *concurrency.KeyedMutex[string]

	// tree 카테고리 트리 메모리 캐시
	tree   []*category.Category
	treeMu sync.RWMutex

	running   bool
	runningMu sync.Mutex
}

// NewService 설정과 운영 알림 채널로 Shop 서비스를 생성하여 반환합니다.
func NewService(appConfig *config.AppConfig, notifier notification.Notifier) (*Service, error) {
	snapshots, err := storage.NewSnapshotStore(appConfig.Shop.SnapshotDir)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.Internal, "스냅샷 저장소 초기화 중 에러가 발생했습니다")
	}

	client := upstream.NewClient(
		appConfig.Upstream.APIBaseURL(),
		appConfig.Upstream.Timeout,
		appConfig.HTTPRetry.MaxRetries,
		appConfig.HTTPRetry.RetryDelay,
	)

	return newService(appConfig, client, snapshots, notifier), nil
}

func newService(appConfig *config.AppConfig, client upstreamAPI, snapshots *storage.SnapshotStore, notifier notification.Notifier) *Service {
	return &Service{
		appConfig: appConfig,

		client:    client,
		snapshots: snapshots,
		alerter:   newFailureAlerter(notifier, appConfig.Shop.FailureAlert),

		sessions:     make(map[string]*product.Session),
		sessionLocks: concurrency.NewKeyedMutex[string](),
	}
}

// Start Shop 서비스를 시작합니다.
//
// 시작 시 카테고리 트리를 워밍업하며, 업스트림 장애 시에는 파일 스냅샷으로
// 폴백합니다. 만료된 상품 세션은 백그라운드에서 주기적으로 정리됩니다.
func (s *Service) Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error {
	s.runningMu.Lock()
	defer s.runningMu.Unlock()

	applog.WithComponent(component).Info("Shop 서비스 시작중...")

	if s.running {
		defer serviceStopWG.Done()
		applog.WithComponent(component).Warn("Shop 서비스가 이미 시작됨!!!")
		return nil
	}

	// 카테고리 트리 워밍업은 서비스 시작을 지연시키지 않도록 백그라운드에서 수행합니다.
	go s.warmUpCategoryTree(serviceStopCtx)

	go s.cleanupExpiredSessions(serviceStopCtx)

	go s.waitForShutdown(serviceStopCtx, serviceStopWG)

	s.running = true

	applog.WithComponent(component).Info("Shop 서비스 시작됨")

	return nil
}

// waitForShutdown 서비스의 종료 신호를 감지하고 리소스를 안전하게 정리합니다.
func (s *Service) waitForShutdown(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) {
	defer serviceStopWG.Done()

	<-serviceStopCtx.Done()

	applog.WithComponent(component).Info("Shop 서비스 중지중...")

	s.runningMu.Lock()
	s.running = false
	s.runningMu.Unlock()

	s.sessionsMu.Lock()
	s.sessions = make(map[string]*product.Session)
	s.sessionsMu.Unlock()

	applog.WithComponent(component).Info("Shop 서비스 중지됨")
}

// cleanupExpiredSessions 만료된 상품 세션을 주기적으로 캐시에서 제거합니다.
func (s *Service) cleanupExpiredSessions(serviceStopCtx context.Context) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-serviceStopCtx.Done():
			return

		case <-ticker.C:
			ttl := s.appConfig.Shop.SessionTTL

			s.sessionsMu.Lock()
			for slug, session := range s.sessions {
				if time.Since(session.CreatedAt()) >= ttl {
					delete(s.sessions, slug)
				}
			}
			s.sessionsMu.Unlock()
		}
	}
}
