package shop

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/shop/product"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// ProductSession 슬러그에 해당하는 상품 세션을 반환합니다.
//
// 유효한 세션이 캐시에 있으면 그대로 반환하고, 없거나 만료되었으면 업스트림에서
// 상품을 조회하여 새 세션을 생성합니다. 동일 슬러그에 대한 동시 요청은 슬러그
// 단위 잠금으로 직렬화되어 업스트림 호출이 한 번만 발생합니다.
func (s *Service) ProductSession(ctx context.Context, slug string) (*product.Session, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "상품 슬러그가 지정되지 않았습니다")
	}

	if session := s.cachedSession(slug); session != nil {
		return session, nil
	}

	var session *product.Session

	err := s.sessionLocks.WithLock(slug, func() error {
		// 잠금 대기 중에 다른 고루틴이 세션을 생성했을 수 있으므로 다시 확인합니다.
		if cached := s.cachedSession(slug); cached != nil {
			session = cached
			return nil
		}

		raw, err := s.client.Product(ctx, slug)
		if err != nil {
			s.alerter.recordFailure("product", err)
			return err
		}
		s.alerter.recordSuccess()

		p, err := product.ParseProduct(raw)
		if err != nil {
			return err
		}

		session = product.NewSession(p, s.appConfig.Shop.ColorAttributeTypeID)

		s.sessionsMu.Lock()
		s.sessions[slug] = session
		s.sessionsMu.Unlock()

		applog.WithComponentAndFields(component, log.Fields{
			"slug": slug,
		}).Debug("상품 세션이 생성됨")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return session, nil
}

// cachedSession 캐시에서 유효한 상품 세션을 조회합니다. 만료되었거나 없으면 nil을 반환합니다.
func (s *Service) cachedSession(slug string) *product.Session {
	s.sessionsMu.RLock()
	session, ok := s.sessions[slug]
	s.sessionsMu.RUnlock()

	if !ok {
		return nil
	}

	if time.Since(session.CreatedAt()) >= s.appConfig.Shop.SessionTTL {
		s.sessionsMu.Lock()
		// TTL 경과 후 다른 고루틴이 이미 새 세션으로 교체했을 수 있으므로 동일 객체일 때만 제거합니다.
		if current, ok := s.sessions[slug]; ok && current == session {
			delete(s.sessions, slug)
		}
		s.sessionsMu.Unlock()

		return nil
	}

	return session
}

// InvalidateSession 슬러그에 해당하는 상품 세션을 캐시에서 제거합니다.
func (s *Service) InvalidateSession(slug string) {
	s.sessionsMu.Lock()
	delete(s.sessions, slug)
	s.sessionsMu.Unlock()
}

// Products 업스트림 상품 목록을 조회하여 상품 배열과 페이지네이션 메타 정보를 반환합니다.
func (s *Service) Products(ctx context.Context, params upstream.ListParams) ([]product.Product, *product.Pagination, error) {
	raw, err := s.client.Products(ctx, params)
	if err != nil {
		s.alerter.recordFailure("products", err)
		return nil, nil, err
	}
	s.alerter.recordSuccess()

	return product.ParseProducts(raw)
}

// RelatedProducts 슬러그에 해당하는 상품의 연관 상품 목록을 반환합니다.
func (s *Service) RelatedProducts(ctx context.Context, slug string) ([]product.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "상품 슬러그가 지정되지 않았습니다")
	}

	raw, err := s.client.RelatedProducts(ctx, slug)
	if err != nil {
		s.alerter.recordFailure("related_products", err)
		return nil, err
	}
	s.alerter.recordSuccess()

	products, _, err := product.ParseProducts(raw)
	return products, err
}

// Search 검색어에 해당하는 업스트림 검색 결과를 그대로 반환합니다.
//
// 서버는 검색 결과를 가공하지 않는 단순 프록시이며, realtime이 참이면
// 자동완성용 실시간 검색 엔드포인트를 사용합니다.
func (s *Service) Search(ctx context.Context, query string, realtime bool) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "검색어가 지정되지 않았습니다")
	}

	var (
		raw       json.RawMessage
		err       error
		operation string
	)

	if realtime {
		operation = "rt_search"
		raw, err = s.client.RealtimeSearch(ctx, query)
	} else {
		operation = "search"
		raw, err = s.client.Search(ctx, query)
	}

	if err != nil {
		s.alerter.recordFailure(operation, err)
		return nil, err
	}
	s.alerter.recordSuccess()

	return raw, nil
}
