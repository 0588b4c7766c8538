package shop

import (
	"context"
	"fmt"

	apperrors "github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/shop/category"
	applog "github.com/iranswimmers/storefront-server/pkg/log"
	log "github.com/sirupsen/logrus"
)

// warmUpCategoryTree 서비스 시작 시 카테고리 트리를 미리 적재합니다.
// 업스트림 조회가 실패하면 파일 스냅샷으로 폴백합니다.
func (s *Service) warmUpCategoryTree(ctx context.Context) {
	if err := s.RefreshCategoryTree(ctx); err == nil {
		return
	}

	tree, err := s.loadTreeSnapshot()
	if err != nil {
		applog.WithComponent(component).WithError(err).Warn("카테고리 트리 워밍업이 실패하였습니다. 첫 조회 시 다시 시도합니다.")
		return
	}

	s.setTree(tree)

	applog.WithComponent(component).Info("카테고리 트리를 스냅샷에서 복원함")
}

// RefreshCategoryTree 업스트림에서 카테고리 트리를 다시 조회하여 메모리 캐시와
// 파일 스냅샷을 갱신합니다.
func (s *Service) RefreshCategoryTree(ctx context.Context) error {
	raw, err := s.client.CategoryTree(ctx, categoryTreeDepth)
	if err != nil {
		s.alerter.recordFailure("category_tree", err)
		return err
	}
	s.alerter.recordSuccess()

	tree, err := category.ParseTree(raw)
	if err != nil {
		return err
	}

	s.setTree(tree)

	// 스냅샷 저장 실패는 다음 갱신 주기에 다시 시도되므로 캐시 갱신을 막지 않습니다.
	if err := s.snapshots.Save(categoryTreeSnapshotName, tree); err != nil {
		applog.WithComponent(component).WithError(err).Warn("카테고리 트리 스냅샷 저장이 실패하였습니다.")
	}

	applog.WithComponentAndFields(component, log.Fields{
		"roots": len(tree),
	}).Debug("카테고리 트리가 갱신됨")

	return nil
}

// CategoryTree 캐시된 카테고리 트리를 반환합니다.
//
// 캐시가 비어있으면 업스트림에서 조회하며, 업스트림 장애 시에는 파일 스냅샷으로
// 폴백합니다. 둘 다 실패하면 에러를 반환합니다.
func (s *Service) CategoryTree(ctx context.Context) ([]*category.Category, error) {
	if tree := s.cachedTree(); tree != nil {
		return tree, nil
	}

	if err := s.RefreshCategoryTree(ctx); err != nil {
		tree, snapshotErr := s.loadTreeSnapshot()
		if snapshotErr != nil {
			return nil, err
		}

		s.setTree(tree)
		return tree, nil
	}

	return s.cachedTree(), nil
}

// ResolveCategory 슬러그 변형 매칭으로 카테고리 트리에서 노드를 찾아 반환합니다.
func (s *Service) ResolveCategory(ctx context.Context, slug string) (*category.Category, error) {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	node := category.FindBySlug(tree, slug)
	if node == nil {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("슬러그('%s')에 해당하는 카테고리를 찾을 수 없습니다", slug))
	}

	return node, nil
}

// FindCategoryByID 카테고리 트리에서 ID가 일치하는 노드를 찾아 반환합니다.
func (s *Service) FindCategoryByID(ctx context.Context, id int) (*category.Category, error) {
	tree, err := s.CategoryTree(ctx)
	if err != nil {
		return nil, err
	}

	node := category.FindByID(tree, id)
	if node == nil {
		return nil, apperrors.New(apperrors.NotFound, fmt.Sprintf("ID('%d')에 해당하는 카테고리를 찾을 수 없습니다", id))
	}

	return node, nil
}

// TreeLoaded 카테고리 트리가 메모리 캐시에 적재되어 있는지 여부를 반환합니다.
func (s *Service) TreeLoaded() bool {
	return s.cachedTree() != nil
}

func (s *Service) cachedTree() []*category.Category {
	s.treeMu.RLock()
	defer s.treeMu.RUnlock()

	return s.tree
}

func (s *Service) setTree(tree []*category.Category) {
	s.treeMu.Lock()
	s.tree = tree
	s.treeMu.Unlock()
}

func (s *Service) loadTreeSnapshot() ([]*category.Category, error) {
	var tree []*category.Category
	if err := s.snapshots.Load(categoryTreeSnapshotName, &tree); err != nil {
		return nil, err
	}

	return tree, nil
}
