package shop

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iranswimmers/storefront-server/internal/config"
	"github.com/iranswimmers/storefront-server/internal/pkg/errors"
	"github.com/iranswimmers/storefront-server/internal/service/shop/storage"
	"github.com/iranswimmers/storefront-server/internal/service/shop/upstream"
)

// fakeUpstream 업스트림 API 호출을 대체하는 테스트용 구현체
type fakeUpstream struct {
	mu    sync.Mutex
	calls map[string]int

	productsFn       func(params upstream.ListParams) (json.RawMessage, error)
	productFn        func(slug string) (json.RawMessage, error)
	relatedFn        func(slug string) (json.RawMessage, error)
	categoryTreeFn   func(depth int) (json.RawMessage, error)
	categoryFn       func(slug string) (json.RawMessage, error)
	searchFn         func(query string) (json.RawMessage, error)
	realtimeSearchFn func(query string) (json.RawMessage, error)
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{calls: map[string]int{}}
}

func (f *fakeUpstream) record(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeUpstream) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeUpstream) Products(_ context.Context, params upstream.ListParams) (json.RawMessage, error) {
	f.record("products")
	if f.productsFn == nil {
		return nil, fmt.Errorf("products: not stubbed")
	}
	return f.productsFn(params)
}

func (f *fakeUpstream) Product(_ context.Context, slug string) (json.RawMessage, error) {
	f.record("product")
	if f.productFn == nil {
		return nil, fmt.Errorf("product: not stubbed")
	}
	return f.productFn(slug)
}

func (f *fakeUpstream) RelatedProducts(_ context.Context, slug string) (json.RawMessage, error) {
	f.record("related")
	if f.relatedFn == nil {
		return nil, fmt.Errorf("related: not stubbed")
	}
	return f.relatedFn(slug)
}

func (f *fakeUpstream) CategoryTree(_ context.Context, depth int) (json.RawMessage, error) {
	f.record("category_tree")
	if f.categoryTreeFn == nil {
		return nil, fmt.Errorf("category tree: not stubbed")
	}
	return f.categoryTreeFn(depth)
}

func (f *fakeUpstream) Category(_ context.Context, slug string) (json.RawMessage, error) {
	f.record("category")
	if f.categoryFn == nil {
		return nil, fmt.Errorf("category: not stubbed")
	}
	return f.categoryFn(slug)
}

func (f *fakeUpstream) Search(_ context.Context, query string) (json.RawMessage, error) {
	f.record("search")
	if f.searchFn == nil {
		return nil, fmt.Errorf("search: not stubbed")
	}
	return f.searchFn(query)
}

func (f *fakeUpstream) RealtimeSearch(_ context.Context, query string) (json.RawMessage, error) {
	f.record("rt_search")
	if f.realtimeSearchFn == nil {
		return nil, fmt.Errorf("rt search: not stubbed")
	}
	return f.realtimeSearchFn(query)
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()

	return &config.AppConfig{
		Shop: config.ShopConfig{
			ColorAttributeTypeID: 2,
			SessionTTL:           time.Minute,
			SnapshotDir:          t.TempDir(),
		},
	}
}

func newTestService(t *testing.T, appConfig *config.AppConfig, client upstreamAPI) *Service {
	t.Helper()

	snapshots, err := storage.NewSnapshotStore(appConfig.Shop.SnapshotDir)
	require.NoError(t, err)

	return newService(appConfig, client, snapshots, nil)
}

const testProductPayload = `{
	"data": {
		"id": 10,
		"name": "عینک شنا اسپیدو",
		"slug": "speedo-goggles",
		"type": "variable",
		"price": 250000,
		"thumbnail": "/images/goggles.jpg",
		"variations": [
			{
				"id": 1,
				"in_stock": true,
				"price": 250000,
				"attributes": [{"type": "color", "type_id": 2, "slug": "blue", "value": "آبی"}]
			}
		]
	}
}`

const testTreePayload = `[
	{"id": 1, "name": "شنا", "slug": "swimming", "children": [
		{"id": 2, "name": "کلاه شنا", "slug": "swim caps", "children": []}
	]},
	{"id": 3, "name": "عینک", "slug": "swim-goggles", "children": []}
]`

func TestService_ProductSession(t *testing.T) {
	t.Parallel()

	t.Run("성공: 상품 세션을 생성하고 캐시에서 재사용한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.productFn = func(slug string) (json.RawMessage, error) {
			return json.RawMessage(testProductPayload), nil
		}

		s := newTestService(t, testConfig(t), fake)

		first, err := s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)
		require.NotNil(t, first)
		assert.Equal(t, "speedo-goggles", first.Product().Slug)

		second, err := s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)
		assert.Same(t, first, second)
		assert.Equal(t, 1, fake.callCount("product"))
	})

	t.Run("성공: 만료된 세션은 업스트림에서 다시 조회한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.productFn = func(slug string) (json.RawMessage, error) {
			return json.RawMessage(testProductPayload), nil
		}

		appConfig := testConfig(t)
		appConfig.Shop.SessionTTL = time.Nanosecond

		s := newTestService(t, appConfig, fake)

		first, err := s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)

		time.Sleep(time.Millisecond)

		second, err := s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Equal(t, 2, fake.callCount("product"))
	})

	t.Run("성공: 세션 무효화 후에는 다시 조회한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.productFn = func(slug string) (json.RawMessage, error) {
			return json.RawMessage(testProductPayload), nil
		}

		s := newTestService(t, testConfig(t), fake)

		_, err := s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)

		s.InvalidateSession("speedo-goggles")

		_, err = s.ProductSession(context.Background(), "speedo-goggles")
		require.NoError(t, err)
		assert.Equal(t, 2, fake.callCount("product"))
	})

	t.Run("실패: 빈 슬러그는 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t, testConfig(t), newFakeUpstream())

		_, err := s.ProductSession(context.Background(), "  ")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.InvalidInput))
	})

	t.Run("실패: 업스트림 에러는 그대로 전파된다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.productFn = func(slug string) (json.RawMessage, error) {
			return nil, errors.New(errors.NotFound, "상품을 찾을 수 없습니다")
		}

		s := newTestService(t, testConfig(t), fake)

		_, err := s.ProductSession(context.Background(), "missing")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.NotFound))
	})
}

func TestService_Products(t *testing.T) {
	t.Parallel()

	t.Run("성공: 상품 목록과 페이지네이션 메타를 반환한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.productsFn = func(params upstream.ListParams) (json.RawMessage, error) {
			assert.Equal(t, 2, params.Page)
			return json.RawMessage(`{
				"data": {
					"products": [{"id": 1, "name": "کلاه شنا", "slug": "swim-cap", "type": "simple", "price": 90000}],
					"meta": {"current_page": 2, "last_page": 5, "total": 42}
				}
			}`), nil
		}

		s := newTestService(t, testConfig(t), fake)

		products, pagination, err := s.Products(context.Background(), upstream.ListParams{Page: 2})

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "swim-cap", products[0].Slug)
		require.NotNil(t, pagination)
		assert.Equal(t, 2, pagination.CurrentPage)
		assert.Equal(t, 5, pagination.LastPage)
		assert.Equal(t, 42, pagination.Total)
	})
}

func TestService_RelatedProducts(t *testing.T) {
	t.Parallel()

	t.Run("성공: 연관 상품 목록을 반환한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.relatedFn = func(slug string) (json.RawMessage, error) {
			assert.Equal(t, "speedo-goggles", slug)
			return json.RawMessage(`{"data": [{"id": 2, "name": "فین شنا", "slug": "swim-fins", "type": "simple", "price": 150000}]}`), nil
		}

		s := newTestService(t, testConfig(t), fake)

		products, err := s.RelatedProducts(context.Background(), "speedo-goggles")

		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "swim-fins", products[0].Slug)
	})

	t.Run("실패: 빈 슬러그는 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t, testConfig(t), newFakeUpstream())

		_, err := s.RelatedProducts(context.Background(), "")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.InvalidInput))
	})
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	t.Run("성공: 검색 결과를 그대로 반환한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.searchFn = func(query string) (json.RawMessage, error) {
			assert.Equal(t, "مایو", query)
			return json.RawMessage(`{"data": []}`), nil
		}

		s := newTestService(t, testConfig(t), fake)

		raw, err := s.Search(context.Background(), "مایو", false)

		require.NoError(t, err)
		assert.JSONEq(t, `{"data": []}`, string(raw))
		assert.Equal(t, 0, fake.callCount("rt_search"))
	})

	t.Run("성공: 실시간 검색은 전용 엔드포인트를 사용한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.realtimeSearchFn = func(query string) (json.RawMessage, error) {
			return json.RawMessage(`[]`), nil
		}

		s := newTestService(t, testConfig(t), fake)

		_, err := s.Search(context.Background(), "مایو", true)

		require.NoError(t, err)
		assert.Equal(t, 1, fake.callCount("rt_search"))
		assert.Equal(t, 0, fake.callCount("search"))
	})

	t.Run("실패: 빈 검색어는 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := newTestService(t, testConfig(t), newFakeUpstream())

		_, err := s.Search(context.Background(), "   ", false)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.InvalidInput))
	})
}

func TestService_CategoryTree(t *testing.T) {
	t.Parallel()

	t.Run("성공: 카테고리 트리를 조회하고 캐시에서 재사용한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			assert.Equal(t, categoryTreeDepth, depth)
			return json.RawMessage(testTreePayload), nil
		}

		s := newTestService(t, testConfig(t), fake)

		tree, err := s.CategoryTree(context.Background())
		require.NoError(t, err)
		require.Len(t, tree, 2)
		assert.Equal(t, "swimming", tree[0].Slug)

		_, err = s.CategoryTree(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, fake.callCount("category_tree"))
	})

	t.Run("성공: 업스트림 장애 시 스냅샷으로 폴백한다", func(t *testing.T) {
		t.Parallel()

		appConfig := testConfig(t)

		// 먼저 정상 조회로 스냅샷을 만들어 둔다.
		healthy := newFakeUpstream()
		healthy.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return json.RawMessage(testTreePayload), nil
		}
		require.NoError(t, newTestService(t, appConfig, healthy).RefreshCategoryTree(context.Background()))

		// 같은 스냅샷 디렉토리를 사용하는 새 서비스는 업스트림 장애 시 스냅샷으로 복원한다.
		broken := newFakeUpstream()
		broken.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return nil, errors.New(errors.Unavailable, "업스트림 장애")
		}

		s := newTestService(t, appConfig, broken)

		tree, err := s.CategoryTree(context.Background())

		require.NoError(t, err)
		require.Len(t, tree, 2)
		assert.Equal(t, "کلاه شنا", tree[0].Children[0].Name)
	})

	t.Run("실패: 업스트림 장애에 스냅샷도 없으면 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return nil, errors.New(errors.Unavailable, "업스트림 장애")
		}

		s := newTestService(t, testConfig(t), fake)

		_, err := s.CategoryTree(context.Background())

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.Unavailable))
	})
}

func TestService_ResolveCategory(t *testing.T) {
	t.Parallel()

	newTreeService := func(t *testing.T) *Service {
		fake := newFakeUpstream()
		fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return json.RawMessage(testTreePayload), nil
		}
		return newTestService(t, testConfig(t), fake)
	}

	t.Run("성공: 대시 슬러그 변형으로 공백 슬러그 카테고리를 찾는다", func(t *testing.T) {
		t.Parallel()

		s := newTreeService(t)

		node, err := s.ResolveCategory(context.Background(), "swim-caps")

		require.NoError(t, err)
		require.NotNil(t, node)
		assert.Equal(t, 2, node.ID)
	})

	t.Run("실패: 존재하지 않는 슬러그는 NotFound 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := newTreeService(t)

		_, err := s.ResolveCategory(context.Background(), "snorkels")

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.NotFound))
	})
}

func TestService_FindCategoryByID(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstream()
	fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
		return json.RawMessage(testTreePayload), nil
	}

	s := newTestService(t, testConfig(t), fake)

	node, err := s.FindCategoryByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "swim caps", node.Slug)

	_, err = s.FindCategoryByID(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestService_Start(t *testing.T) {
	t.Parallel()

	t.Run("성공: 서비스를 시작하고 종료 신호에 정리된다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return json.RawMessage(testTreePayload), nil
		}

		s := newTestService(t, testConfig(t), fake)

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}
		wg.Add(1)

		require.NoError(t, s.Start(ctx, wg))

		cancel()
		wg.Wait()
	})

	t.Run("성공: 중복 시작 요청은 무시된다", func(t *testing.T) {
		t.Parallel()

		fake := newFakeUpstream()
		fake.categoryTreeFn = func(depth int) (json.RawMessage, error) {
			return json.RawMessage(testTreePayload), nil
		}

		s := newTestService(t, testConfig(t), fake)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wg := &sync.WaitGroup{}
		wg.Add(2)

		require.NoError(t, s.Start(ctx, wg))
		require.NoError(t, s.Start(ctx, wg))

		cancel()
		wg.Wait()
	})
}
