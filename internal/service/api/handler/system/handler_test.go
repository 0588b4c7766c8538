package system

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iranswimmers/storefront-server/internal/pkg/version"
)

// fakeShopStatus ShopStatus 인터페이스의 테스트 대역입니다.
type fakeShopStatus struct {
	treeLoaded bool
}

func (f *fakeShopStatus) TreeLoaded() bool {
	return f.treeLoaded
}

// newSystemTestContext 테스트용 Echo Context를 생성합니다.
func newSystemTestContext(t *testing.T) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	return rec, e.NewContext(req, rec)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공: 카테고리 트리가 적재되어 있으면 healthy를 반환한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&fakeShopStatus{treeLoaded: true}, version.Info{})

		rec, c := newSystemTestContext(t)

		require.NoError(t, h.HealthCheckHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Dependencies["category_tree"].Status)
		assert.GreaterOrEqual(t, resp.Uptime, int64(0))
	})

	t.Run("성공: 카테고리 트리 미적재 상태에서도 200과 함께 degraded를 반환한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&fakeShopStatus{treeLoaded: false}, version.Info{})

		rec, c := newSystemTestContext(t)

		require.NoError(t, h.HealthCheckHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "degraded", resp.Dependencies["category_tree"].Status)
		assert.Contains(t, resp.Dependencies["category_tree"].Message, "카테고리 트리")
	})

	t.Run("성공: ShopStatus가 nil이어도 패닉 없이 degraded로 응답한다", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(nil, version.Info{})

		rec, c := newSystemTestContext(t)

		require.NoError(t, h.HealthCheckHandler(c))

		var resp HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
	})
}

func TestVersionHandler(t *testing.T) {
	t.Parallel()

	t.Run("성공: 빌드 정보를 그대로 반환한다", func(t *testing.T) {
		t.Parallel()

		buildInfo := version.Info{
			Version:     "a1b2c3d",
			BuildDate:   "2026-08-01T10:00:00Z",
			BuildNumber: "128",
			GoVersion:   "go1.24.0",
		}
		h := NewHandler(&fakeShopStatus{}, buildInfo)

		rec, c := newSystemTestContext(t)

		require.NoError(t, h.VersionHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp VersionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "a1b2c3d", resp.Version)
		assert.Equal(t, "2026-08-01T10:00:00Z", resp.BuildDate)
		assert.Equal(t, "128", resp.BuildNumber)
		assert.Equal(t, "go1.24.0", resp.GoVersion)
	})
}
