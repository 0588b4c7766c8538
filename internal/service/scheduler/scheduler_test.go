package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iranswimmers/storefront-server/internal/config"
	"github.com/iranswimmers/storefront-server/internal/pkg/errors"
)

// TestMain runs tests and checks for goroutine leaks.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRefresher 갱신 호출 횟수를 기록하는 테스트용 TreeRefresher
type fakeRefresher struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeRefresher) RefreshCategoryTree(_ context.Context) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return nil
}

func (f *fakeRefresher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_Start(t *testing.T) {
	t.Parallel()

	t.Run("성공: 스케줄에 따라 카테고리 트리 갱신이 호출된다", func(t *testing.T) {
		t.Parallel()

		refresher := &fakeRefresher{}
		s := NewService(config.SchedulerConfig{
			Runnable: true,
			TimeSpec: "* * * * * *", // 매초 실행
		}, refresher)

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}
		wg.Add(1)

		require.NoError(t, s.Start(ctx, wg))

		require.Eventually(t, func() bool {
			return refresher.callCount() >= 1
		}, 3*time.Second, 50*time.Millisecond)

		cancel()
		wg.Wait()
	})

	t.Run("성공: 비활성화된 스케줄은 Cron 엔진을 시작하지 않는다", func(t *testing.T) {
		t.Parallel()

		refresher := &fakeRefresher{}
		s := NewService(config.SchedulerConfig{Runnable: false}, refresher)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wg := &sync.WaitGroup{}
		wg.Add(1)

		require.NoError(t, s.Start(ctx, wg))
		wg.Wait()

		assert.Equal(t, 0, refresher.callCount())
	})

	t.Run("성공: 중복 시작 요청은 무시된다", func(t *testing.T) {
		t.Parallel()

		refresher := &fakeRefresher{}
		s := NewService(config.SchedulerConfig{
			Runnable: true,
			TimeSpec: "0 0 * * * *",
		}, refresher)

		ctx, cancel := context.WithCancel(context.Background())
		wg := &sync.WaitGroup{}
		wg.Add(2)

		require.NoError(t, s.Start(ctx, wg))
		require.NoError(t, s.Start(ctx, wg))

		cancel()
		wg.Wait()
	})

	t.Run("실패: 잘못된 Cron 표현식은 InvalidInput 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := NewService(config.SchedulerConfig{
			Runnable: true,
			TimeSpec: "invalid spec",
		}, &fakeRefresher{})

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := s.Start(ctx, wg)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.InvalidInput))
		wg.Wait()
	})

	t.Run("실패: TreeRefresher가 없으면 Internal 에러를 반환한다", func(t *testing.T) {
		t.Parallel()

		s := NewService(config.SchedulerConfig{Runnable: true, TimeSpec: "0 0 * * * *"}, nil)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		wg := &sync.WaitGroup{}
		wg.Add(1)

		err := s.Start(ctx, wg)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.Internal))
		wg.Wait()
	})
}
