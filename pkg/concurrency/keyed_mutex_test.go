package concurrency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_LockUnlock(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()

	km.Lock("swim-goggles")
	assert.Equal(t, 1, km.Len())

	km.Unlock("swim-goggles")
	assert.Equal(t, 0, km.Len(), "참조 카운트가 0이 되면 키가 정리되어야 한다")
}

func TestKeyedMutex_서로_다른_키는_병렬_처리(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()

	km.Lock("key-a")

	done := make(chan struct{})
	go func() {
		// 다른 키는 key-a의 락과 무관하게 즉시 획득 가능해야 한다.
		km.Lock("key-b")
		km.Unlock("key-b")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("서로 다른 키의 락 획득이 블로킹되었습니다")
	}

	km.Unlock("key-a")
}

func TestKeyedMutex_동일_키는_상호_배제(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[int]()

	const goroutines = 50
	counter := 0

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()

			km.Lock(42)
			defer km.Unlock(42)

			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
	assert.Equal(t, 0, km.Len())
}

func TestKeyedMutex_TryLock(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()

	require.True(t, km.TryLock("key"), "첫 번째 TryLock은 성공해야 한다")
	assert.False(t, km.TryLock("key"), "이미 잠긴 키에 대한 TryLock은 실패해야 한다")

	km.Unlock("key")

	assert.True(t, km.TryLock("key"), "해제 후 TryLock은 다시 성공해야 한다")
	km.Unlock("key")
}

func TestKeyedMutex_Unlock_잠기지_않은_키는_패닉(t *testing.T) {
	t.Parallel()

	km := NewKeyedMutex[string]()

	assert.Panics(t, func() {
		km.Unlock("never-locked")
	})
}
