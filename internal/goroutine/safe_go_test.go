package goroutine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *captureLogger) Errorf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, fmt.Sprintf(format, args...))
}

func TestForEachLimited_RunsAllAndRecovers(t *testing.T) {
	log := &captureLogger{}
	rh := NewRecoveryHandler(log)

	var done, inFlight, maxInFlight int32
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	ForEachLimited(context.Background(), rh, 3, items, func(_ context.Context, i int) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxInFlight)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxInFlight, prev, cur) {
				break
			}
		}
		defer atomic.AddInt32(&inFlight, -1)
		if i == 4 {
			panic("bad tenant")
		}
		atomic.AddInt32(&done, 1)
	})

	assert.Equal(t, int32(7), done)
	assert.LessOrEqual(t, maxInFlight, int32(3))
	assert.Len(t, log.msgs, 1)
}

func TestForEachLimited_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	ForEachLimited(ctx, NewRecoveryHandler(&captureLogger{}), 2, []int{1, 2, 3}, func(context.Context, int) {
		atomic.AddInt32(&calls, 1)
	})
	assert.Zero(t, calls)
}
