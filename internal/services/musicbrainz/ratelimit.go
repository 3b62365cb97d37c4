package musicbrainz

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a minimum interval between outbound calls. MusicBrainz
// allows one request per second for anonymous clients; the throttle records
// the last call time and blocks until the interval has elapsed.
type throttle struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func (t *throttle) wait(ctx context.Context) error {
	if t.interval <= 0 {
		return nil
	}
	t.mu.Lock()
	elapsed := t.now().Sub(t.last)
	remaining := t.interval - elapsed
	t.mu.Unlock()

	if remaining > 0 {
		if err := t.sleep(ctx, remaining); err != nil {
			return err
		}
	}

	t.mu.Lock()
	t.last = t.now()
	t.mu.Unlock()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
