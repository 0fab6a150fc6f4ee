package notifier

import (
	"context"
	"log"
	"sync"
	"time"
)

// CountFunc is the badge's load-equivalent fetch: it returns the current
// server-authoritative item count.
type CountFunc func(ctx context.Context) (int, error)

// Badge keeps a displayed cart count in sync with the store. It
// re-fetches on every cart-updated signal, and additionally on a fixed
// interval as the explicit fallback for signals it cannot see (another
// tab, another process). Close releases the subscription; a closed badge
// is never updated again.
type Badge struct {
	fetch    CountFunc
	onChange func(int)
	sub      *Subscription
	logger   *log.Logger

	mu    sync.Mutex
	count int

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewBadge starts a badge. onChange, when non-nil, is invoked after every
// successful refresh that changed the count; interval is the polling
// fallback cadence. The badge starts at zero; call Refresh for an
// immediate first fetch.
func NewBadge(bus *Bus, fetch CountFunc, interval time.Duration, onChange func(int), logger *log.Logger) *Badge {
	b := &Badge{
		fetch:    fetch,
		onChange: onChange,
		sub:      bus.Subscribe(),
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.run(interval)
	return b
}

// Count returns the last successfully fetched count.
func (b *Badge) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Refresh re-fetches the count immediately, outside the signal/poll loop.
func (b *Badge) Refresh(ctx context.Context) {
	count, err := b.fetch(ctx)
	if err != nil {
		// Non-fatal; the stale count stands until the next signal or poll.
		b.logger.Printf("badge refresh: %v", err)
		return
	}
	b.mu.Lock()
	changed := count != b.count
	b.count = count
	b.mu.Unlock()
	if changed && b.onChange != nil {
		b.onChange(count)
	}
}

// Close unsubscribes from the bus and stops the poll ticker, then waits
// for the badge goroutine to exit.
func (b *Badge) Close() {
	b.once.Do(func() {
		b.sub.Unsubscribe()
		close(b.stop)
	})
	<-b.done
}

func (b *Badge) run(interval time.Duration) {
	defer close(b.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case _, ok := <-b.sub.C:
			if !ok {
				return
			}
			b.Refresh(context.Background())
		case <-ticker.C:
			b.Refresh(context.Background())
		case <-b.stop:
			return
		}
	}
}
