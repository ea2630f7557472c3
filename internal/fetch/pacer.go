package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/JakeFAU/bbref-scraper/internal/metrics"
)

// pacer spaces request starts per host. Each host gets a limiter with a
// burst of one, so consecutive Waits for a host return at least interval
// apart while different hosts never block each other.
type pacer struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
}

func newPacer(interval time.Duration) *pacer {
	every := rate.Inf
	if interval > 0 {
		every = rate.Every(interval)
	}
	return &pacer{
		limiters: make(map[string]*rate.Limiter),
		every:    every,
	}
}

func (p *pacer) limiter(host string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.limiters[host]
	if !ok {
		l = rate.NewLimiter(p.every, 1)
		p.limiters[host] = l
	}
	return l
}

// Wait blocks until host may start another request.
func (p *pacer) Wait(ctx context.Context, host string) error {
	start := time.Now()
	if err := p.limiter(host).Wait(ctx); err != nil {
		return fmt.Errorf("pacing wait for %s: %w", host, err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObservePacingDelay(host, waited)
	}
	return nil
}
