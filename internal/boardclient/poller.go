package boardclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tubeworks/internal/storage"
)

// DefaultInterval is the board refresh period used when the config leaves
// the interval unset.
const DefaultInterval = 5 * time.Second

// PollerConfig tunes one Poller. OnRefresh, when set, receives every new
// snapshot on the poller's own goroutine.
type PollerConfig struct {
	Interval  time.Duration
	OnRefresh func(*storage.BoardSnapshot)
}

// Poller keeps a board snapshot fresh by polling the server on a fixed
// interval. Each successful fetch replaces the snapshot wholesale; a failed
// fetch keeps the previous one and is retried on the next tick.
type Poller struct {
	client *Client
	cfg    PollerConfig
	log    *slog.Logger

	mu      sync.RWMutex
	current *storage.BoardSnapshot

	stop     chan struct{}
	stopOnce sync.Once
}

func NewPoller(log *slog.Logger, client *Client, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}

	return &Poller{
		client: client,
		cfg:    cfg,
		log:    log,
		stop:   make(chan struct{}),
	}
}

// Run refreshes once immediately, then on every tick until the context is
// cancelled or Stop is called. It always returns nil; fetch errors are
// logged and retried, never fatal.
func (p *Poller) Run(ctx context.Context) error {
	p.refresh(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.stop:
			return nil
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Stop ends the poll loop. Safe to call more than once and from any
// goroutine; a fetch already in flight is discarded, not applied.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
}

// Snapshot returns the most recent successful snapshot, or nil before the
// first one lands.
func (p *Poller) Snapshot() *storage.BoardSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

func (p *Poller) refresh(ctx context.Context) {
	snap, err := p.client.Board(ctx)
	if err != nil {
		p.log.Warn("board refresh failed", slog.String("error", err.Error()))
		return
	}

	// The fetch may have been racing a Stop; a stopped poller must not
	// publish stale state.
	select {
	case <-p.stop:
		return
	default:
	}

	p.mu.Lock()
	p.current = snap
	p.mu.Unlock()

	if p.cfg.OnRefresh != nil {
		p.cfg.OnRefresh(snap)
	}
}
