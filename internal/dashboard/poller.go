package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often the dashboard re-reads the service.
const DefaultPollInterval = 30 * time.Second

// ErrPollerRunning is returned by Start when the poller is already running.
var ErrPollerRunning = errors.New("poller already running")

// PollState is the lifecycle state of a Poller.
type PollState int

const (
	Idle PollState = iota
	Running
	Stopped
)

func (s PollState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Cycle runs one fetch cycle and commits its result only through guard.
// With wait set it queues behind a cycle already in flight; otherwise it
// returns false without running.
type Cycle func(ctx context.Context, guard Guard, wait bool) (ran bool, err error)

// Ticker delivers poll ticks. It matches *time.Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Poller runs a Cycle once on Start and then on every tick until Stop.
type Poller struct {
	interval  time.Duration
	cycle     Cycle
	logger    *slog.Logger
	newTicker func(time.Duration) Ticker

	mu     sync.Mutex
	state  PollState
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller returns an idle Poller. A non-positive interval means
// DefaultPollInterval.
func NewPoller(interval time.Duration, cycle Cycle, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		interval: interval,
		cycle:    cycle,
		logger:   logger,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{time.NewTicker(d)}
		},
	}
}

// PollDashboard returns a Poller that refreshes d.
func PollDashboard(d *Dashboard, interval time.Duration) *Poller {
	cycle := func(ctx context.Context, guard Guard, wait bool) (bool, error) {
		if wait {
			return true, d.refresh(ctx, guard)
		}
		return d.TryRefresh(ctx, guard)
	}
	return NewPoller(interval, cycle, d.logger)
}

// SetTicker replaces the tick source. It must be called before Start.
func (p *Poller) SetTicker(fn func(time.Duration) Ticker) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.newTicker = fn
}

// State returns the current lifecycle state.
func (p *Poller) State() PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Interval returns the tick interval.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start runs one cycle immediately and then one per interval. Cycles use
// ctx for their requests; Stop does not cancel requests already in flight.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Running {
		return ErrPollerRunning
	}

	p.gen++
	gen := p.gen
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = Running
	p.done = make(chan struct{})
	ticker := p.newTicker(p.interval)

	go p.loop(ctx, loopCtx, gen, ticker, p.done)
	p.logger.Debug("poller started", "interval", p.interval)
	return nil
}

// Stop cancels future ticks. A cycle in flight finishes its requests but
// its result is discarded. Stop does not wait for it; use Done for that.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Running {
		return
	}
	p.gen++
	p.state = Stopped
	p.cancel()
	p.logger.Debug("poller stopped")
}

// Done is closed when the most recently started loop has exited.
func (p *Poller) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return p.done
}

// guard commits only while gen is still the live generation. It holds the
// lock across commit so that no result lands after Stop returns.
func (p *Poller) guard(gen uint64) Guard {
	return func(commit func()) bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.gen != gen || p.state != Running {
			return false
		}
		commit()
		return true
	}
}

// exited marks the poller stopped when gen's loop ends without Stop, e.g.
// because the parent context was cancelled.
func (p *Poller) exited(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen == gen && p.state == Running {
		p.state = Stopped
		p.cancel()
		p.logger.Debug("poller stopped", "reason", "context done")
	}
}

func (p *Poller) loop(reqCtx, loopCtx context.Context, gen uint64, ticker Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	defer p.exited(gen)

	guard := p.guard(gen)
	run := func(wait bool) {
		if _, err := p.cycle(context.WithoutCancel(reqCtx), guard, wait); err != nil {
			p.logger.Debug("poll cycle failed", "err", err)
		}
	}

	// The activation cycle queues behind one left over from an earlier
	// generation; ticks that find a cycle in flight are skipped.
	run(true)
	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C():
			// A tick and a stop can be ready together; stop wins.
			if loopCtx.Err() != nil {
				return
			}
			run(false)
		}
	}
}
