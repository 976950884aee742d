// Package session tracks the lifecycle of one batch on the backend: an
// initial fetch, periodic re-fetching while the batch is still being
// processed, and a terminal settled state. A Controller layers result
// aggregation on top and publishes the combined view to a consumer.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harper/simscan/internal/domain"
	"github.com/harper/simscan/internal/logger"
)

// DefaultInterval is the reference polling interval.
const DefaultInterval = 3 * time.Second

// Fetcher fetches the current snapshot of a batch. *client.Client satisfies
// this; tests substitute fakes.
type Fetcher interface {
	GetBatch(ctx context.Context, id string) (*domain.Batch, error)
}

// State is the lifecycle state of a tracked batch session.
type State string

const (
	// StateIdle: session created, not started.
	StateIdle State = "idle"
	// StateFetching: the one-shot initial fetch is in flight.
	StateFetching State = "fetching"
	// StatePolling: a recurring fetch is scheduled.
	StatePolling State = "polling"
	// StateSettled: terminal; no further fetches happen automatically.
	StateSettled State = "settled"
)

// ChangeFunc receives every applied state transition. It is invoked inside
// the session's critical section, so it observes transitions in order and
// never fires after Cancel has returned; it must not call back into the
// Poller.
type ChangeFunc func(state State, batch *domain.Batch, err error)

// Poller is the polling state machine for a single batch id. It owns its
// timer exclusively: at most one timer is armed at any time, the next tick is
// scheduled only after the previous fetch resolves (so fetches never overlap
// or pile up behind a slow backend), and cancellation stops everything
// immediately.
type Poller struct {
	id       string
	batchID  string
	fetcher  Fetcher
	interval time.Duration
	onChange ChangeFunc
	log      *logger.Logger

	mu        sync.Mutex
	state     State
	batch     *domain.Batch
	err       error
	timer     *time.Timer
	cancelled bool
}

// Option configures a Poller.
type Option func(*Poller)

// WithInterval overrides the polling interval.
// Parameters:
//   - d: delay between the end of one fetch and the start of the next.
//
// Returns:
//   - Option: functional option.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger attaches a logger to the session.
// Parameters:
//   - log: logger instance.
//
// Returns:
//   - Option: functional option.
func WithLogger(log *logger.Logger) Option {
	return func(p *Poller) {
		p.log = log
	}
}

// NewPoller creates an idle polling session for one batch id.
// Parameters:
//   - batchID: the batch to track.
//   - fetcher: snapshot source, usually the backend client.
//   - onChange: transition callback; may be nil.
//   - opts: optional interval/logger overrides.
//
// Returns:
//   - *Poller: idle session; call Start to begin tracking.
func NewPoller(batchID string, fetcher Fetcher, onChange ChangeFunc, opts ...Option) *Poller {
	p := &Poller{
		id:       uuid.NewString(),
		batchID:  batchID,
		fetcher:  fetcher,
		interval: DefaultInterval,
		onChange: onChange,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.GetDefault()
	}
	p.log = p.log.WithFields(logger.Fields{logger.FieldSessionID: p.id, logger.FieldBatchID: batchID})
	return p
}

// Start issues the initial fetch and, when the batch is still non-terminal,
// begins polling. Starting an already-started session is a no-op; a second
// timer is never armed.
// Parameters:
//   - ctx: context passed to every fetch this session performs.
//
// Returns: none. Outcomes are observed through the onChange callback and
// Snapshot.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.state != StateIdle || p.cancelled {
		p.mu.Unlock()
		return
	}
	p.state = StateFetching
	p.notifyLocked()
	p.mu.Unlock()

	p.log.Debug("session started")
	go p.initialFetch(ctx)
}

// Cancel ends the session immediately: the timer is stopped, no further
// transitions occur, and a fetch response still in flight is discarded on
// arrival. Cancel is synchronous; once it returns nothing more is published.
// Cancelling twice is harmless.
// Parameters: none.
// Returns: none.
func (p *Poller) Cancel() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	p.cancelled = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.log.Debug("session cancelled")
}

// Snapshot returns the session's current state, latest batch, and recorded
// error.
// Parameters: none.
// Returns:
//   - State: lifecycle state.
//   - *domain.Batch: latest applied snapshot, may be nil.
//   - error: recorded fetch error, nil unless settled by a failure.
func (p *Poller) Snapshot() (State, *domain.Batch, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.batch, p.err
}

// initialFetch performs the one-shot first fetch. A failure settles the
// session right away; the initial fetch is never retried.
func (p *Poller) initialFetch(ctx context.Context) {
	batch, err := p.fetcher.GetBatch(ctx, p.batchID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		return
	}
	switch {
	case err != nil:
		p.state = StateSettled
		p.err = err
		p.log.WithError(err).Warn("initial fetch failed")
	case batch.Status.Terminal():
		p.state = StateSettled
		p.batch = batch
		p.log.WithFields(logger.Fields{"status": string(batch.Status)}).Debug("batch already terminal")
	default:
		p.state = StatePolling
		p.batch = batch
		p.armTimer(ctx)
	}
	p.notifyLocked()
}

// tick runs one polling fetch. Any failure settles the session rather than
// retrying, so a gone backend never causes a retry storm; the consumer may
// start a fresh session explicitly.
func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	if p.cancelled || p.state != StatePolling {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	batch, err := p.fetcher.GetBatch(ctx, p.batchID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		// Late response for a cancelled session: discard.
		return
	}
	switch {
	case err != nil:
		p.state = StateSettled
		p.err = err
		p.log.WithError(err).Warn("polling fetch failed")
	case batch.Status.Terminal():
		p.state = StateSettled
		p.batch = batch
		p.log.WithFields(logger.Fields{"status": string(batch.Status)}).Info("batch settled")
	default:
		// Latest snapshot wins regardless of status; keep polling.
		p.batch = batch
		p.armTimer(ctx)
	}
	p.notifyLocked()
}

// armTimer schedules the next tick. Caller holds p.mu. Arming while a timer
// is already pending is a no-op.
func (p *Poller) armTimer(ctx context.Context) {
	if p.timer != nil {
		return
	}
	p.timer = time.AfterFunc(p.interval, func() { p.tick(ctx) })
}

// notifyLocked invokes the change callback. Caller holds p.mu.
func (p *Poller) notifyLocked() {
	if p.onChange != nil {
		p.onChange(p.state, p.batch, p.err)
	}
}
