package session

import (
	"context"
	"sync"

	"github.com/harper/simscan/internal/aggregate"
	"github.com/harper/simscan/internal/domain"
)

// View is the tuple a Controller publishes to its consumer: lifecycle state,
// the latest batch snapshot, the aggregated report derived from it, and any
// error that settled the session. Report is nil until a snapshot exists.
type View struct {
	State  State
	Batch  *domain.Batch
	Report *aggregate.Report
	Err    error
}

// Consumer receives every published view. Calls are serialized and stop the
// moment Cancel returns; the consumer must not call back into the Controller
// from inside the callback.
type Consumer func(View)

// Controller binds one Poller to the aggregation engine: whenever the held
// snapshot changes it re-derives the aggregate report and publishes the
// combined view. Re-derivation is skipped when a fetch returned the same
// snapshot value the controller already processed; this only bounds
// recomputation, since aggregation is pure and always safe to re-run.
type Controller struct {
	poller   *Poller
	consumer Consumer

	mu        sync.Mutex
	lastBatch *domain.Batch
	view      View
}

// NewController creates a session controller for one batch id.
// Parameters:
//   - batchID: the batch to track.
//   - fetcher: snapshot source, usually the backend client.
//   - consumer: receives every published view; may be nil when the caller
//     prefers to poll View itself.
//   - opts: interval/logger overrides forwarded to the Poller.
//
// Returns:
//   - *Controller: idle controller; call Start to begin tracking.
func NewController(batchID string, fetcher Fetcher, consumer Consumer, opts ...Option) *Controller {
	c := &Controller{consumer: consumer, view: View{State: StateIdle}}
	c.poller = NewPoller(batchID, fetcher, c.apply, opts...)
	return c
}

// Start begins the tracking session. Idempotent.
// Parameters:
//   - ctx: context passed to every fetch.
//
// Returns: none.
func (c *Controller) Start(ctx context.Context) {
	c.poller.Start(ctx)
}

// Cancel ends the session. No view is published after Cancel returns.
// Parameters: none.
// Returns: none.
func (c *Controller) Cancel() {
	c.poller.Cancel()
}

// View returns the most recently published view.
// Parameters: none.
// Returns:
//   - View: last published state/batch/report/error tuple.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// apply is the Poller's change callback. It runs inside the session's
// critical section, so views are derived and published in transition order.
func (c *Controller) apply(state State, batch *domain.Batch, err error) {
	c.mu.Lock()
	if batch != c.lastBatch {
		c.view.Report = aggregate.Compute(batch)
		c.lastBatch = batch
	}
	c.view.State = state
	c.view.Batch = batch
	c.view.Err = err
	view := c.view
	c.mu.Unlock()

	if c.consumer != nil {
		c.consumer(view)
	}
}
