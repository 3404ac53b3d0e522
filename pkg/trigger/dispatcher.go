package trigger

import (
	"sync"

	"github.com/canonical/jimm-operator/pkg/log"
	"github.com/canonical/jimm-operator/pkg/metrics"
)

// Handler processes one trigger. Returning an error aborts the current
// pass; the trigger is then requeued for redelivery, since nothing was
// fully converged.
type Handler func(*Trigger) error

// Dispatcher maps trigger kinds to handlers and delivers triggers one
// at a time. Delivery is strictly sequential: either synchronously
// through Dispatch, or through the Deliver channel drained by a single
// run loop. Triggers deferred during a delivery are replayed, in order,
// ahead of the next delivered trigger.
type Dispatcher struct {
	handlers  map[Kind]Handler
	triggerCh chan *Trigger
	stopCh    chan struct{}
	stopOnce  sync.Once
	done      chan struct{}

	// deferred is only touched from the delivery path, which is
	// single-threaded by construction.
	deferred []*Trigger
}

// NewDispatcher creates a dispatcher with an empty dispatch table.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers:  make(map[Kind]Handler),
		triggerCh: make(chan *Trigger, 16),
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Register installs the handler for a trigger kind, wrapped in the
// entry/exit logging middleware.
func (d *Dispatcher) Register(kind Kind, handler Handler) {
	d.handlers[kind] = withLogging(kind, handler)
}

// withLogging logs entry and exit of every handler run by trigger kind
// and instance id.
func withLogging(kind Kind, handler Handler) Handler {
	return func(t *Trigger) error {
		logger := log.WithTrigger(string(kind), t.ID)
		logger.Debug().Msg("running handler")
		defer logger.Debug().Msg("completed handler")
		return handler(t)
	}
}

// Dispatch delivers a trigger synchronously: deferred triggers from
// earlier deliveries are replayed first, then the new trigger is
// handled.
func (d *Dispatcher) Dispatch(t *Trigger) {
	pending := d.deferred
	d.deferred = nil
	for _, p := range pending {
		d.handle(p)
	}
	d.handle(t)
}

func (d *Dispatcher) handle(t *Trigger) {
	metrics.TriggersTotal.WithLabelValues(string(t.Kind)).Inc()

	handler, ok := d.handlers[t.Kind]
	if !ok {
		log.Logger.Warn().Str("trigger", string(t.Kind)).Msg("no handler registered for trigger")
		return
	}

	t.deferred = false
	if err := handler(t); err != nil {
		// An unhandled failure aborts the pass. Requeue so the next
		// delivery re-attempts from the top; committed side effects
		// are skipped on retry by their own idempotence checks.
		log.Logger.Error().Err(err).Str("trigger", string(t.Kind)).Msg("handler failed")
		metrics.HandlerErrorsTotal.WithLabelValues(string(t.Kind)).Inc()
		t.deferred = true
	}
	if t.deferred {
		metrics.DeferralsTotal.WithLabelValues(string(t.Kind)).Inc()
		d.deferred = append(d.deferred, t)
	}
}

// PendingRedelivery returns the number of triggers queued for
// redelivery.
func (d *Dispatcher) PendingRedelivery() int {
	return len(d.deferred)
}

// Start begins the dispatcher's delivery loop.
func (d *Dispatcher) Start() {
	go d.run()
}

// Stop halts the delivery loop and waits for any in-flight delivery to
// complete. After Stop returns the caller owns dispatch: a final
// trigger can be handled synchronously through Dispatch without racing
// the loop. Stop must only be called after Start, and may be called
// more than once.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	<-d.done
}

// Deliver queues a trigger for the delivery loop.
func (d *Dispatcher) Deliver(t *Trigger) {
	select {
	case d.triggerCh <- t:
	case <-d.stopCh:
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for {
		select {
		case t := <-d.triggerCh:
			d.Dispatch(t)
		case <-d.stopCh:
			return
		}
	}
}
