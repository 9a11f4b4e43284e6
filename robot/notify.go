package robot

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/units"
	"go.viam.com/sybot/utils"
)

// EventKind tells what an Event reports.
type EventKind string

// Kinds of events.
const (
	EventPhis  EventKind = "phis"
	EventTool  EventKind = "tool"
	EventHomed EventKind = "homed"
)

// An Event is a fire and forget notification about the state of the arm.
type Event struct {
	ID     uuid.UUID
	Kind   EventKind
	Time   time.Time
	Phis   []float64
	ToolID int
}

// A Notifier receives events, for instance to push them to remote clients. Failures are
// logged and never block the arm.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

const (
	defaultQueueSize = 64
	notifyTimeout    = 5 * time.Second
	// drainTimeout bounds how long Close keeps delivering queued events.
	drainTimeout = 500 * time.Millisecond
)

// dispatcher hands events to a Notifier from a background worker.
type dispatcher struct {
	notifier Notifier
	queue    chan Event
	workers  utils.StoppableWorkers
	logger   logging.Logger
}

func newDispatcher(notifier Notifier, size int, logger logging.Logger) *dispatcher {
	d := &dispatcher{
		notifier: notifier,
		queue:    make(chan Event, size),
		logger:   logger,
	}
	d.workers = utils.NewStoppableWorkers(drainTimeout)
	d.workers.AddWorkers(d.run)
	return d
}

func newEvent(kind EventKind) Event {
	return Event{ID: uuid.New(), Kind: kind, Time: time.Now()}
}

func phisEvent(phis []units.Phi) Event {
	ev := newEvent(EventPhis)
	ev.Phis = units.ToFloats(phis)
	return ev
}

// publish enqueues ev, dropping it if the queue is full.
func (d *dispatcher) publish(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.logger.Warnw("notification queue full, dropping event", "kind", ev.Kind, "id", ev.ID.String())
	}
}

func (d *dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.workers.Draining():
			d.drain(ctx)
			return
		case ev := <-d.queue:
			d.deliver(ctx, ev)
		}
	}
}

// drain delivers what is still queued. Once ctx ends the rest is dropped.
func (d *dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			if ctx.Err() != nil {
				d.logger.Warnw("dropping notification on close", "kind", ev.Kind, "id", ev.ID.String())
				continue
			}
			d.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (d *dispatcher) deliver(ctx context.Context, ev Event) {
	notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := d.notifier.Notify(notifyCtx, ev); err != nil {
		d.logger.Warnw("failed to deliver notification", "kind", ev.Kind, "id", ev.ID.String(), "error", err)
	}
}

// close delivers the queued events for up to drainTimeout and stops the worker.
func (d *dispatcher) close() {
	d.workers.Stop()
}
