package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
)

// EventPublisher hands a domain event to the external message bus.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.DomainEvent) error
}

// EventReactor is a local, in-process projection fed by committed events
// (lookup-index writer, cache invalidator). Reactors run synchronously in
// registration order.
type EventReactor interface {
	On(ctx context.Context, event domain.DomainEvent) error
}

// DispatchInterceptor observes event delivery the same way command
// interceptors observe dispatch.
type DispatchInterceptor interface {
	PreDispatch(ctx context.Context, event domain.DomainEvent)
	PostDispatch(ctx context.Context, event domain.DomainEvent)
	OnError(ctx context.Context, event domain.DomainEvent, err error)
}

// RetrySink receives events whose external publish failed so an out-of-band
// relay can retry them. Enqueueing is best-effort; the original publish error
// still propagates.
type RetrySink interface {
	Defer(ctx context.Context, event domain.DomainEvent) error
}

// EventDispatcher fans committed events out to the external bus and the local
// reactor set. There is no transaction spanning the event-store append and
// the publish: a crash between the two leaves an event persisted but not
// published (or vice versa), which the relay closes eventually.
type EventDispatcher struct {
	publisher    EventPublisher
	retry        RetrySink
	reactors     []EventReactor
	interceptors []DispatchInterceptor
	busWorthy    map[domain.EventKind]bool
	logger       *zap.Logger
}

// NewEventDispatcher wires the dispatcher. retry may be nil when no relay is
// configured.
func NewEventDispatcher(
	publisher EventPublisher,
	retry RetrySink,
	reactors []EventReactor,
	interceptors []DispatchInterceptor,
	logger *zap.Logger,
) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{
		publisher:    publisher,
		retry:        retry,
		reactors:     reactors,
		interceptors: interceptors,
		busWorthy: map[domain.EventKind]bool{
			domain.EventKindProductCreated: true,
		},
		logger: logger,
	}
}

// PublishAll delivers each event independently, in list order. The first
// failure stops the remaining deliveries and propagates.
func (d *EventDispatcher) PublishAll(ctx context.Context, events []domain.DomainEvent) error {
	for _, event := range events {
		if err := d.publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (d *EventDispatcher) publish(ctx context.Context, event domain.DomainEvent) error {
	for _, interceptor := range d.interceptors {
		interceptor.PreDispatch(ctx, event)
	}

	if d.busWorthy[event.Kind()] && d.publisher != nil {
		if err := d.publisher.Publish(ctx, event); err != nil {
			d.deferEvent(ctx, event)
			d.notifyError(ctx, event, err)
			return err
		}
	}

	for _, reactor := range d.reactors {
		if err := reactor.On(ctx, event); err != nil {
			d.notifyError(ctx, event, err)
			return err
		}
	}

	for _, interceptor := range d.interceptors {
		interceptor.PostDispatch(ctx, event)
	}
	return nil
}

func (d *EventDispatcher) deferEvent(ctx context.Context, event domain.DomainEvent) {
	if d.retry == nil {
		return
	}
	if err := d.retry.Defer(ctx, event); err != nil {
		d.logger.Error("failed to defer event for retry",
			zap.String("event_kind", string(event.Kind())),
			zap.String("aggregate_id", event.AggregateID()),
			zap.Error(err))
	}
}

func (d *EventDispatcher) notifyError(ctx context.Context, event domain.DomainEvent, err error) {
	for _, interceptor := range d.interceptors {
		interceptor.OnError(ctx, event, err)
	}
}
