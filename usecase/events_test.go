package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/usecase"
)

type fakePublisher struct {
	published []domain.DomainEvent
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

type recordingReactor struct {
	calls *[]string
	tag   string
	err   error
}

func (r *recordingReactor) On(ctx context.Context, event domain.DomainEvent) error {
	*r.calls = append(*r.calls, r.tag)
	return r.err
}

type fakeRetrySink struct {
	deferred []domain.DomainEvent
}

func (s *fakeRetrySink) Defer(ctx context.Context, event domain.DomainEvent) error {
	s.deferred = append(s.deferred, event)
	return nil
}

type recordingDispatchInterceptor struct {
	calls *[]string
	tag   string
}

func (i *recordingDispatchInterceptor) PreDispatch(ctx context.Context, event domain.DomainEvent) {
	*i.calls = append(*i.calls, i.tag+":pre")
}

func (i *recordingDispatchInterceptor) PostDispatch(ctx context.Context, event domain.DomainEvent) {
	*i.calls = append(*i.calls, i.tag+":post")
}

func (i *recordingDispatchInterceptor) OnError(ctx context.Context, event domain.DomainEvent, err error) {
	*i.calls = append(*i.calls, i.tag+":error")
}

func TestEventDispatcher_PublishAll(t *testing.T) {
	var calls []string
	publisher := &fakePublisher{}
	dispatcher := usecase.NewEventDispatcher(
		publisher,
		nil,
		[]usecase.EventReactor{
			&recordingReactor{calls: &calls, tag: "lookup"},
			&recordingReactor{calls: &calls, tag: "cache"},
		},
		nil,
		nil,
	)

	event := domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0)
	if err := dispatcher.PublishAll(context.Background(), []domain.DomainEvent{event}); err != nil {
		t.Fatalf("PublishAll failed: %v", err)
	}

	if len(publisher.published) != 1 {
		t.Errorf("expected 1 bus publish, got %d", len(publisher.published))
	}
	if len(calls) != 2 || calls[0] != "lookup" || calls[1] != "cache" {
		t.Errorf("reactors ran as %v, want [lookup cache]", calls)
	}
}

func TestEventDispatcher_PublishFailureDefersAndPropagates(t *testing.T) {
	var calls []string
	publishErr := errors.New("stream down")
	publisher := &fakePublisher{err: publishErr}
	sink := &fakeRetrySink{}
	dispatcher := usecase.NewEventDispatcher(
		publisher,
		sink,
		[]usecase.EventReactor{&recordingReactor{calls: &calls, tag: "lookup"}},
		[]usecase.DispatchInterceptor{&recordingDispatchInterceptor{calls: &calls, tag: "log"}},
		nil,
	)

	event := domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0)
	err := dispatcher.PublishAll(context.Background(), []domain.DomainEvent{event})
	if !errors.Is(err, publishErr) {
		t.Fatalf("expected publish error to propagate, got %v", err)
	}

	if len(sink.deferred) != 1 {
		t.Fatalf("expected 1 deferred event, got %d", len(sink.deferred))
	}
	if sink.deferred[0].AggregateID() != "prod-1" {
		t.Errorf("deferred wrong event: %v", sink.deferred[0])
	}

	// Reactors must not run when the bus publish fails.
	want := []string{"log:pre", "log:error"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestEventDispatcher_ReactorFailureStopsChain(t *testing.T) {
	var calls []string
	reactorErr := errors.New("index write failed")
	dispatcher := usecase.NewEventDispatcher(
		&fakePublisher{},
		nil,
		[]usecase.EventReactor{
			&recordingReactor{calls: &calls, tag: "lookup", err: reactorErr},
			&recordingReactor{calls: &calls, tag: "cache"},
		},
		nil,
		nil,
	)

	event := domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0)
	err := dispatcher.PublishAll(context.Background(), []domain.DomainEvent{event})
	if !errors.Is(err, reactorErr) {
		t.Fatalf("expected reactor error to propagate, got %v", err)
	}
	if len(calls) != 1 || calls[0] != "lookup" {
		t.Errorf("calls = %v, want [lookup]", calls)
	}
}

func TestEventDispatcher_FirstFailureStopsRemaining(t *testing.T) {
	publishErr := errors.New("stream down")
	publisher := &fakePublisher{err: publishErr}
	dispatcher := usecase.NewEventDispatcher(publisher, nil, nil, nil, nil)

	events := []domain.DomainEvent{
		domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0),
		domain.NewProductCreatedEvent("prod-2", "Gadget", 4.99, 0),
	}
	err := dispatcher.PublishAll(context.Background(), events)
	if !errors.Is(err, publishErr) {
		t.Fatalf("expected publish error, got %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("no event should have been published, got %d", len(publisher.published))
	}
}

func TestEventDispatcher_InterceptorOrder(t *testing.T) {
	var calls []string
	dispatcher := usecase.NewEventDispatcher(
		&fakePublisher{},
		nil,
		[]usecase.EventReactor{&recordingReactor{calls: &calls, tag: "reactor"}},
		[]usecase.DispatchInterceptor{
			&recordingDispatchInterceptor{calls: &calls, tag: "a"},
			&recordingDispatchInterceptor{calls: &calls, tag: "b"},
		},
		nil,
	)

	event := domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0)
	if err := dispatcher.PublishAll(context.Background(), []domain.DomainEvent{event}); err != nil {
		t.Fatalf("PublishAll failed: %v", err)
	}

	want := []string{"a:pre", "b:pre", "reactor", "a:post", "b:post"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}
