package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/usecase"
)

type stubCommand struct {
	kind       string
	violations []string
}

func (c stubCommand) Kind() string       { return c.kind }
func (c stubCommand) Validate() []string { return c.violations }

type recordingInterceptor struct {
	calls *[]string
	tag   string
	panic bool
}

func (i *recordingInterceptor) PreProcess(ctx context.Context, cmd usecase.Command) {
	*i.calls = append(*i.calls, i.tag+":pre")
	if i.panic {
		panic("interceptor blew up")
	}
}

func (i *recordingInterceptor) PostProcess(ctx context.Context, cmd usecase.Command, result interface{}) {
	*i.calls = append(*i.calls, i.tag+":post")
}

func (i *recordingInterceptor) OnError(ctx context.Context, cmd usecase.Command, err error) {
	*i.calls = append(*i.calls, i.tag+":error")
}

func TestCommandBus_Dispatch(t *testing.T) {
	bus := usecase.NewCommandBus(nil)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		return "ok", nil
	})

	result, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.echo"})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
}

func TestCommandBus_ValidationFailure(t *testing.T) {
	var handled bool
	bus := usecase.NewCommandBus(nil)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		handled = true
		return nil, nil
	})

	_, err := bus.Dispatch(context.Background(), stubCommand{
		kind:       "test.echo",
		violations: []string{"name is required", "price must be positive"},
	})
	if !domain.IsDomainError(err, domain.ErrCodeValidation) {
		t.Fatalf("expected VALIDATION error, got %v", err)
	}
	if handled {
		t.Error("handler must not run when validation fails")
	}
}

func TestCommandBus_NoHandler(t *testing.T) {
	bus := usecase.NewCommandBus(nil)

	_, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.unknown"})
	if !domain.IsDomainError(err, domain.ErrCodeUnroutable) {
		t.Fatalf("expected UNROUTABLE error, got %v", err)
	}
}

func TestCommandBus_RegistrationReplaces(t *testing.T) {
	bus := usecase.NewCommandBus(nil)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		return "first", nil
	})
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		return "second", nil
	})

	result, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.echo"})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if result != "second" {
		t.Errorf("result = %v, want second (last registration wins)", result)
	}
}

func TestCommandBus_InterceptorOrder(t *testing.T) {
	var calls []string
	first := &recordingInterceptor{calls: &calls, tag: "a"}
	second := &recordingInterceptor{calls: &calls, tag: "b"}

	bus := usecase.NewCommandBus(nil, first, second)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		calls = append(calls, "handler")
		return nil, nil
	})

	if _, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.echo"}); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	want := []string{"a:pre", "b:pre", "handler", "a:post", "b:post"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestCommandBus_HandlerErrorNotifiesInterceptors(t *testing.T) {
	var calls []string
	interceptor := &recordingInterceptor{calls: &calls, tag: "a"}
	handlerErr := errors.New("boom")

	bus := usecase.NewCommandBus(nil, interceptor)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		return nil, handlerErr
	})

	_, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.echo"})
	if !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error to propagate unchanged, got %v", err)
	}

	want := []string{"a:pre", "a:error"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestCommandBus_InterceptorPanicIsolated(t *testing.T) {
	var calls []string
	panicking := &recordingInterceptor{calls: &calls, tag: "a", panic: true}

	bus := usecase.NewCommandBus(nil, panicking)
	bus.Register("test.echo", func(ctx context.Context, cmd usecase.Command) (interface{}, error) {
		return "ok", nil
	})

	result, err := bus.Dispatch(context.Background(), stubCommand{kind: "test.echo"})
	if err != nil {
		t.Fatalf("panicking interceptor must not fail the dispatch: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v, want ok", result)
	}
}
