package usecase

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
)

// Command is an immutable description of an intended change. Validate returns
// the list of constraint violations; an empty list means the command may be
// handed to its handler.
type Command interface {
	Kind() string
	Validate() []string
}

// CommandHandler executes one command kind to completion.
type CommandHandler func(ctx context.Context, cmd Command) (interface{}, error)

// CommandInterceptor observes command dispatch. Hooks run in registration
// order on every path: pre before validation, post on success, on-error
// exactly once per failure. Hooks must not alter the command or result.
type CommandInterceptor interface {
	PreProcess(ctx context.Context, cmd Command)
	PostProcess(ctx context.Context, cmd Command, result interface{})
	OnError(ctx context.Context, cmd Command, err error)
}

// CommandBus validates commands and routes them to the handler registered
// for their kind. The handler table is filled during composition-root wiring;
// there is no global registry.
type CommandBus struct {
	handlers     map[string]CommandHandler
	interceptors []CommandInterceptor
	logger       *zap.Logger
	mu           sync.RWMutex
}

func NewCommandBus(logger *zap.Logger, interceptors ...CommandInterceptor) *CommandBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandBus{
		handlers:     make(map[string]CommandHandler),
		interceptors: interceptors,
		logger:       logger,
	}
}

// Register binds exactly one handler per command kind; re-registration
// replaces the prior binding.
func (b *CommandBus) Register(kind string, handler CommandHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = handler
}

// Dispatch validates the command, resolves its handler and runs it
// synchronously. Validation and routing failures surface before any side
// effect; handler errors propagate unchanged.
func (b *CommandBus) Dispatch(ctx context.Context, cmd Command) (interface{}, error) {
	for _, interceptor := range b.interceptors {
		b.safeHook(func() { interceptor.PreProcess(ctx, cmd) })
	}

	if violations := cmd.Validate(); len(violations) > 0 {
		err := domain.NewValidationError(violations)
		b.notifyError(ctx, cmd, err)
		return nil, err
	}

	b.mu.RLock()
	handler, ok := b.handlers[cmd.Kind()]
	b.mu.RUnlock()
	if !ok {
		err := domain.NewError(domain.ErrCodeUnroutable, fmt.Sprintf("no handler registered for command: %s", cmd.Kind()))
		b.notifyError(ctx, cmd, err)
		return nil, err
	}

	result, err := handler(ctx, cmd)
	if err != nil {
		b.notifyError(ctx, cmd, err)
		return nil, err
	}

	for _, interceptor := range b.interceptors {
		b.safeHook(func() { interceptor.PostProcess(ctx, cmd, result) })
	}
	return result, nil
}

func (b *CommandBus) notifyError(ctx context.Context, cmd Command, err error) {
	for _, interceptor := range b.interceptors {
		b.safeHook(func() { interceptor.OnError(ctx, cmd, err) })
	}
}

// safeHook isolates interceptor panics so a misbehaving hook cannot mask the
// primary outcome of a dispatch.
func (b *CommandBus) safeHook(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("command interceptor panicked", zap.Any("panic", r))
		}
	}()
	fn()
}
