package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
)

// LoggingCommandInterceptor logs every command dispatch. It records, never
// transforms.
type LoggingCommandInterceptor struct {
	logger *zap.Logger
}

func NewLoggingCommandInterceptor(logger *zap.Logger) *LoggingCommandInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingCommandInterceptor{logger: logger}
}

func (i *LoggingCommandInterceptor) PreProcess(ctx context.Context, cmd Command) {
	i.logger.Info("executing command", zap.String("kind", cmd.Kind()))
}

func (i *LoggingCommandInterceptor) PostProcess(ctx context.Context, cmd Command, result interface{}) {
	i.logger.Info("command completed", zap.String("kind", cmd.Kind()))
}

func (i *LoggingCommandInterceptor) OnError(ctx context.Context, cmd Command, err error) {
	i.logger.Error("command failed", zap.String("kind", cmd.Kind()), zap.Error(err))
}

// LoggingDispatchInterceptor logs event delivery.
type LoggingDispatchInterceptor struct {
	logger *zap.Logger
}

func NewLoggingDispatchInterceptor(logger *zap.Logger) *LoggingDispatchInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingDispatchInterceptor{logger: logger}
}

func (i *LoggingDispatchInterceptor) PreDispatch(ctx context.Context, event domain.DomainEvent) {
	i.logger.Info("dispatching event",
		zap.String("event_kind", string(event.Kind())),
		zap.String("aggregate_id", event.AggregateID()))
}

func (i *LoggingDispatchInterceptor) PostDispatch(ctx context.Context, event domain.DomainEvent) {
	i.logger.Info("event dispatched", zap.String("event_kind", string(event.Kind())))
}

func (i *LoggingDispatchInterceptor) OnError(ctx context.Context, event domain.DomainEvent, err error) {
	i.logger.Error("event dispatch failed",
		zap.String("event_kind", string(event.Kind())),
		zap.String("aggregate_id", event.AggregateID()),
		zap.Error(err))
}

var (
	_ CommandInterceptor  = (*LoggingCommandInterceptor)(nil)
	_ DispatchInterceptor = (*LoggingDispatchInterceptor)(nil)
)
