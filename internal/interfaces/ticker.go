package interfaces

import (
	"context"

	"short-trading-bot/internal/types"
)

// TickStream delivers live price updates as typed events on a channel.
// Connection lifecycle (connect, reconnect) belongs to the implementation;
// after Stop no further ticks are delivered and the channel is closed.
type TickStream interface {
	Start(ctx context.Context) error
	Subscribe(ctx context.Context, symbols []string) error
	Ticks() <-chan types.Tick
	Stop(ctx context.Context)
}
