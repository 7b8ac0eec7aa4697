package notify

import (
	"context"

	"github.com/CosmoTheDev/tfwatch/models"
)

// Batch is one round's notification: a title plus the newline-joined
// finding lines, and the channel types that should carry it.
type Batch struct {
	Title   string
	Content string
	// Platforms filters which channel types send this batch; empty means
	// every configured channel.
	Platforms []string
}

// Channel is one configured notification endpoint. A channel type with
// several endpoints contributes one Channel per endpoint, so the dispatcher
// can fan them out and fail them independently.
type Channel interface {
	Name() string     // channel type: "webhook" | "wechat" | "bark"
	Endpoint() string // display-safe endpoint reference for logs
	IsConfigured() bool
	Send(ctx context.Context, batch Batch) models.SendOutcome
}
