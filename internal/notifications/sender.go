package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender delivers batches of push messages to org members' devices.
// It speaks exponent SDK types directly; the indirection exists so handler
// tests can swap in a recorder instead of hitting Expo.
type PushSender interface {
	// Publish sends a batch; Expo accepts up to 100 messages per call.
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}
