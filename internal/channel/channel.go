// internal/channel/channel.go
package channel

import "context"

// MessageChannel is the outbound messaging boundary. Send delivers one
// message to one recipient and returns the provider's message id. The
// caller bounds the attempt with the context deadline.
type MessageChannel interface {
	Send(ctx context.Context, recipient, body, mediaURL string) (string, error)
}
