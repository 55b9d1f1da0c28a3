// Package messaging defines the queue abstraction used to hand lifecycle
// signals from the goroutine that emits them to the goroutine that handles
// them.
package messaging

import "context"

// Queue is a FIFO of payloads of type T.
type Queue[T any] interface {
	// Publish enqueues a copy of t.
	Publish(ctx context.Context, t *T) error

	// Consume blocks until a message is available or ctx is done.
	Consume(ctx context.Context) (Message[T], error)
}

// Message is a consumed queue entry.
type Message[T any] interface {
	// ID returns the message identifier.
	ID() string

	// T returns the payload.
	T() *T

	// Ack marks the message processed.
	Ack() error

	// Nack marks the message failed; implementations may redeliver it.
	Nack(err error) error
}
