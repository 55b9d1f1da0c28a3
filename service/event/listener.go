package event

import (
	"context"
	"fmt"
	"sync"
)

// Listener dispatches every consumed event to handler on its own goroutine.
// An event whose handler panics is nacked; the queue decides whether to
// redeliver or dead letter it.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
}

// NewListener creates a stopped listener.
func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop cancels consumption. It does not wait, so a handler may call it.
func (l *Listener[T]) Stop() {
	l.cancel()
}

// Done is closed once the dispatch goroutine exits.
func (l *Listener[T]) Done() <-chan struct{} {
	return l.done
}

// Start launches the dispatch goroutine; subsequent calls are no-ops.
func (l *Listener[T]) Start() {
	l.startOnce.Do(func() {
		go l.run()
	})
}

func (l *Listener[T]) run() {
	defer close(l.done)
	for {
		msg, err := l.publisher.Next(l.ctx)
		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			continue
		}
		if msg == nil {
			continue
		}
		if err = l.dispatch(msg.T()); err != nil {
			_ = msg.Nack(err)
			continue
		}
		_ = msg.Ack()
	}
}

func (l *Listener[T]) dispatch(event *Event[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v handler panic: %v", event.Type(), r)
		}
	}()
	l.handler(event)
	return nil
}
