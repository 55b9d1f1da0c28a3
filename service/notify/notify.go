// Package notify reports tree readiness to a service manager.
package notify

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/viant/modtree/logger"
)

// Notifier is told when the tree becomes ready and when it starts stopping.
type Notifier interface {
	Ready() error
	Stopping() error
}

// Systemd sends sd_notify messages over $NOTIFY_SOCKET. Without the socket
// every call is a no-op.
type Systemd struct {
	notify func(unsetEnvironment bool, state string) (bool, error)
	logger logger.Sink
}

// Ready sends READY=1.
func (s *Systemd) Ready() error { return s.send(daemon.SdNotifyReady) }

// Stopping sends STOPPING=1.
func (s *Systemd) Stopping() error { return s.send(daemon.SdNotifyStopping) }

// Status sends a free form STATUS= line.
func (s *Systemd) Status(status string) error { return s.send("STATUS=" + status) }

func (s *Systemd) send(state string) error {
	sent, err := s.notify(false, state)
	if err != nil {
		return fmt.Errorf("failed to notify systemd with %v: %w", state, err)
	}
	if !sent {
		s.logger.Info(fmt.Sprintf("systemd notification %v skipped: no notify socket", state))
	}
	return nil
}

// NewSystemd creates a systemd notifier.
func NewSystemd(sink logger.Sink) *Systemd {
	if sink == nil {
		sink = logger.Nop()
	}
	return &Systemd{notify: daemon.SdNotify, logger: sink.Named("notify")}
}

// Func adapts plain functions to Notifier; nil functions are no-ops.
type Func struct {
	OnReady    func() error
	OnStopping func() error
}

// Ready runs OnReady.
func (f Func) Ready() error {
	if f.OnReady == nil {
		return nil
	}
	return f.OnReady()
}

// Stopping runs OnStopping.
func (f Func) Stopping() error {
	if f.OnStopping == nil {
		return nil
	}
	return f.OnStopping()
}

// Multi notifies every notifier in order and returns the first error.
type Multi []Notifier

// Ready notifies every notifier.
func (m Multi) Ready() error {
	var first error
	for _, n := range m {
		if err := n.Ready(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Stopping notifies every notifier.
func (m Multi) Stopping() error {
	var first error
	for _, n := range m {
		if err := n.Stopping(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
