// Package notify provides best-effort notification dispatch. Delivery is
// decoupled from the transaction that produced the event: Dispatch returns
// immediately, failures are logged and discarded, and nothing ever rolls
// back an already-applied transition because a notification failed.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"storyforge/internal/model"
)

// Event is a notification produced by a game transition.
type Event struct {
	Type       model.EventType
	GameID     string
	Recipients []string // user ids
	Payload    map[string]any
}

// Sender delivers a single notification. Implementations own their transport
// and its timeout/retry policy.
type Sender interface {
	Send(ctx context.Context, event Event) error
}

// Dispatcher fans events out to a Sender asynchronously.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher around the given sender.
func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		timeout: 10 * time.Second,
	}
}

// Dispatch sends the event in a detached goroutine and returns immediately.
// Callers invoke it after their transaction commits.
func (d *Dispatcher) Dispatch(event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.sender.Send(ctx, event); err != nil {
			log.Warn().
				Err(err).
				Str("game_id", event.GameID).
				Str("event", string(event.Type)).
				Int("recipients", len(event.Recipients)).
				Msg("Notification delivery failed")
		}
	}()
}

// Wait blocks until all in-flight notifications finish. Used during
// graceful shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LogSender logs notifications instead of delivering them. It is the
// default sender when no transport is wired in.
type LogSender struct{}

// Send implements Sender.
func (LogSender) Send(_ context.Context, event Event) error {
	log.Info().
		Str("game_id", event.GameID).
		Str("event", string(event.Type)).
		Strs("recipients", event.Recipients).
		Msg("Notification")
	return nil
}
