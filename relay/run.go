package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/internal/metrics"
)

const pendingMsgs = 256

func reason(err error) string {
	var (
		mfe *userstream.MissingFieldError
		dte *userstream.DateTimeError
		pe  *userstream.PayloadError
	)
	switch {
	case errors.As(err, &mfe):
		return metrics.ReasonMissingField
	case errors.As(err, &dte):
		return metrics.ReasonDateTime
	case errors.As(err, &pe):
		return metrics.ReasonPayload
	default:
		return metrics.ReasonMalformed
	}
}

func (r *Relay) observe(ev *userstream.Event, err error) {
	if err != nil {
		metrics.DecodeErrors.WithLabelValues(reason(err)).Inc()
		return
	}
	metrics.EventsDecoded.WithLabelValues(classOf(ev.Event)).Inc()
}

// Decode decodes a single raw event message.
func (r *Relay) Decode(data []byte) (*userstream.Event, error) {
	ev, err := r.decoder.Unmarshal(data)
	r.observe(ev, err)
	return ev, err
}

// Handle decodes a raw event message and publishes its record.
func (r *Relay) Handle(ctx context.Context, data []byte) (*Record, error) {
	ev, err := r.Decode(data)
	if err != nil {
		return nil, err
	}
	rec, _, err := r.Publish(ctx, ev)
	return rec, err
}

// Subscribe handles every message published on subject until stop is called
// or the context is done. Messages that fail are logged and dropped.
func (r *Relay) Subscribe(ctx context.Context, subject string) (stop func(), err error) {
	ch := make(chan *nats.Msg, pendingMsgs)
	sub, err := r.nc.ChanSubscribe(subject, ch)
	if err != nil {
		return nil, fmt.Errorf("relay: subscribe %s: %w", subject, err)
	}
	if err := r.nc.Flush(); err != nil {
		sub.Unsubscribe()
		return nil, fmt.Errorf("relay: subscribe %s: %w", subject, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-ch:
				if _, err := r.Handle(ctx, msg.Data); err != nil {
					r.logger.Warn("dropped event message", "subject", msg.Subject, "size", len(msg.Data), "err", err)
				}
			}
		}
	}()

	r.logger.Info("relay subscribed", "subject", subject)

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Unsubscribe()
			cancel()
			wg.Wait()
		})
	}, nil
}

// Run subscribes to subject and blocks until the context is done.
func (r *Relay) Run(ctx context.Context, subject string) error {
	stop, err := r.Subscribe(ctx, subject)
	if err != nil {
		return err
	}
	<-ctx.Done()
	stop()
	r.logger.Info("relay stopped", "subject", subject)
	return nil
}

// Pump decodes consecutive event objects from rd and publishes each one. It
// returns the number of records published. A decode error stops the pump
// since the position in the byte stream cannot be recovered.
func (r *Relay) Pump(ctx context.Context, rd io.Reader) (int, error) {
	dec := json.NewDecoder(rd)

	var n int
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		ev, err := r.decoder.Decode(dec)
		if err == io.EOF {
			return n, nil
		}
		r.observe(ev, err)
		if err != nil {
			return n, fmt.Errorf("relay: event %d: %w", n+1, err)
		}

		if _, _, err := r.Publish(ctx, ev); err != nil {
			return n, err
		}
		n++
	}
}
