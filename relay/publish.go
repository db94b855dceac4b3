package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/codec"
	"github.com/bruth/userstream/internal/metrics"
)

const (
	kindHdr    = "Userstream-Kind"
	timeHdr    = "Userstream-Time"
	codecHdr   = "Userstream-Codec"
	timeFormat = time.RFC3339Nano
)

func packRecord(subject string, rec *Record, data []byte, codecName string) *nats.Msg {
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, rec.ID)
	msg.Header.Set(kindHdr, rec.Kind)
	msg.Header.Set(timeHdr, rec.CreatedAt.Format(timeFormat))
	msg.Header.Set(codecHdr, codecName)
	return msg
}

// UnpackRecord unpacks a Record from a NATS message. The stream sequence is
// returned when the message was delivered by JetStream, otherwise it is zero.
func UnpackRecord(msg *nats.Msg) (*Record, uint64, error) {
	codecName := msg.Header.Get(codecHdr)
	c, err := codec.Get(codecName)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownCodecHdr, codecName)
	}

	var rec Record
	if err := c.Unmarshal(msg.Data, &rec); err != nil {
		return nil, 0, fmt.Errorf("unpack: %s: %w", codecName, err)
	}

	// Only messages delivered by a JetStream consumer carry metadata.
	if msg.Reply == "" {
		return &rec, 0, nil
	}

	md, err := msg.Metadata()
	if err != nil {
		return nil, 0, fmt.Errorf("unpack: failed to get metadata: %w", err)
	}

	return &rec, md.Sequence.Stream, nil
}

// Subject returns the subject a record of the event kind is published to.
func (r *Relay) Subject(k userstream.EventKind) string {
	if _, ok := k.(userstream.Custom); ok {
		return fmt.Sprintf("%s.%s", r.prefix, ClassCustom)
	}
	return fmt.Sprintf("%s.%s", r.prefix, k.Name())
}

// Publish flattens the event into a record and publishes it. The record and
// the stream sequence it was stored at are returned.
func (r *Relay) Publish(ctx context.Context, ev *userstream.Event) (*Record, uint64, error) {
	rec := newRecord(ev, r.id.New(), r.clock.Now())

	data, err := r.codec.Marshal(rec)
	if err != nil {
		metrics.PublishErrors.Inc()
		return nil, 0, fmt.Errorf("relay: encode %s record: %w", rec.Kind, err)
	}

	msg := packRecord(r.Subject(ev.Event), rec, data, r.codecName)

	popts := []nats.PubOpt{nats.Context(ctx)}
	if r.stream != "" {
		popts = append(popts, nats.ExpectStream(r.stream))
	}

	t0 := time.Now()
	ack, err := r.js.PublishMsg(msg, popts...)
	metrics.PublishDuration.Observe(float64(time.Since(t0)) / float64(time.Millisecond))
	if err != nil {
		metrics.PublishErrors.Inc()
		return nil, 0, fmt.Errorf("relay: publish %s: %w", msg.Subject, err)
	}

	if ack.Duplicate {
		r.logger.Debug("duplicate record", "id", rec.ID, "seq", ack.Sequence)
	} else {
		metrics.RecordsPublished.WithLabelValues(rec.Class).Inc()
	}

	return rec, ack.Sequence, nil
}
