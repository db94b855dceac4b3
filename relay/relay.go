// Package relay moves decoded stream events onto a NATS JetStream stream.
//
// Raw event messages arrive either on a core NATS subject (Subscribe, Run) or
// as consecutive JSON objects on a byte stream (Pump). Each one is decoded,
// flattened into a Record, encoded with the configured codec and published
// to "<prefix>.<event name>", or "<prefix>.custom" for unknown events.
package relay

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/clock"
	"github.com/bruth/userstream/codec"
	"github.com/bruth/userstream/id"
)

const defaultPrefix = "userstream.events"

var (
	ErrStreamRequired  = errors.New("relay: stream name required")
	ErrInvalidPrefix   = errors.New("relay: invalid subject prefix")
	ErrUnknownCodecHdr = errors.New("relay: unknown record codec")
)

type relayOption func(o *Relay) error

func (f relayOption) addOption(o *Relay) error {
	return f(o)
}

// Option models an option when creating a Relay.
type Option interface {
	addOption(o *Relay) error
}

// Codec sets the codec records are encoded with. Default is "json".
func Codec(name string) Option {
	return relayOption(func(o *Relay) error {
		c, err := codec.Get(name)
		if err != nil {
			return err
		}
		o.codec = c
		o.codecName = name
		return nil
	})
}

// Clock sets a clock implementation. Default is clock.Time.
func Clock(clock clock.Clock) Option {
	return relayOption(func(o *Relay) error {
		o.clock = clock
		return nil
	})
}

// ID sets a unique ID generator implementation. Default is id.NUID.
func ID(id id.ID) Option {
	return relayOption(func(o *Relay) error {
		o.id = id
		return nil
	})
}

// Subject sets the subject prefix records are published under.
func Subject(prefix string) Option {
	return relayOption(func(o *Relay) error {
		if prefix == "" || strings.ContainsAny(prefix, "*> \t") {
			return ErrInvalidPrefix
		}
		o.prefix = prefix
		return nil
	})
}

// Logger sets the logger. Default is slog.Default().
func Logger(l *slog.Logger) Option {
	return relayOption(func(o *Relay) error {
		o.logger = l
		return nil
	})
}

// Decoder sets the event decoder. Default uses the "json" payload codec.
func Decoder(d *userstream.Decoder) Option {
	return relayOption(func(o *Relay) error {
		o.decoder = d
		return nil
	})
}

type Relay struct {
	nc *nats.Conn
	js nats.JetStreamContext

	// Name of the stream set by EnsureStream, used as a publish expectation.
	stream string

	prefix    string
	codec     codec.Codec
	codecName string
	decoder   *userstream.Decoder
	id        id.ID
	clock     clock.Clock
	logger    *slog.Logger
}

// New initializes a new Relay with a NATS connection.
func New(nc *nats.Conn, opts ...Option) (*Relay, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	r := &Relay{
		nc:        nc,
		js:        js,
		prefix:    defaultPrefix,
		codec:     codec.Default,
		codecName: "json",
		id:        id.NUID,
		clock:     clock.Time,
		logger:    slog.Default(),
	}

	for _, o := range opts {
		if err := o.addOption(r); err != nil {
			return nil, err
		}
	}

	if r.decoder == nil {
		r.decoder, err = userstream.NewDecoder()
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}
