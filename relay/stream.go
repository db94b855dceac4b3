package relay

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// StreamConfig is a subset of the nats.StreamConfig for the purpose of creating
// the stream records are published to.
type StreamConfig struct {
	// Name of the underlying stream.
	Name string
	// Description associated with the stream.
	Description string
	// Storage for the stream.
	Storage nats.StorageType
	// Replicas of the stream.
	Replicas int
	// MaxAge of records. Zero keeps records forever.
	MaxAge time.Duration
	// Duplicates is the window for de-duplicating records by ID.
	Duplicates time.Duration
}

// EnsureStream creates the stream bound to "<prefix>.>" or updates it if it
// already exists. It must be called before the relay is shared.
func (r *Relay) EnsureStream(config *StreamConfig) error {
	if config == nil || config.Name == "" {
		return ErrStreamRequired
	}

	sc := &nats.StreamConfig{
		Name:        config.Name,
		Description: config.Description,
		Subjects:    []string{fmt.Sprintf("%s.>", r.prefix)},
		Storage:     config.Storage,
		Replicas:    config.Replicas,
		MaxAge:      config.MaxAge,
		Duplicates:  config.Duplicates,
		DenyDelete:  true,
		DenyPurge:   true,
	}

	_, err := r.js.StreamInfo(config.Name)
	switch {
	case errors.Is(err, nats.ErrStreamNotFound):
		_, err = r.js.AddStream(sc)
	case err == nil:
		_, err = r.js.UpdateStream(sc)
	}
	if err != nil {
		return fmt.Errorf("relay: ensure stream %s: %w", config.Name, err)
	}

	r.logger.Info("stream ready", "stream", config.Name, "subjects", sc.Subjects)
	r.stream = config.Name
	return nil
}

// DeleteStream deletes the stream. It is mostly useful in tests.
func (r *Relay) DeleteStream(name string) error {
	if name == "" {
		return ErrStreamRequired
	}
	if err := r.js.DeleteStream(name); err != nil {
		return fmt.Errorf("relay: delete stream %s: %w", name, err)
	}
	if r.stream == name {
		r.stream = ""
	}
	return nil
}
