package relay

import (
	"encoding/json"
	"time"

	"github.com/bruth/userstream"
)

// Event classes.
const (
	ClassContainer = "container"
	ClassLabel     = "label"
	ClassCustom    = "custom"
)

// Record is the flattened form of a decoded event that is published to the
// stream.
type Record struct {
	// ID is unique per published record and used as the NATS msg ID for
	// de-duplication.
	ID string `json:"id" msgpack:"id"`

	// Kind is the event name as it appeared on the wire.
	Kind  string `json:"kind" msgpack:"kind"`
	Class string `json:"class" msgpack:"class"`

	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
	ReceivedAt time.Time `json:"received_at" msgpack:"received_at"`

	Target Participant `json:"target" msgpack:"target"`
	Source Participant `json:"source" msgpack:"source"`

	// ObjectID is the tweet or list ID of container events.
	ObjectID int64 `json:"object_id,omitempty" msgpack:"object_id,omitempty"`

	// Object is the raw target object of custom events.
	Object json.RawMessage `json:"object,omitempty" msgpack:"object,omitempty"`
}

// Participant identifies the target or source user of an event.
type Participant struct {
	ID         int64  `json:"id" msgpack:"id"`
	ScreenName string `json:"screen_name" msgpack:"screen_name"`
}

func participant(u *userstream.User) Participant {
	if u == nil {
		return Participant{}
	}
	return Participant{ID: int64(u.ID), ScreenName: u.ScreenName}
}

func classOf(k userstream.EventKind) string {
	switch k.(type) {
	case userstream.Container:
		return ClassContainer
	case userstream.Label:
		return ClassLabel
	default:
		return ClassCustom
	}
}

func newRecord(ev *userstream.Event, id string, receivedAt time.Time) *Record {
	rec := &Record{
		ID:         id,
		Kind:       ev.Event.Name(),
		Class:      classOf(ev.Event),
		CreatedAt:  ev.CreatedAt,
		ReceivedAt: receivedAt,
		Target:     participant(ev.Target),
		Source:     participant(ev.Source),
	}

	switch k := ev.Event.(type) {
	case userstream.Container:
		if k.Tweet != nil {
			rec.ObjectID = int64(k.Tweet.ID)
		} else if k.List != nil {
			rec.ObjectID = int64(k.List.ID)
		}
	case userstream.Custom:
		rec.Object = k.TargetObject
	}

	return rec
}
