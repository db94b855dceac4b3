/*
Package userstream decodes the event objects of a user stream.

Decoding

An event object carries its name under "event" and, for some names, a tweet or
list under "target_object". Keys may arrive in any order.

	ev, err := userstream.UnmarshalEvent(data)

Consecutive objects on a byte stream are decoded with a shared json.Decoder.
Keys that follow a complete event are skipped so the decoder is left at the
start of the next object.

	dec := json.NewDecoder(r)
	for {
		ev, err := userstream.DecodeEvent(dec)
		if err == io.EOF {
			break
		}
		...
	}

Kinds

Event.Event is a Container for names that carry a payload, a Label for names
that do not and a Custom for names that are not known.

	switch k := ev.Event.(type) {
	case userstream.Container:
		// k.Tweet or k.List is set.
	case userstream.Label:
	case userstream.Custom:
		// k.TargetObject is the raw payload, if any.
	}

Relaying

The relay package publishes decoded events to a NATS JetStream stream.
*/
package userstream
