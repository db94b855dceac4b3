package userstream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bruth/userstream/codec"
)

var defaultDecoder = &Decoder{codec: codec.Default}

type decoderOption func(o *Decoder) error

func (f decoderOption) addOption(o *Decoder) error {
	return f(o)
}

// DecoderOption models an option when creating a Decoder.
type DecoderOption interface {
	addOption(o *Decoder) error
}

// PayloadCodec sets the codec used to decode target objects and users.
// It must understand JSON. The default is "json".
func PayloadCodec(name string) DecoderOption {
	return decoderOption(func(o *Decoder) error {
		c, err := codec.Get(name)
		if err != nil {
			return err
		}
		if c == codec.MsgPack {
			return fmt.Errorf("%w: %s is not a JSON codec", codec.ErrNotRegistered, name)
		}
		o.codec = c
		return nil
	})
}

// Decoder decodes event objects. It holds no per-object state and is safe
// for concurrent use.
type Decoder struct {
	codec codec.Codec
}

func NewDecoder(opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{
		codec: codec.Default,
	}

	for _, o := range opts {
		if err := o.addOption(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// DecodeEvent reads the next event object from dec with the default Decoder.
func DecodeEvent(dec *json.Decoder) (*Event, error) {
	return defaultDecoder.Decode(dec)
}

// UnmarshalEvent decodes a single event object with the default Decoder.
func UnmarshalEvent(b []byte) (*Event, error) {
	return defaultDecoder.Unmarshal(b)
}

// Unmarshal decodes b, which must hold exactly one event object.
func (d *Decoder) Unmarshal(b []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(b))

	ev, err := d.Decode(dec)
	if errors.Is(err, io.EOF) {
		return nil, malformed(io.ErrUnexpectedEOF)
	}
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformed)
	}
	return ev, nil
}

// Decode reads the next event object from dec. The keys of the object may
// arrive in any order. Once created_at, event, target and source are known,
// the remaining keys are skipped without being interpreted, and dec is left
// positioned after the object.
//
// io.EOF is returned if dec holds no further input.
func (d *Decoder) Decode(dec *json.Decoder) (*Event, error) {
	r := objectReader{dec: dec}
	if err := r.begin(); err != nil {
		return nil, err
	}

	var b eventBuffer
	for {
		key, ok, err := r.nextKey()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}

		if err := d.decodeField(&r, &b, key); err != nil {
			return nil, err
		}

		if b.complete() {
			if err := r.drain(); err != nil {
				return nil, err
			}
			return b.event(), nil
		}
	}

	return nil, &MissingFieldError{Field: b.missing()}
}

func (d *Decoder) decodeField(r *objectReader, b *eventBuffer, key string) error {
	switch key {
	case "created_at":
		s, err := r.stringValue(key)
		if err != nil {
			return err
		}
		t, err := ParseDateTime(s)
		if err != nil {
			return err
		}
		b.createdAt = &t

	case "event":
		name, err := r.stringValue(key)
		if err != nil {
			return err
		}
		return d.resolveName(b, name)

	case "target_object":
		return d.resolveTargetObject(r, b)

	case "target":
		u, err := d.user(r)
		if err != nil {
			return err
		}
		b.target = u

	case "source":
		u, err := d.user(r)
		if err != nil {
			return err
		}
		b.source = u

	default:
		return r.skip()
	}

	return nil
}

func (d *Decoder) resolveName(b *eventBuffer, name string) error {
	if b.pendingObject != nil {
		k, err := newEventKind(d.codec, name, b.pendingObject)
		if err != nil {
			return err
		}
		b.resolve(k)
		b.pendingObject = nil
		return nil
	}

	t, known := tags[name]
	switch {
	case known && t.IsContainer():
		// Unresolved until its target object is read.
		b.kind = nil
		b.placeholder = false
		b.pendingName = &name
	case known:
		b.resolve(Label{Kind: t.Kind})
	default:
		b.resolve(Custom{EventName: name})
		b.placeholder = true
	}
	return nil
}

func (d *Decoder) resolveTargetObject(r *objectReader, b *eventBuffer) error {
	switch {
	case b.pendingName != nil:
		raw, err := r.rawValue()
		if err != nil {
			return err
		}
		k, err := newEventKind(d.codec, *b.pendingName, raw)
		if err != nil {
			return err
		}
		b.resolve(k)

	case b.kind == nil:
		raw, err := r.rawValue()
		if err != nil {
			return err
		}
		b.pendingObject = raw

	case b.placeholder:
		raw, err := r.rawValue()
		if err != nil {
			return err
		}
		k, err := newEventKind(d.codec, b.kind.Name(), raw)
		if err != nil {
			return err
		}
		b.resolve(k)

	default:
		return r.skip()
	}
	return nil
}

func (d *Decoder) user(r *objectReader) (*User, error) {
	raw, err := r.rawValue()
	if err != nil {
		return nil, err
	}
	var u User
	if err := d.codec.Unmarshal(raw, &u); err != nil {
		return nil, malformed(err)
	}
	return &u, nil
}

// eventBuffer holds the state of a single Decode call.
type eventBuffer struct {
	createdAt *time.Time
	kind      EventKind
	target    *User
	source    *User

	// Name of a container event whose target object has not been seen.
	pendingName *string
	// Target object seen before the event name.
	pendingObject json.RawMessage
	// Set when kind is a Custom resolved without its target object.
	placeholder bool
}

func (b *eventBuffer) resolve(k EventKind) {
	b.kind = k
	b.pendingName = nil
	b.placeholder = false
}

func (b *eventBuffer) complete() bool {
	return b.createdAt != nil && b.kind != nil && b.target != nil && b.source != nil
}

func (b *eventBuffer) event() *Event {
	return &Event{
		CreatedAt: *b.createdAt,
		Event:     b.kind,
		Target:    b.target,
		Source:    b.source,
	}
}

func (b *eventBuffer) missing() string {
	switch {
	case b.createdAt == nil:
		return "created_at"
	case b.target == nil:
		return "target"
	case b.source == nil:
		return "source"
	case b.pendingName != nil:
		return "target_object"
	default:
		return "event"
	}
}

// objectReader walks the key/value pairs of one JSON object on a token
// stream.
type objectReader struct {
	dec *json.Decoder
}

func (r *objectReader) begin() error {
	tok, err := r.dec.Token()
	if err == io.EOF {
		return io.EOF
	}
	if err != nil {
		return malformed(err)
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("%w: expected object, found %v", ErrMalformed, tok)
	}
	return nil
}

// nextKey returns the next key of the object. ok is false once the closing
// brace has been consumed.
func (r *objectReader) nextKey() (key string, ok bool, err error) {
	if !r.dec.More() {
		tok, err := r.dec.Token()
		if err != nil {
			return "", false, malformed(unexpectedEOF(err))
		}
		if tok != json.Delim('}') {
			return "", false, fmt.Errorf("%w: expected end of object, found %v", ErrMalformed, tok)
		}
		return "", false, nil
	}

	tok, err := r.dec.Token()
	if err != nil {
		return "", false, malformed(unexpectedEOF(err))
	}
	key, ok = tok.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: expected key, found %v", ErrMalformed, tok)
	}
	return key, true, nil
}

func (r *objectReader) stringValue(key string) (string, error) {
	var s *string
	if err := r.dec.Decode(&s); err != nil {
		return "", malformed(unexpectedEOF(err))
	}
	if s == nil {
		return "", fmt.Errorf("%w: %s must be a string", ErrMalformed, key)
	}
	return *s, nil
}

func (r *objectReader) rawValue() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := r.dec.Decode(&raw); err != nil {
		return nil, malformed(unexpectedEOF(err))
	}
	return raw, nil
}

// skip consumes the next value token by token without decoding it.
func (r *objectReader) skip() error {
	depth := 0
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return malformed(unexpectedEOF(err))
		}
		switch tok {
		case json.Delim('{'), json.Delim('['):
			depth++
		case json.Delim('}'), json.Delim(']'):
			depth--
		}
		if depth == 0 {
			return nil
		}
	}
}

// drain skips the remaining pairs of the object, including its closing brace.
func (r *objectReader) drain() error {
	for {
		_, ok, err := r.nextKey()
		if err != nil || !ok {
			return err
		}
		if err := r.skip(); err != nil {
			return err
		}
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
