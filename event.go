package userstream

import (
	"encoding/json"
	"time"
)

// Event is a notification about a non-Tweet event sent over a stream.
//
// The meaning of Target and Source depends on the event, for example:
//
//	| Description                | Event             | Source          | Target        |
//	| -------------------------- | ----------------- | --------------- | ------------- |
//	| User blocks someone        | block             | Current user    | Blocked user  |
//	| User favorites a Tweet     | favorite          | Current user    | Tweet author  |
//	| User's Tweet is favorited  | favorite          | Favoriting user | Current user  |
//	| User follows someone       | follow            | Current user    | Followed user |
//	| User is added to a list    | list_member_added | Adding user     | Current user  |
//	| User's Tweet is quoted     | quoted_tweet      | Quoting user    | Current user  |
//	| User updates their profile | user_update       | Current user    | Current user  |
type Event struct {
	CreatedAt time.Time

	// Event indicates the name of the event and carries the target object,
	// if the event has one.
	Event EventKind

	Target *User
	Source *User
}

// UnmarshalJSON decodes a single event object with the default Decoder.
func (e *Event) UnmarshalJSON(b []byte) error {
	ev, err := defaultDecoder.Unmarshal(b)
	if err != nil {
		return err
	}
	*e = *ev
	return nil
}

// Kind is the name of a known event.
type Kind string

const (
	Favorite             Kind = "favorite"
	Unfavorite           Kind = "unfavorite"
	ListCreated          Kind = "list_created"
	ListDestroyed        Kind = "list_destroyed"
	ListUpdated          Kind = "list_updated"
	ListMemberAdded      Kind = "list_member_added"
	ListMemberRemoved    Kind = "list_member_removed"
	ListUserSubscribed   Kind = "list_user_subscribed"
	ListUserUnsubscribed Kind = "list_user_unsubscribed"
	QuotedTweet          Kind = "quoted_tweet"

	AccessRevoked Kind = "access_revoked"
	Block         Kind = "block"
	Unblock       Kind = "unblock"
	Follow        Kind = "follow"
	Unfollow      Kind = "unfollow"
	UserUpdate    Kind = "user_update"
)

// EventKind is the name of an event together with its target object.
// It is one of Container, Label or Custom.
type EventKind interface {
	// Name returns the event name as it appeared on the wire.
	Name() string

	eventKind()
}

// Container is a known event that carries a target object. Tweet is set for
// favorite, unfavorite and quoted_tweet; List is set for the list events.
type Container struct {
	Kind  Kind
	Tweet *Tweet
	List  *List
}

func (c Container) Name() string { return string(c.Kind) }

func (Container) eventKind() {}

// Label is a known event without a target object.
type Label struct {
	Kind Kind
}

func (l Label) Name() string { return string(l.Kind) }

func (Label) eventKind() {}

// Custom is an event this package does not know. TargetObject is the raw
// target object as it appeared on the wire, including a JSON null, or nil
// if the event had none.
type Custom struct {
	EventName    string
	TargetObject json.RawMessage
}

func (c Custom) Name() string { return c.EventName }

func (Custom) eventKind() {}
