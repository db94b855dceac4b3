package userstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/bruth/userstream/codec"
)

// Tag describes how the target object of a known event is decoded.
type Tag struct {
	Kind Kind

	// Init returns a pointer to a new target object value. It is nil for
	// events without a target object.
	Init func() any
}

// IsContainer reports whether events with this tag carry a target object.
func (t Tag) IsContainer() bool {
	return t.Init != nil
}

func newTweet() any { return &Tweet{} }

func newList() any { return &List{} }

// Index of known events. Not modified after initialization.
var tags = map[string]Tag{
	string(Favorite):             {Kind: Favorite, Init: newTweet},
	string(Unfavorite):           {Kind: Unfavorite, Init: newTweet},
	string(ListCreated):          {Kind: ListCreated, Init: newList},
	string(ListDestroyed):        {Kind: ListDestroyed, Init: newList},
	string(ListUpdated):          {Kind: ListUpdated, Init: newList},
	string(ListMemberAdded):      {Kind: ListMemberAdded, Init: newList},
	string(ListMemberRemoved):    {Kind: ListMemberRemoved, Init: newList},
	string(ListUserSubscribed):   {Kind: ListUserSubscribed, Init: newList},
	string(ListUserUnsubscribed): {Kind: ListUserUnsubscribed, Init: newList},
	string(QuotedTweet):          {Kind: QuotedTweet, Init: newTweet},

	string(AccessRevoked): {Kind: AccessRevoked},
	string(Block):         {Kind: Block},
	string(Unblock):       {Kind: Unblock},
	string(Follow):        {Kind: Follow},
	string(Unfollow):      {Kind: Unfollow},
	string(UserUpdate):    {Kind: UserUpdate},
}

// LookupTag returns the tag of a known event name.
func LookupTag(name string) (Tag, bool) {
	t, ok := tags[name]
	return t, ok
}

// Kinds returns the sorted names of all known events.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(tags))
	for _, t := range tags {
		kinds = append(kinds, t.Kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// newEventKind builds the EventKind for an event name and its raw target
// object. raw is nil if the event had no target object.
func newEventKind(c codec.Codec, name string, raw json.RawMessage) (EventKind, error) {
	t, ok := tags[name]
	if !ok {
		return Custom{EventName: name, TargetObject: raw}, nil
	}

	if !t.IsContainer() {
		return Label{Kind: t.Kind}, nil
	}

	if raw == nil || isNull(raw) {
		return nil, &PayloadError{Tag: name, Err: errPayloadNull}
	}

	v := t.Init()
	if err := c.Unmarshal(raw, v); err != nil {
		return nil, &PayloadError{Tag: name, Err: err}
	}

	switch x := v.(type) {
	case *Tweet:
		return Container{Kind: t.Kind, Tweet: x}, nil
	case *List:
		return Container{Kind: t.Kind, List: x}, nil
	default:
		return nil, &PayloadError{Tag: name, Err: fmt.Errorf("unsupported target object type %T", v)}
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
