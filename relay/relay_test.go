package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/bruth/userstream"
	"github.com/bruth/userstream/id"
	"github.com/bruth/userstream/testutil"
)

const (
	targetJSON = `{"id":12,"screen_name":"jack","name":"Jack"}`
	sourceJSON = `{"id":783214,"screen_name":"twitter","name":"Twitter"}`

	favoriteJSON = `{"event":"favorite","created_at":"Mon Jul 16 12:59:01 +0000 2007","target":` + targetJSON + `,"source":` + sourceJSON + `,"target_object":{"id":20,"text":"just setting up my twttr"}}`
	followJSON   = `{"event":"follow","created_at":"Mon Jul 16 13:00:00 +0000 2007","target":` + targetJSON + `,"source":` + sourceJSON + `}`
	customJSON   = `{"event":"mute","created_at":"Mon Jul 16 13:01:00 +0000 2007","target":` + targetJSON + `,"source":` + sourceJSON + `,"target_object":{"reason":"noise"}}`
)

type fixedID string

func (f fixedID) New() string {
	return string(f)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRelay(t *testing.T, nc *nats.Conn, prefix string, opts ...Option) *Relay {
	t.Helper()
	opts = append([]Option{Subject(prefix), Logger(discard())}, opts...)
	r, err := New(nc, opts...)
	if err != nil {
		t.Fatal(err)
	}
	stream := strings.ToUpper(prefix)
	if err := r.EnsureStream(&StreamConfig{Name: stream, Storage: nats.MemoryStorage}); err != nil {
		t.Fatal(err)
	}
	return r
}

func nextRecord(t *testing.T, sub *nats.Subscription) (*Record, uint64, string) {
	t.Helper()
	msg, err := sub.NextMsg(2 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	rec, seq, err := UnpackRecord(msg)
	if err != nil {
		t.Fatal(err)
	}
	return rec, seq, msg.Subject
}

func TestRelayPublish(t *testing.T) {
	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	js, _ := nc.JetStream()

	for _, name := range []string{"json", "stdjson", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			is := testutil.NewIs(t)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			clk := testutil.NewClock(time.Second)
			ids := testutil.NewIDGen(id.NUID)
			prefix := "events_" + name

			r := newRelay(t, nc, prefix, Codec(name), Clock(clk), ID(ids))

			ev, err := r.Decode([]byte(favoriteJSON))
			is.NoErr(err)

			nextID := ids.Next()
			rec, seq, err := r.Publish(ctx, ev)
			is.NoErr(err)
			is.Equal(seq, uint64(1))
			is.Equal(rec.ID, nextID)
			is.Equal(rec.Kind, "favorite")
			is.Equal(rec.Class, ClassContainer)
			is.Equal(rec.ObjectID, int64(20))
			is.Equal(rec.ReceivedAt, clk.Last())
			is.Equal(rec.Target, Participant{ID: 12, ScreenName: "jack"})
			is.Equal(rec.Source, Participant{ID: 783214, ScreenName: "twitter"})

			sub, err := js.SubscribeSync(prefix+".>", nats.DeliverAll())
			is.NoErr(err)
			defer sub.Unsubscribe()

			got, gotSeq, subject := nextRecord(t, sub)
			is.Equal(subject, prefix+".favorite")
			is.Equal(gotSeq, uint64(1))
			is.Equal(got, rec)
		})
	}
}

func TestRelayPublishDuplicate(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := newRelay(t, nc, "events", ID(fixedID("abc")))

	ev, err := r.Decode([]byte(followJSON))
	is.NoErr(err)

	_, seq, err := r.Publish(ctx, ev)
	is.NoErr(err)
	is.Equal(seq, uint64(1))

	// Same ID is de-duplicated by the stream.
	_, seq, err = r.Publish(ctx, ev)
	is.NoErr(err)
	is.Equal(seq, uint64(1))
}

func TestRelaySubject(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	r, err := New(nc, Subject("events"))
	is.NoErr(err)

	is.Equal(r.Subject(userstream.Label{Kind: userstream.Block}), "events.block")
	is.Equal(r.Subject(userstream.Container{Kind: userstream.ListCreated}), "events.list_created")
	is.Equal(r.Subject(userstream.Custom{EventName: "mute"}), "events.custom")

	_, err = New(nc, Subject("events.>"))
	is.Err(err, ErrInvalidPrefix)

	_, err = New(nc, Codec("protobuf"))
	is.True(err != nil)

	is.Err(r.EnsureStream(&StreamConfig{}), ErrStreamRequired)
}

func TestRelaySubscribe(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	js, _ := nc.JetStream()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := newRelay(t, nc, "events")

	stop, err := r.Subscribe(ctx, "feed.raw")
	is.NoErr(err)
	defer stop()

	// The malformed message in between is dropped.
	is.NoErr(nc.Publish("feed.raw", []byte(followJSON)))
	is.NoErr(nc.Publish("feed.raw", []byte(`{"event":`)))
	is.NoErr(nc.Publish("feed.raw", []byte(customJSON)))
	is.NoErr(nc.Flush())

	sub, err := js.SubscribeSync("events.>", nats.DeliverAll())
	is.NoErr(err)
	defer sub.Unsubscribe()

	rec, seq, subject := nextRecord(t, sub)
	is.Equal(seq, uint64(1))
	is.Equal(subject, "events.follow")
	is.Equal(rec.Class, ClassLabel)

	rec, seq, subject = nextRecord(t, sub)
	is.Equal(seq, uint64(2))
	is.Equal(subject, "events.custom")
	is.Equal(rec.Kind, "mute")
	is.Equal(rec.Class, ClassCustom)
	is.Equal(string(rec.Object), `{"reason":"noise"}`)

	stop()

	// Nothing is handled after stopping.
	is.NoErr(nc.Publish("feed.raw", []byte(followJSON)))
	is.NoErr(nc.Flush())
	_, err = sub.NextMsg(100 * time.Millisecond)
	is.Err(err, nats.ErrTimeout)
}

func TestRelayRun(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	r := newRelay(t, nc, "events")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, "feed.raw")
	}()

	cancel()

	select {
	case err := <-done:
		is.NoErr(err)
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRelayPump(t *testing.T) {
	is := testutil.NewIs(t)

	srv := testutil.NewNatsServer(-1)
	defer testutil.ShutdownNatsServer(srv)

	nc, _ := nats.Connect(srv.ClientURL())
	defer nc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r := newRelay(t, nc, "events")

	in := strings.Join([]string{favoriteJSON, followJSON, customJSON}, "\n")
	n, err := r.Pump(ctx, strings.NewReader(in))
	is.NoErr(err)
	is.Equal(n, 3)

	// The second object is missing its source.
	in = followJSON + `{"event":"block","created_at":"Mon Jul 16 13:00:00 +0000 2007","target":` + targetJSON + `}` + followJSON
	n, err = r.Pump(ctx, strings.NewReader(in))
	is.Equal(n, 1)

	var mfe *userstream.MissingFieldError
	is.True(errors.As(err, &mfe))
	is.Equal(mfe.Field, "source")
}

func TestUnpackRecordUnknownCodec(t *testing.T) {
	is := testutil.NewIs(t)

	msg := nats.NewMsg("events.follow")
	msg.Header.Set(codecHdr, "protobuf")
	msg.Data = []byte(`{}`)

	_, _, err := UnpackRecord(msg)
	is.Err(err, ErrUnknownCodecHdr)
}

func TestNewRecord(t *testing.T) {
	at := time.Date(2007, 7, 16, 12, 59, 1, 0, time.UTC)
	target := &userstream.User{ID: 12, ScreenName: "jack"}

	tests := []struct {
		Name  string
		Event *userstream.Event
		Want  *Record
	}{
		{
			Name: "list container",
			Event: &userstream.Event{
				CreatedAt: at,
				Event:     userstream.Container{Kind: userstream.ListMemberAdded, List: &userstream.List{ID: 574}},
				Target:    target,
			},
			Want: &Record{ID: "1", Kind: "list_member_added", Class: ClassContainer, CreatedAt: at, ReceivedAt: at, Target: Participant{ID: 12, ScreenName: "jack"}, ObjectID: 574},
		},
		{
			Name: "label",
			Event: &userstream.Event{
				CreatedAt: at,
				Event:     userstream.Label{Kind: userstream.Unblock},
				Source:    target,
			},
			Want: &Record{ID: "1", Kind: "unblock", Class: ClassLabel, CreatedAt: at, ReceivedAt: at, Source: Participant{ID: 12, ScreenName: "jack"}},
		},
		{
			Name: "custom without object",
			Event: &userstream.Event{
				CreatedAt: at,
				Event:     userstream.Custom{EventName: "mute"},
			},
			Want: &Record{ID: "1", Kind: "mute", Class: ClassCustom, CreatedAt: at, ReceivedAt: at},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			is := testutil.NewIs(t)
			is.Equal(newRecord(test.Event, "1", at), test.Want)
		})
	}
}
