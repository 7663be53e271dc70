package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/persistfsm/pkg/broadcast"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
)

// changeEvent names the server-sent event carrying a Change.
const changeEvent datastar.EventType = "change"

// Change is a committed order transition as seen by feed subscribers.
type Change struct {
	ID    int64     `json:"id"`
	From  State     `json:"from"`
	To    State     `json:"to"`
	Event Event     `json:"event"`
	At    time.Time `json:"at"`
}

// Feed is a persist listener that broadcasts every durable order change
// to in-process subscribers.
type Feed struct {
	persist.ListenerAdapter[int64, State, Event]
	b   broadcast.Broadcaster[Change]
	now func() time.Time
}

// NewFeed returns a Feed publishing through b.
func NewFeed(b broadcast.Broadcaster[Change]) *Feed {
	if b == nil {
		panic("orders: nil broadcaster")
	}
	return &Feed{b: b, now: time.Now}
}

func (f *Feed) AfterPersist(ctx context.Context, c persist.Change[int64, State, Event]) error {
	return f.b.Broadcast(ctx, Change{
		ID:    c.ID,
		From:  c.From,
		To:    c.To,
		Event: c.Event,
		At:    f.now().UTC(),
	})
}

// Subscribe returns a subscription that ends with ctx.
func (f *Feed) Subscribe(ctx context.Context) broadcast.Subscriber[Change] {
	return f.b.Subscribe(ctx)
}

// changeStream renders the feed as server-sent "change" events until the
// client goes away or the feed closes the subscription. Event ids count
// the changes sent on this stream.
type changeStream struct {
	feed *Feed
}

func (s changeStream) Render(w http.ResponseWriter, r *http.Request) error {
	sub := s.feed.Subscribe(r.Context())
	defer sub.Close()

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sse := datastar.NewSSE(w, r)

	var seq uint64
	for {
		select {
		case <-r.Context().Done():
			return nil
		case c, ok := <-sub.C():
			if !ok {
				return nil
			}
			data, err := json.Marshal(c)
			if err != nil {
				return err
			}
			seq++
			if err := sse.Send(changeEvent, []string{string(data)},
				datastar.WithSSEEventId(strconv.FormatUint(seq, 10)),
			); err != nil {
				return err
			}
		}
	}
}
