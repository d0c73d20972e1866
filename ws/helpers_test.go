package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chuck21619/cardtable/journal"
	"github.com/chuck21619/cardtable/table"
)

var errLookup = errors.New("lookup failed")

type fakeProvider struct {
	mu     sync.Mutex
	calls  []string
	gates  map[string]chan struct{}
	fail   map[string]bool
	random int

	// started receives the name of every lookup as it begins.
	started chan string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		gates:   make(map[string]chan struct{}),
		fail:    make(map[string]bool),
		started: make(chan string, 64),
	}
}

// hold makes lookups of name block until the returned func is called.
func (p *fakeProvider) hold(name string) func() {
	gate := make(chan struct{})
	p.mu.Lock()
	p.gates[name] = gate
	p.mu.Unlock()
	return func() { close(gate) }
}

func (p *fakeProvider) failOn(name string) {
	p.mu.Lock()
	p.fail[name] = true
	p.mu.Unlock()
}

func (p *fakeProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func (p *fakeProvider) Resolve(ctx context.Context, name string) (table.Card, error) {
	p.mu.Lock()
	p.calls = append(p.calls, name)
	gate := p.gates[name]
	fail := p.fail[name]
	if name == "" {
		p.random++
		name = fmt.Sprintf("Random %d", p.random)
	}
	p.mu.Unlock()

	p.started <- name

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return table.Card{}, ctx.Err()
		}
	}
	if fail {
		return table.Card{}, errLookup
	}
	return table.Card{Name: name, URL: "https://img.example/" + name + ".png"}, nil
}

// memJournal keeps recorded entries in memory.
type memJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (j *memJournal) Record(_ context.Context, e journal.Entry) error {
	j.mu.Lock()
	j.entries = append(j.entries, e)
	j.mu.Unlock()
	return nil
}

func (j *memJournal) Events() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	for i, e := range j.entries {
		out[i] = e.Event
	}
	return out
}

type harness struct {
	room     *Room
	server   *httptest.Server
	provider *fakeProvider
	journal  *memJournal
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.CardLimit == 0 {
		opts.CardLimit = table.DefaultCardLimit
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = 50
	}
	if opts.RateWindow == 0 {
		opts.RateWindow = time.Minute
	}

	log := zap.NewNop()
	pool := NewPool(8, log)
	require.NoError(t, pool.Start())
	t.Cleanup(pool.Stop)

	provider := newFakeProvider()
	rec := &memJournal{}
	room := NewRoom(opts, provider, rec, pool, log)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		room.Run(ctx)
		close(stopped)
	}()

	server := httptest.NewServer(NewHub(room, "", log))
	t.Cleanup(func() {
		server.Close()
		cancel()
		<-stopped
	})

	return &harness{room: room, server: server, provider: provider, journal: rec}
}

type testConn struct {
	t    *testing.T
	conn *websocket.Conn
}

// dial connects a client and consumes the initial card sync.
func (h *harness) dial(t *testing.T) (*testConn, []table.Card) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	c := &testConn{t: t, conn: conn}
	msg := c.next()
	require.Equal(t, EventCards, msg.Type)
	return c, decodeData[[]table.Card](t, msg)
}

func (c *testConn) send(eventType string, data any) {
	c.t.Helper()
	frame := map[string]any{"type": eventType}
	if data != nil {
		frame["data"] = data
	}
	require.NoError(c.t, c.conn.WriteJSON(frame))
}

func (c *testConn) next() Message {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg Message
	require.NoError(c.t, c.conn.ReadJSON(&msg))
	return msg
}

// cardsWhere skips messages until a cards snapshot satisfies pred.
func (c *testConn) cardsWhere(pred func([]table.Card) bool) []table.Card {
	c.t.Helper()
	for {
		msg := c.next()
		if msg.Type != EventCards {
			continue
		}
		cards := decodeData[[]table.Card](c.t, msg)
		if pred(cards) {
			return cards
		}
	}
}

func (c *testConn) cardsOfLen(n int) []table.Card {
	c.t.Helper()
	return c.cardsWhere(func(cards []table.Card) bool { return len(cards) == n })
}

// sync round-trips a getDecks request and returns every message that was
// queued for this client before the reply.
func (c *testConn) sync() []Message {
	c.t.Helper()
	c.send(EventGetDecks, nil)
	var before []Message
	for {
		msg := c.next()
		if msg.Type == EventDecks {
			return before
		}
		before = append(before, msg)
	}
}

func decodeData[T any](t *testing.T, msg Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Data, &v))
	return v
}

func names(cards []table.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}

func (h *harness) waitStarted(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-h.provider.started:
		case <-time.After(3 * time.Second):
			t.Fatalf("lookup %d did not start", i+1)
		}
	}
}
